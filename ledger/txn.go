// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ledger

import (
	"fmt"

	"github.com/blinklabs-io/seedvault/address"
	"github.com/jinzhu/copier"
)

// Txn is the staged view a program executes against. Mutations land in the
// staging area and only reach the store when every instruction in the
// transaction succeeds.
type Txn struct {
	store   *Store
	staged  map[address.Address]*Account
	deleted map[address.Address]bool
	signers map[address.Address]bool
	current address.Address
}

func newTxn(store *Store, signers map[address.Address]bool) *Txn {
	return &Txn{
		store:   store,
		staged:  map[address.Address]*Account{},
		deleted: map[address.Address]bool{},
		signers: signers,
	}
}

// load returns the staged account for the address, copying it out of the
// store on first access
func (t *Txn) load(addr address.Address) (*Account, error) {
	if t.deleted[addr] {
		return nil, AccountNotFoundError{Address: addr}
	}
	if acct, ok := t.staged[addr]; ok {
		return acct, nil
	}
	src, ok := t.store.accounts[addr]
	if !ok {
		return nil, AccountNotFoundError{Address: addr}
	}
	acct := &Account{}
	if err := copier.CopyWithOption(
		acct,
		src,
		copier.Option{DeepCopy: true},
	); err != nil {
		return nil, fmt.Errorf("unexpected error staging account: %w", err)
	}
	t.staged[addr] = acct
	return acct, nil
}

// exists reports whether the address currently resolves to an account in
// this transaction's view
func (t *Txn) exists(addr address.Address) bool {
	if t.deleted[addr] {
		return false
	}
	if _, ok := t.staged[addr]; ok {
		return true
	}
	_, ok := t.store.accounts[addr]
	return ok
}

// ProgramID returns the ID of the currently executing program
func (t *Txn) ProgramID() address.Address {
	return t.current
}

// IsSigner reports whether the address signed the transaction, either with a
// witness signature or a verified seed proof
func (t *Txn) IsSigner(addr address.Address) bool {
	return t.signers[addr]
}

// Account returns a copy of the account at the provided address
func (t *Txn) Account(addr address.Address) (Account, error) {
	acct, err := t.load(addr)
	if err != nil {
		return Account{}, err
	}
	ret := Account{
		Owner:   acct.Owner,
		Payload: make([]byte, len(acct.Payload)),
		Balance: acct.Balance,
	}
	copy(ret.Payload, acct.Payload)
	return ret, nil
}

// CreateAccount creates an account owned by the executing program, charging
// the rent-exempt reserve to the payer. The payer must have signed the
// transaction.
func (t *Txn) CreateAccount(
	addr address.Address,
	payload []byte,
	payer address.Address,
) error {
	if t.exists(addr) {
		return AccountExistsError{Address: addr}
	}
	if !t.IsSigner(payer) {
		return MissingSignatureError{Address: payer}
	}
	payerAcct, err := t.load(payer)
	if err != nil {
		return err
	}
	reserve := t.store.reserve(len(payload))
	if payerAcct.Balance < reserve {
		return InsufficientFundsError{
			Address:   payer,
			Needed:    reserve,
			Available: payerAcct.Balance,
		}
	}
	payerAcct.Balance -= reserve
	acct := &Account{
		Owner:   t.current,
		Payload: make([]byte, len(payload)),
		Balance: reserve,
	}
	copy(acct.Payload, payload)
	delete(t.deleted, addr)
	t.staged[addr] = acct
	return nil
}

// SetPayload replaces the payload of an account owned by the executing
// program
func (t *Txn) SetPayload(addr address.Address, payload []byte) error {
	acct, err := t.load(addr)
	if err != nil {
		return err
	}
	if acct.Owner != t.current {
		return fmt.Errorf(
			"%w: program %s does not own account %s",
			ErrUnauthorized,
			t.current.String(),
			addr.String(),
		)
	}
	acct.Payload = make([]byte, len(payload))
	copy(acct.Payload, payload)
	return nil
}

// CloseAccount removes an account owned by the executing program, sweeping
// its remaining balance (the rent-exempt reserve) to the destination. The
// address no longer resolves for the rest of the transaction, or ever again
// unless explicitly re-created.
func (t *Txn) CloseAccount(
	addr address.Address,
	destination address.Address,
) error {
	acct, err := t.load(addr)
	if err != nil {
		return err
	}
	if acct.Owner != t.current {
		return fmt.Errorf(
			"%w: program %s does not own account %s",
			ErrUnauthorized,
			t.current.String(),
			addr.String(),
		)
	}
	destAcct, err := t.load(destination)
	if err != nil {
		return err
	}
	destAcct.Balance += acct.Balance
	delete(t.staged, addr)
	t.deleted[addr] = true
	return nil
}

// Invoke executes a nested instruction from within a program. Seed proofs
// provided here must belong to the calling program: a program can only sign
// with its own derived addresses. The proven addresses count as signers for
// the nested instruction only.
func (t *Txn) Invoke(
	ix Instruction,
	proofs ...address.AuthorityToken,
) error {
	program, ok := t.store.programs[ix.ProgramID]
	if !ok {
		return UnknownProgramError{ProgramID: ix.ProgramID}
	}
	var added []address.Address
	for _, proof := range proofs {
		if proof.ProgramID != t.current {
			return fmt.Errorf(
				"%w: seed proof program %s does not match caller %s",
				ErrUnauthorized,
				proof.ProgramID.String(),
				t.current.String(),
			)
		}
		proofAddr, err := proof.Address()
		if err != nil {
			return fmt.Errorf("invalid seed proof: %w", err)
		}
		if !t.signers[proofAddr] {
			t.signers[proofAddr] = true
			added = append(added, proofAddr)
		}
	}
	caller := t.current
	t.current = ix.ProgramID
	err := program.Execute(t, ix)
	t.current = caller
	for _, addr := range added {
		delete(t.signers, addr)
	}
	return err
}

// commit applies the staged changes to the store. The caller must hold the
// store's write lock.
func (t *Txn) commit() {
	for addr := range t.deleted {
		delete(t.store.accounts, addr)
	}
	for addr, acct := range t.staged {
		t.store.accounts[addr] = acct
	}
}
