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
	"sync"

	"github.com/blinklabs-io/seedvault/address"
)

const defaultReservePerByte = 6960

// Program executes instructions addressed to its program ID against a staged
// transaction view
type Program interface {
	ID() address.Address
	Execute(txn *Txn, ix Instruction) error
}

// Store is an in-memory account store with atomic, all-or-nothing transaction
// application. Two concurrent Submit calls that touch the same accounts are
// serialized by the store; the loser observes the first transaction's effects
// (including closed accounts) and fails cleanly.
type Store struct {
	mu             sync.RWMutex
	accounts       map[address.Address]*Account
	programs       map[address.Address]Program
	reservePerByte uint64
}

type StoreOptionFunc func(*Store)

// WithPrograms registers program handlers with the store
func WithPrograms(programs ...Program) StoreOptionFunc {
	return func(s *Store) {
		for _, p := range programs {
			s.programs[p.ID()] = p
		}
	}
}

// WithReservePerByte overrides the per-byte rent-exempt reserve charged at
// account creation and refunded on close
func WithReservePerByte(reserve uint64) StoreOptionFunc {
	return func(s *Store) {
		s.reservePerByte = reserve
	}
}

// NewStore returns a Store with the provided options applied
func NewStore(options ...StoreOptionFunc) *Store {
	s := &Store{
		accounts:       map[address.Address]*Account{},
		programs:       map[address.Address]Program{},
		reservePerByte: defaultReservePerByte,
	}
	for _, option := range options {
		option(s)
	}
	return s
}

// reserve returns the rent-exempt reserve for a payload of the given size
func (s *Store) reserve(payloadLen int) uint64 {
	// Flat account overhead plus payload size. Actual rent economics are
	// out of scope; the reserve only needs to round-trip through close.
	return (128 + uint64(payloadLen)) * s.reservePerByte
}

// Get returns a copy of the account at the provided address
func (s *Store) Get(addr address.Address) (Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	acct, ok := s.accounts[addr]
	if !ok {
		return Account{}, AccountNotFoundError{Address: addr}
	}
	ret := Account{
		Owner:   acct.Owner,
		Payload: make([]byte, len(acct.Payload)),
		Balance: acct.Balance,
	}
	copy(ret.Payload, acct.Payload)
	return ret, nil
}

// Balance returns the balance of the account at the provided address
func (s *Store) Balance(addr address.Address) (uint64, error) {
	acct, err := s.Get(addr)
	if err != nil {
		return 0, err
	}
	return acct.Balance, nil
}

// Fund credits the provided amount to a wallet account, creating a
// system-owned account if none exists. It stands in for a faucet or genesis
// allocation and is intended for tests and demos.
func (s *Store) Fund(addr address.Address, amount uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.accounts[addr]
	if !ok {
		acct = &Account{Owner: SystemProgramID}
		s.accounts[addr] = acct
	}
	acct.Balance += amount
}

// Submit signs, verifies, and applies a transaction. Signers provide witness
// signatures over the transaction hash, and every account any instruction
// marks as a signer must be covered by one. Derived addresses cannot sign
// here: their seeds are public, so a seed proof only carries authority when
// the owning program presents it through Txn.Invoke. Instructions run in
// order against a staged view and commit only if every one of them succeeds.
func (s *Store) Submit(
	tx *Transaction,
	signers []address.Keypair,
) (*Receipt, error) {
	if len(tx.Instructions) == 0 {
		return nil, fmt.Errorf("empty transaction")
	}
	txHash, err := tx.Hash()
	if err != nil {
		return nil, err
	}
	msg := txHash.Bytes()
	// Build and verify the witness set
	signed := map[address.Address]bool{}
	for _, signer := range signers {
		w := Witness{
			PublicKey: signer.Address().Bytes(),
			Signature: signer.Sign(msg),
		}
		if err := VerifyWitness(w, msg); err != nil {
			return nil, fmt.Errorf("invalid witness: %w", err)
		}
		signed[signer.Address()] = true
	}
	for _, required := range tx.RequiredSigners() {
		if !signed[required] {
			return nil, MissingSignatureError{Address: required}
		}
	}
	// Execute against a staged view, holding the write lock so concurrent
	// transactions serialize
	s.mu.Lock()
	defer s.mu.Unlock()
	txn := newTxn(s, signed)
	for idx, ix := range tx.Instructions {
		program, ok := s.programs[ix.ProgramID]
		if !ok {
			return nil, InstructionError{
				Index: idx,
				Err:   UnknownProgramError{ProgramID: ix.ProgramID},
			}
		}
		txn.current = ix.ProgramID
		if err := program.Execute(txn, ix); err != nil {
			return nil, InstructionError{Index: idx, Err: err}
		}
	}
	txn.commit()
	return &Receipt{Hash: txHash}, nil
}
