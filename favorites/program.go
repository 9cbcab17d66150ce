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

package favorites

import (
	"errors"
	"fmt"

	"github.com/blinklabs-io/seedvault/address"
	"github.com/blinklabs-io/seedvault/ledger"
)

const (
	opSet          = 0x00
	opUpdate       = 0x01
	opSetAuthority = 0x02
)

type setData struct {
	_      struct{} `cbor:",toarray"`
	Number uint64
	Color  string
}

type updateData struct {
	_      struct{} `cbor:",toarray"`
	Number *uint64
	Color  *string
}

type setAuthorityData struct {
	_        struct{} `cbor:",toarray"`
	Delegate *address.Address
}

func encodeData(op byte, body any) []byte {
	ret := []byte{op}
	encoded, err := ledger.MarshalPayload(body)
	if err != nil {
		panic(fmt.Sprintf("unexpected error encoding instruction: %s", err))
	}
	return append(ret, encoded...)
}

// NewSetInstruction creates a user's record at its derived address
func NewSetInstruction(
	user address.Address,
	record address.Address,
	number uint64,
	color string,
) ledger.Instruction {
	return ledger.Instruction{
		ProgramID: ProgramID,
		Accounts: []ledger.AccountMeta{
			ledger.WritableSigner(user),
			ledger.Writable(record),
		},
		Data: encodeData(opSet, setData{Number: number, Color: color}),
	}
}

// NewUpdateInstruction partially updates the record of the target user. The
// signer need not be the target user, but must pass the owner-or-delegate
// check.
func NewUpdateInstruction(
	signer address.Address,
	record address.Address,
	user address.Address,
	number *uint64,
	color *string,
) ledger.Instruction {
	return ledger.Instruction{
		ProgramID: ProgramID,
		Accounts: []ledger.AccountMeta{
			ledger.Signer(signer),
			ledger.Writable(record),
			ledger.ReadOnly(user),
		},
		Data: encodeData(opUpdate, updateData{Number: number, Color: color}),
	}
}

// NewSetAuthorityInstruction sets or clears the delegate on the owner's own
// record. The record address derives from the owner's seeds, so a non-owner
// cannot even address someone else's record with this instruction.
func NewSetAuthorityInstruction(
	owner address.Address,
	record address.Address,
	delegate *address.Address,
) ledger.Instruction {
	return ledger.Instruction{
		ProgramID: ProgramID,
		Accounts: []ledger.AccountMeta{
			ledger.Signer(owner),
			ledger.Writable(record),
		},
		Data: encodeData(opSetAuthority, setAuthorityData{Delegate: delegate}),
	}
}

// Program is the favorites program handler
type Program struct{}

// NewProgram returns the favorites program handler for store registration
func NewProgram() *Program {
	return &Program{}
}

func (p *Program) ID() address.Address {
	return ProgramID
}

func (p *Program) Execute(txn *ledger.Txn, ix ledger.Instruction) error {
	if len(ix.Data) < 1 {
		return ErrInvalidInstructionData
	}
	switch ix.Data[0] {
	case opSet:
		return p.set(txn, ix)
	case opUpdate:
		return p.update(txn, ix)
	case opSetAuthority:
		return p.setAuthority(txn, ix)
	default:
		return ErrInvalidInstructionData
	}
}

// verifyRecordAddress re-derives the record address from the user's seeds
// and rejects a caller-supplied address that disagrees
func verifyRecordAddress(
	user address.Address,
	provided address.Address,
) error {
	derived, _, err := RecordAddress(user)
	if err != nil {
		return err
	}
	if derived != provided {
		return address.AddressMismatchError{
			Expected: provided,
			Derived:  derived,
		}
	}
	return nil
}

func (p *Program) set(txn *ledger.Txn, ix ledger.Instruction) error {
	if len(ix.Accounts) != 2 {
		return fmt.Errorf(
			"%w: expected 2 accounts, got %d",
			ErrInvalidInstructionData,
			len(ix.Accounts),
		)
	}
	var data setData
	if err := ledger.UnmarshalPayload(ix.Data[1:], &data); err != nil {
		return ErrInvalidInstructionData
	}
	user := ix.Accounts[0].Address
	record := ix.Accounts[1].Address
	if !txn.IsSigner(user) {
		return ledger.MissingSignatureError{Address: user}
	}
	if err := validateColor(data.Color); err != nil {
		return err
	}
	if err := verifyRecordAddress(user, record); err != nil {
		return err
	}
	payload, err := ledger.MarshalPayload(Favorites{
		Number: data.Number,
		Color:  data.Color,
		Owner:  user,
	})
	if err != nil {
		return err
	}
	if err := txn.CreateAccount(record, payload, user); err != nil {
		if errors.Is(err, ledger.ErrAccountExists) {
			return DuplicateRecordError{User: user}
		}
		return err
	}
	return nil
}

func (p *Program) update(txn *ledger.Txn, ix ledger.Instruction) error {
	if len(ix.Accounts) != 3 {
		return fmt.Errorf(
			"%w: expected 3 accounts, got %d",
			ErrInvalidInstructionData,
			len(ix.Accounts),
		)
	}
	var data updateData
	if err := ledger.UnmarshalPayload(ix.Data[1:], &data); err != nil {
		return ErrInvalidInstructionData
	}
	signer := ix.Accounts[0].Address
	record := ix.Accounts[1].Address
	user := ix.Accounts[2].Address
	if !txn.IsSigner(signer) {
		return ledger.MissingSignatureError{Address: signer}
	}
	if err := verifyRecordAddress(user, record); err != nil {
		return err
	}
	acct, err := txn.Account(record)
	if err != nil {
		return err
	}
	rec, err := DecodeFavorites(acct)
	if err != nil {
		return err
	}
	if err := Authorize(signer, rec.Owner, rec.Delegate); err != nil {
		return err
	}
	// Partial update: only the supplied fields change
	if data.Number != nil {
		rec.Number = *data.Number
	}
	if data.Color != nil {
		if err := validateColor(*data.Color); err != nil {
			return err
		}
		rec.Color = *data.Color
	}
	payload, err := ledger.MarshalPayload(rec)
	if err != nil {
		return err
	}
	return txn.SetPayload(record, payload)
}

func (p *Program) setAuthority(txn *ledger.Txn, ix ledger.Instruction) error {
	if len(ix.Accounts) != 2 {
		return fmt.Errorf(
			"%w: expected 2 accounts, got %d",
			ErrInvalidInstructionData,
			len(ix.Accounts),
		)
	}
	var data setAuthorityData
	if err := ledger.UnmarshalPayload(ix.Data[1:], &data); err != nil {
		return ErrInvalidInstructionData
	}
	owner := ix.Accounts[0].Address
	record := ix.Accounts[1].Address
	if !txn.IsSigner(owner) {
		return ledger.MissingSignatureError{Address: owner}
	}
	// The record address derives from the signer's own seeds, which is what
	// makes delegating someone else's record structurally impossible
	if err := verifyRecordAddress(owner, record); err != nil {
		return err
	}
	acct, err := txn.Account(record)
	if err != nil {
		return err
	}
	rec, err := DecodeFavorites(acct)
	if err != nil {
		return err
	}
	rec.Delegate = data.Delegate
	payload, err := ledger.MarshalPayload(rec)
	if err != nil {
		return err
	}
	return txn.SetPayload(record, payload)
}
