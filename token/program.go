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

package token

import (
	"fmt"
	"math"

	"github.com/blinklabs-io/seedvault/address"
	"github.com/blinklabs-io/seedvault/ledger"
)

// Program is the token program handler
type Program struct{}

// NewProgram returns the token program handler for store registration
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
	case opInitializeMint:
		return p.initializeMint(txn, ix)
	case opInitializeAccount:
		return p.initializeAccount(txn, ix)
	case opMintTo:
		return p.mintTo(txn, ix)
	case opTransferChecked:
		return p.transferChecked(txn, ix)
	case opCloseAccount:
		return p.closeAccount(txn, ix)
	default:
		return ErrInvalidInstructionData
	}
}

// requireSigner checks that an authority actually signed, rather than
// trusting the builder-supplied signer flag
func requireSigner(txn *ledger.Txn, addr address.Address) error {
	if !txn.IsSigner(addr) {
		return ledger.MissingSignatureError{Address: addr}
	}
	return nil
}

func (p *Program) initializeMint(
	txn *ledger.Txn,
	ix ledger.Instruction,
) error {
	if len(ix.Accounts) != 2 {
		return fmt.Errorf(
			"%w: expected 2 accounts, got %d",
			ErrInvalidInstructionData,
			len(ix.Accounts),
		)
	}
	var data initializeMintData
	if err := ledger.UnmarshalPayload(ix.Data[1:], &data); err != nil {
		return ErrInvalidInstructionData
	}
	payer := ix.Accounts[0].Address
	mint := ix.Accounts[1].Address
	// The mint address is a fresh keypair and must co-sign its own creation
	if err := requireSigner(txn, mint); err != nil {
		return err
	}
	payload, err := ledger.MarshalPayload(Mint{
		Authority: data.Authority,
		Decimals:  data.Decimals,
	})
	if err != nil {
		return err
	}
	return txn.CreateAccount(mint, payload, payer)
}

func (p *Program) initializeAccount(
	txn *ledger.Txn,
	ix ledger.Instruction,
) error {
	if len(ix.Accounts) != 4 {
		return fmt.Errorf(
			"%w: expected 4 accounts, got %d",
			ErrInvalidInstructionData,
			len(ix.Accounts),
		)
	}
	payer := ix.Accounts[0].Address
	account := ix.Accounts[1].Address
	authority := ix.Accounts[2].Address
	mint := ix.Accounts[3].Address
	// The mint must exist and decode
	mintAcct, err := txn.Account(mint)
	if err != nil {
		return err
	}
	if _, err := DecodeMint(mintAcct); err != nil {
		return err
	}
	// The account address is never trusted from the caller
	derived, _, err := AccountAddress(authority, mint)
	if err != nil {
		return err
	}
	if derived != account {
		return address.AddressMismatchError{
			Expected: account,
			Derived:  derived,
		}
	}
	payload, err := ledger.MarshalPayload(Account{
		Mint:      mint,
		Authority: authority,
	})
	if err != nil {
		return err
	}
	return txn.CreateAccount(account, payload, payer)
}

func (p *Program) mintTo(txn *ledger.Txn, ix ledger.Instruction) error {
	if len(ix.Accounts) != 3 {
		return fmt.Errorf(
			"%w: expected 3 accounts, got %d",
			ErrInvalidInstructionData,
			len(ix.Accounts),
		)
	}
	var data mintToData
	if err := ledger.UnmarshalPayload(ix.Data[1:], &data); err != nil {
		return ErrInvalidInstructionData
	}
	mint := ix.Accounts[0].Address
	destination := ix.Accounts[1].Address
	authority := ix.Accounts[2].Address
	mintAcct, err := txn.Account(mint)
	if err != nil {
		return err
	}
	mintRec, err := DecodeMint(mintAcct)
	if err != nil {
		return err
	}
	if authority != mintRec.Authority {
		return fmt.Errorf(
			"%w: %s is not the mint authority",
			ledger.ErrUnauthorized,
			authority.String(),
		)
	}
	if err := requireSigner(txn, authority); err != nil {
		return err
	}
	destAcct, err := txn.Account(destination)
	if err != nil {
		return err
	}
	destRec, err := DecodeAccount(destAcct)
	if err != nil {
		return err
	}
	if destRec.Mint != mint {
		return ErrMintMismatch
	}
	// Supply and balances must never wrap
	if data.Amount > math.MaxUint64-mintRec.Supply {
		return fmt.Errorf(
			"%w: minting %d would exceed the maximum supply",
			ErrAmountOverflow,
			data.Amount,
		)
	}
	if data.Amount > math.MaxUint64-destRec.Amount {
		return fmt.Errorf(
			"%w: minting %d would wrap the destination balance",
			ErrAmountOverflow,
			data.Amount,
		)
	}
	mintRec.Supply += data.Amount
	destRec.Amount += data.Amount
	if err := setRecord(txn, mint, mintRec); err != nil {
		return err
	}
	return setRecord(txn, destination, destRec)
}

func (p *Program) transferChecked(
	txn *ledger.Txn,
	ix ledger.Instruction,
) error {
	if len(ix.Accounts) != 4 {
		return fmt.Errorf(
			"%w: expected 4 accounts, got %d",
			ErrInvalidInstructionData,
			len(ix.Accounts),
		)
	}
	var data transferCheckedData
	if err := ledger.UnmarshalPayload(ix.Data[1:], &data); err != nil {
		return ErrInvalidInstructionData
	}
	source := ix.Accounts[0].Address
	mint := ix.Accounts[1].Address
	destination := ix.Accounts[2].Address
	authority := ix.Accounts[3].Address
	sourceAcct, err := txn.Account(source)
	if err != nil {
		return err
	}
	sourceRec, err := DecodeAccount(sourceAcct)
	if err != nil {
		return err
	}
	mintAcct, err := txn.Account(mint)
	if err != nil {
		return err
	}
	mintRec, err := DecodeMint(mintAcct)
	if err != nil {
		return err
	}
	destAcct, err := txn.Account(destination)
	if err != nil {
		return err
	}
	destRec, err := DecodeAccount(destAcct)
	if err != nil {
		return err
	}
	if sourceRec.Mint != mint || destRec.Mint != mint {
		return ErrMintMismatch
	}
	// Unit-confusion guard: the caller states the decimals it believes the
	// mint has, and a disagreement fails the transfer
	if data.Decimals != mintRec.Decimals {
		return DecimalsMismatchError{
			Expected: data.Decimals,
			Actual:   mintRec.Decimals,
		}
	}
	if authority != sourceRec.Authority {
		return fmt.Errorf(
			"%w: %s is not the source account authority",
			ledger.ErrUnauthorized,
			authority.String(),
		)
	}
	if err := requireSigner(txn, authority); err != nil {
		return err
	}
	if sourceRec.Amount < data.Amount {
		return ledger.InsufficientFundsError{
			Address:   source,
			Needed:    data.Amount,
			Available: sourceRec.Amount,
		}
	}
	if data.Amount > math.MaxUint64-destRec.Amount {
		return fmt.Errorf(
			"%w: transferring %d would wrap the destination balance",
			ErrAmountOverflow,
			data.Amount,
		)
	}
	sourceRec.Amount -= data.Amount
	destRec.Amount += data.Amount
	if err := setRecord(txn, source, sourceRec); err != nil {
		return err
	}
	return setRecord(txn, destination, destRec)
}

func (p *Program) closeAccount(
	txn *ledger.Txn,
	ix ledger.Instruction,
) error {
	if len(ix.Accounts) != 3 {
		return fmt.Errorf(
			"%w: expected 3 accounts, got %d",
			ErrInvalidInstructionData,
			len(ix.Accounts),
		)
	}
	account := ix.Accounts[0].Address
	destination := ix.Accounts[1].Address
	authority := ix.Accounts[2].Address
	acct, err := txn.Account(account)
	if err != nil {
		return err
	}
	rec, err := DecodeAccount(acct)
	if err != nil {
		return err
	}
	if authority != rec.Authority {
		return fmt.Errorf(
			"%w: %s is not the token account authority",
			ledger.ErrUnauthorized,
			authority.String(),
		)
	}
	if err := requireSigner(txn, authority); err != nil {
		return err
	}
	// A close must never strand tokens: drain first, close second
	if rec.Amount != 0 {
		return AccountNotEmptyError{Amount: rec.Amount}
	}
	return txn.CloseAccount(account, destination)
}

// setRecord writes a token record back into its account payload
func setRecord(txn *ledger.Txn, addr address.Address, record any) error {
	payload, err := ledger.MarshalPayload(record)
	if err != nil {
		return err
	}
	return txn.SetPayload(addr, payload)
}
