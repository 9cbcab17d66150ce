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

package escrow

import (
	"errors"
	"fmt"

	"github.com/blinklabs-io/seedvault/address"
	"github.com/blinklabs-io/seedvault/ledger"
	"github.com/blinklabs-io/seedvault/token"
)

// Program is the escrow program handler
type Program struct{}

// NewProgram returns the escrow program handler for store registration
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
	case opMakeOffer:
		return p.makeOffer(txn, ix)
	case opAcceptOffer:
		return p.acceptOffer(txn, ix)
	case opCancelOffer:
		return p.cancelOffer(txn, ix)
	default:
		return ErrInvalidInstructionData
	}
}

func requireSigner(txn *ledger.Txn, addr address.Address) error {
	if !txn.IsSigner(addr) {
		return ledger.MissingSignatureError{Address: addr}
	}
	return nil
}

// mintDecimals loads and decodes a mint to learn its decimals
func mintDecimals(
	txn *ledger.Txn,
	mint address.Address,
) (uint8, error) {
	acct, err := txn.Account(mint)
	if err != nil {
		return 0, err
	}
	rec, err := token.DecodeMint(acct)
	if err != nil {
		return 0, err
	}
	return rec.Decimals, nil
}

// vaultFor derives and verifies the vault address for an offer. The vault is
// always the offer PDA's canonical token account for mint A.
func vaultFor(
	offerAddr address.Address,
	mintA address.Address,
	provided address.Address,
) error {
	derived, _, err := token.AccountAddress(offerAddr, mintA)
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

// tokenAccountAuthority verifies that a token account belongs to the
// expected authority
func tokenAccountAuthority(
	txn *ledger.Txn,
	account address.Address,
	expected address.Address,
) error {
	acct, err := txn.Account(account)
	if err != nil {
		return err
	}
	rec, err := token.DecodeAccount(acct)
	if err != nil {
		return err
	}
	if rec.Authority != expected {
		return fmt.Errorf(
			"%w: token account %s does not belong to %s",
			ErrInvalidAccountData,
			account.String(),
			expected.String(),
		)
	}
	return nil
}

func (p *Program) makeOffer(txn *ledger.Txn, ix ledger.Instruction) error {
	if len(ix.Accounts) != makeAccountCount {
		return fmt.Errorf(
			"%w: expected %d accounts, got %d",
			ErrInvalidInstructionData,
			makeAccountCount,
			len(ix.Accounts),
		)
	}
	var data makeOfferData
	if err := ledger.UnmarshalPayload(ix.Data[1:], &data); err != nil {
		return ErrInvalidInstructionData
	}
	maker := ix.Accounts[makeIdxMaker].Address
	mintA := ix.Accounts[makeIdxMintA].Address
	mintB := ix.Accounts[makeIdxMintB].Address
	makerTokenA := ix.Accounts[makeIdxMakerTokenA].Address
	offerAddr := ix.Accounts[makeIdxOffer].Address
	vault := ix.Accounts[makeIdxVault].Address
	if data.AmountADeposit == 0 || data.AmountBWanted == 0 {
		return fmt.Errorf(
			"%w: deposit and wanted amounts must be non-zero",
			ErrInvalidAmount,
		)
	}
	if err := requireSigner(txn, maker); err != nil {
		return err
	}
	// The offer address is always recomputed, never trusted from the caller
	derived, bump, err := OfferAddress(maker, data.ID)
	if err != nil {
		return err
	}
	if derived != offerAddr {
		return address.AddressMismatchError{
			Expected: offerAddr,
			Derived:  derived,
		}
	}
	offer := Offer{
		ID:            data.ID,
		Maker:         maker,
		TokenMintA:    mintA,
		TokenMintB:    mintB,
		AmountBWanted: data.AmountBWanted,
		Bump:          bump,
	}
	payload, err := ledger.MarshalPayload(offer)
	if err != nil {
		return err
	}
	if err := txn.CreateAccount(offerAddr, payload, maker); err != nil {
		if errors.Is(err, ledger.ErrAccountExists) {
			return DuplicateOfferError{Maker: maker, ID: data.ID}
		}
		return err
	}
	if err := vaultFor(offerAddr, mintA, vault); err != nil {
		return err
	}
	decimals, err := mintDecimals(txn, mintA)
	if err != nil {
		return err
	}
	// Create the vault with the offer PDA as its spending authority, then
	// fund it from the maker's token account
	if err := txn.Invoke(
		token.NewInitializeAccountInstruction(maker, vault, offerAddr, mintA),
	); err != nil {
		return err
	}
	return txn.Invoke(
		token.NewTransferCheckedInstruction(
			makerTokenA,
			mintA,
			vault,
			maker,
			data.AmountADeposit,
			decimals,
		),
	)
}

func (p *Program) acceptOffer(txn *ledger.Txn, ix ledger.Instruction) error {
	if len(ix.Accounts) != acceptAccountCount {
		return fmt.Errorf(
			"%w: expected %d accounts, got %d",
			ErrInvalidInstructionData,
			acceptAccountCount,
			len(ix.Accounts),
		)
	}
	taker := ix.Accounts[acceptIdxTaker].Address
	maker := ix.Accounts[acceptIdxMaker].Address
	offerAddr := ix.Accounts[acceptIdxOffer].Address
	vault := ix.Accounts[acceptIdxVault].Address
	mintA := ix.Accounts[acceptIdxMintA].Address
	mintB := ix.Accounts[acceptIdxMintB].Address
	takerTokenA := ix.Accounts[acceptIdxTakerTokenA].Address
	takerTokenB := ix.Accounts[acceptIdxTakerTokenB].Address
	makerTokenB := ix.Accounts[acceptIdxMakerTokenB].Address
	if err := requireSigner(txn, taker); err != nil {
		return err
	}
	// A settled offer no longer resolves, which is the double-settlement
	// guard: this lookup fails with an account-not-found error
	offerAcct, err := txn.Account(offerAddr)
	if err != nil {
		return err
	}
	offer, err := DecodeOffer(offerAcct)
	if err != nil {
		return err
	}
	// Re-validate the stored bump against a fresh derivation
	derived, err := offer.Address()
	if err != nil {
		return err
	}
	if derived != offerAddr {
		return address.AddressMismatchError{
			Expected: offerAddr,
			Derived:  derived,
		}
	}
	if maker != offer.Maker {
		return fmt.Errorf(
			"%w: maker account does not match offer",
			ErrInvalidAccountData,
		)
	}
	if mintA != offer.TokenMintA || mintB != offer.TokenMintB {
		return ErrMintMismatch
	}
	if err := vaultFor(offerAddr, mintA, vault); err != nil {
		return err
	}
	if err := tokenAccountAuthority(txn, takerTokenA, taker); err != nil {
		return err
	}
	if err := tokenAccountAuthority(txn, makerTokenB, offer.Maker); err != nil {
		return err
	}
	decimalsA, err := mintDecimals(txn, mintA)
	if err != nil {
		return err
	}
	decimalsB, err := mintDecimals(txn, mintB)
	if err != nil {
		return err
	}
	vaultAcct, err := txn.Account(vault)
	if err != nil {
		return err
	}
	vaultRec, err := token.DecodeAccount(vaultAcct)
	if err != nil {
		return err
	}
	// Taker pays the wanted amount of mint B to the maker
	if err := txn.Invoke(
		token.NewTransferCheckedInstruction(
			takerTokenB,
			mintB,
			makerTokenB,
			taker,
			offer.AmountBWanted,
			decimalsB,
		),
	); err != nil {
		return err
	}
	// The vault's full balance goes to the taker, signed by the offer's
	// derived address
	signer := offer.SignerToken()
	if err := txn.Invoke(
		token.NewTransferCheckedInstruction(
			vault,
			mintA,
			takerTokenA,
			offerAddr,
			vaultRec.Amount,
			decimalsA,
		),
		signer,
	); err != nil {
		return err
	}
	if err := txn.Invoke(
		token.NewCloseAccountInstruction(vault, offer.Maker, offerAddr),
		signer,
	); err != nil {
		return err
	}
	return txn.CloseAccount(offerAddr, offer.Maker)
}

func (p *Program) cancelOffer(txn *ledger.Txn, ix ledger.Instruction) error {
	if len(ix.Accounts) != cancelAccountCount {
		return fmt.Errorf(
			"%w: expected %d accounts, got %d",
			ErrInvalidInstructionData,
			cancelAccountCount,
			len(ix.Accounts),
		)
	}
	maker := ix.Accounts[cancelIdxMaker].Address
	mintA := ix.Accounts[cancelIdxMintA].Address
	makerTokenA := ix.Accounts[cancelIdxMakerTokenA].Address
	offerAddr := ix.Accounts[cancelIdxOffer].Address
	vault := ix.Accounts[cancelIdxVault].Address
	offerAcct, err := txn.Account(offerAddr)
	if err != nil {
		return err
	}
	offer, err := DecodeOffer(offerAcct)
	if err != nil {
		return err
	}
	// Only the maker can cancel
	if maker != offer.Maker {
		return fmt.Errorf(
			"%w: only the maker can cancel an offer",
			ledger.ErrUnauthorized,
		)
	}
	if err := requireSigner(txn, maker); err != nil {
		return err
	}
	derived, err := offer.Address()
	if err != nil {
		return err
	}
	if derived != offerAddr {
		return address.AddressMismatchError{
			Expected: offerAddr,
			Derived:  derived,
		}
	}
	if mintA != offer.TokenMintA {
		return ErrMintMismatch
	}
	if err := vaultFor(offerAddr, mintA, vault); err != nil {
		return err
	}
	if err := tokenAccountAuthority(txn, makerTokenA, maker); err != nil {
		return err
	}
	decimals, err := mintDecimals(txn, mintA)
	if err != nil {
		return err
	}
	vaultAcct, err := txn.Account(vault)
	if err != nil {
		return err
	}
	vaultRec, err := token.DecodeAccount(vaultAcct)
	if err != nil {
		return err
	}
	// Return the deposit, then close vault and offer with rent to maker
	signer := offer.SignerToken()
	if err := txn.Invoke(
		token.NewTransferCheckedInstruction(
			vault,
			mintA,
			makerTokenA,
			offerAddr,
			vaultRec.Amount,
			decimals,
		),
		signer,
	); err != nil {
		return err
	}
	if err := txn.Invoke(
		token.NewCloseAccountInstruction(vault, maker, offerAddr),
		signer,
	); err != nil {
		return err
	}
	return txn.CloseAccount(offerAddr, maker)
}
