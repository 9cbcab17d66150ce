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

	"github.com/blinklabs-io/seedvault/address"
	"github.com/blinklabs-io/seedvault/ledger"
	"github.com/blinklabs-io/seedvault/token"
)

// Client drives the offer lifecycle against a store: it derives the account
// set for each operation, builds the transaction, and submits it
type Client struct {
	store *ledger.Store
}

// NewClient returns a Client for the provided store
func NewClient(store *ledger.Store) *Client {
	return &Client{store: store}
}

// GetOffer returns the decoded offer for (maker, id), or an
// account-not-found error once the offer has settled or been cancelled
func (c *Client) GetOffer(
	maker address.Address,
	id uint64,
) (Offer, error) {
	offerAddr, _, err := OfferAddress(maker, id)
	if err != nil {
		return Offer{}, err
	}
	acct, err := c.store.Get(offerAddr)
	if err != nil {
		return Offer{}, err
	}
	return DecodeOffer(acct)
}

// Make creates an offer: the maker deposits amountADeposit of mintA into a
// new vault and asks for amountBWanted of mintB in return. Returns the offer
// address.
func (c *Client) Make(
	maker address.Keypair,
	mintA address.Address,
	mintB address.Address,
	amountADeposit uint64,
	amountBWanted uint64,
	id uint64,
) (address.Address, error) {
	makerAddr := maker.Address()
	offerAddr, _, err := OfferAddress(makerAddr, id)
	if err != nil {
		return address.Address{}, err
	}
	if _, err := c.store.Get(offerAddr); err == nil {
		return address.Address{}, DuplicateOfferError{
			Maker: makerAddr,
			ID:    id,
		}
	}
	makerTokenA, _, err := token.AccountAddress(makerAddr, mintA)
	if err != nil {
		return address.Address{}, err
	}
	vault, _, err := token.AccountAddress(offerAddr, mintA)
	if err != nil {
		return address.Address{}, err
	}
	tx := ledger.NewTransaction(
		NewMakeOfferInstruction(
			makerAddr,
			mintA,
			mintB,
			makerTokenA,
			offerAddr,
			vault,
			id,
			amountADeposit,
			amountBWanted,
		),
	)
	if _, err := c.store.Submit(tx, []address.Keypair{maker}); err != nil {
		return address.Address{}, err
	}
	return offerAddr, nil
}

// Accept settles the offer for (maker, id): the taker pays the wanted
// amount of mint B and receives the vault's deposit. Token accounts the
// counterparties are missing are created in the same transaction, paid for
// by the taker.
func (c *Client) Accept(
	taker address.Keypair,
	maker address.Address,
	id uint64,
) error {
	takerAddr := taker.Address()
	offerAddr, _, err := OfferAddress(maker, id)
	if err != nil {
		return err
	}
	offerAcct, err := c.store.Get(offerAddr)
	if err != nil {
		return err
	}
	offer, err := DecodeOffer(offerAcct)
	if err != nil {
		return err
	}
	vault, _, err := token.AccountAddress(offerAddr, offer.TokenMintA)
	if err != nil {
		return err
	}
	takerTokenA, _, err := token.AccountAddress(takerAddr, offer.TokenMintA)
	if err != nil {
		return err
	}
	takerTokenB, _, err := token.AccountAddress(takerAddr, offer.TokenMintB)
	if err != nil {
		return err
	}
	makerTokenB, _, err := token.AccountAddress(maker, offer.TokenMintB)
	if err != nil {
		return err
	}
	var instructions []ledger.Instruction
	if _, err := c.store.Get(takerTokenA); err != nil {
		if !errors.Is(err, ledger.ErrAccountNotFound) {
			return err
		}
		instructions = append(instructions, token.NewInitializeAccountInstruction(
			takerAddr,
			takerTokenA,
			takerAddr,
			offer.TokenMintA,
		))
	}
	if _, err := c.store.Get(makerTokenB); err != nil {
		if !errors.Is(err, ledger.ErrAccountNotFound) {
			return err
		}
		instructions = append(instructions, token.NewInitializeAccountInstruction(
			takerAddr,
			makerTokenB,
			maker,
			offer.TokenMintB,
		))
	}
	instructions = append(instructions, NewAcceptOfferInstruction(
		takerAddr,
		maker,
		offerAddr,
		vault,
		offer.TokenMintA,
		offer.TokenMintB,
		takerTokenA,
		takerTokenB,
		makerTokenB,
	))
	tx := ledger.NewTransaction(instructions...)
	_, err = c.store.Submit(tx, []address.Keypair{taker})
	return err
}

// Cancel unwinds the maker's own offer, returning the deposit and closing
// the offer and vault
func (c *Client) Cancel(
	maker address.Keypair,
	id uint64,
) error {
	makerAddr := maker.Address()
	offerAddr, _, err := OfferAddress(makerAddr, id)
	if err != nil {
		return err
	}
	offerAcct, err := c.store.Get(offerAddr)
	if err != nil {
		return err
	}
	offer, err := DecodeOffer(offerAcct)
	if err != nil {
		return err
	}
	makerTokenA, _, err := token.AccountAddress(makerAddr, offer.TokenMintA)
	if err != nil {
		return err
	}
	vault, _, err := token.AccountAddress(offerAddr, offer.TokenMintA)
	if err != nil {
		return err
	}
	tx := ledger.NewTransaction(
		NewCancelOfferInstruction(
			makerAddr,
			offer.TokenMintA,
			makerTokenA,
			offerAddr,
			vault,
		),
	)
	_, err = c.store.Submit(tx, []address.Keypair{maker})
	return err
}
