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

// Package escrow implements a token escrow: a maker locks an amount of one
// mint in a vault owned by the offer's derived address, and the offer either
// settles when a taker pays the wanted amount of the other mint or unwinds
// when the maker cancels. Settlement and cancellation both destroy the offer
// and vault in the same transaction, so a second attempt on the same offer
// fails with an account lookup error rather than double-spending the vault.
package escrow

import (
	"encoding/binary"

	"github.com/blinklabs-io/seedvault/address"
	"github.com/blinklabs-io/seedvault/ledger"
)

// ProgramID identifies the escrow program namespace
var ProgramID = address.MustAddress(
	"8qJDdA8XjSMfp88WDKTA6WT2Du7SuFVQ2ymATjpkvwFu",
)

// offerSeed is the namespace tag for offer record addresses
var offerSeed = []byte("offer")

// Offer is the persisted escrow record. (Maker, ID) is unique and forms the
// full derivation seed; the record address is always recomputed and verified
// rather than trusted from a caller.
type Offer struct {
	_             struct{} `cbor:",toarray"`
	ID            uint64
	Maker         address.Address
	TokenMintA    address.Address
	TokenMintB    address.Address
	AmountBWanted uint64
	Bump          uint8
}

func offerIDBytes(id uint64) []byte {
	ret := make([]byte, 8)
	binary.LittleEndian.PutUint64(ret, id)
	return ret
}

// OfferAddress derives the canonical address and bump for a maker's offer
func OfferAddress(
	maker address.Address,
	id uint64,
) (address.Address, uint8, error) {
	return address.FindProgramAddress(
		ProgramID,
		offerSeed,
		maker.Bytes(),
		offerIDBytes(id),
	)
}

// SignerToken returns the seed proof for the offer's derived address,
// rebuilt from the stored bump
func (o Offer) SignerToken() address.AuthorityToken {
	return address.NewAuthorityToken(
		ProgramID,
		o.Bump,
		offerSeed,
		o.Maker.Bytes(),
		offerIDBytes(o.ID),
	)
}

// Address recomputes the offer's address from its stored fields and bump
func (o Offer) Address() (address.Address, error) {
	return o.SignerToken().Address()
}

// DecodeOffer decodes an Offer record from an escrow-program account
func DecodeOffer(acct ledger.Account) (Offer, error) {
	if acct.Owner != ProgramID {
		return Offer{}, ErrInvalidAccountData
	}
	var ret Offer
	if err := ledger.UnmarshalPayload(acct.Payload, &ret); err != nil {
		return Offer{}, ErrInvalidAccountData
	}
	return ret, nil
}
