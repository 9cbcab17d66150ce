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

// Package token implements the fungible token program: mints, token
// accounts, decimals-checked transfers, and account closure with reserve
// refund. Token account spending authority may be a wallet key or a derived
// address proven via seed proof, which is what lets an escrow vault be owned
// by a record instead of a person.
package token

import (
	"github.com/blinklabs-io/seedvault/address"
	"github.com/blinklabs-io/seedvault/ledger"
)

// ProgramID identifies the token program namespace
var ProgramID = address.MustAddress(
	"H1C3zAuoW5zdB44kEyYHspmqLQv3VCcn5V4zPWHF72kC",
)

// accountSeed is the namespace tag for deterministic token account addresses
var accountSeed = []byte("token-account")

// Mint describes one fungible asset type
type Mint struct {
	_         struct{} `cbor:",toarray"`
	Authority address.Address
	Decimals  uint8
	Supply    uint64
}

// Account is a holding of a single mint under a single spending authority
type Account struct {
	_         struct{} `cbor:",toarray"`
	Mint      address.Address
	Authority address.Address
	Amount    uint64
}

// AccountAddress derives the canonical token account address for an
// authority and mint. The same (authority, mint) pair always lands on the
// same address, which is how callers locate accounts without an index.
func AccountAddress(
	authority address.Address,
	mint address.Address,
) (address.Address, uint8, error) {
	return address.FindProgramAddress(
		ProgramID,
		accountSeed,
		authority.Bytes(),
		mint.Bytes(),
	)
}

// DecodeMint decodes a Mint record from a token-program account
func DecodeMint(acct ledger.Account) (Mint, error) {
	if acct.Owner != ProgramID {
		return Mint{}, ErrInvalidAccountData
	}
	var ret Mint
	if err := ledger.UnmarshalPayload(acct.Payload, &ret); err != nil {
		return Mint{}, ErrInvalidAccountData
	}
	return ret, nil
}

// DecodeAccount decodes a token Account record from a token-program account
func DecodeAccount(acct ledger.Account) (Account, error) {
	if acct.Owner != ProgramID {
		return Account{}, ErrInvalidAccountData
	}
	var ret Account
	if err := ledger.UnmarshalPayload(acct.Payload, &ret); err != nil {
		return Account{}, ErrInvalidAccountData
	}
	return ret, nil
}
