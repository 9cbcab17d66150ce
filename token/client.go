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
	"github.com/blinklabs-io/seedvault/address"
	"github.com/blinklabs-io/seedvault/ledger"
)

// CreateMint creates a new mint with a fresh keypair address and returns the
// mint address
func CreateMint(
	store *ledger.Store,
	payer address.Keypair,
	decimals uint8,
	authority address.Address,
) (address.Address, error) {
	mintKeypair, err := address.GenerateKeypair()
	if err != nil {
		return address.Address{}, err
	}
	mint := mintKeypair.Address()
	tx := ledger.NewTransaction(
		NewInitializeMintInstruction(
			payer.Address(),
			mint,
			decimals,
			authority,
		),
	)
	_, err = store.Submit(tx, []address.Keypair{payer, mintKeypair})
	if err != nil {
		return address.Address{}, err
	}
	return mint, nil
}

// CreateAccount creates the canonical token account for an authority and
// mint and returns its address
func CreateAccount(
	store *ledger.Store,
	payer address.Keypair,
	authority address.Address,
	mint address.Address,
) (address.Address, error) {
	account, _, err := AccountAddress(authority, mint)
	if err != nil {
		return address.Address{}, err
	}
	tx := ledger.NewTransaction(
		NewInitializeAccountInstruction(
			payer.Address(),
			account,
			authority,
			mint,
		),
	)
	_, err = store.Submit(tx, []address.Keypair{payer})
	if err != nil {
		return address.Address{}, err
	}
	return account, nil
}

// MintTo mints new supply into a token account
func MintTo(
	store *ledger.Store,
	authority address.Keypair,
	mint address.Address,
	destination address.Address,
	amount uint64,
) error {
	tx := ledger.NewTransaction(
		NewMintToInstruction(mint, destination, authority.Address(), amount),
	)
	_, err := store.Submit(tx, []address.Keypair{authority})
	return err
}

// Balance returns the token balance of the account at the provided address
func Balance(
	store *ledger.Store,
	account address.Address,
) (uint64, error) {
	acct, err := store.Get(account)
	if err != nil {
		return 0, err
	}
	rec, err := DecodeAccount(acct)
	if err != nil {
		return 0, err
	}
	return rec.Amount, nil
}

// GetMint returns the decoded mint record at the provided address
func GetMint(
	store *ledger.Store,
	mint address.Address,
) (Mint, error) {
	acct, err := store.Get(mint)
	if err != nil {
		return Mint{}, err
	}
	return DecodeMint(acct)
}
