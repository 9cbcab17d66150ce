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

package main

import (
	"fmt"
	"os"

	"github.com/blinklabs-io/seedvault/address"
	"github.com/blinklabs-io/seedvault/escrow"
	"github.com/blinklabs-io/seedvault/favorites"
	"github.com/blinklabs-io/seedvault/ledger"
	"github.com/blinklabs-io/seedvault/token"
)

const walletFunding = uint64(10_000_000_000)

func main() {
	store := ledger.NewStore(ledger.WithPrograms(
		token.NewProgram(),
		escrow.NewProgram(),
		favorites.NewProgram(),
	))

	maker, err := address.GenerateKeypair()
	if err != nil {
		fmt.Printf("ERROR: %s\n", err)
		os.Exit(1)
	}
	taker, err := address.GenerateKeypair()
	if err != nil {
		fmt.Printf("ERROR: %s\n", err)
		os.Exit(1)
	}
	store.Fund(maker.Address(), walletFunding)
	store.Fund(taker.Address(), walletFunding)
	fmt.Printf("Maker wallet: %s\n", maker.Address())
	fmt.Printf("Taker wallet: %s\n", taker.Address())

	// Two mints with different precisions
	mintA, err := token.CreateMint(store, maker, 6, maker.Address())
	if err != nil {
		fmt.Printf("ERROR: %s\n", err)
		os.Exit(1)
	}
	mintB, err := token.CreateMint(store, taker, 9, taker.Address())
	if err != nil {
		fmt.Printf("ERROR: %s\n", err)
		os.Exit(1)
	}
	fmt.Printf("Mint A (6 decimals): %s\n", mintA)
	fmt.Printf("Mint B (9 decimals): %s\n", mintB)

	makerTokenA, err := token.CreateAccount(store, maker, maker.Address(), mintA)
	if err != nil {
		fmt.Printf("ERROR: %s\n", err)
		os.Exit(1)
	}
	takerTokenB, err := token.CreateAccount(store, taker, taker.Address(), mintB)
	if err != nil {
		fmt.Printf("ERROR: %s\n", err)
		os.Exit(1)
	}
	if err := token.MintTo(store, maker, mintA, makerTokenA, 1000); err != nil {
		fmt.Printf("ERROR: %s\n", err)
		os.Exit(1)
	}
	if err := token.MintTo(store, taker, mintB, takerTokenB, 500); err != nil {
		fmt.Printf("ERROR: %s\n", err)
		os.Exit(1)
	}

	// Maker offers 1000 of token A for 500 of token B
	client := escrow.NewClient(store)
	offerID := uint64(7)
	offerAddr, err := client.Make(maker, mintA, mintB, 1000, 500, offerID)
	if err != nil {
		fmt.Printf("ERROR: %s\n", err)
		os.Exit(1)
	}
	vault, _, err := token.AccountAddress(offerAddr, mintA)
	if err != nil {
		fmt.Printf("ERROR: %s\n", err)
		os.Exit(1)
	}
	vaultBalance, err := token.Balance(store, vault)
	if err != nil {
		fmt.Printf("ERROR: %s\n", err)
		os.Exit(1)
	}
	fmt.Printf("\nOffer %d created at %s\n", offerID, offerAddr)
	fmt.Printf("Vault %s holds %d of token A\n", vault, vaultBalance)

	// Taker accepts: token B goes to the maker, the vaulted token A to the
	// taker, and the offer and vault are closed
	if err := client.Accept(taker, maker.Address(), offerID); err != nil {
		fmt.Printf("ERROR: %s\n", err)
		os.Exit(1)
	}
	fmt.Print("\nOffer accepted\n\n")

	takerTokenA, _, err := token.AccountAddress(taker.Address(), mintA)
	if err != nil {
		fmt.Printf("ERROR: %s\n", err)
		os.Exit(1)
	}
	makerTokenB, _, err := token.AccountAddress(maker.Address(), mintB)
	if err != nil {
		fmt.Printf("ERROR: %s\n", err)
		os.Exit(1)
	}
	for _, entry := range []struct {
		label   string
		account address.Address
	}{
		{label: "Maker token A", account: makerTokenA},
		{label: "Maker token B", account: makerTokenB},
		{label: "Taker token A", account: takerTokenA},
		{label: "Taker token B", account: takerTokenB},
	} {
		balance, err := token.Balance(store, entry.account)
		if err != nil {
			fmt.Printf("ERROR: %s\n", err)
			os.Exit(1)
		}
		fmt.Printf("%s: %d\n", entry.label, balance)
	}
	if _, err := client.GetOffer(maker.Address(), offerID); err != nil {
		fmt.Printf("Offer record: closed (%s)\n", err)
	}

	// Favorites record for the maker, updated through a delegate
	favClient := favorites.NewClient(store)
	if err := favClient.Set(maker, 42, "blue"); err != nil {
		fmt.Printf("ERROR: %s\n", err)
		os.Exit(1)
	}
	takerAddr := taker.Address()
	if err := favClient.SetAuthority(maker, &takerAddr); err != nil {
		fmt.Printf("ERROR: %s\n", err)
		os.Exit(1)
	}
	newColor := "green"
	if err := favClient.Update(
		taker,
		maker.Address(),
		nil,
		&newColor,
	); err != nil {
		fmt.Printf("ERROR: %s\n", err)
		os.Exit(1)
	}
	rec, err := favClient.Get(maker.Address())
	if err != nil {
		fmt.Printf("ERROR: %s\n", err)
		os.Exit(1)
	}
	fmt.Printf(
		"\nMaker favorites: number=%d color=%s (updated by delegate)\n",
		rec.Number,
		rec.Color,
	)
}
