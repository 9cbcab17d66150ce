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

package token_test

import (
	"errors"
	"math"
	"testing"

	"github.com/blinklabs-io/seedvault/address"
	"github.com/blinklabs-io/seedvault/internal/test"
	"github.com/blinklabs-io/seedvault/ledger"
	"github.com/blinklabs-io/seedvault/token"
	"github.com/stretchr/testify/assert"
)

const testFunding = uint64(10_000_000_000)

func newTestStore(wallets ...address.Keypair) *ledger.Store {
	store := ledger.NewStore(ledger.WithPrograms(token.NewProgram()))
	for _, wallet := range wallets {
		store.Fund(wallet.Address(), testFunding)
	}
	return store
}

func TestCreateMintAndMintTo(t *testing.T) {
	authority := test.DeterministicKeypair(0x01)
	store := newTestStore(authority)
	mint, err := token.CreateMint(store, authority, 6, authority.Address())
	if err != nil {
		t.Fatalf("unexpected error creating mint: %s", err)
	}
	mintRec, err := token.GetMint(store, mint)
	if err != nil {
		t.Fatalf("unexpected error fetching mint: %s", err)
	}
	assert.Equal(t, uint8(6), mintRec.Decimals)
	assert.Equal(t, authority.Address(), mintRec.Authority)
	assert.Equal(t, uint64(0), mintRec.Supply)
	account, err := token.CreateAccount(
		store,
		authority,
		authority.Address(),
		mint,
	)
	if err != nil {
		t.Fatalf("unexpected error creating token account: %s", err)
	}
	if err := token.MintTo(store, authority, mint, account, 1000); err != nil {
		t.Fatalf("unexpected error minting: %s", err)
	}
	balance, err := token.Balance(store, account)
	if err != nil {
		t.Fatalf("unexpected error fetching balance: %s", err)
	}
	assert.Equal(t, uint64(1000), balance)
	mintRec, err = token.GetMint(store, mint)
	if err != nil {
		t.Fatalf("unexpected error fetching mint: %s", err)
	}
	assert.Equal(t, uint64(1000), mintRec.Supply)
}

func TestMintToRequiresMintAuthority(t *testing.T) {
	authority := test.DeterministicKeypair(0x01)
	other := test.DeterministicKeypair(0x02)
	store := newTestStore(authority, other)
	mint, err := token.CreateMint(store, authority, 6, authority.Address())
	if err != nil {
		t.Fatalf("unexpected error creating mint: %s", err)
	}
	account, err := token.CreateAccount(
		store,
		other,
		other.Address(),
		mint,
	)
	if err != nil {
		t.Fatalf("unexpected error creating token account: %s", err)
	}
	err = token.MintTo(store, other, mint, account, 1000)
	if !errors.Is(err, ledger.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestTransferChecked(t *testing.T) {
	authority := test.DeterministicKeypair(0x01)
	recipient := test.DeterministicKeypair(0x02)
	store := newTestStore(authority, recipient)
	mint, err := token.CreateMint(store, authority, 6, authority.Address())
	if err != nil {
		t.Fatalf("unexpected error creating mint: %s", err)
	}
	source, err := token.CreateAccount(
		store,
		authority,
		authority.Address(),
		mint,
	)
	if err != nil {
		t.Fatalf("unexpected error creating source account: %s", err)
	}
	destination, err := token.CreateAccount(
		store,
		recipient,
		recipient.Address(),
		mint,
	)
	if err != nil {
		t.Fatalf("unexpected error creating destination account: %s", err)
	}
	if err := token.MintTo(store, authority, mint, source, 1000); err != nil {
		t.Fatalf("unexpected error minting: %s", err)
	}
	tx := ledger.NewTransaction(
		token.NewTransferCheckedInstruction(
			source,
			mint,
			destination,
			authority.Address(),
			400,
			6,
		),
	)
	if _, err := store.Submit(tx, []address.Keypair{authority}); err != nil {
		t.Fatalf("unexpected error transferring: %s", err)
	}
	sourceBalance, err := token.Balance(store, source)
	if err != nil {
		t.Fatalf("unexpected error fetching balance: %s", err)
	}
	destBalance, err := token.Balance(store, destination)
	if err != nil {
		t.Fatalf("unexpected error fetching balance: %s", err)
	}
	assert.Equal(t, uint64(600), sourceBalance)
	assert.Equal(t, uint64(400), destBalance)
}

func TestTransferCheckedDecimalsMismatch(t *testing.T) {
	authority := test.DeterministicKeypair(0x01)
	recipient := test.DeterministicKeypair(0x02)
	store := newTestStore(authority, recipient)
	mint, err := token.CreateMint(store, authority, 6, authority.Address())
	if err != nil {
		t.Fatalf("unexpected error creating mint: %s", err)
	}
	source, err := token.CreateAccount(
		store,
		authority,
		authority.Address(),
		mint,
	)
	if err != nil {
		t.Fatalf("unexpected error creating source account: %s", err)
	}
	destination, err := token.CreateAccount(
		store,
		recipient,
		recipient.Address(),
		mint,
	)
	if err != nil {
		t.Fatalf("unexpected error creating destination account: %s", err)
	}
	if err := token.MintTo(store, authority, mint, source, 1000); err != nil {
		t.Fatalf("unexpected error minting: %s", err)
	}
	// Caller believes the mint has 9 decimals; it has 6
	tx := ledger.NewTransaction(
		token.NewTransferCheckedInstruction(
			source,
			mint,
			destination,
			authority.Address(),
			400,
			9,
		),
	)
	_, err = store.Submit(tx, []address.Keypair{authority})
	if !errors.Is(err, token.ErrDecimalsMismatch) {
		t.Fatalf("expected ErrDecimalsMismatch, got %v", err)
	}
}

func TestTransferCheckedInsufficientFunds(t *testing.T) {
	authority := test.DeterministicKeypair(0x01)
	recipient := test.DeterministicKeypair(0x02)
	store := newTestStore(authority, recipient)
	mint, err := token.CreateMint(store, authority, 6, authority.Address())
	if err != nil {
		t.Fatalf("unexpected error creating mint: %s", err)
	}
	source, err := token.CreateAccount(
		store,
		authority,
		authority.Address(),
		mint,
	)
	if err != nil {
		t.Fatalf("unexpected error creating source account: %s", err)
	}
	destination, err := token.CreateAccount(
		store,
		recipient,
		recipient.Address(),
		mint,
	)
	if err != nil {
		t.Fatalf("unexpected error creating destination account: %s", err)
	}
	if err := token.MintTo(store, authority, mint, source, 100); err != nil {
		t.Fatalf("unexpected error minting: %s", err)
	}
	tx := ledger.NewTransaction(
		token.NewTransferCheckedInstruction(
			source,
			mint,
			destination,
			authority.Address(),
			400,
			6,
		),
	)
	_, err = store.Submit(tx, []address.Keypair{authority})
	if !errors.Is(err, ledger.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
}

func TestMintToOverflow(t *testing.T) {
	authority := test.DeterministicKeypair(0x01)
	store := newTestStore(authority)
	mint, err := token.CreateMint(store, authority, 6, authority.Address())
	if err != nil {
		t.Fatalf("unexpected error creating mint: %s", err)
	}
	account, err := token.CreateAccount(
		store,
		authority,
		authority.Address(),
		mint,
	)
	if err != nil {
		t.Fatalf("unexpected error creating token account: %s", err)
	}
	if err := token.MintTo(
		store,
		authority,
		mint,
		account,
		math.MaxUint64,
	); err != nil {
		t.Fatalf("unexpected error minting maximum supply: %s", err)
	}
	// One more unit would wrap the supply
	err = token.MintTo(store, authority, mint, account, 1)
	if !errors.Is(err, token.ErrAmountOverflow) {
		t.Fatalf("expected ErrAmountOverflow, got %v", err)
	}
	mintRec, err := token.GetMint(store, mint)
	if err != nil {
		t.Fatalf("unexpected error fetching mint: %s", err)
	}
	assert.Equal(t, uint64(math.MaxUint64), mintRec.Supply)
	balance, err := token.Balance(store, account)
	if err != nil {
		t.Fatalf("unexpected error fetching balance: %s", err)
	}
	assert.Equal(t, uint64(math.MaxUint64), balance)
}

func TestCloseAccountRequiresDrain(t *testing.T) {
	authority := test.DeterministicKeypair(0x01)
	store := newTestStore(authority)
	mint, err := token.CreateMint(store, authority, 6, authority.Address())
	if err != nil {
		t.Fatalf("unexpected error creating mint: %s", err)
	}
	account, err := token.CreateAccount(
		store,
		authority,
		authority.Address(),
		mint,
	)
	if err != nil {
		t.Fatalf("unexpected error creating token account: %s", err)
	}
	if err := token.MintTo(store, authority, mint, account, 10); err != nil {
		t.Fatalf("unexpected error minting: %s", err)
	}
	tx := ledger.NewTransaction(
		token.NewCloseAccountInstruction(
			account,
			authority.Address(),
			authority.Address(),
		),
	)
	_, err = store.Submit(tx, []address.Keypair{authority})
	if !errors.Is(err, token.ErrAccountNotEmpty) {
		t.Fatalf("expected ErrAccountNotEmpty, got %v", err)
	}
}

func TestCloseAccountRefundsReserve(t *testing.T) {
	authority := test.DeterministicKeypair(0x01)
	store := newTestStore(authority)
	mint, err := token.CreateMint(store, authority, 6, authority.Address())
	if err != nil {
		t.Fatalf("unexpected error creating mint: %s", err)
	}
	account, err := token.CreateAccount(
		store,
		authority,
		authority.Address(),
		mint,
	)
	if err != nil {
		t.Fatalf("unexpected error creating token account: %s", err)
	}
	before, err := store.Balance(authority.Address())
	if err != nil {
		t.Fatalf("unexpected error fetching balance: %s", err)
	}
	reserve, err := store.Balance(account)
	if err != nil {
		t.Fatalf("unexpected error fetching reserve: %s", err)
	}
	tx := ledger.NewTransaction(
		token.NewCloseAccountInstruction(
			account,
			authority.Address(),
			authority.Address(),
		),
	)
	if _, err := store.Submit(tx, []address.Keypair{authority}); err != nil {
		t.Fatalf("unexpected error closing account: %s", err)
	}
	after, err := store.Balance(authority.Address())
	if err != nil {
		t.Fatalf("unexpected error fetching balance: %s", err)
	}
	assert.Equal(t, before+reserve, after)
	if _, err := token.Balance(store, account); !errors.Is(
		err,
		ledger.ErrAccountNotFound,
	) {
		t.Fatalf("expected ErrAccountNotFound after close, got %v", err)
	}
}

// spenderProgram is a minimal program owning a derived token authority. Its
// behavior is assigned per test case after store registration.
type spenderProgram struct {
	id      address.Address
	execute func(txn *ledger.Txn, ix ledger.Instruction) error
}

func (p *spenderProgram) ID() address.Address {
	return p.id
}

func (p *spenderProgram) Execute(
	txn *ledger.Txn,
	ix ledger.Instruction,
) error {
	return p.execute(txn, ix)
}

func TestDerivedAuthorityTransfer(t *testing.T) {
	// A token account whose authority is a derived address can only be
	// spent by its owning program, which presents the seed proof via a
	// nested invoke. The seeds are public, so nothing outside the owning
	// program may exercise them.
	payer := test.DeterministicKeypair(0x01)
	programID := test.DeterministicKeypair(0xcc).Address()
	spender := &spenderProgram{id: programID}
	store := ledger.NewStore(
		ledger.WithPrograms(token.NewProgram(), spender),
	)
	store.Fund(payer.Address(), testFunding)
	derived, bump, err := address.FindProgramAddress(
		programID,
		[]byte("vault-owner"),
	)
	if err != nil {
		t.Fatalf("unexpected error deriving address: %s", err)
	}
	mint, err := token.CreateMint(store, payer, 6, payer.Address())
	if err != nil {
		t.Fatalf("unexpected error creating mint: %s", err)
	}
	vault, err := token.CreateAccount(store, payer, derived, mint)
	if err != nil {
		t.Fatalf("unexpected error creating vault: %s", err)
	}
	walletAccount, err := token.CreateAccount(
		store,
		payer,
		payer.Address(),
		mint,
	)
	if err != nil {
		t.Fatalf("unexpected error creating wallet account: %s", err)
	}
	if err := token.MintTo(store, payer, mint, vault, 500); err != nil {
		t.Fatalf("unexpected error minting: %s", err)
	}
	transferIx := token.NewTransferCheckedInstruction(
		vault,
		mint,
		walletAccount,
		derived,
		500,
		6,
	)
	// Submitted directly, the derived authority has no witness and the
	// transfer must fail, even though anyone can recompute its seeds
	tx := ledger.NewTransaction(transferIx)
	if _, err := store.Submit(tx, []address.Keypair{payer}); !errors.Is(
		err,
		ledger.ErrMissingSignature,
	) {
		t.Fatalf("expected ErrMissingSignature, got %v", err)
	}
	// Routed through the owning program's invoke it succeeds
	proof := address.NewAuthorityToken(programID, bump, []byte("vault-owner"))
	spender.execute = func(txn *ledger.Txn, ix ledger.Instruction) error {
		return txn.Invoke(transferIx, proof)
	}
	tx = ledger.NewTransaction(ledger.Instruction{
		ProgramID: programID,
		Accounts:  []ledger.AccountMeta{ledger.WritableSigner(payer.Address())},
	})
	if _, err := store.Submit(tx, []address.Keypair{payer}); err != nil {
		t.Fatalf("unexpected error transferring via owning program: %s", err)
	}
	balance, err := token.Balance(store, walletAccount)
	if err != nil {
		t.Fatalf("unexpected error fetching balance: %s", err)
	}
	assert.Equal(t, uint64(500), balance)
}
