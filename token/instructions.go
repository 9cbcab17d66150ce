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

	"github.com/blinklabs-io/seedvault/address"
	"github.com/blinklabs-io/seedvault/ledger"
)

const (
	opInitializeMint    = 0x00
	opInitializeAccount = 0x01
	opMintTo            = 0x02
	opTransferChecked   = 0x03
	opCloseAccount      = 0x04
)

type initializeMintData struct {
	_         struct{} `cbor:",toarray"`
	Decimals  uint8
	Authority address.Address
}

type mintToData struct {
	_      struct{} `cbor:",toarray"`
	Amount uint64
}

type transferCheckedData struct {
	_        struct{} `cbor:",toarray"`
	Amount   uint64
	Decimals uint8
}

// encodeData prefixes the op tag onto the CBOR-encoded body. A nil body
// encodes as just the tag.
func encodeData(op byte, body any) []byte {
	ret := []byte{op}
	if body == nil {
		return ret
	}
	encoded, err := ledger.MarshalPayload(body)
	if err != nil {
		panic(fmt.Sprintf("unexpected error encoding instruction: %s", err))
	}
	return append(ret, encoded...)
}

// NewInitializeMintInstruction creates a mint account. The mint address is a
// fresh keypair and must sign the transaction.
func NewInitializeMintInstruction(
	payer address.Address,
	mint address.Address,
	decimals uint8,
	authority address.Address,
) ledger.Instruction {
	return ledger.Instruction{
		ProgramID: ProgramID,
		Accounts: []ledger.AccountMeta{
			ledger.WritableSigner(payer),
			ledger.WritableSigner(mint),
		},
		Data: encodeData(opInitializeMint, initializeMintData{
			Decimals:  decimals,
			Authority: authority,
		}),
	}
}

// NewInitializeAccountInstruction creates the canonical token account for an
// authority and mint at its derived address
func NewInitializeAccountInstruction(
	payer address.Address,
	account address.Address,
	authority address.Address,
	mint address.Address,
) ledger.Instruction {
	return ledger.Instruction{
		ProgramID: ProgramID,
		Accounts: []ledger.AccountMeta{
			ledger.WritableSigner(payer),
			ledger.Writable(account),
			ledger.ReadOnly(authority),
			ledger.ReadOnly(mint),
		},
		Data: encodeData(opInitializeAccount, nil),
	}
}

// NewMintToInstruction mints new supply into a token account, signed by the
// mint authority
func NewMintToInstruction(
	mint address.Address,
	destination address.Address,
	authority address.Address,
	amount uint64,
) ledger.Instruction {
	return ledger.Instruction{
		ProgramID: ProgramID,
		Accounts: []ledger.AccountMeta{
			ledger.Writable(mint),
			ledger.Writable(destination),
			ledger.Signer(authority),
		},
		Data: encodeData(opMintTo, mintToData{Amount: amount}),
	}
}

// NewTransferCheckedInstruction moves tokens between two accounts of the
// same mint, verifying the caller's expected decimals against the mint
func NewTransferCheckedInstruction(
	source address.Address,
	mint address.Address,
	destination address.Address,
	authority address.Address,
	amount uint64,
	decimals uint8,
) ledger.Instruction {
	return ledger.Instruction{
		ProgramID: ProgramID,
		Accounts: []ledger.AccountMeta{
			ledger.Writable(source),
			ledger.ReadOnly(mint),
			ledger.Writable(destination),
			ledger.Signer(authority),
		},
		Data: encodeData(opTransferChecked, transferCheckedData{
			Amount:   amount,
			Decimals: decimals,
		}),
	}
}

// NewCloseAccountInstruction closes a drained token account, refunding its
// reserve to the destination
func NewCloseAccountInstruction(
	account address.Address,
	destination address.Address,
	authority address.Address,
) ledger.Instruction {
	return ledger.Instruction{
		ProgramID: ProgramID,
		Accounts: []ledger.AccountMeta{
			ledger.Writable(account),
			ledger.Writable(destination),
			ledger.Signer(authority),
		},
		Data: encodeData(opCloseAccount, nil),
	}
}
