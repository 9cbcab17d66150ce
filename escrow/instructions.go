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
	"fmt"

	"github.com/blinklabs-io/seedvault/address"
	"github.com/blinklabs-io/seedvault/ledger"
)

const (
	opMakeOffer   = 0x00
	opAcceptOffer = 0x01
	opCancelOffer = 0x02
)

type makeOfferData struct {
	_              struct{} `cbor:",toarray"`
	ID             uint64
	AmountADeposit uint64
	AmountBWanted  uint64
}

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

// Account list offsets shared by the builders and the program handler
const (
	makeIdxMaker = iota
	makeIdxMintA
	makeIdxMintB
	makeIdxMakerTokenA
	makeIdxOffer
	makeIdxVault
	makeAccountCount
)

const (
	acceptIdxTaker = iota
	acceptIdxMaker
	acceptIdxOffer
	acceptIdxVault
	acceptIdxMintA
	acceptIdxMintB
	acceptIdxTakerTokenA
	acceptIdxTakerTokenB
	acceptIdxMakerTokenB
	acceptAccountCount
)

const (
	cancelIdxMaker = iota
	cancelIdxMintA
	cancelIdxMakerTokenA
	cancelIdxOffer
	cancelIdxVault
	cancelAccountCount
)

// NewMakeOfferInstruction creates an offer record and its vault, and funds
// the vault from the maker's token account
func NewMakeOfferInstruction(
	maker address.Address,
	mintA address.Address,
	mintB address.Address,
	makerTokenA address.Address,
	offer address.Address,
	vault address.Address,
	id uint64,
	amountADeposit uint64,
	amountBWanted uint64,
) ledger.Instruction {
	return ledger.Instruction{
		ProgramID: ProgramID,
		Accounts: []ledger.AccountMeta{
			ledger.WritableSigner(maker),
			ledger.ReadOnly(mintA),
			ledger.ReadOnly(mintB),
			ledger.Writable(makerTokenA),
			ledger.Writable(offer),
			ledger.Writable(vault),
		},
		Data: encodeData(opMakeOffer, makeOfferData{
			ID:             id,
			AmountADeposit: amountADeposit,
			AmountBWanted:  amountBWanted,
		}),
	}
}

// NewAcceptOfferInstruction settles an offer: the taker pays the wanted
// amount of mint B to the maker and receives the vault's full mint A balance
func NewAcceptOfferInstruction(
	taker address.Address,
	maker address.Address,
	offer address.Address,
	vault address.Address,
	mintA address.Address,
	mintB address.Address,
	takerTokenA address.Address,
	takerTokenB address.Address,
	makerTokenB address.Address,
) ledger.Instruction {
	return ledger.Instruction{
		ProgramID: ProgramID,
		Accounts: []ledger.AccountMeta{
			ledger.WritableSigner(taker),
			ledger.Writable(maker),
			ledger.Writable(offer),
			ledger.Writable(vault),
			ledger.ReadOnly(mintA),
			ledger.ReadOnly(mintB),
			ledger.Writable(takerTokenA),
			ledger.Writable(takerTokenB),
			ledger.Writable(makerTokenB),
		},
		Data: encodeData(opAcceptOffer, nil),
	}
}

// NewCancelOfferInstruction unwinds an offer: the vault balance returns to
// the maker and both offer and vault are closed
func NewCancelOfferInstruction(
	maker address.Address,
	mintA address.Address,
	makerTokenA address.Address,
	offer address.Address,
	vault address.Address,
) ledger.Instruction {
	return ledger.Instruction{
		ProgramID: ProgramID,
		Accounts: []ledger.AccountMeta{
			ledger.WritableSigner(maker),
			ledger.ReadOnly(mintA),
			ledger.Writable(makerTokenA),
			ledger.Writable(offer),
			ledger.Writable(vault),
		},
		Data: encodeData(opCancelOffer, nil),
	}
}
