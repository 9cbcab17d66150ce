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

package ledger

import (
	"crypto/ed25519"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/blinklabs-io/seedvault/address"
	"golang.org/x/crypto/blake2b"
)

// Instruction is a single program invocation within a transaction
type Instruction struct {
	ProgramID address.Address
	Accounts  []AccountMeta
	Data      []byte
}

// Transaction is an ordered list of instructions applied atomically
type Transaction struct {
	Instructions []Instruction
}

// NewTransaction returns a Transaction for the provided instructions
func NewTransaction(instructions ...Instruction) *Transaction {
	return &Transaction{Instructions: instructions}
}

// TxHash is the blake2b-256 hash of a transaction message
type TxHash [32]byte

func (h TxHash) String() string {
	return hex.EncodeToString(h[:])
}

func (h TxHash) Bytes() []byte {
	return h[:]
}

// MessageBytes returns the deterministic encoding of the transaction that
// signers sign over
func (t *Transaction) MessageBytes() ([]byte, error) {
	return MarshalPayload(t.Instructions)
}

// Hash returns the blake2b-256 hash of the transaction message
func (t *Transaction) Hash() (TxHash, error) {
	msg, err := t.MessageBytes()
	if err != nil {
		return TxHash{}, err
	}
	tmpHash, err := blake2b.New256(nil)
	if err != nil {
		return TxHash{}, fmt.Errorf(
			"unexpected error creating empty blake2b hash: %w",
			err,
		)
	}
	tmpHash.Write(msg)
	return TxHash(tmpHash.Sum(nil)), nil
}

// RequiredSigners returns the unique addresses that any instruction marks as
// a signer, in first-appearance order
func (t *Transaction) RequiredSigners() []address.Address {
	seen := map[address.Address]bool{}
	var ret []address.Address
	for _, ix := range t.Instructions {
		for _, meta := range ix.Accounts {
			if !meta.IsSigner || seen[meta.Address] {
				continue
			}
			seen[meta.Address] = true
			ret = append(ret, meta.Address)
		}
	}
	return ret
}

// Witness is an ed25519 signature over the transaction hash from a wallet key
type Witness struct {
	PublicKey []byte
	Signature []byte
}

// VerifyWitness verifies an ed25519 witness against the provided message
func VerifyWitness(w Witness, msg []byte) error {
	if len(w.PublicKey) != ed25519.PublicKeySize {
		return fmt.Errorf("invalid public key size: %d", len(w.PublicKey))
	}
	if len(w.Signature) != ed25519.SignatureSize {
		return fmt.Errorf("invalid signature size: %d", len(w.Signature))
	}
	if !ed25519.Verify(ed25519.PublicKey(w.PublicKey), msg, w.Signature) {
		return errors.New("signature verification failed")
	}
	return nil
}

// Receipt identifies a successfully applied transaction
type Receipt struct {
	Hash TxHash
}
