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

package address

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/base58"
)

const AddressSize = 32

// Address is a 32-byte account address. Wallet addresses are ed25519 public
// keys; program-derived addresses are hash outputs that are guaranteed to not
// be valid ed25519 public keys.
type Address [AddressSize]byte

// NewAddress returns an Address based on the provided base58 address string
func NewAddress(addr string) (Address, error) {
	decoded := base58.Decode(addr)
	if len(decoded) != AddressSize {
		return Address{}, fmt.Errorf(
			"invalid address length: %d",
			len(decoded),
		)
	}
	return NewAddressFromBytes(decoded)
}

// NewAddressFromBytes returns an Address based on the raw bytes provided
func NewAddressFromBytes(addrBytes []byte) (Address, error) {
	if len(addrBytes) != AddressSize {
		return Address{}, fmt.Errorf(
			"invalid address length: %d",
			len(addrBytes),
		)
	}
	a := Address{}
	copy(a[:], addrBytes)
	return a, nil
}

// MustAddress returns an Address from a base58 string and panics on failure.
// It's intended for package-level program ID constants.
func MustAddress(addr string) Address {
	a, err := NewAddress(addr)
	if err != nil {
		panic(fmt.Sprintf("unexpected error decoding address: %s", err))
	}
	return a
}

func (a Address) String() string {
	return base58.Encode(a[:])
}

func (a Address) Bytes() []byte {
	return a[:]
}

func (a Address) IsZero() bool {
	return a == Address{}
}

func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

func (a *Address) UnmarshalJSON(data []byte) error {
	var tmp string
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}
	addr, err := NewAddress(tmp)
	if err != nil {
		return err
	}
	*a = addr
	return nil
}

// Keypair is a signing keypair whose public key doubles as the wallet address
type Keypair struct {
	PrivateKey ed25519.PrivateKey
}

// GenerateKeypair returns a new random signing keypair
func GenerateKeypair() (Keypair, error) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return Keypair{}, err
	}
	return Keypair{PrivateKey: priv}, nil
}

// NewKeypairFromSeed returns a keypair built from the provided 32-byte seed
func NewKeypairFromSeed(seed []byte) (Keypair, error) {
	if len(seed) != ed25519.SeedSize {
		return Keypair{}, errors.New("invalid seed length")
	}
	return Keypair{PrivateKey: ed25519.NewKeyFromSeed(seed)}, nil
}

// Address returns the wallet address for the keypair's public key
func (k Keypair) Address() Address {
	pub, ok := k.PrivateKey.Public().(ed25519.PublicKey)
	if !ok {
		panic("unexpected public key type")
	}
	a := Address{}
	copy(a[:], pub)
	return a
}

// Sign signs the provided message with the keypair's private key
func (k Keypair) Sign(msg []byte) []byte {
	return ed25519.Sign(k.PrivateKey, msg)
}
