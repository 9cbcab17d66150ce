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
	"bytes"
	"crypto/ed25519"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddressStringRoundTrip(t *testing.T) {
	testDefs := []struct {
		addressBytes []byte
	}{
		{addressBytes: bytes.Repeat([]byte{0x00}, 32)},
		{addressBytes: bytes.Repeat([]byte{0xff}, 32)},
		{
			addressBytes: append(
				bytes.Repeat([]byte{0x00}, 16),
				bytes.Repeat([]byte{0xab}, 16)...,
			),
		},
	}
	for _, testDef := range testDefs {
		addr, err := NewAddressFromBytes(testDef.addressBytes)
		if err != nil {
			t.Fatalf("unexpected error creating address: %s", err)
		}
		roundTrip, err := NewAddress(addr.String())
		if err != nil {
			t.Fatalf("unexpected error parsing address: %s", err)
		}
		if roundTrip != addr {
			t.Fatalf(
				"address mismatch after round trip: %s != %s",
				roundTrip.String(),
				addr.String(),
			)
		}
	}
}

func TestAddressInvalidLength(t *testing.T) {
	if _, err := NewAddressFromBytes([]byte{0x01, 0x02}); err == nil {
		t.Fatalf("expected error for short address bytes")
	}
	if _, err := NewAddress("abc"); err == nil {
		t.Fatalf("expected error for short base58 string")
	}
}

func TestAddressJSON(t *testing.T) {
	addr, err := NewAddressFromBytes(bytes.Repeat([]byte{0x11}, 32))
	if err != nil {
		t.Fatalf("unexpected error creating address: %s", err)
	}
	encoded, err := json.Marshal(addr)
	if err != nil {
		t.Fatalf("unexpected error marshaling address: %s", err)
	}
	var decoded Address
	if err := json.Unmarshal(encoded, &decoded); err != nil {
		t.Fatalf("unexpected error unmarshaling address: %s", err)
	}
	assert.Equal(t, addr, decoded)
}

func TestKeypairAddressMatchesPublicKey(t *testing.T) {
	kp, err := GenerateKeypair()
	if err != nil {
		t.Fatalf("unexpected error generating keypair: %s", err)
	}
	pub := kp.PrivateKey.Public().(ed25519.PublicKey)
	assert.Equal(t, []byte(pub), kp.Address().Bytes())
}

func TestKeypairSign(t *testing.T) {
	kp, err := NewKeypairFromSeed(bytes.Repeat([]byte{0x2a}, 32))
	if err != nil {
		t.Fatalf("unexpected error building keypair: %s", err)
	}
	msg := []byte("test message")
	sig := kp.Sign(msg)
	if !ed25519.Verify(
		ed25519.PublicKey(kp.Address().Bytes()),
		msg,
		sig,
	) {
		t.Fatalf("signature verification failed")
	}
}
