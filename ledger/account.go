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
	"github.com/blinklabs-io/seedvault/address"
)

// SystemProgramID is the owner tag for plain wallet accounts that hold only
// a balance. No program handler is registered for it.
var SystemProgramID = address.MustAddress(
	"BowS9p4nyaVwQeb1j176Fy5uyfom3BTWdT9aTqBogwEE",
)

// Account is a single entry in the store: an owner-program tag, an opaque
// payload interpreted by the owning program, and a balance. The balance of a
// program-owned account is its rent-exempt reserve, refunded on close.
type Account struct {
	Owner   address.Address
	Payload []byte
	Balance uint64
}

// AccountMeta describes how an instruction touches an account
type AccountMeta struct {
	Address    address.Address
	IsSigner   bool
	IsWritable bool
}

// ReadOnly returns an AccountMeta for a read-only, non-signing account
func ReadOnly(addr address.Address) AccountMeta {
	return AccountMeta{Address: addr}
}

// Writable returns an AccountMeta for a writable, non-signing account
func Writable(addr address.Address) AccountMeta {
	return AccountMeta{Address: addr, IsWritable: true}
}

// Signer returns an AccountMeta for a read-only signing account
func Signer(addr address.Address) AccountMeta {
	return AccountMeta{Address: addr, IsSigner: true}
}

// WritableSigner returns an AccountMeta for a writable signing account
func WritableSigner(addr address.Address) AccountMeta {
	return AccountMeta{Address: addr, IsSigner: true, IsWritable: true}
}
