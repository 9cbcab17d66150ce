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
	"fmt"

	_cbor "github.com/fxamacker/cbor/v2"
)

var (
	payloadEncMode _cbor.EncMode
	payloadDecMode _cbor.DecMode
)

func init() {
	opts := _cbor.EncOptions{
		// Make sure that maps have ordered keys so payload and message
		// encodings are deterministic
		Sort: _cbor.SortCoreDeterministic,
	}
	var err error
	payloadEncMode, err = opts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("unexpected error creating CBOR encoder: %s", err))
	}
	payloadDecMode, err = _cbor.DecOptions{}.DecMode()
	if err != nil {
		panic(fmt.Sprintf("unexpected error creating CBOR decoder: %s", err))
	}
}

// MarshalPayload encodes a record into the deterministic CBOR form used for
// account payloads and transaction messages
func MarshalPayload(data any) ([]byte, error) {
	return payloadEncMode.Marshal(data)
}

// UnmarshalPayload decodes a CBOR account payload into the provided object
func UnmarshalPayload(raw []byte, dest any) error {
	return payloadDecMode.Unmarshal(raw, dest)
}
