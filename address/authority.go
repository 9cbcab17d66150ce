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

// AuthorityToken is a seed proof: it stands in for a signature from a derived
// address, which has no private key. Presenting the seeds and bump that
// produce an address is the only way to exercise its authority, and anyone
// holding the seeds can reproduce the proof, so programs must only construct
// tokens for addresses they themselves derived.
type AuthorityToken struct {
	ProgramID Address
	Seeds     [][]byte
	Bump      uint8
}

// NewAuthorityToken returns an AuthorityToken for the provided seeds and bump
func NewAuthorityToken(
	programID Address,
	bump uint8,
	seeds ...[]byte,
) AuthorityToken {
	return AuthorityToken{
		ProgramID: programID,
		Seeds:     seeds,
		Bump:      bump,
	}
}

// Address recomputes the derived address the token proves authority over
func (t AuthorityToken) Address() (Address, error) {
	seeds := make([][]byte, 0, len(t.Seeds)+1)
	seeds = append(seeds, t.Seeds...)
	seeds = append(seeds, []byte{t.Bump})
	return CreateProgramAddress(t.ProgramID, seeds...)
}

// Verify checks that the token derives the expected address
func (t AuthorityToken) Verify(expected Address) error {
	derived, err := t.Address()
	if err != nil {
		return err
	}
	if derived != expected {
		return AddressMismatchError{
			Expected: expected,
			Derived:  derived,
		}
	}
	return nil
}
