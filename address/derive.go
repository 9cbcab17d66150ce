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
	"crypto/sha256"
	"errors"
	"fmt"

	"filippo.io/edwards25519"
)

const (
	// MaxSeeds is the maximum number of seeds allowed in a single derivation
	MaxSeeds = 16
	// MaxSeedLength is the maximum length of any individual seed
	MaxSeedLength = 32
)

// derivedAddressMarker is appended to the derivation preimage so derived
// addresses live in a distinct hash domain from any other use of the seeds
var derivedAddressMarker = []byte("ProgramDerivedAddress")

// ErrNoValidBump indicates that no bump in [255..0] produced an off-curve
// address for the provided seeds. This is statistically near-impossible and
// should be treated as fatal by callers.
var ErrNoValidBump = errors.New("no valid bump found for seeds")

// ErrAddressMismatch is a sentinel for derivation disagreement failures so
// callers can use errors.Is
var ErrAddressMismatch = errors.New("derived address mismatch")

// AddressMismatchError indicates that a caller-supplied address disagrees
// with a fresh derivation from the same seeds
type AddressMismatchError struct {
	Expected Address
	Derived  Address
}

func (e AddressMismatchError) Error() string {
	return fmt.Sprintf(
		"derived address mismatch: expected %s, derived %s",
		e.Expected.String(),
		e.Derived.String(),
	)
}

func (AddressMismatchError) Is(target error) bool {
	return target == ErrAddressMismatch
}

// SeedLengthError indicates an out-of-bounds seed count or seed length
type SeedLengthError struct {
	Count  int
	Length int
}

func (e SeedLengthError) Error() string {
	if e.Count > MaxSeeds {
		return fmt.Sprintf(
			"too many seeds: %d (max %d)",
			e.Count,
			MaxSeeds,
		)
	}
	return fmt.Sprintf(
		"seed too long: %d bytes (max %d)",
		e.Length,
		MaxSeedLength,
	)
}

func validateSeeds(seeds [][]byte) error {
	if len(seeds) > MaxSeeds {
		return SeedLengthError{Count: len(seeds)}
	}
	for _, seed := range seeds {
		if len(seed) > MaxSeedLength {
			return SeedLengthError{Count: len(seeds), Length: len(seed)}
		}
	}
	return nil
}

// isOnCurve returns true if the provided bytes decompress as a valid
// edwards25519 point, meaning a private key could exist for them
func isOnCurve(b []byte) bool {
	_, err := new(edwards25519.Point).SetBytes(b)
	return err == nil
}

// CreateProgramAddress deterministically derives an address from the provided
// seeds and program ID. It fails if the result lands on the ed25519 curve,
// since a derived address must never be reachable by an independent private
// key. Callers normally use FindProgramAddress instead and only call this
// directly to re-validate a stored bump.
func CreateProgramAddress(
	programID Address,
	seeds ...[]byte,
) (Address, error) {
	if err := validateSeeds(seeds); err != nil {
		return Address{}, err
	}
	h := sha256.New()
	for _, seed := range seeds {
		h.Write(seed)
	}
	h.Write(programID[:])
	h.Write(derivedAddressMarker)
	sum := h.Sum(nil)
	if isOnCurve(sum) {
		return Address{}, errors.New(
			"invalid seeds: derived address is on the ed25519 curve",
		)
	}
	return NewAddressFromBytes(sum)
}

// FindProgramAddress searches for the canonical off-curve address for the
// provided seeds, starting from bump 255 and counting down. The first hit is
// the canonical (address, bump) pair and is fully deterministic.
func FindProgramAddress(
	programID Address,
	seeds ...[]byte,
) (Address, uint8, error) {
	if err := validateSeeds(seeds); err != nil {
		return Address{}, 0, err
	}
	bumpSeeds := make([][]byte, 0, len(seeds)+1)
	bumpSeeds = append(bumpSeeds, seeds...)
	for bump := 255; bump >= 0; bump-- {
		addr, err := CreateProgramAddress(
			programID,
			append(bumpSeeds, []byte{uint8(bump)})...,
		)
		if err == nil {
			return addr, uint8(bump), nil
		}
	}
	return Address{}, 0, ErrNoValidBump
}
