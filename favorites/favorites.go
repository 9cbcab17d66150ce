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

// Package favorites implements a per-user mutable record with an
// owner/delegate authorization model. Each user has at most one record, at
// the address derived from their own wallet address, created once and then
// updatable by the owner or an optional delegate the owner appoints.
package favorites

import (
	"errors"
	"fmt"

	"github.com/blinklabs-io/seedvault/address"
	"github.com/blinklabs-io/seedvault/ledger"
)

// ProgramID identifies the favorites program namespace
var ProgramID = address.MustAddress(
	"GkAiDFtUybvWXZ4QxV2gXRiiPMba789jUdjWrWXtxCAq",
)

// favoritesSeed is the namespace tag for record addresses
var favoritesSeed = []byte("favorites")

// MaxColorLength bounds the color field
const MaxColorLength = 50

var (
	ErrInvalidAccountData     = errors.New("unexpected account data")
	ErrInvalidInstructionData = errors.New("unexpected instruction data")
	ErrDuplicateRecord        = errors.New("record already exists")
	ErrColorTooLong           = errors.New("color too long")
)

// DuplicateRecordError indicates that the user already has a record
type DuplicateRecordError struct {
	User address.Address
}

func (e DuplicateRecordError) Error() string {
	return fmt.Sprintf(
		"record already exists for user %s",
		e.User.String(),
	)
}

func (DuplicateRecordError) Is(target error) bool {
	return target == ErrDuplicateRecord
}

// Favorites is the persisted record. Owner is set once at creation and never
// reassigned; Delegate may be set or cleared by the owner only.
type Favorites struct {
	_        struct{} `cbor:",toarray"`
	Number   uint64
	Color    string
	Owner    address.Address
	Delegate *address.Address
}

// RecordAddress derives the canonical record address for a user
func RecordAddress(user address.Address) (address.Address, uint8, error) {
	return address.FindProgramAddress(
		ProgramID,
		favoritesSeed,
		user.Bytes(),
	)
}

// DecodeFavorites decodes a Favorites record from a favorites-program
// account
func DecodeFavorites(acct ledger.Account) (Favorites, error) {
	if acct.Owner != ProgramID {
		return Favorites{}, ErrInvalidAccountData
	}
	var ret Favorites
	if err := ledger.UnmarshalPayload(acct.Payload, &ret); err != nil {
		return Favorites{}, ErrInvalidAccountData
	}
	return ret, nil
}

// Authorize permits a signer iff it is the record's owner or its currently
// set delegate. An absent delegate never matches: "no delegate" means
// nobody, not anybody.
func Authorize(
	signer address.Address,
	owner address.Address,
	delegate *address.Address,
) error {
	if signer == owner {
		return nil
	}
	if delegate != nil && signer == *delegate {
		return nil
	}
	return fmt.Errorf(
		"%w: %s is neither owner nor delegate",
		ledger.ErrUnauthorized,
		signer.String(),
	)
}

func validateColor(color string) error {
	if len(color) > MaxColorLength {
		return fmt.Errorf(
			"%w: %d bytes (max %d)",
			ErrColorTooLong,
			len(color),
			MaxColorLength,
		)
	}
	return nil
}
