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
	"errors"
	"fmt"

	"github.com/blinklabs-io/seedvault/address"
)

var (
	ErrInvalidAccountData     = errors.New("unexpected account data")
	ErrInvalidInstructionData = errors.New("unexpected instruction data")
	ErrInvalidAmount          = errors.New("invalid amount")
	ErrDuplicateOffer         = errors.New("offer already exists")
	ErrMintMismatch           = errors.New("offer mint mismatch")
)

// DuplicateOfferError indicates that (maker, id) already resolves to an
// existing offer
type DuplicateOfferError struct {
	Maker address.Address
	ID    uint64
}

func (e DuplicateOfferError) Error() string {
	return fmt.Sprintf(
		"offer already exists for maker %s with id %d",
		e.Maker.String(),
		e.ID,
	)
}

func (DuplicateOfferError) Is(target error) bool {
	return target == ErrDuplicateOffer
}
