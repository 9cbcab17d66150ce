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

package token

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidAccountData     = errors.New("unexpected account data")
	ErrInvalidInstructionData = errors.New("unexpected instruction data")
	ErrMintMismatch           = errors.New("token account mint mismatch")
	ErrDecimalsMismatch       = errors.New("mint decimals mismatch")
	ErrAccountNotEmpty        = errors.New("token account not empty")
	ErrAmountOverflow         = errors.New("amount overflow")
)

// DecimalsMismatchError indicates that the decimals a caller expected for a
// transfer disagree with the mint's declared decimals
type DecimalsMismatchError struct {
	Expected uint8
	Actual   uint8
}

func (e DecimalsMismatchError) Error() string {
	return fmt.Sprintf(
		"mint decimals mismatch: expected %d, actual %d",
		e.Expected,
		e.Actual,
	)
}

func (DecimalsMismatchError) Is(target error) bool {
	return target == ErrDecimalsMismatch
}

// AccountNotEmptyError indicates a close attempted before the token balance
// was drained
type AccountNotEmptyError struct {
	Amount uint64
}

func (e AccountNotEmptyError) Error() string {
	return fmt.Sprintf(
		"token account not empty: %d remaining",
		e.Amount,
	)
}

func (AccountNotEmptyError) Is(target error) bool {
	return target == ErrAccountNotEmpty
}
