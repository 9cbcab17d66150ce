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
	"errors"
	"fmt"

	"github.com/blinklabs-io/seedvault/address"
)

// Sentinel errors so callers can use errors.Is across the typed variants
var (
	ErrAccountNotFound   = errors.New("account not found")
	ErrAccountExists     = errors.New("account already exists")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrMissingSignature  = errors.New("missing required signature")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrUnknownProgram    = errors.New("unknown program")
)

// AccountNotFoundError indicates a lookup of a missing or closed account
type AccountNotFoundError struct {
	Address address.Address
}

func (e AccountNotFoundError) Error() string {
	return fmt.Sprintf("account not found: %s", e.Address.String())
}

func (AccountNotFoundError) Is(target error) bool {
	return target == ErrAccountNotFound
}

// AccountExistsError indicates an attempt to create an account at an address
// that already holds one
type AccountExistsError struct {
	Address address.Address
}

func (e AccountExistsError) Error() string {
	return fmt.Sprintf("account already exists: %s", e.Address.String())
}

func (AccountExistsError) Is(target error) bool {
	return target == ErrAccountExists
}

// InsufficientFundsError indicates a debit larger than the available balance
type InsufficientFundsError struct {
	Address   address.Address
	Needed    uint64
	Available uint64
}

func (e InsufficientFundsError) Error() string {
	return fmt.Sprintf(
		"insufficient funds in %s: needed %d, available %d",
		e.Address.String(),
		e.Needed,
		e.Available,
	)
}

func (InsufficientFundsError) Is(target error) bool {
	return target == ErrInsufficientFunds
}

// MissingSignatureError indicates that an instruction requires a signature
// from an address that neither signed the transaction nor was proven via
// seed proof
type MissingSignatureError struct {
	Address address.Address
}

func (e MissingSignatureError) Error() string {
	return fmt.Sprintf(
		"missing required signature for %s",
		e.Address.String(),
	)
}

func (MissingSignatureError) Is(target error) bool {
	return target == ErrMissingSignature
}

// UnknownProgramError indicates an instruction targeting an unregistered
// program ID
type UnknownProgramError struct {
	ProgramID address.Address
}

func (e UnknownProgramError) Error() string {
	return fmt.Sprintf("unknown program: %s", e.ProgramID.String())
}

func (UnknownProgramError) Is(target error) bool {
	return target == ErrUnknownProgram
}

// InstructionError wraps a failure from a specific instruction within a
// transaction
type InstructionError struct {
	Index int
	Err   error
}

func (e InstructionError) Error() string {
	return fmt.Sprintf("instruction %d failed: %v", e.Index, e.Err)
}

func (e InstructionError) Unwrap() error {
	return e.Err
}
