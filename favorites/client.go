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

package favorites

import (
	"github.com/blinklabs-io/seedvault/address"
	"github.com/blinklabs-io/seedvault/ledger"
)

// Client drives the favorites program against a store
type Client struct {
	store *ledger.Store
}

// NewClient returns a Client for the provided store
func NewClient(store *ledger.Store) *Client {
	return &Client{store: store}
}

// Get returns the decoded record for a user
func (c *Client) Get(user address.Address) (Favorites, error) {
	record, _, err := RecordAddress(user)
	if err != nil {
		return Favorites{}, err
	}
	acct, err := c.store.Get(record)
	if err != nil {
		return Favorites{}, err
	}
	return DecodeFavorites(acct)
}

// Set creates the user's record
func (c *Client) Set(
	user address.Keypair,
	number uint64,
	color string,
) error {
	record, _, err := RecordAddress(user.Address())
	if err != nil {
		return err
	}
	tx := ledger.NewTransaction(
		NewSetInstruction(user.Address(), record, number, color),
	)
	_, err = c.store.Submit(tx, []address.Keypair{user})
	return err
}

// Update partially updates the target user's record as the provided signer
func (c *Client) Update(
	signer address.Keypair,
	user address.Address,
	number *uint64,
	color *string,
) error {
	record, _, err := RecordAddress(user)
	if err != nil {
		return err
	}
	tx := ledger.NewTransaction(
		NewUpdateInstruction(signer.Address(), record, user, number, color),
	)
	_, err = c.store.Submit(tx, []address.Keypair{signer})
	return err
}

// SetAuthority sets or clears the delegate on the owner's own record
func (c *Client) SetAuthority(
	owner address.Keypair,
	delegate *address.Address,
) error {
	record, _, err := RecordAddress(owner.Address())
	if err != nil {
		return err
	}
	tx := ledger.NewTransaction(
		NewSetAuthorityInstruction(owner.Address(), record, delegate),
	)
	_, err = c.store.Submit(tx, []address.Keypair{owner})
	return err
}
