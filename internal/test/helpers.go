package test

import (
	"bytes"
	"fmt"

	"github.com/blinklabs-io/seedvault/address"
)

// DeterministicKeypair returns a keypair derived from a single tag byte so
// tests are reproducible. It doesn't return an error value, which makes it
// usable inline.
func DeterministicKeypair(tag byte) address.Keypair {
	kp, err := address.NewKeypairFromSeed(bytes.Repeat([]byte{tag}, 32))
	if err != nil {
		panic(fmt.Sprintf("error building keypair: %s", err))
	}
	return kp
}
