package treasurytest

import (
	"crypto/rand"
	"testing"

	"github.com/iov-one/treasury"
	"github.com/iov-one/treasury/crypto"
)

// NewKey returns a new random private key.
func NewKey() *crypto.PrivateKey {
	return crypto.GenPrivKeyEd25519()
}

// NewCondition returns the signature condition of a new random key.
func NewCondition() treasury.Condition {
	return NewKey().PublicKey().Condition()
}

// SequenceID returns the 8 byte big endian encoding of n.
func SequenceID(n uint64) []byte {
	b := make([]byte, 8)
	for i := 7; i >= 0; i-- {
		b[i] = byte(n)
		n >>= 8
	}
	return b
}

// RandomAddr returns a valid random address generated on the fly.
func RandomAddr(t testing.TB) treasury.Address {
	t.Helper()
	raw := make([]byte, treasury.AddressLength)
	if _, err := rand.Read(raw); err != nil {
		t.Fatalf("cannot generate a random address: %s", err)
	}
	a := treasury.Address(raw)
	if err := a.Validate(); err != nil {
		t.Fatalf("generated address is not valid: %s", err)
	}
	return a
}

// ParseAddress takes an address in any format supported by
// treasury.ParseAddress and returns its binary representation.
func ParseAddress(t testing.TB, encodedAddress string) treasury.Address {
	t.Helper()

	addr, err := treasury.ParseAddress(encodedAddress)
	if err != nil {
		t.Fatalf("cannot parse %q address: %s", encodedAddress, err)
	}
	return addr
}
