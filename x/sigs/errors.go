package sigs

import (
	"github.com/iov-one/treasury/errors"
)

// ErrInvalidSequence is returned when the signature sequence does not match
// the expected signer nonce.
var ErrInvalidSequence = errors.Register(120, "invalid sequence number")
