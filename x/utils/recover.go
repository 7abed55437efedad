/*
Package utils contains decorators shared by every transaction that goes
through the treasury application: panic recovery, logging, savepoints and
result tagging.
*/
package utils

import (
	"github.com/iov-one/treasury"
	"github.com/iov-one/treasury/errors"
)

// Recovery turns a panic raised anywhere down the stack into an ErrPanic
// error, so the transaction fails instead of the node.
type Recovery struct{}

var _ treasury.Decorator = Recovery{}

// NewRecovery creates a Recovery decorator
func NewRecovery() Recovery {
	return Recovery{}
}

// Check turns panics into normal errors
func (Recovery) Check(ctx treasury.Context, db treasury.KVStore, tx treasury.Tx, next treasury.Checker) (_ *treasury.CheckResult, err error) {
	defer errors.Recover(&err)
	return next.Check(ctx, db, tx)
}

// Deliver turns panics into normal errors
func (Recovery) Deliver(ctx treasury.Context, db treasury.KVStore, tx treasury.Tx, next treasury.Deliverer) (_ *treasury.DeliverResult, err error) {
	defer errors.Recover(&err)
	return next.Deliver(ctx, db, tx)
}
