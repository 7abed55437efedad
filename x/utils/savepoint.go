package utils

import (
	"github.com/iov-one/treasury"
	"github.com/iov-one/treasury/errors"
)

// Savepoint isolates all writes done down the stack. They are flushed to
// the parent store only when the call succeeds.
type Savepoint struct {
	onCheck   bool
	onDeliver bool
}

var _ treasury.Decorator = Savepoint{}

// NewSavepoint creates an inactive Savepoint decorator. Use OnCheck and
// OnDeliver to enable it.
func NewSavepoint() Savepoint {
	return Savepoint{}
}

// OnCheck returns a savepoint that is also active during CheckTx
func (s Savepoint) OnCheck() Savepoint {
	s.onCheck = true
	return s
}

// OnDeliver returns a savepoint that is also active during DeliverTx
func (s Savepoint) OnDeliver() Savepoint {
	s.onDeliver = true
	return s
}

// Check runs next inside of a savepoint if enabled for checks.
func (s Savepoint) Check(ctx treasury.Context, db treasury.KVStore, tx treasury.Tx, next treasury.Checker) (*treasury.CheckResult, error) {
	if !s.onCheck {
		return next.Check(ctx, db, tx)
	}
	var res *treasury.CheckResult
	err := withSavepoint(db, func(db treasury.KVStore) error {
		var err error
		res, err = next.Check(ctx, db, tx)
		return err
	})
	return res, err
}

// Deliver runs next inside of a savepoint if enabled for deliveries.
func (s Savepoint) Deliver(ctx treasury.Context, db treasury.KVStore, tx treasury.Tx, next treasury.Deliverer) (*treasury.DeliverResult, error) {
	if !s.onDeliver {
		return next.Deliver(ctx, db, tx)
	}
	var res *treasury.DeliverResult
	err := withSavepoint(db, func(db treasury.KVStore) error {
		var err error
		res, err = next.Deliver(ctx, db, tx)
		return err
	})
	return res, err
}

// withSavepoint calls fn with a cache of db. A store that cannot be cached
// is passed through unchanged.
func withSavepoint(db treasury.KVStore, fn func(treasury.KVStore) error) error {
	cstore, ok := db.(treasury.CacheableKVStore)
	if !ok {
		return fn(db)
	}
	cache := cstore.CacheWrap()
	if err := fn(cache); err != nil {
		cache.Discard()
		return err
	}
	if err := cache.Write(); err != nil {
		return errors.Wrap(err, "writing savepoint")
	}
	return nil
}
