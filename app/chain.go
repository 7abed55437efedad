package app

import (
	"reflect"

	"github.com/iov-one/treasury"
)

// Decorators holds a chain of decorators, not yet resolved by a Handler
type Decorators struct {
	chain []treasury.Decorator
}

/*
ChainDecorators takes a chain of decorators,
and upon adding a final Handler (often a Router),
returns a Handler that will execute this whole stack.

	app.ChainDecorators(
	  utils.NewLogging(),
	  utils.NewRecovery(),
	  sigs.NewDecorator(),
	  utils.NewSavepoint().OnCheck(),
	).WithHandler(
	  app.NewRouter(),
	)
*/
func ChainDecorators(chain ...treasury.Decorator) Decorators {
	return Decorators{}.Chain(chain...)
}

// Chain allows us to keep adding more Decorators to the chain
func (d Decorators) Chain(chain ...treasury.Decorator) Decorators {
	chain = cutoffNil(chain)
	next := make([]treasury.Decorator, 0, len(d.chain)+len(chain))
	next = append(next, d.chain...)
	next = append(next, chain...)
	return Decorators{chain: next}
}

// cutoffNil will in-place remove all nil values from given slice.
func cutoffNil(ds []treasury.Decorator) []treasury.Decorator {
	var cutoff int
	for i := 0; i < len(ds); i++ {
		ds[i-cutoff] = ds[i]
		if ds[i] == nil || (reflect.ValueOf(ds[i]).Kind() == reflect.Ptr && reflect.ValueOf(ds[i]).IsNil()) {
			cutoff++
		}
	}
	return ds[:len(ds)-cutoff]
}

// WithHandler resolves the stack and returns a concrete Handler
// that will pass through the chain of decorators before calling
// the final Handler.
func (d Decorators) WithHandler(h treasury.Handler) treasury.Handler {
	// the first decorator of the chain is the outermost one
	for i := len(d.chain) - 1; i >= 0; i-- {
		h = step{d: d.chain[i], next: h}
	}
	return h
}

// step captures one step executing a decorator around a
// specific Handler.
type step struct {
	d    treasury.Decorator
	next treasury.Handler
}

var _ treasury.Handler = step{}

// Check passes the handler into the decorator, implements Handler
func (s step) Check(ctx treasury.Context, db treasury.KVStore, tx treasury.Tx) (*treasury.CheckResult, error) {
	return s.d.Check(ctx, db, tx, s.next)
}

// Deliver passes the handler into the decorator, implements Handler
func (s step) Deliver(ctx treasury.Context, db treasury.KVStore, tx treasury.Tx) (*treasury.DeliverResult, error) {
	return s.d.Deliver(ctx, db, tx, s.next)
}
