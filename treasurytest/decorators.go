package treasurytest

import "github.com/iov-one/treasury"

// Decorator counts the calls passing through it and either fails with a
// preset error or hands the transaction over to the next handler.
type Decorator struct {
	// CheckErr fails Check before the next handler is reached.
	CheckErr error
	// DeliverErr fails Deliver before the next handler is reached.
	DeliverErr error

	checks, delivers int
}

var _ treasury.Decorator = (*Decorator)(nil)

func (d *Decorator) Check(ctx treasury.Context, db treasury.KVStore, tx treasury.Tx, next treasury.Checker) (*treasury.CheckResult, error) {
	d.checks++
	if d.CheckErr != nil {
		return nil, d.CheckErr
	}
	return next.Check(ctx, db, tx)
}

func (d *Decorator) Deliver(ctx treasury.Context, db treasury.KVStore, tx treasury.Tx, next treasury.Deliverer) (*treasury.DeliverResult, error) {
	d.delivers++
	if d.DeliverErr != nil {
		return nil, d.DeliverErr
	}
	return next.Deliver(ctx, db, tx)
}

// CheckCallCount is the number of Check calls, failed ones included.
func (d *Decorator) CheckCallCount() int { return d.checks }

// DeliverCallCount is the number of Deliver calls, failed ones included.
func (d *Decorator) DeliverCallCount() int { return d.delivers }

// CallCount is the number of all calls.
func (d *Decorator) CallCount() int { return d.checks + d.delivers }

// Decorate binds d in front of h.
func Decorate(h treasury.Handler, d treasury.Decorator) treasury.Handler {
	return boundDecorator{next: h, dec: d}
}

type boundDecorator struct {
	next treasury.Handler
	dec  treasury.Decorator
}

func (b boundDecorator) Check(ctx treasury.Context, db treasury.KVStore, tx treasury.Tx) (*treasury.CheckResult, error) {
	return b.dec.Check(ctx, db, tx, b.next)
}

func (b boundDecorator) Deliver(ctx treasury.Context, db treasury.KVStore, tx treasury.Tx) (*treasury.DeliverResult, error) {
	return b.dec.Deliver(ctx, db, tx, b.next)
}
