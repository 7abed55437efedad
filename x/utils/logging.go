package utils

import (
	"time"

	"github.com/iov-one/treasury"
)

// Logging writes one log entry for every processed transaction, with the
// processing time and the failure if any.
type Logging struct{}

var _ treasury.Decorator = Logging{}

// NewLogging creates a Logging decorator
func NewLogging() Logging {
	return Logging{}
}

// Check logs failures as errors and success as debug.
func (Logging) Check(ctx treasury.Context, db treasury.KVStore, tx treasury.Tx, next treasury.Checker) (*treasury.CheckResult, error) {
	start := time.Now()
	res, err := next.Check(ctx, db, tx)
	var msg string
	if err == nil {
		msg = res.Log
	}
	logDuration(ctx, start, msg, err, true)
	return res, err
}

// Deliver logs failures as errors and success as info.
func (Logging) Deliver(ctx treasury.Context, db treasury.KVStore, tx treasury.Tx, next treasury.Deliverer) (*treasury.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, db, tx)
	var msg string
	if err == nil {
		msg = res.Log
	}
	logDuration(ctx, start, msg, err, false)
	return res, err
}

func logDuration(ctx treasury.Context, start time.Time, msg string, err error, lowPrio bool) {
	logger := treasury.GetLogger(ctx).With("duration", time.Since(start)/time.Microsecond)

	// An entry is emitted even for an empty message, the key values carry
	// the information.
	switch {
	case err != nil:
		logger.Error(msg, "err", err)
	case lowPrio:
		logger.Debug(msg)
	default:
		logger.Info(msg)
	}
}
