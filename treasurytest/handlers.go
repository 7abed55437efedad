package treasurytest

import "github.com/iov-one/treasury"

// Handler is a mock implementation of the treasury.Handler interface. It
// returns the configured result and counts the calls.
type Handler struct {
	checkCall   int
	CheckResult treasury.CheckResult
	CheckErr    error

	deliverCall   int
	DeliverResult treasury.DeliverResult
	DeliverErr    error
}

var _ treasury.Handler = (*Handler)(nil)

func (h *Handler) Check(ctx treasury.Context, db treasury.KVStore, tx treasury.Tx) (*treasury.CheckResult, error) {
	h.checkCall++
	if h.CheckErr != nil {
		return nil, h.CheckErr
	}
	res := h.CheckResult
	return &res, nil
}

func (h *Handler) Deliver(ctx treasury.Context, db treasury.KVStore, tx treasury.Tx) (*treasury.DeliverResult, error) {
	h.deliverCall++
	if h.DeliverErr != nil {
		return nil, h.DeliverErr
	}
	res := h.DeliverResult
	return &res, nil
}

func (h *Handler) CheckCallCount() int {
	return h.checkCall
}

func (h *Handler) DeliverCallCount() int {
	return h.deliverCall
}

func (h *Handler) CallCount() int {
	return h.checkCall + h.deliverCall
}
