package multisig

import (
	"github.com/iov-one/treasury"
	"github.com/iov-one/treasury/errors"
	"github.com/iov-one/treasury/x"
	"github.com/tendermint/tendermint/libs/common"
)

const (
	proposeCost int64 = 100
	approveCost int64 = 10
	executeCost int64 = 50
)

// RegisterRoutes will instantiate and register
// all handlers in this package
func RegisterRoutes(r treasury.Registry, auth x.Authenticator, m *Manager) {
	r.Handle(pathProposeTransferMsg, ProposeTransferHandler{auth: auth, manager: m})
	r.Handle(pathApproveMsg, ApproveHandler{auth: auth, manager: m})
	r.Handle(pathExecuteMsg, ExecuteHandler{auth: auth, manager: m})
}

// RegisterQuery register queries from buckets in this package
func RegisterQuery(qr treasury.QueryRouter) {
	NewProposalBucket().Register("proposals", qr)
}

// ProposeTransferHandler creates proposals signed by the main signer.
type ProposeTransferHandler struct {
	auth    x.Authenticator
	manager *Manager
}

var _ treasury.Handler = ProposeTransferHandler{}

func (h ProposeTransferHandler) Check(ctx treasury.Context, db treasury.KVStore, tx treasury.Tx) (*treasury.CheckResult, error) {
	caller, msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	if err := h.manager.CanPropose(caller, msg.Recipient, msg.Amount); err != nil {
		return nil, err
	}
	return &treasury.CheckResult{GasAllocated: proposeCost}, nil
}

func (h ProposeTransferHandler) Deliver(ctx treasury.Context, db treasury.KVStore, tx treasury.Tx) (*treasury.DeliverResult, error) {
	caller, msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	id, err := h.manager.Propose(ctx, db, caller, msg.Recipient, msg.Amount)
	if err != nil {
		return nil, err
	}
	key := ProposalKey(id)
	return &treasury.DeliverResult{
		Data: key,
		Tags: []common.KVPair{{Key: []byte(BucketName), Value: key}},
	}, nil
}

func (h ProposeTransferHandler) validate(ctx treasury.Context, tx treasury.Tx) (treasury.Address, *ProposeTransferMsg, error) {
	var msg ProposeTransferMsg
	if err := treasury.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	caller, err := mainSigner(ctx, h.auth)
	if err != nil {
		return nil, nil, err
	}
	return caller, &msg, nil
}

// ApproveHandler adds the main signer approval to a proposal.
type ApproveHandler struct {
	auth    x.Authenticator
	manager *Manager
}

var _ treasury.Handler = ApproveHandler{}

func (h ApproveHandler) Check(ctx treasury.Context, db treasury.KVStore, tx treasury.Tx) (*treasury.CheckResult, error) {
	caller, msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	if err := h.manager.CanApprove(db, caller, msg.ProposalID); err != nil {
		return nil, err
	}
	return &treasury.CheckResult{GasAllocated: approveCost}, nil
}

func (h ApproveHandler) Deliver(ctx treasury.Context, db treasury.KVStore, tx treasury.Tx) (*treasury.DeliverResult, error) {
	caller, msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	if err := h.manager.Approve(ctx, db, caller, msg.ProposalID); err != nil {
		return nil, err
	}
	key := ProposalKey(msg.ProposalID)
	return &treasury.DeliverResult{
		Data: key,
		Tags: []common.KVPair{{Key: []byte(BucketName), Value: key}},
	}, nil
}

func (h ApproveHandler) validate(ctx treasury.Context, tx treasury.Tx) (treasury.Address, *ApproveMsg, error) {
	var msg ApproveMsg
	if err := treasury.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	caller, err := mainSigner(ctx, h.auth)
	if err != nil {
		return nil, nil, err
	}
	return caller, &msg, nil
}

// ExecuteHandler executes a proposal on behalf of the main signer.
type ExecuteHandler struct {
	auth    x.Authenticator
	manager *Manager
}

var _ treasury.Handler = ExecuteHandler{}

func (h ExecuteHandler) Check(ctx treasury.Context, db treasury.KVStore, tx treasury.Tx) (*treasury.CheckResult, error) {
	caller, msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	if err := h.manager.CanExecute(db, caller, msg.ProposalID); err != nil {
		return nil, err
	}
	return &treasury.CheckResult{GasAllocated: executeCost}, nil
}

func (h ExecuteHandler) Deliver(ctx treasury.Context, db treasury.KVStore, tx treasury.Tx) (*treasury.DeliverResult, error) {
	caller, msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	if err := h.manager.Execute(ctx, db, caller, msg.ProposalID); err != nil {
		return nil, err
	}
	key := ProposalKey(msg.ProposalID)
	return &treasury.DeliverResult{
		Data: key,
		Tags: []common.KVPair{{Key: []byte(BucketName), Value: key}},
	}, nil
}

func (h ExecuteHandler) validate(ctx treasury.Context, tx treasury.Tx) (treasury.Address, *ExecuteMsg, error) {
	var msg ExecuteMsg
	if err := treasury.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	caller, err := mainSigner(ctx, h.auth)
	if err != nil {
		return nil, nil, err
	}
	return caller, &msg, nil
}

// mainSigner returns the address of the transaction main signer. This is the
// caller of all manager operations.
func mainSigner(ctx treasury.Context, auth x.Authenticator) (treasury.Address, error) {
	signer := x.MainSigner(ctx, auth)
	if signer == nil {
		return nil, errors.Wrap(errors.ErrUnauthorized, "no signer")
	}
	return signer.Address(), nil
}
