package multisig

import (
	"context"
	"testing"

	"github.com/iov-one/treasury"
	"github.com/iov-one/treasury/coin"
	"github.com/iov-one/treasury/errors"
	"github.com/iov-one/treasury/store"
	"github.com/iov-one/treasury/treasurytest"
	"github.com/iov-one/treasury/treasurytest/assert"
	"github.com/iov-one/treasury/x"
)

// newContextWithAuth creates a context with perms as signers.
func newContextWithAuth(perms ...treasury.Condition) (treasury.Context, x.Authenticator) {
	ctx := context.Background()
	ctx = treasury.WithHeight(ctx, 100)
	auth := &treasurytest.CtxAuth{Key: "authKey"}
	return auth.SetConditions(ctx, perms...), auth
}

type handlerRouter map[string]treasury.Handler

func (r handlerRouter) Handle(path string, h treasury.Handler) {
	r[path] = h
}

func TestHandlers(t *testing.T) {
	alice := treasurytest.NewCondition()
	bob := treasurytest.NewCondition()
	mallory := treasurytest.NewCondition()
	recipient := treasurytest.RandomAddr(t)

	reg, err := NewRegistry([]treasury.Address{alice.Address(), bob.Address()}, 2)
	assert.Nil(t, err)
	transfer := &recordingTransfer{}
	m := NewManager(reg, NewProposalBucket(), NewSequenceAllocator(), transfer)

	routes := make(handlerRouter)
	RegisterRoutes(routes, &treasurytest.CtxAuth{Key: "authKey"}, m)
	assert.Equal(t, 3, len(routes))

	db := store.MemStore()

	type step struct {
		signers  []treasury.Condition
		msg      treasury.Msg
		wantErr  *errors.Error
		wantData []byte
	}
	steps := []step{
		{
			signers: []treasury.Condition{mallory},
			msg:     &ProposeTransferMsg{Recipient: recipient, Amount: coin.NewCoin(10, 0, "IOV")},
			wantErr: errors.ErrUnauthorized,
		},
		{
			signers: nil,
			msg:     &ProposeTransferMsg{Recipient: recipient, Amount: coin.NewCoin(10, 0, "IOV")},
			wantErr: errors.ErrUnauthorized,
		},
		{
			signers: []treasury.Condition{alice},
			msg:     &ProposeTransferMsg{Recipient: nil, Amount: coin.NewCoin(10, 0, "IOV")},
			wantErr: errors.ErrEmpty,
		},
		{
			signers:  []treasury.Condition{alice, mallory},
			msg:      &ProposeTransferMsg{Recipient: recipient, Amount: coin.NewCoin(10, 0, "IOV")},
			wantData: ProposalKey(0),
		},
		{
			signers: []treasury.Condition{alice},
			msg:     &ExecuteMsg{ProposalID: 0},
			wantErr: ErrInsufficientApprovals,
		},
		{
			signers: []treasury.Condition{alice},
			msg:     &ApproveMsg{ProposalID: 0},
			wantErr: ErrDuplicateApproval,
		},
		{
			signers: []treasury.Condition{bob},
			msg:     &ApproveMsg{ProposalID: 1},
			wantErr: errors.ErrNotFound,
		},
		{
			signers:  []treasury.Condition{bob},
			msg:      &ApproveMsg{ProposalID: 0},
			wantData: ProposalKey(0),
		},
		{
			signers:  []treasury.Condition{bob},
			msg:      &ExecuteMsg{ProposalID: 0},
			wantData: ProposalKey(0),
		},
		{
			signers: []treasury.Condition{alice},
			msg:     &ExecuteMsg{ProposalID: 0},
			wantErr: ErrAlreadyExecuted,
		},
	}

	for i, s := range steps {
		ctx, _ := newContextWithAuth(s.signers...)
		tx := &treasurytest.Tx{Msg: s.msg}
		h := routes[s.msg.Path()]

		cache := db.CacheWrap()
		_, err := h.Check(ctx, cache, tx)
		cache.Discard()
		if !s.wantErr.Is(err) {
			t.Fatalf("step %d: check: want %v, got %+v", i, s.wantErr, err)
		}

		res, err := h.Deliver(ctx, db, tx)
		if !s.wantErr.Is(err) {
			t.Fatalf("step %d: deliver: want %v, got %+v", i, s.wantErr, err)
		}
		if s.wantErr == nil {
			assert.Equal(t, s.wantData, res.Data)
			assert.Equal(t, 1, len(res.Tags))
		}
	}

	p, err := m.GetProposal(context.Background(), db, 0)
	assert.Nil(t, err)
	assert.Equal(t, true, p.Executed)
	assert.Equal(t, alice.Address(), p.Proposer)
	assert.Equal(t, []coin.Coin{coin.NewCoin(10, 0, "IOV")}, transfer.transfers)
}

func TestCheckDoesNotModifyStore(t *testing.T) {
	alice := treasurytest.NewCondition()
	reg, err := NewRegistry([]treasury.Address{alice.Address()}, 1)
	assert.Nil(t, err)
	transfer := &recordingTransfer{}
	m := NewManager(reg, NewProposalBucket(), NewSequenceAllocator(), transfer)
	ctx, auth := newContextWithAuth(alice)
	db, ops := store.LogableStore()

	msg := &ProposeTransferMsg{Recipient: treasurytest.RandomAddr(t), Amount: coin.NewCoin(1, 0, "IOV")}
	h := ProposeTransferHandler{auth: auth, manager: m}
	res, err := h.Check(ctx, db, &treasurytest.Tx{Msg: msg})
	assert.Nil(t, err)
	assert.Equal(t, proposeCost, res.GasAllocated)
	assert.Equal(t, 0, len(ops.ShowOps()))

	_, err = h.Deliver(ctx, db, &treasurytest.Tx{Msg: msg})
	assert.Nil(t, err)

	exec := ExecuteHandler{auth: auth, manager: m}
	res, err = exec.Check(ctx, db, &treasurytest.Tx{Msg: &ExecuteMsg{ProposalID: 0}})
	assert.Nil(t, err)
	assert.Equal(t, executeCost, res.GasAllocated)
	assert.Equal(t, 0, len(transfer.transfers))
}

func TestRegisterQuery(t *testing.T) {
	qr := treasury.NewQueryRouter()
	RegisterQuery(qr)
	if qr.Handler("/proposals") == nil {
		t.Fatal("proposals query not registered")
	}
}
