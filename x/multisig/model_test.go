package multisig

import (
	"bytes"
	"testing"

	"github.com/iov-one/treasury"
	"github.com/iov-one/treasury/coin"
	"github.com/iov-one/treasury/errors"
	"github.com/iov-one/treasury/store"
	"github.com/iov-one/treasury/treasurytest"
	"github.com/iov-one/treasury/treasurytest/assert"
)

func TestProposalValidate(t *testing.T) {
	proposer := treasurytest.RandomAddr(t)
	other := treasurytest.RandomAddr(t)
	recipient := treasurytest.RandomAddr(t)

	cases := map[string]struct {
		proposal *Proposal
		wantErr  *errors.Error
	}{
		"valid": {
			proposal: &Proposal{
				Proposer:  proposer,
				Recipient: recipient,
				Amount:    coin.NewCoin(100, 0, "IOV"),
				Approvals: []treasury.Address{proposer, other},
			},
		},
		"zero amount is allowed": {
			proposal: &Proposal{
				Proposer:  proposer,
				Recipient: recipient,
				Amount:    coin.NewCoin(0, 0, "IOV"),
				Approvals: []treasury.Address{proposer},
			},
		},
		"negative amount": {
			proposal: &Proposal{
				Proposer:  proposer,
				Recipient: recipient,
				Amount:    coin.NewCoin(-1, 0, "IOV"),
				Approvals: []treasury.Address{proposer},
			},
			wantErr: errors.ErrAmount,
		},
		"missing ticker": {
			proposal: &Proposal{
				Proposer:  proposer,
				Recipient: recipient,
				Amount:    coin.NewCoin(1, 0, ""),
				Approvals: []treasury.Address{proposer},
			},
			wantErr: errors.ErrCurrency,
		},
		"missing recipient": {
			proposal: &Proposal{
				Proposer:  proposer,
				Amount:    coin.NewCoin(1, 0, "IOV"),
				Approvals: []treasury.Address{proposer},
			},
			wantErr: errors.ErrEmpty,
		},
		"no approvals": {
			proposal: &Proposal{
				Proposer:  proposer,
				Recipient: recipient,
				Amount:    coin.NewCoin(1, 0, "IOV"),
			},
			wantErr: errors.ErrModel,
		},
		"proposer is not the first approval": {
			proposal: &Proposal{
				Proposer:  proposer,
				Recipient: recipient,
				Amount:    coin.NewCoin(1, 0, "IOV"),
				Approvals: []treasury.Address{other, proposer},
			},
			wantErr: errors.ErrModel,
		},
		"duplicated approval": {
			proposal: &Proposal{
				Proposer:  proposer,
				Recipient: recipient,
				Amount:    coin.NewCoin(1, 0, "IOV"),
				Approvals: []treasury.Address{proposer, other, other},
			},
			wantErr: errors.ErrModel,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.IsErr(t, tc.wantErr, tc.proposal.Validate())
		})
	}
}

func TestProposalBucket(t *testing.T) {
	db := store.MemStore()
	b := NewProposalBucket()

	_, err := b.Get(db, 0)
	assert.IsErr(t, errors.ErrNotFound, err)

	proposer := treasurytest.RandomAddr(t)
	recipient := treasurytest.RandomAddr(t)
	for _, id := range []uint64{2, 0, 256, 1} {
		p := &Proposal{
			ID:        id,
			Proposer:  proposer,
			Recipient: recipient,
			Amount:    coin.NewCoin(int64(id), 5, "IOV"),
			Approvals: []treasury.Address{proposer},
		}
		assert.Nil(t, b.Insert(db, id, p))
	}

	p, err := b.Get(db, 256)
	assert.Nil(t, err)
	assert.Equal(t, uint64(256), p.ID)
	assert.Equal(t, coin.NewCoin(256, 5, "IOV"), p.Amount)
	assert.Equal(t, proposer, p.Proposer)
	assert.Equal(t, []treasury.Address{proposer}, p.Approvals)
	assert.Equal(t, false, p.Executed)

	var ids []uint64
	err = b.Iterate(db, func(p *Proposal) error {
		ids = append(ids, p.ID)
		return nil
	})
	assert.Nil(t, err)
	assert.Equal(t, []uint64{0, 1, 2, 256}, ids)

	stop := errors.ErrHuman.New("stop")
	var visited int
	err = b.Iterate(db, func(p *Proposal) error {
		visited++
		return stop
	})
	assert.IsErr(t, errors.ErrHuman, err)
	assert.Equal(t, 1, visited)
}

func TestProposalBucketInsertMismatchedID(t *testing.T) {
	db := store.MemStore()
	addr := treasurytest.RandomAddr(t)
	p := &Proposal{
		ID:        1,
		Proposer:  addr,
		Recipient: addr,
		Amount:    coin.NewCoin(1, 0, "IOV"),
		Approvals: []treasury.Address{addr},
	}
	err := NewProposalBucket().Insert(db, 2, p)
	assert.IsErr(t, errors.ErrModel, err)
}

func TestProposalBucketRejectsInvalid(t *testing.T) {
	db := store.MemStore()
	p := &Proposal{ID: 1}
	err := NewProposalBucket().Insert(db, 1, p)
	if err == nil {
		t.Fatal("invalid proposal stored")
	}
}

func TestProposalKeyOrder(t *testing.T) {
	prev := ProposalKey(0)
	for _, id := range []uint64{1, 255, 256, 1 << 32, 1<<64 - 1} {
		key := ProposalKey(id)
		if bytes.Compare(prev, key) >= 0 {
			t.Fatalf("key of %d is not greater than the previous one", id)
		}
		prev = key
	}
	assert.Equal(t, treasurytest.SequenceID(7), ProposalKey(7))
}

func TestSequenceAllocator(t *testing.T) {
	db := store.MemStore()
	ids := NewSequenceAllocator()

	for want := uint64(0); want < 5; want++ {
		got, err := ids.NextID(db)
		assert.Nil(t, err)
		assert.Equal(t, want, got)
	}

	// Discarded allocations are not observed.
	cache := db.CacheWrap()
	got, err := ids.NextID(cache)
	assert.Nil(t, err)
	assert.Equal(t, uint64(5), got)
	cache.Discard()

	got, err = ids.NextID(db)
	assert.Nil(t, err)
	assert.Equal(t, uint64(5), got)
}
