package sigs

import (
	"testing"

	"github.com/iov-one/treasury"
	"github.com/iov-one/treasury/crypto"
	"github.com/iov-one/treasury/errors"
	"github.com/iov-one/treasury/store"
	"github.com/iov-one/treasury/treasurytest"
	"github.com/iov-one/treasury/treasurytest/assert"
)

// StdTx is a minimal SignedTx implementation used in tests.
type StdTx struct {
	treasurytest.Tx
	Sigs  []*StdSignature
	Bytes []byte
}

var _ SignedTx = (*StdTx)(nil)

func (tx StdTx) GetSignBytes() ([]byte, error) {
	return tx.Bytes, nil
}

func (tx StdTx) GetSignatures() []*StdSignature {
	return tx.Sigs
}

func NewStdTx(payload []byte) *StdTx {
	return &StdTx{
		Tx:    treasurytest.Tx{Msg: &treasurytest.Msg{RoutePath: "sigs/test"}},
		Bytes: payload,
	}
}

func TestBuildSignBytes(t *testing.T) {
	const chainID = "test-chain"

	a, err := BuildSignBytes([]byte("foo"), chainID, 0)
	assert.Nil(t, err)
	b, err := BuildSignBytes([]byte("foo"), chainID, 0)
	assert.Nil(t, err)
	assert.Equal(t, a, b)
	assert.Equal(t, 64, len(a))

	cases := map[string]struct {
		payload []byte
		chainID string
		seq     int64
	}{
		"different payload":  {payload: []byte("bar"), chainID: chainID, seq: 0},
		"different chain":    {payload: []byte("foo"), chainID: "other-chain", seq: 0},
		"different sequence": {payload: []byte("foo"), chainID: chainID, seq: 1},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			c, err := BuildSignBytes(tc.payload, tc.chainID, tc.seq)
			assert.Nil(t, err)
			if string(a) == string(c) {
				t.Fatal("sign bytes must differ")
			}
		})
	}

	_, err = BuildSignBytes([]byte("foo"), chainID, -1)
	assert.IsErr(t, ErrInvalidSequence, err)
	_, err = BuildSignBytes([]byte("foo"), "bad", 0)
	assert.IsErr(t, errors.ErrInput, err)
}

func TestVerifySignature(t *testing.T) {
	const chainID = "test-verify"

	priv := crypto.GenPrivKeyEd25519()
	pub := priv.PublicKey()
	other := crypto.GenPrivKeyEd25519()

	tx := NewStdTx([]byte("transfer money"))

	sig0, err := SignTx(priv, tx, chainID, 0)
	assert.Nil(t, err)
	sig1, err := SignTx(priv, tx, chainID, 1)
	assert.Nil(t, err)
	wrongChain, err := SignTx(priv, tx, "other-chain", 0)
	assert.Nil(t, err)
	foreign, err := SignTx(other, tx, chainID, 0)
	assert.Nil(t, err)
	foreign.Pubkey = pub

	db := store.MemStore()
	bz, err := tx.GetSignBytes()
	assert.Nil(t, err)

	// out of order sequence is rejected
	_, err = VerifySignature(db, sig1, bz, chainID)
	assert.IsErr(t, ErrInvalidSequence, err)

	// signature made for another chain does not verify
	_, err = VerifySignature(db, wrongChain, bz, chainID)
	assert.IsErr(t, errors.ErrUnauthorized, err)

	// signature made with another key does not verify
	_, err = VerifySignature(db, foreign, bz, chainID)
	assert.IsErr(t, errors.ErrUnauthorized, err)

	cond, err := VerifySignature(db, sig0, bz, chainID)
	assert.Nil(t, err)
	assert.Equal(t, pub.Condition(), cond)

	nonce, err := NextNonce(db, pub.Address())
	assert.Nil(t, err)
	assert.Equal(t, int64(1), nonce)

	// replay is rejected
	_, err = VerifySignature(db, sig0, bz, chainID)
	assert.IsErr(t, ErrInvalidSequence, err)

	_, err = VerifySignature(db, sig1, bz, chainID)
	assert.Nil(t, err)

	nonce, err = NextNonce(db, pub.Address())
	assert.Nil(t, err)
	assert.Equal(t, int64(2), nonce)
}

func TestVerifyTxSignatures(t *testing.T) {
	const chainID = "test-verify-tx"

	alice := crypto.GenPrivKeyEd25519()
	bob := crypto.GenPrivKeyEd25519()

	tx := NewStdTx([]byte("approve proposal"))
	aliceSig, err := SignTx(alice, tx, chainID, 0)
	assert.Nil(t, err)
	bobSig, err := SignTx(bob, tx, chainID, 0)
	assert.Nil(t, err)

	cases := map[string]struct {
		sigs    []*StdSignature
		wantErr *errors.Error
		want    []treasury.Condition
	}{
		"no signatures": {
			sigs: nil,
			want: []treasury.Condition{},
		},
		"single signature": {
			sigs: []*StdSignature{aliceSig},
			want: []treasury.Condition{alice.PublicKey().Condition()},
		},
		"two signatures": {
			sigs: []*StdSignature{aliceSig, bobSig},
			want: []treasury.Condition{alice.PublicKey().Condition(), bob.PublicKey().Condition()},
		},
		"missing public key": {
			sigs:    []*StdSignature{{Signature: aliceSig.Signature}},
			wantErr: errors.ErrUnauthorized,
		},
		"negative sequence": {
			sigs:    []*StdSignature{{Pubkey: alice.PublicKey(), Signature: aliceSig.Signature, Sequence: -2}},
			wantErr: ErrInvalidSequence,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			stx := *tx
			stx.Sigs = tc.sigs

			conds, err := VerifyTxSignatures(db, &stx, chainID)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if tc.wantErr == nil {
				assert.Equal(t, tc.want, conds)
			}
		})
	}
}
