package sigs

import (
	"testing"

	"github.com/iov-one/treasury/crypto"
	"github.com/iov-one/treasury/errors"
	"github.com/iov-one/treasury/store"
	"github.com/iov-one/treasury/treasurytest/assert"
)

func TestUserDataValidate(t *testing.T) {
	pub := crypto.GenPrivKeyEd25519().PublicKey()

	cases := map[string]struct {
		user    UserData
		wantErr *errors.Error
	}{
		"valid": {
			user: UserData{Pubkey: pub, Sequence: 7},
		},
		"negative sequence": {
			user:    UserData{Pubkey: pub, Sequence: -1},
			wantErr: ErrInvalidSequence,
		},
		"missing public key": {
			user:    UserData{Sequence: 1},
			wantErr: errors.ErrEmpty,
		},
		"short public key": {
			user:    UserData{Pubkey: &crypto.PublicKey{Ed25519: []byte{1, 2, 3}}},
			wantErr: errors.ErrInput,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if err := tc.user.Validate(); !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
		})
	}
}

func TestCheckAndIncrementSequence(t *testing.T) {
	u := UserData{Sequence: 3}

	assert.IsErr(t, ErrInvalidSequence, u.CheckAndIncrementSequence(2))
	assert.Equal(t, int64(3), u.Sequence)

	assert.Nil(t, u.CheckAndIncrementSequence(3))
	assert.Equal(t, int64(4), u.Sequence)

	top := UserData{Sequence: maxSequenceValue}
	assert.IsErr(t, errors.ErrOverflow, top.CheckAndIncrementSequence(maxSequenceValue))
}

func TestBucketGetOrCreate(t *testing.T) {
	db := store.MemStore()
	b := NewBucket()
	pub := crypto.GenPrivKeyEd25519().PublicKey()

	u, err := b.GetOrCreate(db, pub)
	assert.Nil(t, err)
	assert.Equal(t, int64(0), u.Sequence)
	assert.Equal(t, pub, u.Pubkey)

	u.Sequence = 5
	assert.Nil(t, b.Save(db, u))

	loaded, err := b.GetOrCreate(db, pub)
	assert.Nil(t, err)
	assert.Equal(t, int64(5), loaded.Sequence)

	assert.IsErr(t, errors.ErrEmpty, b.Save(db, &UserData{}))
}
