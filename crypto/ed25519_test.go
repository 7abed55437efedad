package crypto

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEd25519Verify(t *testing.T) {
	signer := GenPrivKeyEd25519()
	other := GenPrivKeyEd25519()

	propose := []byte("propose transfer of 100 IOV")
	approve := []byte("approve proposal 0")

	mustSign := func(key *PrivateKey, msg []byte) *Signature {
		sig, err := key.Sign(msg)
		require.NoError(t, err)
		return sig
	}

	cases := map[string]struct {
		msg  []byte
		sig  *Signature
		want bool
	}{
		"own signature":          {msg: propose, sig: mustSign(signer, propose), want: true},
		"second message":         {msg: approve, sig: mustSign(signer, approve), want: true},
		"signature of other msg": {msg: propose, sig: mustSign(signer, approve), want: false},
		"signature of other key": {msg: propose, sig: mustSign(other, propose), want: false},
		"empty signature":        {msg: propose, sig: &Signature{}, want: false},
		"missing signature":      {msg: propose, sig: nil, want: false},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.Equal(t, tc.want, signer.PublicKey().Verify(tc.msg, tc.sig))
		})
	}

	a, err := mustSign(signer, propose).Marshal()
	require.NoError(t, err)
	b, err := mustSign(signer, approve).Marshal()
	require.NoError(t, err)
	assert.False(t, bytes.Equal(a, b), "different messages must not share a signature")
}

func TestEd25519Condition(t *testing.T) {
	pub := GenPrivKeyEd25519().PublicKey()
	require.NoError(t, pub.Condition().Validate())
	assert.NotEqual(t, pub.Condition(), GenPrivKeyEd25519().PublicKey().Condition())
	assert.Equal(t, pub.Condition().Address(), pub.Address())

	var empty PublicKey
	assert.Nil(t, empty.Condition())
	assert.Nil(t, empty.Address())

	raw, err := pub.Marshal()
	require.NoError(t, err)
	var loaded PublicKey
	require.NoError(t, loaded.Unmarshal(raw))
	assert.Equal(t, pub.Address(), loaded.Address())
}

func TestPrivKeyEd25519FromSeed(t *testing.T) {
	zeros := make([]byte, 32)
	ones := bytes.Repeat([]byte{31}, 32)

	cases := map[string]struct {
		seed      []byte
		wantPanic bool
		// public half of the expected key, the private half is the seed
		wantPub []byte
	}{
		"zero seed": {
			seed:    zeros,
			wantPub: []byte{59, 106, 39, 188, 206, 182, 164, 45, 98, 163, 168, 208, 42, 111, 13, 115, 101, 50, 21, 119, 29, 226, 67, 166, 58, 192, 72, 161, 139, 89, 218, 41},
		},
		"repeated seed": {
			seed:    ones,
			wantPub: []byte{67, 4, 107, 254, 64, 146, 179, 233, 73, 148, 234, 218, 21, 220, 194, 13, 138, 170, 7, 182, 88, 253, 57, 84, 235, 142, 14, 251, 139, 220, 165, 222},
		},
		"nil seed":       {seed: nil, wantPanic: true},
		"seed too short": {seed: []byte{0}, wantPanic: true},
		"seed too long":  {seed: make([]byte, 33), wantPanic: true},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if tc.wantPanic {
				assert.Panics(t, func() { PrivKeyEd25519FromSeed(tc.seed) })
				return
			}
			key := PrivKeyEd25519FromSeed(tc.seed)
			assert.Equal(t, append(append([]byte{}, tc.seed...), tc.wantPub...), key.GetEd25519())
		})
	}
}
