package sigs

import (
	"bytes"
	"crypto/sha512"
	"encoding/binary"

	"github.com/iov-one/treasury"
	"github.com/iov-one/treasury/crypto"
	"github.com/iov-one/treasury/errors"
)

// SignCodeV1 prefixes the signed payload of the first sign bytes version.
var SignCodeV1 = []byte{0, 0xCA, 0xFE, 0}

// VerifyTxSignatures verifies every signature of tx and consumes the nonce
// of each signer. Signer conditions are returned in signature order.
func VerifyTxSignatures(db treasury.KVStore, tx SignedTx, chainID string) ([]treasury.Condition, error) {
	payload, err := tx.GetSignBytes()
	if err != nil {
		return nil, errors.Wrap(err, "cannot get sign bytes")
	}

	sigs := tx.GetSignatures()
	signers := make([]treasury.Condition, 0, len(sigs))
	for i, sig := range sigs {
		signer, err := VerifySignature(db, sig, payload, chainID)
		if err != nil {
			return nil, errors.Wrapf(err, "signature %d", i)
		}
		signers = append(signers, signer)
	}
	return signers, nil
}

// VerifySignature checks a single signature of payload. On success the
// sequence of the signer account is incremented and saved.
func VerifySignature(db treasury.KVStore, sig *StdSignature, payload []byte, chainID string) (treasury.Condition, error) {
	if err := sig.Validate(); err != nil {
		return nil, err
	}
	signed, err := BuildSignBytes(payload, chainID, sig.Sequence)
	if err != nil {
		return nil, err
	}

	accounts := NewBucket()
	account, err := accounts.GetOrCreate(db, sig.Pubkey)
	if err != nil {
		return nil, err
	}
	if !account.Pubkey.Verify(signed, sig.Signature) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "invalid signature")
	}
	if err := account.CheckAndIncrementSequence(sig.Sequence); err != nil {
		return nil, err
	}
	if err := accounts.Save(db, account); err != nil {
		return nil, err
	}
	return account.Pubkey.Condition(), nil
}

/*
BuildSignBytes returns the sha512 digest of

	SignCodeV1 | len(chainID) as one byte | chainID | seq as big endian uint64 | payload

Binding the chain id and the sequence into the digest keeps a signature from
being replayed on another chain or with another nonce.
*/
func BuildSignBytes(payload []byte, chainID string, seq int64) ([]byte, error) {
	if seq < 0 {
		return nil, errors.Wrap(ErrInvalidSequence, "negative")
	}
	if !treasury.IsValidChainID(chainID) {
		return nil, errors.Wrapf(errors.ErrInput, "chain id: %v", chainID)
	}

	var buf bytes.Buffer
	buf.Write(SignCodeV1)
	buf.WriteByte(byte(len(chainID)))
	buf.WriteString(chainID)
	_ = binary.Write(&buf, binary.BigEndian, uint64(seq))
	buf.Write(payload)

	digest := sha512.Sum512(buf.Bytes())
	return digest[:], nil
}

// SignTx signs tx with the given nonce.
func SignTx(signer crypto.Signer, tx SignedTx, chainID string, seq int64) (*StdSignature, error) {
	payload, err := tx.GetSignBytes()
	if err != nil {
		return nil, err
	}
	digest, err := BuildSignBytes(payload, chainID, seq)
	if err != nil {
		return nil, err
	}
	sig, err := signer.Sign(digest)
	if err != nil {
		return nil, err
	}
	return &StdSignature{
		Pubkey:    signer.PublicKey(),
		Signature: sig,
		Sequence:  seq,
	}, nil
}
