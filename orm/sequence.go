package orm

import (
	"encoding/binary"

	"github.com/iov-one/treasury"
	"github.com/iov-one/treasury/errors"
)

// Sequence maintains a counter and hands out increasing values. The first
// value returned by a fresh sequence is 0. The counter is kept in the same
// store as the data, so it is committed or discarded together with it.
type Sequence struct {
	id []byte
}

// NewSequence returns a sequence counter. Sequence is using following pattern
// to construct a key:
//
//	_s.<bucket>:<name>
func NewSequence(bucket, name string) Sequence {
	id := "_s." + bucket + ":" + name
	return Sequence{
		id: []byte(id),
	}
}

// Next returns the current value of the sequence and advances it by one.
func (s Sequence) Next(db treasury.KVStore) (uint64, error) {
	val, err := s.Peek(db)
	if err != nil {
		return 0, err
	}
	if val == ^uint64(0) {
		return 0, errors.Wrap(errors.ErrOverflow, "sequence exhausted")
	}
	if err := db.Set(s.id, EncodeSequence(val+1)); err != nil {
		return 0, errors.Wrap(err, "cannot store sequence")
	}
	return val, nil
}

// Peek returns the value the next call to Next will return. It does not
// modify the sequence state.
func (s Sequence) Peek(db treasury.ReadOnlyKVStore) (uint64, error) {
	raw, err := db.Get(s.id)
	if err != nil {
		return 0, errors.Wrap(err, "cannot load sequence")
	}
	return DecodeSequence(raw)
}

// DecodeSequence reads the big endian value. A missing value is 0.
func DecodeSequence(bz []byte) (uint64, error) {
	if bz == nil {
		return 0, nil
	}
	if len(bz) != 8 {
		return 0, errors.Wrapf(errors.ErrModel, "invalid sequence length: %d", len(bz))
	}
	return binary.BigEndian.Uint64(bz), nil
}

// EncodeSequence returns the 8 byte big endian representation of val, so
// that the byte order of keys matches the numeric order.
func EncodeSequence(val uint64) []byte {
	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, val)
	return bz
}
