package orm

import (
	"bytes"

	"github.com/iov-one/treasury"
	"github.com/iov-one/treasury/errors"
	amino "github.com/tendermint/go-amino"
)

// ModelIterator loads models of a single bucket, one at a time.
// CONTRACT: No writes may happen within a domain while an iterator exists over it.
type ModelIterator struct {
	// this is the raw KVStoreIterator
	iterator treasury.Iterator
	// this is the bucketPrefix to strip from each key
	bucketPrefix []byte
	cdc          *amino.Codec
}

// LoadNext moves the iterator to the next model and loads it into dest.
// It returns the key of the model, without the bucket prefix, or
// ErrIteratorDone once all models were consumed.
func (i *ModelIterator) LoadNext(dest Model) ([]byte, error) {
	key, value, err := i.iterator.Next()
	if err != nil {
		return nil, err
	}

	// since we use raw kvstore here, we must remove the bucket prefix manually
	if !bytes.HasPrefix(key, i.bucketPrefix) {
		return nil, errors.Wrapf(errors.ErrDatabase, "key with unexpected prefix: %X", key)
	}
	if err := i.cdc.UnmarshalBinaryBare(value, dest); err != nil {
		return nil, errors.Wrapf(errors.ErrModel, "cannot unmarshal %T: %s", dest, err)
	}
	return key[len(i.bucketPrefix):], nil
}

// Release releases the Iterator.
func (i *ModelIterator) Release() {
	i.iterator.Release()
}
