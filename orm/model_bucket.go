package orm

import (
	"fmt"

	"github.com/iov-one/treasury"
	"github.com/iov-one/treasury/errors"
	amino "github.com/tendermint/go-amino"
)

// ModelBucket stores Models under a common key prefix. Each entry is kept
// under the key "<name>:<key>".
type ModelBucket struct {
	name   string
	prefix []byte
	cdc    *amino.Codec
}

// NewModelBucket returns a bucket that serializes models with the given
// codec. It panics if the name is not a valid bucket name.
func NewModelBucket(name string, cdc *amino.Codec) ModelBucket {
	if !isBucketName(name) {
		panic(fmt.Sprintf("Illegal bucket: %s", name))
	}
	return ModelBucket{
		name:   name,
		prefix: append([]byte(name), ':'),
		cdc:    cdc,
	}
}

// Name returns the bucket name.
func (b ModelBucket) Name() string {
	return b.name
}

// DBKey is the full key we store in the db, including prefix.
// We copy into a new array rather than use append, as we don't
// want consecutive calls to overwrite the same byte array.
func (b ModelBucket) DBKey(key []byte) []byte {
	l := len(b.prefix)
	out := make([]byte, l+len(key))
	copy(out, b.prefix)
	copy(out[l:], key)
	return out
}

// One query the database for a single model instance. Result is loaded into
// given destination model.
// This method returns ErrNotFound if the entity does not exist in the
// database.
func (b ModelBucket) One(db treasury.ReadOnlyKVStore, key []byte, dest Model) error {
	raw, err := db.Get(b.DBKey(key))
	if err != nil {
		return errors.Wrap(err, "cannot load from the database")
	}
	if raw == nil {
		return errors.Wrapf(errors.ErrNotFound, "%T not in the store", dest)
	}
	if err := b.cdc.UnmarshalBinaryBare(raw, dest); err != nil {
		return errors.Wrapf(errors.ErrModel, "cannot unmarshal %T: %s", dest, err)
	}
	return nil
}

// Decode loads a serialized model, as returned by a query, into dest.
func (b ModelBucket) Decode(raw []byte, dest Model) error {
	if err := b.cdc.UnmarshalBinaryBare(raw, dest); err != nil {
		return errors.Wrapf(errors.ErrModel, "cannot unmarshal %T: %s", dest, err)
	}
	return nil
}

// Has returns true if an entity with the given key exists.
func (b ModelBucket) Has(db treasury.ReadOnlyKVStore, key []byte) (bool, error) {
	return db.Has(b.DBKey(key))
}

// Put validates and saves given model in the database.
func (b ModelBucket) Put(db treasury.KVStore, key []byte, m Model) error {
	if err := m.Validate(); err != nil {
		return errors.Wrap(err, "invalid model")
	}
	raw, err := b.cdc.MarshalBinaryBare(m)
	if err != nil {
		return errors.Wrapf(errors.ErrModel, "cannot marshal %T: %s", m, err)
	}
	if err := db.Set(b.DBKey(key), raw); err != nil {
		return errors.Wrap(err, "cannot store in the database")
	}
	return nil
}

// Delete removes an entity with given primary key from the database.
// It returns ErrNotFound if an entity with given key does not exist.
func (b ModelBucket) Delete(db treasury.KVStore, key []byte) error {
	has, err := b.Has(db, key)
	if err != nil {
		return err
	}
	if !has {
		return errors.Wrapf(errors.ErrNotFound, "key %X", key)
	}
	return db.Delete(b.DBKey(key))
}

// Iterate returns an iterator over all models of this bucket, in the
// ascending order of their keys.
func (b ModelBucket) Iterate(db treasury.ReadOnlyKVStore) (*ModelIterator, error) {
	start, end := prefixRange(b.prefix)
	it, err := db.Iterator(start, end)
	if err != nil {
		return nil, errors.Wrap(err, "cannot create iterator")
	}
	return &ModelIterator{
		iterator:     it,
		bucketPrefix: b.prefix,
		cdc:          b.cdc,
	}, nil
}

// Register registers this bucket under the given query path. An empty name
// defaults to the bucket name.
func (b ModelBucket) Register(name string, r treasury.QueryRouter) {
	if name == "" {
		name = b.name
	}
	r.Register("/"+name, b)
}

// Query handles queries from the QueryRouter. Values are returned in their
// serialized form.
func (b ModelBucket) Query(db treasury.ReadOnlyKVStore, mod string, data []byte) ([]treasury.Model, error) {
	switch mod {
	case treasury.KeyQueryMod:
		key := b.DBKey(data)
		value, err := db.Get(key)
		if err != nil {
			return nil, err
		}
		// return nothing on miss
		if value == nil {
			return nil, nil
		}
		return []treasury.Model{treasury.Pair(key, value)}, nil
	case treasury.PrefixQueryMod:
		return queryPrefix(db, b.DBKey(data))
	default:
		return nil, errors.Wrapf(errors.ErrInput, "unknown query mod: %s", mod)
	}
}

func queryPrefix(db treasury.ReadOnlyKVStore, prefix []byte) ([]treasury.Model, error) {
	start, end := prefixRange(prefix)
	it, err := db.Iterator(start, end)
	if err != nil {
		return nil, err
	}
	defer it.Release()

	var res []treasury.Model
	for {
		key, value, err := it.Next()
		switch {
		case errors.ErrIteratorDone.Is(err):
			return res, nil
		case err != nil:
			return nil, err
		}
		res = append(res, treasury.Pair(key, value))
	}
}

var _ treasury.QueryHandler = ModelBucket{}
