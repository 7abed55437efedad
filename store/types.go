package store

import "github.com/iov-one/treasury"

// Move references for all storage types into this package
// for shorter names everywhere

type ReadOnlyKVStore = treasury.ReadOnlyKVStore
type SetDeleter = treasury.SetDeleter
type KVStore = treasury.KVStore
type Iterator = treasury.Iterator
type CacheableKVStore = treasury.CacheableKVStore
type KVCacheWrap = treasury.KVCacheWrap
type CommitKVStore = treasury.CommitKVStore
type CommitID = treasury.CommitID
type Model = treasury.Model

// Pair constructs a model from a key-value pair
var Pair = treasury.Pair

// Batch can write multiple ops atomically to an underlying KVStore.
type Batch interface {
	SetDeleter
	Write() error
}
