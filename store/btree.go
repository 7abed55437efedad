package store

import (
	"bytes"

	"github.com/google/btree"
)

// btreeDegree is the degree of every cache tree.
const btreeDegree = 2

// BTreeCacheable gives any KVStore a btree backed CacheWrap.
type BTreeCacheable struct {
	KVStore
}

var _ CacheableKVStore = BTreeCacheable{}

// CacheWrap returns a cache writing to the wrapped store on Write.
func (b BTreeCacheable) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(b.KVStore, NewNonAtomicBatch(b.KVStore), nil)
}

// MemStore returns an in-memory store without any persistence. Tests and
// genesis validation run on it.
func MemStore() CacheableKVStore {
	var empty EmptyKVStore
	return NewBTreeCacheWrap(empty, empty.NewBatch(), nil)
}

// ShowOpser lists the operations applied to a store, in order.
type ShowOpser interface {
	ShowOps() []Op
}

// LogableStore returns an in-memory store together with the log of all
// operations written to it.
func LogableStore() (CacheableKVStore, ShowOpser) {
	var empty EmptyKVStore
	batch := NewNonAtomicBatch(empty)
	return NewBTreeCacheWrap(empty, batch, nil), batch
}

// BTreeCacheWrap keeps all changes in a btree, serving reads from it before
// falling back to the backing store. Changes are also recorded in a batch,
// so Write replays them on the backing store.
type BTreeCacheWrap struct {
	tree  *btree.BTree
	free  *btree.FreeList
	back  ReadOnlyKVStore
	batch Batch
}

var _ KVCacheWrap = BTreeCacheWrap{}

// NewBTreeCacheWrap returns a cache over back. The backing store is only
// read, all writes go through batch. A nil free list allocates a new one,
// nested caches share the list of their parent.
func NewBTreeCacheWrap(back ReadOnlyKVStore, batch Batch, free *btree.FreeList) BTreeCacheWrap {
	if free == nil {
		free = btree.NewFreeList(btree.DefaultFreeListSize)
	}
	return BTreeCacheWrap{
		tree:  btree.NewWithFreeList(btreeDegree, free),
		free:  free,
		back:  back,
		batch: batch,
	}
}

// CacheWrap layers another cache on top of this one.
func (b BTreeCacheWrap) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(b, b.NewBatch(), b.free)
}

// NewBatch returns a batch writing into this cache.
func (b BTreeCacheWrap) NewBatch() Batch {
	return NewNonAtomicBatch(b)
}

// Write applies all changes to the backing store and empties the cache.
func (b BTreeCacheWrap) Write() error {
	err := b.batch.Write()
	b.Discard()
	return err
}

// Discard drops all changes.
func (b BTreeCacheWrap) Discard() {
	b.tree.Clear(true)
}

func (b BTreeCacheWrap) Set(key, value []byte) error {
	b.tree.ReplaceOrInsert(cacheEntry{key: key, value: value})
	return b.batch.Set(key, value)
}

func (b BTreeCacheWrap) Delete(key []byte) error {
	b.tree.ReplaceOrInsert(cacheEntry{key: key, deleted: true})
	return b.batch.Delete(key)
}

func (b BTreeCacheWrap) Get(key []byte) ([]byte, error) {
	if e, ok := b.lookup(key); ok {
		return e.value, nil
	}
	return b.back.Get(key)
}

func (b BTreeCacheWrap) Has(key []byte) (bool, error) {
	if e, ok := b.lookup(key); ok {
		return !e.deleted, nil
	}
	return b.back.Has(key)
}

// lookup returns the cached entry for key, if the key was changed.
func (b BTreeCacheWrap) lookup(key []byte) (cacheEntry, bool) {
	item := b.tree.Get(cacheEntry{key: key})
	if item == nil {
		return cacheEntry{}, false
	}
	return item.(cacheEntry), true
}

// Iterator returns keys in [start, end) in ascending order, merging cached
// changes with the backing store.
func (b BTreeCacheWrap) Iterator(start, end []byte) (Iterator, error) {
	back, err := b.back.Iterator(start, end)
	if err != nil {
		return nil, err
	}
	return newItemIter(ascendBtree(b.tree, start, end), back, false), nil
}

// ReverseIterator is Iterator in descending order.
func (b BTreeCacheWrap) ReverseIterator(start, end []byte) (Iterator, error) {
	back, err := b.back.ReverseIterator(start, end)
	if err != nil {
		return nil, err
	}
	return newItemIter(descendBtree(b.tree, start, end), back, true), nil
}

// cacheEntry is a change held by the cache. Deleted entries hide the value
// of the backing store.
type cacheEntry struct {
	key     []byte
	value   []byte
	deleted bool
}

var _ btree.Item = cacheEntry{}

func (e cacheEntry) Less(than btree.Item) bool {
	return bytes.Compare(e.key, than.(cacheEntry).key) < 0
}
