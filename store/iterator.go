package store

import (
	"bytes"

	"github.com/google/btree"
	"github.com/iov-one/treasury/errors"
)

// ascendBtree returns all items of the btree within [start, end) in
// ascending order. A nil start or end means no limit on that side.
func ascendBtree(bt *btree.BTree, start, end []byte) []cacheEntry {
	var items []cacheEntry
	collect := func(item btree.Item) bool {
		items = append(items, item.(cacheEntry))
		return true
	}

	switch {
	case start == nil && end == nil:
		bt.Ascend(collect)
	case start == nil:
		bt.AscendLessThan(cacheEntry{key: end}, collect)
	case end == nil:
		bt.AscendGreaterOrEqual(cacheEntry{key: start}, collect)
	default:
		bt.AscendRange(cacheEntry{key: start}, cacheEntry{key: end}, collect)
	}
	return items
}

// descendBtree returns the same items as ascendBtree, in descending order.
func descendBtree(bt *btree.BTree, start, end []byte) []cacheEntry {
	items := ascendBtree(bt, start, end)
	for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
		items[i], items[j] = items[j], items[i]
	}
	return items
}

// itemIter combines the cached items with the iterator of the backing
// store. Cached values shadow the parent ones and deleted items hide them.
type itemIter struct {
	items   []cacheEntry
	idx     int
	reverse bool

	parent     Iterator
	parentKey  []byte
	parentVal  []byte
	parentDone bool
	loaded     bool
}

var _ Iterator = (*itemIter)(nil)

func newItemIter(items []cacheEntry, parent Iterator, reverse bool) *itemIter {
	return &itemIter{
		items:   items,
		reverse: reverse,
		parent:  parent,
	}
}

// source marks where the current item comes from
type source int32

const (
	us source = iota
	parent
	both
	none
)

// Next returns the next visible key and value, or ErrIteratorDone.
func (i *itemIter) Next() (key, value []byte, err error) {
	for {
		if err := i.loadParent(); err != nil {
			return nil, nil, err
		}

		switch i.firstKey() {
		case none:
			return nil, nil, errors.ErrIteratorDone
		case parent:
			key, value = i.parentKey, i.parentVal
			i.loaded = false
			return key, value, nil
		case both:
			// our item shadows the parent one
			i.loaded = false
		}

		item := i.items[i.idx]
		i.idx++
		if !item.deleted {
			return item.key, item.value, nil
		}
		// deleted item, skip it
	}
}

// Release releases the Iterator.
func (i *itemIter) Release() {
	i.items = nil
	if i.parent != nil {
		i.parent.Release()
	}
}

func (i *itemIter) loadParent() error {
	if i.loaded || i.parentDone {
		return nil
	}
	if i.parent == nil {
		i.parentDone = true
		return nil
	}
	key, value, err := i.parent.Next()
	switch {
	case err == nil:
		i.parentKey, i.parentVal = key, value
		i.loaded = true
	case errors.ErrIteratorDone.Is(err):
		i.parentDone = true
	default:
		return err
	}
	return nil
}

// firstKey selects the source with the next key in iteration order.
func (i *itemIter) firstKey() source {
	usValid := i.idx < len(i.items)
	parentValid := i.loaded && !i.parentDone

	switch {
	case !usValid && !parentValid:
		return none
	case !parentValid:
		return us
	case !usValid:
		return parent
	}

	cmp := bytes.Compare(i.parentKey, i.items[i.idx].key)
	if i.reverse {
		cmp = -cmp
	}
	switch {
	case cmp < 0:
		return parent
	case cmp > 0:
		return us
	default:
		return both
	}
}
