package store

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"sort"
	"testing"

	"github.com/iov-one/treasury/errors"
	"github.com/iov-one/treasury/treasurytest/assert"
)

// TestStoreConstructor returns a fresh, empty store and a function releasing
// its resources.
type TestStoreConstructor func() (base CacheableKVStore, cleanup func())

// TestSuite runs the KVStore contract against any implementation. Package
// specific tests only provide the constructor.
type TestSuite struct {
	makeBase TestStoreConstructor
}

// NewTestSuite returns a suite testing stores built by constructor.
func NewTestSuite(constructor TestStoreConstructor) *TestSuite {
	return &TestSuite{makeBase: constructor}
}

// Run executes all checks of the suite as subtests.
func (s *TestSuite) Run(t *testing.T) {
	t.Run("cache layers", s.CacheLayers)
	t.Run("cache conflicts", s.CacheConflicts)
	t.Run("iterator", s.Iterator)
}

// CacheLayers checks that a cache wrap sees the data of its parent and that
// its own changes reach the parent only when written.
func (s *TestSuite) CacheLayers(t *testing.T) {
	base, cleanup := s.makeBase()
	defer cleanup()

	a, b, c := testKey(1), testKey(2), testKey(3)
	AssertGetHas(t, base, a, nil, false)
	assert.Nil(t, base.Set(a, []byte("first")))
	AssertGetHas(t, base, a, []byte("first"), true)

	cache := base.CacheWrap()
	AssertGetHas(t, cache, a, []byte("first"), true)
	assert.Nil(t, cache.Set(b, []byte("second")))
	AssertGetHas(t, cache, b, []byte("second"), true)
	AssertGetHas(t, base, b, nil, false)
	assert.Nil(t, cache.Write())
	AssertGetHas(t, base, b, []byte("second"), true)

	discarded := base.CacheWrap()
	assert.Nil(t, discarded.Set(c, []byte("third")))
	discarded.Discard()
	AssertGetHas(t, base, c, nil, false)

	deleting := base.CacheWrap()
	assert.Nil(t, deleting.Delete(a))
	AssertGetHas(t, deleting, a, nil, false)
	AssertGetHas(t, base, a, []byte("first"), true)
	assert.Nil(t, deleting.Write())
	AssertGetHas(t, base, a, nil, false)
	AssertGetHas(t, base, b, []byte("second"), true)
}

// CacheConflicts checks that a cache can overwrite and delete values of its
// parent.
func (s *TestSuite) CacheConflicts(t *testing.T) {
	k := func(n uint64) []byte { return testKey(n) }
	v := func(s string) []byte { return []byte(s) }

	cases := map[string]struct {
		parentOps []Op
		childOps  []Op
		// Key is what we query, Value is what we expect. Nil value means
		// the key must not exist.
		parentWant []Model
		childWant  []Model
	}{
		"overwrite one, delete another, add a third": {
			parentOps:  []Op{SetOp(k(1), v("a")), SetOp(k(2), v("b"))},
			childOps:   []Op{SetOp(k(1), v("A")), SetOp(k(3), v("c")), DelOp(k(2))},
			parentWant: []Model{Pair(k(1), v("a")), Pair(k(2), v("b")), Pair(k(3), nil)},
			childWant:  []Model{Pair(k(1), v("A")), Pair(k(2), nil), Pair(k(3), v("c"))},
		},
		"delete missing key": {
			parentOps:  []Op{SetOp(k(1), v("a"))},
			childOps:   []Op{DelOp(k(9))},
			parentWant: []Model{Pair(k(1), v("a")), Pair(k(9), nil)},
			childWant:  []Model{Pair(k(1), v("a")), Pair(k(9), nil)},
		},
		"set after delete": {
			parentOps:  []Op{SetOp(k(1), v("a"))},
			childOps:   []Op{DelOp(k(1)), SetOp(k(1), v("again"))},
			parentWant: []Model{Pair(k(1), v("a"))},
			childWant:  []Model{Pair(k(1), v("again"))},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			parent, cleanup := s.makeBase()
			defer cleanup()

			applyOps(t, parent, tc.parentOps)
			child := parent.CacheWrap()
			applyOps(t, child, tc.childOps)

			for _, q := range tc.parentWant {
				AssertGetHas(t, parent, q.Key, q.Value, q.Value != nil)
			}
			for _, q := range tc.childWant {
				AssertGetHas(t, child, q.Key, q.Value, q.Value != nil)
			}

			assert.Nil(t, child.Write())
			for _, q := range tc.childWant {
				AssertGetHas(t, parent, q.Key, q.Value, q.Value != nil)
			}
		})
	}
}

// Iterator checks ascending and descending iteration over a cache combining
// its own changes with the data of its parent.
func (s *TestSuite) Iterator(t *testing.T) {
	// parent holds even keys, child holds multiples of three and removes
	// multiples of five
	var parentOps, childOps []Op
	want := make(map[uint64][]byte)
	for n := uint64(0); n < 40; n++ {
		if n%2 == 0 {
			val := []byte(fmt.Sprintf("parent %d", n))
			parentOps = append(parentOps, SetOp(testKey(n), val))
			want[n] = val
		}
		if n%3 == 0 {
			val := []byte(fmt.Sprintf("child %d", n))
			childOps = append(childOps, SetOp(testKey(n), val))
			want[n] = val
		}
	}
	for n := uint64(0); n < 40; n += 5 {
		childOps = append(childOps, DelOp(testKey(n)))
		delete(want, n)
	}

	var all []Model
	for n, val := range want {
		all = append(all, Pair(testKey(n), val))
	}
	sort.Slice(all, func(i, j int) bool { return bytes.Compare(all[i].Key, all[j].Key) < 0 })

	cases := map[string]struct {
		start, end []byte
		reverse    bool
		want       []Model
	}{
		"all ascending":        {want: all},
		"all descending":       {reverse: true, want: reversed(all)},
		"from start":           {start: all[4].Key, want: all[4:]},
		"until end":            {end: all[7].Key, want: all[:7]},
		"range":                {start: all[3].Key, end: all[9].Key, want: all[3:9]},
		"range descending":     {start: all[3].Key, end: all[9].Key, reverse: true, want: reversed(all[3:9])},
		"start on missing key": {start: testKey(5), end: testKey(10), want: []Model{Pair(testKey(6), want[6]), Pair(testKey(8), want[8]), Pair(testKey(9), want[9])}},
	}

	base, cleanup := s.makeBase()
	defer cleanup()
	applyOps(t, base, parentOps)
	child := base.CacheWrap()
	applyOps(t, child, childOps)

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var (
				it  Iterator
				err error
			)
			if tc.reverse {
				it, err = child.ReverseIterator(tc.start, tc.end)
			} else {
				it, err = child.Iterator(tc.start, tc.end)
			}
			assert.Nil(t, err)
			defer it.Release()

			for i, m := range tc.want {
				key, value, err := it.Next()
				assert.Nil(t, err)
				if !bytes.Equal(m.Key, key) {
					t.Fatalf("entry %d: want key %X, got %X", i, m.Key, key)
				}
				assert.Equal(t, m.Value, value)
			}
			if _, _, err := it.Next(); !errors.ErrIteratorDone.Is(err) {
				t.Fatalf("want ErrIteratorDone, got %+v", err)
			}
		})
	}
}

// AssertGetHas checks both Get and Has results for a key.
func AssertGetHas(t testing.TB, kv ReadOnlyKVStore, key, val []byte, has bool) {
	t.Helper()
	got, err := kv.Get(key)
	assert.Nil(t, err)
	assert.Equal(t, val, got)
	exists, err := kv.Has(key)
	assert.Nil(t, err)
	assert.Equal(t, has, exists)
}

func applyOps(t testing.TB, db SetDeleter, ops []Op) {
	t.Helper()
	for _, op := range ops {
		assert.Nil(t, op.Apply(db))
	}
}

// testKey returns a key that sorts the same way as n.
func testKey(n uint64) []byte {
	key := make([]byte, 9)
	key[0] = 'k'
	binary.BigEndian.PutUint64(key[1:], n)
	return key
}

func reversed(models []Model) []Model {
	res := make([]Model, len(models))
	for i, m := range models {
		res[len(models)-1-i] = m
	}
	return res
}
