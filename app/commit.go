package app

import (
	"github.com/iov-one/treasury"
	"github.com/iov-one/treasury/errors"
)

// CommitStore keeps the committed state together with the two caches
// transactions run against between commits. Delivered transactions are
// flushed on Commit, checked ones are always thrown away.
type CommitStore struct {
	committed treasury.CommitKVStore
	deliver   treasury.KVCacheWrap
	check     treasury.KVCacheWrap
}

// NewCommitStore loads the latest version of store. It panics if the store
// cannot be loaded, as the node cannot run without its state.
func NewCommitStore(store treasury.CommitKVStore) *CommitStore {
	if err := store.LoadLatestVersion(); err != nil {
		panic(err)
	}
	cs := &CommitStore{committed: store}
	cs.resetCaches()
	return cs
}

func (cs *CommitStore) resetCaches() {
	cs.deliver = cs.committed.CacheWrap()
	cs.check = cs.committed.CacheWrap()
}

// CommitInfo returns the version and hash of the committed state.
func (cs *CommitStore) CommitInfo() (treasury.CommitID, error) {
	return cs.committed.LatestVersion()
}

// Commit persists all delivered changes as a new version.
func (cs *CommitStore) Commit() (treasury.CommitID, error) {
	if err := cs.deliver.Write(); err != nil {
		return treasury.CommitID{}, errors.Wrap(err, "write deliver cache")
	}
	cs.check.Discard()

	id, err := cs.committed.Commit()
	if err != nil {
		return id, errors.Wrap(err, "commit")
	}
	cs.resetCaches()
	return id, nil
}

// CheckStore is the store CheckTx runs against.
func (cs *CommitStore) CheckStore() treasury.CacheableKVStore {
	return cs.check
}

// DeliverStore is the store DeliverTx runs against.
func (cs *CommitStore) DeliverStore() treasury.CacheableKVStore {
	return cs.deliver
}

// QueryStore is a read only view of the committed state.
func (cs *CommitStore) QueryStore() treasury.ReadOnlyKVStore {
	return cs.committed.CacheWrap()
}

// chainIDKey is not in any bucket, so no extension can overwrite it.
const chainIDKey = "_tr:chainID"

// mustLoadChainID returns the stored chain id, or an empty string before
// genesis.
func mustLoadChainID(kv treasury.ReadOnlyKVStore) string {
	raw, err := kv.Get([]byte(chainIDKey))
	if err != nil {
		panic(err)
	}
	return string(raw)
}

// saveChainID stores the chain id. It can be set only once.
func saveChainID(kv treasury.KVStore, chainID string) error {
	if !treasury.IsValidChainID(chainID) {
		return errors.Wrapf(errors.ErrInput, "chain id: %v", chainID)
	}
	switch exists, err := kv.Has([]byte(chainIDKey)); {
	case err != nil:
		return errors.Wrap(err, "load chain id")
	case exists:
		return errors.Wrap(errors.ErrUnauthorized, "chain id is set at genesis only")
	}
	if err := kv.Set([]byte(chainIDKey), []byte(chainID)); err != nil {
		return errors.Wrap(err, "save chain id")
	}
	return nil
}
