package cash

import (
	"github.com/iov-one/treasury"
	"github.com/iov-one/treasury/coin"
	"github.com/iov-one/treasury/errors"
	"github.com/iov-one/treasury/orm"
)

// BucketName is where we store the balances
const BucketName = "cash"

// Wallet is the set of coins owned by a single address.
type Wallet struct {
	Coins coin.Coins
}

var _ orm.Model = (*Wallet)(nil)

// Validate requires the coins to be normalized and none of them negative.
func (w *Wallet) Validate() error {
	if err := w.Coins.Validate(); err != nil {
		return err
	}
	if !w.Coins.IsNonNegative() {
		return errors.Wrap(errors.ErrAmount, "negative balance")
	}
	return nil
}

// Bucket is a type-safe wrapper around orm.ModelBucket
type Bucket struct {
	orm.ModelBucket
}

// NewBucket initializes a cash.Bucket with default name
func NewBucket() Bucket {
	return Bucket{
		ModelBucket: orm.NewModelBucket(BucketName, orm.NewCodec()),
	}
}

// Get returns the wallet of given address. A missing wallet is returned as
// an empty one.
func (b Bucket) Get(db treasury.ReadOnlyKVStore, addr treasury.Address) (*Wallet, error) {
	var w Wallet
	switch err := b.One(db, addr, &w); {
	case err == nil:
		return &w, nil
	case errors.ErrNotFound.Is(err):
		return &Wallet{}, nil
	default:
		return nil, err
	}
}

// Save stores the wallet. An empty wallet is removed from the store.
func (b Bucket) Save(db treasury.KVStore, addr treasury.Address, w *Wallet) error {
	if err := addr.Validate(); err != nil {
		return errors.Wrap(err, "wallet address")
	}
	if w.Coins.IsEmpty() {
		if err := db.Delete(b.DBKey(addr)); err != nil {
			return errors.Wrap(err, "cannot delete wallet")
		}
		return nil
	}
	return b.Put(db, addr, w)
}
