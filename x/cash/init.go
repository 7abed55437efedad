package cash

import (
	"github.com/iov-one/treasury"
	"github.com/iov-one/treasury/coin"
	"github.com/iov-one/treasury/errors"
)

// GenesisAccount is used to describe the initial wallet content in the
// genesis file.
type GenesisAccount struct {
	Address treasury.Address `json:"address"`
	Coins   []coin.Coin      `json:"coins"`
}

// Initializer fulfils the Initializer interface to load data from the genesis
// file
type Initializer struct{}

var _ treasury.Initializer = (*Initializer)(nil)

// FromGenesis will parse initial account info from genesis and save it to the
// database.
func (*Initializer) FromGenesis(opts treasury.Options, db treasury.KVStore) error {
	var accounts []GenesisAccount
	if err := opts.ReadOptions(BucketName, &accounts); err != nil {
		return errors.Wrapf(errors.ErrInput, "cannot read %q: %s", BucketName, err)
	}

	control := NewController(NewBucket())
	for i, acc := range accounts {
		if err := acc.Address.Validate(); err != nil {
			return errors.Wrapf(err, "account %d", i)
		}
		for _, c := range acc.Coins {
			if !c.IsPositive() {
				return errors.Wrapf(errors.ErrAmount, "account %d: non-positive %s", i, c)
			}
			if err := control.IssueCoins(db, acc.Address, c); err != nil {
				return errors.Wrapf(err, "account %d", i)
			}
		}
	}
	return nil
}
