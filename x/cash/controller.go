package cash

import (
	"github.com/iov-one/treasury"
	"github.com/iov-one/treasury/coin"
	"github.com/iov-one/treasury/errors"
)

// Controller is the functionality needed by cash.Handler and cash.Transferer.
// Extensions that move coins around depend on this interface rather than on
// the bucket.
type Controller interface {
	Balance(db treasury.ReadOnlyKVStore, addr treasury.Address) (coin.Coins, error)
	MoveCoins(db treasury.KVStore, src, dest treasury.Address, amount coin.Coin) error
	IssueCoins(db treasury.KVStore, dest treasury.Address, amount coin.Coin) error
}

// BaseController is a simple implementation of the Controller interface.
type BaseController struct {
	bucket Bucket
}

var _ Controller = BaseController{}

// NewController returns a controller using given bucket.
func NewController(bucket Bucket) BaseController {
	return BaseController{bucket: bucket}
}

// Balance returns the coins held by given address.
func (c BaseController) Balance(db treasury.ReadOnlyKVStore, addr treasury.Address) (coin.Coins, error) {
	w, err := c.bucket.Get(db, addr)
	if err != nil {
		return nil, err
	}
	return w.Coins, nil
}

// MoveCoins moves the given amount from src to dest.
// If src doesn't exist, or doesn't have sufficient
// coins, it fails.
func (c BaseController) MoveCoins(db treasury.KVStore, src, dest treasury.Address, amount coin.Coin) error {
	if err := amount.Validate(); err != nil {
		return errors.Wrap(err, "amount")
	}
	if !amount.IsPositive() {
		return errors.Wrapf(errors.ErrAmount, "non-positive amount %s", amount)
	}

	sender, err := c.bucket.Get(db, src)
	if err != nil {
		return errors.Wrap(err, "cannot load sender wallet")
	}
	if !sender.Coins.Contains(amount) {
		return errors.Wrapf(errors.ErrInsufficientAmount,
			"wallet %s has %s", src, sender.Coins.Balance(amount.Ticker))
	}
	if sender.Coins, err = sender.Coins.Subtract(amount); err != nil {
		return err
	}
	if err := c.bucket.Save(db, src, sender); err != nil {
		return errors.Wrap(err, "cannot save sender wallet")
	}

	// Load the recipient after the sender was saved, so that a transfer to
	// self is correct.
	recipient, err := c.bucket.Get(db, dest)
	if err != nil {
		return errors.Wrap(err, "cannot load recipient wallet")
	}
	if recipient.Coins, err = recipient.Coins.Add(amount); err != nil {
		return err
	}
	if err := c.bucket.Save(db, dest, recipient); err != nil {
		return errors.Wrap(err, "cannot save recipient wallet")
	}
	return nil
}

// IssueCoins attempts to add the given amount of coins to
// the destination address. Fails if it overflows the wallet.
//
// Note the amount may also be negative:
// "the lord giveth and the lord taketh away"
func (c BaseController) IssueCoins(db treasury.KVStore, dest treasury.Address, amount coin.Coin) error {
	if err := amount.Validate(); err != nil {
		return errors.Wrap(err, "amount")
	}
	w, err := c.bucket.Get(db, dest)
	if err != nil {
		return err
	}
	if w.Coins, err = w.Coins.Add(amount); err != nil {
		return err
	}
	return c.bucket.Save(db, dest, w)
}
