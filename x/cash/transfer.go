package cash

import (
	"github.com/iov-one/treasury"
	"github.com/iov-one/treasury/coin"
	"github.com/iov-one/treasury/errors"
)

// Transferer pays out of a single source wallet. It is used to settle
// executed multisig proposals from the treasury wallet.
type Transferer struct {
	control Controller
	source  treasury.Address
}

// NewTransferer returns a transferer paying from source.
func NewTransferer(control Controller, source treasury.Address) Transferer {
	return Transferer{control: control, source: source}
}

// Transfer moves amount from the source wallet to recipient. A zero amount
// does not change any balance.
func (t Transferer) Transfer(ctx treasury.Context, db treasury.KVStore, recipient treasury.Address, amount coin.Coin) error {
	if amount.IsZero() {
		return nil
	}
	if err := t.control.MoveCoins(db, t.source, recipient, amount); err != nil {
		return errors.Wrapf(err, "cannot pay %s", amount)
	}
	treasury.GetLogger(ctx).Debug("treasury payout",
		"source", t.source, "recipient", recipient, "amount", amount)
	return nil
}

// TreasuryGenesisKey is the genesis app_state key holding the treasury
// wallet configuration.
const TreasuryGenesisKey = "treasury"

// TreasuryFromGenesis returns the address of the treasury wallet declared in
// the genesis options.
func TreasuryFromGenesis(opts treasury.Options) (treasury.Address, error) {
	var conf struct {
		Address treasury.Address `json:"address"`
	}
	if err := opts.ReadOptions(TreasuryGenesisKey, &conf); err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "cannot read %q: %s", TreasuryGenesisKey, err)
	}
	if err := conf.Address.Validate(); err != nil {
		return nil, errors.Wrap(err, "treasury address")
	}
	return conf.Address, nil
}
