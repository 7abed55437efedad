package treasuryd

import (
	"encoding/json"
	"fmt"

	"github.com/iov-one/treasury"
	"github.com/iov-one/treasury/coin"
	"github.com/iov-one/treasury/crypto"
	"github.com/iov-one/treasury/errors"
	"github.com/iov-one/treasury/x/cash"
	"github.com/iov-one/treasury/x/multisig"
)

// TreasuryCondition is the condition owning the treasury wallet of a freshly
// generated genesis. Nobody can sign for it, so funds only leave it through
// executed proposals.
var TreasuryCondition = treasury.NewCondition(multisig.GenesisKey, "treasury", []byte("wallet"))

// initialFunds is the balance of the treasury wallet in a generated genesis.
const initialFunds = 1000000

// GenInitOptions will produce the app_state for a new chain.
//
// The first argument is the ticker of the treasury funds (default IOV), all
// following arguments are signatory addresses. If no signatory is given a
// key is generated and printed out. The threshold is a simple majority of
// the signatories.
func GenInitOptions(args []string) (json.RawMessage, error) {
	ticker := "IOV"
	if len(args) > 0 {
		ticker = args[0]
		if !coin.IsCC(ticker) {
			return nil, errors.Wrapf(errors.ErrCurrency, "invalid ticker %s", ticker)
		}
	}

	var signatories []treasury.Address
	if len(args) > 1 {
		for _, enc := range args[1:] {
			addr, err := treasury.ParseAddress(enc)
			if err != nil {
				return nil, errors.Wrapf(err, "signatory %q", enc)
			}
			signatories = append(signatories, addr)
		}
	} else {
		key := crypto.GenPrivKeyEd25519()
		addr := key.PublicKey().Address()
		fmt.Printf("generated signatory %s\nprivate key %X\n", addr, key.GetEd25519())
		signatories = append(signatories, addr)
	}

	threshold := uint32(len(signatories)/2 + 1)
	// fail early instead of writing a genesis the node cannot start with
	if _, err := multisig.NewRegistry(signatories, threshold); err != nil {
		return nil, err
	}

	wallet := TreasuryCondition.Address()
	state := map[string]interface{}{
		multisig.GenesisKey: multisig.Config{
			Signatories: signatories,
			Threshold:   threshold,
		},
		cash.TreasuryGenesisKey: map[string]treasury.Address{
			"address": wallet,
		},
		cash.BucketName: []cash.GenesisAccount{
			{
				Address: wallet,
				Coins:   []coin.Coin{coin.NewCoin(initialFunds, 0, ticker)},
			},
		},
	}
	return json.MarshalIndent(state, "", "  ")
}
