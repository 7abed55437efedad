package app

import (
	"encoding/json"
	"io/ioutil"

	"github.com/iov-one/treasury"
	"github.com/iov-one/treasury/errors"
)

// Genesis is the part of the tendermint genesis file the application reads.
type Genesis struct {
	ChainID  string           `json:"chain_id"`
	AppState treasury.Options `json:"app_state"`
}

// LoadGenesis reads the genesis file at given path.
//
// Some components must be configured before the chain is initialized, they
// read the app_state this way instead of waiting for InitChain.
func LoadGenesis(filePath string) (*Genesis, error) {
	raw, err := ioutil.ReadFile(filePath)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	var gen Genesis
	if err := json.Unmarshal(raw, &gen); err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "cannot parse genesis file: %s", err)
	}
	if gen.AppState == nil {
		gen.AppState = treasury.Options{}
	}
	return &gen, nil
}
