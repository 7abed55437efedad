package server

import (
	"github.com/iov-one/treasury"
	"github.com/iov-one/treasury/app"
	"github.com/iov-one/treasury/errors"
	"github.com/iov-one/treasury/store"
)

// InitializerFromGenesis builds the initializer the application would run
// for the given app_state.
type InitializerFromGenesis func(treasury.Options) (treasury.Initializer, error)

// ValidateGenesis loads every genesis file into a throw away store. It
// returns the first file the application could not start from.
func ValidateGenesis(build InitializerFromGenesis, genesisPaths []string) error {
	if len(genesisPaths) == 0 {
		return errors.Wrap(errors.ErrInput, "no genesis file given")
	}
	for _, path := range genesisPaths {
		if err := validateGenesis(build, path); err != nil {
			return errors.Wrap(err, path)
		}
	}
	return nil
}

func validateGenesis(build InitializerFromGenesis, genesisPath string) error {
	gen, err := app.LoadGenesis(genesisPath)
	if err != nil {
		return err
	}
	if !treasury.IsValidChainID(gen.ChainID) {
		return errors.Wrapf(errors.ErrInput, "invalid chain id %q", gen.ChainID)
	}

	ini, err := build(gen.AppState)
	if err != nil {
		return errors.Wrap(err, "cannot configure application")
	}

	// Use in memory store because we want to discard the result.
	db := store.MemStore()
	if err := ini.FromGenesis(gen.AppState, db); err != nil {
		return errors.Wrap(err, "cannot initialize from genesis")
	}
	return nil
}
