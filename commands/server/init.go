package server

import (
	"encoding/json"
	"io/ioutil"
	"path/filepath"

	"github.com/iov-one/treasury/errors"
	"github.com/tendermint/tendermint/libs/log"
)

const appStateKey = "app_state"

// GenOptions can parse command-line and flag to
// generate default app_state for the genesis file.
// This is application-specific
type GenOptions func(args []string) (json.RawMessage, error)

// InitCmd adds the app_state generated by gen to the genesis file in home
// directory. The genesis file must already exist, as created by
// `tendermint init`. A non empty chainID replaces the one in the file.
func InitCmd(gen GenOptions, logger log.Logger, home, chainID string, args []string) error {
	genFile := filepath.Join(home, "config", "genesis.json")

	// no app_state, leave like tendermint
	if gen == nil {
		return nil
	}

	options, err := gen(args)
	if err != nil {
		return err
	}
	if err := addGenesisOptions(genFile, options, chainID); err != nil {
		return err
	}
	logger.Info("App state written to genesis file", "path", genFile)
	return nil
}

// GenesisDoc involves some tendermint-specific structures we don't
// want to parse, so we just grab it into a raw object format,
// so we can add one line.
type GenesisDoc map[string]json.RawMessage

func addGenesisOptions(filename string, options json.RawMessage, chainID string) error {
	bz, err := ioutil.ReadFile(filename)
	if err != nil {
		return errors.Wrapf(errors.ErrInput, "cannot read genesis file: %s", err)
	}

	var doc GenesisDoc
	if err := json.Unmarshal(bz, &doc); err != nil {
		return errors.Wrapf(errors.ErrInput, "cannot parse genesis file: %s", err)
	}

	doc[appStateKey] = options
	if chainID != "" {
		raw, err := json.Marshal(chainID)
		if err != nil {
			return errors.Wrap(errors.ErrInput, err.Error())
		}
		doc["chain_id"] = raw
	}

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	return ioutil.WriteFile(filename, out, 0600)
}
