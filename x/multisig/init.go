package multisig

import (
	"github.com/iov-one/treasury"
	"github.com/iov-one/treasury/errors"
)

// GenesisKey is the genesis app_state key holding the registry
// configuration.
const GenesisKey = "multisig"

// Config is the genesis representation of a Registry.
type Config struct {
	Signatories []treasury.Address `json:"signatories"`
	Threshold   uint32             `json:"threshold"`
}

// RegistryFromGenesis builds the registry described by the genesis options.
func RegistryFromGenesis(opts treasury.Options) (*Registry, error) {
	var conf Config
	if err := opts.ReadOptions(GenesisKey, &conf); err != nil {
		return nil, errors.Wrapf(ErrInvalidConfiguration, "cannot read %q: %s", GenesisKey, err)
	}
	return NewRegistry(conf.Signatories, conf.Threshold)
}

// Initializer fulfils the Initializer interface. It ensures the genesis file
// describes the registry the manager was built with.
type Initializer struct {
	Registry *Registry
}

var _ treasury.Initializer = (*Initializer)(nil)

// FromGenesis fails if the genesis registry is not the one in use.
func (i *Initializer) FromGenesis(opts treasury.Options, db treasury.KVStore) error {
	reg, err := RegistryFromGenesis(opts)
	if err != nil {
		return err
	}
	if reg.Threshold() != i.Registry.Threshold() {
		return errors.Wrapf(ErrInvalidConfiguration,
			"genesis threshold %d, running with %d", reg.Threshold(), i.Registry.Threshold())
	}
	want := i.Registry.Signatories()
	got := reg.Signatories()
	if len(want) != len(got) {
		return errors.Wrapf(ErrInvalidConfiguration,
			"genesis has %d signatories, running with %d", len(got), len(want))
	}
	for _, s := range got {
		if !i.Registry.IsSignatory(s) {
			return errors.Wrapf(ErrInvalidConfiguration, "unknown genesis signatory %s", s)
		}
	}
	return nil
}
