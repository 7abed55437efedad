/*
Package treasuryd links together all the various components
to construct the treasury application.
*/
package treasuryd

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/iov-one/treasury"
	"github.com/iov-one/treasury/app"
	"github.com/iov-one/treasury/errors"
	"github.com/iov-one/treasury/store/iavl"
	"github.com/iov-one/treasury/x"
	"github.com/iov-one/treasury/x/cash"
	"github.com/iov-one/treasury/x/multisig"
	"github.com/iov-one/treasury/x/sigs"
	"github.com/iov-one/treasury/x/utils"
	"github.com/prometheus/client_golang/prometheus"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// Name is returned by the abci Info call.
const Name = "treasury"

// Authenticator returns the typical authentication,
// just using public key signatures
func Authenticator() x.Authenticator {
	return x.ChainAuth(sigs.Authenticate{})
}

// Chain returns a chain of decorators, to handle authentication,
// logging, and recovery
func Chain() app.Decorators {
	return app.ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		// on CheckTx, bad tx don't affect state
		utils.NewSavepoint().OnCheck(),
		sigs.NewDecorator(),
		utils.NewActionTagger(),
		// on DeliverTx, bad tx will increment nonce but nothing more
		utils.NewSavepoint().OnDeliver(),
	)
}

// Router returns a router dispatching to the proposal lifecycle and the
// wallet handlers.
func Router(authFn x.Authenticator, manager *multisig.Manager, control cash.Controller) *app.Router {
	r := app.NewRouter()
	multisig.RegisterRoutes(r, authFn, manager)
	cash.RegisterRoutes(r, authFn, control)
	return r
}

// QueryRouter returns a default query router,
// allowing access to "/proposals", "/wallets" and "/auth"
func QueryRouter() treasury.QueryRouter {
	r := treasury.NewQueryRouter()
	r.RegisterAll(
		multisig.RegisterQuery,
		cash.RegisterQuery,
		sigs.RegisterQuery,
	)
	return r
}

// Config holds everything the application must know before the chain is
// initialized.
type Config struct {
	// Registry is the fixed set of signatories and the threshold.
	Registry *multisig.Registry
	// Treasury is the wallet proposals transfer funds from.
	Treasury treasury.Address
	// Metrics if set collects proposal lifecycle metrics.
	Metrics *multisig.Metrics
}

// ConfigFromGenesis reads the application configuration from genesis
// app_state.
func ConfigFromGenesis(opts treasury.Options) (*Config, error) {
	registry, err := multisig.RegistryFromGenesis(opts)
	if err != nil {
		return nil, errors.Wrap(err, "registry")
	}
	addr, err := cash.TreasuryFromGenesis(opts)
	if err != nil {
		return nil, err
	}
	return &Config{Registry: registry, Treasury: addr}, nil
}

// Stack wires up a standard router with a standard decorator
// chain. This can be passed into BaseApp. The returned initializer loads
// the genesis state of all extensions.
func Stack(conf *Config) (treasury.Handler, treasury.Initializer) {
	control := cash.NewController(cash.NewBucket())

	var opts []multisig.Option
	if conf.Metrics != nil {
		opts = append(opts, multisig.WithMetrics(conf.Metrics))
	}
	manager := multisig.NewManager(
		conf.Registry,
		multisig.NewProposalBucket(),
		multisig.NewSequenceAllocator(),
		cash.NewTransferer(control, conf.Treasury),
		opts...,
	)

	authFn := Authenticator()
	h := Chain().WithHandler(Router(authFn, manager, control))
	ini := treasury.ChainInitializers(
		&cash.Initializer{},
		&multisig.Initializer{Registry: conf.Registry},
	)
	return h, ini
}

// Application constructs a basic ABCI application with
// the given arguments.
func Application(conf *Config, dbPath string, logger log.Logger, debug bool) (app.BaseApp, error) {
	kv, err := CommitKVStore(dbPath)
	if err != nil {
		return app.BaseApp{}, err
	}
	h, ini := Stack(conf)
	store := app.NewStoreApp(Name, kv, QueryRouter(), context.Background()).
		WithInit(ini).
		WithLogger(logger)
	return app.NewBaseApp(store, TxDecoder, h, debug), nil
}

// GenerateApp is used to create a stub for server/start.go command. The
// registry and the treasury wallet are read from the genesis file in home
// directory. Proposal metrics are registered with reg.
func GenerateApp(home string, logger log.Logger, reg prometheus.Registerer, debug bool) (abci.Application, error) {
	gen, err := app.LoadGenesis(filepath.Join(home, "config", "genesis.json"))
	if err != nil {
		return nil, err
	}
	conf, err := ConfigFromGenesis(gen.AppState)
	if err != nil {
		return nil, err
	}
	conf.Metrics = multisig.NewMetrics()
	if err := conf.Metrics.Register(reg); err != nil {
		return nil, errors.Wrapf(errors.ErrState, "cannot register metrics: %s", err)
	}

	logger.Info("Treasury configured",
		"signatories", len(conf.Registry.Signatories()),
		"threshold", conf.Registry.Threshold(),
		"wallet", conf.Treasury)

	base, err := Application(conf, filepath.Join(home, "treasury.db"), logger, debug)
	if err != nil {
		return nil, err
	}
	return base, nil
}

// GenesisInitializer returns the initializer the application runs on the
// given app_state. It is used to validate genesis files.
func GenesisInitializer(opts treasury.Options) (treasury.Initializer, error) {
	conf, err := ConfigFromGenesis(opts)
	if err != nil {
		return nil, err
	}
	_, ini := Stack(conf)
	return ini, nil
}

// CommitKVStore returns an initialized KVStore that persists
// the data to the named path.
func CommitKVStore(dbPath string) (treasury.CommitKVStore, error) {
	// memory backed case, just for testing
	if dbPath == "" {
		return iavl.NewMemCommitStore(), nil
	}

	path, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "invalid database name: %s", dbPath)
	}

	// Some external calls accidentally add a ".db", which is now removed
	path = strings.TrimSuffix(path, filepath.Ext(path))

	dir := filepath.Dir(path)
	name := filepath.Base(path)
	return iavl.NewCommitStore(dir, name), nil
}
