package server

import (
	"net/http"

	"github.com/iov-one/treasury/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tendermint/tendermint/abci/server"
	abci "github.com/tendermint/tendermint/abci/types"
	cmn "github.com/tendermint/tendermint/libs/common"
	"github.com/tendermint/tendermint/libs/log"
)

// StartConfig holds the flags of the start command.
type StartConfig struct {
	// Bind is the address the abci server listens on.
	Bind string
	// Metrics is the address of the prometheus endpoint. Empty disables
	// it.
	Metrics string
	// Debug returns the call stack on errors.
	Debug bool
}

// AppGenerator lets us lazily initialize app, using home dir
// and logger potentially initialized with other flags. Application
// metrics should be registered with given registerer.
type AppGenerator func(home string, logger log.Logger, reg prometheus.Registerer, debug bool) (abci.Application, error)

// StartCmd initializes the application and serves it until the process
// is interrupted.
func StartCmd(gen AppGenerator, logger log.Logger, home string, conf StartConfig) error {
	reg := prometheus.NewRegistry()

	// Generate the app in the proper dir
	app, err := gen(home, logger, reg, conf.Debug)
	if err != nil {
		return err
	}

	logger.Info("Starting ABCI app", "bind", conf.Bind)
	svr, err := server.NewServer(conf.Bind, "socket", app)
	if err != nil {
		return errors.Wrapf(errors.ErrNetwork, "cannot create listener: %s", err)
	}
	svr.SetLogger(logger.With("module", "abci-server"))
	if err := svr.Start(); err != nil {
		return errors.Wrapf(errors.ErrNetwork, "cannot start abci server: %s", err)
	}

	var metrics *http.Server
	if conf.Metrics != "" {
		metrics = &http.Server{Addr: conf.Metrics, Handler: metricsHandler(reg)}
		go func() {
			logger.Info("Serving metrics", "bind", conf.Metrics)
			if err := metrics.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("Metrics server failed", "err", err)
			}
		}()
	}

	// Wait forever
	cmn.TrapSignal(logger, func() {
		// Cleanup
		if metrics != nil {
			metrics.Close()
		}
		svr.Stop()
	})
	return nil
}

func metricsHandler(g prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	return mux
}
