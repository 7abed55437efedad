package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/iov-one/treasury"
	treasuryd "github.com/iov-one/treasury/cmd/treasuryd/app"
	"github.com/iov-one/treasury/commands"
	"github.com/iov-one/treasury/commands/server"
	"github.com/spf13/cobra"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	flagHome     = "home"
	flagLogLevel = "log-level"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %+v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		home     string
		logLevel string
		logger   log.Logger
	)

	root := &cobra.Command{
		Use:           "treasuryd",
		Short:         "Treasury node and client",
		Long:          "Treasury wallet guarded by a group of signatories.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l, err := newLogger(logLevel)
			if err != nil {
				return err
			}
			logger = l
			return nil
		},
	}
	defaultHome := filepath.Join(os.ExpandEnv("$HOME"), ".treasury")
	root.PersistentFlags().StringVar(&home, flagHome, defaultHome, "directory to store files under")
	root.PersistentFlags().StringVar(&logLevel, flagLogLevel, "info", "log level (debug, info, error or none)")

	var chainID string
	initCmd := &cobra.Command{
		Use:   "init [ticker] [signatory...]",
		Short: "Initialize app state in genesis file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return server.InitCmd(treasuryd.GenInitOptions, logger, home, chainID, args)
		},
	}
	initCmd.Flags().StringVar(&chainID, flagChainID, "", "chain id (default from genesis file)")

	var conf server.StartConfig
	startCmd := &cobra.Command{
		Use:   "start",
		Short: "Run the abci server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return server.StartCmd(treasuryd.GenerateApp, logger, home, conf)
		},
	}
	startCmd.Flags().StringVar(&conf.Bind, "bind", "tcp://localhost:26658", "address server listens on")
	startCmd.Flags().StringVar(&conf.Metrics, "metrics", "", "address of the prometheus metrics endpoint, disabled if empty")
	startCmd.Flags().BoolVar(&conf.Debug, "debug", false, "call stack returned on error")

	var genesis []string
	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate genesis files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			paths := genesis
			if len(paths) == 0 {
				paths = []string{filepath.Join(home, "config", "genesis.json")}
			}
			if err := server.ValidateGenesis(treasuryd.GenesisInitializer, paths); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "genesis valid")
			return nil
		},
	}
	validateCmd.Flags().StringSliceVar(&genesis, "genesis", nil, "genesis files to validate (default from home directory)")

	testgenCmd := &cobra.Command{
		Use:   "testgen [dir]",
		Short: "Write example transactions in json and binary format",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return commands.TestGenCmd(treasuryd.Examples(), args)
		},
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the app version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), treasury.Version())
		},
	}

	root.AddCommand(
		initCmd,
		startCmd,
		validateCmd,
		testgenCmd,
		versionCmd,
		keysCmd(),
		txCmd(),
		queryCmd(),
	)
	return root
}

func newLogger(level string) (log.Logger, error) {
	opt, err := log.AllowLevel(level)
	if err != nil {
		return nil, err
	}
	logger := log.NewTMLogger(log.NewSyncWriter(os.Stdout))
	return log.NewFilter(logger, opt).With("module", "treasury"), nil
}
