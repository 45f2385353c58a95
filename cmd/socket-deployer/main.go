package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/socket-network/socket-deployer/configs"
	"github.com/socket-network/socket-deployer/internal/cli"
	"github.com/socket-network/socket-deployer/internal/contracts"
	"github.com/socket-network/socket-deployer/internal/deploy"
	"github.com/socket-network/socket-deployer/internal/devnet"
	"github.com/socket-network/socket-deployer/internal/logger"
	"github.com/socket-network/socket-deployer/internal/switchboard"
)

const appName = "socket-deployer"

var (
	stringFlags = []cli.FlagDef[string]{
		{Name: "config", Description: "Config file (default: config.yaml next to the binary, in . or ./configs)"},

		// Chain
		{Name: "network", ViperKey: "network", Description: "Network of the connected chain"},
		{Name: "rpc-url", ViperKey: "rpc-url", Description: "JSON-RPC endpoint"},
		{Name: "artifacts-path", ViperKey: "artifacts-path", Description: "Compiled contract artifacts file"},

		// Transactions
		{Name: "tx-timeout", ViperKey: "transactions.timeout", Description: "Time to wait for each transaction receipt"},
		{Name: "rpc-timeout", ViperKey: "transactions.rpc-timeout", Description: "Time to wait for the RPC endpoint to come up"},

		// Output
		{Name: "output-dir", ViperKey: "output.dir", Description: "Directory of the address books"},
		{Name: "output-format", ViperKey: "output.format", Description: "Address book format (json or yaml)"},

		// Logging
		{Name: "log-level", ViperKey: "log.level", Description: "Log level (debug, info, warn, error)"},
		{Name: "log-format", ViperKey: "log.format", Description: "Log format (json or text)"},
	}

	intFlags = []cli.FlagDef[int]{
		{Name: "gas-limit", ViperKey: "transactions.gas-limit", Description: "Fixed gas limit per transaction (0 estimates)"},
	}
)

var rootCmd = &cobra.Command{
	Use:           appName,
	Short:         "Deploy and configure the socket messaging contracts",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configFile, err := cmd.Flags().GetString("config")
		if err != nil {
			return err
		}

		cfg, err := cli.LoadConfig(viper.GetViper(), configFile)
		if err != nil {
			const errMsg = "unable to load application config"
			slog.With("err", err.Error()).Error(errMsg)
			return errors.Join(err, errors.New(errMsg))
		}

		level, err := logger.ParseLevel(cfg.Log.Level)
		if err != nil {
			return err
		}
		if err := logger.Initialize(level, cfg.Log.Format); err != nil {
			return err
		}

		slog.
			With("network", cfg.Network).
			With("rpc_url", cfg.RPCURL).
			With("config_file", viper.ConfigFileUsed()).
			Debug("configuration loaded")

		cmd.SetContext(configs.WithContext(cmd.Context(), cfg))

		return nil
	},
}

func init() {
	cli.MustDeclareFlags(rootCmd.PersistentFlags(), viper.GetViper(), stringFlags)
	cli.MustDeclareFlags(rootCmd.PersistentFlags(), viper.GetViper(), intFlags)
}

func main() {
	rootCmd.AddCommand(deploy.CMD)
	rootCmd.AddCommand(switchboard.CMD)
	rootCmd.AddCommand(contracts.CompileCMD)
	rootCmd.AddCommand(devnet.CMD)

	if err := rootCmd.Execute(); err != nil {
		slog.With("err", err.Error()).Error("failed to execute root command")
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
