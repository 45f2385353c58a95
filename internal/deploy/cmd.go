package deploy

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/socket-network/socket-deployer/configs"
	"github.com/socket-network/socket-deployer/internal/addressbook"
	"github.com/socket-network/socket-deployer/internal/chain"
	"github.com/socket-network/socket-deployer/internal/cli"
)

var CMD = &cobra.Command{
	Use:   "deploy",
	Short: "Deploy the socket, notary, plugs and per-destination accumulators",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := cli.Config(cmd.Context())
		if err != nil {
			return err
		}

		slog.Info("starting deploy command. Validating config", slog.String("network", string(cfg.Network)), slog.Any("destinations", cfg.Destinations))

		if err := cfg.ValidateDeploy(); err != nil {
			return err
		}

		if err := start(cmd, cfg); err != nil {
			return fmt.Errorf("error occurred deploying contracts: %w", err)
		}

		return nil
	},
}

func init() {
	cli.MustDeclareFlags(CMD.Flags(), viper.GetViper(), []cli.FlagDef[[]int]{
		{Name: "destinations", ViperKey: "destinations", Description: "Destination chain IDs to deploy accumulators for"},
	})
}

func start(cmd *cobra.Command, cfg configs.Config) error {
	ctx := cmd.Context()

	client, err := chain.DialConfig(ctx, cfg, Contracts()...)
	if err != nil {
		return err
	}
	defer client.Close()

	store, err := addressbook.NewStore(cfg.Output.Dir, addressbook.AddressesFile, cfg.Output.Format)
	if err != nil {
		return err
	}

	plan := Plan{
		SocketOwner:  string(configs.SignerSocketOwner),
		CounterOwner: string(configs.SignerCounterOwner),
		Destinations: cfg.Destinations,
	}

	chainID, book, err := NewSequencer(client, store, cfg.Networks).Run(ctx, plan)
	if err != nil {
		return err
	}

	slog.
		With("chain_id", chainID).
		With("path", store.Path()).
		With("addresses", book.Map()).
		Info("deployment addresses stored")

	return nil
}
