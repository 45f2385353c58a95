package switchboard

import (
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/socket-network/socket-deployer/configs"
	"github.com/socket-network/socket-deployer/internal/addressbook"
	"github.com/socket-network/socket-deployer/internal/chain"
	"github.com/socket-network/socket-deployer/internal/cli"
	"github.com/socket-network/socket-deployer/internal/contracts"
)

var (
	CMD = &cobra.Command{
		Use:   "switchboard",
		Short: "Commands for deploying and configuring switchboards",
	}

	deployCmd = &cobra.Command{
		Use:   "deploy",
		Short: "Deploy an optimistic switchboard owned by the socket owner",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			if err := deploy(cmd, cfg); err != nil {
				return fmt.Errorf("error occurred deploying switchboard: %w", err)
			}
			return nil
		},
	}

	configureCmd = &cobra.Command{
		Use:   "configure",
		Short: "Set execution overhead and watcher role for every remote network",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			address, err := cmd.Flags().GetString("address")
			if err != nil {
				return err
			}

			if err := configure(cmd, cfg, address); err != nil {
				return fmt.Errorf("error occurred configuring switchboard: %w", err)
			}
			return nil
		},
	}
)

func init() {
	cli.MustDeclareFlags(configureCmd.Flags(), viper.GetViper(), []cli.FlagDef[string]{
		{Name: "address", Description: "Switchboard address (default: the recorded optimistic switchboard of the chain)"},
	})
	cli.MustDeclareFlags(configureCmd.Flags(), viper.GetViper(), []cli.FlagDef[[]string]{
		{Name: "remotes", ViperKey: "remotes", Description: "Remote networks to configure"},
	})

	CMD.AddCommand(deployCmd)
	CMD.AddCommand(configureCmd)
}

func loadConfig(cmd *cobra.Command) (configs.Config, error) {
	cfg, err := cli.Config(cmd.Context())
	if err != nil {
		return configs.Config{}, err
	}

	if err := cfg.ValidateSwitchboard(); err != nil {
		return configs.Config{}, err
	}
	return cfg, nil
}

func deploy(cmd *cobra.Command, cfg configs.Config) error {
	ctx := cmd.Context()

	client, signer, err := dial(cmd, cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	store, err := addressbook.NewStore(cfg.Output.Dir, addressbook.SwitchboardFile, cfg.Output.Format)
	if err != nil {
		return err
	}

	address, err := NewDeployer(client, store, cfg.Networks).Deploy(ctx, signer, cfg.Network)
	if err != nil {
		return err
	}

	slog.With("address", address.Hex()).With("path", store.Path()).Info("switchboard address stored")
	return nil
}

func configure(cmd *cobra.Command, cfg configs.Config, address string) error {
	ctx := cmd.Context()

	client, signer, err := dial(cmd, cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	chainID, err := client.ChainID(ctx)
	if err != nil {
		return err
	}

	switchboard, err := resolveAddress(cfg, chainID, address)
	if err != nil {
		return err
	}

	configurator := NewConfigurator(client, cfg.Networks)
	for _, remote := range cfg.Remotes {
		network, err := cfg.Networks.Lookup(remote)
		if err != nil {
			return err
		}

		report := configurator.Setup(ctx, switchboard, network.ChainID, remote, signer)
		slog.
			With("remote_network", remote).
			With("transactions", report.Applied()).
			With("complete", report.Err() == nil).
			Info("remote network processed")
	}

	return nil
}

func dial(cmd *cobra.Command, cfg configs.Config) (*chain.Client, *chain.Signer, error) {
	client, err := chain.DialConfig(cmd.Context(), cfg, contracts.NameOptimisticSwitchboard)
	if err != nil {
		return nil, nil, err
	}

	signer, err := client.Signer(string(configs.SignerSocketOwner))
	if err != nil {
		client.Close()
		return nil, nil, err
	}

	return client, signer, nil
}

// resolveAddress prefers an explicit address over the switchboard book.
func resolveAddress(cfg configs.Config, chainID uint64, address string) (common.Address, error) {
	if address != "" {
		if !common.IsHexAddress(address) {
			return common.Address{}, fmt.Errorf("address %q is not a valid address", address)
		}
		return common.HexToAddress(address), nil
	}

	store, err := addressbook.NewStore(cfg.Output.Dir, addressbook.SwitchboardFile, cfg.Output.Format)
	if err != nil {
		return common.Address{}, err
	}

	book, err := store.Load(chainID)
	if err != nil {
		return common.Address{}, fmt.Errorf("no --address given and no recorded switchboard: %w", err)
	}

	return book.Get(RoleOptimistic)
}
