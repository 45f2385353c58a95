package devnet

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/socket-network/socket-deployer/internal/cli"
	"github.com/socket-network/socket-deployer/internal/infra/docker"
)

var (
	CMD = &cobra.Command{
		Use:   "devnet",
		Short: "Commands for running a local anvil chain",
	}

	upCmd = &cobra.Command{
		Use:   "up",
		Short: "Start the local anvil chain",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := withService(cmd, func(ctx context.Context, service *Service) error {
				return service.Up(ctx)
			}); err != nil {
				return fmt.Errorf("error occurred starting devnet: %w", err)
			}
			return nil
		},
	}

	downCmd = &cobra.Command{
		Use:   "down",
		Short: "Stop and remove the local anvil chain",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := withService(cmd, func(ctx context.Context, service *Service) error {
				return service.Down(ctx)
			}); err != nil {
				return fmt.Errorf("error occurred stopping devnet: %w", err)
			}
			return nil
		},
	}
)

func init() {
	cli.MustDeclareFlags(CMD.PersistentFlags(), viper.GetViper(), []cli.FlagDef[string]{
		{Name: "devnet-image", ViperKey: "devnet.image", Description: "Image providing the anvil binary"},
		{Name: "devnet-container", ViperKey: "devnet.container-name", Description: "Devnet container name"},
	})
	cli.MustDeclareFlags(CMD.PersistentFlags(), viper.GetViper(), []cli.FlagDef[int]{
		{Name: "devnet-port", ViperKey: "devnet.port", Description: "Host port of the devnet RPC"},
		{Name: "devnet-chain-id", ViperKey: "devnet.chain-id", Description: "Chain ID of the devnet"},
	})

	CMD.AddCommand(upCmd)
	CMD.AddCommand(downCmd)
}

func withService(cmd *cobra.Command, fn func(ctx context.Context, service *Service) error) error {
	cfg, err := cli.Config(cmd.Context())
	if err != nil {
		return err
	}

	client, err := docker.New()
	if err != nil {
		return err
	}
	defer client.Close()

	return fn(cmd.Context(), NewService(client, cfg.Devnet, cfg.Transactions.RPCTimeout))
}
