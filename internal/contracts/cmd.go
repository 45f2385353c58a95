package contracts

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/socket-network/socket-deployer/configs"
	"github.com/socket-network/socket-deployer/internal/cli"
	"github.com/socket-network/socket-deployer/internal/infra/docker"
)

var CompileCMD = &cobra.Command{
	Use:   "compile",
	Short: "Compile the contracts with forge and write the artifacts file",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := cli.Config(cmd.Context())
		if err != nil {
			return err
		}

		slog.Info("starting compile command", slog.Any("compiler", cfg.Compiler), slog.String("output", cfg.ArtifactsPath))

		if err := compile(cmd, cfg); err != nil {
			return fmt.Errorf("error occurred compiling contracts: %w", err)
		}
		return nil
	},
}

func init() {
	cli.MustDeclareFlags(CompileCMD.Flags(), viper.GetViper(), []cli.FlagDef[string]{
		{Name: "contracts-dir", ViperKey: "compiler.contracts-dir", Description: "Foundry project containing the contracts"},
		{Name: "compiler-image", ViperKey: "compiler.image", Description: "Image providing the forge binary"},
	})
	cli.MustDeclareFlags(CompileCMD.Flags(), viper.GetViper(), []cli.FlagDef[bool]{
		{Name: "use-docker", ViperKey: "compiler.use-docker", Description: "Run forge inside the compiler image instead of from PATH"},
	})
}

func compile(cmd *cobra.Command, cfg configs.Config) error {
	if cfg.ArtifactsPath == "" {
		return fmt.Errorf("artifacts-path is required")
	}

	var runner Runner = NewHostRunner(cfg.Compiler.ContractsDir)
	if cfg.Compiler.UseDocker {
		client, err := docker.New()
		if err != nil {
			return err
		}
		defer client.Close()

		if err := client.EnsureImage(cmd.Context(), cfg.Compiler.Image); err != nil {
			return err
		}

		runner, err = NewDockerRunner(client, cfg.Compiler.Image, cfg.Compiler.ContractsDir)
		if err != nil {
			return err
		}
	}

	return NewCompiler(runner, cfg.ArtifactsPath).Compile(cmd.Context(), Known)
}
