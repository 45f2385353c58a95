package devnet

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/socket-network/socket-deployer/configs"
	"github.com/socket-network/socket-deployer/internal/chain"
	"github.com/socket-network/socket-deployer/internal/infra/docker"
	"github.com/socket-network/socket-deployer/internal/logger"
)

const anvilPort = 8545

type (
	containerClient interface {
		EnsureImage(ctx context.Context, image string) error
		RemoveContainer(ctx context.Context, nameOrID string) error
		Start(ctx context.Context, opts docker.StartOptions) (string, error)
	}

	// Service runs a single anvil node in docker.
	Service struct {
		docker     containerClient
		cfg        configs.Devnet
		rpcTimeout time.Duration
		waitForRPC func(ctx context.Context, url string, timeout time.Duration) error
		logger     *slog.Logger
	}
)

func NewService(client containerClient, cfg configs.Devnet, rpcTimeout time.Duration) *Service {
	return &Service{
		docker:     client,
		cfg:        cfg,
		rpcTimeout: rpcTimeout,
		waitForRPC: chain.WaitForRPC,
		logger:     logger.Named("devnet"),
	}
}

// RPCURL is the host endpoint of the node.
func (s *Service) RPCURL() string {
	return fmt.Sprintf("http://localhost:%d", s.cfg.Port)
}

// Up replaces any container with the configured name by a fresh anvil node
// and waits until it answers JSON-RPC.
func (s *Service) Up(ctx context.Context) error {
	if err := s.docker.EnsureImage(ctx, s.cfg.Image); err != nil {
		return err
	}

	if err := s.docker.RemoveContainer(ctx, s.cfg.ContainerName); err != nil {
		return err
	}

	id, err := s.docker.Start(ctx, s.startOptions())
	if err != nil {
		return err
	}

	url := s.RPCURL()
	s.logger.With("container_id", id, "url", url).Info("waiting for devnet RPC")

	if err := s.waitForRPC(ctx, url, s.rpcTimeout); err != nil {
		return fmt.Errorf("devnet container %s did not become ready: %w", s.cfg.ContainerName, err)
	}

	s.logger.
		With("url", url).
		With("chain_id", s.cfg.ChainID).
		Info("devnet is up")

	return nil
}

// Down removes the devnet container. A missing container is not an error.
func (s *Service) Down(ctx context.Context) error {
	if err := s.docker.RemoveContainer(ctx, s.cfg.ContainerName); err != nil {
		return err
	}

	s.logger.With("container", s.cfg.ContainerName).Info("devnet is down")
	return nil
}

func (s *Service) startOptions() docker.StartOptions {
	return docker.StartOptions{
		Name:       s.cfg.ContainerName,
		Image:      s.cfg.Image,
		Entrypoint: []string{"anvil"},
		Cmd: []string{
			"--host", "0.0.0.0",
			"--port", strconv.Itoa(anvilPort),
			"--chain-id", strconv.FormatUint(s.cfg.ChainID, 10),
		},
		Ports: map[int]int{anvilPort: s.cfg.Port},
	}
}
