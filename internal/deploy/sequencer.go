package deploy

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/socket-network/socket-deployer/configs"
	"github.com/socket-network/socket-deployer/internal/addressbook"
	"github.com/socket-network/socket-deployer/internal/chain"
	"github.com/socket-network/socket-deployer/internal/contracts"
	"github.com/socket-network/socket-deployer/internal/logger"
)

// Address book roles.
const (
	RoleCounter           = "counter"
	RoleHasher            = "hasher"
	RoleNotary            = "notary"
	RoleSignatureVerifier = "signatureVerifier"
	RoleSocket            = "socket"
	RoleVault             = "vault"
	RoleVerifier          = "verifier"

	RoleFastAccumulator = "fastAccum"
	RoleSlowAccumulator = "slowAccum"
	RoleDeaccumulator   = "deaccum"
)

type (
	chainClient interface {
		ChainID(ctx context.Context) (uint64, error)
		Signer(name string) (*chain.Signer, error)
		Deploy(ctx context.Context, signer *chain.Signer, contract contracts.Name, args ...any) (common.Address, error)
		Transact(ctx context.Context, signer *chain.Signer, contract contracts.Name, at common.Address, method string, args ...any) (*types.Receipt, error)
	}
	addressStore interface {
		Save(chainID uint64, book *addressbook.Book) error
	}

	// Plan names the accounts that own each group of contracts and the
	// chains the socket sends to.
	Plan struct {
		SocketOwner  string
		CounterOwner string
		Destinations []uint64
	}

	// Sequencer deploys the socket stack in dependency order. Any failure
	// aborts the run and nothing is persisted.
	Sequencer struct {
		client   chainClient
		store    addressStore
		networks configs.Networks
		logger   *slog.Logger
	}
)

func NewSequencer(client chainClient, store addressStore, networks configs.Networks) *Sequencer {
	return &Sequencer{
		client:   client,
		store:    store,
		networks: networks,
		logger:   logger.Named("deploy_sequencer"),
	}
}

// Contracts lists the artifacts a run needs.
func Contracts() []contracts.Name {
	return []contracts.Name{
		contracts.NameSignatureVerifier,
		contracts.NameNotary,
		contracts.NameHasher,
		contracts.NameVault,
		contracts.NameSocket,
		contracts.NameVerifier,
		contracts.NameCounter,
		contracts.NameAccumulator,
		contracts.NameDeaccumulator,
	}
}

func (p Plan) validate() error {
	if p.SocketOwner == "" || p.CounterOwner == "" {
		return fmt.Errorf("socket owner and counter owner are required")
	}

	seen := make(map[uint64]struct{}, len(p.Destinations))
	for _, destination := range p.Destinations {
		if _, ok := seen[destination]; ok {
			return fmt.Errorf("destination %d is listed more than once", destination)
		}
		seen[destination] = struct{}{}
	}

	return nil
}

// Run deploys every contract, grants the executor role and stores the book
// under the detected chain id.
func (s *Sequencer) Run(ctx context.Context, plan Plan) (uint64, *addressbook.Book, error) {
	chainID, book, err := s.run(ctx, plan)
	if err != nil {
		s.logger.With("err", err.Error()).Error("error in deploying setup contracts")
		return 0, nil, err
	}

	if err := s.store.Save(chainID, book); err != nil {
		s.logger.With("err", err.Error()).Error("failed to store addresses")
		return 0, nil, fmt.Errorf("failed to store addresses: %w", err)
	}

	s.logger.With("chain_id", chainID, "entries", book.Len()).Info("deployment completed")

	return chainID, book, nil
}

func (s *Sequencer) run(ctx context.Context, plan Plan) (uint64, *addressbook.Book, error) {
	if err := plan.validate(); err != nil {
		return 0, nil, err
	}

	chainID, err := s.client.ChainID(ctx)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to get chain ID: %w", err)
	}

	networkName, network, err := s.networks.ByChainID(chainID)
	if err != nil {
		return 0, nil, err
	}
	executor, err := network.Executor()
	if err != nil {
		return 0, nil, fmt.Errorf("network %s: %w", networkName, err)
	}

	socketSigner, err := s.client.Signer(plan.SocketOwner)
	if err != nil {
		return 0, nil, err
	}
	counterSigner, err := s.client.Signer(plan.CounterOwner)
	if err != nil {
		return 0, nil, err
	}

	s.logger.
		With("chain_id", chainID).
		With("network", networkName).
		With("socket_owner", socketSigner.String()).
		With("counter_owner", counterSigner.String()).
		With("destinations", plan.Destinations).
		Info("deploying setup contracts")

	book := addressbook.New()

	// notary
	signatureVerifier, err := s.deploy(ctx, book, RoleSignatureVerifier, socketSigner, contracts.NameSignatureVerifier)
	if err != nil {
		return 0, nil, err
	}
	notary, err := s.deploy(ctx, book, RoleNotary, socketSigner, contracts.NameNotary, signatureVerifier)
	if err != nil {
		return 0, nil, err
	}

	// socket
	hasher, err := s.deploy(ctx, book, RoleHasher, socketSigner, contracts.NameHasher)
	if err != nil {
		return 0, nil, err
	}
	vault, err := s.deploy(ctx, book, RoleVault, socketSigner, contracts.NameVault)
	if err != nil {
		return 0, nil, err
	}
	socket, err := s.deploy(ctx, book, RoleSocket, socketSigner, contracts.NameSocket, hasher, vault)
	if err != nil {
		return 0, nil, err
	}

	// plugs
	if _, err := s.deploy(ctx, book, RoleVerifier, counterSigner, contracts.NameVerifier, notary, socket); err != nil {
		return 0, nil, err
	}
	if _, err := s.deploy(ctx, book, RoleCounter, counterSigner, contracts.NameCounter, socket); err != nil {
		return 0, nil, err
	}
	s.logger.Info("contracts deployed")

	if _, err := s.client.Transact(ctx, socketSigner, contracts.NameSocket, socket, "grantExecutorRole", executor); err != nil {
		return 0, nil, fmt.Errorf("failed to grant executor role to %s: %w", executor.Hex(), err)
	}
	s.logger.With("executor", executor.Hex()).Info("assigned executor role")

	for _, destination := range plan.Destinations {
		if _, err := s.deploy(ctx, book, addressbook.Key(RoleFastAccumulator, destination), socketSigner, contracts.NameAccumulator, socket, notary, destination); err != nil {
			return 0, nil, err
		}
		if _, err := s.deploy(ctx, book, addressbook.Key(RoleSlowAccumulator, destination), socketSigner, contracts.NameAccumulator, socket, notary, destination); err != nil {
			return 0, nil, err
		}
		if _, err := s.deploy(ctx, book, addressbook.Key(RoleDeaccumulator, destination), socketSigner, contracts.NameDeaccumulator); err != nil {
			return 0, nil, err
		}
		s.logger.With("destination", destination).Info("deployed accum and deaccum")
	}

	return chainID, book, nil
}

func (s *Sequencer) deploy(ctx context.Context, book *addressbook.Book, role string, signer *chain.Signer, contract contracts.Name, args ...any) (common.Address, error) {
	address, err := s.client.Deploy(ctx, signer, contract, args...)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to deploy %s as %s: %w", contract, role, err)
	}

	if err := book.Set(role, address); err != nil {
		return common.Address{}, err
	}

	s.logger.Info("deployed", "contract", contract, "role", role, "address", address.Hex())

	return address, nil
}
