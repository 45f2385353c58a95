package switchboard

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum/common"

	"github.com/socket-network/socket-deployer/configs"
	"github.com/socket-network/socket-deployer/internal/addressbook"
	"github.com/socket-network/socket-deployer/internal/chain"
	"github.com/socket-network/socket-deployer/internal/contracts"
	"github.com/socket-network/socket-deployer/internal/logger"
)

// RoleOptimistic is the switchboard book entry of an optimistic switchboard.
const RoleOptimistic = "optimisticSwitchboard"

type (
	chainDeployer interface {
		ChainID(ctx context.Context) (uint64, error)
		Deploy(ctx context.Context, signer *chain.Signer, contract contracts.Name, args ...any) (common.Address, error)
	}
	bookStore interface {
		Save(chainID uint64, book *addressbook.Book) error
	}

	// Deployer deploys optimistic switchboards and records them in the
	// switchboard book. The contract address book is never touched.
	Deployer struct {
		client   chainDeployer
		store    bookStore
		networks configs.Networks
		logger   *slog.Logger
	}
)

func NewDeployer(client chainDeployer, store bookStore, networks configs.Networks) *Deployer {
	return &Deployer{
		client:   client,
		store:    store,
		networks: networks,
		logger:   logger.Named("switchboard_deployer"),
	}
}

// Deploy deploys OptimisticSwitchboard(owner, oracle, timeout) on the chain of
// network, owned by signer.
func (d *Deployer) Deploy(ctx context.Context, signer *chain.Signer, network configs.NetworkName) (common.Address, error) {
	params, err := d.networks.Lookup(network)
	if err != nil {
		return common.Address{}, err
	}

	oracle, err := params.Oracle()
	if err != nil {
		return common.Address{}, fmt.Errorf("network %s: %w", network, err)
	}

	chainID, err := d.client.ChainID(ctx)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to get chain ID: %w", err)
	}
	if chainID != params.ChainID {
		return common.Address{}, fmt.Errorf("connected to chain %d but network %s has chain id %d", chainID, network, params.ChainID)
	}

	address, err := d.client.Deploy(ctx, signer, contracts.NameOptimisticSwitchboard, signer.Address, oracle, params.Timeout)
	if err != nil {
		d.logger.With("err", err.Error()).Error("error in deploying switchboard")
		return common.Address{}, err
	}

	book := addressbook.New()
	if err := book.Set(RoleOptimistic, address); err != nil {
		return common.Address{}, err
	}
	if err := d.store.Save(chainID, book); err != nil {
		return common.Address{}, fmt.Errorf("failed to store switchboard address: %w", err)
	}

	d.logger.
		With("address", address.Hex()).
		With("network", network).
		With("oracle", oracle.Hex()).
		With("timeout", params.Timeout).
		Info("optimistic switchboard deployed")

	return address, nil
}
