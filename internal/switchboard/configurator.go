package switchboard

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/socket-network/socket-deployer/configs"
	"github.com/socket-network/socket-deployer/internal/chain"
	"github.com/socket-network/socket-deployer/internal/contracts"
	"github.com/socket-network/socket-deployer/internal/logger"
	"github.com/socket-network/socket-deployer/internal/reconcile"
)

const (
	ParamExecutionOverhead = "execution-overhead"
	ParamWatcherRole       = "watcher-role"
)

type (
	chainReader interface {
		Call(ctx context.Context, contract contracts.Name, at common.Address, method string, args ...any) ([]any, error)
	}
	chainWriter interface {
		Transact(ctx context.Context, signer *chain.Signer, contract contracts.Name, at common.Address, method string, args ...any) (*types.Receipt, error)
	}
	chainReadWriter interface {
		chainReader
		chainWriter
	}

	// Configurator brings an optimistic switchboard's per-remote settings in
	// line with the network tables. Errors are logged and reported, never
	// returned.
	Configurator struct {
		client   chainReadWriter
		networks configs.Networks
		logger   *slog.Logger
	}
)

func NewConfigurator(client chainReadWriter, networks configs.Networks) *Configurator {
	return &Configurator{
		client:   client,
		networks: networks,
		logger:   logger.Named("switchboard_configurator"),
	}
}

// WatcherRole is the role id guarding attestations from remoteChainID: the
// chain id left-padded to 32 bytes.
func WatcherRole(remoteChainID uint64) common.Hash {
	return common.BigToHash(new(big.Int).SetUint64(remoteChainID))
}

// Setup reconciles the execution overhead and the watcher role of switchboard
// for one remote chain. The two parameters are independent: a failure in one
// does not skip the other.
func (c *Configurator) Setup(ctx context.Context, switchboard common.Address, remoteChainID uint64, remoteNetwork configs.NetworkName, signer *chain.Signer) reconcile.Report {
	log := c.logger.
		With("switchboard", switchboard.Hex()).
		With("remote_chain_id", remoteChainID).
		With("remote_network", remoteNetwork)

	network, err := c.networks.Lookup(remoteNetwork)
	if err != nil {
		log.With("err", err.Error()).Error("error in setting up switchboard")
		return reconcile.Report{Outcomes: []reconcile.Outcome{reconcile.Failed(string(remoteNetwork), err)}}
	}

	var watcherStep reconcile.Step
	watcher, err := network.Watcher()
	if err != nil {
		watcherStep = failedStep{name: ParamWatcherRole, err: err}
	} else {
		watcherStep = c.watcherRole(switchboard, remoteChainID, watcher, signer)
	}

	report := reconcile.Run(ctx, log,
		c.executionOverhead(switchboard, remoteChainID, network.ExecutionOverhead, signer),
		watcherStep,
	)

	if err := report.Err(); err != nil {
		log.With("err", err.Error()).Error("error in setting up switchboard")
	} else {
		log.With("transactions", report.Applied()).Info("switchboard configured")
	}

	return report
}

func (c *Configurator) executionOverhead(switchboard common.Address, remoteChainID, desired uint64, signer *chain.Signer) reconcile.Param[uint64] {
	return reconcile.Param[uint64]{
		Label:   ParamExecutionOverhead,
		Desired: desired,
		Observe: func(ctx context.Context) (uint64, error) {
			out, err := c.client.Call(ctx, contracts.NameOptimisticSwitchboard, switchboard, "executionOverhead", remoteChainID)
			if err != nil {
				return 0, err
			}
			return uint64Result(out)
		},
		Apply: func(ctx context.Context, overhead uint64) error {
			_, err := c.client.Transact(ctx, signer, contracts.NameOptimisticSwitchboard, switchboard, "setExecutionOverhead", remoteChainID, overhead)
			return err
		},
	}
}

func (c *Configurator) watcherRole(switchboard common.Address, remoteChainID uint64, watcher common.Address, signer *chain.Signer) reconcile.Param[bool] {
	return reconcile.Param[bool]{
		Label:   ParamWatcherRole,
		Desired: true,
		Observe: func(ctx context.Context) (bool, error) {
			out, err := c.client.Call(ctx, contracts.NameOptimisticSwitchboard, switchboard, "hasRole", WatcherRole(remoteChainID), watcher)
			if err != nil {
				return false, err
			}
			return boolResult(out)
		},
		Apply: func(ctx context.Context, _ bool) error {
			_, err := c.client.Transact(ctx, signer, contracts.NameOptimisticSwitchboard, switchboard, "grantWatcherRole", remoteChainID, watcher)
			return err
		},
	}
}

type failedStep struct {
	name string
	err  error
}

func (s failedStep) Name() string {
	return s.name
}

func (s failedStep) Reconcile(context.Context) (reconcile.Status, error) {
	return reconcile.StatusFailed, s.err
}

func uint64Result(out []any) (uint64, error) {
	if len(out) != 1 {
		return 0, fmt.Errorf("expected 1 return value, got %d", len(out))
	}

	switch v := out[0].(type) {
	case *big.Int:
		if !v.IsUint64() {
			return 0, fmt.Errorf("value %s does not fit in uint64", v)
		}
		return v.Uint64(), nil
	case uint64:
		return v, nil
	case uint32:
		return uint64(v), nil
	default:
		return 0, fmt.Errorf("unexpected return type %T", out[0])
	}
}

func boolResult(out []any) (bool, error) {
	if len(out) != 1 {
		return false, fmt.Errorf("expected 1 return value, got %d", len(out))
	}

	v, ok := out[0].(bool)
	if !ok {
		return false, fmt.Errorf("unexpected return type %T", out[0])
	}
	return v, nil
}
