package chain

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"sort"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/socket-network/socket-deployer/internal/contracts"
	"github.com/socket-network/socket-deployer/internal/logger"
)

type (
	Options struct {
		RPCURL     string
		RPCTimeout time.Duration
		TxTimeout  time.Duration
		// GasLimit fixes the gas limit of every transaction; 0 estimates it.
		GasLimit uint64
		// Keys maps signer names to hex private keys.
		Keys      map[string]string
		Artifacts contracts.Artifacts
	}

	// Client deploys and calls contracts on a single chain. Every write
	// blocks until its receipt is available.
	Client struct {
		backend   *ethclient.Client
		chainID   *big.Int
		signers   map[string]*Signer
		artifacts contracts.Artifacts
		txTimeout time.Duration
		gasLimit  uint64
		logger    *slog.Logger
	}
)

// Dial waits for the RPC endpoint, connects and detects the chain id.
func Dial(ctx context.Context, opts Options) (*Client, error) {
	log := logger.Named("chain_client")

	signers := make(map[string]*Signer, len(opts.Keys))
	for name, key := range opts.Keys {
		signer, err := NewSigner(name, key)
		if err != nil {
			return nil, err
		}
		signers[name] = signer
	}

	log.With("url", opts.RPCURL).Info("waiting for RPC")
	if err := WaitForRPC(ctx, opts.RPCURL, opts.RPCTimeout); err != nil {
		return nil, err
	}

	backend, err := ethclient.DialContext(ctx, opts.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", opts.RPCURL, err)
	}

	chainID, err := backend.ChainID(ctx)
	if err != nil {
		backend.Close()
		return nil, fmt.Errorf("failed to get chain ID: %w", err)
	}
	log.With("chain_id", chainID).Info("chain ID was fetched")

	txTimeout := opts.TxTimeout
	if txTimeout <= 0 {
		txTimeout = 2 * time.Minute
	}

	return &Client{
		backend:   backend,
		chainID:   chainID,
		signers:   signers,
		artifacts: opts.Artifacts,
		txTimeout: txTimeout,
		gasLimit:  opts.GasLimit,
		logger:    log.With("chain_id", chainID.Uint64()),
	}, nil
}

func (c *Client) Close() {
	c.backend.Close()
}

func (c *Client) ChainID(context.Context) (uint64, error) {
	return c.chainID.Uint64(), nil
}

// Signer returns the named account.
func (c *Client) Signer(name string) (*Signer, error) {
	signer, ok := c.signers[name]
	if !ok {
		known := make([]string, 0, len(c.signers))
		for n := range c.signers {
			known = append(known, n)
		}
		sort.Strings(known)
		return nil, fmt.Errorf("unknown signer %q (configured: %v)", name, known)
	}
	return signer, nil
}

// Deploy deploys contract with constructor args and waits until it is mined.
func (c *Client) Deploy(ctx context.Context, signer *Signer, contract contracts.Name, args ...any) (common.Address, error) {
	artifact, err := c.artifacts.Get(contract)
	if err != nil {
		return common.Address{}, err
	}

	packed, err := coerceArgs(artifact.ABI.Constructor.Inputs, args)
	if err != nil {
		return common.Address{}, fmt.Errorf("invalid constructor arguments for %s: %w", contract, err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.txTimeout)
	defer cancel()

	auth, err := c.transactor(ctx, signer)
	if err != nil {
		return common.Address{}, err
	}

	address, tx, _, err := bind.DeployContract(auth, artifact.ABI, artifact.Bytecode, c.backend, packed...)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to deploy %s: %w", contract, err)
	}

	c.logger.
		With("contract", contract).
		With("address", address.Hex()).
		With("tx_hash", tx.Hash().Hex()).
		Info("contract deployment transaction sent")

	if _, err := c.waitMined(ctx, tx); err != nil {
		return common.Address{}, fmt.Errorf("deployment of %s: %w", contract, err)
	}

	return address, nil
}

// Transact calls a state-changing method and waits for its receipt.
func (c *Client) Transact(ctx context.Context, signer *Signer, contract contracts.Name, at common.Address, method string, args ...any) (*types.Receipt, error) {
	artifact, err := c.artifacts.Get(contract)
	if err != nil {
		return nil, err
	}

	abiMethod, ok := artifact.ABI.Methods[method]
	if !ok {
		return nil, fmt.Errorf("%s has no method %s", contract, method)
	}

	packed, err := coerceArgs(abiMethod.Inputs, args)
	if err != nil {
		return nil, fmt.Errorf("invalid arguments for %s.%s: %w", contract, method, err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.txTimeout)
	defer cancel()

	auth, err := c.transactor(ctx, signer)
	if err != nil {
		return nil, err
	}

	bound := bind.NewBoundContract(at, artifact.ABI, c.backend, c.backend, c.backend)
	tx, err := bound.Transact(auth, method, packed...)
	if err != nil {
		return nil, fmt.Errorf("failed to send %s.%s: %w", contract, method, err)
	}

	c.logger.
		With("contract", contract).
		With("address", at.Hex()).
		With("method", method).
		With("tx_hash", tx.Hash().Hex()).
		Info("transaction sent")

	receipt, err := c.waitMined(ctx, tx)
	if err != nil {
		return nil, fmt.Errorf("%s.%s: %w", contract, method, err)
	}

	return receipt, nil
}

// Call reads a view method.
func (c *Client) Call(ctx context.Context, contract contracts.Name, at common.Address, method string, args ...any) ([]any, error) {
	artifact, err := c.artifacts.Get(contract)
	if err != nil {
		return nil, err
	}

	abiMethod, ok := artifact.ABI.Methods[method]
	if !ok {
		return nil, fmt.Errorf("%s has no method %s", contract, method)
	}

	packed, err := coerceArgs(abiMethod.Inputs, args)
	if err != nil {
		return nil, fmt.Errorf("invalid arguments for %s.%s: %w", contract, method, err)
	}

	bound := bind.NewBoundContract(at, artifact.ABI, c.backend, c.backend, c.backend)

	var out []any
	if err := bound.Call(&bind.CallOpts{Context: ctx}, &out, method, packed...); err != nil {
		return nil, fmt.Errorf("failed to call %s.%s: %w", contract, method, err)
	}

	return out, nil
}

func (c *Client) transactor(ctx context.Context, signer *Signer) (*bind.TransactOpts, error) {
	if signer == nil || signer.key == nil {
		return nil, fmt.Errorf("signer has no private key")
	}

	auth, err := bind.NewKeyedTransactorWithChainID(signer.key, c.chainID)
	if err != nil {
		return nil, fmt.Errorf("failed to create transactor: %w", err)
	}

	auth.Context = ctx
	auth.GasLimit = c.gasLimit

	return auth, nil
}

func (c *Client) waitMined(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
	receipt, err := bind.WaitMined(ctx, c.backend, tx)
	if err != nil {
		return nil, fmt.Errorf("failed to wait for transaction %s: %w", tx.Hash().Hex(), err)
	}

	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, fmt.Errorf("transaction %s failed with status %d", tx.Hash().Hex(), receipt.Status)
	}

	c.logger.
		With("tx_hash", tx.Hash().Hex()).
		With("block", receipt.BlockNumber).
		With("gas_used", receipt.GasUsed).
		Debug("transaction mined")

	return receipt, nil
}
