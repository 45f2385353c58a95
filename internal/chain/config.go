package chain

import (
	"context"

	"github.com/socket-network/socket-deployer/configs"
	"github.com/socket-network/socket-deployer/internal/contracts"
)

// DialConfig loads the artifacts of names and connects to the configured RPC
// endpoint with every configured signer.
func DialConfig(ctx context.Context, cfg configs.Config, names ...contracts.Name) (*Client, error) {
	artifacts, err := contracts.LoadFile(cfg.ArtifactsPath)
	if err != nil {
		return nil, err
	}
	if err := artifacts.Require(names...); err != nil {
		return nil, err
	}

	return Dial(ctx, Options{
		RPCURL:     cfg.RPCURL,
		RPCTimeout: cfg.Transactions.RPCTimeout,
		TxTimeout:  cfg.Transactions.Timeout,
		GasLimit:   cfg.Transactions.GasLimit,
		Keys:       signerKeys(cfg.Signers),
		Artifacts:  artifacts,
	})
}

func signerKeys(signers map[configs.SignerName]string) map[string]string {
	keys := make(map[string]string, len(signers))
	for name, key := range signers {
		if key != "" {
			keys[string(name)] = key
		}
	}
	return keys
}
