package chain

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"
)

const rpcPollInterval = time.Second

// WaitForRPC polls url until it serves eth_blockNumber or timeout elapses.
func WaitForRPC(ctx context.Context, url string, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(rpcPollInterval)
	defer ticker.Stop()

	var lastErr error
	for {
		if lastErr = probe(ctx, url); lastErr == nil {
			return nil
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("timed out waiting for RPC at %s: %w", url, lastErr)
		case <-ticker.C:
		}
	}
}

func probe(ctx context.Context, url string) error {
	client, err := ethclient.DialContext(ctx, url)
	if err != nil {
		return err
	}
	defer client.Close()

	_, err = client.BlockNumber(ctx)
	return err
}
