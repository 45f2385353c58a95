package configs

import (
	"context"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg, err := DefaultConfig()
	require.NoError(t, err)

	assert.Equal(t, NetworkName("hardhat"), cfg.Network)
	assert.Equal(t, []uint64{97, 80001}, cfg.Destinations)
	assert.Equal(t, OutputFormatJSON, cfg.Output.Format)
	assert.Len(t, cfg.Networks, 11)
	assert.NoError(t, cfg.Validate())

	for _, name := range cfg.Networks.Names() {
		network := cfg.Networks[name]
		assert.EqualValues(t, 300000, network.ExecutionOverhead, "network %s", name)
		assert.EqualValues(t, 300000, network.AttestGasLimit, "network %s", name)
	}
}

func TestLoad_ConfigOverridesDefaults(t *testing.T) {
	v := viper.New()
	require.NoError(t, LoadDefaults(v))

	v.Set("network", "bsc-testnet")
	v.Set("networks.bsc-testnet.execution-overhead", 123)

	cfg, err := Load(v)
	require.NoError(t, err)

	network, err := cfg.Networks.Lookup("bsc-testnet")
	require.NoError(t, err)
	assert.EqualValues(t, 123, network.ExecutionOverhead)
	assert.EqualValues(t, 97, network.ChainID)
	assert.EqualValues(t, 300000, cfg.Networks["polygon-mumbai"].ExecutionOverhead)
}

func TestNetworks_Lookup(t *testing.T) {
	networks := Networks{
		"goerli":      {ChainID: 5},
		"bsc-testnet": {ChainID: 97},
	}

	network, err := networks.Lookup("goerli")
	require.NoError(t, err)
	assert.EqualValues(t, 5, network.ChainID)

	_, err = networks.Lookup("unknown")
	assert.ErrorIs(t, err, ErrUnknownNetwork)

	name, network, err := networks.ByChainID(97)
	require.NoError(t, err)
	assert.Equal(t, NetworkName("bsc-testnet"), name)
	assert.EqualValues(t, 97, network.ChainID)

	_, _, err = networks.ByChainID(1)
	assert.ErrorIs(t, err, ErrUnknownNetwork)
}

func TestNetworks_LookupReturnsCopy(t *testing.T) {
	networks := Networks{"goerli": {ChainID: 5, ExecutionOverhead: 1}}

	network, err := networks.Lookup("goerli")
	require.NoError(t, err)
	network.ExecutionOverhead = 99

	assert.EqualValues(t, 1, networks["goerli"].ExecutionOverhead)
}

func TestNetwork_Addresses(t *testing.T) {
	network := Network{
		ExecutorAddress: "0x3C44CdDdB6a900fa2b585dd299e03d12FA4293BC",
		WatcherAddress:  "not-an-address",
	}

	executor, err := network.Executor()
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress("0x3C44CdDdB6a900fa2b585dd299e03d12FA4293BC"), executor)

	_, err = network.Watcher()
	assert.ErrorContains(t, err, "is not a valid address")

	_, err = network.Oracle()
	assert.ErrorContains(t, err, "oracle-address is not configured")
}

func TestConfig_Validate(t *testing.T) {
	base := func() Config {
		cfg, err := DefaultConfig()
		require.NoError(t, err)
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			mutate: func(*Config) {},
		},
		{
			name:    "missing rpc url",
			mutate:  func(c *Config) { c.RPCURL = "" },
			wantErr: "rpc-url is required",
		},
		{
			name:    "unknown network",
			mutate:  func(c *Config) { c.Network = "moon" },
			wantErr: "networks.moon is not configured",
		},
		{
			name:    "bad output format",
			mutate:  func(c *Config) { c.Output.Format = "toml" },
			wantErr: "output.format must be either",
		},
		{
			name: "duplicate chain id",
			mutate: func(c *Config) {
				networks := Networks{}
				for name, network := range c.Networks {
					networks[name] = network
				}
				networks["goerli-copy"] = Network{ChainID: 5}
				c.Networks = networks
			},
			wantErr: "chain-id duplicates networks.goerli",
		},
		{
			name: "invalid watcher address",
			mutate: func(c *Config) {
				c.Networks = Networks{"hardhat": {ChainID: 31337, WatcherAddress: "0x12"}}
			},
			wantErr: "networks.hardhat.watcher-address is not a valid address",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base()
			tc.mutate(&cfg)

			err := cfg.Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestConfig_ValidateDeploy(t *testing.T) {
	cfg, err := DefaultConfig()
	require.NoError(t, err)

	err = cfg.ValidateDeploy()
	assert.ErrorContains(t, err, "signers.socket-owner is required")
	assert.ErrorContains(t, err, "signers.counter-owner is required")

	cfg.Signers = map[SignerName]string{
		SignerSocketOwner:  "0x01",
		SignerCounterOwner: "0x02",
	}
	assert.NoError(t, cfg.ValidateDeploy())

	cfg.Destinations = []uint64{97, 80001, 97}
	assert.ErrorContains(t, cfg.ValidateDeploy(), "destinations contains 97 more than once")
}

func TestConfig_ValidateSwitchboard(t *testing.T) {
	cfg, err := DefaultConfig()
	require.NoError(t, err)
	cfg.Signers = map[SignerName]string{SignerSocketOwner: "0x01"}

	assert.NoError(t, cfg.ValidateSwitchboard())

	cfg.Remotes = []NetworkName{"bsc-testnet", "moon"}
	assert.ErrorContains(t, cfg.ValidateSwitchboard(), "remotes: networks.moon is not configured")
}

func TestContext(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	ctx := WithContext(context.Background(), Config{Network: "goerli"})
	cfg, ok := FromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, NetworkName("goerli"), cfg.Network)
}
