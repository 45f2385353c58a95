package configs

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

var ErrUnknownNetwork = errors.New("unknown network")

type (
	NetworkName string
	SignerName  string

	Config struct {
		Network       NetworkName           `mapstructure:"network"`
		RPCURL        string                `mapstructure:"rpc-url"`
		ArtifactsPath string                `mapstructure:"artifacts-path"`
		Log           Log                   `mapstructure:"log"`
		Signers       map[SignerName]string `mapstructure:"signers"`
		Destinations  []uint64              `mapstructure:"destinations"`
		Remotes       []NetworkName         `mapstructure:"remotes"`
		Output        Output                `mapstructure:"output"`
		Transactions  Transactions          `mapstructure:"transactions"`
		Networks      Networks              `mapstructure:"networks"`
		Devnet        Devnet                `mapstructure:"devnet"`
		Compiler      Compiler              `mapstructure:"compiler"`
	}

	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
	}

	Output struct {
		Dir    string `mapstructure:"dir"`
		Format string `mapstructure:"format"`
	}

	Transactions struct {
		Timeout    time.Duration `mapstructure:"timeout"`
		RPCTimeout time.Duration `mapstructure:"rpc-timeout"`
		GasLimit   uint64        `mapstructure:"gas-limit"`
	}

	// Network holds the static per-network parameters. The values are never
	// mutated once decoded.
	Network struct {
		ChainID           uint64 `mapstructure:"chain-id"`
		ExecutionOverhead uint64 `mapstructure:"execution-overhead"`
		AttestGasLimit    uint64 `mapstructure:"attest-gas-limit"`
		Timeout           uint64 `mapstructure:"timeout"`
		WatcherAddress    string `mapstructure:"watcher-address"`
		ExecutorAddress   string `mapstructure:"executor-address"`
		OracleAddress     string `mapstructure:"oracle-address"`
	}

	Networks map[NetworkName]Network

	Devnet struct {
		Image         string `mapstructure:"image"`
		ContainerName string `mapstructure:"container-name"`
		Port          int    `mapstructure:"port"`
		ChainID       uint64 `mapstructure:"chain-id"`
	}

	Compiler struct {
		ContractsDir string `mapstructure:"contracts-dir"`
		UseDocker    bool   `mapstructure:"use-docker"`
		Image        string `mapstructure:"image"`
	}
)

const (
	SignerSocketOwner  SignerName = "socket-owner"
	SignerCounterOwner SignerName = "counter-owner"

	OutputFormatJSON = "json"
	OutputFormatYAML = "yaml"
)

// Lookup returns a copy of the named network's parameters.
func (n Networks) Lookup(name NetworkName) (Network, error) {
	network, ok := n[name]
	if !ok {
		return Network{}, fmt.Errorf("%w: %s", ErrUnknownNetwork, name)
	}
	return network, nil
}

// ByChainID finds the network configured with the given chain id.
func (n Networks) ByChainID(chainID uint64) (NetworkName, Network, error) {
	for _, name := range n.Names() {
		if n[name].ChainID == chainID {
			return name, n[name], nil
		}
	}
	return "", Network{}, fmt.Errorf("%w: no network with chain id %d", ErrUnknownNetwork, chainID)
}

// Names returns the configured network names in lexical order.
func (n Networks) Names() []NetworkName {
	names := make([]NetworkName, 0, len(n))
	for name := range n {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

func (n Network) Executor() (common.Address, error) {
	return parseAddress("executor-address", n.ExecutorAddress)
}

func (n Network) Watcher() (common.Address, error) {
	return parseAddress("watcher-address", n.WatcherAddress)
}

func (n Network) Oracle() (common.Address, error) {
	return parseAddress("oracle-address", n.OracleAddress)
}

func parseAddress(field, value string) (common.Address, error) {
	if value == "" {
		return common.Address{}, fmt.Errorf("%s is not configured", field)
	}
	if !common.IsHexAddress(value) {
		return common.Address{}, fmt.Errorf("%s %q is not a valid address", field, value)
	}
	return common.HexToAddress(value), nil
}

// Validate checks the settings shared by every command.
func (c Config) Validate() error {
	var errs []error

	if c.RPCURL == "" {
		errs = append(errs, errors.New("rpc-url is required"))
	}
	if c.Network == "" {
		errs = append(errs, errors.New("network is required"))
	} else if _, ok := c.Networks[c.Network]; !ok {
		errs = append(errs, fmt.Errorf("networks.%s is not configured", c.Network))
	}
	if c.Output.Format != OutputFormatJSON && c.Output.Format != OutputFormatYAML {
		errs = append(errs, fmt.Errorf("output.format must be either '%s' or '%s'", OutputFormatJSON, OutputFormatYAML))
	}
	if c.Transactions.Timeout <= 0 {
		errs = append(errs, errors.New("transactions.timeout must be positive"))
	}

	seen := make(map[uint64]NetworkName)
	for _, name := range c.Networks.Names() {
		network := c.Networks[name]
		if network.ChainID == 0 {
			errs = append(errs, fmt.Errorf("networks.%s.chain-id is required", name))
			continue
		}
		if other, ok := seen[network.ChainID]; ok {
			errs = append(errs, fmt.Errorf("networks.%s.chain-id duplicates networks.%s", name, other))
		}
		seen[network.ChainID] = name

		for field, value := range map[string]string{
			"watcher-address":  network.WatcherAddress,
			"executor-address": network.ExecutorAddress,
			"oracle-address":   network.OracleAddress,
		} {
			if value != "" && !common.IsHexAddress(value) {
				errs = append(errs, fmt.Errorf("networks.%s.%s is not a valid address", name, field))
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %w", errors.Join(errs...))
	}

	return nil
}

// ValidateDeploy checks the settings needed by the deployment sequencer.
func (c Config) ValidateDeploy() error {
	var errs []error
	if err := c.Validate(); err != nil {
		errs = append(errs, err)
	}

	for _, signer := range []SignerName{SignerSocketOwner, SignerCounterOwner} {
		if c.Signers[signer] == "" {
			errs = append(errs, fmt.Errorf("signers.%s is required", signer))
		}
	}
	if c.ArtifactsPath == "" {
		errs = append(errs, errors.New("artifacts-path is required"))
	}

	seen := make(map[uint64]struct{}, len(c.Destinations))
	for _, destination := range c.Destinations {
		if _, ok := seen[destination]; ok {
			errs = append(errs, fmt.Errorf("destinations contains %d more than once", destination))
		}
		seen[destination] = struct{}{}
	}

	return errors.Join(errs...)
}

// ValidateSwitchboard checks the settings needed to deploy and configure switchboards.
func (c Config) ValidateSwitchboard() error {
	var errs []error
	if err := c.Validate(); err != nil {
		errs = append(errs, err)
	}

	if c.Signers[SignerSocketOwner] == "" {
		errs = append(errs, fmt.Errorf("signers.%s is required", SignerSocketOwner))
	}
	if c.ArtifactsPath == "" {
		errs = append(errs, errors.New("artifacts-path is required"))
	}
	for _, remote := range c.Remotes {
		if _, ok := c.Networks[remote]; !ok {
			errs = append(errs, fmt.Errorf("remotes: networks.%s is not configured", remote))
		}
	}

	return errors.Join(errs...)
}

type contextKey struct{}

// WithContext attaches the loaded configuration to ctx.
func WithContext(ctx context.Context, cfg Config) context.Context {
	return context.WithValue(ctx, contextKey{}, cfg)
}

// FromContext returns the configuration stored by WithContext.
func FromContext(ctx context.Context) (Config, bool) {
	cfg, ok := ctx.Value(contextKey{}).(Config)
	return cfg, ok
}
