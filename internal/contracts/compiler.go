package contracts

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"

	fsjson "github.com/socket-network/socket-deployer/internal/infra/filesystem/json"
	"github.com/socket-network/socket-deployer/internal/logger"
)

type (
	// Runner executes forge with args inside the contracts project and
	// returns its stdout.
	Runner interface {
		Forge(ctx context.Context, args ...string) ([]byte, error)
	}

	// Compiler compiles the Solidity contracts into an artifacts file.
	Compiler struct {
		runner     Runner
		outputPath string
		logger     *slog.Logger
	}
)

func NewCompiler(runner Runner, outputPath string) *Compiler {
	return &Compiler{
		runner:     runner,
		outputPath: outputPath,
		logger:     logger.Named("contracts_compiler"),
	}
}

// Compile compiles the named contracts and persists their ABI and bytecode.
func (c *Compiler) Compile(ctx context.Context, names []Name) error {
	c.logger.With("output", c.outputPath).Info("starting contract compilation")

	c.logger.Info("building forge project")
	if _, err := c.runner.Forge(ctx, "build"); err != nil {
		return fmt.Errorf("forge build failed: %w", err)
	}

	jsonContracts := make(map[string]map[string]any, len(names))
	for _, name := range names {
		c.logger.With("contract", name).Info("inspecting contract")

		abiJSON, bytecodeHex, err := c.compileContractRaw(ctx, name)
		if err != nil {
			return fmt.Errorf("failed to compile %s: %w", name, err)
		}

		jsonContracts[string(name)] = map[string]any{
			"abi":      json.RawMessage(abiJSON),
			"bytecode": bytecodeHex,
		}
	}

	if err := fsjson.New().Write(c.outputPath, jsonContracts); err != nil {
		return fmt.Errorf("failed to write %s: %w", c.outputPath, err)
	}

	c.logger.With("contracts", len(jsonContracts)).Info("contracts compiled successfully")

	return nil
}

// compileContractRaw returns the raw JSON ABI and 0x-prefixed bytecode of a contract.
func (c *Compiler) compileContractRaw(ctx context.Context, name Name) ([]byte, string, error) {
	abiOutput, err := c.runner.Forge(ctx, "inspect", string(name), "abi", "--json")
	if err != nil {
		return nil, "", fmt.Errorf("failed to get ABI: %w", err)
	}

	if _, err := abi.JSON(strings.NewReader(string(abiOutput))); err != nil {
		return nil, "", fmt.Errorf("failed to parse ABI: %w", err)
	}

	bytecodeOutput, err := c.runner.Forge(ctx, "inspect", string(name), "bytecode")
	if err != nil {
		return nil, "", fmt.Errorf("failed to get bytecode: %w", err)
	}

	bytecode := strings.TrimSpace(string(bytecodeOutput))
	if bytecode == "" || bytecode == "0x" {
		return nil, "", fmt.Errorf("empty bytecode")
	}
	if !strings.HasPrefix(bytecode, "0x") {
		bytecode = "0x" + bytecode
	}

	return abiOutput, bytecode, nil
}
