package contracts

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// LoadFile loads compiled contracts written by the Compiler.
func LoadFile(path string) (Artifacts, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read compiled contracts: %w", err)
	}

	return parseContracts(data)
}

// parseContracts parses {name: {abi, bytecode}} JSON. Contracts the
// deployer does not know about are skipped.
func parseContracts(data []byte) (Artifacts, error) {
	var result map[string]struct {
		ABI      json.RawMessage `json:"abi"`
		Bytecode string          `json:"bytecode"`
	}

	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to parse compiled contracts: %w", err)
	}

	loaded := make(Artifacts)

	for name, contract := range result {
		if !isKnown(Name(name)) {
			continue
		}

		parsedABI, err := abi.JSON(strings.NewReader(string(contract.ABI)))
		if err != nil {
			return nil, fmt.Errorf("failed to parse ABI for %s: %w", name, err)
		}

		bytecode := common.FromHex(strings.TrimSpace(contract.Bytecode))
		if len(bytecode) == 0 {
			return nil, fmt.Errorf("empty bytecode for %s", name)
		}

		loaded[Name(name)] = Artifact{
			Name:     Name(name),
			ABI:      parsedABI,
			RawABI:   string(contract.ABI),
			Bytecode: bytecode,
		}
	}

	return loaded, nil
}
