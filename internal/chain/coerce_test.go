package chain

import (
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const switchboardABI = `[
	{"type":"function","name":"setExecutionOverhead","inputs":[{"name":"dstChainSlug","type":"uint256"},{"name":"overhead","type":"uint256"}],"outputs":[],"stateMutability":"nonpayable"},
	{"type":"function","name":"hasRole","inputs":[{"name":"role","type":"bytes32"},{"name":"account","type":"address"}],"outputs":[{"name":"","type":"bool"}],"stateMutability":"view"},
	{"type":"function","name":"grantWatcherRole","inputs":[{"name":"srcChainSlug","type":"uint32"},{"name":"watcher","type":"address"}],"outputs":[],"stateMutability":"nonpayable"},
	{"type":"function","name":"setLimit","inputs":[{"name":"limit","type":"uint8"},{"name":"delta","type":"int64"}],"outputs":[],"stateMutability":"nonpayable"}
]`

func parseABI(t *testing.T) abi.ABI {
	t.Helper()
	parsed, err := abi.JSON(strings.NewReader(switchboardABI))
	require.NoError(t, err)
	return parsed
}

func TestCoerceArgs(t *testing.T) {
	parsed := parseABI(t)
	watcher := common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")

	args, err := coerceArgs(parsed.Methods["setExecutionOverhead"].Inputs, []any{uint64(97), uint64(300000)})
	require.NoError(t, err)
	assert.Equal(t, []any{big.NewInt(97), big.NewInt(300000)}, args)

	args, err = coerceArgs(parsed.Methods["grantWatcherRole"].Inputs, []any{uint64(80001), watcher.Hex()})
	require.NoError(t, err)
	assert.Equal(t, []any{uint32(80001), watcher}, args)

	role := common.BigToHash(big.NewInt(97))
	args, err = coerceArgs(parsed.Methods["hasRole"].Inputs, []any{role, watcher})
	require.NoError(t, err)
	assert.Equal(t, [32]byte(role), args[0])

	args, err = coerceArgs(parsed.Methods["setLimit"].Inputs, []any{7, int64(-3)})
	require.NoError(t, err)
	assert.Equal(t, []any{uint8(7), int64(-3)}, args)

	packed, err := coerceArgs(parsed.Methods["grantWatcherRole"].Inputs, []any{uint64(80001), watcher})
	require.NoError(t, err)
	_, err = parsed.Methods["grantWatcherRole"].Inputs.Pack(packed...)
	assert.NoError(t, err)
}

func TestCoerceArgs_Errors(t *testing.T) {
	parsed := parseABI(t)

	tests := []struct {
		name    string
		method  string
		args    []any
		wantErr string
	}{
		{"wrong arity", "setExecutionOverhead", []any{uint64(1)}, "expected 2 arguments, got 1"},
		{"uint32 overflow", "grantWatcherRole", []any{uint64(1) << 40, common.Address{}}, "overflows uint32"},
		{"negative uint", "setExecutionOverhead", []any{-1, uint64(1)}, "negative value"},
		{"not an integer", "setExecutionOverhead", []any{"97", uint64(1)}, "cannot use string as an integer"},
		{"bad address", "grantWatcherRole", []any{uint64(1), "0xnope"}, "is not a valid address"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := coerceArgs(parsed.Methods[tc.method].Inputs, tc.args)
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}
