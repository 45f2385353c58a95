package cli

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeclareFlags(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	v := viper.New()

	require.NoError(t, DeclareFlags(fs, v, []FlagDef[string]{
		{"rpc-url", "rpc-url", "", "RPC URL"},
		{"address", "", "", "not bound"},
	}))
	require.NoError(t, DeclareFlags(fs, v, []FlagDef[int]{
		{"port", "devnet.port", 8545, "port"},
	}))
	require.NoError(t, DeclareFlags(fs, v, []FlagDef[bool]{
		{"use-docker", "compiler.use-docker", false, "docker"},
	}))
	require.NoError(t, DeclareFlags(fs, v, []FlagDef[[]int]{
		{"destinations", "destinations", nil, "destinations"},
	}))
	require.NoError(t, DeclareFlags(fs, v, []FlagDef[[]string]{
		{"remotes", "remotes", nil, "remotes"},
	}))

	require.NoError(t, fs.Parse([]string{
		"--rpc-url", "http://localhost:9545",
		"--address", "0x01",
		"--use-docker",
		"--destinations", "97,80001",
		"--remotes", "bsc,polygon-mainnet",
	}))

	assert.Equal(t, "http://localhost:9545", v.GetString("rpc-url"))
	assert.Equal(t, 8545, v.GetInt("devnet.port"))
	assert.True(t, v.GetBool("compiler.use-docker"))
	assert.Equal(t, []int{97, 80001}, v.GetIntSlice("destinations"))
	assert.Equal(t, []string{"bsc", "polygon-mainnet"}, v.GetStringSlice("remotes"))
	assert.False(t, v.IsSet("address"))

	address, err := fs.GetString("address")
	require.NoError(t, err)
	assert.Equal(t, "0x01", address)
}

func TestDeclareFlagsDuplicatePanics(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	v := viper.New()
	flags := []FlagDef[string]{{"network", "network", "", "network"}}

	MustDeclareFlags(fs, v, flags)
	assert.Panics(t, func() { MustDeclareFlags(fs, v, flags) })
}
