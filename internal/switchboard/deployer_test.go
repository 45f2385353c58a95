package switchboard

import (
	"context"
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/socket-network/socket-deployer/configs"
	"github.com/socket-network/socket-deployer/internal/addressbook"
	"github.com/socket-network/socket-deployer/internal/chain"
	"github.com/socket-network/socket-deployer/internal/contracts"
)

const oracle = "0x90F79bf6EB2c4f870365E785982E1f101E93b906"

type fakeDeployer struct {
	chainID  uint64
	err      error
	contract contracts.Name
	args     []any
}

func (f *fakeDeployer) ChainID(context.Context) (uint64, error) {
	return f.chainID, nil
}

func (f *fakeDeployer) Deploy(_ context.Context, _ *chain.Signer, contract contracts.Name, args ...any) (common.Address, error) {
	if f.err != nil {
		return common.Address{}, f.err
	}
	f.contract = contract
	f.args = args
	return switchboardAddress, nil
}

func deployerNetworks() configs.Networks {
	return configs.Networks{
		"hardhat":   {ChainID: 31337, Timeout: 7200, OracleAddress: oracle},
		"no-oracle": {ChainID: 5, Timeout: 7200},
	}
}

func newTestStore(t *testing.T) *addressbook.Store {
	t.Helper()

	store, err := addressbook.NewStore(t.TempDir(), addressbook.SwitchboardFile, configs.OutputFormatJSON)
	require.NoError(t, err)
	return store
}

func TestDeployerDeploy(t *testing.T) {
	client := &fakeDeployer{chainID: 31337}
	store := newTestStore(t)
	signer := testSigner(t)

	address, err := NewDeployer(client, store, deployerNetworks()).Deploy(context.Background(), signer, "hardhat")
	require.NoError(t, err)

	assert.Equal(t, switchboardAddress, address)
	assert.Equal(t, contracts.NameOptimisticSwitchboard, client.contract)
	assert.Equal(t, []any{signer.Address, common.HexToAddress(oracle), uint64(7200)}, client.args)

	book, err := store.Load(31337)
	require.NoError(t, err)
	recorded, err := book.Get(RoleOptimistic)
	require.NoError(t, err)
	assert.Equal(t, switchboardAddress, recorded)
	assert.Equal(t, 1, book.Len())
}

func TestDeployerDeployFailures(t *testing.T) {
	deployErr := errors.New("reverted")

	tests := []struct {
		name    string
		client  *fakeDeployer
		network configs.NetworkName
		wantErr error
	}{
		{name: "unknown network", client: &fakeDeployer{chainID: 31337}, network: "unknown", wantErr: configs.ErrUnknownNetwork},
		{name: "oracle missing", client: &fakeDeployer{chainID: 5}, network: "no-oracle"},
		{name: "chain mismatch", client: &fakeDeployer{chainID: 1}, network: "hardhat"},
		{name: "deploy fails", client: &fakeDeployer{chainID: 31337, err: deployErr}, network: "hardhat", wantErr: deployErr},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newTestStore(t)

			_, err := NewDeployer(tt.client, store, deployerNetworks()).Deploy(context.Background(), testSigner(t), tt.network)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}

			_, err = store.Load(tt.client.chainID)
			assert.ErrorIs(t, err, addressbook.ErrNotFound)
		})
	}
}

func TestResolveAddress(t *testing.T) {
	dir := t.TempDir()
	cfg := configs.Config{Output: configs.Output{Dir: dir, Format: configs.OutputFormatYAML}}

	address, err := resolveAddress(cfg, 31337, switchboardAddress.Hex())
	require.NoError(t, err)
	assert.Equal(t, switchboardAddress, address)

	_, err = resolveAddress(cfg, 31337, "not-an-address")
	require.Error(t, err)

	_, err = resolveAddress(cfg, 31337, "")
	require.ErrorIs(t, err, addressbook.ErrNotFound)

	store, err := addressbook.NewStore(dir, addressbook.SwitchboardFile, configs.OutputFormatYAML)
	require.NoError(t, err)
	book := addressbook.New()
	require.NoError(t, book.Set(RoleOptimistic, switchboardAddress))
	require.NoError(t, store.Save(31337, book))

	address, err = resolveAddress(cfg, 31337, "")
	require.NoError(t, err)
	assert.Equal(t, switchboardAddress, address)
}
