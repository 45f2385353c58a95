package chain

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/socket-network/socket-deployer/configs"
)

// Well-known development account #0 of hardhat and anvil.
const devKey = "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"

func TestNewSigner(t *testing.T) {
	signer, err := NewSigner("socket-owner", devKey)
	require.NoError(t, err)

	assert.Equal(t, "socket-owner", signer.Name)
	assert.Equal(t, common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"), signer.Address)
	assert.Equal(t, "socket-owner(0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266)", signer.String())

	withoutPrefix, err := NewSigner("counter-owner", devKey[2:])
	require.NoError(t, err)
	assert.Equal(t, signer.Address, withoutPrefix.Address)
}

func TestNewSigner_InvalidKey(t *testing.T) {
	_, err := NewSigner("socket-owner", "0x1234")
	assert.ErrorContains(t, err, "failed to parse private key of socket-owner")
}

func TestClient_Signer(t *testing.T) {
	signer, err := NewSigner("socket-owner", devKey)
	require.NoError(t, err)

	client := &Client{signers: map[string]*Signer{"socket-owner": signer}}

	got, err := client.Signer("socket-owner")
	require.NoError(t, err)
	assert.Same(t, signer, got)

	_, err = client.Signer("counter-owner")
	assert.ErrorContains(t, err, `unknown signer "counter-owner"`)
}

func TestSignerKeys(t *testing.T) {
	keys := signerKeys(map[configs.SignerName]string{
		configs.SignerSocketOwner:  "0x01",
		configs.SignerCounterOwner: "",
	})

	assert.Equal(t, map[string]string{"socket-owner": "0x01"}, keys)
}
