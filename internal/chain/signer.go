package chain

import (
	"crypto/ecdsa"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Signer is a named account that signs transactions.
type Signer struct {
	Name    string
	Address common.Address
	key     *ecdsa.PrivateKey
}

// NewSigner derives the signer address from a hex private key.
func NewSigner(name, privateKeyHex string) (*Signer, error) {
	privateKey, err := crypto.HexToECDSA(strings.TrimPrefix(privateKeyHex, "0x"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key of %s: %w", name, err)
	}

	publicKey, ok := privateKey.Public().(*ecdsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("failed to cast public key to ECDSA")
	}

	return &Signer{
		Name:    name,
		Address: crypto.PubkeyToAddress(*publicKey),
		key:     privateKey,
	}, nil
}

func (s *Signer) String() string {
	return fmt.Sprintf("%s(%s)", s.Name, s.Address.Hex())
}
