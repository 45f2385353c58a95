package contracts

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

var ErrUnknownContract = errors.New("unknown contract")

type (
	Name string

	Artifact struct {
		Name     Name
		ABI      abi.ABI
		RawABI   string
		Bytecode []byte
	}

	Artifacts map[Name]Artifact
)

const (
	NameSignatureVerifier     Name = "SignatureVerifier"
	NameNotary                Name = "Notary"
	NameHasher                Name = "Hasher"
	NameVault                 Name = "Vault"
	NameSocket                Name = "Socket"
	NameVerifier              Name = "Verifier"
	NameCounter               Name = "Counter"
	NameAccumulator           Name = "SingleAccum"
	NameDeaccumulator         Name = "SingleDeaccum"
	NameOptimisticSwitchboard Name = "OptimisticSwitchboard"
)

// Known lists every contract the deployer works with.
var Known = []Name{
	NameSignatureVerifier,
	NameNotary,
	NameHasher,
	NameVault,
	NameSocket,
	NameVerifier,
	NameCounter,
	NameAccumulator,
	NameDeaccumulator,
	NameOptimisticSwitchboard,
}

func isKnown(name Name) bool {
	for _, known := range Known {
		if known == name {
			return true
		}
	}
	return false
}

func (a Artifacts) Get(name Name) (Artifact, error) {
	artifact, ok := a[name]
	if !ok {
		return Artifact{}, fmt.Errorf("%w: %s", ErrUnknownContract, name)
	}
	return artifact, nil
}

// Require fails unless every named artifact is present.
func (a Artifacts) Require(names ...Name) error {
	var errs []error
	for _, name := range names {
		if _, ok := a[name]; !ok {
			errs = append(errs, fmt.Errorf("%w: %s", ErrUnknownContract, name))
		}
	}
	return errors.Join(errs...)
}
