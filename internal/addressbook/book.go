// Package addressbook records where each logical contract role was deployed
// on a chain and persists the result.
package addressbook

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

var (
	ErrDuplicate = errors.New("address already recorded")
	ErrNotFound  = errors.New("address not recorded")
)

// Book maps a role name (e.g. "socket" or "fastAccum-97") to the address the
// role was deployed at. Each role is written at most once.
type Book struct {
	order     []string
	addresses map[string]common.Address
}

func New() *Book {
	return &Book{addresses: make(map[string]common.Address)}
}

// Key formats the role name of a per-destination contract.
func Key(role string, destination uint64) string {
	return fmt.Sprintf("%s-%d", role, destination)
}

func (b *Book) Set(role string, address common.Address) error {
	if role == "" {
		return errors.New("role must not be empty")
	}
	if existing, ok := b.addresses[role]; ok {
		return fmt.Errorf("%w: %s is already %s", ErrDuplicate, role, existing.Hex())
	}

	b.order = append(b.order, role)
	b.addresses[role] = address

	return nil
}

func (b *Book) Get(role string) (common.Address, error) {
	address, ok := b.addresses[role]
	if !ok {
		return common.Address{}, fmt.Errorf("%w: %s", ErrNotFound, role)
	}
	return address, nil
}

func (b *Book) Len() int {
	return len(b.order)
}

// Roles returns the roles in the order they were recorded.
func (b *Book) Roles() []string {
	return append([]string(nil), b.order...)
}

// Map returns the book as role → checksummed hex address.
func (b *Book) Map() map[string]string {
	out := make(map[string]string, len(b.addresses))
	for role, address := range b.addresses {
		out[role] = address.Hex()
	}
	return out
}

// FromMap builds a book from persisted role → address pairs.
func FromMap(entries map[string]string) (*Book, error) {
	book := New()
	for role, value := range entries {
		if !common.IsHexAddress(value) {
			return nil, fmt.Errorf("%s: %q is not a valid address", role, value)
		}
		if err := book.Set(role, common.HexToAddress(value)); err != nil {
			return nil, err
		}
	}
	return book, nil
}
