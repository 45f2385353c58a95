package addressbook

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strconv"

	"github.com/socket-network/socket-deployer/internal/infra/filesystem"
	"github.com/socket-network/socket-deployer/internal/logger"
)

const (
	AddressesFile   = "addresses"
	SwitchboardFile = "switchboards"
)

// document is the persisted layout: source chain id → role → address.
type document map[string]map[string]string

// Store persists complete books keyed by source chain id. Books of other
// chains already in the file are preserved.
type Store struct {
	path   string
	codec  filesystem.ReadWriter
	logger *slog.Logger
}

// NewStore creates a store backed by <dir>/<name>.<format>.
func NewStore(dir, name, format string) (*Store, error) {
	path := filepath.Join(dir, name+"."+format)
	codec, err := filesystem.ForPath(path)
	if err != nil {
		return nil, err
	}

	return &Store{
		path:   path,
		codec:  codec,
		logger: logger.Named("address_store"),
	}, nil
}

func (s *Store) Path() string {
	return s.path
}

// Save writes book under chainID.
func (s *Store) Save(chainID uint64, book *Book) error {
	doc, err := s.read()
	if err != nil {
		return err
	}

	doc[strconv.FormatUint(chainID, 10)] = book.Map()

	if err := s.codec.Write(s.path, doc); err != nil {
		return fmt.Errorf("failed to write %s: %w", s.path, err)
	}

	s.logger.With("path", s.path, "chain_id", chainID, "entries", book.Len()).Info("address book stored")

	return nil
}

// Load reads the book stored for chainID.
func (s *Store) Load(chainID uint64) (*Book, error) {
	doc, err := s.read()
	if err != nil {
		return nil, err
	}

	entries, ok := doc[strconv.FormatUint(chainID, 10)]
	if !ok {
		return nil, fmt.Errorf("%w: no addresses for chain %d in %s", ErrNotFound, chainID, s.path)
	}

	return FromMap(entries)
}

func (s *Store) read() (document, error) {
	doc := make(document)
	if err := s.codec.Read(s.path, &doc); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return make(document), nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", s.path, err)
	}
	if doc == nil {
		doc = make(document)
	}
	return doc, nil
}
