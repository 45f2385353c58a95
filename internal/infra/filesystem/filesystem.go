package filesystem

import (
	"fmt"
	"path/filepath"
	"strings"

	fsjson "github.com/socket-network/socket-deployer/internal/infra/filesystem/json"
	fsyaml "github.com/socket-network/socket-deployer/internal/infra/filesystem/yaml"
)

type (
	Reader interface {
		Read(path string, target any) error
	}
	Writer interface {
		Write(path string, data any) error
	}
	ReadWriter interface {
		Reader
		Writer
	}
)

// ForPath picks the codec matching the file extension.
func ForPath(path string) (ReadWriter, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return fsjson.New(), nil
	case ".yaml", ".yml":
		return fsyaml.New(), nil
	default:
		return nil, fmt.Errorf("unsupported file extension for %s", path)
	}
}
