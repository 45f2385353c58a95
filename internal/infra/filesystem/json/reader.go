package json

import (
	"encoding/json"
	"fmt"
	"os"
)

// Codec reads and writes JSON files.
type Codec struct{}

func New() *Codec {
	return &Codec{}
}

// Read reads and unmarshals JSON from a file. A missing file surfaces as
// fs.ErrNotExist through the returned error.
func (c *Codec) Read(path string, target any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("failed to unmarshal JSON: %w", err)
	}

	return nil
}
