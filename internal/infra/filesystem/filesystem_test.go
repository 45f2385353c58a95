package filesystem

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForPath(t *testing.T) {
	dir := t.TempDir()

	for _, name := range []string{"addresses.json", "addresses.yaml", "addresses.yml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, "nested", name)
			codec, err := ForPath(path)
			require.NoError(t, err)

			in := map[string]map[string]string{
				"97": {"socket": "0x00000000000000000000000000000000000000aa"},
			}
			require.NoError(t, codec.Write(path, in))

			var out map[string]map[string]string
			require.NoError(t, codec.Read(path, &out))
			assert.Equal(t, in, out)

			entries, err := os.ReadDir(filepath.Dir(path))
			require.NoError(t, err)
			for _, entry := range entries {
				assert.NotContains(t, entry.Name(), ".tmp")
			}
		})
	}

	_, err := ForPath(filepath.Join(dir, "addresses.toml"))
	assert.ErrorContains(t, err, "unsupported file extension")
}

func TestRead_MissingFile(t *testing.T) {
	codec, err := ForPath(filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)

	var out map[string]any
	err = codec.Read(filepath.Join(t.TempDir(), "missing.json"), &out)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}
