package configutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	DataDir     string `json:"data_dir"`
	Concurrency int    `json:"concurrency"`
}

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
}

func TestRead(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "demnow.json5")
	writeFile(t, path, `{data_dir: "data/us/federal/house", concurrency: 4}`)

	config, err := Read[testConfig](path)
	require.NoError(t, err)
	require.Equal(t, testConfig{DataDir: "data/us/federal/house", Concurrency: 4}, config)
}

func TestReadLocalOverride(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "demnow.json5"), `{data_dir: "data", concurrency: 4}`)
	writeFile(t, filepath.Join(dir, "demnow.local.json5"), `{data_dir: "/tmp/scratch"}`)

	config, err := Read[testConfig](filepath.Join(dir, "demnow.json5"))
	require.NoError(t, err)
	require.Equal(t, "/tmp/scratch", config.DataDir)
	require.Equal(t, 4, config.Concurrency)
}

func TestReadMissing(t *testing.T) {
	_, err := Read[testConfig](filepath.Join(t.TempDir(), "demnow.json5"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
