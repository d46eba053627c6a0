package bootstrap

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadParsesJSONAndNormalizesAddresses(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "replica.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"listen_addr": "localhost",
		"peers": ["localhost:9001", "remote"],
		"workers": 4
	}`), 0o644))

	cfg, err := Load(path, "")
	require.NoError(t, err)
	require.Equal(t, "localhost:7420", cfg.ListenAddr)
	require.Equal(t, []string{"localhost:9001", "remote:7420"}, cfg.Peers)
	require.Equal(t, 4, cfg.Workers)
}

func TestLoadAppliesPropertiesOverride(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "replica.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"listen_addr":"a:9000","peers":[],"workers":2}`), 0o644))

	propsPath := filepath.Join(dir, "replica.properties")
	require.NoError(t, os.WriteFile(propsPath, []byte("workers = 16\nqueue_depth = 512\n"), 0o644))

	cfg, err := Load(jsonPath, propsPath)
	require.NoError(t, err)
	require.Equal(t, 16, cfg.Workers)
	require.Equal(t, 512, cfg.QueueDepth)
}

func TestLoadIgnoresMissingPropertiesFile(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "replica.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"listen_addr":"a:9000","peers":[]}`), 0o644))

	cfg, err := Load(jsonPath, filepath.Join(dir, "missing.properties"))
	require.NoError(t, err)
	require.Equal(t, "a:9000", cfg.ListenAddr)
}

func TestNormalizeAddrDefaultsPort(t *testing.T) {
	require.Equal(t, "host:7420", NormalizeAddr("host"))
	require.Equal(t, "host:9000", NormalizeAddr("host:9000"))
	require.Equal(t, "[::1]:7420", NormalizeAddr("[::1]"))
}
