package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetValue_PreservesComments(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	content := `# my settings
version: 1
# tuned for a big server
parse_workers: 4
thresholds:
  memory:
    warning: 70 # keep low
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	require.NoError(t, SetValue(path, "thresholds.memory.warning", "65"))
	require.NoError(t, SetValue(path, "parse_workers", "12"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	s := string(data)
	assert.Contains(t, s, "# my settings")
	assert.Contains(t, s, "# tuned for a big server")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 65.0, cfg.Thresholds.Memory.Warning)
	assert.Equal(t, 12, cfg.ParseWorkers)
}

func TestSetValue_CreatesMissingMappings(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte("version: 1\n"), 0644))

	require.NoError(t, SetValue(path, "thresholds.cache_free.good", "75"))
	require.NoError(t, SetValue(path, "output.format", "yaml"))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 75.0, cfg.Thresholds.CacheFree.Good)
	assert.Equal(t, "yaml", cfg.Output.Format)
}

func TestSetValue_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)

	require.NoError(t, SetValue(path, "process_marker", "zabbix_proxy"))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "zabbix_proxy", cfg.ProcessMarker)
}

func TestSetValue_Errors(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)

	err := SetValue(path, "hosts.mini", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown config key")

	require.NoError(t, os.WriteFile(path, []byte("thresholds: 5\n"), 0644))
	err = SetValue(path, "thresholds.memory.warning", "60")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a mapping")
}
