// config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testYAML = `
server:
  port: "8080"
database:
  host: "db.internal"
  port: "3306"
  user: "meetsync"
  password: "from-yaml"
  dbname: "meetsync"
root_servers:
  - name: "Seeded Region"
    url: "https://bmlt.example.org/main_server"
discovery:
  list_page_url: "https://aggregator.example.org/rootservers"
sync:
  http_timeout: "90s"
`

func writeTestConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	require.NoError(t, LoadConfig(writeTestConfig(t, testYAML)))

	assert.Equal(t, "8080", AppConfig.Server.Port)
	assert.Equal(t, "db.internal", AppConfig.Database.Host)
	require.Len(t, AppConfig.RootServers, 1)
	assert.Equal(t, "Seeded Region", AppConfig.RootServers[0].Name)
	assert.Equal(t, 90*time.Second, AppConfig.Sync.HTTPTimeout)
	// Selector falls back to its default when the yaml omits it.
	assert.Equal(t, "table.rootservers td a", AppConfig.Discovery.RowSelector)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("DB_PASSWORD", "from-env")
	t.Setenv("DB_HOST", "other.internal")

	require.NoError(t, LoadConfig(writeTestConfig(t, testYAML)))
	assert.Equal(t, "from-env", AppConfig.Database.Password)
	assert.Equal(t, "other.internal", AppConfig.Database.Host)
}

func TestLoadConfigDefaults(t *testing.T) {
	require.NoError(t, LoadConfig(writeTestConfig(t, "server:\n  port: \"8080\"\n")))
	assert.Equal(t, 60*time.Second, AppConfig.Sync.HTTPTimeout)
}

func TestLoadConfigResetsPreviousState(t *testing.T) {
	t.Setenv("DB_PASSWORD", "")

	require.NoError(t, LoadConfig(writeTestConfig(t, testYAML)))
	require.Equal(t, 90*time.Second, AppConfig.Sync.HTTPTimeout)

	// A second load of a sparser file must not keep fields from the first:
	// absent sections fall back to zero values and defaults.
	require.NoError(t, LoadConfig(writeTestConfig(t, "server:\n  port: \"9090\"\n")))
	assert.Equal(t, "9090", AppConfig.Server.Port)
	assert.Equal(t, 60*time.Second, AppConfig.Sync.HTTPTimeout)
	assert.Empty(t, AppConfig.RootServers)
	assert.Empty(t, AppConfig.Discovery.ListPageURL)
	assert.Empty(t, AppConfig.Database.Password)
}

func TestLoadConfigPoolDefaults(t *testing.T) {
	require.NoError(t, LoadConfig(writeTestConfig(t, testYAML)))
	assert.Equal(t, 25, AppConfig.Database.MaxOpenConns)
	assert.Equal(t, 25, AppConfig.Database.MaxIdleConns)
	assert.Equal(t, 5*time.Minute, AppConfig.Database.ConnMaxLifetime)

	require.NoError(t, LoadConfig(writeTestConfig(t, `
database:
  max_open_conns: 10
  max_idle_conns: 5
  conn_max_lifetime: "2m"
`)))
	assert.Equal(t, 10, AppConfig.Database.MaxOpenConns)
	assert.Equal(t, 5, AppConfig.Database.MaxIdleConns)
	assert.Equal(t, 2*time.Minute, AppConfig.Database.ConnMaxLifetime)
}

func TestLoadConfigMissingFile(t *testing.T) {
	assert.Error(t, LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")))
}

func TestLoadConfigBadTimeout(t *testing.T) {
	assert.Error(t, LoadConfig(writeTestConfig(t, "sync:\n  http_timeout: \"soon\"\n")))
}
