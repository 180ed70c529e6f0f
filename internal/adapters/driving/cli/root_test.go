package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_HasSubcommands(t *testing.T) {
	names := make([]string, 0)
	for _, cmd := range rootCmd.Commands() {
		names = append(names, cmd.Name())
	}

	assert.Contains(t, names, "status")
	assert.Contains(t, names, "auth")
	assert.Contains(t, names, "fetch")
	assert.Contains(t, names, "config")
	assert.Contains(t, names, "version")
}

func TestRootCmd_PersistentFlags(t *testing.T) {
	for _, name := range []string{"config", "env-file", "metrics-file", "verbose"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(name), name)
	}
}

func TestCurrentSettings_FromEnvironment(t *testing.T) {
	t.Setenv("MEMORYBOX_CONFIG", "/etc/memorybox/config.json")
	t.Setenv("MEMORYBOX_METRICS_FILE", "/tmp/memorybox.prom")
	t.Setenv("MEMORYBOX_VERBOSE", "true")

	s := currentSettings()
	assert.Equal(t, "/etc/memorybox/config.json", s.ConfigPath)
	assert.Equal(t, "/tmp/memorybox.prom", s.MetricsFile)
	assert.True(t, s.Verbose)
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(path, []byte("MEMORYBOX_TEST_TOKEN=from-file\nMEMORYBOX_TEST_KEEP=from-file\n"), 0o600))

	t.Setenv("MEMORYBOX_TEST_KEEP", "from-env")
	t.Setenv("MEMORYBOX_TEST_TOKEN", "")
	require.NoError(t, os.Unsetenv("MEMORYBOX_TEST_TOKEN"))

	require.NoError(t, loadEnvFile(path))
	assert.Equal(t, "from-file", os.Getenv("MEMORYBOX_TEST_TOKEN"))
	assert.Equal(t, "from-env", os.Getenv("MEMORYBOX_TEST_KEEP"), "existing variables win")
}

func TestLoadEnvFile_Missing(t *testing.T) {
	assert.Error(t, loadEnvFile(filepath.Join(t.TempDir(), "missing.env")))

	t.Chdir(t.TempDir())
	assert.NoError(t, loadEnvFile(""), "a missing default .env is ignored")
}

func TestSetup_BuildsServices(t *testing.T) {
	_, _, cleanup := setupTestServices()
	defer cleanup()
	defer func() {
		f := rootCmd.PersistentFlags().Lookup("config")
		_ = f.Value.Set("")
		f.Changed = false
	}()

	built := &mockConnectorService{status: sampleStatus()}
	var got Settings
	buildServices = func(s Settings) (*Services, error) {
		got = s
		return &Services{Connectors: built, Config: &mockConfigService{}}, nil
	}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"status", "--config", "custom.json"})

	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "custom.json", got.ConfigPath)
	assert.Same(t, built, connectorService)
	assert.Contains(t, buf.String(), "Config: memory.json")
}
