package cli

import (
	"bytes"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/memorybox-cli/internal/core/domain"
)

func runVersionCmd(t *testing.T, args ...string) string {
	t.Helper()
	originalVersion := version
	version = "1.2.3"
	t.Cleanup(func() {
		version = originalVersion
		versionShort = false
		versionCmd.Flags().Lookup("short").Changed = false
	})

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(append([]string{"version"}, args...))
	require.NoError(t, rootCmd.Execute())
	return buf.String()
}

func TestVersionCmd_ReportsEnabledConnectors(t *testing.T) {
	cs, _, cleanup := setupTestServices()
	defer cleanup()
	cs.status = sampleStatus()

	out := runVersionCmd(t)

	assert.Contains(t, out, "memorybox 1.2.3 ("+runtime.Version())
	assert.Contains(t, out, "config:     memory.json")
	assert.Contains(t, out, "connectors: slack, github")
}

func TestVersionCmd_NoConnectorsEnabled(t *testing.T) {
	cs, _, cleanup := setupTestServices()
	defer cleanup()
	cs.status = sampleStatus()
	for i := range cs.status.Connectors {
		cs.status.Connectors[i].Enabled = false
	}

	assert.Contains(t, runVersionCmd(t), "connectors: none enabled")
}

func TestVersionCmd_UnreadableConfigIsNotFatal(t *testing.T) {
	cs, _, cleanup := setupTestServices()
	defer cleanup()
	cs.err = domain.NewParseError("config.json", assert.AnError)

	out := runVersionCmd(t)

	assert.Contains(t, out, "memorybox 1.2.3")
	assert.Contains(t, out, "config:     unavailable (config parse error in config.json")
}

func TestVersionCmd_Short(t *testing.T) {
	cs, _, cleanup := setupTestServices()
	defer cleanup()
	cs.status = sampleStatus()

	assert.Equal(t, "1.2.3\n", runVersionCmd(t, "--short"))
}
