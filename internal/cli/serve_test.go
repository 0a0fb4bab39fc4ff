package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadServeConfig_Defaults(t *testing.T) {
	cfg, err := loadServeConfig(&ServeOptions{RootOptions: &RootOptions{}})
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Empty(t, cfg.DatabasePath)
}

func TestLoadServeConfig_FlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("addr: \":9000\"\ndatabase_path: /tmp/file.db\nlog_level: warn\n"), 0o644))

	cfg, err := loadServeConfig(&ServeOptions{
		RootOptions:  &RootOptions{},
		ConfigPath:   path,
		Addr:         ":7777",
		DatabasePath: "/tmp/override.db",
	})
	require.NoError(t, err)

	assert.Equal(t, ":7777", cfg.Addr)
	assert.Equal(t, "/tmp/override.db", cfg.DatabasePath)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoadServeConfig_MissingFile(t *testing.T) {
	_, err := loadServeConfig(&ServeOptions{
		RootOptions: &RootOptions{},
		ConfigPath:  filepath.Join(t.TempDir(), "none.yaml"),
	})
	require.Error(t, err)
}

func TestServeCommand_BadConfigExitCode(t *testing.T) {
	_, err := executeCommand("serve", "--config", filepath.Join(t.TempDir(), "none.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
