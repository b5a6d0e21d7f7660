package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_ConfigFlag(t *testing.T) {
	flag := rootCmd.Flags().Lookup("config")
	require.NotNil(t, flag)
	assert.Equal(t, "config.yml", flag.DefValue)
	assert.Equal(t, "c", flag.Shorthand)
}

func TestRun_ReportsConfigErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("database:\n  driver: mysql\n"), 0o600))

	rootCmd.SetArgs([]string{"--config", path})
	err := rootCmd.ExecuteContext(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database driver")
}
