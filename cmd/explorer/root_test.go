package main

import (
	"bytes"
	"testing"

	explorer "github.com/ewallt/ai-subject-explorer"
	"github.com/ewallt/ai-subject-explorer/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"version"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "explorer version "+explorer.Version+"\n", out.String())
}

func TestLoadConfig_ServeFlags(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, serveCmd.Flags().Parse([]string{
		"--port", "9090",
		"--store", "file",
		"--data-dir", dir,
		"--watch",
	}))

	cfg, err := loadConfig(serveCmd)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, config.StoreFile, cfg.Server.Store)
	assert.Equal(t, dir, cfg.Server.DataDir)
	assert.True(t, cfg.Server.Watch)
	assert.Equal(t, config.ModeMock, cfg.Service.Mode)
}
