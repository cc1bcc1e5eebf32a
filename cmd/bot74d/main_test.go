package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dalnet/bot74/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = `nick: bot74
username: bot
server: irc.example.net
data_dir: data
`

func TestLoadConfigRelativePath(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(testConfig), 0644))
	chdir(t, dir)

	configPath = "config.yaml"
	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "bot74", cfg.Nick)

	configPath = "missing.yaml"
	_, err = loadConfig()
	assert.Error(t, err)
}

func TestAdminAdd(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(testConfig), 0644))
	chdir(t, dir)

	root := rootCmd()
	root.SetArgs([]string{"-c", "config.yaml", "admin", "add", "alice!*@*.example.net"})
	require.NoError(t, root.Execute())

	masks, err := storage.LoadAdmins(filepath.Join(dir, "data"))
	require.NoError(t, err)
	assert.Equal(t, []storage.Mask{{Nick: "alice", User: "*", Host: "*.example.net"}}, masks)

	root = rootCmd()
	root.SetArgs([]string{"-c", "config.yaml", "admin", "add", "not a mask"})
	assert.Error(t, root.Execute())
}

// chdir changes the working directory for the duration of the test,
// equivalent to testing.T.Chdir (Go 1.24+) on older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}
