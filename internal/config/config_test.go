package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadOrCreateWritesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", DefaultConfigFileName)

	cfg, err := LoadOrCreate(path)
	require.NoError(t, err)
	assert.FileExists(t, path)
	assert.Equal(t, filepath.Join(dir, "nested", DefaultDBName), cfg.DBPath)
	assert.Equal(t, 300*time.Millisecond, cfg.Display.SearchDebounce.Duration)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "300ms")

	again, err := LoadOrCreate(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, again)
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultConfigFileName)
	body := `
db_path = "/var/lib/dreams.db"

[display]
page_size = 25
delete_timeout = "3s"

[keys]
quit = "x"
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := LoadOrCreate(path)
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/dreams.db", cfg.DBPath)
	assert.Equal(t, filepath.Join(dir, DefaultStoreDir), cfg.StoreDir)
	assert.Equal(t, 25, cfg.Display.PageSize)
	assert.Equal(t, 3*time.Second, cfg.Display.DeleteTimeout.Duration)
	assert.Equal(t, 150*time.Millisecond, cfg.Display.FilterDebounce.Duration)
	assert.Equal(t, "x", cfg.Keys.Quit)
	assert.Equal(t, "j", cfg.Keys.Down)
}

func TestLoadRejectsBadDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte("[display]\nsearch_debounce = \"soon\"\n"), 0o644))

	_, err := LoadOrCreate(path)
	require.Error(t, err)
}

func TestResolveConfigPath(t *testing.T) {
	homedir.DisableCache = true
	t.Cleanup(func() { homedir.DisableCache = false })
	home := t.TempDir()
	t.Setenv("HOME", home)

	t.Setenv(EnvConfigPath, "~/custom.toml")
	assert.Equal(t, filepath.Join(home, "custom.toml"), ResolveConfigPath())

	t.Setenv(EnvConfigPath, "")
	assert.Equal(t, filepath.Join(home, ".config", "dreamlog", DefaultConfigFileName), ResolveConfigPath())
}

func TestOverlayEnvAndFlags(t *testing.T) {
	t.Setenv("DREAMLOG_SERVER_ADDR", ":9999")
	t.Setenv("DREAMLOG_DISPLAY_PAGE_SIZE", "42")

	v := NewViper()
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("db", "", "")
	flags.String("store-dir", "", "")
	require.NoError(t, v.BindPFlag(KeyDBPath, flags.Lookup("db")))
	require.NoError(t, v.BindPFlag(KeyStoreDir, flags.Lookup("store-dir")))
	require.NoError(t, flags.Parse([]string{"--db", "/data/other.db"}))

	cfg := Overlay(Default(), v)
	assert.Equal(t, "/data/other.db", cfg.DBPath)
	assert.Equal(t, DefaultStoreDir, cfg.StoreDir, "unchanged flag leaves the file value")
	assert.Equal(t, ":9999", cfg.Server.Addr)
	assert.Equal(t, 42, cfg.Display.PageSize)
}
