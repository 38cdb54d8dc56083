package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	log.SetLevel(log.ErrorLevel)
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "tst", cfg.Dict.Backend)
	assert.Equal(t, 3, cfg.CLI.DefaultLimit)
}

func TestInitConfigCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg, err := InitConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	require.FileExists(t, path)

	reloaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, reloaded)
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
[dict]
backend = "patricia"
data_path = "/srv/corpus"

[server]
max_limit = 10
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "patricia", cfg.Dict.Backend)
	assert.Equal(t, "/srv/corpus", cfg.Dict.DataPath)
	assert.Equal(t, 10, cfg.Server.MaxLimit)
	assert.Equal(t, DefaultConfig().Server.MaxPrefix, cfg.Server.MaxPrefix, "unset keys keep defaults")
}

func TestLoadConfigPartialRecovery(t *testing.T) {
	path := writeConfig(t, `
[dict]
backend = "hash"
max_words = "lots"

[cli]
color = false
default_limit = 5
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "hash", cfg.Dict.Backend)
	assert.Equal(t, DefaultConfig().Dict.MaxWords, cfg.Dict.MaxWords, "mistyped key falls back")
	assert.False(t, cfg.CLI.Color)
	assert.Equal(t, 5, cfg.CLI.DefaultLimit)
}

func TestLoadConfigSyntaxError(t *testing.T) {
	path := writeConfig(t, "[dict\nbackend = ")
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		description string
		mutate      func(*Config)
	}{
		{"unknown backend", func(c *Config) { c.Dict.Backend = "btree" }},
		{"negative max words", func(c *Config) { c.Dict.MaxWords = -1 }},
		{"zero max limit", func(c *Config) { c.Server.MaxLimit = 0 }},
		{"max limit beyond rank range", func(c *Config) { c.Server.MaxLimit = 100000 }},
		{"inverted prefix bounds", func(c *Config) { c.Server.MinPrefix, c.Server.MaxPrefix = 5, 2 }},
		{"negative cli limit", func(c *Config) { c.CLI.DefaultLimit = -3 }},
	}
	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}

	path := writeConfig(t, "[dict]\nbackend = \"btree\"\n")
	_, err := LoadConfig(path)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestUpdate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg := DefaultConfig()

	backend := "list"
	maxWords := 500
	require.NoError(t, cfg.Update(path, &backend, nil, &maxWords))

	reloaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "list", reloaded.Dict.Backend)
	assert.Equal(t, 500, reloaded.Dict.MaxWords)
	assert.Equal(t, "data", reloaded.Dict.DataPath)

	bad := "btree"
	assert.ErrorIs(t, cfg.Update(path, &bad, nil, nil), ErrInvalidConfig)
	assert.Equal(t, "list", cfg.Dict.Backend, "rejected update leaves config as is")
}

func TestLoadConfigWithPriorityCustomPath(t *testing.T) {
	path := writeConfig(t, "[dict]\nbackend = \"hash\"\n")
	cfg, used, err := LoadConfigWithPriority(path)
	require.NoError(t, err)
	assert.Equal(t, path, used)
	assert.Equal(t, "hash", cfg.Dict.Backend)

	_, _, err = LoadConfigWithPriority(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestApply(t *testing.T) {
	cfg := DefaultConfig()
	data := ""
	require.NoError(t, cfg.Apply(nil, &data, nil))
	assert.Empty(t, cfg.Dict.DataPath)

	negative := -1
	assert.ErrorIs(t, cfg.Apply(nil, nil, &negative), ErrInvalidConfig)
	assert.Zero(t, cfg.Dict.MaxWords)
}
