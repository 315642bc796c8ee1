package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), configFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestInitConfigCreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", configFileName)
	config, err := InitConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), config)
	assert.FileExists(t, path)

	reloaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, config.Server, reloaded.Server)
	assert.Equal(t, config.Index, reloaded.Index)
	assert.Equal(t, config.CLI, reloaded.CLI)
	assert.Equal(t, config.Dict.DataDir, reloaded.Dict.DataDir)
	assert.Empty(t, reloaded.Dict.Sources)
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
[server]
max_limit = 50
default_syllables = 3

[index]
compress = false

[dict]
data_dir = "/srv/rhymes"
sources = ["de", "en"]

[cli]
default_limit = 10
no_filter = true
`)
	config, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 50, config.Server.MaxLimit)
	assert.Equal(t, 3, config.Server.DefaultSyllables)
	assert.Equal(t, 4, config.Server.MaxSyllables)
	assert.False(t, config.Index.Compress)
	assert.True(t, config.Index.Validate)
	assert.Equal(t, "/srv/rhymes", config.Dict.DataDir)
	assert.Equal(t, []string{"de", "en"}, config.Dict.Sources)
	assert.Equal(t, 10, config.CLI.DefaultLimit)
	assert.True(t, config.CLI.NoFilter)
}

func TestLoadConfigPartialRecovery(t *testing.T) {
	// max_limit has the wrong type, so strict decoding fails
	path := writeConfig(t, `
[server]
max_limit = "lots"
max_syllables = 6

[index]
validate = false
`)
	config, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 300, config.Server.MaxLimit)
	assert.Equal(t, 6, config.Server.MaxSyllables)
	assert.False(t, config.Index.Validate)
}

func TestLoadConfigGarbage(t *testing.T) {
	config, err := LoadConfig(writeConfig(t, "this is [not toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), config)
}

func TestSanitize(t *testing.T) {
	path := writeConfig(t, `
[server]
max_limit = 5000
default_syllables = 9
max_syllables = 3
cache_size = -1

[index]
result_cap = 100

[cli]
default_limit = 0
`)
	config, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 100, config.Server.MaxLimit)
	assert.Equal(t, 2, config.Server.DefaultSyllables)
	assert.Equal(t, 0, config.Server.CacheSize)
	assert.Equal(t, 20, config.CLI.DefaultLimit)
	assert.Equal(t, 2, config.CLI.DefaultSyllables)
}

func TestUpdate(t *testing.T) {
	path := filepath.Join(t.TempDir(), configFileName)
	config := DefaultConfig()
	limit, syl := 40, 3
	require.NoError(t, config.Update(path, &limit, &syl, nil, nil))

	reloaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 40, reloaded.Server.MaxLimit)
	assert.Equal(t, 3, reloaded.Server.DefaultSyllables)
	assert.Equal(t, 1024, reloaded.Server.CacheSize)
}

func TestGetActiveConfigPath(t *testing.T) {
	abs := filepath.Join(t.TempDir(), configFileName)
	assert.Equal(t, abs, GetActiveConfigPath(abs))
}
