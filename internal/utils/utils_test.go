package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidInput(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"Haus", true},
		{"Straße", true},
		{"rock-'n'-roll", true},
		{"  Blume ", true},
		{"", false},
		{"   ", false},
		{"1234", false},
		{"wo?rd", false},
		{"<script>", false},
		{"aaaa", false},
		{"ßßß", false},
		{"aa", true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidInput(tt.input))
		})
	}
}

func TestCapitals(t *testing.T) {
	assert.Nil(t, CapitalPattern("haus"))
	pattern := CapitalPattern("ÄrZ")
	assert.Equal(t, []bool{true, false, true}, pattern)
	assert.Equal(t, "ÄrZte", ApplyCapitals("ärzte", pattern))
	assert.Equal(t, "Ä", ApplyCapitals("ä", pattern))
	assert.Equal(t, "ar", ApplyCapitals("ar", []bool{false, false, true}))
	assert.Equal(t, "haus", ApplyCapitals("haus", nil))
}

func TestRankList(t *testing.T) {
	assert.Equal(t, []uint16{1, 2, 3}, RankList(3))
	assert.Empty(t, RankList(0))
	assert.Equal(t, uint16(65535), RankList(70000)[69999])
}

func TestExtractors(t *testing.T) {
	data := map[string]any{
		"server": map[string]any{
			"max_limit": int64(50),
			"debug":     true,
			"name":      "rhymes",
			"sources":   []any{"de", "en"},
			"mixed":     []any{"de", int64(1)},
		},
	}
	section, ok := ExtractSection(data, "server")
	require.True(t, ok)

	n, ok := ExtractInt64(section, "max_limit")
	assert.True(t, ok)
	assert.Equal(t, 50, n)

	_, ok = ExtractInt64(section, "name")
	assert.False(t, ok)

	b, ok := ExtractBool(section, "debug")
	assert.True(t, ok)
	assert.True(t, b)

	s, ok := ExtractString(section, "name")
	assert.True(t, ok)
	assert.Equal(t, "rhymes", s)

	list, ok := ExtractStrings(section, "sources")
	assert.True(t, ok)
	assert.Equal(t, []string{"de", "en"}, list)

	_, ok = ExtractStrings(section, "mixed")
	assert.False(t, ok)

	_, ok = ExtractSection(data, "missing")
	assert.False(t, ok)
}

func TestSaveTOMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.toml")
	require.NoError(t, SaveTOMLFile(struct {
		Name string `toml:"name"`
	}{"rhymes"}, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `name = "rhymes"`)

	parsed, err := ParseTOMLWithRecovery(path)
	require.NoError(t, err)
	assert.Equal(t, "rhymes", parsed["name"])
}

func TestCheckDirStatus(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	res := CheckDirStatus(dir)
	require.NoError(t, res.Error)
	assert.True(t, res.Exists)
	assert.True(t, res.Writable)
	assert.True(t, FileExists(dir))
}

func TestDataDirDetection(t *testing.T) {
	pr := &PathResolver{executableDir: t.TempDir(), configDir: t.TempDir()}

	data := t.TempDir()
	assert.False(t, pr.isValidDataDir(data))

	require.NoError(t, os.WriteFile(filepath.Join(data, "notes.md"), []byte("x"), 0o644))
	assert.False(t, pr.isValidDataDir(data))

	require.NoError(t, os.WriteFile(filepath.Join(data, "de.TSV"), []byte("Haus\thaʊs\n"), 0o644))
	assert.True(t, pr.isValidDataDir(data))

	got, err := pr.GetDataDir(data)
	require.NoError(t, err)
	assert.Equal(t, data, got)
}
