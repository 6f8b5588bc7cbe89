package analysis

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/splitindex/pkg/types"
)

func writeSettings(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "analyzer.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()
	assert.Equal(t, 2, s.Length)
	assert.Equal(t, TokenizerSplit, s.Tokenizer)
	assert.Empty(t, s.Filters)
	assert.NoError(t, s.Validate())
}

func TestLoadSettings(t *testing.T) {
	path := writeSettings(t, `
length: 3
tokenizer: words
filters:
  - split
`)
	s, err := LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, Settings{Length: 3, Tokenizer: TokenizerWords, Filters: []string{FilterSplit}}, s)
}

func TestLoadSettings_MissingKeysKeepDefaults(t *testing.T) {
	s, err := LoadSettings(writeSettings(t, "filters: [split]\n"))
	require.NoError(t, err)
	assert.Equal(t, DefaultSplitLength, s.Length)
	assert.Equal(t, TokenizerSplit, s.Tokenizer)
}

func TestLoadSettings_ExplicitZeroLength(t *testing.T) {
	_, err := LoadSettings(writeSettings(t, "length: 0\n"))
	assert.ErrorIs(t, err, types.ErrInvalidSplitLength)
}

func TestLoadSettings_Errors(t *testing.T) {
	_, err := LoadSettings(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = LoadSettings(writeSettings(t, "length: [1, 2\n"))
	assert.Error(t, err)

	_, err = LoadSettings(writeSettings(t, "tokenizer: whitespace\n"))
	assert.Error(t, err)
}
