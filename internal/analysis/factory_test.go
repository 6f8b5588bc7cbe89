package analysis

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/splitindex/pkg/types"
)

func TestNewAnalyzer(t *testing.T) {
	tests := []struct {
		name     string
		settings Settings
		wantErr  error
		errText  string
	}{
		{name: "defaults", settings: DefaultSettings()},
		{name: "words with split", settings: Settings{Length: 3, Tokenizer: TokenizerWords, Filters: []string{FilterSplit}}},
		{name: "zero length", settings: Settings{Length: 0, Tokenizer: TokenizerSplit}, wantErr: types.ErrInvalidSplitLength},
		{name: "negative length", settings: Settings{Length: -2, Tokenizer: TokenizerSplit}, wantErr: types.ErrInvalidSplitLength},
		{name: "unknown tokenizer", settings: Settings{Length: 2, Tokenizer: "ngram"}, errText: "Tokenizer"},
		{name: "missing tokenizer", settings: Settings{Length: 2}, errText: "Tokenizer"},
		{name: "unknown filter", settings: Settings{Length: 2, Tokenizer: TokenizerSplit, Filters: []string{"lowercase"}}, errText: "Filters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := NewAnalyzer(tt.settings)
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, a)
			case tt.errText != "":
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errText)
				assert.Nil(t, a)
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.settings, a.Settings())
			}
		})
	}
}

func TestAnalyzer_AnalyzeString(t *testing.T) {
	a, err := NewAnalyzer(DefaultSettings())
	require.NoError(t, err)

	tokens, err := a.AnalyzeString("hello")
	require.NoError(t, err)
	assert.Equal(t, []string{"he", "ll", "o"}, texts(tokens))
}

func TestAnalyzer_WordsThenSplit(t *testing.T) {
	a, err := NewAnalyzer(Settings{Length: 2, Tokenizer: TokenizerWords, Filters: []string{FilterSplit}})
	require.NoError(t, err)

	tokens, err := a.AnalyzeString("abc de")
	require.NoError(t, err)
	assert.Equal(t, []types.Token{
		{Text: "ab", Start: 0, End: 2},
		{Text: "c", Start: 2, End: 3},
		{Text: "de", Start: 4, End: 6},
	}, tokens)
}

func TestAnalyzer_StackedSplitFilters(t *testing.T) {
	a, err := NewAnalyzer(Settings{Length: 3, Tokenizer: TokenizerSplit, Filters: []string{FilterSplit, FilterSplit}})
	require.NoError(t, err)

	// re-splitting at the same length is a no-op
	tokens, err := a.AnalyzeString("abcdefg")
	require.NoError(t, err)
	assert.Equal(t, []string{"abc", "def", "g"}, texts(tokens))
}

func TestAnalyzer_Analyze_WithCorrector(t *testing.T) {
	a, err := NewAnalyzer(DefaultSettings())
	require.NoError(t, err)

	text := "中文ab"
	stream, err := a.Analyze(strings.NewReader(text), WithOffsetCorrector(ByteOffsets(text)))
	require.NoError(t, err)

	tokens, err := types.Collect(stream)
	require.NoError(t, err)
	assert.Equal(t, []types.Token{
		{Text: "中文", Start: 0, End: 6},
		{Text: "ab", Start: 6, End: 8},
	}, tokens)
}

func TestAnalyzer_AnalyzeAll(t *testing.T) {
	t.Run("split tokenizer reports its end", func(t *testing.T) {
		a, err := NewAnalyzer(DefaultSettings())
		require.NoError(t, err)

		tokens, end, err := a.AnalyzeAll(strings.NewReader("hello"))
		require.NoError(t, err)
		assert.Len(t, tokens, 3)
		assert.Equal(t, 5, end)
	})

	t.Run("filter chain reports tokenizer end", func(t *testing.T) {
		a, err := NewAnalyzer(Settings{Length: 2, Tokenizer: TokenizerWords, Filters: []string{FilterSplit}})
		require.NoError(t, err)

		tokens, end, err := a.AnalyzeAll(strings.NewReader("abc de!!"))
		require.NoError(t, err)
		assert.Len(t, tokens, 3)
		assert.Equal(t, 8, end)
	})

	t.Run("words tokenizer counts trailing punctuation", func(t *testing.T) {
		a, err := NewAnalyzer(Settings{Length: 2, Tokenizer: TokenizerWords})
		require.NoError(t, err)

		tokens, end, err := a.AnalyzeAll(strings.NewReader("hello world!"))
		require.NoError(t, err)
		assert.Len(t, tokens, 2)
		assert.Equal(t, 12, end)
	})

	t.Run("split chain over split tokenizer", func(t *testing.T) {
		a, err := NewAnalyzer(Settings{Length: 2, Tokenizer: TokenizerSplit, Filters: []string{FilterSplit}})
		require.NoError(t, err)

		_, end, err := a.AnalyzeAll(strings.NewReader("hello"))
		require.NoError(t, err)
		assert.Equal(t, 5, end)
	})

	t.Run("huge length", func(t *testing.T) {
		a, err := NewAnalyzer(Settings{Length: 1 << 60, Tokenizer: TokenizerSplit})
		require.NoError(t, err)

		var tokens []types.Token
		require.NotPanics(t, func() {
			tokens, err = a.AnalyzeString("hello")
		})
		require.NoError(t, err)
		assert.Equal(t, []types.Token{{Text: "hello", Start: 0, End: 5}}, tokens)
	})

	t.Run("empty input", func(t *testing.T) {
		a, err := NewAnalyzer(Settings{Length: 2, Tokenizer: TokenizerWords})
		require.NoError(t, err)

		tokens, end, err := a.AnalyzeAll(strings.NewReader(""))
		require.NoError(t, err)
		assert.Empty(t, tokens)
		assert.Equal(t, 0, end)
	})
}

func TestSettingsFromEnv(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		t.Setenv("SPLITINDEX_ANALYZER_CONFIG", "")
		t.Setenv("SPLITINDEX_SPLIT_LENGTH", "")
		t.Setenv("SPLITINDEX_TOKENIZER", "")
		t.Setenv("SPLITINDEX_FILTERS", "")

		s, err := SettingsFromEnv()
		require.NoError(t, err)
		assert.Equal(t, DefaultSettings(), s)
	})

	t.Run("variables", func(t *testing.T) {
		t.Setenv("SPLITINDEX_ANALYZER_CONFIG", "")
		t.Setenv("SPLITINDEX_SPLIT_LENGTH", "3")
		t.Setenv("SPLITINDEX_TOKENIZER", "WORDS")
		t.Setenv("SPLITINDEX_FILTERS", "split, ")

		s, err := SettingsFromEnv()
		require.NoError(t, err)
		assert.Equal(t, Settings{Length: 3, Tokenizer: TokenizerWords, Filters: []string{FilterSplit}}, s)
	})

	t.Run("bad length", func(t *testing.T) {
		t.Setenv("SPLITINDEX_ANALYZER_CONFIG", "")
		t.Setenv("SPLITINDEX_SPLIT_LENGTH", "two")

		_, err := SettingsFromEnv()
		assert.Error(t, err)
	})

	t.Run("zero length", func(t *testing.T) {
		t.Setenv("SPLITINDEX_ANALYZER_CONFIG", "")
		t.Setenv("SPLITINDEX_SPLIT_LENGTH", "0")

		_, err := SettingsFromEnv()
		assert.ErrorIs(t, err, types.ErrInvalidSplitLength)
	})

	t.Run("config file wins", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "analyzer.yaml")
		require.NoError(t, os.WriteFile(path, []byte("length: 4\n"), 0644))
		t.Setenv("SPLITINDEX_ANALYZER_CONFIG", path)
		t.Setenv("SPLITINDEX_SPLIT_LENGTH", "9")

		s, err := SettingsFromEnv()
		require.NoError(t, err)
		assert.Equal(t, 4, s.Length)
		assert.Equal(t, TokenizerSplit, s.Tokenizer)
	})
}
