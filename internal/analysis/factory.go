package analysis

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/dshills/splitindex/pkg/types"
)

// Registered component names
const (
	TokenizerSplit = "split"
	TokenizerWords = "words"
	FilterSplit    = "split"
)

// TokenizerFactory builds a leaf stream over r
type TokenizerFactory func(r io.Reader, s Settings, opts ...TokenizerOption) (types.TokenStream, error)

// FilterFactory wraps an upstream stream
type FilterFactory func(in types.TokenStream, s Settings) (types.TokenStream, error)

// Tokenizers maps tokenizer names to factories
var Tokenizers = map[string]TokenizerFactory{
	TokenizerSplit: func(r io.Reader, s Settings, opts ...TokenizerOption) (types.TokenStream, error) {
		return NewTokenizer(r, s.Length, opts...)
	},
	TokenizerWords: func(r io.Reader, _ Settings, opts ...TokenizerOption) (types.TokenStream, error) {
		return NewWordTokenizer(r, opts...), nil
	},
}

// Filters maps filter names to factories
var Filters = map[string]FilterFactory{
	FilterSplit: func(in types.TokenStream, s Settings) (types.TokenStream, error) {
		return NewSplitFilter(in, s.Length)
	},
}

// Analyzer builds token streams for a fixed set of settings
type Analyzer struct {
	settings Settings
}

// NewAnalyzer validates s and returns an analyzer for it
func NewAnalyzer(s Settings) (*Analyzer, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &Analyzer{settings: s}, nil
}

// Settings returns the analyzer configuration
func (a *Analyzer) Settings() Settings {
	return a.settings
}

// Analyze returns the token stream for r: the tokenizer followed by each
// configured filter.
func (a *Analyzer) Analyze(r io.Reader, opts ...TokenizerOption) (types.TokenStream, error) {
	newTokenizer, ok := Tokenizers[a.settings.Tokenizer]
	if !ok {
		return nil, fmt.Errorf("unknown tokenizer %q", a.settings.Tokenizer)
	}
	stream, err := newTokenizer(r, a.settings, opts...)
	if err != nil {
		return nil, err
	}

	for _, name := range a.settings.Filters {
		newFilter, ok := Filters[name]
		if !ok {
			return nil, fmt.Errorf("unknown filter %q", name)
		}
		if stream, err = newFilter(stream, a.settings); err != nil {
			return nil, err
		}
	}
	return stream, nil
}

// AnalyzeString runs the analyzer over text and collects every token
func (a *Analyzer) AnalyzeString(text string, opts ...TokenizerOption) ([]types.Token, error) {
	stream, err := a.Analyze(strings.NewReader(text), opts...)
	if err != nil {
		return nil, err
	}
	return types.Collect(stream)
}

// endOffsetter is implemented by streams that record a final offset
type endOffsetter interface {
	End() int
}

// AnalyzeAll collects every token of r together with the final offset.
// Streams without an End method report the end of their last token.
func (a *Analyzer) AnalyzeAll(r io.Reader, opts ...TokenizerOption) ([]types.Token, int, error) {
	stream, err := a.Analyze(r, opts...)
	if err != nil {
		return nil, 0, err
	}
	tokens, err := types.Collect(stream)
	if err != nil {
		return nil, 0, err
	}

	if e, ok := stream.(endOffsetter); ok {
		return tokens, e.End(), nil
	}
	if len(tokens) > 0 {
		return tokens, tokens[len(tokens)-1].End, nil
	}
	return tokens, 0, nil
}

// SettingsFromEnv builds settings from environment variables
// Priority:
// 1. SPLITINDEX_ANALYZER_CONFIG (YAML file, other variables are ignored)
// 2. SPLITINDEX_SPLIT_LENGTH, SPLITINDEX_TOKENIZER, SPLITINDEX_FILTERS (comma separated)
// 3. DefaultSettings
func SettingsFromEnv() (Settings, error) {
	if path := os.Getenv("SPLITINDEX_ANALYZER_CONFIG"); path != "" {
		return LoadSettings(path)
	}

	settings := DefaultSettings()

	if v := os.Getenv("SPLITINDEX_SPLIT_LENGTH"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return settings, fmt.Errorf("invalid SPLITINDEX_SPLIT_LENGTH %q: %w", v, err)
		}
		settings.Length = n
	}
	if v := os.Getenv("SPLITINDEX_TOKENIZER"); v != "" {
		settings.Tokenizer = strings.ToLower(v)
	}
	if v := os.Getenv("SPLITINDEX_FILTERS"); v != "" {
		for _, name := range strings.Split(v, ",") {
			if name = strings.TrimSpace(name); name != "" {
				settings.Filters = append(settings.Filters, strings.ToLower(name))
			}
		}
	}

	if err := settings.Validate(); err != nil {
		return settings, err
	}
	return settings, nil
}
