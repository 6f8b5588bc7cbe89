package analysis

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/dshills/splitindex/pkg/types"
)

// Settings selects and configures an analysis chain
type Settings struct {
	// Length is the split length shared by the split tokenizer and filter
	Length int `yaml:"length" json:"length"`

	// Tokenizer names the leaf tokenizer
	Tokenizer string `yaml:"tokenizer" json:"tokenizer" validate:"required,oneof=split words"`

	// Filters are applied in order after the tokenizer
	Filters []string `yaml:"filters" json:"filters,omitempty" validate:"dive,oneof=split"`
}

// DefaultSettings returns a split tokenizer with the default length
func DefaultSettings() Settings {
	return Settings{
		Length:    DefaultSplitLength,
		Tokenizer: TokenizerSplit,
	}
}

var validate = validator.New()

// Validate checks the settings before any stream is built
func (s Settings) Validate() error {
	if s.Length < 1 {
		return types.ErrInvalidSplitLength
	}
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("invalid analyzer settings: %w", err)
	}
	return nil
}

// LoadSettings reads YAML settings from path. Keys missing from the file
// keep their default values.
func LoadSettings(path string) (Settings, error) {
	settings := DefaultSettings()

	data, err := os.ReadFile(path)
	if err != nil {
		return settings, fmt.Errorf("failed to read analyzer settings: %w", err)
	}
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return settings, fmt.Errorf("failed to parse analyzer settings: %w", err)
	}
	if err := settings.Validate(); err != nil {
		return settings, err
	}
	return settings, nil
}
