package llm

import (
	"github.com/dylangamachefl/foundation-sprint/internal/types"
)

// ProviderConfig contains configuration for a single text-completion
// provider.
type ProviderConfig struct {
	// APIKey authenticates against the provider. When empty, the provider
	// falls back to its conventional environment variables.
	APIKey string `mapstructure:"api_key" yaml:"api_key"`

	// DefaultModel is used when a request does not name a model.
	DefaultModel string `mapstructure:"default_model" yaml:"default_model"`

	// Temperature applies when a request leaves temperature zero.
	Temperature float64 `mapstructure:"temperature" yaml:"temperature" validate:"gte=0,lte=1"`

	// MaxTokens applies when a request leaves the token budget zero.
	MaxTokens int `mapstructure:"max_tokens" yaml:"max_tokens" validate:"gte=0"`
}

// Validate performs validation on the ProviderConfig.
func (c *ProviderConfig) Validate() error {
	if c.Temperature < 0 || c.Temperature > 1 {
		return types.NewError(types.CONFIG_VALIDATION_FAILED, "temperature must be between 0 and 1")
	}
	if c.MaxTokens < 0 {
		return types.NewError(types.CONFIG_VALIDATION_FAILED, "max_tokens must be non-negative")
	}
	return nil
}
