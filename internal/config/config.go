package config

import (
	"time"

	"github.com/dylangamachefl/foundation-sprint/internal/llm"
	"github.com/dylangamachefl/foundation-sprint/internal/types"
)

// Config is the root configuration for the sprint service.
type Config struct {
	Server  ServerConfig  `mapstructure:"server" yaml:"server" validate:"required"`
	LLM     LLMConfig     `mapstructure:"llm" yaml:"llm" validate:"required"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	ListenAddr      string        `mapstructure:"listen_addr" yaml:"listen_addr" validate:"required"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" yaml:"read_timeout" validate:"min=1s"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" yaml:"write_timeout" validate:"min=1s"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout" validate:"min=1s"`
}

// LLMConfig selects and configures the text-completion provider.
type LLMConfig struct {
	Provider string             `mapstructure:"provider" yaml:"provider" validate:"required"`
	Google   llm.ProviderConfig `mapstructure:"google" yaml:"google"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" yaml:"format" validate:"oneof=json text"`
}

// Validate performs cross-field validation beyond struct tags.
func (c *Config) Validate() error {
	if c.LLM.Provider == "" {
		return types.NewError(types.CONFIG_VALIDATION_FAILED, "llm.provider cannot be empty")
	}

	// The write timeout bounds every handler, including the synchronous
	// hypothesis synthesis in the decisions endpoint. Keep it above the
	// read timeout so slow model calls are not cut off mid-response.
	if c.Server.WriteTimeout < c.Server.ReadTimeout {
		return types.NewError(types.CONFIG_VALIDATION_FAILED, "server.write_timeout must be >= server.read_timeout")
	}

	if err := c.LLM.Google.Validate(); err != nil {
		return types.WrapError(types.CONFIG_VALIDATION_FAILED, "llm.google validation failed", err)
	}

	return nil
}
