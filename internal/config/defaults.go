package config

import "time"

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			ListenAddr:      ":5000",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    2 * time.Minute,
			ShutdownTimeout: 30 * time.Second,
		},
		LLM: LLMConfig{
			Provider: "google",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}
