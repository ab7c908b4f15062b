package providers

import (
	"context"
	"fmt"

	"github.com/dylangamachefl/foundation-sprint/internal/llm"
)

// NewProvider creates a text-completion provider by name.
func NewProvider(ctx context.Context, name string, cfg llm.ProviderConfig) (llm.Provider, error) {
	switch name {
	case "google", "gemini":
		return NewGoogleProvider(ctx, cfg)

	case "mock":
		return NewMockProvider([]string{"Mock response"}), nil

	default:
		return nil, llm.NewInvalidRequestError(fmt.Sprintf("unknown provider: %s", name))
	}
}
