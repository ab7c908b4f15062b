package llm

import "context"

// Provider defines the interface that all text-completion providers must
// implement. It provides a unified abstraction for interacting with
// different generative-text services (Google Gemini, local mocks, etc.).
type Provider interface {
	// Name returns the provider name (e.g., "google", "mock")
	Name() string

	// Complete sends a completion request and returns the full response.
	// This is a blocking call that waits for the entire response. A single
	// attempt is made; no retries are performed.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
}
