package llm

import "fmt"

// Defaults applied to a CompletionRequest when the caller leaves the
// corresponding field zero.
const (
	DefaultMaxTokens   = 1000
	DefaultTemperature = 0.7
)

// CompletionRequest represents a request to generate a completion.
type CompletionRequest struct {
	Model        string  `json:"model"`
	Prompt       string  `json:"prompt"`
	SystemPrompt string  `json:"system_prompt,omitempty"`
	MaxTokens    int     `json:"max_tokens,omitempty"`
	Temperature  float64 `json:"temperature,omitempty"`
}

// WithDefaults returns a copy of the request with zero-valued tuning fields
// replaced by package defaults.
func (r CompletionRequest) WithDefaults() CompletionRequest {
	if r.MaxTokens == 0 {
		r.MaxTokens = DefaultMaxTokens
	}
	if r.Temperature == 0 {
		r.Temperature = DefaultTemperature
	}
	return r
}

// FullPrompt returns the prompt with the system prompt prepended when one is
// set. Providers without a native system-instruction slot send this as a
// single user turn.
func (r CompletionRequest) FullPrompt() string {
	if r.SystemPrompt == "" {
		return r.Prompt
	}
	return r.SystemPrompt + "\n\n" + r.Prompt
}

// Validate checks if the completion request is valid.
func (r CompletionRequest) Validate() error {
	if r.Prompt == "" {
		return fmt.Errorf("prompt is required")
	}

	if r.Temperature < 0 || r.Temperature > 1 {
		return fmt.Errorf("temperature must be between 0 and 1, got %f", r.Temperature)
	}

	if r.MaxTokens < 0 {
		return fmt.Errorf("max_tokens must be non-negative, got %d", r.MaxTokens)
	}

	return nil
}

// CompletionResponse represents the response from a completion request.
type CompletionResponse struct {
	// Model is the model that generated this response
	Model string `json:"model"`

	// Content is the generated text
	Content string `json:"content"`

	// StopReason indicates why generation stopped, when the provider
	// reports one
	StopReason string `json:"stop_reason,omitempty"`
}
