package providers

import (
	"context"
	"os"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/schema"

	"github.com/dylangamachefl/foundation-sprint/internal/llm"
)

// DefaultGoogleModel is used when config does not name one. Matches the
// model the sprint workflow was tuned against.
const DefaultGoogleModel = "gemini-2.5-flash"

// GoogleProvider implements llm.Provider for Google's Gemini models.
type GoogleProvider struct {
	client *googleai.GoogleAI
	config llm.ProviderConfig
}

// NewGoogleProvider creates a new Google provider. The API key comes from
// config, falling back to GEMINI_API_KEY then GOOGLE_API_KEY. A missing key
// is an authentication error so startup can refuse to proceed.
func NewGoogleProvider(ctx context.Context, cfg llm.ProviderConfig) (*GoogleProvider, error) {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		apiKey = os.Getenv("GOOGLE_API_KEY")
	}

	if apiKey == "" {
		return nil, llm.NewAuthError("google", nil)
	}

	model := cfg.DefaultModel
	if model == "" {
		model = DefaultGoogleModel
	}

	client, err := googleai.New(ctx,
		googleai.WithAPIKey(apiKey),
		googleai.WithDefaultModel(model),
	)
	if err != nil {
		return nil, llm.TranslateError("google", err)
	}

	return &GoogleProvider{
		client: client,
		config: cfg,
	}, nil
}

// Name returns the provider name.
func (p *GoogleProvider) Name() string {
	return "google"
}

// Complete sends a completion request. Gemini has no separate system slot in
// this flow; system instructions are folded into the single user turn.
func (p *GoogleProvider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	req = req.WithDefaults()
	if err := req.Validate(); err != nil {
		return nil, llm.NewInvalidRequestError(err.Error())
	}

	messages := []llms.MessageContent{
		llms.TextParts(schema.ChatMessageTypeHuman, req.FullPrompt()),
	}

	opts := []llms.CallOption{
		llms.WithMaxTokens(req.MaxTokens),
		llms.WithTemperature(req.Temperature),
	}
	if req.Model != "" {
		opts = append(opts, llms.WithModel(req.Model))
	}

	resp, err := p.client.GenerateContent(ctx, messages, opts...)
	if err != nil {
		return nil, llm.TranslateError("google", err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Content == "" {
		return nil, llm.NewEmptyResponseError("google")
	}

	choice := resp.Choices[0]
	return &llm.CompletionResponse{
		Model:      req.Model,
		Content:    choice.Content,
		StopReason: choice.StopReason,
	}, nil
}
