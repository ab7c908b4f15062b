package providers

import (
	"context"
	"fmt"
	"sync"

	"github.com/dylangamachefl/foundation-sprint/internal/llm"
)

// MockCall records a single request made against the mock provider.
type MockCall struct {
	Request llm.CompletionRequest
}

// MockProvider implements llm.Provider for testing. It replays configured
// responses in order (cycling when exhausted) and records every call.
type MockProvider struct {
	mu            sync.Mutex
	responses     []string
	responseIndex int
	calls         []MockCall
	err           error
}

// NewMockProvider creates a new mock provider with canned responses.
func NewMockProvider(responses []string) *MockProvider {
	return &MockProvider{
		responses: responses,
		calls:     make([]MockCall, 0),
	}
}

// Name returns the provider name.
func (p *MockProvider) Name() string {
	return "mock"
}

// Complete returns the next canned response, or the configured error.
func (p *MockProvider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.mu.Lock()
	p.calls = append(p.calls, MockCall{Request: req})

	if p.err != nil {
		err := p.err
		p.mu.Unlock()
		return nil, err
	}

	if len(p.responses) == 0 {
		p.mu.Unlock()
		return nil, llm.NewCompletionError("mock completion failed", fmt.Errorf("no responses configured"))
	}

	response := p.responses[p.responseIndex%len(p.responses)]
	p.responseIndex++
	p.mu.Unlock()

	return &llm.CompletionResponse{
		Model:   req.Model,
		Content: response,
	}, nil
}

// SetError makes every subsequent Complete call fail with err. Passing nil
// restores normal behavior.
func (p *MockProvider) SetError(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.err = err
}

// Calls returns a copy of all recorded calls.
func (p *MockProvider) Calls() []MockCall {
	p.mu.Lock()
	defer p.mu.Unlock()
	calls := make([]MockCall, len(p.calls))
	copy(calls, p.calls)
	return calls
}

// CallCount returns the number of Complete calls made so far.
func (p *MockProvider) CallCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.calls)
}

// Reset clears recorded calls and rewinds the response sequence.
func (p *MockProvider) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = p.calls[:0]
	p.responseIndex = 0
	p.err = nil
}
