package sprint

import (
	"context"

	"github.com/dylangamachefl/foundation-sprint/internal/llm"
)

// agentRunner executes one analysis agent: it builds the role-specific
// prompt, makes a single provider call, and degrades the response into a
// structured insight via the extraction fallback. It never validates the
// returned shape beyond that.
type agentRunner struct {
	provider llm.Provider
	model    string
}

// promptFor returns the initial-round (system, user) prompt pair for an
// agent role.
func promptFor(key AgentKey, idea ProductIdea) (system, prompt string) {
	switch key {
	case AgentFacilitator:
		return facilitatorSystemPrompt, facilitatorPrompt(idea)
	case AgentCustomerResearch:
		return customerResearchSystemPrompt, customerResearchPrompt(idea)
	case AgentProductStrategy:
		return productStrategySystemPrompt, productStrategyPrompt(idea)
	default:
		return "", ""
	}
}

// Run executes the initial analysis for one agent role.
func (r *agentRunner) Run(ctx context.Context, key AgentKey, idea ProductIdea) (*AgentInsight, error) {
	system, prompt := promptFor(key, idea)
	return r.complete(ctx, system, prompt)
}

// RunWithResearch executes the research-informed analysis for one agent
// role, embedding the research context in the prompt.
func (r *agentRunner) RunWithResearch(ctx context.Context, key AgentKey, idea ProductIdea, researchContext string) (*AgentInsight, error) {
	return r.complete(ctx, updateSystemPrompts[key], updatePrompt(idea, researchContext))
}

func (r *agentRunner) complete(ctx context.Context, system, prompt string) (*AgentInsight, error) {
	resp, err := r.provider.Complete(ctx, llm.CompletionRequest{
		Model:        r.model,
		Prompt:       prompt,
		SystemPrompt: system,
	})
	if err != nil {
		return nil, err
	}

	return NewAgentInsight(llm.ExtractStructured(resp.Content)), nil
}
