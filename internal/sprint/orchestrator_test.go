package sprint

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dylangamachefl/foundation-sprint/internal/llm"
	"github.com/dylangamachefl/foundation-sprint/internal/types"
)

// scriptedProvider routes canned responses by inspecting the request, since
// the three agents within a round run concurrently and a sequential mock
// cannot know which agent it is answering.
type scriptedProvider struct {
	mu      sync.Mutex
	calls   []llm.CompletionRequest
	respond func(req llm.CompletionRequest) (string, error)
}

func (p *scriptedProvider) Name() string { return "scripted" }

func (p *scriptedProvider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	p.mu.Lock()
	p.calls = append(p.calls, req)
	p.mu.Unlock()

	content, err := p.respond(req)
	if err != nil {
		return nil, err
	}
	return &llm.CompletionResponse{Model: req.Model, Content: content}, nil
}

func (p *scriptedProvider) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.calls)
}

const (
	facilitatorJSON = `{
		"readiness_assessment": "ready",
		"key_questions": ["who pays?"],
		"research_priorities": ["pricing sensitivity", "competitor landscape"]
	}`
	customerJSON = `{
		"target_customers": {"primary_segment": "indie developers"},
		"customer_validation": {
			"research_questions": ["do devs hit this weekly?", "what do they use today?"]
		}
	}`
	strategyJSON = `{
		"technical_feasibility": {"complexity_level": "medium"},
		"research_priorities": ["integration effort"]
	}`
	updatedJSON        = `{"revised": true, "confidence": "higher"}`
	hypothesisJSON     = `{"founding_hypothesis": "If we solve X for Y...", "confidence_level": "high"}`
	recommendationJSON = `{"immediate_actions": ["interview 10 users"], "research_gaps": ["pricing"]}`
)

// routeByPrompt implements the default scripted behavior: pick the canned
// response matching the prompt that was sent.
func routeByPrompt(req llm.CompletionRequest) (string, error) {
	prompt, system := req.Prompt, req.SystemPrompt
	switch {
	case strings.Contains(prompt, "for Foundation Sprint:"):
		return facilitatorJSON, nil
	case strings.Contains(prompt, "customer research perspective"):
		return customerJSON, nil
	case strings.Contains(prompt, "strategy and implementation perspective"):
		return strategyJSON, nil
	case strings.Contains(prompt, "update your analysis"):
		return updatedJSON, nil
	case strings.Contains(system, "founding hypothesis"):
		return hypothesisJSON, nil
	case strings.Contains(prompt, "what should the team do next?"):
		return recommendationJSON, nil
	default:
		return `{"response": "unrouted"}`, nil
	}
}

func newTestOrchestrator(t *testing.T) (*Orchestrator, *scriptedProvider, *MemoryStore) {
	t.Helper()
	provider := &scriptedProvider{respond: routeByPrompt}
	store := NewMemoryStore()
	return NewOrchestrator(store, provider), provider, store
}

func startSprint(t *testing.T, o *Orchestrator) types.ID {
	t.Helper()
	id, err := o.InitializeSprint(context.Background(), ProductIdea{Name: "X", Description: "does X"})
	require.NoError(t, err)
	return id
}

func TestInitializeSprint_UniqueIDsAndEarlyPhase(t *testing.T) {
	o, _, _ := newTestOrchestrator(t)
	ctx := context.Background()

	seen := make(map[types.ID]bool)
	for i := 0; i < 5; i++ {
		id := startSprint(t, o)
		assert.False(t, seen[id], "id reissued: %s", id)
		seen[id] = true

		view, err := o.GetSprintStatus(ctx, id)
		require.NoError(t, err)
		// race-tolerant: the background round may not have started, or
		// may already be done
		assert.Contains(t, []Phase{
			PhaseInitialization, PhaseAgentAnalysis, PhaseResearchCollection,
		}, view.Phase)
	}
	o.Wait()
}

func TestInitializeSprint_RejectsMissingRequiredFields(t *testing.T) {
	o, provider, _ := newTestOrchestrator(t)
	ctx := context.Background()

	_, err := o.InitializeSprint(ctx, ProductIdea{Description: "no name"})
	require.Error(t, err)
	assert.True(t, types.HasCode(err, types.SPRINT_VALIDATION_FAILED))
	assert.Contains(t, err.Error(), "name")

	_, err = o.InitializeSprint(ctx, ProductIdea{Name: "no description"})
	require.Error(t, err)
	assert.True(t, types.HasCode(err, types.SPRINT_VALIDATION_FAILED))
	assert.Contains(t, err.Error(), "description")

	// rejected ideas must not reach the provider
	assert.Equal(t, 0, provider.callCount())
}

func TestAgentAnalysis_PopulatesInsightsAndRequests(t *testing.T) {
	o, _, store := newTestOrchestrator(t)
	ctx := context.Background()

	id := startSprint(t, o)
	o.Wait()

	view, err := o.GetSprintStatus(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, PhaseResearchCollection, view.Phase)
	assert.Equal(t, StatusRunning, view.Status)

	require.Len(t, view.AgentProgress, 3)
	assert.Contains(t, view.AgentProgress, AgentFacilitator)
	assert.Contains(t, view.AgentProgress, AgentCustomerResearch)
	assert.Contains(t, view.AgentProgress, AgentProductStrategy)

	// derived only from research_priorities and
	// customer_validation.research_questions, in agent order
	require.Len(t, view.ResearchRequests, 5)
	assert.Equal(t, "facilitator_0", view.ResearchRequests[0].ID)
	assert.Equal(t, "pricing sensitivity", view.ResearchRequests[0].Question)
	assert.Equal(t, "facilitator_1", view.ResearchRequests[1].ID)
	assert.Equal(t, "customer_validation_0", view.ResearchRequests[2].ID)
	assert.Equal(t, "customer_validation_1", view.ResearchRequests[3].ID)
	assert.Equal(t, "productStrategy_0", view.ResearchRequests[4].ID)
	assert.LessOrEqual(t, len(view.ResearchRequests), 8)

	// research requests are populated exactly once
	s, err := store.Get(ctx, id)
	require.NoError(t, err)
	s.Lock()
	defer s.Unlock()
	assert.Len(t, s.ResearchRequests, 5)
}

func TestAgentAnalysis_ProviderFailure(t *testing.T) {
	provider := &scriptedProvider{respond: func(req llm.CompletionRequest) (string, error) {
		return "", llm.NewCompletionError("upstream down", nil)
	}}
	o := NewOrchestrator(NewMemoryStore(), provider)

	id := startSprint(t, o)
	o.Wait()

	view, err := o.GetSprintStatus(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, StatusError, view.Status)
	assert.NotEmpty(t, view.Error)
	// phase is left where the failure happened, no rollback
	assert.Equal(t, PhaseAgentAnalysis, view.Phase)
}

func TestSubmitResearch_TriggersResearchAnalysisOnce(t *testing.T) {
	o, provider, store := newTestOrchestrator(t)
	ctx := context.Background()

	id := startSprint(t, o)
	o.Wait()

	require.NoError(t, o.SubmitResearch(ctx, id, map[string]string{
		"facilitator_0": "users confirmed pricing pain",
	}))
	o.Wait()

	view, err := o.GetSprintStatus(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, PhaseDecisionMaking, view.Phase)
	assert.Contains(t, view.AgentProgress, AgentFacilitatorUpdated)
	assert.Contains(t, view.AgentProgress, AgentCustomerResearchUpdated)
	assert.Contains(t, view.AgentProgress, AgentProductStrategyUpdated)

	s, err := store.Get(ctx, id)
	require.NoError(t, err)
	s.Lock()
	firstUpdated := s.Agents[AgentFacilitatorUpdated]
	s.Unlock()

	callsBefore := provider.callCount()

	// late submission: merged, but no re-trigger
	require.NoError(t, o.SubmitResearch(ctx, id, map[string]string{
		"facilitator_1": "late finding",
	}))
	o.Wait()

	assert.Equal(t, callsBefore, provider.callCount())

	s.Lock()
	assert.Same(t, firstUpdated, s.Agents[AgentFacilitatorUpdated])
	assert.Equal(t, "late finding", s.ResearchData["facilitator_1"])
	assert.Equal(t, "users confirmed pricing pain", s.ResearchData["facilitator_0"])
	s.Unlock()
}

func TestSubmitResearch_UnknownSprint(t *testing.T) {
	o, _, _ := newTestOrchestrator(t)

	err := o.SubmitResearch(context.Background(), types.NewID(), map[string]string{"k": "v"})
	require.Error(t, err)
	assert.True(t, types.HasCode(err, types.SPRINT_NOT_FOUND))
}

func TestMakeDecisions_CompletesSprint(t *testing.T) {
	o, provider, store := newTestOrchestrator(t)
	ctx := context.Background()

	id := startSprint(t, o)
	o.Wait()
	require.NoError(t, o.SubmitResearch(ctx, id, map[string]string{"facilitator_0": "finding"}))
	o.Wait()

	hypothesis, err := o.MakeDecisions(ctx, id, map[string]string{
		DecisionTargetCustomer: "indie developers",
		DecisionCoreProblem:    "slow feedback loops",
	})
	require.NoError(t, err)
	assert.Equal(t, "If we solve X for Y...", hypothesis["founding_hypothesis"])

	s, err := store.Get(ctx, id)
	require.NoError(t, err)
	s.Lock()
	assert.Equal(t, StatusCompleted, s.Status)
	assert.Equal(t, PhaseHypothesisGeneration, s.Phase)
	assert.False(t, s.EndTime.IsZero())
	assert.False(t, s.EndTime.Before(s.StartTime))
	assert.Equal(t, Hypothesis(hypothesis), s.Hypothesis)
	s.Unlock()

	// idempotent repeat: cached hypothesis, no re-synthesis
	callsBefore := provider.callCount()
	again, err := o.MakeDecisions(ctx, id, map[string]string{DecisionGTMStrategy: "too late"})
	require.NoError(t, err)
	assert.Equal(t, hypothesis, again)
	assert.Equal(t, callsBefore, provider.callCount())
}

func TestGetResults_UnknownSprint(t *testing.T) {
	o, _, _ := newTestOrchestrator(t)

	_, err := o.GetResults(context.Background(), types.NewID())
	require.Error(t, err)
	assert.True(t, types.HasCode(err, types.SPRINT_NOT_FOUND))
}

func TestGetResults_CompletedSprint(t *testing.T) {
	o, provider, store := newTestOrchestrator(t)
	ctx := context.Background()

	id := startSprint(t, o)
	o.Wait()
	require.NoError(t, o.SubmitResearch(ctx, id, map[string]string{"facilitator_0": "finding"}))
	o.Wait()
	_, err := o.MakeDecisions(ctx, id, map[string]string{DecisionTargetCustomer: "devs"})
	require.NoError(t, err)

	results, err := o.GetResults(ctx, id)
	require.NoError(t, err)

	assert.Equal(t, "X", results.ProductIdea.Name)
	assert.Equal(t, "If we solve X for Y...", results.FoundingHypothesis["founding_hypothesis"])
	assert.Equal(t, "devs", results.Decisions[DecisionTargetCustomer])
	assert.Equal(t, "finding", results.ResearchSummary["facilitator_0"])
	assert.Len(t, results.AgentInsights, 6)
	require.NotNil(t, results.Recommendations)
	assert.Contains(t, results.Recommendations, "immediate_actions")

	s, err := store.Get(ctx, id)
	require.NoError(t, err)
	s.Lock()
	wantDuration := s.EndTime.Sub(s.StartTime).Milliseconds()
	s.Unlock()
	assert.Equal(t, wantDuration, results.DurationMillis)

	// recommendations are cached after completion: a second read makes no
	// provider call and returns the same set
	callsBefore := provider.callCount()
	results2, err := o.GetResults(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, callsBefore, provider.callCount())
	assert.Equal(t, results.Recommendations, results2.Recommendations)
}

func TestFullSprintScenario(t *testing.T) {
	o, _, _ := newTestOrchestrator(t)
	ctx := context.Background()

	id, err := o.InitializeSprint(ctx, ProductIdea{
		Name:         "X",
		Description:  "does X",
		TargetMarket: "indie developers",
	})
	require.NoError(t, err)
	o.Wait()

	view, err := o.GetSprintStatus(ctx, id)
	require.NoError(t, err)
	require.Equal(t, PhaseResearchCollection, view.Phase)

	research := make(map[string]string, len(view.ResearchRequests))
	for _, req := range view.ResearchRequests {
		research[req.ID] = "validated: " + req.Question
	}
	require.NoError(t, o.SubmitResearch(ctx, id, research))
	o.Wait()

	hypothesis, err := o.MakeDecisions(ctx, id, map[string]string{
		DecisionTargetCustomer:         "indie developers",
		DecisionCoreProblem:            "slow feedback",
		DecisionDifferentiation:        "speed",
		DecisionImplementationApproach: "incremental",
		DecisionGTMStrategy:            "bottom-up",
	})
	require.NoError(t, err)
	require.NotNil(t, hypothesis)

	results, err := o.GetResults(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, Hypothesis(hypothesis), results.FoundingHypothesis)
	assert.GreaterOrEqual(t, results.DurationMillis, int64(0))
}
