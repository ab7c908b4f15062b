package sprint

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/errgroup"

	"github.com/dylangamachefl/foundation-sprint/internal/llm"
	"github.com/dylangamachefl/foundation-sprint/internal/types"
)

// Orchestrator owns all sprint state transitions. It advances each sprint
// through its phases, fires the concurrent agent rounds, merges
// user-submitted research and decisions, and triggers hypothesis and
// recommendation synthesis. No other component mutates Sprint state.
type Orchestrator struct {
	store    Store
	runner   agentRunner
	logger   *slog.Logger
	validate *validator.Validate

	// wg tracks background analysis rounds so shutdown and tests can
	// drain them.
	wg sync.WaitGroup
}

// Option is a functional option for configuring the orchestrator.
type Option func(*Orchestrator)

// WithModel overrides the model name sent on every completion request.
func WithModel(model string) Option {
	return func(o *Orchestrator) {
		o.runner.model = model
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// NewOrchestrator creates an orchestrator backed by the given store and
// text-completion provider.
func NewOrchestrator(store Store, provider llm.Provider, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		store:    store,
		runner:   agentRunner{provider: provider},
		logger:   slog.Default().With("component", "orchestrator"),
		validate: validator.New(),
	}

	for _, opt := range opts {
		opt(o)
	}

	return o
}

// Wait blocks until all in-flight background rounds finish. Used by
// shutdown and tests; an idle orchestrator returns immediately.
func (o *Orchestrator) Wait() {
	o.wg.Wait()
}

// NewValidationError creates the error returned for malformed product ideas.
func NewValidationError(message string) *types.SprintError {
	return types.NewError(types.SPRINT_VALIDATION_FAILED, message)
}

// validateIdea rejects product ideas missing required fields at the
// boundary, before any sprint state exists.
func (o *Orchestrator) validateIdea(idea ProductIdea) error {
	err := o.validate.Struct(idea)
	if err == nil {
		return nil
	}

	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return NewValidationError("product idea validation failed: " + err.Error())
	}

	var missing []string
	for _, e := range validationErrs {
		missing = append(missing, strings.ToLower(e.Field()))
	}
	return NewValidationError("product idea is missing required fields: " + strings.Join(missing, ", "))
}

// InitializeSprint validates the product idea, creates and registers the
// sprint, and begins agent analysis in the background. The returned ID is
// available immediately; callers poll for progress.
func (o *Orchestrator) InitializeSprint(ctx context.Context, idea ProductIdea) (types.ID, error) {
	if err := o.validateIdea(idea); err != nil {
		return "", err
	}

	s := NewSprint(idea)
	if err := o.store.Put(ctx, s); err != nil {
		return "", err
	}

	o.logger.Info("sprint initialized", "sprint_id", s.ID, "product", idea.Name)

	o.spawn(ctx, func(bgCtx context.Context) {
		o.runAgentAnalysis(bgCtx, s)
	})

	return s.ID, nil
}

// spawn runs fn as a tracked background task, detached from the caller's
// cancellation so an HTTP disconnect does not abort an analysis round.
func (o *Orchestrator) spawn(ctx context.Context, fn func(context.Context)) {
	bgCtx := context.WithoutCancel(ctx)
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		fn(bgCtx)
	}()
}

// runAgentAnalysis performs the initial analysis round: the three agents
// run concurrently and all must succeed before the sprint proceeds. On
// failure the sprint is marked errored and the phase is left where it was.
func (o *Orchestrator) runAgentAnalysis(ctx context.Context, s *Sprint) {
	s.Lock()
	s.Phase = PhaseAgentAnalysis
	idea := s.ProductIdea
	s.Unlock()

	var facilitator, customer, strategy *AgentInsight

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		facilitator, err = o.runner.Run(gCtx, AgentFacilitator, idea)
		return err
	})
	g.Go(func() error {
		var err error
		customer, err = o.runner.Run(gCtx, AgentCustomerResearch, idea)
		return err
	})
	g.Go(func() error {
		var err error
		strategy, err = o.runner.Run(gCtx, AgentProductStrategy, idea)
		return err
	})

	if err := g.Wait(); err != nil {
		o.failSprint(s, "agent analysis failed", err)
		return
	}

	s.Lock()
	s.Agents[AgentFacilitator] = facilitator
	s.Agents[AgentCustomerResearch] = customer
	s.Agents[AgentProductStrategy] = strategy
	s.ResearchRequests = ExtractResearchRequests(s.Agents)
	s.Phase = PhaseResearchCollection
	requestCount := len(s.ResearchRequests)
	s.Unlock()

	o.logger.Info("agent analysis complete", "sprint_id", s.ID, "research_requests", requestCount)
}

// failSprint marks a sprint terminally errored. The phase is not rolled
// back; clients observe the error through polling.
func (o *Orchestrator) failSprint(s *Sprint, message string, err error) {
	s.Lock()
	s.Status = StatusError
	s.Error = err.Error()
	s.Unlock()

	o.logger.Error(message, "sprint_id", s.ID, "error", err)
}

// GetSprintStatus returns the polling snapshot for a sprint.
func (o *Orchestrator) GetSprintStatus(ctx context.Context, id types.ID) (StatusView, error) {
	s, err := o.store.Get(ctx, id)
	if err != nil {
		return StatusView{}, err
	}

	s.Lock()
	defer s.Unlock()
	return s.statusView(), nil
}

// SubmitResearch merges user-submitted research findings into the sprint.
// The first submission that arrives while the sprint is collecting research
// triggers the research-informed round; later or repeated submissions are
// recorded but never re-trigger it.
func (o *Orchestrator) SubmitResearch(ctx context.Context, id types.ID, researchData map[string]string) error {
	s, err := o.store.Get(ctx, id)
	if err != nil {
		return err
	}

	s.Lock()
	for k, v := range researchData {
		s.ResearchData[k] = v
	}
	trigger := s.Phase == PhaseResearchCollection && s.Status == StatusRunning
	if trigger {
		s.Phase = PhaseResearchAnalysis
	}
	s.Unlock()

	if trigger {
		o.logger.Info("research submitted, starting research analysis", "sprint_id", s.ID, "entries", len(researchData))
		o.spawn(ctx, func(bgCtx context.Context) {
			o.runResearchAnalysis(bgCtx, s)
		})
	} else {
		o.logger.Info("research merged without re-trigger", "sprint_id", s.ID, "entries", len(researchData))
	}

	return nil
}

// runResearchAnalysis re-runs the three agent roles with the research
// context embedded, storing results under the _updated keys.
func (o *Orchestrator) runResearchAnalysis(ctx context.Context, s *Sprint) {
	s.Lock()
	idea := s.ProductIdea
	researchContext := buildResearchContext(s.ResearchData)
	s.Unlock()

	var facilitator, customer, strategy *AgentInsight

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		facilitator, err = o.runner.RunWithResearch(gCtx, AgentFacilitator, idea, researchContext)
		return err
	})
	g.Go(func() error {
		var err error
		customer, err = o.runner.RunWithResearch(gCtx, AgentCustomerResearch, idea, researchContext)
		return err
	})
	g.Go(func() error {
		var err error
		strategy, err = o.runner.RunWithResearch(gCtx, AgentProductStrategy, idea, researchContext)
		return err
	})

	if err := g.Wait(); err != nil {
		o.failSprint(s, "research analysis failed", err)
		return
	}

	s.Lock()
	s.Agents[AgentFacilitatorUpdated] = facilitator
	s.Agents[AgentCustomerResearchUpdated] = customer
	s.Agents[AgentProductStrategyUpdated] = strategy
	s.Phase = PhaseDecisionMaking
	s.Unlock()

	o.logger.Info("research analysis complete", "sprint_id", s.ID)
}

// MakeDecisions merges the user's strategic decisions and synchronously
// synthesizes the founding hypothesis, completing the sprint. Calling it
// again on a completed sprint is idempotent: the cached hypothesis is
// returned and nothing is re-synthesized.
func (o *Orchestrator) MakeDecisions(ctx context.Context, id types.ID, decisions map[string]string) (Hypothesis, error) {
	s, err := o.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	s.Lock()
	if s.Status == StatusCompleted {
		hypothesis := s.Hypothesis
		s.Unlock()
		return hypothesis, nil
	}

	for k, v := range decisions {
		s.Decisions[k] = v
	}
	s.Phase = PhaseHypothesisGeneration
	prompt := hypothesisPrompt(s)
	s.Unlock()

	resp, err := o.runner.provider.Complete(ctx, llm.CompletionRequest{
		Model:        o.runner.model,
		Prompt:       prompt,
		SystemPrompt: hypothesisSystemPrompt,
	})
	if err != nil {
		// The sprint stays running in hypothesis_generation; the caller
		// may resubmit decisions to retry synthesis.
		return nil, err
	}

	hypothesis := Hypothesis(llm.ExtractStructured(resp.Content))

	s.Lock()
	if s.Status == StatusCompleted {
		// A concurrent submission won the race; its hypothesis stands.
		hypothesis = s.Hypothesis
		s.Unlock()
		return hypothesis, nil
	}
	s.Hypothesis = hypothesis
	s.Status = StatusCompleted
	s.EndTime = time.Now()
	s.Unlock()

	o.logger.Info("sprint completed", "sprint_id", s.ID)
	return hypothesis, nil
}

// GetResults assembles the read-only sprint summary. Recommendations are
// synthesized on first call after completion and cached; before completion
// they are generated fresh each call and never cached, so the stored set
// always reflects the finished sprint.
func (o *Orchestrator) GetResults(ctx context.Context, id types.ID) (*Results, error) {
	s, err := o.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	s.Lock()
	recommendations := s.Recommendations
	if recommendations == nil {
		prompt := recommendationsPrompt(s)
		s.Unlock()

		resp, err := o.runner.provider.Complete(ctx, llm.CompletionRequest{
			Model:        o.runner.model,
			Prompt:       prompt,
			SystemPrompt: recommendationsSystemPrompt,
		})
		if err != nil {
			return nil, err
		}
		recommendations = Recommendations(llm.ExtractStructured(resp.Content))

		s.Lock()
		if s.Status == StatusCompleted && s.Recommendations == nil {
			s.Recommendations = recommendations
		} else if s.Recommendations != nil {
			recommendations = s.Recommendations
		}
	}

	defer s.Unlock()

	decisions := make(map[string]string, len(s.Decisions))
	for k, v := range s.Decisions {
		decisions[k] = v
	}
	agents := make(map[AgentKey]*AgentInsight, len(s.Agents))
	for k, v := range s.Agents {
		agents[k] = v
	}
	research := make(map[string]string, len(s.ResearchData))
	for k, v := range s.ResearchData {
		research[k] = v
	}

	return &Results{
		ProductIdea:        s.ProductIdea,
		FoundingHypothesis: s.Hypothesis,
		Decisions:          decisions,
		AgentInsights:      agents,
		ResearchSummary:    research,
		DurationMillis:     s.Duration().Milliseconds(),
		Recommendations:    recommendations,
	}, nil
}
