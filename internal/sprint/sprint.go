package sprint

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/dylangamachefl/foundation-sprint/internal/types"
)

// AgentKey identifies one analysis agent's slot in a sprint's insight map.
type AgentKey string

const (
	AgentFacilitator      AgentKey = "facilitator"
	AgentCustomerResearch AgentKey = "customerResearch"
	AgentProductStrategy  AgentKey = "productStrategy"

	// Research-informed counterparts, written by the second analysis round.
	AgentFacilitatorUpdated      AgentKey = "facilitator_updated"
	AgentCustomerResearchUpdated AgentKey = "customerResearch_updated"
	AgentProductStrategyUpdated  AgentKey = "productStrategy_updated"
)

// agentOrder is the fixed iteration order for anything that walks the three
// base agents.
var agentOrder = []AgentKey{AgentFacilitator, AgentCustomerResearch, AgentProductStrategy}

// Decision keys collected from the user before hypothesis synthesis.
const (
	DecisionTargetCustomer         = "target_customer"
	DecisionCoreProblem            = "core_problem"
	DecisionDifferentiation        = "differentiation"
	DecisionImplementationApproach = "implementation_approach"
	DecisionGTMStrategy            = "gtm_strategy"
)

// ProductIdea is the user-supplied input that seeds a sprint. Name and
// Description are required; the remaining fields render as "Not specified"
// in agent prompts when empty.
type ProductIdea struct {
	Name             string `json:"name" validate:"required"`
	Description      string `json:"description" validate:"required"`
	TargetMarket     string `json:"targetMarket,omitempty"`
	ProblemStatement string `json:"problemStatement,omitempty"`
	InitialSolution  string `json:"initialSolution,omitempty"`
}

// ResearchRequest is a derived question the user is asked to investigate
// before decisions are made.
type ResearchRequest struct {
	ID       string   `json:"id"`
	Agent    AgentKey `json:"agent"`
	Type     string   `json:"type"`
	Question string   `json:"question"`
	Urgency  string   `json:"urgency"`
	Guidance string   `json:"guidance"`
}

// Research request types produced by the extractor.
const (
	RequestTypePriority   = "priority_research"
	RequestTypeValidation = "customer_validation"
)

// CustomerValidation holds the typed access path into an insight's
// customer-validation block. Only the fields the extractor reads are typed;
// everything else stays in Raw.
type CustomerValidation struct {
	ResearchQuestions []string
}

// AgentInsight is one agent's structured output. The model controls the
// overall shape, so Raw carries the full decoded object; the typed fields
// are best-effort projections and may be absent.
type AgentInsight struct {
	Raw                map[string]any
	ResearchPriorities []string
	CustomerValidation *CustomerValidation
}

// NewAgentInsight builds an AgentInsight from a decoded response object,
// projecting out the fields the extractor consumes. Missing or mistyped
// fields are silently absent; callers must treat every field as optional.
func NewAgentInsight(raw map[string]any) *AgentInsight {
	insight := &AgentInsight{Raw: raw}

	insight.ResearchPriorities = stringSlice(raw["research_priorities"])

	if cv, ok := raw["customer_validation"].(map[string]any); ok {
		questions := stringSlice(cv["research_questions"])
		if questions != nil {
			insight.CustomerValidation = &CustomerValidation{ResearchQuestions: questions}
		}
	}

	return insight
}

// stringSlice coerces a decoded JSON value into []string, dropping non-string
// elements. Returns nil when v is not an array.
func stringSlice(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// MarshalJSON serializes the insight as its raw object so API consumers see
// exactly what the model produced.
func (a *AgentInsight) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.Raw)
}

// Hypothesis is the synthesized founding hypothesis. Shape is
// model-controlled.
type Hypothesis map[string]any

// Recommendations is the synthesized next-steps object. Shape is
// model-controlled.
type Recommendations map[string]any

// Sprint is one end-to-end run of the product-strategy workflow. All
// mutation goes through the Orchestrator while holding mu; reads of shared
// maps must copy under the same lock.
type Sprint struct {
	mu sync.Mutex

	ID               types.ID
	ProductIdea      ProductIdea
	Phase            Phase
	Status           Status
	Error            string
	Agents           map[AgentKey]*AgentInsight
	ResearchRequests []ResearchRequest
	ResearchData     map[string]string
	Decisions        map[string]string
	Hypothesis       Hypothesis
	Recommendations  Recommendations
	StartTime        time.Time
	EndTime          time.Time
}

// NewSprint creates a sprint in its initial phase.
func NewSprint(idea ProductIdea) *Sprint {
	return &Sprint{
		ID:           types.NewID(),
		ProductIdea:  idea,
		Phase:        PhaseInitialization,
		Status:       StatusRunning,
		Agents:       make(map[AgentKey]*AgentInsight),
		ResearchData: make(map[string]string),
		Decisions:    make(map[string]string),
		StartTime:    time.Now(),
	}
}

// Lock acquires the sprint's mutation lock.
func (s *Sprint) Lock() { s.mu.Lock() }

// Unlock releases the sprint's mutation lock.
func (s *Sprint) Unlock() { s.mu.Unlock() }

// Duration returns the sprint's elapsed time: EndTime-StartTime once
// completed, time since start otherwise. Callers must hold the lock.
func (s *Sprint) Duration() time.Duration {
	if !s.EndTime.IsZero() {
		return s.EndTime.Sub(s.StartTime)
	}
	return time.Since(s.StartTime)
}

// StatusView is the polling snapshot returned to clients.
type StatusView struct {
	Phase            Phase                      `json:"phase"`
	AgentProgress    map[AgentKey]*AgentInsight `json:"agentProgress"`
	ResearchRequests []ResearchRequest          `json:"researchRequests"`
	Status           Status                     `json:"status"`
	Error            string                     `json:"error,omitempty"`
}

// statusView assembles a StatusView. Callers must hold the lock.
func (s *Sprint) statusView() StatusView {
	agents := make(map[AgentKey]*AgentInsight, len(s.Agents))
	for k, v := range s.Agents {
		agents[k] = v
	}

	requests := make([]ResearchRequest, len(s.ResearchRequests))
	copy(requests, s.ResearchRequests)

	return StatusView{
		Phase:            s.Phase,
		AgentProgress:    agents,
		ResearchRequests: requests,
		Status:           s.Status,
		Error:            s.Error,
	}
}

// Results is the read-only summary of a sprint. Duration is reported in
// milliseconds.
type Results struct {
	ProductIdea        ProductIdea                `json:"productIdea"`
	FoundingHypothesis Hypothesis                 `json:"foundingHypothesis"`
	Decisions          map[string]string          `json:"decisions"`
	AgentInsights      map[AgentKey]*AgentInsight `json:"agentInsights"`
	ResearchSummary    map[string]string          `json:"researchSummary"`
	DurationMillis     int64                      `json:"duration"`
	Recommendations    Recommendations            `json:"recommendations"`
}
