package sprint

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func insightTriple(facilitator, customer, strategy map[string]any) map[AgentKey]*AgentInsight {
	return map[AgentKey]*AgentInsight{
		AgentFacilitator:      NewAgentInsight(facilitator),
		AgentCustomerResearch: NewAgentInsight(customer),
		AgentProductStrategy:  NewAgentInsight(strategy),
	}
}

func TestExtractResearchRequests_AgentOrder(t *testing.T) {
	insights := insightTriple(
		map[string]any{"research_priorities": []any{"fac A", "fac B"}},
		map[string]any{
			"research_priorities": []any{"cust A"},
			"customer_validation": map[string]any{
				"research_questions": []any{"valid A", "valid B"},
			},
		},
		map[string]any{"research_priorities": []any{"strat A"}},
	)

	requests := ExtractResearchRequests(insights)
	require.Len(t, requests, 6)

	// facilitator first, then customerResearch (priorities before
	// validation questions), then productStrategy
	assert.Equal(t, "facilitator_0", requests[0].ID)
	assert.Equal(t, "facilitator_1", requests[1].ID)
	assert.Equal(t, "customerResearch_0", requests[2].ID)
	assert.Equal(t, "customer_validation_0", requests[3].ID)
	assert.Equal(t, "customer_validation_1", requests[4].ID)
	assert.Equal(t, "productStrategy_0", requests[5].ID)

	assert.Equal(t, "fac A", requests[0].Question)
	assert.Equal(t, RequestTypePriority, requests[0].Type)
	assert.Equal(t, RequestTypeValidation, requests[3].Type)
	assert.Equal(t, AgentCustomerResearch, requests[3].Agent)
	assert.Equal(t, "high", requests[0].Urgency)
}

func TestExtractResearchRequests_CapsAtEight(t *testing.T) {
	manyPriorities := make([]any, 6)
	for i := range manyPriorities {
		manyPriorities[i] = fmt.Sprintf("priority %d", i)
	}

	insights := insightTriple(
		map[string]any{"research_priorities": manyPriorities},
		map[string]any{"research_priorities": manyPriorities},
		map[string]any{"research_priorities": manyPriorities},
	)

	requests := ExtractResearchRequests(insights)
	require.Len(t, requests, 8)

	// truncation drops from the end: all six facilitator items survive,
	// then the first two customerResearch items
	assert.Equal(t, "facilitator_5", requests[5].ID)
	assert.Equal(t, "customerResearch_0", requests[6].ID)
	assert.Equal(t, "customerResearch_1", requests[7].ID)
}

func TestExtractResearchRequests_Deterministic(t *testing.T) {
	insights := insightTriple(
		map[string]any{"research_priorities": []any{"a", "b"}},
		map[string]any{"customer_validation": map[string]any{"research_questions": []any{"q1"}}},
		map[string]any{"research_priorities": []any{"c"}},
	)

	first := ExtractResearchRequests(insights)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, ExtractResearchRequests(insights))
	}
}

func TestExtractResearchRequests_IgnoresOtherFields(t *testing.T) {
	insights := insightTriple(
		map[string]any{
			"key_questions": []any{"not a research request"},
			"focus_areas":   []any{"also not"},
		},
		map[string]any{
			"target_customers": map[string]any{"primary_segment": "devs"},
		},
		map[string]any{
			"technical_feasibility": map[string]any{"complexity_level": "low"},
		},
	)

	assert.Empty(t, ExtractResearchRequests(insights))
}

func TestExtractResearchRequests_MissingAgents(t *testing.T) {
	requests := ExtractResearchRequests(map[AgentKey]*AgentInsight{
		AgentProductStrategy: NewAgentInsight(map[string]any{
			"research_priorities": []any{"only one"},
		}),
	})

	require.Len(t, requests, 1)
	assert.Equal(t, "productStrategy_0", requests[0].ID)
}

func TestExtractResearchRequests_FallbackInsight(t *testing.T) {
	// Insights built from the parse-failure fallback shape have no typed
	// fields and contribute nothing.
	insights := insightTriple(
		map[string]any{"response": "prose", "reasoning": "could not parse"},
		map[string]any{"response": "prose", "reasoning": "could not parse"},
		map[string]any{"response": "prose", "reasoning": "could not parse"},
	)

	assert.Empty(t, ExtractResearchRequests(insights))
}
