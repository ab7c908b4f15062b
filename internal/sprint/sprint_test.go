package sprint

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSprint_InitialState(t *testing.T) {
	s := NewSprint(ProductIdea{Name: "X", Description: "does X"})

	require.NoError(t, s.ID.Validate())
	assert.Equal(t, PhaseInitialization, s.Phase)
	assert.Equal(t, StatusRunning, s.Status)
	assert.Empty(t, s.Agents)
	assert.Empty(t, s.ResearchData)
	assert.Empty(t, s.Decisions)
	assert.False(t, s.StartTime.IsZero())
	assert.True(t, s.EndTime.IsZero())
}

func TestNewAgentInsight_TypedProjections(t *testing.T) {
	insight := NewAgentInsight(map[string]any{
		"readiness_assessment": "ready",
		"research_priorities":  []any{"pricing research", "competitor scan"},
		"customer_validation": map[string]any{
			"research_questions": []any{"will they pay?"},
			"validation_methods": []any{"interviews"},
		},
	})

	assert.Equal(t, []string{"pricing research", "competitor scan"}, insight.ResearchPriorities)
	require.NotNil(t, insight.CustomerValidation)
	assert.Equal(t, []string{"will they pay?"}, insight.CustomerValidation.ResearchQuestions)
	assert.Equal(t, "ready", insight.Raw["readiness_assessment"])
}

func TestNewAgentInsight_AbsentFields(t *testing.T) {
	insight := NewAgentInsight(map[string]any{"focus_areas": []any{"retention"}})

	assert.Nil(t, insight.ResearchPriorities)
	assert.Nil(t, insight.CustomerValidation)
}

func TestNewAgentInsight_MistypedFields(t *testing.T) {
	insight := NewAgentInsight(map[string]any{
		"research_priorities": "a single string, not a list",
		"customer_validation": "also wrong",
	})

	assert.Nil(t, insight.ResearchPriorities)
	assert.Nil(t, insight.CustomerValidation)
}

func TestNewAgentInsight_DropsNonStringElements(t *testing.T) {
	insight := NewAgentInsight(map[string]any{
		"research_priorities": []any{"keep", 42, "also keep", nil},
	})

	assert.Equal(t, []string{"keep", "also keep"}, insight.ResearchPriorities)
}

func TestAgentInsight_MarshalsAsRaw(t *testing.T) {
	insight := NewAgentInsight(map[string]any{
		"research_priorities": []any{"p1"},
		"extra":               "preserved",
	})

	data, err := json.Marshal(insight)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "preserved", decoded["extra"])
	assert.NotContains(t, decoded, "Raw")
}

func TestPhase_Valid(t *testing.T) {
	for _, p := range []Phase{
		PhaseInitialization, PhaseAgentAnalysis, PhaseResearchCollection,
		PhaseResearchAnalysis, PhaseDecisionMaking, PhaseHypothesisGeneration,
	} {
		assert.True(t, p.IsValid(), p)
	}
	assert.False(t, Phase("shipping").IsValid())
}

func TestStatus_Terminal(t *testing.T) {
	assert.False(t, StatusRunning.IsTerminal())
	assert.True(t, StatusCompleted.IsTerminal())
	assert.True(t, StatusError.IsTerminal())
	assert.False(t, Status("paused").IsValid())
}

func TestPhase_JSONRoundTrip(t *testing.T) {
	data, err := json.Marshal(PhaseDecisionMaking)
	require.NoError(t, err)
	assert.Equal(t, `"decision_making"`, string(data))

	var p Phase
	require.NoError(t, json.Unmarshal(data, &p))
	assert.Equal(t, PhaseDecisionMaking, p)

	require.Error(t, json.Unmarshal([]byte(`"warp_drive"`), &p))
}

func TestBuildResearchContext_SortedAndFormatted(t *testing.T) {
	ctx := buildResearchContext(map[string]string{
		"facilitator_1": "second finding",
		"facilitator_0": "first finding",
	})

	assert.Equal(t, "facilitator_0: first finding\nfacilitator_1: second finding", ctx)
}

func TestPrompts_RenderPlaceholders(t *testing.T) {
	idea := ProductIdea{Name: "X", Description: "does X"}

	p := facilitatorPrompt(idea)
	assert.Contains(t, p, "Product: X")
	assert.Contains(t, p, "Target Market: Not specified")
	assert.Contains(t, p, "Problem: Not specified")

	p = productStrategyPrompt(ProductIdea{Name: "X", Description: "does X", InitialSolution: "a CLI"})
	assert.Contains(t, p, "Initial Solution: a CLI")
}
