package sprint

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// System prompts establishing each agent's role. These are fixed per role;
// the per-sprint material goes in the user prompt.

const facilitatorSystemPrompt = `You are an expert Foundation Sprint facilitator. Analyze the product idea and provide structured guidance for the sprint process.

Your role is to:
1. Assess the product idea's readiness for Foundation Sprint
2. Identify key questions that need to be answered
3. Suggest areas requiring additional research
4. Provide process guidance

Always respond in JSON format.`

const customerResearchSystemPrompt = `You are a customer research expert. Analyze the product idea from a customer and market perspective.

Focus on:
1. Customer segmentation and personas
2. Market opportunity assessment
3. Customer pain points and needs
4. Adoption patterns and behavior
5. Market validation requirements

Always respond in JSON format.`

const productStrategySystemPrompt = `You are a product strategy and technical feasibility expert. Analyze the product idea from implementation and strategic perspectives.

Focus on:
1. Technical feasibility and complexity
2. Implementation approaches and timelines
3. Resource requirements
4. Strategic positioning
5. Competitive considerations

Always respond in JSON format.`

// updateSystemPrompts instruct each role to revise its analysis against
// user-submitted research findings.
var updateSystemPrompts = map[AgentKey]string{
	AgentFacilitator:      "You are a Foundation Sprint facilitator. Update your analysis based on new research data.",
	AgentCustomerResearch: "You are a customer research expert. Refine your insights based on research findings.",
	AgentProductStrategy:  "You are a product strategy expert. Update your recommendations based on research data.",
}

const hypothesisSystemPrompt = `You are an expert at synthesizing Foundation Sprint results into a clear founding hypothesis.

The Foundation Sprint hypothesis format is:
"If we solve [problem] for [customer] with [approach], we think they're going to choose it over [alternatives] because of [differentiator] and [unique advantage]."

Synthesize all the analysis and decisions into a clear, testable hypothesis.`

const recommendationsSystemPrompt = `Generate actionable next steps based on the Foundation Sprint results.`

// orEmpty renders optional product-idea fields as an explicit placeholder
// rather than omitting them from the prompt.
func orEmpty(field string) string {
	if field == "" {
		return "Not specified"
	}
	return field
}

func facilitatorPrompt(idea ProductIdea) string {
	return fmt.Sprintf(`Analyze this product idea for Foundation Sprint:

Product: %s
Description: %s
Target Market: %s
Problem: %s

Provide analysis in this JSON format:
{
  "readiness_assessment": "assessment of sprint readiness",
  "key_questions": ["critical questions to answer"],
  "focus_areas": ["areas to emphasize in sprint"],
  "process_recommendations": ["specific guidance for this product"],
  "research_priorities": ["what research is most critical"]
}`, idea.Name, idea.Description, orEmpty(idea.TargetMarket), orEmpty(idea.ProblemStatement))
}

func customerResearchPrompt(idea ProductIdea) string {
	return fmt.Sprintf(`Analyze this product from a customer research perspective:

Product: %s
Description: %s
Target Market: %s

Provide analysis in this JSON format:
{
  "target_customers": {
    "primary_segment": "description of primary customers",
    "characteristics": ["key customer traits"],
    "pain_points": ["specific customer problems"],
    "current_solutions": "how they solve this today"
  },
  "market_opportunity": {
    "market_size": "estimated market size",
    "growth_trends": "relevant market trends",
    "timing_assessment": "is the market ready?"
  },
  "customer_validation": {
    "research_questions": ["key questions to validate"],
    "validation_methods": ["recommended research approaches"],
    "success_metrics": ["what to measure"]
  },
  "adoption_insights": {
    "adoption_barriers": ["potential barriers"],
    "motivation_factors": ["what would drive adoption"],
    "decision_criteria": ["how customers would evaluate this"]
  }
}`, idea.Name, idea.Description, orEmpty(idea.TargetMarket))
}

func productStrategyPrompt(idea ProductIdea) string {
	return fmt.Sprintf(`Analyze this product from a strategy and implementation perspective:

Product: %s
Description: %s
Initial Solution: %s

Provide analysis in this JSON format:
{
  "technical_feasibility": {
    "complexity_level": "low/medium/high",
    "key_challenges": ["main technical hurdles"],
    "technology_requirements": ["required technologies"],
    "development_timeline": "estimated development time"
  },
  "implementation_approaches": [
    {
      "approach": "implementation option",
      "pros": ["advantages"],
      "cons": ["disadvantages"],
      "timeline": "estimated timeline",
      "resources_needed": ["required resources"]
    }
  ],
  "strategic_positioning": {
    "differentiation_opportunities": ["ways to differentiate"],
    "competitive_advantages": ["potential advantages"],
    "market_positioning": "suggested market position"
  },
  "resource_planning": {
    "team_requirements": ["key roles needed"],
    "budget_considerations": ["major cost factors"],
    "timeline_milestones": ["key development milestones"]
  }
}`, idea.Name, idea.Description, orEmpty(idea.InitialSolution))
}

// updatePrompt asks an agent to revise its analysis given research findings.
func updatePrompt(idea ProductIdea, researchContext string) string {
	ideaJSON, _ := json.MarshalIndent(idea, "", "  ")

	return fmt.Sprintf(`Based on this research data, update your analysis:

RESEARCH FINDINGS:
%s

ORIGINAL PRODUCT IDEA:
%s

Provide updated insights in JSON format focusing on how the research changes your previous analysis.`, researchContext, ideaJSON)
}

// buildResearchContext concatenates research findings as "key: value" lines.
// Keys are sorted so the prompt is deterministic for a given data set.
func buildResearchContext(researchData map[string]string) string {
	keys := make([]string, 0, len(researchData))
	for k := range researchData {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, k+": "+researchData[k])
	}
	return strings.Join(lines, "\n")
}

// hypothesisPrompt bundles the full sprint context for synthesis. Callers
// must hold the sprint lock.
func hypothesisPrompt(s *Sprint) string {
	context := map[string]any{
		"productIdea":   s.ProductIdea,
		"agentInsights": s.Agents,
		"decisions":     s.Decisions,
		"researchData":  s.ResearchData,
	}
	contextJSON, _ := json.MarshalIndent(context, "", "  ")

	return fmt.Sprintf(`Generate a founding hypothesis based on this Foundation Sprint analysis:

%s

Respond in JSON format:
{
  "founding_hypothesis": "complete hypothesis statement",
  "components": {
    "customer": "target customer",
    "problem": "problem being solved",
    "approach": "solution approach",
    "alternatives": "main competitors/alternatives",
    "differentiator_1": "primary differentiator",
    "differentiator_2": "secondary differentiator"
  },
  "confidence_level": "high/medium/low",
  "key_assumptions": ["critical assumptions to test"],
  "next_steps": ["recommended validation steps"]
}`, contextJSON)
}

// recommendationsPrompt asks for next steps given the completed sprint.
// Callers must hold the sprint lock.
func recommendationsPrompt(s *Sprint) string {
	context := map[string]any{
		"hypothesis": s.Hypothesis,
		"insights":   s.Agents,
	}
	contextJSON, _ := json.MarshalIndent(context, "", "  ")

	return fmt.Sprintf(`Based on this Foundation Sprint, what should the team do next?

Context: %s

Provide 5-7 specific, actionable next steps in JSON format:
{
  "immediate_actions": ["actions for next 1-2 weeks"],
  "validation_experiments": ["ways to test the hypothesis"],
  "development_priorities": ["what to build first"],
  "research_gaps": ["additional research needed"]
}`, contextJSON)
}
