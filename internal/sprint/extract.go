package sprint

import "fmt"

// maxResearchRequests caps the combined request list; overflow truncates
// from the end of the combined sequence, so first-populated fields win.
const maxResearchRequests = 8

// ExtractResearchRequests derives the bounded research-request list from the
// three agents' insights, in the fixed agent order. Per agent, priority
// research items come before customer-validation items; within each field
// the agent's own list order is preserved. Pure and deterministic: the same
// insight triple always yields the same list.
func ExtractResearchRequests(insights map[AgentKey]*AgentInsight) []ResearchRequest {
	requests := make([]ResearchRequest, 0, maxResearchRequests)

	for _, agent := range agentOrder {
		insight := insights[agent]
		if insight == nil {
			continue
		}

		for i, priority := range insight.ResearchPriorities {
			requests = append(requests, ResearchRequest{
				ID:       fmt.Sprintf("%s_%d", agent, i),
				Agent:    agent,
				Type:     RequestTypePriority,
				Question: priority,
				Urgency:  "high",
				Guidance: fmt.Sprintf("Research this priority area identified by %s", agent),
			})
		}

		if insight.CustomerValidation != nil {
			for i, question := range insight.CustomerValidation.ResearchQuestions {
				requests = append(requests, ResearchRequest{
					ID:       fmt.Sprintf("customer_validation_%d", i),
					Agent:    AgentCustomerResearch,
					Type:     RequestTypeValidation,
					Question: question,
					Urgency:  "high",
					Guidance: "Conduct customer research to validate this assumption",
				})
			}
		}
	}

	if len(requests) > maxResearchRequests {
		requests = requests[:maxResearchRequests]
	}
	return requests
}
