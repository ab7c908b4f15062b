package sprint

import (
	"encoding/json"
	"fmt"
)

// Phase represents a sprint's position in the fixed workflow sequence.
// No defined transition moves a phase backward.
type Phase string

const (
	PhaseInitialization       Phase = "initialization"
	PhaseAgentAnalysis        Phase = "agent_analysis"
	PhaseResearchCollection   Phase = "research_collection"
	PhaseResearchAnalysis     Phase = "research_analysis"
	PhaseDecisionMaking       Phase = "decision_making"
	PhaseHypothesisGeneration Phase = "hypothesis_generation"
)

// String returns the string representation of the Phase.
func (p Phase) String() string {
	return string(p)
}

// IsValid checks if the Phase is a valid value.
func (p Phase) IsValid() bool {
	switch p {
	case PhaseInitialization, PhaseAgentAnalysis, PhaseResearchCollection,
		PhaseResearchAnalysis, PhaseDecisionMaking, PhaseHypothesisGeneration:
		return true
	default:
		return false
	}
}

// MarshalJSON implements json.Marshaler.
func (p Phase) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(p))
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *Phase) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}

	phase := Phase(str)
	if !phase.IsValid() {
		return fmt.Errorf("invalid phase: %s", str)
	}

	*p = phase
	return nil
}

// Status represents a sprint's terminal state, orthogonal to phase.
// Transitions are running → completed or running → error, never out of a
// terminal state.
type Status string

const (
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusError     Status = "error"
)

// String returns the string representation of the Status.
func (s Status) String() string {
	return string(s)
}

// IsValid checks if the Status is a valid value.
func (s Status) IsValid() bool {
	switch s {
	case StatusRunning, StatusCompleted, StatusError:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether the status permits no further transitions.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusError
}

// MarshalJSON implements json.Marshaler.
func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(s))
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *Status) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}

	status := Status(str)
	if !status.IsValid() {
		return fmt.Errorf("invalid status: %s", str)
	}

	*s = status
	return nil
}
