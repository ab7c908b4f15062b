package server

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dylangamachefl/foundation-sprint/internal/sprint"
	"github.com/dylangamachefl/foundation-sprint/internal/types"
)

const maxRequestBodySize = 1 << 20 // 1 MB

// Handlers holds the HTTP handler dependencies.
type Handlers struct {
	Orchestrator *sprint.Orchestrator
	Logger       *slog.Logger
}

// readJSON decodes a JSON request body with a size limit.
func readJSON[T any](w http.ResponseWriter, r *http.Request) (T, bool) {
	var v T
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
		if err.Error() == "http: request body too large" {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
		} else {
			writeError(w, http.StatusBadRequest, "invalid request body")
		}
		return v, false
	}
	return v, true
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to write JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeServiceError maps coded orchestrator errors onto HTTP statuses:
// unknown sprint is 404, rejected input is 400, everything else 500.
func (h *Handlers) writeServiceError(w http.ResponseWriter, err error) {
	var status int
	switch {
	case types.HasCode(err, types.SPRINT_NOT_FOUND):
		status = http.StatusNotFound
	case types.HasCode(err, types.SPRINT_VALIDATION_FAILED):
		status = http.StatusBadRequest
	default:
		status = http.StatusInternalServerError
		h.Logger.Error("request failed", "error", err)
	}
	writeError(w, status, err.Error())
}

// sprintID parses the sprint identifier from the URL.
func sprintID(w http.ResponseWriter, r *http.Request) (types.ID, bool) {
	id, err := types.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid sprint id")
		return "", false
	}
	return id, true
}

type startSprintRequest struct {
	ProductIdea sprint.ProductIdea `json:"productIdea"`
}

// StartSprint handles POST /api/sprint/start
func (h *Handlers) StartSprint(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[startSprintRequest](w, r)
	if !ok {
		return
	}

	id, err := h.Orchestrator.InitializeSprint(r.Context(), req.ProductIdea)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"sprintId": id,
		"status":   "initialized",
	})
}

// GetStatus handles GET /api/sprint/{id}/status
func (h *Handlers) GetStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := sprintID(w, r)
	if !ok {
		return
	}

	view, err := h.Orchestrator.GetSprintStatus(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

type submitResearchRequest struct {
	ResearchData map[string]string `json:"researchData"`
}

// SubmitResearch handles POST /api/sprint/{id}/research
func (h *Handlers) SubmitResearch(w http.ResponseWriter, r *http.Request) {
	id, ok := sprintID(w, r)
	if !ok {
		return
	}

	req, ok := readJSON[submitResearchRequest](w, r)
	if !ok {
		return
	}

	if err := h.Orchestrator.SubmitResearch(r.Context(), id, req.ResearchData); err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "research_submitted"})
}

type makeDecisionsRequest struct {
	Decisions map[string]string `json:"decisions"`
}

// MakeDecisions handles POST /api/sprint/{id}/decisions
func (h *Handlers) MakeDecisions(w http.ResponseWriter, r *http.Request) {
	id, ok := sprintID(w, r)
	if !ok {
		return
	}

	req, ok := readJSON[makeDecisionsRequest](w, r)
	if !ok {
		return
	}

	hypothesis, err := h.Orchestrator.MakeDecisions(r.Context(), id, req.Decisions)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"hypothesis": hypothesis,
		"status":     "completed",
	})
}

// GetResults handles GET /api/sprint/{id}/results
func (h *Handlers) GetResults(w http.ResponseWriter, r *http.Request) {
	id, ok := sprintID(w, r)
	if !ok {
		return
	}

	results, err := h.Orchestrator.GetResults(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, results)
}

// Healthz handles GET /healthz
func (h *Handlers) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
