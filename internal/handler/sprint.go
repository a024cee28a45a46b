package handler

import (
	"log/slog"
	"net/http"

	"cadence/internal/domain/services"
	"cadence/internal/httputil"
)

// SprintHandler handles sprint HTTP requests
type SprintHandler struct {
	sprintService services.SprintService
	logger        *slog.Logger
}

// NewSprintHandler creates a new sprint handler
func NewSprintHandler(sprintService services.SprintService, logger *slog.Logger) *SprintHandler {
	return &SprintHandler{
		sprintService: sprintService,
		logger:        logger,
	}
}

// CreateSprint creates a new sprint
// POST /api/sprints
func (h *SprintHandler) CreateSprint(w http.ResponseWriter, r *http.Request) {
	var req services.CreateSprintRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sprint, err := h.sprintService.CreateSprint(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, sprint)
}

// GetSprint retrieves a sprint with its assigned items
// GET /api/sprints/{id}
func (h *SprintHandler) GetSprint(w http.ResponseWriter, r *http.Request) {
	id, ok := requireID(w, r, "id")
	if !ok {
		return
	}

	sprint, err := h.sprintService.GetSprint(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, sprint)
}

// UpdateSprint updates a sprint
// PATCH /api/sprints/{id}
func (h *SprintHandler) UpdateSprint(w http.ResponseWriter, r *http.Request) {
	id, ok := requireID(w, r, "id")
	if !ok {
		return
	}

	var req services.UpdateSprintRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sprint, err := h.sprintService.UpdateSprint(r.Context(), id, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, sprint)
}

// DeleteSprint deletes a sprint
// DELETE /api/sprints/{id}
// Blocked with 409 while work items remain assigned to it
func (h *SprintHandler) DeleteSprint(w http.ResponseWriter, r *http.Request) {
	id, ok := requireID(w, r, "id")
	if !ok {
		return
	}

	if err := h.sprintService.DeleteSprint(r.Context(), id); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListSprints lists a project's sprints
// GET /api/projects/{id}/sprints
func (h *SprintHandler) ListSprints(w http.ResponseWriter, r *http.Request) {
	projectID, ok := requireID(w, r, "id")
	if !ok {
		return
	}

	sprints, err := h.sprintService.ListSprints(r.Context(), projectID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, sprints)
}
