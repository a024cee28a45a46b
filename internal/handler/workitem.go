package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"cadence/internal/domain/models"
	"cadence/internal/domain/services"
	"cadence/internal/hierarchy"
	"cadence/internal/httputil"
	"cadence/internal/view"
)

// WorkItemHandler handles work-item HTTP requests
type WorkItemHandler struct {
	itemService services.WorkItemService
	logger      *slog.Logger
}

// NewWorkItemHandler creates a new work item handler
func NewWorkItemHandler(itemService services.WorkItemService, logger *slog.Logger) *WorkItemHandler {
	return &WorkItemHandler{
		itemService: itemService,
		logger:      logger,
	}
}

// CreateItem creates a new work item
// POST /api/items
func (h *WorkItemHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var req services.CreateItemRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.CreatedBy = httputil.GetUserID(r)

	item, err := h.itemService.CreateItem(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, item)
}

// GetItem retrieves a work item with its ordered children and comments
// GET /api/items/{id}
func (h *WorkItemHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	id, ok := requireID(w, r, "id")
	if !ok {
		return
	}

	item, err := h.itemService.GetItem(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, item)
}

// UpdateItem applies a partial update, including tri-state re-parenting
// PATCH /api/items/{id}
func (h *WorkItemHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id, ok := requireID(w, r, "id")
	if !ok {
		return
	}

	var req services.UpdateItemRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.ActingUser = httputil.GetUserID(r)

	item, err := h.itemService.UpdateItem(r.Context(), id, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, item)
}

// DeleteItem deletes a work item
// DELETE /api/items/{id}
// Blocked with 409 while children still reference the item
func (h *WorkItemHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id, ok := requireID(w, r, "id")
	if !ok {
		return
	}

	if err := h.itemService.DeleteItem(r.Context(), id); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// moveRequest is the body of a sibling reorder
type moveRequest struct {
	Direction string `json:"direction"`
}

// MoveItem swaps the item with its adjacent sibling
// PUT /api/items/{id}/move
// Boundary moves (first item up, last item down) return 200 unchanged
func (h *WorkItemHandler) MoveItem(w http.ResponseWriter, r *http.Request) {
	id, ok := requireID(w, r, "id")
	if !ok {
		return
	}

	var req moveRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	dir, err := hierarchy.ParseDirection(req.Direction)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.itemService.MoveItem(r.Context(), id, dir); err != nil {
		handleError(w, err)
		return
	}

	// Clients refetch the sibling group after a move; the swap itself
	// has no interesting body.
	w.WriteHeader(http.StatusNoContent)
}

// ListItems lists a project's items in the requested view layout
// GET /api/projects/{id}/items?view=list|cards|kanban|branch
// Filters: type, status, sprint_id, assignee. The branch view reads the
// client's expanded set from ?expanded=id1,id2 (collapsed by default).
func (h *WorkItemHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	projectID, ok := requireID(w, r, "id")
	if !ok {
		return
	}

	query := r.URL.Query()

	mode, err := view.ParseMode(query.Get("view"))
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	filter := services.ItemFilter{
		Type:   models.ItemType(query.Get("type")),
		Status: models.ItemStatus(query.Get("status")),
	}
	if v := query.Get("sprint_id"); v != "" {
		filter.SprintID = &v
	}
	if v := query.Get("assignee"); v != "" {
		filter.Assignee = &v
	}

	items, err := h.itemService.ListItems(r.Context(), projectID, filter)
	if err != nil {
		handleError(w, err)
		return
	}

	switch mode {
	case view.ModeKanban:
		httputil.RespondJSON(w, http.StatusOK, view.Board(items))
	case view.ModeBranch:
		expanded := hierarchy.ExpandedSet{}
		for _, id := range strings.Split(query.Get("expanded"), ",") {
			if id != "" {
				expanded = expanded.Toggle(id)
			}
		}
		httputil.RespondJSON(w, http.StatusOK, view.Branch(items, expanded))
	default:
		// list and cards share the flat depth-first sequence
		httputil.RespondJSON(w, http.StatusOK, view.Rows(items))
	}
}

// AvailableParents lists the items that may parent a given type
// GET /api/projects/{id}/items/available-parents?type=TASK
func (h *WorkItemHandler) AvailableParents(w http.ResponseWriter, r *http.Request) {
	projectID, ok := requireID(w, r, "id")
	if !ok {
		return
	}

	childType := models.ItemType(r.URL.Query().Get("type"))
	if childType == "" {
		httputil.RespondError(w, http.StatusBadRequest, "type query parameter is required")
		return
	}

	parents, err := h.itemService.AvailableParents(r.Context(), projectID, childType)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, parents)
}
