package handler

import (
	"log/slog"
	"net/http"

	"cadence/internal/domain/models"
	"cadence/internal/domain/services"
	"cadence/internal/httputil"
)

// CommentHandler handles comment HTTP requests
type CommentHandler struct {
	commentService services.CommentService
	logger         *slog.Logger
}

// NewCommentHandler creates a new comment handler
func NewCommentHandler(commentService services.CommentService, logger *slog.Logger) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
		logger:         logger,
	}
}

// CreateComment attaches a comment to an entity
// POST /api/comments
func (h *CommentHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	var req services.CreateCommentRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.AuthorID = httputil.GetUserID(r)

	comment, err := h.commentService.CreateComment(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, comment)
}

// UpdateComment edits a comment's body. Author only.
// PATCH /api/comments/{id}
func (h *CommentHandler) UpdateComment(w http.ResponseWriter, r *http.Request) {
	id, ok := requireID(w, r, "id")
	if !ok {
		return
	}

	var req services.UpdateCommentRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.ActingUser = httputil.GetUserID(r)

	comment, err := h.commentService.UpdateComment(r.Context(), id, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, comment)
}

// DeleteComment deletes a comment. Author only.
// DELETE /api/comments/{id}
func (h *CommentHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	id, ok := requireID(w, r, "id")
	if !ok {
		return
	}

	if err := h.commentService.DeleteComment(r.Context(), id, httputil.GetUserID(r)); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListComments lists an entity's comments oldest-first
// GET /api/comments?entity_type=work_item&entity_id=...
func (h *CommentHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	entityType := models.CommentEntityType(query.Get("entity_type"))
	entityID := query.Get("entity_id")
	if entityType == "" || entityID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "entity_type and entity_id query parameters are required")
		return
	}

	comments, err := h.commentService.ListComments(r.Context(), entityType, entityID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, comments)
}
