package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"cadence/internal/domain"
	"cadence/internal/domain/models"
	"cadence/internal/domain/services"
	"cadence/internal/httputil"
)

// OrganizationHandler handles organization HTTP requests
type OrganizationHandler struct {
	orgService services.OrganizationService
	logger     *slog.Logger
}

// NewOrganizationHandler creates a new organization handler
func NewOrganizationHandler(orgService services.OrganizationService, logger *slog.Logger) *OrganizationHandler {
	return &OrganizationHandler{
		orgService: orgService,
		logger:     logger,
	}
}

// ListOrganizations retrieves all organizations
// GET /api/orgs
func (h *OrganizationHandler) ListOrganizations(w http.ResponseWriter, r *http.Request) {
	orgs, err := h.orgService.ListOrganizations(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, orgs)
}

// CreateOrganization creates a new organization
// POST /api/orgs
// Returns 201 if created, 409 with the existing organization on a slug clash
func (h *OrganizationHandler) CreateOrganization(w http.ResponseWriter, r *http.Request) {
	var req services.CreateOrgRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.CreatedBy = httputil.GetUserID(r)

	org, err := h.orgService.CreateOrganization(r.Context(), &req)
	if err != nil {
		HandleCreateConflict(w, err, func() (*models.Organization, error) {
			var conflictErr *domain.ConflictError
			if errors.As(err, &conflictErr) && conflictErr.ResourceID != "" {
				return h.orgService.GetOrganization(r.Context(), conflictErr.ResourceID)
			}
			return nil, err
		})
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, org)
}

// GetOrganization retrieves an organization by ID
// GET /api/orgs/{id}
func (h *OrganizationHandler) GetOrganization(w http.ResponseWriter, r *http.Request) {
	id, ok := requireID(w, r, "id")
	if !ok {
		return
	}

	org, err := h.orgService.GetOrganization(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, org)
}

// UpdateOrganization updates an organization
// PATCH /api/orgs/{id}
func (h *OrganizationHandler) UpdateOrganization(w http.ResponseWriter, r *http.Request) {
	id, ok := requireID(w, r, "id")
	if !ok {
		return
	}

	var req services.UpdateOrgRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	org, err := h.orgService.UpdateOrganization(r.Context(), id, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, org)
}

// DeleteOrganization deletes an organization
// DELETE /api/orgs/{id}
func (h *OrganizationHandler) DeleteOrganization(w http.ResponseWriter, r *http.Request) {
	id, ok := requireID(w, r, "id")
	if !ok {
		return
	}

	if err := h.orgService.DeleteOrganization(r.Context(), id); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
