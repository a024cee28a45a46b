package services

import (
	"context"

	"cadence/internal/domain/models"
)

// OrganizationService handles organization business logic
type OrganizationService interface {
	CreateOrganization(ctx context.Context, req *CreateOrgRequest) (*models.Organization, error)
	GetOrganization(ctx context.Context, id string) (*models.Organization, error)

	// UpdateOrganization applies a partial update; slug uniqueness is
	// rechecked only when the slug changes.
	UpdateOrganization(ctx context.Context, id string, req *UpdateOrgRequest) (*models.Organization, error)

	// DeleteOrganization is blocked with a conflict while projects
	// still belong to the organization.
	DeleteOrganization(ctx context.Context, id string) error

	ListOrganizations(ctx context.Context) ([]models.Organization, error)
}

type CreateOrgRequest struct {
	Slug        string                 `json:"slug"`
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Settings    map[string]interface{} `json:"settings,omitempty"`

	CreatedBy string `json:"-"`
}

type UpdateOrgRequest struct {
	Slug        *string                `json:"slug,omitempty"`
	Name        *string                `json:"name,omitempty"`
	Description *string                `json:"description,omitempty"`
	Settings    map[string]interface{} `json:"settings,omitempty"`
}
