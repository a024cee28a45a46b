package repositories

import (
	"context"

	"cadence/internal/domain/models"
)

// OrganizationRepository persists organizations. Slug uniqueness is
// surfaced as ErrConflict.
type OrganizationRepository interface {
	Create(ctx context.Context, org *models.Organization) error
	GetByID(ctx context.Context, id string) (*models.Organization, error)
	GetBySlug(ctx context.Context, slug string) (*models.Organization, error)
	Update(ctx context.Context, org *models.Organization) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]models.Organization, error)
}
