package repositories

import (
	"context"

	"cadence/internal/domain/models"
)

// ProjectRepository persists projects. Key uniqueness is enforced here
// (application check plus the unique index) and surfaced as ErrConflict.
type ProjectRepository interface {
	Create(ctx context.Context, project *models.Project) error
	GetByID(ctx context.Context, id string) (*models.Project, error)
	GetByKey(ctx context.Context, key string) (*models.Project, error)
	Update(ctx context.Context, project *models.Project) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, orgID *string) ([]models.Project, error)
}
