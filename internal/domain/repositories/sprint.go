package repositories

import (
	"context"

	"cadence/internal/domain/models"
)

type SprintRepository interface {
	Create(ctx context.Context, sprint *models.Sprint) error
	GetByID(ctx context.Context, id string) (*models.Sprint, error)
	Update(ctx context.Context, sprint *models.Sprint) error
	Delete(ctx context.Context, id string) error
	ListByProject(ctx context.Context, projectID string) ([]models.Sprint, error)
	// CountItems reports how many work items are assigned to the sprint.
	CountItems(ctx context.Context, id string) (int, error)
}
