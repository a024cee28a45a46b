package repositories

import (
	"context"

	"cadence/internal/domain/models"
)

type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id string) (*models.Comment, error)
	Update(ctx context.Context, comment *models.Comment) error
	Delete(ctx context.Context, id string) error
	ListByEntity(ctx context.Context, entityType models.CommentEntityType, entityID string) ([]models.Comment, error)
}
