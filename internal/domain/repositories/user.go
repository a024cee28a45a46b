package repositories

import (
	"context"

	"cadence/internal/domain/models"
)

type UserRepository interface {
	// Upsert creates the profile row on first sight of a subject and
	// refreshes the email afterwards. The display name is written only
	// on insert; later changes go through Update. The stored row is
	// written back into user.
	Upsert(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
}
