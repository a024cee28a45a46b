package repositories

import (
	"context"

	"cadence/internal/domain/models"
)

// FileRepository persists the flat file/folder records and their
// version rows.
type FileRepository interface {
	Create(ctx context.Context, file *models.File) error
	GetByID(ctx context.Context, id string) (*models.File, error)
	Update(ctx context.Context, file *models.File) error
	Delete(ctx context.Context, id string) error

	ListByProject(ctx context.Context, projectID string) ([]models.File, error)
	// ListChildren returns the immediate children of parentID
	// (nil = root) in storage order.
	ListChildren(ctx context.Context, projectID string, parentID *string) ([]models.File, error)
	CountChildren(ctx context.Context, id string) (int, error)
	MaxPosition(ctx context.Context, projectID string, parentID *string) (int, error)
	SwapPositions(ctx context.Context, a, b *models.File) error
	CountByProject(ctx context.Context, projectID string) (int, error)

	CreateVersion(ctx context.Context, version *models.FileVersion) error
	ListVersions(ctx context.Context, fileID string) ([]models.FileVersion, error)
	GetVersion(ctx context.Context, fileID string, version int) (*models.FileVersion, error)
	// LatestVersion returns the highest version number for the file,
	// 0 when none exist.
	LatestVersion(ctx context.Context, fileID string) (int, error)
}
