package services

import (
	"context"

	"cadence/internal/domain/models"
	"cadence/internal/view"
)

// TreeService materializes the nested read models: the work-item tree,
// the file tree, and the kanban board. All three are rebuilt from the
// flat records on every call.
type TreeService interface {
	GetItemTree(ctx context.Context, projectID string) ([]*models.ItemTreeNode, error)
	GetFileTree(ctx context.Context, projectID string) ([]*models.FileTreeNode, error)
	GetBoard(ctx context.Context, projectID string) ([]view.BoardColumn, error)
}
