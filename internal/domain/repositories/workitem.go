package repositories

import (
	"context"

	"cadence/internal/domain/models"
)

// WorkItemFilter narrows ListByProject. Zero values mean "no filter".
type WorkItemFilter struct {
	Type     models.ItemType
	Status   models.ItemStatus
	SprintID *string
	Assignee *string
}

// WorkItemRepository persists the flat work-item records. Hierarchy is
// never stored; readers materialize it from parent_id + position.
type WorkItemRepository interface {
	Create(ctx context.Context, item *models.WorkItem) error
	GetByID(ctx context.Context, id string) (*models.WorkItem, error)
	Update(ctx context.Context, item *models.WorkItem) error
	Delete(ctx context.Context, id string) error

	// ListByProject returns every matching item in the project, flat.
	ListByProject(ctx context.Context, projectID string, filter WorkItemFilter) ([]models.WorkItem, error)
	// ListSiblings returns the full unfiltered sibling group of
	// parentID (nil = roots) in storage order.
	ListSiblings(ctx context.Context, projectID string, parentID *string) ([]models.WorkItem, error)
	// CountChildren reports how many items reference id as parent.
	CountChildren(ctx context.Context, id string) (int, error)
	// MaxPosition returns the highest position among the sibling
	// group, -1 when the group is empty.
	MaxPosition(ctx context.Context, projectID string, parentID *string) (int, error)
	// SwapPositions exchanges the position values of two items.
	// Callers run it inside a transaction.
	SwapPositions(ctx context.Context, a, b *models.WorkItem) error
	// CountByProject reports how many items belong to the project.
	CountByProject(ctx context.Context, projectID string) (int, error)
}
