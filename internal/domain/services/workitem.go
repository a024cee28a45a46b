package services

import (
	"context"

	"cadence/internal/domain/models"
	"cadence/internal/hierarchy"
	"cadence/internal/httputil"
)

// WorkItemService handles work-item business logic
type WorkItemService interface {
	// CreateItem creates a work item after validating the type's
	// parent compatibility and the numeric field ranges.
	CreateItem(ctx context.Context, req *CreateItemRequest) (*models.WorkItem, error)

	// GetItem retrieves an item with its ordered children and comments.
	GetItem(ctx context.Context, id string) (*ItemDetail, error)

	// UpdateItem applies a partial update (including re-parenting via
	// the tri-state parent_id field).
	UpdateItem(ctx context.Context, id string, req *UpdateItemRequest) (*models.WorkItem, error)

	// DeleteItem deletes an item. Blocked with a conflict while
	// children still reference it.
	DeleteItem(ctx context.Context, id string) error

	// ListItems returns the project's items flat, optionally filtered.
	ListItems(ctx context.Context, projectID string, filter ItemFilter) ([]models.WorkItem, error)

	// MoveItem swaps the item's position with its adjacent sibling.
	// A move at the boundary (first item up, last item down) is a
	// silent no-op.
	MoveItem(ctx context.Context, id string, dir hierarchy.Direction) error

	// AvailableParents lists items in the project whose type may parent
	// childType, for parent-selection inputs.
	AvailableParents(ctx context.Context, projectID string, childType models.ItemType) ([]models.WorkItem, error)
}

// ItemFilter narrows ListItems. Empty fields mean "no filter".
type ItemFilter struct {
	Type     models.ItemType
	Status   models.ItemStatus
	SprintID *string
	Assignee *string
}

// ItemDetail is an item with its embedded sub-collections.
type ItemDetail struct {
	models.WorkItem
	Children []models.WorkItem `json:"children"`
	Comments []models.Comment  `json:"comments"`
}

// CreateItemRequest represents a work-item creation request
type CreateItemRequest struct {
	ProjectID     string                 `json:"project_id"`
	Type          models.ItemType        `json:"type"`
	Title         string                 `json:"title"`
	Description   string                 `json:"description"`
	Status        models.ItemStatus      `json:"status"`   // defaults to ACTIVE
	Priority      models.ItemPriority    `json:"priority"` // defaults to MEDIUM
	ParentID      *string                `json:"parent_id,omitempty"`
	SprintID      *string                `json:"sprint_id,omitempty"`
	AssigneeID    *string                `json:"assignee_id,omitempty"`
	BusinessValue *int                   `json:"business_value,omitempty"`
	TechnicalRisk *int                   `json:"technical_risk,omitempty"`
	Effort        *int                   `json:"effort,omitempty"`
	Progress      *int                   `json:"progress,omitempty"`
	Metadata      map[string]interface{} `json:"metadata,omitempty"`

	// CreatedBy is filled from the request context, not the body.
	CreatedBy string `json:"-"`
}

// UpdateItemRequest represents a partial work-item update. Tri-state
// fields distinguish "absent" from "null" so PATCH can clear a parent,
// sprint, or assignee.
type UpdateItemRequest struct {
	Title         *string                  `json:"title,omitempty"`
	Description   *string                  `json:"description,omitempty"`
	Status        *models.ItemStatus       `json:"status,omitempty"`
	Priority      *models.ItemPriority     `json:"priority,omitempty"`
	ParentID      httputil.OptionalString  `json:"parent_id,omitzero"`
	SprintID      httputil.OptionalString  `json:"sprint_id,omitzero"`
	AssigneeID    httputil.OptionalString  `json:"assignee_id,omitzero"`
	BusinessValue *int                     `json:"business_value,omitempty"`
	TechnicalRisk *int                     `json:"technical_risk,omitempty"`
	Effort        *int                     `json:"effort,omitempty"`
	Progress      *int                     `json:"progress,omitempty"`
	Metadata      map[string]interface{}   `json:"metadata,omitempty"` // replaces wholesale when present

	// ActingUser is filled from the request context.
	ActingUser string `json:"-"`
}
