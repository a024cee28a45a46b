package models

import (
	"time"
)

// ItemType discriminates the work-item hierarchy.
type ItemType string

const (
	ItemTypeInitiative ItemType = "INITIATIVE"
	ItemTypeEpic       ItemType = "EPIC"
	ItemTypeFeature    ItemType = "FEATURE"
	ItemTypeUserStory  ItemType = "USER_STORY"
	ItemTypeTask       ItemType = "TASK"
	ItemTypeSubtask    ItemType = "SUBTASK"
	ItemTypeBug        ItemType = "BUG"
)

// ItemStatus doubles as the kanban column key.
type ItemStatus string

const (
	StatusActive    ItemStatus = "ACTIVE"
	StatusCompleted ItemStatus = "COMPLETED"
	StatusOnHold    ItemStatus = "ON_HOLD"
	StatusCancelled ItemStatus = "CANCELLED"
)

// Statuses lists the fixed status values in board-column order.
var Statuses = []ItemStatus{StatusActive, StatusCompleted, StatusOnHold, StatusCancelled}

type ItemPriority string

const (
	PriorityLow      ItemPriority = "LOW"
	PriorityMedium   ItemPriority = "MEDIUM"
	PriorityHigh     ItemPriority = "HIGH"
	PriorityCritical ItemPriority = "CRITICAL"
)

var Priorities = []ItemPriority{PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical}

// WorkItem is one node of the typed hierarchy. Children are never stored;
// they are derived at read time by grouping on ParentID.
type WorkItem struct {
	ID          string       `json:"id" db:"id"`
	ProjectID   string       `json:"project_id" db:"project_id"`
	ParentID    *string      `json:"parent_id" db:"parent_id"` // NULL = root level
	Type        ItemType     `json:"type" db:"type"`
	Title       string       `json:"title" db:"title"`
	Description string       `json:"description" db:"description"`
	Status      ItemStatus   `json:"status" db:"status"`
	Priority    ItemPriority `json:"priority" db:"priority"`
	// Position is the sibling order key. Siblings are sorted by
	// ascending position, falling back to title when positions tie.
	Position      int                    `json:"position" db:"position"`
	SprintID      *string                `json:"sprint_id,omitempty" db:"sprint_id"`
	AssigneeID    *string                `json:"assignee_id,omitempty" db:"assignee_id"`
	BusinessValue *int                   `json:"business_value,omitempty" db:"business_value"` // 1..10
	TechnicalRisk *int                   `json:"technical_risk,omitempty" db:"technical_risk"` // 1..10
	Effort        *int                   `json:"effort,omitempty" db:"effort"`                 // 1..10
	Progress      int                    `json:"progress" db:"progress"`                      // 0..100
	Metadata      map[string]interface{} `json:"metadata,omitempty" db:"metadata"`
	CreatedBy     string                 `json:"created_by" db:"created_by"`
	CreatedAt     time.Time              `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time              `json:"updated_at" db:"updated_at"`
}
