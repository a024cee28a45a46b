package models

import (
	"time"
)

// ProjectVisibility controls who can see a project inside its organization.
type ProjectVisibility string

const (
	VisibilityPrivate  ProjectVisibility = "PRIVATE"
	VisibilityInternal ProjectVisibility = "INTERNAL"
	VisibilityPublic   ProjectVisibility = "PUBLIC"
)

var Visibilities = []ProjectVisibility{VisibilityPrivate, VisibilityInternal, VisibilityPublic}

type Project struct {
	ID          string            `json:"id" db:"id"`
	OrgID       *string           `json:"org_id,omitempty" db:"org_id"`
	Key         string            `json:"key" db:"key"` // short uppercase code, unique
	Name        string            `json:"name" db:"name"`
	Description string            `json:"description" db:"description"`
	Status      ItemStatus        `json:"status" db:"status"`
	Visibility  ProjectVisibility `json:"visibility" db:"visibility"`
	StartDate   *time.Time        `json:"start_date,omitempty" db:"start_date"`
	EndDate     *time.Time        `json:"end_date,omitempty" db:"end_date"`
	// Settings is an opaque per-project bag. It is bounds-checked on
	// write (key count, depth, encoded size) and never interpreted.
	Settings  map[string]interface{} `json:"settings,omitempty" db:"settings"`
	CreatedBy string                 `json:"created_by" db:"created_by"`
	CreatedAt time.Time              `json:"created_at" db:"created_at"`
	UpdatedAt time.Time              `json:"updated_at" db:"updated_at"`
}
