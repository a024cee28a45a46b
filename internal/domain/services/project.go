package services

import (
	"context"
	"time"

	"cadence/internal/domain/models"
)

// ProjectService handles project business logic
type ProjectService interface {
	CreateProject(ctx context.Context, req *CreateProjectRequest) (*models.Project, error)

	// GetProject retrieves a project with its embedded sub-collection
	// counts (items, sprints, files).
	GetProject(ctx context.Context, id string) (*ProjectDetail, error)

	// UpdateProject applies a partial update. The key uniqueness check
	// reruns only when the key itself changes.
	UpdateProject(ctx context.Context, id string, req *UpdateProjectRequest) (*models.Project, error)

	// DeleteProject deletes a project. Blocked with a conflict while
	// any tracked sub-collection (items, sprints, files) is non-empty.
	DeleteProject(ctx context.Context, id string) error

	ListProjects(ctx context.Context, orgID *string) ([]models.Project, error)
}

// ProjectDetail is a project with its sub-collection counts embedded.
type ProjectDetail struct {
	models.Project
	ItemCount   int `json:"item_count"`
	SprintCount int `json:"sprint_count"`
	FileCount   int `json:"file_count"`
}

// CreateProjectRequest represents a project creation request
type CreateProjectRequest struct {
	OrgID       *string                  `json:"org_id,omitempty"`
	Key         string                   `json:"key"`
	Name        string                   `json:"name"`
	Description string                   `json:"description"`
	Visibility  models.ProjectVisibility `json:"visibility"` // defaults to PRIVATE
	StartDate   *time.Time               `json:"start_date,omitempty"`
	EndDate     *time.Time               `json:"end_date,omitempty"`
	Settings    map[string]interface{}   `json:"settings,omitempty"`

	CreatedBy string `json:"-"`
}

// UpdateProjectRequest represents a partial project update
type UpdateProjectRequest struct {
	Key         *string                   `json:"key,omitempty"`
	Name        *string                   `json:"name,omitempty"`
	Description *string                   `json:"description,omitempty"`
	Status      *models.ItemStatus        `json:"status,omitempty"`
	Visibility  *models.ProjectVisibility `json:"visibility,omitempty"`
	StartDate   *time.Time                `json:"start_date,omitempty"`
	EndDate     *time.Time                `json:"end_date,omitempty"`
	Settings    map[string]interface{}    `json:"settings,omitempty"`
}
