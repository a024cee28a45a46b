package services

import (
	"context"
	"time"

	"cadence/internal/domain/models"
)

// SprintService handles sprint business logic
type SprintService interface {
	// CreateSprint creates a sprint; start date must precede end date.
	CreateSprint(ctx context.Context, req *CreateSprintRequest) (*models.Sprint, error)
	GetSprint(ctx context.Context, id string) (*SprintDetail, error)
	UpdateSprint(ctx context.Context, id string, req *UpdateSprintRequest) (*models.Sprint, error)

	// DeleteSprint is blocked with a conflict while work items remain
	// assigned to the sprint.
	DeleteSprint(ctx context.Context, id string) error

	ListSprints(ctx context.Context, projectID string) ([]models.Sprint, error)
}

// SprintDetail is a sprint with its assigned items embedded.
type SprintDetail struct {
	models.Sprint
	Items []models.WorkItem `json:"items"`
}

type CreateSprintRequest struct {
	ProjectID string    `json:"project_id"`
	Name      string    `json:"name"`
	Goal      string    `json:"goal"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

type UpdateSprintRequest struct {
	Name      *string              `json:"name,omitempty"`
	Goal      *string              `json:"goal,omitempty"`
	Status    *models.SprintStatus `json:"status,omitempty"`
	StartDate *time.Time           `json:"start_date,omitempty"`
	EndDate   *time.Time           `json:"end_date,omitempty"`
}
