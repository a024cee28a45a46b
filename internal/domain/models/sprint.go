package models

import (
	"time"
)

type SprintStatus string

const (
	SprintPlanned   SprintStatus = "PLANNED"
	SprintActive    SprintStatus = "ACTIVE"
	SprintCompleted SprintStatus = "COMPLETED"
)

var SprintStatuses = []SprintStatus{SprintPlanned, SprintActive, SprintCompleted}

type Sprint struct {
	ID        string       `json:"id" db:"id"`
	ProjectID string       `json:"project_id" db:"project_id"`
	Name      string       `json:"name" db:"name"`
	Goal      string       `json:"goal" db:"goal"`
	Status    SprintStatus `json:"status" db:"status"`
	StartDate time.Time    `json:"start_date" db:"start_date"`
	EndDate   time.Time    `json:"end_date" db:"end_date"` // must be after StartDate
	CreatedAt time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt time.Time    `json:"updated_at" db:"updated_at"`
}
