package models

import (
	"time"
)

type Organization struct {
	ID          string                 `json:"id" db:"id"`
	Slug        string                 `json:"slug" db:"slug"` // unique, URL-safe
	Name        string                 `json:"name" db:"name"`
	Description string                 `json:"description" db:"description"`
	Settings    map[string]interface{} `json:"settings,omitempty" db:"settings"`
	CreatedBy   string                 `json:"created_by" db:"created_by"`
	CreatedAt   time.Time              `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at" db:"updated_at"`
}
