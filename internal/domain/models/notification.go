package models

import (
	"time"
)

type NotificationKind string

const (
	NotifyAssigned  NotificationKind = "ASSIGNED"
	NotifyCommented NotificationKind = "COMMENTED"
	NotifyMentioned NotificationKind = "MENTIONED"
)

type Notification struct {
	ID     string           `json:"id" db:"id"`
	UserID string           `json:"user_id" db:"user_id"`
	Kind   NotificationKind `json:"kind" db:"kind"`
	Title  string           `json:"title" db:"title"`
	Body   string           `json:"body" db:"body"`
	// EntityType/EntityID point at the record the notification is about.
	EntityType string    `json:"entity_type" db:"entity_type"`
	EntityID   string    `json:"entity_id" db:"entity_id"`
	Read       bool      `json:"read" db:"read"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
