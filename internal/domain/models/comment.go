package models

import (
	"time"
)

// CommentEntityType names the kinds of records a comment can attach to.
type CommentEntityType string

const (
	CommentOnWorkItem CommentEntityType = "work_item"
	CommentOnFile     CommentEntityType = "file"
	CommentOnProject  CommentEntityType = "project"
)

var CommentEntityTypes = []CommentEntityType{CommentOnWorkItem, CommentOnFile, CommentOnProject}

type Comment struct {
	ID         string            `json:"id" db:"id"`
	EntityType CommentEntityType `json:"entity_type" db:"entity_type"`
	EntityID   string            `json:"entity_id" db:"entity_id"`
	AuthorID   string            `json:"author_id" db:"author_id"`
	Body       string            `json:"body" db:"body"`
	CreatedAt  time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at" db:"updated_at"`
}
