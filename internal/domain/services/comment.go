package services

import (
	"context"

	"cadence/internal/domain/models"
)

// CommentService handles comment business logic
type CommentService interface {
	// CreateComment attaches a comment to an entity and notifies the
	// entity's owner inline (no background delivery).
	CreateComment(ctx context.Context, req *CreateCommentRequest) (*models.Comment, error)
	UpdateComment(ctx context.Context, id string, req *UpdateCommentRequest) (*models.Comment, error)

	// DeleteComment deletes a comment. Only the author may delete.
	DeleteComment(ctx context.Context, id, actingUser string) error

	ListComments(ctx context.Context, entityType models.CommentEntityType, entityID string) ([]models.Comment, error)
}

type CreateCommentRequest struct {
	EntityType models.CommentEntityType `json:"entity_type"`
	EntityID   string                   `json:"entity_id"`
	Body       string                   `json:"body"`

	AuthorID string `json:"-"`
}

type UpdateCommentRequest struct {
	Body string `json:"body"`

	ActingUser string `json:"-"`
}
