package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"cadence/internal/config"
	"cadence/internal/domain"
	"cadence/internal/domain/models"
	"cadence/internal/domain/repositories"
	"cadence/internal/domain/services"

	"github.com/google/uuid"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type commentService struct {
	commentRepo repositories.CommentRepository
	itemRepo    repositories.WorkItemRepository
	fileRepo    repositories.FileRepository
	projectRepo repositories.ProjectRepository
	notifier    services.NotificationService
	logger      *slog.Logger
}

// NewCommentService creates a new comment service
func NewCommentService(
	commentRepo repositories.CommentRepository,
	itemRepo repositories.WorkItemRepository,
	fileRepo repositories.FileRepository,
	projectRepo repositories.ProjectRepository,
	notifier services.NotificationService,
	logger *slog.Logger,
) services.CommentService {
	return &commentService{
		commentRepo: commentRepo,
		itemRepo:    itemRepo,
		fileRepo:    fileRepo,
		projectRepo: projectRepo,
		notifier:    notifier,
		logger:      logger,
	}
}

func (s *commentService) CreateComment(ctx context.Context, req *services.CreateCommentRequest) (*models.Comment, error) {
	if err := validation.ValidateStruct(req,
		validation.Field(&req.EntityType, validation.Required, validation.By(validCommentEntityType)),
		validation.Field(&req.EntityID, validation.Required),
		validation.Field(&req.Body, validation.Required, validation.Length(1, config.MaxCommentLength)),
	); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	// The target must exist; its owner gets the notification
	owner, title, err := s.resolveEntity(ctx, req.EntityType, req.EntityID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	comment := &models.Comment{
		ID:         uuid.NewString(),
		EntityType: req.EntityType,
		EntityID:   req.EntityID,
		AuthorID:   req.AuthorID,
		Body:       strings.TrimSpace(req.Body),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	s.logger.Info("comment created",
		"id", comment.ID,
		"entity_type", comment.EntityType,
		"entity_id", comment.EntityID,
	)

	if owner != "" && owner != req.AuthorID {
		err := s.notifier.Notify(ctx, &models.Notification{
			UserID:     owner,
			Kind:       models.NotifyCommented,
			Title:      fmt.Sprintf("New comment on %s", title),
			Body:       comment.Body,
			EntityType: string(req.EntityType),
			EntityID:   req.EntityID,
		})
		if err != nil {
			s.logger.Warn("comment notification failed", "comment_id", comment.ID, "error", err)
		}
	}

	return comment, nil
}

func (s *commentService) UpdateComment(ctx context.Context, id string, req *services.UpdateCommentRequest) (*models.Comment, error) {
	comment, err := s.commentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if comment.AuthorID != req.ActingUser {
		return nil, fmt.Errorf("only the author may edit a comment: %w", domain.ErrForbidden)
	}

	body := strings.TrimSpace(req.Body)
	if body == "" || len(body) > config.MaxCommentLength {
		return nil, fmt.Errorf("%w: invalid comment body", domain.ErrValidation)
	}

	comment.Body = body
	comment.UpdatedAt = time.Now()

	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *commentService) DeleteComment(ctx context.Context, id, actingUser string) error {
	comment, err := s.commentRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if comment.AuthorID != actingUser {
		return fmt.Errorf("only the author may delete a comment: %w", domain.ErrForbidden)
	}
	return s.commentRepo.Delete(ctx, id)
}

func (s *commentService) ListComments(ctx context.Context, entityType models.CommentEntityType, entityID string) ([]models.Comment, error) {
	if err := validCommentEntityType(entityType); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	return s.commentRepo.ListByEntity(ctx, entityType, entityID)
}

// resolveEntity confirms the comment target exists and returns its
// owner (for notification) and display title.
func (s *commentService) resolveEntity(ctx context.Context, entityType models.CommentEntityType, entityID string) (owner, title string, err error) {
	switch entityType {
	case models.CommentOnWorkItem:
		item, err := s.itemRepo.GetByID(ctx, entityID)
		if err != nil {
			return "", "", err
		}
		if item.AssigneeID != nil {
			return *item.AssigneeID, item.Title, nil
		}
		return item.CreatedBy, item.Title, nil
	case models.CommentOnFile:
		file, err := s.fileRepo.GetByID(ctx, entityID)
		if err != nil {
			return "", "", err
		}
		return file.UploadedBy, file.Name, nil
	default:
		project, err := s.projectRepo.GetByID(ctx, entityID)
		if err != nil {
			return "", "", err
		}
		return project.CreatedBy, project.Name, nil
	}
}

func validCommentEntityType(value interface{}) error {
	t, _ := value.(models.CommentEntityType)
	for _, known := range models.CommentEntityTypes {
		if known == t {
			return nil
		}
	}
	return fmt.Errorf("invalid entity type %q", t)
}
