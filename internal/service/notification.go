package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"cadence/internal/domain"
	"cadence/internal/domain/models"
	"cadence/internal/domain/repositories"
	"cadence/internal/domain/services"

	"github.com/google/uuid"
)

type notificationService struct {
	notificationRepo repositories.NotificationRepository
	logger           *slog.Logger
}

// NewNotificationService creates a new notification service
func NewNotificationService(
	notificationRepo repositories.NotificationRepository,
	logger *slog.Logger,
) services.NotificationService {
	return &notificationService{
		notificationRepo: notificationRepo,
		logger:           logger,
	}
}

func (s *notificationService) Notify(ctx context.Context, n *models.Notification) error {
	if n.UserID == "" {
		return fmt.Errorf("%w: notification needs a recipient", domain.ErrValidation)
	}
	n.ID = uuid.NewString()
	n.CreatedAt = time.Now()

	if err := s.notificationRepo.Create(ctx, n); err != nil {
		return err
	}

	s.logger.Debug("notification delivered", "id", n.ID, "user_id", n.UserID, "kind", n.Kind)
	return nil
}

func (s *notificationService) ListNotifications(ctx context.Context, userID string, unreadOnly bool) ([]models.Notification, error) {
	return s.notificationRepo.ListByUser(ctx, userID, unreadOnly)
}

// MarkRead flags one notification read. Only the recipient may do so.
func (s *notificationService) MarkRead(ctx context.Context, id, userID string) error {
	n, err := s.notificationRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if n.UserID != userID {
		return fmt.Errorf("notification belongs to another user: %w", domain.ErrForbidden)
	}
	return s.notificationRepo.MarkRead(ctx, id)
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID string) error {
	return s.notificationRepo.MarkAllRead(ctx, userID)
}
