package services

import (
	"context"

	"cadence/internal/domain/models"
)

// NotificationService handles notification delivery and read state.
// Delivery is inline with the triggering request; there is no queue or
// background worker.
type NotificationService interface {
	Notify(ctx context.Context, n *models.Notification) error
	ListNotifications(ctx context.Context, userID string, unreadOnly bool) ([]models.Notification, error)
	MarkRead(ctx context.Context, id, userID string) error
	MarkAllRead(ctx context.Context, userID string) error
}
