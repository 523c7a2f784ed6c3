package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	apperrors "github.com/gearbase/cmms-server-go/internal/errors"
	"github.com/gearbase/cmms-server-go/internal/model"
	"github.com/gearbase/cmms-server-go/internal/repository"
	"github.com/gearbase/cmms-server-go/internal/sse"
)

type NotificationService struct {
	notificationRepo repository.NotificationRepository
	broker           *sse.Broker
}

func NewNotificationService(notificationRepo repository.NotificationRepository, broker *sse.Broker) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		broker:           broker,
	}
}

func (s *NotificationService) Notify(ctx context.Context, params model.CreateNotificationParams) (*model.Notification, error) {
	if params.Title == "" {
		return nil, apperrors.MissingRequired("title")
	}

	notification, err := s.notificationRepo.Create(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("create notification: %w", err)
	}

	// Delivery is best effort; the row is the source of truth.
	if err := s.broker.Publish(ctx, params.UserID, sse.Event{
		Type: sse.EventTypeNotification,
		Data: notification.ToEventData(),
	}); err != nil {
		log.Warn().Err(err).
			Str("userId", params.UserID).
			Msg("failed to publish notification event")
	}

	return notification, nil
}

func (s *NotificationService) List(ctx context.Context, userID string, limit, offset int) ([]model.Notification, error) {
	notifications, err := s.notificationRepo.FindByUserID(ctx, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return notifications, nil
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID string) (int, error) {
	count, err := s.notificationRepo.CountUnreadByUserID(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("count unread: %w", err)
	}
	return count, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, id, userID string) error {
	if err := s.notificationRepo.MarkRead(ctx, id, userID); err != nil {
		return fmt.Errorf("mark read: %w", err)
	}
	return nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) error {
	if err := s.notificationRepo.MarkAllRead(ctx, userID); err != nil {
		return fmt.Errorf("mark all read: %w", err)
	}
	return nil
}
