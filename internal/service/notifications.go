package service

import (
	"context"
	"fmt"

	"epark/internal/models"
	"epark/internal/repository"
)

type NotificationService struct {
	notificationRepo *repository.NotificationRepository
}

func NewNotificationService(notificationRepo *repository.NotificationRepository) *NotificationService {
	return &NotificationService{notificationRepo: notificationRepo}
}

func (s *NotificationService) List(ctx context.Context, userID string) ([]models.Notification, error) {
	notifications, err := s.notificationRepo.ListByUser(ctx, userID, 50)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, userID string, ids []int64) error {
	if len(ids) == 0 {
		return s.notificationRepo.MarkAllRead(ctx, userID)
	}
	return s.notificationRepo.MarkRead(ctx, userID, ids)
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID string) (int, error) {
	return s.notificationRepo.UnreadCount(ctx, userID)
}
