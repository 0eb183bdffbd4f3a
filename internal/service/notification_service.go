package service

import (
	"Inkstone/internal/api/dto"
	"Inkstone/internal/pkg/mongo"
	"context"
)

type NotificationService interface {
	ListNotifications(ctx context.Context, userID uint64, page, limit int) ([]*dto.NotificationDTO, error)
	MarkAsRead(ctx context.Context, userID uint64, msgID string) error
	MarkAllAsRead(ctx context.Context, userID uint64) error
	GetUnreadCount(ctx context.Context, userID uint64) (int64, error)
}

type notificationServiceImpl struct {
	notificationRepo mongo.NotificationRepo
}

func NewNotificationService(notificationRepo mongo.NotificationRepo) NotificationService {
	return &notificationServiceImpl{notificationRepo: notificationRepo}
}

func (s *notificationServiceImpl) ListNotifications(ctx context.Context, userID uint64, page, limit int) ([]*dto.NotificationDTO, error) {
	msgs, err := s.notificationRepo.List(ctx, userID, int64(limit), int64((page-1)*limit))
	if err != nil {
		return nil, err
	}

	items := make([]*dto.NotificationDTO, 0, len(msgs))
	for _, msg := range msgs {
		items = append(items, &dto.NotificationDTO{
			ID:        msg.ID.Hex(),
			SenderID:  msg.SenderID,
			Type:      msg.Type,
			TargetID:  msg.TargetID,
			Content:   msg.Content,
			Payload:   msg.Payload,
			IsRead:    msg.IsRead,
			CreatedAt: msg.CreatedAt,
		})
	}
	return items, nil
}

func (s *notificationServiceImpl) MarkAsRead(ctx context.Context, userID uint64, msgID string) error {
	return s.notificationRepo.MarkAsRead(ctx, userID, msgID)
}

func (s *notificationServiceImpl) MarkAllAsRead(ctx context.Context, userID uint64) error {
	return s.notificationRepo.MarkAllAsRead(ctx, userID)
}

func (s *notificationServiceImpl) GetUnreadCount(ctx context.Context, userID uint64) (int64, error) {
	return s.notificationRepo.GetUnreadCount(ctx, userID)
}
