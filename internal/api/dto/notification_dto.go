package dto

import "time"

// NotificationDTO 通知
type NotificationDTO struct {
	ID        string         `json:"id"`
	SenderID  uint64         `json:"sender_id"`
	Type      int8           `json:"type"`
	TargetID  uint64         `json:"target_id"`
	Content   string         `json:"content"`
	Payload   map[string]any `json:"payload,omitempty"`
	IsRead    bool           `json:"is_read"`
	CreatedAt time.Time      `json:"created_at"`
}

// MarkReadDTO 标记通知已读
type MarkReadDTO struct {
	NotificationID string `json:"notification_id" binding:"required"`
}
