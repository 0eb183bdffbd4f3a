package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const NotificationCollection = "notifications"

// NotificationModel 用户通知
type NotificationModel struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ReceiverID uint64             `bson:"receiver_id" json:"receiverId"` // 消息接收者ID
	SenderID   uint64             `bson:"sender_id" json:"senderId"`     // 动作发起者ID (系统通知可为0)
	Type       int8               `bson:"type" json:"type"`              // 通知类型: 1-新章节, 2-评论回复, 3-评分, 4-系统
	TargetID   uint64             `bson:"target_id" json:"targetId"`     // 关联的目标ID (作品ID、章节ID)
	Content    string             `bson:"content" json:"content"`        // 通知文案预览
	Payload    map[string]any     `bson:"payload" json:"payload"`        // 额外元数据 (可选，如作品名快照)
	IsRead     bool               `bson:"is_read" json:"isRead"`
	CreatedAt  time.Time          `bson:"created_at" json:"createdAt"`
}
