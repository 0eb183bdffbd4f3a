package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const CommentCollection = "comments"

// CommentModel 作品/章节评论
type CommentModel struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	StoryID   uint64              `bson:"story_id" json:"storyId"`
	ChapterID *uint64             `bson:"chapter_id,omitempty" json:"chapterId,omitempty"` // 为空表示作品级评论
	UserID    uint64              `bson:"user_id" json:"userId"`
	RootID    *primitive.ObjectID `bson:"root_id,omitempty" json:"rootId,omitempty"` // 楼中楼的根评论
	Content   string              `bson:"content" json:"content"`
	Status    int8                `bson:"status" json:"status"`
	CreatedAt time.Time           `bson:"created_at" json:"createdAt"`
}
