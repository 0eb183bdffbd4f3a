package model

import (
	"time"
)

// Rating 每个用户对每部作品只保留一条记录，重复提交覆盖旧值
type Rating struct {
	ID        uint64    `gorm:"primaryKey"`
	UserID    uint64    `gorm:"not null;index:idx_user_story,unique" json:"user_id"`
	StoryID   uint64    `gorm:"not null;index:idx_user_story,unique;index:idx_rating_story" json:"story_id"`
	Value     int       `gorm:"not null" json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Rating) TableName() string {
	return "ratings"
}
