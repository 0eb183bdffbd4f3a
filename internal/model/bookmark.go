package model

import (
	"time"
)

type Bookmark struct {
	ID        uint64    `gorm:"primaryKey"`
	UserID    uint64    `gorm:"not null;index:idx_user_story_bm,unique" json:"user_id"`
	StoryID   uint64    `gorm:"not null;index:idx_user_story_bm,unique;index:idx_bm_story" json:"story_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (Bookmark) TableName() string {
	return "bookmarks"
}
