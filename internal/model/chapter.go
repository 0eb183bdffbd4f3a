package model

import (
	"time"
)

type Chapter struct {
	ID          uint64     `gorm:"primaryKey"`
	StoryID     uint64     `gorm:"not null;index:idx_story_number,unique" json:"story_id"`
	Number      int        `gorm:"not null;index:idx_story_number,unique" json:"number"`
	Name        string     `gorm:"type:varchar(255);not null" json:"name"`
	Slug        string     `gorm:"type:varchar(191)" json:"slug"`
	Content     string     `gorm:"type:mediumtext" json:"content"`
	Status      string     `gorm:"type:varchar(20);not null;default:'draft'" json:"status"`
	PublishedAt *time.Time `json:"published_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (Chapter) TableName() string {
	return "chapters"
}
