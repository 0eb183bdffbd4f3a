package model

import (
	"time"
)

// Story 作品主表。RatingSum/RatingCount 是评分的冗余累计值，
// 榜单计算在统计聚合不可用时退回到这两列估算全站平均分。
type Story struct {
	ID             uint64 `gorm:"primaryKey"`
	Name           string `gorm:"type:varchar(255);not null" json:"name"`
	Slug           string `gorm:"type:varchar(191);uniqueIndex:idx_story_slug;not null" json:"slug"`
	AuthorID       uint64 `gorm:"not null;index:idx_author_id" json:"author_id"`
	Description    string `gorm:"type:text" json:"description"`
	CoverURL       string `gorm:"type:varchar(255)" json:"cover_url"`
	Status         string `gorm:"type:varchar(20);not null;default:'draft';index:idx_status" json:"status"`
	ApprovalStatus string `gorm:"type:varchar(20);not null;default:'pending';index:idx_status" json:"approval_status"`
	ChapterCount   int    `gorm:"not null;default:0" json:"chapter_count"`
	ViewsCount     int64  `gorm:"not null;default:0" json:"views_count"`
	BookmarksCount int    `gorm:"not null;default:0" json:"bookmarks_count"`
	RatingSum      int64  `gorm:"not null;default:0" json:"rating_sum"`
	RatingCount    int64  `gorm:"not null;default:0" json:"rating_count"`

	// 各周期 Top 10 标记，由榜单计算异步回写
	IsHotDay     bool `gorm:"type:tinyint(1);not null;default:0" json:"is_hot_day"`
	IsHotWeek    bool `gorm:"type:tinyint(1);not null;default:0" json:"is_hot_week"`
	IsHotMonth   bool `gorm:"type:tinyint(1);not null;default:0" json:"is_hot_month"`
	IsHotAllTime bool `gorm:"type:tinyint(1);not null;default:0" json:"is_hot_all_time"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Author     User       `gorm:"foreignKey:AuthorID;references:ID"`
	Categories []Category `gorm:"many2many:story_categories"`
}

func (Story) TableName() string {
	return "stories"
}
