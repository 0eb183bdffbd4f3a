package dto

import "time"

// StoryBaseDTO 创建/更新作品共用字段
type StoryBaseDTO struct {
	Name        string   `json:"name" binding:"required" validate:"min=1,max=255"`
	Description string   `json:"description" validate:"max=2000"`
	CoverURL    string   `json:"cover_url" validate:"omitempty,max=255"`
	Categories  []uint64 `json:"categories" validate:"max=5"`
}

// StoryDTO 作品详情
type StoryDTO struct {
	ID             uint64        `json:"id"`
	Name           string        `json:"name"`
	Slug           string        `json:"slug"`
	AuthorID       uint64        `json:"author_id"`
	AuthorName     string        `json:"author_name,omitempty"`
	Description    string        `json:"description"`
	CoverURL       string        `json:"cover_url"`
	Status         string        `json:"status"`
	ApprovalStatus string        `json:"approval_status"`
	ChapterCount   int           `json:"chapter_count"`
	ViewsCount     int64         `json:"views_count"`
	BookmarksCount int           `json:"bookmarks_count"`
	AvgRating      float64       `json:"avg_rating"`
	RatingsCount   int           `json:"ratings_count"`
	IsHotDay       bool          `json:"is_hot_day"`
	IsHotWeek      bool          `json:"is_hot_week"`
	IsHotMonth     bool          `json:"is_hot_month"`
	IsHotAllTime   bool          `json:"is_hot_all_time"`
	Categories     []CategoryDTO `json:"categories,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// CategoryDTO 分类
type CategoryDTO struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// StoryPageDTO 作品分页
type StoryPageDTO struct {
	Stories    []*StoryDTO `json:"stories"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	Limit      int         `json:"limit"`
	TotalPages int         `json:"total_pages"`
}

// SearchStoryDTO 搜索作品
type SearchStoryDTO struct {
	Keyword string `form:"keyword" binding:"required"`
	Page    int    `form:"page,default=1" validate:"min=1"`
	Limit   int    `form:"limit,default=20" validate:"min=1,max=100"`
}

// ApproveStoryDTO 审核作品
type ApproveStoryDTO struct {
	ApprovalStatus string `json:"approval_status" binding:"required" validate:"oneof=approved rejected"`
}
