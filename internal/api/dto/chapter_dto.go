package dto

import "time"

// ChapterBaseDTO 创建/更新章节共用字段
type ChapterBaseDTO struct {
	Name    string `json:"name" binding:"required" validate:"min=1,max=255"`
	Number  int    `json:"number" binding:"required" validate:"min=1"`
	Content string `json:"content" binding:"required"`
}

// ChapterDTO 章节详情
type ChapterDTO struct {
	ID          uint64     `json:"id"`
	StoryID     uint64     `json:"story_id"`
	Number      int        `json:"number"`
	Name        string     `json:"name"`
	Slug        string     `json:"slug"`
	Content     string     `json:"content,omitempty"`
	Status      string     `json:"status"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// ChapterPageDTO 章节分页
type ChapterPageDTO struct {
	Chapters   []*ChapterDTO `json:"chapters"`
	Total      int64         `json:"total"`
	Page       int           `json:"page"`
	Limit      int           `json:"limit"`
	TotalPages int           `json:"total_pages"`
}
