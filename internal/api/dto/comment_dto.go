package dto

import "time"

// CreateCommentDTO 发表评论
type CreateCommentDTO struct {
	StoryID   uint64  `json:"story_id" binding:"required"`
	ChapterID *uint64 `json:"chapter_id"`
	RootID    *string `json:"root_id"`
	Content   string  `json:"content" binding:"required" validate:"min=1,max=1000"`
}

// CommentDTO 评论
type CommentDTO struct {
	ID        string    `json:"id"`
	StoryID   uint64    `json:"story_id"`
	ChapterID *uint64   `json:"chapter_id,omitempty"`
	UserID    uint64    `json:"user_id"`
	Nickname  string    `json:"nickname,omitempty"`
	RootID    *string   `json:"root_id,omitempty"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// CommentPageDTO 评论分页
type CommentPageDTO struct {
	Comments   []*CommentDTO `json:"comments"`
	Total      int64         `json:"total"`
	Page       int           `json:"page"`
	Limit      int           `json:"limit"`
	TotalPages int           `json:"total_pages"`
}
