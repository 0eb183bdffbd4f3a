package es

import "time"

// StoryES 写入 ES 的作品文档，只收录已发布且审核通过的作品
type StoryES struct {
	ID             uint64    `json:"id"`
	Name           string    `json:"name"`
	Slug           string    `json:"slug"`
	AuthorID       uint64    `json:"author_id"`
	AuthorNickname string    `json:"author_nickname"`
	Description    string    `json:"description"`
	Categories     []string  `json:"categories"`
	ChapterCount   int       `json:"chapter_count"`
	ViewsCount     int64     `json:"views_count"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
