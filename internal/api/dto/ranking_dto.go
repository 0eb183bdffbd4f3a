package dto

// RankingItemDTO 榜单条目：作品信息 + 当期分数与名次
type RankingItemDTO struct {
	Rank           int           `json:"rank"`
	Score          float64       `json:"score"`
	StoryID        uint64        `json:"story_id"`
	Name           string        `json:"name"`
	Slug           string        `json:"slug"`
	CoverURL       string        `json:"cover_url"`
	Description    string        `json:"description"`
	AuthorID       uint64        `json:"author_id"`
	ChapterCount   int           `json:"chapter_count"`
	ViewsCount     int64         `json:"views_count"`
	BookmarksCount int           `json:"bookmarks_count"`
	IsHotDay       bool          `json:"is_hot_day"`
	IsHotWeek      bool          `json:"is_hot_week"`
	IsHotMonth     bool          `json:"is_hot_month"`
	IsHotAllTime   bool          `json:"is_hot_all_time"`
	Categories     []CategoryDTO `json:"categories,omitempty"`
}

// RankingPageDTO 榜单分页结果
type RankingPageDTO struct {
	Success    bool              `json:"success"`
	Rankings   []*RankingItemDTO `json:"rankings"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"total_pages"`
}

// RankingHorizonCounts 各周期当日 rank>0 的行数
type RankingHorizonCounts struct {
	Daily   int64 `json:"daily"`
	Weekly  int64 `json:"weekly"`
	Monthly int64 `json:"monthly"`
	AllTime int64 `json:"all_time"`
}

// NeedInit 任意一个周期当日没有已排名数据时需要初始化
func (c *RankingHorizonCounts) NeedInit() bool {
	return c.Daily == 0 || c.Weekly == 0 || c.Monthly == 0 || c.AllTime == 0
}

// RankingInitResultDTO 初始化结果，失败时不抛错而是结构化返回
type RankingInitResultDTO struct {
	Success bool           `json:"success"`
	Created bool           `json:"created"`
	Counts  map[string]int `json:"counts,omitempty"`
	Error   string         `json:"error,omitempty"`
}

// RankingStatusDTO 榜单健康状态快照
type RankingStatusDTO struct {
	Counts    *RankingHorizonCounts `json:"counts"`
	Validated map[string]bool       `json:"validated"`
}

// RankingUpdateResultDTO 手动触发计算的结果
type RankingUpdateResultDTO struct {
	Updated map[string]int `json:"updated"`
}

// RankingQuery 榜单查询参数
type RankingQuery struct {
	Page     int    `form:"page,default=1" validate:"min=1"`
	Limit    int    `form:"limit,default=20" validate:"min=1,max=100"`
	Category string `form:"category"`
}
