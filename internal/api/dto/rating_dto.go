package dto

// RateStoryDTO 给作品评分，1-5 星；重复提交视为修改
type RateStoryDTO struct {
	Value int `json:"value" binding:"required" validate:"min=1,max=5"`
}

// RatingDTO 评分结果
type RatingDTO struct {
	StoryID   uint64  `json:"story_id"`
	Value     int     `json:"value"`
	AvgRating float64 `json:"avg_rating"`
	Count     int     `json:"count"`
}
