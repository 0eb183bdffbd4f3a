package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const StatsCollection = "story_stats"

// StoryStatsModel 作品按天累计的行为统计，一 (story_id, date) 一行。
// day/month/year/iso_year/iso_week 是写入时冗余的日历字段，
// 周榜/月榜聚合直接按它们过滤，读路径不做日期换算。month 从 0 开始，
// 周窗口按 (iso_week, iso_year) 过滤，跨年周不丢前一年年末的行。
type StoryStatsModel struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	StoryID        uint64             `bson:"story_id"`
	Date           time.Time          `bson:"date"`
	Views          int64              `bson:"views"`
	UniqueViews    int64              `bson:"unique_views"`
	RatingsCount   int64              `bson:"ratings_count"`
	RatingsSum     int64              `bson:"ratings_sum"`
	CommentsCount  int64              `bson:"comments_count"`
	BookmarksCount int64              `bson:"bookmarks_count"`
	SharesCount    int64              `bson:"shares_count"`
	Day            int                `bson:"day"`
	Month          int                `bson:"month"`
	Year           int                `bson:"year"`
	ISOYear        int                `bson:"iso_year"`
	ISOWeek        int                `bson:"iso_week"`
}

// StatsDelta 一次行为事件对统计行的增量。
// 评分修改时 RatingsSum 允许为负（先减旧值再加新值），其余只增不减。
type StatsDelta struct {
	Views          int64
	UniqueViews    int64
	RatingsCount   int64
	RatingsSum     int64
	CommentsCount  int64
	BookmarksCount int64
	SharesCount    int64
}

// StatsWindow 某个作品在一个聚合窗口内的统计汇总，喂给打分引擎
type StatsWindow struct {
	StoryID        uint64 `bson:"_id"`
	Views          int64  `bson:"views"`
	UniqueViews    int64  `bson:"unique_views"`
	RatingsCount   int64  `bson:"ratings_count"`
	RatingsSum     int64  `bson:"ratings_sum"`
	CommentsCount  int64  `bson:"comments_count"`
	BookmarksCount int64  `bson:"bookmarks_count"`
	SharesCount    int64  `bson:"shares_count"`
}

// AvgRating 窗口内平均分，无评分时为 0
func (w *StatsWindow) AvgRating() float64 {
	if w == nil || w.RatingsCount == 0 {
		return 0
	}
	return float64(w.RatingsSum) / float64(w.RatingsCount)
}
