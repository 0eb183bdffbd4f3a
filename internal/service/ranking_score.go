package service

import (
	"Inkstone/internal/pkg/mongo"
	"Inkstone/internal/pkg/util"
	"math"
	"time"
)

const (
	// DefaultMinRatings 贝叶斯平滑的置信常数，评分条数越少越向全站均值收敛
	DefaultMinRatings = 10
	// DefaultCorpusAvgRating 全站一条评分都没有时的先验均分
	DefaultCorpusAvgRating = 3.5
	// dailyDecayFactor 每天约 3% 的时间衰减
	dailyDecayFactor = 0.97
	// scoreFloor 分数下限，保证任何作品都可排序且不为零
	scoreFloor = 1.0
)

// ScoreInput 打分所需的作品信息与窗口统计。Window 为 nil 按全零处理。
type ScoreInput struct {
	ChapterCount int
	UpdatedAt    time.Time
	Window       *mongo.StatsWindow
}

// ScoreOptions 打分参数。MinRatings <= 0 或 AvgRatingAllStories <= 0 时取默认值。
type ScoreOptions struct {
	MinRatings          float64
	AvgRatingAllStories float64
	Now                 time.Time
}

// CalculateBayesianScore 计算作品在一个聚合窗口下的热度分。
// 纯函数：贝叶斯平滑评分 + 行为量加权 + 按天指数衰减，无评分的作品
// 把评分权重挪给阅读量和章节数并额外压低平滑分。
func CalculateBayesianScore(in ScoreInput, opt ScoreOptions) float64 {
	minRatings := opt.MinRatings
	if minRatings <= 0 {
		minRatings = DefaultMinRatings
	}
	corpusAvg := opt.AvgRatingAllStories
	if corpusAvg <= 0 {
		corpusAvg = DefaultCorpusAvgRating
	}
	now := opt.Now
	if now.IsZero() {
		now = time.Now()
	}

	var views, ratingsCount, comments, bookmarks float64
	var avgRating float64
	if in.Window != nil {
		views = float64(in.Window.Views)
		ratingsCount = float64(in.Window.RatingsCount)
		comments = float64(in.Window.CommentsCount)
		bookmarks = float64(in.Window.BookmarksCount)
		avgRating = in.Window.AvgRating()
	}

	var bayesianRating float64
	if ratingsCount > 0 {
		n := ratingsCount
		bayesianRating = (n/(n+minRatings))*avgRating + (minRatings/(n+minRatings))*corpusAvg
	} else {
		// 完全没有评分的作品相对"平均分作品"刻意压半
		bayesianRating = corpusAvg / 2
	}

	days := 0
	if !in.UpdatedAt.IsZero() {
		days = util.DaysBetween(now, in.UpdatedAt)
	}

	var base float64
	if ratingsCount > 0 {
		base = views*0.4 + avgRating*10*0.3 + bookmarks*0.2 + comments*0.1
	} else {
		base = views*0.6 + bookmarks*0.2 + comments*0.1 + float64(in.ChapterCount)*0.1
	}

	timeAdjusted := base * math.Pow(dailyDecayFactor, float64(days))

	var final float64
	if ratingsCount > 0 {
		final = timeAdjusted*0.7 + bayesianRating*10*0.3
	} else {
		final = timeAdjusted*0.9 + bayesianRating*10*0.1
	}

	return math.Max(scoreFloor, final)
}
