package mongo

import (
	"Inkstone/internal/pkg/util"
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type StoryStatsRepo interface {
	// IncStats 以 Upsert + $inc 方式把事件增量累计到 (story_id, 当天) 行上
	IncStats(ctx context.Context, storyID uint64, date time.Time, delta StatsDelta) error
	// WindowDaily 日榜窗口：指定日期（通常是昨天）每个作品的统计行
	WindowDaily(ctx context.Context, date time.Time) (map[uint64]*StatsWindow, error)
	// WindowWeekly 周榜窗口：当前 ISO 周内所有行按作品求和。
	// 周必须配 ISO 周年而不是日历年，跨年周两者会错开
	WindowWeekly(ctx context.Context, isoWeek, isoYear int) (map[uint64]*StatsWindow, error)
	// WindowMonthly 月榜窗口：当前月内所有行按作品求和
	WindowMonthly(ctx context.Context, month, year int) (map[uint64]*StatsWindow, error)
	// WindowAllTime 总榜窗口：全历史按作品求和
	WindowAllTime(ctx context.Context) (map[uint64]*StatsWindow, error)
	// CorpusRating 全站评分总和与条数，用于贝叶斯平滑的先验
	CorpusRating(ctx context.Context) (sum int64, count int64, err error)
}

type storyStatsRepoImpl struct {
	col *mongo.Collection
}

func NewStoryStatsRepo(db *mongo.Database) StoryStatsRepo {
	return &storyStatsRepoImpl{col: db.Collection(StatsCollection)}
}

func (s *storyStatsRepoImpl) IncStats(ctx context.Context, storyID uint64, date time.Time, delta StatsDelta) error {
	date = util.GetMidnight(date)
	day, month, year, isoYear, isoWeek := util.CalendarFields(date)

	inc := bson.M{}
	if delta.Views != 0 {
		inc["views"] = delta.Views
	}
	if delta.UniqueViews != 0 {
		inc["unique_views"] = delta.UniqueViews
	}
	if delta.RatingsCount != 0 {
		inc["ratings_count"] = delta.RatingsCount
	}
	if delta.RatingsSum != 0 {
		inc["ratings_sum"] = delta.RatingsSum
	}
	if delta.CommentsCount != 0 {
		inc["comments_count"] = delta.CommentsCount
	}
	if delta.BookmarksCount != 0 {
		inc["bookmarks_count"] = delta.BookmarksCount
	}
	if delta.SharesCount != 0 {
		inc["shares_count"] = delta.SharesCount
	}
	if len(inc) == 0 {
		return nil
	}

	filter := bson.M{"story_id": storyID, "date": date}
	update := bson.M{
		"$inc": inc,
		"$setOnInsert": bson.M{
			"day":      day,
			"month":    month,
			"year":     year,
			"iso_year": isoYear,
			"iso_week": isoWeek,
		},
	}

	_, err := s.col.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

func (s *storyStatsRepoImpl) WindowDaily(ctx context.Context, date time.Time) (map[uint64]*StatsWindow, error) {
	cursor, err := s.col.Find(ctx, bson.M{"date": util.GetMidnight(date)})
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var rows []*StoryStatsModel
	if err = cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	windows := make(map[uint64]*StatsWindow, len(rows))
	for _, row := range rows {
		windows[row.StoryID] = &StatsWindow{
			StoryID:        row.StoryID,
			Views:          row.Views,
			UniqueViews:    row.UniqueViews,
			RatingsCount:   row.RatingsCount,
			RatingsSum:     row.RatingsSum,
			CommentsCount:  row.CommentsCount,
			BookmarksCount: row.BookmarksCount,
			SharesCount:    row.SharesCount,
		}
	}
	return windows, nil
}

func (s *storyStatsRepoImpl) WindowWeekly(ctx context.Context, isoWeek, isoYear int) (map[uint64]*StatsWindow, error) {
	return s.aggregateWindow(ctx, bson.M{"iso_week": isoWeek, "iso_year": isoYear})
}

func (s *storyStatsRepoImpl) WindowMonthly(ctx context.Context, month, year int) (map[uint64]*StatsWindow, error) {
	return s.aggregateWindow(ctx, bson.M{"month": month, "year": year})
}

func (s *storyStatsRepoImpl) WindowAllTime(ctx context.Context) (map[uint64]*StatsWindow, error) {
	return s.aggregateWindow(ctx, bson.M{})
}

// aggregateWindow 按作品分组求和窗口内的各项计数
func (s *storyStatsRepoImpl) aggregateWindow(ctx context.Context, match bson.M) (map[uint64]*StatsWindow, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{
			"_id":             "$story_id",
			"views":           bson.M{"$sum": "$views"},
			"unique_views":    bson.M{"$sum": "$unique_views"},
			"ratings_count":   bson.M{"$sum": "$ratings_count"},
			"ratings_sum":     bson.M{"$sum": "$ratings_sum"},
			"comments_count":  bson.M{"$sum": "$comments_count"},
			"bookmarks_count": bson.M{"$sum": "$bookmarks_count"},
			"shares_count":    bson.M{"$sum": "$shares_count"},
		}}},
	}

	cursor, err := s.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var rows []*StatsWindow
	if err = cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	windows := make(map[uint64]*StatsWindow, len(rows))
	for _, row := range rows {
		windows[row.StoryID] = row
	}
	return windows, nil
}

func (s *storyStatsRepoImpl) CorpusRating(ctx context.Context) (int64, int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":           nil,
			"ratings_sum":   bson.M{"$sum": "$ratings_sum"},
			"ratings_count": bson.M{"$sum": "$ratings_count"},
		}}},
	}

	cursor, err := s.col.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, 0, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var result []struct {
		RatingsSum   int64 `bson:"ratings_sum"`
		RatingsCount int64 `bson:"ratings_count"`
	}
	if err = cursor.All(ctx, &result); err != nil {
		return 0, 0, err
	}
	if len(result) == 0 {
		return 0, 0, nil
	}
	return result[0].RatingsSum, result[0].RatingsCount, nil
}
