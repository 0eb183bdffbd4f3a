package mongo

import (
	"Inkstone/internal/pkg/util"
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type StoryRankingRepo interface {
	// BulkUpsertScores 一次计算的全部结果按 (story_id, date) 批量落库。
	// 只改写本周期的 score/rank 字段；日榜是当天首个写入，额外补日历字段。
	BulkUpsertScores(ctx context.Context, date time.Time, horizon Horizon, entries []RankEntry) error
	// FindByHorizon 当天的榜单行，按该周期名次升序。rank=0 的行不过滤，
	// 某周期还没算时照样返回默认行而不是空列表。
	FindByHorizon(ctx context.Context, horizon Horizon, date time.Time, limit, skip int64) ([]*StoryRankingModel, error)
	// CountByDate 当天所有榜单行数，与 FindByHorizon 同口径
	CountByDate(ctx context.Context, date time.Time) (int64, error)
	// CountRanked 当天该周期 rank>0 的行数，初始化检查用
	CountRanked(ctx context.Context, horizon Horizon, date time.Time) (int64, error)
}

type storyRankingRepoImpl struct {
	col *mongo.Collection
}

func NewStoryRankingRepo(db *mongo.Database) StoryRankingRepo {
	return &storyRankingRepoImpl{col: db.Collection(RankingCollection)}
}

func (s *storyRankingRepoImpl) BulkUpsertScores(ctx context.Context, date time.Time, horizon Horizon, entries []RankEntry) error {
	if len(entries) == 0 {
		return nil
	}

	date = util.GetMidnight(date)
	day, month, year, isoYear, isoWeek := util.CalendarFields(date)

	writes := make([]mongo.WriteModel, 0, len(entries))
	for _, e := range entries {
		set := bson.M{
			horizon.ScoreField(): e.Score,
			horizon.RankField():  e.Rank,
		}
		if horizon == HorizonDaily {
			set["day"] = day
			set["month"] = month
			set["year"] = year
			set["iso_year"] = isoYear
			set["iso_week"] = isoWeek
		}

		writes = append(writes, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"story_id": e.StoryID, "date": date}).
			SetUpdate(bson.M{"$set": set}).
			SetUpsert(true))
	}

	_, err := s.col.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(false))
	return err
}

func (s *storyRankingRepoImpl) FindByHorizon(ctx context.Context, horizon Horizon, date time.Time, limit, skip int64) ([]*StoryRankingModel, error) {
	filter := bson.M{"date": util.GetMidnight(date)}
	opts := options.Find().
		SetSort(bson.D{{Key: horizon.RankField(), Value: 1}}).
		SetLimit(limit).
		SetSkip(skip)

	cursor, err := s.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var rows []*StoryRankingModel
	if err = cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *storyRankingRepoImpl) CountByDate(ctx context.Context, date time.Time) (int64, error) {
	return s.col.CountDocuments(ctx, bson.M{"date": util.GetMidnight(date)})
}

func (s *storyRankingRepoImpl) CountRanked(ctx context.Context, horizon Horizon, date time.Time) (int64, error) {
	filter := bson.M{
		"date":              util.GetMidnight(date),
		horizon.RankField(): bson.M{"$gt": 0},
	}
	return s.col.CountDocuments(ctx, filter)
}
