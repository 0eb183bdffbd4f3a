package job

import (
	"Inkstone/internal/pkg/consts"
	"Inkstone/internal/pkg/logger"
	"Inkstone/internal/pkg/mongo"
	"Inkstone/internal/pkg/redis"
	"Inkstone/internal/pkg/util"
	"context"
	log "log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// DailyStatsJob 统计归档：把前一天的 Redis 阅读/分享计数
// 按脏集合逐作品刷进 Mongo 统计行。跑在凌晨，归档的是刚结束的那一天。
type DailyStatsJob struct {
	statsRepo mongo.StoryStatsRepo
}

func NewDailyStatsJob(statsRepo mongo.StoryStatsRepo) *DailyStatsJob {
	return &DailyStatsJob{statsRepo: statsRepo}
}

func (s *DailyStatsJob) Run() {
	traceID := "job-stats-" + uuid.NewString()
	ctx := context.WithValue(context.Background(), logger.TraceIDKey, traceID)

	yesterday := util.Yesterday(time.Now())
	dayKey := util.DayKey(yesterday)

	dirtyKey := consts.StoryDirtyKey + dayKey
	processingKey := dirtyKey + ":processing"
	if err := redis.Rename(ctx, dirtyKey, processingKey); err != nil {
		if redis.IsKeyMissing(err) {
			// 没有脏集合说明当天没有阅读行为
			log.InfoContext(ctx, "no dirty stories for yesterday, nothing to roll up", "day", dayKey)
			return
		}
		// Redis 故障不能当没数据处理，留着脏集合下次再试
		log.ErrorContext(ctx, "claim dirty set error", "key", dirtyKey, "err", err)
		return
	}

	tempSet, err := redis.GetSet(ctx, processingKey)
	if err != nil {
		log.ErrorContext(ctx, "get story dirty set error", "err", err)
		return
	}
	storyIDs, err := util.StrSliceToUInt64Slice(tempSet)
	if err != nil {
		log.ErrorContext(ctx, "convert story set to int slice error", "err", err)
		return
	}

	log.InfoContext(ctx, "start rolling up story stats", "count", len(storyIDs))

	synced := 0
	for _, sid := range storyIDs {
		idStr := strconv.FormatUint(sid, 10)
		viewKey := consts.StoryViewKey + dayKey + ":" + idStr
		uvKey := consts.StoryUniqueViewKey + dayKey + ":" + idStr
		shareKey := consts.StoryShareKey + dayKey + ":" + idStr

		views := readCounter(ctx, viewKey)
		shares := readCounter(ctx, shareKey)
		uniqueViews, err := redis.PFCountKey(ctx, uvKey)
		if err != nil {
			log.ErrorContext(ctx, "get unique view count error", "sid", sid, "err", err)
		}
		if views == 0 && shares == 0 && uniqueViews == 0 {
			continue
		}

		err = s.statsRepo.IncStats(ctx, sid, yesterday, mongo.StatsDelta{
			Views:       views,
			UniqueViews: uniqueViews,
			SharesCount: shares,
		})
		if err != nil {
			log.ErrorContext(ctx, "roll up story stats error", "sid", sid, "err", err)
			continue
		}
		synced++

		_ = redis.DeleteKey(ctx, viewKey, uvKey, shareKey)
	}

	if err = redis.DeleteKey(ctx, processingKey); err != nil {
		log.ErrorContext(ctx, "delete story processing set error", "err", err)
	}

	log.InfoContext(ctx, "story stats rollup finished", "dirty", len(storyIDs), "synced", synced)
}

func readCounter(ctx context.Context, key string) int64 {
	val, err := redis.GetValue(ctx, key)
	if err != nil || val == "" {
		return 0
	}
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
