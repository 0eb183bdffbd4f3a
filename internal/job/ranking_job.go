package job

import (
	"Inkstone/internal/pkg/logger"
	"Inkstone/internal/pkg/mongo"
	"Inkstone/internal/service"
	"context"
	log "log/slog"

	"github.com/google/uuid"
)

// RankingJob 单个周期的榜单计算任务，一个周期挂一个 cron 触发点
type RankingJob struct {
	horizon        mongo.Horizon
	rankingService service.RankingService
}

func NewRankingJob(horizon mongo.Horizon, rankingService service.RankingService) *RankingJob {
	return &RankingJob{
		horizon:        horizon,
		rankingService: rankingService,
	}
}

func (s *RankingJob) Run() {
	traceID := "job-ranking-" + s.horizon.String() + "-" + uuid.NewString()
	ctx := context.WithValue(context.Background(), logger.TraceIDKey, traceID)

	count, err := s.rankingService.UpdateHorizon(ctx, s.horizon)
	if err != nil {
		// 失败不重试，上一轮的榜单数据继续生效
		log.ErrorContext(ctx, "scheduled ranking run error", "horizon", s.horizon, "err", err)
		return
	}
	log.InfoContext(ctx, "scheduled ranking run finished", "horizon", s.horizon, "ranked", count)
}
