package service

import (
	"Inkstone/internal/api/dto"
	"Inkstone/internal/pkg/mongo"
	"context"
	log "log/slog"
	"time"
)

// RankingInitService 榜单自愈：定时任务没跑（首次部署、错过触发点）时
// 由启动流程或读路径兜底补算，保证读接口永远有数据可返回。
type RankingInitService interface {
	// CheckExistingRankings 各周期当日 rank>0 的行数
	CheckExistingRankings(ctx context.Context) (*dto.RankingHorizonCounts, error)
	// InitializeOnStartup 任一周期缺数据则全量补算。
	// 错误不向上抛，结构化返回，启动流程不能因此失败。
	InitializeOnStartup(ctx context.Context) *dto.RankingInitResultDTO
	// ValidateRankingAPIs 每个周期的读路径冒烟：当日至少能查到一行
	ValidateRankingAPIs(ctx context.Context) map[string]bool
	// GetStatus 健康状态快照
	GetStatus(ctx context.Context) (*dto.RankingStatusDTO, error)
}

type rankingInitServiceImpl struct {
	rankingRepo    mongo.StoryRankingRepo
	rankingService RankingService
}

func NewRankingInitService(rankingRepo mongo.StoryRankingRepo, rankingService RankingService) RankingInitService {
	return &rankingInitServiceImpl{
		rankingRepo:    rankingRepo,
		rankingService: rankingService,
	}
}

func (s *rankingInitServiceImpl) CheckExistingRankings(ctx context.Context) (*dto.RankingHorizonCounts, error) {
	now := time.Now()
	counts := &dto.RankingHorizonCounts{}
	for _, h := range mongo.Horizons {
		n, err := s.rankingRepo.CountRanked(ctx, h, now)
		if err != nil {
			return nil, err
		}
		switch h {
		case mongo.HorizonDaily:
			counts.Daily = n
		case mongo.HorizonWeekly:
			counts.Weekly = n
		case mongo.HorizonMonthly:
			counts.Monthly = n
		default:
			counts.AllTime = n
		}
	}
	return counts, nil
}

func (s *rankingInitServiceImpl) InitializeOnStartup(ctx context.Context) *dto.RankingInitResultDTO {
	counts, err := s.CheckExistingRankings(ctx)
	if err != nil {
		log.ErrorContext(ctx, "check existing rankings error", "err", err)
		return &dto.RankingInitResultDTO{Success: false, Error: err.Error()}
	}
	if !counts.NeedInit() {
		log.InfoContext(ctx, "rankings already present for today, skipping init")
		return &dto.RankingInitResultDTO{Success: true, Created: false}
	}

	created, err := s.rankingService.UpdateAllRankings(ctx)
	if err != nil {
		log.ErrorContext(ctx, "ranking initialization error", "err", err)
		return &dto.RankingInitResultDTO{Success: false, Created: false, Counts: created, Error: err.Error()}
	}

	log.InfoContext(ctx, "rankings initialized", "counts", created)
	return &dto.RankingInitResultDTO{Success: true, Created: true, Counts: created}
}

func (s *rankingInitServiceImpl) ValidateRankingAPIs(ctx context.Context) map[string]bool {
	now := time.Now()
	result := make(map[string]bool, len(mongo.Horizons))
	for _, h := range mongo.Horizons {
		rows, err := s.rankingRepo.FindByHorizon(ctx, h, now, 1, 0)
		if err != nil {
			log.WarnContext(ctx, "ranking smoke check error", "horizon", h, "err", err)
			result[h.String()] = false
			continue
		}
		result[h.String()] = len(rows) > 0
	}
	return result
}

func (s *rankingInitServiceImpl) GetStatus(ctx context.Context) (*dto.RankingStatusDTO, error) {
	counts, err := s.CheckExistingRankings(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.RankingStatusDTO{
		Counts:    counts,
		Validated: s.ValidateRankingAPIs(ctx),
	}, nil
}
