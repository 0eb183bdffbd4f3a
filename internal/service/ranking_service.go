package service

import (
	"Inkstone/internal/api/dto"
	"Inkstone/internal/model"
	"Inkstone/internal/pkg/mongo"
	"Inkstone/internal/pkg/util"
	"Inkstone/internal/repository"
	"context"
	log "log/slog"
	"sort"
	"sync"
	"time"

	"github.com/jinzhu/copier"
)

const (
	// hotFlagTopN 进入热门标记的名次线
	hotFlagTopN = 10
	// hotFlagQueueSize 待回写的榜单批次数，一轮一个批次
	hotFlagQueueSize = 8
)

type RankingService interface {
	// UpdateDailyRankings 计算日榜（昨日统计窗口），返回入榜作品数
	UpdateDailyRankings(ctx context.Context) (int, error)
	// UpdateWeeklyRankings 计算周榜（当前 ISO 周窗口）
	UpdateWeeklyRankings(ctx context.Context) (int, error)
	// UpdateMonthlyRankings 计算月榜（当前月窗口）
	UpdateMonthlyRankings(ctx context.Context) (int, error)
	// UpdateAllTimeRankings 计算总榜（全历史窗口）
	UpdateAllTimeRankings(ctx context.Context) (int, error)
	// UpdateHorizon 按周期名触发单个榜单计算
	UpdateHorizon(ctx context.Context, horizon mongo.Horizon) (int, error)
	// UpdateAllRankings 按 日→周→月→总 的顺序依次计算全部榜单，
	// 全站均分在一轮里只算一次
	UpdateAllRankings(ctx context.Context) (map[string]int, error)
	// GetRankings 当日榜单分页查询，rank=0 的行照常返回
	GetRankings(ctx context.Context, horizon mongo.Horizon, query *dto.RankingQuery) (*dto.RankingPageDTO, error)
}

type rankingServiceImpl struct {
	storyRepo   repository.StoryRepo
	statsRepo   mongo.StoryStatsRepo
	rankingRepo mongo.StoryRankingRepo
	locker      RunLocker

	hotFlagCh chan []hotFlagTask
	hotFlagWg sync.WaitGroup
}

type hotFlagTask struct {
	storyID uint64
	horizon mongo.Horizon
	hot     bool
}

func NewRankingService(
	storyRepo repository.StoryRepo,
	statsRepo mongo.StoryStatsRepo,
	rankingRepo mongo.StoryRankingRepo,
	locker RunLocker,
) RankingService {
	s := &rankingServiceImpl{
		storyRepo:   storyRepo,
		statsRepo:   statsRepo,
		rankingRepo: rankingRepo,
		locker:      locker,
		hotFlagCh:   make(chan []hotFlagTask, hotFlagQueueSize),
	}
	go s.hotFlagWorker()
	return s
}

// rankingEpoch 一轮计算内共享的全站均分，四个周期只算一次
type rankingEpoch struct {
	once sync.Once
	avg  float64
}

// corpusAvg 全站平均分：统计集合聚合失败时退回作品表冗余列，
// 全站一条评分都没有时取默认先验
func (s *rankingServiceImpl) corpusAvg(ctx context.Context, epoch *rankingEpoch) float64 {
	epoch.once.Do(func() {
		epoch.avg = DefaultCorpusAvgRating

		sum, count, err := s.statsRepo.CorpusRating(ctx)
		if err != nil {
			log.WarnContext(ctx, "corpus rating aggregate failed, falling back to story columns", "err", err)
			sum, count, err = s.storyRepo.LegacyRatingTotals(ctx)
			if err != nil {
				log.ErrorContext(ctx, "legacy rating totals failed", "err", err)
				return
			}
		}
		if count > 0 {
			epoch.avg = float64(sum) / float64(count)
		}
	})
	return epoch.avg
}

func (s *rankingServiceImpl) UpdateDailyRankings(ctx context.Context) (int, error) {
	return s.updateHorizon(ctx, mongo.HorizonDaily, &rankingEpoch{})
}

func (s *rankingServiceImpl) UpdateWeeklyRankings(ctx context.Context) (int, error) {
	return s.updateHorizon(ctx, mongo.HorizonWeekly, &rankingEpoch{})
}

func (s *rankingServiceImpl) UpdateMonthlyRankings(ctx context.Context) (int, error) {
	return s.updateHorizon(ctx, mongo.HorizonMonthly, &rankingEpoch{})
}

func (s *rankingServiceImpl) UpdateAllTimeRankings(ctx context.Context) (int, error) {
	return s.updateHorizon(ctx, mongo.HorizonAllTime, &rankingEpoch{})
}

func (s *rankingServiceImpl) UpdateHorizon(ctx context.Context, horizon mongo.Horizon) (int, error) {
	return s.updateHorizon(ctx, horizon, &rankingEpoch{})
}

func (s *rankingServiceImpl) UpdateAllRankings(ctx context.Context) (map[string]int, error) {
	epoch := &rankingEpoch{}
	counts := make(map[string]int, len(mongo.Horizons))
	for _, h := range mongo.Horizons {
		n, err := s.updateHorizon(ctx, h, epoch)
		if err != nil {
			return counts, err
		}
		counts[h.String()] = n
	}
	return counts, nil
}

// updateHorizon 单个周期的榜单计算：取窗口统计 → 候选作品打分 →
// 按分排序赋名次 → 批量落库 → 异步回写热门标记。
// 计算失败不回滚，上一轮落库的结果仍是最后已知有效状态。
func (s *rankingServiceImpl) updateHorizon(ctx context.Context, horizon mongo.Horizon, epoch *rankingEpoch) (int, error) {
	release, ok := s.locker.TryLock(ctx, horizon)
	if !ok {
		log.WarnContext(ctx, "ranking run already in progress, skipping", "horizon", horizon)
		return 0, nil
	}
	defer release()

	now := time.Now()
	window, err := s.statsWindow(ctx, horizon, now)
	if err != nil {
		log.ErrorContext(ctx, "load stats window error", "horizon", horizon, "err", err)
		return 0, err
	}

	stories, err := s.storyRepo.GetEligibleForRanking(ctx)
	if err != nil {
		log.ErrorContext(ctx, "load eligible stories error", "horizon", horizon, "err", err)
		return 0, err
	}
	if len(stories) == 0 {
		log.InfoContext(ctx, "no eligible stories, skipping ranking run", "horizon", horizon)
		return 0, nil
	}

	avgAll := s.corpusAvg(ctx, epoch)

	entries := make([]mongo.RankEntry, 0, len(stories))
	for _, story := range stories {
		score := CalculateBayesianScore(ScoreInput{
			ChapterCount: story.ChapterCount,
			UpdatedAt:    story.UpdatedAt,
			Window:       window[story.ID],
		}, ScoreOptions{
			MinRatings:          DefaultMinRatings,
			AvgRatingAllStories: avgAll,
			Now:                 now,
		})
		entries = append(entries, mongo.RankEntry{StoryID: story.ID, Score: score})
	}

	// 分数降序，同分按作品 ID 升序保证结果确定
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].StoryID < entries[j].StoryID
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}

	if err = s.rankingRepo.BulkUpsertScores(ctx, now, horizon, entries); err != nil {
		log.ErrorContext(ctx, "bulk upsert rankings error", "horizon", horizon, "err", err)
		return 0, err
	}

	batch := make([]hotFlagTask, 0, len(entries))
	for _, e := range entries {
		batch = append(batch, hotFlagTask{storyID: e.StoryID, horizon: horizon, hot: e.Rank <= hotFlagTopN})
	}
	s.enqueueHotFlags(batch)

	log.InfoContext(ctx, "ranking run finished", "horizon", horizon, "ranked", len(entries))
	return len(entries), nil
}

// statsWindow 周期对应的统计聚合窗口
func (s *rankingServiceImpl) statsWindow(ctx context.Context, horizon mongo.Horizon, now time.Time) (map[uint64]*mongo.StatsWindow, error) {
	_, month, year, isoYear, isoWeek := util.CalendarFields(now)
	switch horizon {
	case mongo.HorizonDaily:
		return s.statsRepo.WindowDaily(ctx, util.Yesterday(now))
	case mongo.HorizonWeekly:
		return s.statsRepo.WindowWeekly(ctx, isoWeek, isoYear)
	case mongo.HorizonMonthly:
		return s.statsRepo.WindowMonthly(ctx, month, year)
	default:
		return s.statsRepo.WindowAllTime(ctx)
	}
}

// enqueueHotFlags 整轮的热门标记作为一个批次入队。队列满时阻塞等待：
// 榜单此时已落库，回写慢只是标记晚生效，任务一条都不能丢，
// 否则掉出前十的作品会一直挂着过期的热门标记
func (s *rankingServiceImpl) enqueueHotFlags(batch []hotFlagTask) {
	if len(batch) == 0 {
		return
	}
	s.hotFlagWg.Add(len(batch))
	s.hotFlagCh <- batch
}

// hotFlagWorker 串行消费热门标记回写，单条失败只记日志
func (s *rankingServiceImpl) hotFlagWorker() {
	for batch := range s.hotFlagCh {
		for _, task := range batch {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			if err := s.storyRepo.UpdateHotFlag(ctx, task.storyID, task.horizon, task.hot); err != nil {
				log.Error("update hot flag error", "story_id", task.storyID, "horizon", task.horizon, "err", err)
			}
			cancel()
			s.hotFlagWg.Done()
		}
	}
}

// waitHotFlags 等待队列排空，测试用
func (s *rankingServiceImpl) waitHotFlags() {
	s.hotFlagWg.Wait()
}

func (s *rankingServiceImpl) GetRankings(ctx context.Context, horizon mongo.Horizon, query *dto.RankingQuery) (*dto.RankingPageDTO, error) {
	page := query.Page
	if page < 1 {
		page = 1
	}
	limit := query.Limit
	if limit < 1 {
		limit = 20
	}
	skip := int64((page - 1) * limit)

	now := time.Now()
	rows, err := s.rankingRepo.FindByHorizon(ctx, horizon, now, int64(limit), skip)
	if err != nil {
		return nil, err
	}
	total, err := s.rankingRepo.CountByDate(ctx, now)
	if err != nil {
		return nil, err
	}

	storyIDs := make([]uint64, 0, len(rows))
	for _, row := range rows {
		storyIDs = append(storyIDs, row.StoryID)
	}
	stories, err := s.storyRepo.GetByIDs(ctx, storyIDs)
	if err != nil {
		return nil, err
	}
	storyByID := make(map[uint64]*model.Story, len(stories))
	for _, st := range stories {
		storyByID[st.ID] = st
	}

	items := make([]*dto.RankingItemDTO, 0, len(rows))
	for _, row := range rows {
		story, found := storyByID[row.StoryID]
		if !found {
			// 榜单行与作品表短暂不一致时跳过而不是整页报错
			continue
		}
		if query.Category != "" && !storyHasCategory(story, query.Category) {
			continue
		}

		item := &dto.RankingItemDTO{
			Rank:    row.Rank(horizon),
			Score:   row.Score(horizon),
			StoryID: row.StoryID,
		}
		if err = copier.Copy(item, story); err != nil {
			return nil, err
		}
		item.AuthorID = story.AuthorID
		items = append(items, item)
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &dto.RankingPageDTO{
		Success:    true,
		Rankings:   items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}, nil
}

func storyHasCategory(story *model.Story, slug string) bool {
	for _, c := range story.Categories {
		if c.Slug == slug {
			return true
		}
	}
	return false
}
