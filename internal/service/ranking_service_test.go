package service

import (
	"Inkstone/internal/api/dto"
	"Inkstone/internal/model"
	"Inkstone/internal/pkg/consts"
	"Inkstone/internal/pkg/mongo"
	"Inkstone/internal/pkg/util"
	"Inkstone/internal/repository"
	"context"
	"fmt"
	"sync"
	"testing"
	"time"
)

type fakeStoryRepo struct {
	repository.StoryRepo

	mu            sync.Mutex
	stories       []*model.Story
	hotFlags      map[string]bool
	hotFlagWrites int
}

func newFakeStoryRepo(stories ...*model.Story) *fakeStoryRepo {
	return &fakeStoryRepo{stories: stories, hotFlags: make(map[string]bool)}
}

func (f *fakeStoryRepo) GetEligibleForRanking(_ context.Context) ([]*model.Story, error) {
	var eligible []*model.Story
	for _, s := range f.stories {
		if s.Status == consts.StoryStatusPublished && s.ApprovalStatus == consts.ApprovalStatusApproved {
			eligible = append(eligible, s)
		}
	}
	return eligible, nil
}

func (f *fakeStoryRepo) GetByIDs(_ context.Context, ids []uint64) ([]*model.Story, error) {
	byID := make(map[uint64]*model.Story, len(f.stories))
	for _, s := range f.stories {
		byID[s.ID] = s
	}
	var out []*model.Story
	for _, id := range ids {
		if s, ok := byID[id]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeStoryRepo) UpdateHotFlag(_ context.Context, storyID uint64, horizon mongo.Horizon, hot bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hotFlags[fmt.Sprintf("%d:%s", storyID, horizon)] = hot
	f.hotFlagWrites++
	return nil
}

func (f *fakeStoryRepo) LegacyRatingTotals(_ context.Context) (int64, int64, error) {
	return 0, 0, nil
}

type fakeStatsRepo struct {
	windows map[uint64]*mongo.StatsWindow

	mu               sync.Mutex
	corpusRatingHits int
}

func (f *fakeStatsRepo) IncStats(context.Context, uint64, time.Time, mongo.StatsDelta) error {
	return nil
}

func (f *fakeStatsRepo) WindowDaily(context.Context, time.Time) (map[uint64]*mongo.StatsWindow, error) {
	return f.windows, nil
}

func (f *fakeStatsRepo) WindowWeekly(context.Context, int, int) (map[uint64]*mongo.StatsWindow, error) {
	return f.windows, nil
}

func (f *fakeStatsRepo) WindowMonthly(context.Context, int, int) (map[uint64]*mongo.StatsWindow, error) {
	return f.windows, nil
}

func (f *fakeStatsRepo) WindowAllTime(context.Context) (map[uint64]*mongo.StatsWindow, error) {
	return f.windows, nil
}

func (f *fakeStatsRepo) CorpusRating(context.Context) (int64, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.corpusRatingHits++
	var sum, count int64
	for _, w := range f.windows {
		sum += w.RatingsSum
		count += w.RatingsCount
	}
	return sum, count, nil
}

type fakeRankingRepo struct {
	mu     sync.Mutex
	rows   map[uint64]*mongo.StoryRankingModel
	writes int
}

func newFakeRankingRepo() *fakeRankingRepo {
	return &fakeRankingRepo{rows: make(map[uint64]*mongo.StoryRankingModel)}
}

func (f *fakeRankingRepo) BulkUpsertScores(_ context.Context, date time.Time, horizon mongo.Horizon, entries []mongo.RankEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes++
	for _, e := range entries {
		row, ok := f.rows[e.StoryID]
		if !ok {
			row = &mongo.StoryRankingModel{StoryID: e.StoryID, Date: util.GetMidnight(date)}
			f.rows[e.StoryID] = row
		}
		switch horizon {
		case mongo.HorizonDaily:
			row.DailyScore, row.DailyRank = e.Score, e.Rank
		case mongo.HorizonWeekly:
			row.WeeklyScore, row.WeeklyRank = e.Score, e.Rank
		case mongo.HorizonMonthly:
			row.MonthlyScore, row.MonthlyRank = e.Score, e.Rank
		default:
			row.AllTimeScore, row.AllTimeRank = e.Score, e.Rank
		}
	}
	return nil
}

func (f *fakeRankingRepo) FindByHorizon(_ context.Context, horizon mongo.Horizon, _ time.Time, limit, skip int64) ([]*mongo.StoryRankingModel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var rows []*mongo.StoryRankingModel
	for _, row := range f.rows {
		rows = append(rows, row)
	}
	for i := 0; i < len(rows); i++ {
		for j := i + 1; j < len(rows); j++ {
			if rows[j].Rank(horizon) < rows[i].Rank(horizon) {
				rows[i], rows[j] = rows[j], rows[i]
			}
		}
	}
	if skip >= int64(len(rows)) {
		return nil, nil
	}
	rows = rows[skip:]
	if int64(len(rows)) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

func (f *fakeRankingRepo) CountByDate(context.Context, time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.rows)), nil
}

func (f *fakeRankingRepo) CountRanked(_ context.Context, horizon mongo.Horizon, _ time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, row := range f.rows {
		if row.Rank(horizon) > 0 {
			n++
		}
	}
	return n, nil
}

type allowLocker struct{}

func (allowLocker) TryLock(context.Context, mongo.Horizon) (func(), bool) {
	return func() {}, true
}

type denyLocker struct{}

func (denyLocker) TryLock(context.Context, mongo.Horizon) (func(), bool) {
	return nil, false
}

func publishedStory(id uint64, updatedAt time.Time) *model.Story {
	return &model.Story{
		ID:             id,
		Name:           fmt.Sprintf("story-%d", id),
		Slug:           fmt.Sprintf("story-%d", id),
		Status:         consts.StoryStatusPublished,
		ApprovalStatus: consts.ApprovalStatusApproved,
		ChapterCount:   5,
		UpdatedAt:      updatedAt,
	}
}

func newRankingFixture(storyRepo *fakeStoryRepo, statsRepo *fakeStatsRepo, rankingRepo *fakeRankingRepo) *rankingServiceImpl {
	svc := NewRankingService(storyRepo, statsRepo, rankingRepo, allowLocker{})
	return svc.(*rankingServiceImpl)
}

func TestUpdateDailyRankings_DenseRanks(t *testing.T) {
	now := time.Now()
	storyRepo := newFakeStoryRepo(
		publishedStory(1, now), publishedStory(2, now), publishedStory(3, now),
		publishedStory(4, now), publishedStory(5, now),
	)
	statsRepo := &fakeStatsRepo{windows: map[uint64]*mongo.StatsWindow{
		1: {StoryID: 1, Views: 100},
		2: {StoryID: 2, Views: 300},
		3: {StoryID: 3, Views: 50},
		// 4 和 5 没有统计行，按全零打分，同分靠 ID 定序
	}}
	rankingRepo := newFakeRankingRepo()
	svc := newRankingFixture(storyRepo, statsRepo, rankingRepo)

	n, err := svc.UpdateDailyRankings(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if n != 5 {
		t.Fatalf("ranked = %d, want 5", n)
	}

	seen := make(map[int]uint64)
	for _, row := range rankingRepo.rows {
		rank := row.DailyRank
		if rank < 1 || rank > 5 {
			t.Errorf("story %d rank = %d, want 1..5", row.StoryID, rank)
		}
		if prev, dup := seen[rank]; dup {
			t.Errorf("rank %d assigned to both %d and %d", rank, prev, row.StoryID)
		}
		seen[rank] = row.StoryID
	}
	if len(seen) != 5 {
		t.Fatalf("distinct ranks = %d, want 5", len(seen))
	}

	// 阅读量最高的排第一，同分的 4、5 按 ID 升序
	if seen[1] != 2 {
		t.Errorf("rank 1 = story %d, want 2", seen[1])
	}
	if seen[4] != 4 || seen[5] != 5 {
		t.Errorf("tie order = %d,%d, want 4,5", seen[4], seen[5])
	}
}

func TestUpdateDailyRankings_HotFlagsTopTen(t *testing.T) {
	now := time.Now()
	storyRepo := newFakeStoryRepo()
	windows := make(map[uint64]*mongo.StatsWindow)
	for id := uint64(1); id <= 12; id++ {
		storyRepo.stories = append(storyRepo.stories, publishedStory(id, now))
		windows[id] = &mongo.StatsWindow{StoryID: id, Views: int64(1000 - id*10)}
	}
	statsRepo := &fakeStatsRepo{windows: windows}
	rankingRepo := newFakeRankingRepo()
	svc := newRankingFixture(storyRepo, statsRepo, rankingRepo)

	if _, err := svc.UpdateDailyRankings(context.Background()); err != nil {
		t.Fatal(err)
	}
	svc.waitHotFlags()

	for _, row := range rankingRepo.rows {
		want := row.DailyRank <= hotFlagTopN
		got := storyRepo.hotFlags[fmt.Sprintf("%d:%s", row.StoryID, mongo.HorizonDaily)]
		if got != want {
			t.Errorf("story %d rank %d: hot = %v, want %v", row.StoryID, row.DailyRank, got, want)
		}
	}
}

func TestUpdateDailyRankings_HotFlagsLargeCorpus(t *testing.T) {
	now := time.Now()
	storyRepo := newFakeStoryRepo()
	const total = 3000
	windows := make(map[uint64]*mongo.StatsWindow, total)
	for id := uint64(1); id <= total; id++ {
		storyRepo.stories = append(storyRepo.stories, publishedStory(id, now))
		windows[id] = &mongo.StatsWindow{StoryID: id, Views: int64(total - id)}
	}
	// 上一轮挂上的热门标记，这轮排在末位，必须被清掉
	staleKey := fmt.Sprintf("%d:%s", uint64(total), mongo.HorizonDaily)
	storyRepo.hotFlags[staleKey] = true

	statsRepo := &fakeStatsRepo{windows: windows}
	rankingRepo := newFakeRankingRepo()
	svc := newRankingFixture(storyRepo, statsRepo, rankingRepo)

	n, err := svc.UpdateDailyRankings(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if n != total {
		t.Fatalf("ranked = %d, want %d", n, total)
	}
	svc.waitHotFlags()

	// 每个入榜作品恰好回写一次，规模再大也不丢任务
	if storyRepo.hotFlagWrites != total {
		t.Fatalf("hot flag writes = %d, want %d", storyRepo.hotFlagWrites, total)
	}
	if storyRepo.hotFlags[staleKey] {
		t.Error("stale hot flag not cleared for story out of top ranks")
	}
	for _, row := range rankingRepo.rows {
		want := row.DailyRank <= hotFlagTopN
		got := storyRepo.hotFlags[fmt.Sprintf("%d:%s", row.StoryID, mongo.HorizonDaily)]
		if got != want {
			t.Fatalf("story %d rank %d: hot = %v, want %v", row.StoryID, row.DailyRank, got, want)
		}
	}
}

func TestUpdateDailyRankings_Idempotent(t *testing.T) {
	now := time.Now()
	storyRepo := newFakeStoryRepo(publishedStory(1, now), publishedStory(2, now), publishedStory(3, now))
	statsRepo := &fakeStatsRepo{windows: map[uint64]*mongo.StatsWindow{
		1: {StoryID: 1, Views: 10, RatingsCount: 4, RatingsSum: 18},
		2: {StoryID: 2, Views: 90},
	}}
	rankingRepo := newFakeRankingRepo()
	svc := newRankingFixture(storyRepo, statsRepo, rankingRepo)

	if _, err := svc.UpdateDailyRankings(context.Background()); err != nil {
		t.Fatal(err)
	}
	first := make(map[uint64]mongo.StoryRankingModel, len(rankingRepo.rows))
	for id, row := range rankingRepo.rows {
		first[id] = *row
	}

	if _, err := svc.UpdateDailyRankings(context.Background()); err != nil {
		t.Fatal(err)
	}
	for id, row := range rankingRepo.rows {
		if row.DailyRank != first[id].DailyRank || row.DailyScore != first[id].DailyScore {
			t.Errorf("story %d changed on re-run: rank %d->%d score %f->%f",
				id, first[id].DailyRank, row.DailyRank, first[id].DailyScore, row.DailyScore)
		}
	}
}

func TestUpdateDailyRankings_EligibilityGate(t *testing.T) {
	now := time.Now()
	draft := publishedStory(2, now)
	draft.Status = consts.StoryStatusDraft
	pending := publishedStory(3, now)
	pending.ApprovalStatus = consts.ApprovalStatusPending
	storyRepo := newFakeStoryRepo(publishedStory(1, now), draft, pending)
	statsRepo := &fakeStatsRepo{windows: map[uint64]*mongo.StatsWindow{
		2: {StoryID: 2, Views: 9999},
		3: {StoryID: 3, Views: 9999},
	}}
	rankingRepo := newFakeRankingRepo()
	svc := newRankingFixture(storyRepo, statsRepo, rankingRepo)

	n, err := svc.UpdateDailyRankings(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("ranked = %d, want 1", n)
	}
	if _, ok := rankingRepo.rows[2]; ok {
		t.Error("draft story must not be ranked")
	}
	if _, ok := rankingRepo.rows[3]; ok {
		t.Error("unapproved story must not be ranked")
	}
}

func TestUpdateDailyRankings_EmptyCorpus(t *testing.T) {
	storyRepo := newFakeStoryRepo()
	statsRepo := &fakeStatsRepo{windows: map[uint64]*mongo.StatsWindow{}}
	rankingRepo := newFakeRankingRepo()
	svc := newRankingFixture(storyRepo, statsRepo, rankingRepo)

	n, err := svc.UpdateDailyRankings(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Fatalf("ranked = %d, want 0", n)
	}
	if rankingRepo.writes != 0 {
		t.Fatalf("writes = %d, want 0", rankingRepo.writes)
	}
}

func TestUpdateDailyRankings_LockContention(t *testing.T) {
	now := time.Now()
	storyRepo := newFakeStoryRepo(publishedStory(1, now))
	statsRepo := &fakeStatsRepo{windows: map[uint64]*mongo.StatsWindow{}}
	rankingRepo := newFakeRankingRepo()
	svc := NewRankingService(storyRepo, statsRepo, rankingRepo, denyLocker{})

	n, err := svc.UpdateDailyRankings(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 || rankingRepo.writes != 0 {
		t.Fatalf("contended run must be a no-op, got n=%d writes=%d", n, rankingRepo.writes)
	}
}

func TestUpdateAllRankings_SharedCorpusAverage(t *testing.T) {
	now := time.Now()
	storyRepo := newFakeStoryRepo(publishedStory(1, now), publishedStory(2, now))
	statsRepo := &fakeStatsRepo{windows: map[uint64]*mongo.StatsWindow{
		1: {StoryID: 1, Views: 10, RatingsCount: 2, RatingsSum: 8},
	}}
	rankingRepo := newFakeRankingRepo()
	svc := newRankingFixture(storyRepo, statsRepo, rankingRepo)

	counts, err := svc.UpdateAllRankings(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	for _, h := range mongo.Horizons {
		if counts[h.String()] != 2 {
			t.Errorf("%s ranked = %d, want 2", h, counts[h.String()])
		}
	}
	if statsRepo.corpusRatingHits != 1 {
		t.Errorf("corpus rating computed %d times in one batch, want 1", statsRepo.corpusRatingHits)
	}
}

func TestGetRankings_Pagination(t *testing.T) {
	now := time.Now()
	storyRepo := newFakeStoryRepo()
	windows := make(map[uint64]*mongo.StatsWindow)
	for id := uint64(1); id <= 5; id++ {
		storyRepo.stories = append(storyRepo.stories, publishedStory(id, now))
		windows[id] = &mongo.StatsWindow{StoryID: id, Views: int64(100 - id)}
	}
	statsRepo := &fakeStatsRepo{windows: windows}
	rankingRepo := newFakeRankingRepo()
	svc := newRankingFixture(storyRepo, statsRepo, rankingRepo)

	if _, err := svc.UpdateDailyRankings(context.Background()); err != nil {
		t.Fatal(err)
	}

	page, err := svc.GetRankings(context.Background(), mongo.HorizonDaily, &dto.RankingQuery{Page: 2, Limit: 2})
	if err != nil {
		t.Fatal(err)
	}
	if page.Total != 5 || page.TotalPages != 3 {
		t.Fatalf("total = %d totalPages = %d, want 5/3", page.Total, page.TotalPages)
	}
	if len(page.Rankings) != 2 {
		t.Fatalf("items = %d, want 2", len(page.Rankings))
	}
	if page.Rankings[0].Rank != 3 || page.Rankings[1].Rank != 4 {
		t.Errorf("second page ranks = %d,%d, want 3,4", page.Rankings[0].Rank, page.Rankings[1].Rank)
	}
}
