package service

import (
	"Inkstone/internal/pkg/mongo"
	"Inkstone/internal/pkg/util"
	"context"
	"testing"
	"time"
)

func seedRankedRow(repo *fakeRankingRepo, storyID uint64, horizons ...mongo.Horizon) {
	row := &mongo.StoryRankingModel{StoryID: storyID, Date: util.GetMidnight(time.Now())}
	for _, h := range horizons {
		switch h {
		case mongo.HorizonDaily:
			row.DailyRank, row.DailyScore = 1, 10
		case mongo.HorizonWeekly:
			row.WeeklyRank, row.WeeklyScore = 1, 10
		case mongo.HorizonMonthly:
			row.MonthlyRank, row.MonthlyScore = 1, 10
		default:
			row.AllTimeRank, row.AllTimeScore = 1, 10
		}
	}
	repo.rows[storyID] = row
}

func TestInitializeOnStartup_NoopWhenAllPresent(t *testing.T) {
	now := time.Now()
	storyRepo := newFakeStoryRepo(publishedStory(1, now))
	statsRepo := &fakeStatsRepo{windows: map[uint64]*mongo.StatsWindow{}}
	rankingRepo := newFakeRankingRepo()
	seedRankedRow(rankingRepo, 1, mongo.Horizons...)

	svc := NewRankingInitService(rankingRepo, newRankingFixture(storyRepo, statsRepo, rankingRepo))
	result := svc.InitializeOnStartup(context.Background())

	if !result.Success || result.Created {
		t.Fatalf("result = %+v, want success and created=false", result)
	}
	if rankingRepo.writes != 0 {
		t.Fatalf("writes = %d, want 0", rankingRepo.writes)
	}
}

func TestInitializeOnStartup_FillsMissingHorizon(t *testing.T) {
	now := time.Now()
	storyRepo := newFakeStoryRepo(publishedStory(1, now))
	statsRepo := &fakeStatsRepo{windows: map[uint64]*mongo.StatsWindow{}}
	rankingRepo := newFakeRankingRepo()
	// 周榜缺失，其余已就位
	seedRankedRow(rankingRepo, 1, mongo.HorizonDaily, mongo.HorizonMonthly, mongo.HorizonAllTime)

	svc := NewRankingInitService(rankingRepo, newRankingFixture(storyRepo, statsRepo, rankingRepo))
	result := svc.InitializeOnStartup(context.Background())

	if !result.Success || !result.Created {
		t.Fatalf("result = %+v, want success and created=true", result)
	}
	for _, h := range mongo.Horizons {
		if result.Counts[h.String()] != 1 {
			t.Errorf("%s count = %d, want 1", h, result.Counts[h.String()])
		}
	}

	n, err := rankingRepo.CountRanked(context.Background(), mongo.HorizonWeekly, now)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("weekly ranked rows after init = %d, want 1", n)
	}
}

func TestCheckExistingRankings(t *testing.T) {
	rankingRepo := newFakeRankingRepo()
	seedRankedRow(rankingRepo, 1, mongo.HorizonDaily)
	seedRankedRow(rankingRepo, 2, mongo.HorizonDaily, mongo.HorizonWeekly)

	svc := NewRankingInitService(rankingRepo, nil)
	counts, err := svc.CheckExistingRankings(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if counts.Daily != 2 || counts.Weekly != 1 || counts.Monthly != 0 || counts.AllTime != 0 {
		t.Fatalf("counts = %+v", counts)
	}
	if !counts.NeedInit() {
		t.Error("missing horizons must require init")
	}
}

func TestValidateRankingAPIs(t *testing.T) {
	rankingRepo := newFakeRankingRepo()
	seedRankedRow(rankingRepo, 1, mongo.HorizonDaily)

	svc := NewRankingInitService(rankingRepo, nil)
	validated := svc.ValidateRankingAPIs(context.Background())

	// 冒烟只看有没有行，fake 里任何周期都查得到这一行
	for _, h := range mongo.Horizons {
		if !validated[h.String()] {
			t.Errorf("%s smoke check = false, want true", h)
		}
	}
}
