package service

import (
	"Inkstone/internal/pkg/mongo"
	"math"
	"testing"
	"time"
)

func almostEqual(a, b, tolerance float64) bool {
	return math.Abs(a-b) <= tolerance
}

func TestCalculateBayesianScore_UnratedStory(t *testing.T) {
	now := time.Now()
	score := CalculateBayesianScore(ScoreInput{
		ChapterCount: 50,
		UpdatedAt:    now,
		Window:       &mongo.StatsWindow{Views: 1000},
	}, ScoreOptions{Now: now})

	// (1000*0.6 + 50*0.1) * 0.9 + (3.5/2)*10*0.1 = 546.25
	if !almostEqual(score, 546.25, 0.01) {
		t.Fatalf("score = %f, want 546.25", score)
	}
}

func TestCalculateBayesianScore_Floor(t *testing.T) {
	tests := []struct {
		name string
		in   ScoreInput
		opt  ScoreOptions
	}{
		{
			name: "空窗口",
			in:   ScoreInput{Window: nil},
			opt:  ScoreOptions{AvgRatingAllStories: 0.5},
		},
		{
			name: "全零统计",
			in:   ScoreInput{Window: &mongo.StatsWindow{}},
			opt:  ScoreOptions{AvgRatingAllStories: 0.5},
		},
		{
			name: "陈年旧作",
			in: ScoreInput{
				ChapterCount: 1,
				UpdatedAt:    time.Now().AddDate(-10, 0, 0),
				Window:       &mongo.StatsWindow{Views: 3},
			},
			opt: ScoreOptions{AvgRatingAllStories: 0.4},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if score := CalculateBayesianScore(tt.in, tt.opt); score < 1 {
				t.Errorf("score = %f, want >= 1", score)
			}
		})
	}
}

func TestCalculateBayesianScore_RatingSmoothing(t *testing.T) {
	now := time.Now()
	scoreWith := func(count, sum int64) float64 {
		return CalculateBayesianScore(ScoreInput{
			UpdatedAt: now,
			Window:    &mongo.StatsWindow{Views: 100, RatingsCount: count, RatingsSum: sum},
		}, ScoreOptions{Now: now})
	}

	// 均分 5 高于全站均值 3.5，评分条数越多分数越高
	if low, high := scoreWith(2, 10), scoreWith(20, 100); high <= low {
		t.Errorf("高均分下评分条数增多应提分: %f -> %f", low, high)
	}
	// 均分 2 低于全站均值 3.5，评分条数越多分数越低
	if low, high := scoreWith(20, 40), scoreWith(2, 4); high <= low {
		t.Errorf("低均分下评分条数增多应降分: %f -> %f", low, high)
	}
}

func TestCalculateBayesianScore_TimeDecay(t *testing.T) {
	now := time.Now()
	scoreAt := func(daysOld int) float64 {
		return CalculateBayesianScore(ScoreInput{
			ChapterCount: 10,
			UpdatedAt:    now.AddDate(0, 0, -daysOld),
			Window:       &mongo.StatsWindow{Views: 500, RatingsCount: 5, RatingsSum: 20},
		}, ScoreOptions{Now: now})
	}

	prev := scoreAt(0)
	for _, days := range []int{1, 7, 30, 90} {
		cur := scoreAt(days)
		if cur >= prev {
			t.Fatalf("%d 天前的分数 %f 未低于更新的 %f", days, cur, prev)
		}
		prev = cur
	}
}

func TestCalculateBayesianScore_DecayRatio(t *testing.T) {
	now := time.Now()
	in := ScoreInput{
		ChapterCount: 50,
		Window:       &mongo.StatsWindow{Views: 1000},
	}

	in.UpdatedAt = now
	fresh := CalculateBayesianScore(in, ScoreOptions{Now: now})
	in.UpdatedAt = now.AddDate(0, 0, -30)
	stale := CalculateBayesianScore(in, ScoreOptions{Now: now})

	// 30 天衰减后新作领先约 2.5 倍
	if ratio := fresh / stale; !almostEqual(ratio, 2.48, 0.05) {
		t.Errorf("fresh/stale = %f, want ≈ 2.48", ratio)
	}
}

func TestCalculateBayesianScore_Defaults(t *testing.T) {
	now := time.Now()
	explicit := CalculateBayesianScore(ScoreInput{
		UpdatedAt: now,
		Window:    &mongo.StatsWindow{Views: 10},
	}, ScoreOptions{MinRatings: DefaultMinRatings, AvgRatingAllStories: DefaultCorpusAvgRating, Now: now})
	defaulted := CalculateBayesianScore(ScoreInput{
		UpdatedAt: now,
		Window:    &mongo.StatsWindow{Views: 10},
	}, ScoreOptions{Now: now})

	if !almostEqual(explicit, defaulted, 1e-9) {
		t.Errorf("默认参数与显式默认值结果不一致: %f vs %f", explicit, defaulted)
	}
}
