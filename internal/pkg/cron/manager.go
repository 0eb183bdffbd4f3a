package cron

import (
	"Inkstone/internal/job"
	log "log/slog"

	"github.com/robfig/cron/v3"
)

// 六段式表达式（带秒）。统计归档先于日榜十分钟，保证日榜读到完整的昨日数据。
const (
	scheduleStatsRollup    = "0 5 0 * * *"  // 每天 00:05
	scheduleDailyRanking   = "0 10 0 * * *" // 每天 00:10
	scheduleWeeklyRanking  = "0 0 1 * * 1"  // 周一 01:00
	scheduleMonthlyRanking = "0 0 2 1 * *"  // 每月 1 号 02:00
	scheduleAllTimeRanking = "0 0 3 * * 0"  // 周日 03:00
)

type Manager struct {
	engine            *cron.Cron
	dailyStatsJob     *job.DailyStatsJob
	dailyRankingJob   *job.RankingJob
	weeklyRankingJob  *job.RankingJob
	monthlyRankingJob *job.RankingJob
	allTimeRankingJob *job.RankingJob
}

func NewCronManager(
	dailyStatsJob *job.DailyStatsJob,
	dailyRankingJob *job.RankingJob,
	weeklyRankingJob *job.RankingJob,
	monthlyRankingJob *job.RankingJob,
	allTimeRankingJob *job.RankingJob,
) *Manager {
	return &Manager{
		engine:            cron.New(cron.WithSeconds()),
		dailyStatsJob:     dailyStatsJob,
		dailyRankingJob:   dailyRankingJob,
		weeklyRankingJob:  weeklyRankingJob,
		monthlyRankingJob: monthlyRankingJob,
		allTimeRankingJob: allTimeRankingJob,
	}
}

// RegisterJobs 注册定时任务
func (s *Manager) RegisterJobs() error {
	if _, err := s.engine.AddJob(scheduleStatsRollup, s.dailyStatsJob); err != nil {
		return err
	}
	if _, err := s.engine.AddJob(scheduleDailyRanking, s.dailyRankingJob); err != nil {
		return err
	}
	if _, err := s.engine.AddJob(scheduleWeeklyRanking, s.weeklyRankingJob); err != nil {
		return err
	}
	if _, err := s.engine.AddJob(scheduleMonthlyRanking, s.monthlyRankingJob); err != nil {
		return err
	}
	if _, err := s.engine.AddJob(scheduleAllTimeRanking, s.allTimeRankingJob); err != nil {
		return err
	}
	return nil
}

func (s *Manager) Start() {
	log.Info("Cron 定时任务引擎启动")
	s.engine.Start()
}

func (s *Manager) Stop() {
	log.Info("Cron 定时任务引擎停止")
	s.engine.Stop()
}
