package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const RankingCollection = "story_rankings"

// Horizon 榜单周期
type Horizon string

const (
	HorizonDaily   Horizon = "daily"
	HorizonWeekly  Horizon = "weekly"
	HorizonMonthly Horizon = "monthly"
	HorizonAllTime Horizon = "all_time"
)

// Horizons 固定的计算顺序：日 → 周 → 月 → 总
var Horizons = []Horizon{HorizonDaily, HorizonWeekly, HorizonMonthly, HorizonAllTime}

// ParseHorizon 解析路径参数，all-time 与 all_time 等价
func ParseHorizon(s string) (Horizon, bool) {
	switch s {
	case "daily":
		return HorizonDaily, true
	case "weekly":
		return HorizonWeekly, true
	case "monthly":
		return HorizonMonthly, true
	case "all-time", "all_time":
		return HorizonAllTime, true
	}
	return "", false
}

// ScoreField 该周期的分数字段名
func (h Horizon) ScoreField() string {
	return string(h) + "_score"
}

// RankField 该周期的名次字段名
func (h Horizon) RankField() string {
	return string(h) + "_rank"
}

func (h Horizon) String() string {
	return string(h)
}

// StoryRankingModel 作品每日榜单快照，一 (story_id, date) 一行。
// rank 为 0 表示该周期今天还没算过；算过的周期 rank 为 1..N 的稠密排列。
type StoryRankingModel struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	StoryID      uint64             `bson:"story_id"`
	Date         time.Time          `bson:"date"`
	DailyScore   float64            `bson:"daily_score"`
	WeeklyScore  float64            `bson:"weekly_score"`
	MonthlyScore float64            `bson:"monthly_score"`
	AllTimeScore float64            `bson:"all_time_score"`
	DailyRank    int                `bson:"daily_rank"`
	WeeklyRank   int                `bson:"weekly_rank"`
	MonthlyRank  int                `bson:"monthly_rank"`
	AllTimeRank  int                `bson:"all_time_rank"`
	Day          int                `bson:"day"`
	Month        int                `bson:"month"`
	Year         int                `bson:"year"`
	ISOYear      int                `bson:"iso_year"`
	ISOWeek      int                `bson:"iso_week"`
}

// Score 读取某个周期的分数
func (m *StoryRankingModel) Score(h Horizon) float64 {
	switch h {
	case HorizonDaily:
		return m.DailyScore
	case HorizonWeekly:
		return m.WeeklyScore
	case HorizonMonthly:
		return m.MonthlyScore
	default:
		return m.AllTimeScore
	}
}

// Rank 读取某个周期的名次
func (m *StoryRankingModel) Rank(h Horizon) int {
	switch h {
	case HorizonDaily:
		return m.DailyRank
	case HorizonWeekly:
		return m.WeeklyRank
	case HorizonMonthly:
		return m.MonthlyRank
	default:
		return m.AllTimeRank
	}
}

// RankEntry 一次计算得到的 (作品, 分数, 名次)
type RankEntry struct {
	StoryID uint64
	Score   float64
	Rank    int
}
