package util

import "time"

// GetMidnight 截断到当天零点 (UTC)
func GetMidnight(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Yesterday 昨天零点 (UTC)
func Yesterday(t time.Time) time.Time {
	return GetMidnight(t).AddDate(0, 0, -1)
}

// CalendarFields 拆解日期，month 从 0 开始，对齐存储层的冗余字段。
// isoWeek 必须和 isoYear 配对使用：年末年初的日历年和 ISO 周年
// 会错开（12-29 可能属于次年第 1 周），按日历年查周窗口会丢行
func CalendarFields(t time.Time) (day, month, year, isoYear, isoWeek int) {
	t = t.UTC()
	wy, week := t.ISOWeek()
	return t.Day(), int(t.Month()) - 1, t.Year(), wy, week
}

// DaysBetween 两个时间点相差的整天数，from 晚于 to 时返回 0
func DaysBetween(from, to time.Time) int {
	d := from.Sub(to).Hours() / 24
	if d < 0 {
		return 0
	}
	return int(d)
}

// DayKey 计数 key 用的日期片段 yyyymmdd
func DayKey(t time.Time) string {
	return t.UTC().Format("20060102")
}
