package util

import (
	"testing"
	"time"
)

func TestGetMidnight(t *testing.T) {
	in := time.Date(2026, 8, 28, 15, 4, 5, 123, time.UTC)
	got := GetMidnight(in)
	want := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("GetMidnight = %v, want %v", got, want)
	}
}

func TestCalendarFields(t *testing.T) {
	// 2026-01-01 是周四，属于 ISO 第 1 周
	day, month, year, isoYear, week := CalendarFields(time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC))
	if day != 1 || month != 0 || year != 2026 || isoYear != 2026 || week != 1 {
		t.Fatalf("CalendarFields = %d %d %d %d %d", day, month, year, isoYear, week)
	}

	// 2023-01-01 是周日，ISO 归属上一年的第 52 周
	_, _, year, isoYear, week = CalendarFields(time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC))
	if year != 2023 || isoYear != 2022 || week != 52 {
		t.Fatalf("year/isoYear/week = %d/%d/%d, want 2023/2022/52", year, isoYear, week)
	}

	// 2025-12-29 是周一，日历年还在 2025，ISO 已经是 2026 年第 1 周；
	// 一月头跑周榜时 (iso_week=1, iso_year=2026) 必须能查到这天的统计行
	_, _, year, isoYear, week = CalendarFields(time.Date(2025, 12, 29, 0, 0, 0, 0, time.UTC))
	if year != 2025 || isoYear != 2026 || week != 1 {
		t.Fatalf("year/isoYear/week = %d/%d/%d, want 2025/2026/1", year, isoYear, week)
	}
}

func TestDaysBetween(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		to   time.Time
		want int
	}{
		{"same instant", now, 0},
		{"thirty days", now.AddDate(0, 0, -30), 30},
		{"future updatedAt clamps to zero", now.Add(6 * time.Hour), 0},
		{"half day truncates", now.Add(-36 * time.Hour), 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DaysBetween(now, tc.to); got != tc.want {
				t.Fatalf("DaysBetween = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestYesterday(t *testing.T) {
	got := Yesterday(time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC))
	want := time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("Yesterday = %v, want %v", got, want)
	}
}
