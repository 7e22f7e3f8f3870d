package discover

import (
	"time"

	"eventease/internal/model"
)

const (
	QuickToday       = "today"
	QuickTomorrow    = "tomorrow"
	QuickThisWeek    = "this-week"
	QuickThisWeekend = "this-weekend"
	QuickThisMonth   = "this-month"
	QuickMonthEnd    = "month-end"
)

// QuickDateRange 以 anchor 當天為基準計算快捷日期區間 (時間部分忽略)；未知的 preset 回傳空字串。
func QuickDateRange(preset string, anchor time.Time) (from, to string) {
	day := time.Date(anchor.Year(), anchor.Month(), anchor.Day(), 0, 0, 0, 0, time.UTC)

	switch preset {
	case QuickToday:
		return format(day), format(day)
	case QuickTomorrow:
		tomorrow := day.AddDate(0, 0, 1)
		return format(tomorrow), format(tomorrow)
	case QuickThisWeek:
		// 週一為一週開始，所以週末是接下來的週日
		return format(day), format(day.AddDate(0, 0, daysUntilSunday(day)))
	case QuickThisWeekend:
		start := day
		if day.Weekday() != time.Saturday && day.Weekday() != time.Sunday {
			start = day.AddDate(0, 0, int(time.Saturday-day.Weekday()))
		}
		// 週日當天只涵蓋週日本身
		end := start
		if start.Weekday() == time.Saturday {
			end = start.AddDate(0, 0, 1)
		}
		return format(start), format(end)
	case QuickThisMonth:
		return format(day), format(endOfMonth(day))
	case QuickMonthEnd:
		last := endOfMonth(day)
		return format(last.AddDate(0, 0, -6)), format(last)
	default:
		return "", ""
	}
}

// IsQuickPreset 是否為支援的快捷區間
func IsQuickPreset(preset string) bool {
	switch preset {
	case QuickToday, QuickTomorrow, QuickThisWeek, QuickThisWeekend, QuickThisMonth, QuickMonthEnd:
		return true
	}
	return false
}

func daysUntilSunday(day time.Time) int {
	return (7 - int(day.Weekday())) % 7
}

func endOfMonth(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month()+1, 0, 0, 0, 0, 0, time.UTC)
}

func format(t time.Time) string {
	return t.Format(model.DateLayout)
}
