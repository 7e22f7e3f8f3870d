// Package discover 實作探索頁的篩選、排序與分頁。整份公開活動一次取回後在記憶體中處理。
package discover

import (
	"fmt"
	"hash/fnv"
	"strings"
	"time"

	"eventease/internal/model"
)

// Filter 探索頁的篩選狀態，空字串代表不篩選
type Filter struct {
	Search      string  `form:"search" json:"search"`
	Category    string  `form:"category" json:"category"`
	City        string  `form:"city" json:"city"`
	Country     string  `form:"country" json:"country"`
	DateFrom    string  `form:"date_from" json:"date_from"`
	DateTo      string  `form:"date_to" json:"date_to"`
	QuickFilter string  `form:"quick" json:"quick"`
	IsOnline    string  `form:"online" json:"online"`
	SortBy      SortKey `form:"sort" json:"sort"`
}

// Matches 所有條件皆須成立
func (f Filter) Matches(e *model.Event) bool {
	if f.Search != "" {
		term := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(e.Title), term) &&
			!strings.Contains(strings.ToLower(e.Description), term) {
			return false
		}
	}

	// 多分類活動的 category 是以逗號串接的整串字串，這裡只做整串比對
	if f.Category != "" && e.Category != f.Category {
		return false
	}
	if f.City != "" && e.City != f.City {
		return false
	}
	if f.Country != "" && e.Country != f.Country {
		return false
	}

	// YYYY-MM-DD 字串可直接以字典序比較，上下界皆包含
	if f.DateFrom != "" && e.Date < f.DateFrom {
		return false
	}
	if f.DateTo != "" && e.Date > f.DateTo {
		return false
	}

	switch f.IsOnline {
	case "true":
		if !e.IsOnline {
			return false
		}
	case "false":
		if e.IsOnline {
			return false
		}
	}

	return true
}

// Apply 回傳通過篩選的活動，保留原順序
func Apply(events []*model.Event, f Filter) []*model.Event {
	out := make([]*model.Event, 0, len(events))
	for _, e := range events {
		if f.Matches(e) {
			out = append(out, e)
		}
	}
	return out
}

// WithQuickFilter 以 anchor 日期算出快捷區間並寫入 DateFrom/DateTo
func (f Filter) WithQuickFilter(preset string, anchor time.Time) Filter {
	f.QuickFilter = preset
	f.DateFrom, f.DateTo = QuickDateRange(preset, anchor)
	return f
}

// Key 篩選狀態的指紋，任何欄位改變都會得到不同的值
func (f Filter) Key() string {
	h := fnv.New64a()
	fmt.Fprintf(h, "%q|%q|%q|%q|%q|%q|%q|%q|%q",
		f.Search, f.Category, f.City, f.Country, f.DateFrom, f.DateTo, f.QuickFilter, f.IsOnline, f.SortBy)
	return fmt.Sprintf("%016x", h.Sum64())
}
