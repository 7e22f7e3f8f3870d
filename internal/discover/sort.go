package discover

import (
	"cmp"
	"slices"

	"eventease/internal/model"
)

type SortKey string

const (
	SortDefault  SortKey = ""
	SortDateAsc  SortKey = "date-asc"
	SortDateDesc SortKey = "date-desc"
	SortViews    SortKey = "views-desc"
	SortRSVPs    SortKey = "rsvps-desc"
	SortLikes    SortKey = "likes-desc"
)

func (k SortKey) IsValid() bool {
	switch k {
	case SortDefault, SortDateAsc, SortDateDesc, SortViews, SortRSVPs, SortLikes:
		return true
	}
	return false
}

// Sort 回傳排序後的新 slice，不修改輸入。
// 預設排序：今天(含)以後的活動在前，登入者依瀏覽數、訪客依日期；過去的活動一律日期新到舊。
func Sort(events []*model.Event, key SortKey, today string, authenticated bool) []*model.Event {
	out := slices.Clone(events)

	switch key {
	case SortDateAsc:
		slices.SortStableFunc(out, byDateAsc)
	case SortDateDesc:
		slices.SortStableFunc(out, byDateDesc)
	case SortViews:
		slices.SortStableFunc(out, byViewsDesc)
	case SortRSVPs:
		slices.SortStableFunc(out, func(a, b *model.Event) int {
			return cmp.Compare(b.RegistrationCount, a.RegistrationCount)
		})
	case SortLikes:
		slices.SortStableFunc(out, func(a, b *model.Event) int {
			return cmp.Compare(b.LikesCount, a.LikesCount)
		})
	default:
		upcoming := make([]*model.Event, 0, len(out))
		past := make([]*model.Event, 0)
		for _, e := range out {
			if e.IsPast(today) {
				past = append(past, e)
			} else {
				upcoming = append(upcoming, e)
			}
		}
		if authenticated {
			slices.SortStableFunc(upcoming, byViewsDesc)
		} else {
			slices.SortStableFunc(upcoming, byDateAsc)
		}
		slices.SortStableFunc(past, byDateDesc)
		out = append(upcoming, past...)
	}

	return out
}

func byDateAsc(a, b *model.Event) int {
	return cmp.Compare(a.Date, b.Date)
}

func byDateDesc(a, b *model.Event) int {
	return cmp.Compare(b.Date, a.Date)
}

func byViewsDesc(a, b *model.Event) int {
	return cmp.Compare(b.ViewCount, a.ViewCount)
}
