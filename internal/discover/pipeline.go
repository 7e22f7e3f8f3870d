package discover

import "eventease/internal/model"

const (
	ActionNext = "next"
	ActionPrev = "prev"
)

// Request 一次探索頁查詢。FilterKey 為前一次回應帶回的指紋，用來判斷篩選是否改變。
type Request struct {
	Filter        Filter
	Page          int
	Action        string
	FilterKey     string
	Today         string
	Authenticated bool
}

type Facets struct {
	Categories []string `json:"categories"`
	Cities     []string `json:"cities"`
	Countries  []string `json:"countries"`
}

type Result struct {
	Page
	FilterKey string `json:"filter_key"`
	Facets    Facets `json:"facets"`
}

// Run 篩選 -> 排序 -> 分頁
func Run(events []*model.Event, req Request) Result {
	state := State{FilterKey: req.FilterKey, Page: req.Page}
	state.SetFilter(req.Filter)

	sorted := Sort(Apply(events, req.Filter), req.Filter.SortBy, req.Today, req.Authenticated)
	totalPages := TotalPages(len(sorted), PageSize)

	switch req.Action {
	case ActionNext:
		state.Next(totalPages)
	case ActionPrev:
		state.Prev(totalPages)
	}

	return Result{
		Page:      Paginate(sorted, state.Page, PageSize),
		FilterKey: state.FilterKey,
		Facets:    FacetsOf(events),
	}
}

// FacetsOf 從全部活動取出不重複的分類、城市與國家，依出現順序
func FacetsOf(events []*model.Event) Facets {
	return Facets{
		Categories: distinct(events, func(e *model.Event) string { return e.Category }),
		Cities:     distinct(events, func(e *model.Event) string { return e.City }),
		Countries:  distinct(events, func(e *model.Event) string { return e.Country }),
	}
}

func distinct(events []*model.Event, field func(*model.Event) string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, e := range events {
		v := field(e)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
