package discover

import (
	"fmt"
	"testing"
	"time"

	"eventease/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const today = "2025-06-11" // Wednesday

func newEvent(title, date string) *model.Event {
	return &model.Event{Title: title, Description: title + " description", Date: date}
}

func sampleEvents() []*model.Event {
	return []*model.Event{
		{Title: "Jazz Night", Description: "Live music", Date: "2025-06-20", Category: "Music", City: "Lisbon", Country: "PT", ViewCount: 10, RegistrationCount: 3, LikesCount: 7},
		{Title: "Go Meetup", Description: "Gophers unite", Date: "2025-06-11", Category: "Tech", City: "Porto", Country: "PT", ViewCount: 50, RegistrationCount: 9, LikesCount: 1},
		{Title: "Art Walk", Description: "Street art tour", Date: "2025-05-01", Category: "Art, Music", City: "Lisbon", Country: "PT", ViewCount: 5, RegistrationCount: 1, LikesCount: 2},
		{Title: "Webinar: Rust", Description: "Ownership explained", Date: "2025-07-01", Category: "Tech", IsOnline: true, ViewCount: 20, RegistrationCount: 4, LikesCount: 30},
		{Title: "Book Fair", Description: "Meet the authors of jazz novels", Date: "2025-04-15", Category: "Books", City: "Madrid", Country: "ES", ViewCount: 99, RegistrationCount: 0, LikesCount: 0},
	}
}

func titles(events []*model.Event) []string {
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.Title
	}
	return out
}

func TestFilter_Matches(t *testing.T) {
	events := sampleEvents()

	t.Run("Search matches title or description case-insensitively", func(t *testing.T) {
		got := Apply(events, Filter{Search: "JAZZ"})
		assert.Equal(t, []string{"Jazz Night", "Book Fair"}, titles(got))
	})

	t.Run("Category is exact full-string equality", func(t *testing.T) {
		got := Apply(events, Filter{Category: "Music"})
		assert.Equal(t, []string{"Jazz Night"}, titles(got))

		got = Apply(events, Filter{Category: "Art, Music"})
		assert.Equal(t, []string{"Art Walk"}, titles(got))
	})

	t.Run("City and country", func(t *testing.T) {
		assert.Equal(t, []string{"Jazz Night", "Art Walk"}, titles(Apply(events, Filter{City: "Lisbon"})))
		assert.Equal(t, []string{"Book Fair"}, titles(Apply(events, Filter{Country: "ES"})))
	})

	t.Run("Online flag", func(t *testing.T) {
		assert.Equal(t, []string{"Webinar: Rust"}, titles(Apply(events, Filter{IsOnline: "true"})))
		assert.Len(t, Apply(events, Filter{IsOnline: "false"}), 4)
		assert.Len(t, Apply(events, Filter{IsOnline: "maybe"}), 5)
	})

	t.Run("Empty filter keeps everything", func(t *testing.T) {
		assert.Len(t, Apply(events, Filter{}), len(events))
	})

	t.Run("Date bounds are inclusive", func(t *testing.T) {
		e := newEvent("Edge", "2025-06-11")
		assert.True(t, Filter{DateFrom: "2025-06-11"}.Matches(e))
		assert.True(t, Filter{DateTo: "2025-06-11"}.Matches(e))
		assert.True(t, Filter{DateFrom: "2025-06-11", DateTo: "2025-06-11"}.Matches(e))
		assert.False(t, Filter{DateFrom: "2025-06-12"}.Matches(e))
		assert.False(t, Filter{DateTo: "2025-06-10"}.Matches(e))
	})
}

func TestApply_Idempotent(t *testing.T) {
	events := sampleEvents()
	filters := []Filter{
		{},
		{Search: "a"},
		{Category: "Tech", IsOnline: "false"},
		{City: "Lisbon", DateFrom: "2025-05-01", DateTo: "2025-06-30"},
		{Country: "PT", IsOnline: "true"},
	}
	for i, f := range filters {
		t.Run(fmt.Sprintf("filter-%d", i), func(t *testing.T) {
			once := Apply(events, f)
			twice := Apply(once, f)
			assert.Equal(t, once, twice)
		})
	}
}

func TestQuickDateRange(t *testing.T) {
	wednesday := time.Date(2025, 6, 11, 15, 4, 0, 0, time.UTC)

	tests := []struct {
		name   string
		preset string
		anchor time.Time
		from   string
		to     string
	}{
		{"today", QuickToday, wednesday, "2025-06-11", "2025-06-11"},
		{"tomorrow", QuickTomorrow, wednesday, "2025-06-12", "2025-06-12"},
		{"this week ends sunday", QuickThisWeek, wednesday, "2025-06-11", "2025-06-15"},
		{"this week on sunday", QuickThisWeek, time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), "2025-06-15", "2025-06-15"},
		{"weekend from wednesday", QuickThisWeekend, wednesday, "2025-06-14", "2025-06-15"},
		{"weekend on saturday", QuickThisWeekend, time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC), "2025-06-14", "2025-06-15"},
		{"weekend on sunday", QuickThisWeekend, time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), "2025-06-15", "2025-06-15"},
		{"weekend from monday", QuickThisWeekend, time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC), "2025-06-21", "2025-06-22"},
		{"this month", QuickThisMonth, wednesday, "2025-06-11", "2025-06-30"},
		{"month end", QuickMonthEnd, wednesday, "2025-06-24", "2025-06-30"},
		{"month end february", QuickMonthEnd, time.Date(2024, 2, 3, 0, 0, 0, 0, time.UTC), "2024-02-23", "2024-02-29"},
		{"unknown", "someday", wednesday, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			from, to := QuickDateRange(tt.preset, tt.anchor)
			assert.Equal(t, tt.from, from)
			assert.Equal(t, tt.to, to)
		})
	}
}

func TestFilter_WithQuickFilter(t *testing.T) {
	f := Filter{City: "Lisbon"}.WithQuickFilter(QuickToday, time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, "2025-06-11", f.DateFrom)
	assert.Equal(t, "2025-06-11", f.DateTo)
	assert.Equal(t, QuickToday, f.QuickFilter)
	assert.Equal(t, "Lisbon", f.City)
	assert.True(t, IsQuickPreset(QuickMonthEnd))
	assert.False(t, IsQuickPreset(""))
}

func TestSort(t *testing.T) {
	events := sampleEvents()

	t.Run("date-asc then date-desc is reversed", func(t *testing.T) {
		asc := Sort(events, SortDateAsc, today, false)
		desc := Sort(events, SortDateDesc, today, false)
		require.Len(t, desc, len(asc))
		for i := range asc {
			assert.Equal(t, asc[i], desc[len(desc)-1-i])
		}
		assert.Equal(t, []string{"Book Fair", "Art Walk", "Go Meetup", "Jazz Night", "Webinar: Rust"}, titles(asc))
	})

	t.Run("counter sorts", func(t *testing.T) {
		assert.Equal(t, "Book Fair", Sort(events, SortViews, today, false)[0].Title)
		assert.Equal(t, "Go Meetup", Sort(events, SortRSVPs, today, false)[0].Title)
		assert.Equal(t, "Webinar: Rust", Sort(events, SortLikes, today, false)[0].Title)
	})

	t.Run("default anonymous: upcoming by date then past newest first", func(t *testing.T) {
		got := Sort(events, SortDefault, today, false)
		assert.Equal(t, []string{"Go Meetup", "Jazz Night", "Webinar: Rust", "Art Walk", "Book Fair"}, titles(got))
	})

	t.Run("default authenticated: upcoming by views", func(t *testing.T) {
		got := Sort(events, SortDefault, today, true)
		assert.Equal(t, []string{"Go Meetup", "Webinar: Rust", "Jazz Night", "Art Walk", "Book Fair"}, titles(got))
	})

	t.Run("does not mutate input", func(t *testing.T) {
		before := titles(events)
		Sort(events, SortDateDesc, today, false)
		assert.Equal(t, before, titles(events))
	})

	t.Run("valid keys", func(t *testing.T) {
		assert.True(t, SortLikes.IsValid())
		assert.False(t, SortKey("price-asc").IsValid())
	})
}

func thirteenEvents() []*model.Event {
	events := make([]*model.Event, 13)
	for i := range events {
		events[i] = newEvent(fmt.Sprintf("Event %02d", i), fmt.Sprintf("2025-07-%02d", i+1))
	}
	return events
}

func TestPaginate(t *testing.T) {
	events := thirteenEvents()

	assert.Equal(t, 3, TotalPages(len(events), PageSize))
	assert.Equal(t, 0, TotalPages(0, PageSize))

	first := Paginate(events, 1, PageSize)
	assert.Len(t, first.Events, 6)
	assert.Equal(t, 13, first.Total)
	assert.Equal(t, 3, first.TotalPages)

	last := Paginate(events, 3, PageSize)
	assert.Len(t, last.Events, 1)
	assert.Equal(t, "Event 12", last.Events[0].Title)

	beyond := Paginate(events, 9, PageSize)
	assert.Equal(t, 3, beyond.Page)

	empty := Paginate(nil, 2, PageSize)
	assert.Equal(t, 1, empty.Page)
	assert.Empty(t, empty.Events)
}

func TestState(t *testing.T) {
	t.Run("next and prev are clamped", func(t *testing.T) {
		s := NewState()
		s.Prev(3)
		assert.Equal(t, 1, s.Page)
		s.Next(3)
		s.Next(3)
		assert.Equal(t, 3, s.Page)
		s.Next(3)
		assert.Equal(t, 3, s.Page)
		s.Next(0)
		assert.Equal(t, 1, s.Page)
	})

	t.Run("any filter change resets to page 1", func(t *testing.T) {
		base := Filter{}
		changes := []Filter{
			{Search: "jazz"},
			{Category: "Music"},
			{City: "Lisbon"},
			{Country: "PT"},
			{DateFrom: "2025-01-01"},
			{DateTo: "2025-12-31"},
			{QuickFilter: QuickToday},
			{IsOnline: "true"},
			{SortBy: SortLikes},
		}
		for _, changed := range changes {
			s := NewState()
			s.SetFilter(base)
			s.Page = 3
			s.SetFilter(changed)
			assert.Equal(t, 1, s.Page, "filter %+v", changed)
		}
	})

	t.Run("same filter keeps the page", func(t *testing.T) {
		s := NewState()
		s.SetFilter(Filter{City: "Lisbon"})
		s.Page = 2
		s.SetFilter(Filter{City: "Lisbon"})
		assert.Equal(t, 2, s.Page)
	})
}

func TestRun(t *testing.T) {
	events := thirteenEvents()

	t.Run("next from last page stays on last page", func(t *testing.T) {
		f := Filter{SortBy: SortDateAsc}
		res := Run(events, Request{Filter: f, Page: 3, Action: ActionNext, FilterKey: f.Key(), Today: today})
		assert.Equal(t, 3, res.Page.Page)
		assert.Equal(t, 3, res.TotalPages)
		assert.Len(t, res.Events, 1)
	})

	t.Run("changed filter resets page", func(t *testing.T) {
		old := Filter{SortBy: SortDateAsc}
		changed := Filter{SortBy: SortDateAsc, Search: "Event"}
		res := Run(events, Request{Filter: changed, Page: 3, FilterKey: old.Key(), Today: today})
		assert.Equal(t, 1, res.Page.Page)
		assert.Equal(t, changed.Key(), res.FilterKey)
	})

	t.Run("facets come from the whole list", func(t *testing.T) {
		res := Run(sampleEvents(), Request{Filter: Filter{City: "Madrid"}, Page: 1, Today: today})
		assert.Len(t, res.Events, 1)
		assert.Equal(t, []string{"Music", "Tech", "Art, Music", "Books"}, res.Facets.Categories)
		assert.Equal(t, []string{"Lisbon", "Porto", "Madrid"}, res.Facets.Cities)
		assert.Equal(t, []string{"PT", "ES"}, res.Facets.Countries)
	})
}
