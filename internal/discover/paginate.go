package discover

import "eventease/internal/model"

// PageSize 探索頁每頁活動數
const PageSize = 6

type Page struct {
	Events     []*model.Event `json:"events"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
	Total      int            `json:"total"`
	TotalPages int            `json:"total_pages"`
}

// TotalPages ceil(count / size)；size <= 0 時為 0
func TotalPages(count, size int) int {
	if size <= 0 {
		return 0
	}
	return (count + size - 1) / size
}

// ClampPage 將頁碼限制在 [1, totalPages]，沒有資料時為 1
func ClampPage(page, totalPages int) int {
	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}
	return page
}

// Paginate 切出指定頁；超出範圍的頁碼會被夾回有效範圍
func Paginate(events []*model.Event, page, size int) Page {
	totalPages := TotalPages(len(events), size)
	page = ClampPage(page, totalPages)

	start := (page - 1) * size
	if start > len(events) {
		start = len(events)
	}
	end := start + size
	if end > len(events) {
		end = len(events)
	}

	return Page{
		Events:     events[start:end],
		Page:       page,
		PageSize:   size,
		Total:      len(events),
		TotalPages: totalPages,
	}
}
