package discover

// State 瀏覽狀態：目前的篩選指紋與頁碼。篩選或搜尋字改變時回到第 1 頁。
type State struct {
	FilterKey string
	Page      int
}

func NewState() State {
	return State{Page: 1}
}

// SetFilter FilterKey 為空代表尚未知道先前的篩選，此時保留頁碼
func (s *State) SetFilter(f Filter) {
	key := f.Key()
	if s.FilterKey != "" && s.FilterKey != key {
		s.Page = 1
	}
	s.FilterKey = key
	if s.Page < 1 {
		s.Page = 1
	}
}

func (s *State) Next(totalPages int) {
	s.Page = ClampPage(s.Page+1, totalPages)
}

func (s *State) Prev(totalPages int) {
	s.Page = ClampPage(s.Page-1, totalPages)
}
