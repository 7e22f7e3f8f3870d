package model

import (
	"net/url"
	"strings"
	"time"

	apperrors "eventease/pkg/app_errors"

	"github.com/google/uuid"
)

// DateLayout 活動日期一律以 YYYY-MM-DD 字串保存與比較
const DateLayout = "2006-01-02"

// OnlineLocation 線上活動的 location 欄位固定值
const OnlineLocation = "Online"

// Event 活動模型。實體場地欄位與線上欄位互斥，由 IsOnline 決定。
type Event struct {
	ID                uuid.UUID `json:"id" db:"id"`
	Title             string    `json:"title" db:"title"`
	Description       string    `json:"description" db:"description"`
	Date              string    `json:"date" db:"date"`
	Time              string    `json:"time" db:"time"`
	Location          string    `json:"location" db:"location"`
	LocationURL       string    `json:"location_url,omitempty" db:"location_url"`
	Address           string    `json:"address,omitempty" db:"address"`
	City              string    `json:"city,omitempty" db:"city"`
	Country           string    `json:"country,omitempty" db:"country"`
	Latitude          *float64  `json:"latitude,omitempty" db:"latitude"`
	Longitude         *float64  `json:"longitude,omitempty" db:"longitude"`
	Category          string    `json:"category" db:"category"`
	ImageURL          string    `json:"image_url" db:"image_url"`
	OrganizerID       uuid.UUID `json:"organizer_id" db:"organizer_id"`
	IsOnline          bool      `json:"is_online" db:"is_online"`
	WebinarLink       string    `json:"webinar_link,omitempty" db:"webinar_link"`
	IsPublic          bool      `json:"is_public" db:"is_public"`
	RegistrationCount int       `json:"registration_count" db:"registration_count"`
	ViewCount         int       `json:"view_count" db:"view_count"`
	LikesCount        int       `json:"likes_count" db:"likes_count"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
}

// IsPast 活動日期早於 today (YYYY-MM-DD)
func (e *Event) IsPast(today string) bool {
	return e.Date < today
}

// IsOwnedBy 檢查是否為主辦人
func (e *Event) IsOwnedBy(userID uuid.UUID) bool {
	return e.OrganizerID == userID
}

// Categories 拆開以逗號串接的分類
func (e *Event) Categories() []string {
	return SplitCategories(e.Category)
}

type UpdateEventParams struct {
	Title       *string
	Description *string
	Date        *string
	Time        *string
	Location    *string
	LocationURL *string
	Address     *string
	City        *string
	Country     *string
	Latitude    *float64
	Longitude   *float64
	Category    *string
	ImageURL    *string
	IsOnline    *bool
	WebinarLink *string
	IsPublic    *bool
}

// EventInput 建立/編輯活動表單
type EventInput struct {
	Title       string   `json:"title" form:"title"`
	Description string   `json:"description" form:"description"`
	Date        string   `json:"date" form:"date"`
	Time        string   `json:"time" form:"time"`
	Location    string   `json:"location" form:"location"`
	LocationURL string   `json:"location_url" form:"location_url"`
	Address     string   `json:"address" form:"address"`
	City        string   `json:"city" form:"city"`
	Country     string   `json:"country" form:"country"`
	IsOnline    bool     `json:"is_online" form:"is_online"`
	WebinarLink string   `json:"webinar_link" form:"webinar_link"`
	Categories  []string `json:"categories" form:"categories"`
	ImageURL    string   `json:"image_url" form:"image_url"`
	IsPublic    *bool    `json:"is_public" form:"is_public"`
}

// Validate 在送出任何寫入前檢查表單。today 為 YYYY-MM-DD；hasImage 表示已有圖片 (上傳檔或既有 URL)。
func (in *EventInput) Validate(today string, hasImage bool) error {
	errs := map[string]string{}

	if strings.TrimSpace(in.Title) == "" {
		errs["title"] = "Title is required"
	}
	if strings.TrimSpace(in.Description) == "" {
		errs["description"] = "Description is required"
	}

	if in.Date == "" {
		errs["date"] = "Date is required"
	} else if _, err := time.Parse(DateLayout, in.Date); err != nil {
		errs["date"] = "Date must be YYYY-MM-DD"
	} else if in.Date < today {
		errs["date"] = "Event date cannot be in the past"
	}

	if strings.TrimSpace(in.Time) == "" {
		errs["time"] = "Time is required"
	}

	if in.IsOnline {
		if strings.TrimSpace(in.WebinarLink) == "" {
			errs["webinar_link"] = "Webinar link is required for online events"
		} else if !isHTTPURL(in.WebinarLink) {
			errs["webinar_link"] = "Webinar link must start with http:// or https://"
		}
	} else {
		if strings.TrimSpace(in.Location) == "" {
			errs["location"] = "Location is required for in-person events"
		}
		if strings.TrimSpace(in.Country) == "" {
			errs["country"] = "Country is required for in-person events"
		}
		if strings.TrimSpace(in.City) == "" {
			errs["city"] = "City is required for in-person events"
		}
		if in.LocationURL != "" && !isGoogleMapsURL(in.LocationURL) {
			errs["location_url"] = "Please enter a valid Google Maps URL"
		}
	}

	if len(cleanCategories(in.Categories)) == 0 {
		errs["categories"] = "At least one category is required"
	}

	if !hasImage && in.ImageURL == "" {
		errs["image"] = "Image is required"
	}

	if len(errs) > 0 {
		return apperrors.NewValidationError(errs)
	}
	return nil
}

// ToEvent 依上線/實體旗標正規化欄位，保證兩組欄位只有一組有值
func (in *EventInput) ToEvent(organizerID uuid.UUID) *Event {
	event := &Event{
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Date:        in.Date,
		Time:        in.Time,
		Category:    JoinCategories(in.Categories),
		ImageURL:    in.ImageURL,
		OrganizerID: organizerID,
		IsOnline:    in.IsOnline,
		IsPublic:    in.IsPublic == nil || *in.IsPublic,
	}
	if in.IsOnline {
		event.Location = OnlineLocation
		event.WebinarLink = strings.TrimSpace(in.WebinarLink)
	} else {
		event.Location = strings.TrimSpace(in.Location)
		event.LocationURL = strings.TrimSpace(in.LocationURL)
		event.Address = strings.TrimSpace(in.Address)
		event.City = strings.TrimSpace(in.City)
		event.Country = strings.TrimSpace(in.Country)
	}
	return event
}

// UpdateParams 編輯表單覆寫全部可編輯欄位
func (e *Event) UpdateParams() UpdateEventParams {
	return UpdateEventParams{
		Title:       &e.Title,
		Description: &e.Description,
		Date:        &e.Date,
		Time:        &e.Time,
		Location:    &e.Location,
		LocationURL: &e.LocationURL,
		Address:     &e.Address,
		City:        &e.City,
		Country:     &e.Country,
		Latitude:    e.Latitude,
		Longitude:   e.Longitude,
		Category:    &e.Category,
		ImageURL:    &e.ImageURL,
		IsOnline:    &e.IsOnline,
		WebinarLink: &e.WebinarLink,
		IsPublic:    &e.IsPublic,
	}
}

func JoinCategories(categories []string) string {
	return strings.Join(cleanCategories(categories), ", ")
}

func SplitCategories(category string) []string {
	return cleanCategories(strings.Split(category, ","))
}

func cleanCategories(categories []string) []string {
	out := make([]string, 0, len(categories))
	for _, c := range categories {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	return out
}

func isGoogleMapsURL(raw string) bool {
	return strings.Contains(raw, "google.com/maps") || strings.Contains(raw, "maps.app.goo.gl")
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Analytics 主辦人儀表板統計
type Analytics struct {
	TotalEvents        int `json:"total_events"`
	UpcomingEvents     int `json:"upcoming_events"`
	TotalRegistrations int `json:"total_registrations"`
}
