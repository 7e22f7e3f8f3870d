package model

import (
	"time"

	"github.com/google/uuid"
)

// Registration 活動報名 (RSVP)
type Registration struct {
	ID        uuid.UUID `json:"id" db:"id"`
	EventID   uuid.UUID `json:"event_id" db:"event_id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Attendee 報名者與其公開資料
type Attendee struct {
	UserID       uuid.UUID `json:"user_id"`
	Name         string    `json:"name,omitempty"`
	Username     string    `json:"username,omitempty"`
	AvatarURL    string    `json:"avatar_url,omitempty"`
	RegisteredAt time.Time `json:"registered_at"`
}

type RegistrationStatus struct {
	EventID    uuid.UUID `json:"event_id"`
	Registered bool      `json:"registered"`
	Count      int       `json:"registration_count"`
}

type Like struct {
	ID        uuid.UUID `json:"id" db:"id"`
	EventID   uuid.UUID `json:"event_id" db:"event_id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// LikeState 某使用者對某活動的按讚狀態
type LikeState struct {
	EventID uuid.UUID `json:"event_id"`
	Liked   bool      `json:"liked"`
	Count   int       `json:"likes_count"`
}

// Comment 留言，Username/AvatarURL 由 profiles 帶入
type Comment struct {
	ID        uuid.UUID `json:"id" db:"id"`
	EventID   uuid.UUID `json:"event_id" db:"event_id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	Content   string    `json:"content" db:"content"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
	Username  string    `json:"username,omitempty" db:"-"`
	AvatarURL string    `json:"avatar_url,omitempty" db:"-"`
}

type CreateCommentRequest struct {
	Content string `json:"content" binding:"required"`
}
