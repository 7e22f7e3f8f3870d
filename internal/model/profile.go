package model

import (
	"time"

	"github.com/google/uuid"
)

// Profile 使用者公開資料，id 與身分服務的 user id 相同
type Profile struct {
	ID             uuid.UUID `json:"id" db:"id"`
	Username       string    `json:"username" db:"username"`
	Name           string    `json:"name" db:"name"`
	FirstName      string    `json:"first_name" db:"first_name"`
	LastName       string    `json:"last_name" db:"last_name"`
	Age            *int      `json:"age" db:"age"`
	DOB            string    `json:"dob,omitempty" db:"dob"`
	PhoneNumber    string    `json:"phone_number" db:"phone_number"`
	CountryCode    string    `json:"country_code" db:"country_code"`
	Gender         string    `json:"gender" db:"gender"`
	Address        string    `json:"address" db:"address"`
	Bio            string    `json:"bio" db:"bio"`
	Website        string    `json:"website" db:"website"`
	Country        string    `json:"country,omitempty" db:"country"`
	City           string    `json:"city,omitempty" db:"city"`
	AvatarURL      string    `json:"avatar_url,omitempty" db:"avatar_url"`
	FollowersCount int       `json:"followers_count" db:"followers_count"`
	FollowingCount int       `json:"following_count" db:"following_count"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// UpdateProfileRequest 未帶的欄位不更新
type UpdateProfileRequest struct {
	Username    *string `json:"username"`
	Name        *string `json:"name"`
	FirstName   *string `json:"first_name"`
	LastName    *string `json:"last_name"`
	Age         *int    `json:"age" binding:"omitempty,min=0,max=150"`
	DOB         *string `json:"dob"`
	PhoneNumber *string `json:"phone_number"`
	CountryCode *string `json:"country_code"`
	Gender      *string `json:"gender"`
	Address     *string `json:"address"`
	Bio         *string `json:"bio"`
	Website     *string `json:"website"`
	Country     *string `json:"country"`
	City        *string `json:"city"`
}

// IsEmpty 沒有任何欄位需要更新
func (r *UpdateProfileRequest) IsEmpty() bool {
	return r.Username == nil && r.Name == nil && r.FirstName == nil && r.LastName == nil &&
		r.Age == nil && r.DOB == nil && r.PhoneNumber == nil && r.CountryCode == nil &&
		r.Gender == nil && r.Address == nil && r.Bio == nil && r.Website == nil &&
		r.Country == nil && r.City == nil
}

type Follow struct {
	ID          uuid.UUID `json:"id" db:"id"`
	FollowerID  uuid.UUID `json:"follower_id" db:"follower_id"`
	FollowingID uuid.UUID `json:"following_id" db:"following_id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

type NotificationPreferences struct {
	UserID             uuid.UUID `json:"user_id" db:"user_id"`
	EmailNotifications bool      `json:"email_notifications" db:"email_notifications"`
	InAppNotifications bool      `json:"in_app_notifications" db:"in_app_notifications"`
	MarketingEmails    bool      `json:"marketing_emails" db:"marketing_emails"`
	EventReminders     bool      `json:"event_reminders" db:"event_reminders"`
}

// DefaultNotificationPreferences 首次讀取時建立的預設值
func DefaultNotificationPreferences(userID uuid.UUID) NotificationPreferences {
	return NotificationPreferences{
		UserID:             userID,
		EmailNotifications: true,
		InAppNotifications: true,
		MarketingEmails:    false,
		EventReminders:     true,
	}
}
