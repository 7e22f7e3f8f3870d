package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"eventease/internal/model"
	apperrors "eventease/pkg/app_errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ProfileRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Profile, error)
	// 資料列不存在時先建立再更新
	Update(ctx context.Context, id uuid.UUID, req model.UpdateProfileRequest) (*model.Profile, error)
	// 更新頭像並回傳舊的網址
	UpdateAvatar(ctx context.Context, id uuid.UUID, avatarURL string) (string, error)

	Follow(ctx context.Context, followerID, followingID uuid.UUID) (*model.Follow, error)
	Unfollow(ctx context.Context, followerID, followingID uuid.UUID) error
	IsFollowing(ctx context.Context, followerID, followingID uuid.UUID) (bool, error)

	GetNotificationPreferences(ctx context.Context, userID uuid.UUID) (*model.NotificationPreferences, error)
	UpsertNotificationPreferences(ctx context.Context, prefs model.NotificationPreferences) (*model.NotificationPreferences, error)
}

type ProfileRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewProfileRepository(pool *pgxpool.Pool) ProfileRepository {
	return &ProfileRepositoryImpl{
		pool: pool,
	}
}

const profileColumns = `
	p.id, COALESCE(p.username, ''), COALESCE(p.name, ''), COALESCE(p.first_name, ''),
	COALESCE(p.last_name, ''), p.age, COALESCE(p.dob::text, ''), COALESCE(p.phone_number, ''),
	COALESCE(p.country_code, ''), COALESCE(p.gender, ''), COALESCE(p.address, ''),
	COALESCE(p.bio, ''), COALESCE(p.website, ''), COALESCE(p.country, ''), COALESCE(p.city, ''),
	COALESCE(p.avatar_url, ''),
	(SELECT COUNT(*) FROM user_follows f WHERE f.following_id = p.id),
	(SELECT COUNT(*) FROM user_follows f WHERE f.follower_id = p.id),
	p.created_at, p.updated_at`

func scanProfile(row pgx.Row) (*model.Profile, error) {
	var p model.Profile
	err := row.Scan(
		&p.ID,
		&p.Username,
		&p.Name,
		&p.FirstName,
		&p.LastName,
		&p.Age,
		&p.DOB,
		&p.PhoneNumber,
		&p.CountryCode,
		&p.Gender,
		&p.Address,
		&p.Bio,
		&p.Website,
		&p.Country,
		&p.City,
		&p.AvatarURL,
		&p.FollowersCount,
		&p.FollowingCount,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProfileRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*model.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles p WHERE p.id = $1`

	profile, err := scanProfile(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrProfileNotFound
		}
		return nil, err
	}
	return profile, nil
}

func (r *ProfileRepositoryImpl) Update(ctx context.Context, id uuid.UUID, req model.UpdateProfileRequest) (*model.Profile, error) {
	sets := []string{}
	args := []any{}
	argPos := 1

	add := func(column string, value any) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argPos))
		args = append(args, value)
		argPos++
	}
	addText := func(column string, value *string) {
		if value != nil {
			add(column, nullIfEmpty(strings.TrimSpace(*value)))
		}
	}

	addText("username", req.Username)
	addText("name", req.Name)
	addText("first_name", req.FirstName)
	addText("last_name", req.LastName)
	if req.Age != nil {
		add("age", *req.Age)
	}
	if req.DOB != nil {
		sets = append(sets, fmt.Sprintf("dob = $%d::date", argPos))
		args = append(args, nullIfEmpty(*req.DOB))
		argPos++
	}
	addText("phone_number", req.PhoneNumber)
	addText("country_code", req.CountryCode)
	addText("gender", req.Gender)
	addText("address", req.Address)
	addText("bio", req.Bio)
	addText("website", req.Website)
	addText("country", req.Country)
	addText("city", req.City)

	if len(sets) == 0 {
		return nil, apperrors.ErrInvalidInput
	}

	add("updated_at", time.Now().UTC())
	args = append(args, id)

	update := fmt.Sprintf(`UPDATE profiles SET %s WHERE id = $%d`, strings.Join(sets, ", "), argPos)

	err := withTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `INSERT INTO profiles (id) VALUES ($1) ON CONFLICT (id) DO NOTHING`, id); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, update, args...)
		if isUniqueViolation(err) {
			return apperrors.NewValidationError(map[string]string{"username": "Username is already taken"})
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	return r.FindByID(ctx, id)
}

func (r *ProfileRepositoryImpl) UpdateAvatar(ctx context.Context, id uuid.UUID, avatarURL string) (string, error) {
	var previous string

	err := withTx(ctx, r.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO profiles (id) VALUES ($1)
			ON CONFLICT (id) DO UPDATE SET id = EXCLUDED.id
			RETURNING COALESCE(avatar_url, '')
		`, id).Scan(&previous)
		if err != nil {
			return err
		}

		_, err = tx.Exec(ctx, `
			UPDATE profiles SET avatar_url = $1, updated_at = $2 WHERE id = $3
		`, avatarURL, time.Now().UTC(), id)
		return err
	})
	if err != nil {
		return "", err
	}

	return previous, nil
}

func (r *ProfileRepositoryImpl) Follow(ctx context.Context, followerID, followingID uuid.UUID) (*model.Follow, error) {
	var follow model.Follow
	err := r.pool.QueryRow(ctx, `
		INSERT INTO user_follows (follower_id, following_id)
		VALUES ($1, $2)
		RETURNING id, follower_id, following_id, created_at
	`, followerID, followingID).Scan(
		&follow.ID,
		&follow.FollowerID,
		&follow.FollowingID,
		&follow.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.ErrAlreadyFollowing
		}
		if pgErrorCode(err) == pgCheckViolation {
			return nil, apperrors.ErrCannotFollowSelf
		}
		return nil, err
	}
	return &follow, nil
}

func (r *ProfileRepositoryImpl) Unfollow(ctx context.Context, followerID, followingID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM user_follows WHERE follower_id = $1 AND following_id = $2
	`, followerID, followingID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFollowing
	}
	return nil
}

func (r *ProfileRepositoryImpl) IsFollowing(ctx context.Context, followerID, followingID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM user_follows WHERE follower_id = $1 AND following_id = $2)
	`, followerID, followingID).Scan(&exists)
	return exists, err
}

// GetNotificationPreferences 第一次讀取時寫入預設值
func (r *ProfileRepositoryImpl) GetNotificationPreferences(ctx context.Context, userID uuid.UUID) (*model.NotificationPreferences, error) {
	return r.ensureNotificationPreferences(ctx, model.DefaultNotificationPreferences(userID))
}

func (r *ProfileRepositoryImpl) ensureNotificationPreferences(ctx context.Context, defaults model.NotificationPreferences) (*model.NotificationPreferences, error) {
	query := `
		WITH ins AS (
			INSERT INTO notification_preferences (
				user_id, email_notifications, in_app_notifications, event_reminders, marketing_emails
			)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (user_id) DO NOTHING
		)
		SELECT user_id, email_notifications, in_app_notifications, marketing_emails, event_reminders
		FROM notification_preferences WHERE user_id = $1
	`

	var prefs model.NotificationPreferences
	err := r.pool.QueryRow(ctx, query,
		defaults.UserID, defaults.EmailNotifications, defaults.InAppNotifications,
		defaults.EventReminders, defaults.MarketingEmails,
	).Scan(
		&prefs.UserID,
		&prefs.EmailNotifications,
		&prefs.InAppNotifications,
		&prefs.MarketingEmails,
		&prefs.EventReminders,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		// 同一語句內看不到 CTE 剛寫入的資料列
		return &defaults, nil
	}
	if err != nil {
		return nil, err
	}
	return &prefs, nil
}

func (r *ProfileRepositoryImpl) UpsertNotificationPreferences(ctx context.Context, prefs model.NotificationPreferences) (*model.NotificationPreferences, error) {
	query := `
		INSERT INTO notification_preferences (
			user_id, email_notifications, in_app_notifications, event_reminders, marketing_emails, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			email_notifications = EXCLUDED.email_notifications,
			in_app_notifications = EXCLUDED.in_app_notifications,
			event_reminders = EXCLUDED.event_reminders,
			marketing_emails = EXCLUDED.marketing_emails,
			updated_at = NOW()
		RETURNING user_id, email_notifications, in_app_notifications, marketing_emails, event_reminders
	`

	var saved model.NotificationPreferences
	err := r.pool.QueryRow(ctx, query,
		prefs.UserID, prefs.EmailNotifications, prefs.InAppNotifications,
		prefs.EventReminders, prefs.MarketingEmails,
	).Scan(
		&saved.UserID,
		&saved.EmailNotifications,
		&saved.InAppNotifications,
		&saved.MarketingEmails,
		&saved.EventReminders,
	)
	if err != nil {
		return nil, err
	}
	return &saved, nil
}
