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

type EventRepository interface {
	Create(ctx context.Context, event *model.Event) (*model.Event, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Event, error)
	// 公開活動，依日期排序
	ListPublic(ctx context.Context) ([]*model.Event, error)
	// 報名人數最多的公開活動
	ListFeatured(ctx context.Context, limit int) ([]*model.Event, error)
	// today (含) 之後最近的公開活動
	ListUpcoming(ctx context.Context, today string, limit int) ([]*model.Event, error)
	// 主辦人的活動，最新建立的在前
	ListByOrganizer(ctx context.Context, organizerID uuid.UUID) ([]*model.Event, error)
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.Event, error)
	Update(ctx context.Context, id uuid.UUID, params model.UpdateEventParams) (*model.Event, error)
	Delete(ctx context.Context, id uuid.UUID, organizerID uuid.UUID) error
	// 紀錄一次瀏覽並回傳新的 view_count
	IncrementView(ctx context.Context, id uuid.UUID, viewerID *uuid.UUID) (int, error)
	Analytics(ctx context.Context, organizerID uuid.UUID, today string) (*model.Analytics, error)
}

type EventRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewEventRepository(pool *pgxpool.Pool) EventRepository {
	return &EventRepositoryImpl{
		pool: pool,
	}
}

const eventColumns = `
	id, title, description, date::text, time,
	COALESCE(location, ''), COALESCE(location_url, ''), COALESCE(address, ''),
	COALESCE(city, ''), COALESCE(country, ''), latitude, longitude,
	category, COALESCE(image_url, ''), organizer_id, is_online,
	COALESCE(webinar_link, ''), is_public,
	registration_count, view_count, likes_count, created_at`

func scanEvent(row pgx.Row) (*model.Event, error) {
	var event model.Event
	err := row.Scan(
		&event.ID,
		&event.Title,
		&event.Description,
		&event.Date,
		&event.Time,
		&event.Location,
		&event.LocationURL,
		&event.Address,
		&event.City,
		&event.Country,
		&event.Latitude,
		&event.Longitude,
		&event.Category,
		&event.ImageURL,
		&event.OrganizerID,
		&event.IsOnline,
		&event.WebinarLink,
		&event.IsPublic,
		&event.RegistrationCount,
		&event.ViewCount,
		&event.LikesCount,
		&event.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *EventRepositoryImpl) queryEvents(ctx context.Context, query string, args ...any) ([]*model.Event, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]*model.Event, 0)
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}

func (r *EventRepositoryImpl) Create(ctx context.Context, event *model.Event) (*model.Event, error) {
	query := `
		INSERT INTO events (
			title, description, date, time, location, location_url, address,
			city, country, latitude, longitude, category, image_url,
			organizer_id, is_online, webinar_link, is_public
		)
		VALUES ($1, $2, $3::date, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING ` + eventColumns

	created, err := scanEvent(r.pool.QueryRow(ctx, query,
		event.Title, event.Description, event.Date, event.Time,
		nullIfEmpty(event.Location), nullIfEmpty(event.LocationURL), nullIfEmpty(event.Address),
		nullIfEmpty(event.City), nullIfEmpty(event.Country), event.Latitude, event.Longitude,
		event.Category, nullIfEmpty(event.ImageURL), event.OrganizerID, event.IsOnline,
		nullIfEmpty(event.WebinarLink), event.IsPublic,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}
	return created, nil
}

func (r *EventRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*model.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`

	event, err := scanEvent(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, err
	}
	return event, nil
}

func (r *EventRepositoryImpl) ListPublic(ctx context.Context) ([]*model.Event, error) {
	query := `SELECT ` + eventColumns + `
		FROM events
		WHERE is_public = TRUE
		ORDER BY date ASC, created_at ASC`
	return r.queryEvents(ctx, query)
}

func (r *EventRepositoryImpl) ListFeatured(ctx context.Context, limit int) ([]*model.Event, error) {
	query := `SELECT ` + eventColumns + `
		FROM events
		WHERE is_public = TRUE
		ORDER BY registration_count DESC, date ASC
		LIMIT $1`
	return r.queryEvents(ctx, query, limit)
}

func (r *EventRepositoryImpl) ListUpcoming(ctx context.Context, today string, limit int) ([]*model.Event, error) {
	query := `SELECT ` + eventColumns + `
		FROM events
		WHERE is_public = TRUE AND date >= $1::date
		ORDER BY date ASC, created_at ASC
		LIMIT $2`
	return r.queryEvents(ctx, query, today, limit)
}

func (r *EventRepositoryImpl) ListByOrganizer(ctx context.Context, organizerID uuid.UUID) ([]*model.Event, error) {
	query := `SELECT ` + eventColumns + `
		FROM events
		WHERE organizer_id = $1
		ORDER BY created_at DESC`
	return r.queryEvents(ctx, query, organizerID)
}

func (r *EventRepositoryImpl) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.Event, error) {
	if len(ids) == 0 {
		return []*model.Event{}, nil
	}
	query := `SELECT ` + eventColumns + `
		FROM events
		WHERE id = ANY($1)
		ORDER BY date ASC`
	return r.queryEvents(ctx, query, ids)
}

func (r *EventRepositoryImpl) Update(ctx context.Context, id uuid.UUID, params model.UpdateEventParams) (*model.Event, error) {
	sets := []string{}
	args := []any{}
	argPos := 1

	add := func(column string, value any) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argPos))
		args = append(args, value)
		argPos++
	}

	if params.Title != nil {
		add("title", *params.Title)
	}
	if params.Description != nil {
		add("description", *params.Description)
	}
	if params.Date != nil {
		sets = append(sets, fmt.Sprintf("date = $%d::date", argPos))
		args = append(args, *params.Date)
		argPos++
	}
	if params.Time != nil {
		add("time", *params.Time)
	}
	if params.Location != nil {
		add("location", nullIfEmpty(*params.Location))
	}
	if params.LocationURL != nil {
		add("location_url", nullIfEmpty(*params.LocationURL))
	}
	if params.Address != nil {
		add("address", nullIfEmpty(*params.Address))
	}
	if params.City != nil {
		add("city", nullIfEmpty(*params.City))
	}
	if params.Country != nil {
		add("country", nullIfEmpty(*params.Country))
	}
	if params.Latitude != nil {
		add("latitude", *params.Latitude)
	}
	if params.Longitude != nil {
		add("longitude", *params.Longitude)
	}
	if params.Category != nil {
		add("category", *params.Category)
	}
	if params.ImageURL != nil {
		add("image_url", nullIfEmpty(*params.ImageURL))
	}
	if params.IsOnline != nil {
		add("is_online", *params.IsOnline)
	}
	if params.WebinarLink != nil {
		add("webinar_link", nullIfEmpty(*params.WebinarLink))
	}
	if params.IsPublic != nil {
		add("is_public", *params.IsPublic)
	}

	if len(sets) == 0 {
		return nil, apperrors.ErrInvalidInput
	}

	// add updated_at
	add("updated_at", time.Now().UTC())

	// add id
	args = append(args, id)

	query := fmt.Sprintf(`
		UPDATE events
		SET %s
		WHERE id = $%d
		RETURNING %s
	`, strings.Join(sets, ", "), argPos, eventColumns)

	event, err := scanEvent(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, err
	}
	return event, nil
}

// Delete 只刪除自己主辦的活動；報名、按讚、留言、瀏覽紀錄由外鍵連帶刪除
func (r *EventRepositoryImpl) Delete(ctx context.Context, id uuid.UUID, organizerID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM events WHERE id = $1 AND organizer_id = $2`, id, organizerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrEventNotFound
	}
	return nil
}

func (r *EventRepositoryImpl) IncrementView(ctx context.Context, id uuid.UUID, viewerID *uuid.UUID) (int, error) {
	var count *int
	err := r.pool.QueryRow(ctx, `SELECT increment_event_view($1, $2)`, id, viewerID).Scan(&count)
	if err != nil {
		if isForeignKeyViolation(err) {
			return 0, apperrors.ErrEventNotFound
		}
		return 0, err
	}
	if count == nil {
		return 0, apperrors.ErrEventNotFound
	}
	return *count, nil
}

func (r *EventRepositoryImpl) Analytics(ctx context.Context, organizerID uuid.UUID, today string) (*model.Analytics, error) {
	query := `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE date >= $2::date),
		       COALESCE(SUM(registration_count), 0)
		FROM events
		WHERE organizer_id = $1
	`

	var analytics model.Analytics
	err := r.pool.QueryRow(ctx, query, organizerID, today).Scan(
		&analytics.TotalEvents,
		&analytics.UpcomingEvents,
		&analytics.TotalRegistrations,
	)
	if err != nil {
		return nil, err
	}
	return &analytics, nil
}
