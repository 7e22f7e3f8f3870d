package repository

import (
	"context"
	"errors"

	"eventease/internal/model"
	apperrors "eventease/pkg/app_errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type RegistrationRepository interface {
	// 報名並回傳新的 registration_count
	Create(ctx context.Context, eventID, userID uuid.UUID) (*model.Registration, int, error)
	// 取消報名並回傳新的 registration_count
	Delete(ctx context.Context, eventID, userID uuid.UUID) (int, error)
	Exists(ctx context.Context, eventID, userID uuid.UUID) (bool, error)
	ListEventIDsByUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	ListAttendees(ctx context.Context, eventID uuid.UUID) ([]*model.Attendee, error)
}

type RegistrationRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewRegistrationRepository(pool *pgxpool.Pool) RegistrationRepository {
	return &RegistrationRepositoryImpl{
		pool: pool,
	}
}

func (r *RegistrationRepositoryImpl) Create(ctx context.Context, eventID, userID uuid.UUID) (*model.Registration, int, error) {
	var registration model.Registration
	var count int

	err := withTx(ctx, r.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO event_registrations (event_id, user_id)
			VALUES ($1, $2)
			RETURNING id, event_id, user_id, created_at
		`, eventID, userID).Scan(
			&registration.ID,
			&registration.EventID,
			&registration.UserID,
			&registration.CreatedAt,
		)
		if err != nil {
			switch {
			case isUniqueViolation(err):
				return apperrors.ErrAlreadyRegistered
			case isForeignKeyViolation(err):
				return apperrors.ErrEventNotFound
			}
			return err
		}

		return tx.QueryRow(ctx, `
			UPDATE events
			SET registration_count = registration_count + 1
			WHERE id = $1
			RETURNING registration_count
		`, eventID).Scan(&count)
	})
	if err != nil {
		return nil, 0, err
	}

	return &registration, count, nil
}

func (r *RegistrationRepositoryImpl) Delete(ctx context.Context, eventID, userID uuid.UUID) (int, error) {
	var count int

	err := withTx(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			DELETE FROM event_registrations WHERE event_id = $1 AND user_id = $2
		`, eventID, userID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return apperrors.ErrNotRegistered
		}

		err = tx.QueryRow(ctx, `
			UPDATE events
			SET registration_count = GREATEST(registration_count - 1, 0)
			WHERE id = $1
			RETURNING registration_count
		`, eventID).Scan(&count)
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrEventNotFound
		}
		return err
	})
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (r *RegistrationRepositoryImpl) Exists(ctx context.Context, eventID, userID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM event_registrations WHERE event_id = $1 AND user_id = $2
		)
	`, eventID, userID).Scan(&exists)
	return exists, err
}

func (r *RegistrationRepositoryImpl) ListEventIDsByUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT event_id FROM event_registrations
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]uuid.UUID, 0)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return ids, nil
}

func (r *RegistrationRepositoryImpl) ListAttendees(ctx context.Context, eventID uuid.UUID) ([]*model.Attendee, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT er.user_id, COALESCE(p.name, ''), COALESCE(p.username, ''),
		       COALESCE(p.avatar_url, ''), er.created_at
		FROM event_registrations er
		LEFT JOIN profiles p ON p.id = er.user_id
		WHERE er.event_id = $1
		ORDER BY er.created_at ASC
	`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	attendees := make([]*model.Attendee, 0)
	for rows.Next() {
		var a model.Attendee
		err := rows.Scan(
			&a.UserID,
			&a.Name,
			&a.Username,
			&a.AvatarURL,
			&a.RegisteredAt,
		)
		if err != nil {
			return nil, err
		}
		attendees = append(attendees, &a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return attendees, nil
}
