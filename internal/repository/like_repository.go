package repository

import (
	"context"
	"errors"

	apperrors "eventease/pkg/app_errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type LikeRepository interface {
	// 按讚並回傳新的 likes_count
	Create(ctx context.Context, eventID, userID uuid.UUID) (int, error)
	// 收回讚並回傳新的 likes_count，不會低於 0
	Delete(ctx context.Context, eventID, userID uuid.UUID) (int, error)
	Exists(ctx context.Context, eventID, userID uuid.UUID) (bool, error)
	Count(ctx context.Context, eventID uuid.UUID) (int, error)
}

type LikeRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewLikeRepository(pool *pgxpool.Pool) LikeRepository {
	return &LikeRepositoryImpl{
		pool: pool,
	}
}

func (r *LikeRepositoryImpl) Create(ctx context.Context, eventID, userID uuid.UUID) (int, error) {
	var count int

	err := withTx(ctx, r.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO event_likes (event_id, user_id) VALUES ($1, $2)
		`, eventID, userID)
		if err != nil {
			switch {
			case isUniqueViolation(err):
				return apperrors.ErrAlreadyLiked
			case isForeignKeyViolation(err):
				return apperrors.ErrEventNotFound
			}
			return err
		}

		return tx.QueryRow(ctx, `
			UPDATE events SET likes_count = likes_count + 1
			WHERE id = $1
			RETURNING likes_count
		`, eventID).Scan(&count)
	})
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (r *LikeRepositoryImpl) Delete(ctx context.Context, eventID, userID uuid.UUID) (int, error) {
	var count int

	err := withTx(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			DELETE FROM event_likes WHERE event_id = $1 AND user_id = $2
		`, eventID, userID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return apperrors.ErrNotLiked
		}

		err = tx.QueryRow(ctx, `
			UPDATE events SET likes_count = GREATEST(likes_count - 1, 0)
			WHERE id = $1
			RETURNING likes_count
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

func (r *LikeRepositoryImpl) Exists(ctx context.Context, eventID, userID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM event_likes WHERE event_id = $1 AND user_id = $2)
	`, eventID, userID).Scan(&exists)
	return exists, err
}

func (r *LikeRepositoryImpl) Count(ctx context.Context, eventID uuid.UUID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT likes_count FROM events WHERE id = $1`, eventID).Scan(&count)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperrors.ErrEventNotFound
		}
		return 0, err
	}
	return count, nil
}
