package repository

import (
	"context"

	"eventease/internal/model"
	apperrors "eventease/pkg/app_errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CommentRepository interface {
	Create(ctx context.Context, comment *model.Comment) (*model.Comment, error)
	ListByEvent(ctx context.Context, eventID uuid.UUID) ([]*model.Comment, error)
	// Delete 只刪除屬於該活動且由 userID 發表的留言
	Delete(ctx context.Context, eventID, id, userID uuid.UUID) error
}

type CommentRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewCommentRepository(pool *pgxpool.Pool) CommentRepository {
	return &CommentRepositoryImpl{
		pool: pool,
	}
}

func (r *CommentRepositoryImpl) Create(ctx context.Context, comment *model.Comment) (*model.Comment, error) {
	query := `
		WITH inserted AS (
			INSERT INTO event_comments (event_id, user_id, content)
			VALUES ($1, $2, $3)
			RETURNING id, event_id, user_id, content, created_at, updated_at
		)
		SELECT i.id, i.event_id, i.user_id, i.content, i.created_at, i.updated_at,
		       COALESCE(p.username, ''), COALESCE(p.avatar_url, '')
		FROM inserted i
		LEFT JOIN profiles p ON p.id = i.user_id
	`

	var created model.Comment
	err := r.pool.QueryRow(ctx, query, comment.EventID, comment.UserID, comment.Content).Scan(
		&created.ID,
		&created.EventID,
		&created.UserID,
		&created.Content,
		&created.CreatedAt,
		&created.UpdatedAt,
		&created.Username,
		&created.AvatarURL,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, err
	}

	return &created, nil
}

func (r *CommentRepositoryImpl) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]*model.Comment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT c.id, c.event_id, c.user_id, c.content, c.created_at, c.updated_at,
		       COALESCE(p.username, ''), COALESCE(p.avatar_url, '')
		FROM event_comments c
		LEFT JOIN profiles p ON p.id = c.user_id
		WHERE c.event_id = $1
		ORDER BY c.created_at DESC
	`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := make([]*model.Comment, 0)
	for rows.Next() {
		var c model.Comment
		err := rows.Scan(
			&c.ID,
			&c.EventID,
			&c.UserID,
			&c.Content,
			&c.CreatedAt,
			&c.UpdatedAt,
			&c.Username,
			&c.AvatarURL,
		)
		if err != nil {
			return nil, err
		}
		comments = append(comments, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return comments, nil
}

func (r *CommentRepositoryImpl) Delete(ctx context.Context, eventID, id, userID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM event_comments WHERE id = $1 AND user_id = $2 AND event_id = $3
	`, id, userID, eventID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrCommentNotFound
	}
	return nil
}
