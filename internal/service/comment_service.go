package service

import (
	"context"
	"strings"
	"time"

	"eventease/internal/cache"
	"eventease/internal/model"
	"eventease/internal/queue"
	"eventease/internal/repository"
	apperrors "eventease/pkg/app_errors"

	"github.com/google/uuid"
)

// maxCommentLength 留言長度上限 (以字元計)
const maxCommentLength = 2000

type CommentService interface {
	// List 最新的留言在前，結果會快取直到收到變更通知
	List(ctx context.Context, eventID uuid.UUID) ([]*model.Comment, error)
	Add(ctx context.Context, eventID, userID uuid.UUID, content string) (*model.Comment, error)
	// Delete 只能刪除自己在該活動下的留言
	Delete(ctx context.Context, eventID, commentID, userID uuid.UUID) error
}

type CommentServiceImpl struct {
	repo         repository.CommentRepository
	eventRepo    repository.EventRepository
	queryCache   cache.QueryCache
	feed         queue.ChangeFeed
	retryBackoff time.Duration
}

func NewCommentService(
	repo repository.CommentRepository,
	eventRepo repository.EventRepository,
	queryCache cache.QueryCache,
	feed queue.ChangeFeed,
	retryBackoff time.Duration,
) CommentService {
	return &CommentServiceImpl{
		repo:         repo,
		eventRepo:    eventRepo,
		queryCache:   queryCache,
		feed:         feed,
		retryBackoff: retryBackoffOrDefault(retryBackoff),
	}
}

func (s *CommentServiceImpl) List(ctx context.Context, eventID uuid.UUID) ([]*model.Comment, error) {
	return cachedLoad(ctx, s.queryCache, cache.EventCommentsKey(eventID), func(ctx context.Context) ([]*model.Comment, error) {
		return retryOnce(ctx, "list_comments", s.retryBackoff, func(ctx context.Context) ([]*model.Comment, error) {
			return s.repo.ListByEvent(ctx, eventID)
		})
	})
}

func (s *CommentServiceImpl) Add(ctx context.Context, eventID, userID uuid.UUID, content string) (*model.Comment, error) {
	content = strings.TrimSpace(content)
	switch {
	case content == "":
		return nil, apperrors.NewValidationError(map[string]string{"content": "Comment cannot be empty"})
	case len([]rune(content)) > maxCommentLength:
		return nil, apperrors.NewValidationError(map[string]string{"content": "Comment is too long"})
	}

	if _, err := s.eventRepo.FindByID(ctx, eventID); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, &model.Comment{
		EventID: eventID,
		UserID:  userID,
		Content: content,
	})
	if err != nil {
		return nil, err
	}

	publish(ctx, s.feed, model.NewChangeEvent(model.TableComments, model.ChangeInsert, created.ID, eventID))
	return created, nil
}

func (s *CommentServiceImpl) Delete(ctx context.Context, eventID, commentID, userID uuid.UUID) error {
	if err := s.repo.Delete(ctx, eventID, commentID, userID); err != nil {
		return err
	}

	publish(ctx, s.feed, model.NewChangeEvent(model.TableComments, model.ChangeDelete, commentID, eventID))
	return nil
}
