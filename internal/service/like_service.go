package service

import (
	"context"
	"errors"

	"eventease/internal/cache"
	"eventease/internal/model"
	"eventease/internal/monitoring"
	"eventease/internal/queue"
	"eventease/internal/repository"
	apperrors "eventease/pkg/app_errors"
	"eventease/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type LikeService interface {
	// Toggle 先在 Redis 翻轉狀態再寫資料庫；寫入失敗時回滾並回傳點擊前的狀態與錯誤
	Toggle(ctx context.Context, eventID, userID uuid.UUID) (model.LikeState, error)
	// Status userID 為 uuid.Nil 時只回傳總數
	Status(ctx context.Context, eventID, userID uuid.UUID) (model.LikeState, error)
}

type LikeServiceImpl struct {
	repo      repository.LikeRepository
	eventRepo repository.EventRepository
	counter   cache.LikeCounter
	feed      queue.ChangeFeed
}

func NewLikeService(repo repository.LikeRepository, eventRepo repository.EventRepository, counter cache.LikeCounter, feed queue.ChangeFeed) LikeService {
	return &LikeServiceImpl{
		repo:      repo,
		eventRepo: eventRepo,
		counter:   counter,
		feed:      feed,
	}
}

func (s *LikeServiceImpl) Toggle(ctx context.Context, eventID, userID uuid.UUID) (model.LikeState, error) {
	log := logger.WithComponent("service").With(
		zap.String("event_id", eventID.String()),
		zap.String("user_id", userID.String()),
	)

	// 1. Redis 原子翻轉，未預熱則從資料庫載入後再試一次
	state, err := s.counter.Toggle(ctx, eventID, userID)
	if errors.Is(err, apperrors.ErrLikeStateNotWarm) {
		if err = s.warmUp(ctx, eventID, userID); err == nil {
			state, err = s.counter.Toggle(ctx, eventID, userID)
		}
	}
	if errors.Is(err, apperrors.ErrEventNotFound) {
		return model.LikeState{}, err
	}
	if err != nil {
		log.Warn("Like counter unavailable, writing directly", zap.Error(err))
		return s.toggleDirect(ctx, eventID, userID)
	}

	previous := previousState(state)

	// 2. 寫資料庫
	var count int
	if state.Liked {
		count, err = s.repo.Create(ctx, eventID, userID)
	} else {
		count, err = s.repo.Delete(ctx, eventID, userID)
	}

	// 快取與資料庫不同步：資料庫已是目標狀態，以資料庫為準
	if errors.Is(err, apperrors.ErrAlreadyLiked) || errors.Is(err, apperrors.ErrNotLiked) {
		count, err = s.repo.Count(ctx, eventID)
	}

	if err != nil {
		// 3. 回滾：使用 context.Background()，請求已取消也要執行
		if rbErr := s.counter.Rollback(context.Background(), eventID, userID, previous.Liked); rbErr != nil {
			log.Error("Failed to rollback like state", zap.Error(rbErr))
		}
		monitoring.TrackLikeRollback()
		log.Warn("Like write failed, rolled back", zap.Bool("liked", state.Liked), zap.Error(err))
		return previous, err
	}

	state.Count = count
	if err := s.counter.SetCount(ctx, eventID, count); err != nil {
		log.Warn("Failed to sync like count", zap.Error(err))
	}

	action := model.ChangeDelete
	if state.Liked {
		action = model.ChangeInsert
	}
	publish(ctx, s.feed, model.NewChangeEvent(model.TableLikes, action, userID, eventID))
	return state, nil
}

func (s *LikeServiceImpl) Status(ctx context.Context, eventID, userID uuid.UUID) (model.LikeState, error) {
	if userID == uuid.Nil {
		event, err := s.eventRepo.FindByID(ctx, eventID)
		if err != nil {
			return model.LikeState{}, err
		}
		return model.LikeState{EventID: eventID, Count: event.LikesCount}, nil
	}

	state, err := s.counter.State(ctx, eventID, userID)
	if err == nil {
		return state, nil
	}
	if !errors.Is(err, apperrors.ErrLikeStateNotWarm) {
		logger.WithComponent("service").Warn("Like counter unavailable, reading database", zap.Error(err))
	}
	return s.loadState(ctx, eventID, userID)
}

func (s *LikeServiceImpl) warmUp(ctx context.Context, eventID, userID uuid.UUID) error {
	state, err := s.loadState(ctx, eventID, userID)
	if err != nil {
		return err
	}
	return s.counter.WarmUp(ctx, eventID, userID, state.Liked, state.Count)
}

func (s *LikeServiceImpl) loadState(ctx context.Context, eventID, userID uuid.UUID) (model.LikeState, error) {
	event, err := s.eventRepo.FindByID(ctx, eventID)
	if err != nil {
		return model.LikeState{}, err
	}
	liked, err := s.repo.Exists(ctx, eventID, userID)
	if err != nil {
		return model.LikeState{}, err
	}
	return model.LikeState{EventID: eventID, Liked: liked, Count: event.LikesCount}, nil
}

// toggleDirect Redis 無法使用時直接以資料庫狀態切換
func (s *LikeServiceImpl) toggleDirect(ctx context.Context, eventID, userID uuid.UUID) (model.LikeState, error) {
	current, err := s.loadState(ctx, eventID, userID)
	if err != nil {
		return model.LikeState{}, err
	}

	var count int
	action := model.ChangeInsert
	if current.Liked {
		action = model.ChangeDelete
		count, err = s.repo.Delete(ctx, eventID, userID)
	} else {
		count, err = s.repo.Create(ctx, eventID, userID)
	}
	if err != nil {
		return current, err
	}

	publish(ctx, s.feed, model.NewChangeEvent(model.TableLikes, action, userID, eventID))
	return model.LikeState{EventID: eventID, Liked: !current.Liked, Count: count}, nil
}

// previousState 由翻轉後的狀態推回點擊前的狀態，總數不低於 0
func previousState(state model.LikeState) model.LikeState {
	previous := model.LikeState{EventID: state.EventID, Liked: !state.Liked}
	if state.Liked {
		previous.Count = max(state.Count-1, 0)
	} else {
		previous.Count = state.Count + 1
	}
	return previous
}
