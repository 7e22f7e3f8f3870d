package service

import (
	"context"
	"errors"
	"testing"

	cachemocks "eventease/internal/cache/mocks"
	"eventease/internal/model"
	"eventease/internal/repository/mocks"
	apperrors "eventease/pkg/app_errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type likeFixture struct {
	service   *LikeServiceImpl
	repo      *mocks.LikeRepositoryMock
	eventRepo *mocks.EventRepositoryMock
	counter   *cachemocks.LikeCounterMock
	feed      *recordingFeed
}

func newLikeFixture() *likeFixture {
	f := &likeFixture{
		repo:      mocks.NewLikeRepositoryMock(),
		eventRepo: mocks.NewEventRepositoryMock(),
		counter:   cachemocks.NewLikeCounterMock(),
		feed:      &recordingFeed{},
	}
	f.service = &LikeServiceImpl{repo: f.repo, eventRepo: f.eventRepo, counter: f.counter, feed: f.feed}
	return f
}

func (f *likeFixture) assertExpectations(t *testing.T) {
	f.repo.AssertExpectations(t)
	f.eventRepo.AssertExpectations(t)
	f.counter.AssertExpectations(t)
}

func TestLikeService_Toggle(t *testing.T) {
	eventID := uuid.New()
	userID := uuid.New()

	t.Run("Success - like", func(t *testing.T) {
		f := newLikeFixture()
		f.counter.On("Toggle", mock.Anything, eventID, userID).
			Return(model.LikeState{EventID: eventID, Liked: true, Count: 4}, nil).Once()
		f.repo.On("Create", mock.Anything, eventID, userID).Return(4, nil).Once()
		f.counter.On("SetCount", mock.Anything, eventID, 4).Return(nil).Once()

		state, err := f.service.Toggle(context.Background(), eventID, userID)

		require.NoError(t, err)
		assert.Equal(t, model.LikeState{EventID: eventID, Liked: true, Count: 4}, state)
		changes := f.feed.published()
		require.Len(t, changes, 1)
		assert.Equal(t, model.TableLikes, changes[0].Table)
		assert.Equal(t, model.ChangeInsert, changes[0].Action)
		assert.Equal(t, eventID, changes[0].EventID)
		f.assertExpectations(t)
	})

	t.Run("Success - unlike", func(t *testing.T) {
		f := newLikeFixture()
		f.counter.On("Toggle", mock.Anything, eventID, userID).
			Return(model.LikeState{EventID: eventID, Liked: false, Count: 2}, nil).Once()
		f.repo.On("Delete", mock.Anything, eventID, userID).Return(2, nil).Once()
		f.counter.On("SetCount", mock.Anything, eventID, 2).Return(nil).Once()

		state, err := f.service.Toggle(context.Background(), eventID, userID)

		require.NoError(t, err)
		assert.False(t, state.Liked)
		assert.Equal(t, 2, state.Count)
		assert.Equal(t, model.ChangeDelete, f.feed.published()[0].Action)
		f.assertExpectations(t)
	})

	t.Run("Failed - write error rolls back like", func(t *testing.T) {
		f := newLikeFixture()
		dbErr := errors.New("connection refused")
		previous := model.LikeState{EventID: eventID, Liked: false, Count: 3}

		f.counter.On("Toggle", mock.Anything, eventID, userID).
			Return(model.LikeState{EventID: eventID, Liked: true, Count: 4}, nil).Once()
		f.repo.On("Create", mock.Anything, eventID, userID).Return(0, dbErr).Once()
		f.counter.On("Rollback", mock.Anything, eventID, userID, previous.Liked).Return(nil).Once()

		state, err := f.service.Toggle(context.Background(), eventID, userID)

		assert.ErrorIs(t, err, dbErr)
		// 回到點擊前：未按讚、總數 3
		assert.Equal(t, previous, state)
		assert.Empty(t, f.feed.published())
		f.counter.AssertNotCalled(t, "SetCount", mock.Anything, mock.Anything, mock.Anything)
		f.assertExpectations(t)
	})

	t.Run("Failed - write error rolls back unlike", func(t *testing.T) {
		f := newLikeFixture()
		dbErr := errors.New("timeout")
		previous := model.LikeState{EventID: eventID, Liked: true, Count: 1}

		f.counter.On("Toggle", mock.Anything, eventID, userID).
			Return(model.LikeState{EventID: eventID, Liked: false, Count: 0}, nil).Once()
		f.repo.On("Delete", mock.Anything, eventID, userID).Return(0, dbErr).Once()
		f.counter.On("Rollback", mock.Anything, eventID, userID, previous.Liked).Return(nil).Once()

		state, err := f.service.Toggle(context.Background(), eventID, userID)

		assert.ErrorIs(t, err, dbErr)
		assert.Equal(t, previous, state)
		f.assertExpectations(t)
	})

	t.Run("Success - warms up cold state", func(t *testing.T) {
		f := newLikeFixture()
		f.counter.On("Toggle", mock.Anything, eventID, userID).
			Return(model.LikeState{}, apperrors.ErrLikeStateNotWarm).Once()
		f.eventRepo.On("FindByID", mock.Anything, eventID).
			Return(&model.Event{ID: eventID, LikesCount: 3}, nil).Once()
		f.repo.On("Exists", mock.Anything, eventID, userID).Return(false, nil).Once()
		f.counter.On("WarmUp", mock.Anything, eventID, userID, false, 3).Return(nil).Once()
		f.counter.On("Toggle", mock.Anything, eventID, userID).
			Return(model.LikeState{EventID: eventID, Liked: true, Count: 4}, nil).Once()
		f.repo.On("Create", mock.Anything, eventID, userID).Return(4, nil).Once()
		f.counter.On("SetCount", mock.Anything, eventID, 4).Return(nil).Once()

		state, err := f.service.Toggle(context.Background(), eventID, userID)

		require.NoError(t, err)
		assert.True(t, state.Liked)
		assert.Equal(t, 4, state.Count)
		f.assertExpectations(t)
	})

	t.Run("Failed - event not found", func(t *testing.T) {
		f := newLikeFixture()
		f.counter.On("Toggle", mock.Anything, eventID, userID).
			Return(model.LikeState{}, apperrors.ErrLikeStateNotWarm).Once()
		f.eventRepo.On("FindByID", mock.Anything, eventID).Return(nil, apperrors.ErrEventNotFound).Once()

		_, err := f.service.Toggle(context.Background(), eventID, userID)

		assert.ErrorIs(t, err, apperrors.ErrEventNotFound)
		f.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
		f.assertExpectations(t)
	})

	t.Run("Success - database already in target state", func(t *testing.T) {
		f := newLikeFixture()
		f.counter.On("Toggle", mock.Anything, eventID, userID).
			Return(model.LikeState{EventID: eventID, Liked: true, Count: 6}, nil).Once()
		f.repo.On("Create", mock.Anything, eventID, userID).Return(0, apperrors.ErrAlreadyLiked).Once()
		f.repo.On("Count", mock.Anything, eventID).Return(5, nil).Once()
		f.counter.On("SetCount", mock.Anything, eventID, 5).Return(nil).Once()

		state, err := f.service.Toggle(context.Background(), eventID, userID)

		require.NoError(t, err)
		assert.True(t, state.Liked)
		assert.Equal(t, 5, state.Count)
		f.assertExpectations(t)
	})

	t.Run("Success - counter unavailable falls back to database", func(t *testing.T) {
		f := newLikeFixture()
		f.counter.On("Toggle", mock.Anything, eventID, userID).
			Return(model.LikeState{}, errors.New("redis: connection refused")).Once()
		f.eventRepo.On("FindByID", mock.Anything, eventID).
			Return(&model.Event{ID: eventID, LikesCount: 3}, nil).Once()
		f.repo.On("Exists", mock.Anything, eventID, userID).Return(true, nil).Once()
		f.repo.On("Delete", mock.Anything, eventID, userID).Return(2, nil).Once()

		state, err := f.service.Toggle(context.Background(), eventID, userID)

		require.NoError(t, err)
		assert.Equal(t, model.LikeState{EventID: eventID, Liked: false, Count: 2}, state)
		assert.Len(t, f.feed.published(), 1)
		f.assertExpectations(t)
	})
}

func TestLikeService_Status(t *testing.T) {
	eventID := uuid.New()
	userID := uuid.New()

	t.Run("Anonymous gets count only", func(t *testing.T) {
		f := newLikeFixture()
		f.eventRepo.On("FindByID", mock.Anything, eventID).
			Return(&model.Event{ID: eventID, LikesCount: 7}, nil).Once()

		state, err := f.service.Status(context.Background(), eventID, uuid.Nil)

		require.NoError(t, err)
		assert.Equal(t, model.LikeState{EventID: eventID, Count: 7}, state)
		f.counter.AssertNotCalled(t, "State", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Warm state from counter", func(t *testing.T) {
		f := newLikeFixture()
		f.counter.On("State", mock.Anything, eventID, userID).
			Return(model.LikeState{EventID: eventID, Liked: true, Count: 2}, nil).Once()

		state, err := f.service.Status(context.Background(), eventID, userID)

		require.NoError(t, err)
		assert.True(t, state.Liked)
		f.assertExpectations(t)
	})

	t.Run("Cold state from database", func(t *testing.T) {
		f := newLikeFixture()
		f.counter.On("State", mock.Anything, eventID, userID).
			Return(model.LikeState{}, apperrors.ErrLikeStateNotWarm).Once()
		f.eventRepo.On("FindByID", mock.Anything, eventID).
			Return(&model.Event{ID: eventID, LikesCount: 1}, nil).Once()
		f.repo.On("Exists", mock.Anything, eventID, userID).Return(true, nil).Once()

		state, err := f.service.Status(context.Background(), eventID, userID)

		require.NoError(t, err)
		assert.Equal(t, model.LikeState{EventID: eventID, Liked: true, Count: 1}, state)
		f.assertExpectations(t)
	})
}

func TestPreviousState(t *testing.T) {
	id := uuid.New()
	assert.Equal(t, model.LikeState{EventID: id, Liked: false, Count: 0},
		previousState(model.LikeState{EventID: id, Liked: true, Count: 1}))
	assert.Equal(t, model.LikeState{EventID: id, Liked: true, Count: 1},
		previousState(model.LikeState{EventID: id, Liked: false, Count: 0}))
}
