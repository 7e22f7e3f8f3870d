package mocks

import (
	"context"

	"eventease/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type LikeCounterMock struct {
	mock.Mock
}

func NewLikeCounterMock() *LikeCounterMock {
	return &LikeCounterMock{}
}

func (m *LikeCounterMock) WarmUp(ctx context.Context, eventID, userID uuid.UUID, liked bool, count int) error {
	args := m.Called(ctx, eventID, userID, liked, count)
	return args.Error(0)
}

func (m *LikeCounterMock) State(ctx context.Context, eventID, userID uuid.UUID) (model.LikeState, error) {
	args := m.Called(ctx, eventID, userID)
	return args.Get(0).(model.LikeState), args.Error(1)
}

func (m *LikeCounterMock) Toggle(ctx context.Context, eventID, userID uuid.UUID) (model.LikeState, error) {
	args := m.Called(ctx, eventID, userID)
	return args.Get(0).(model.LikeState), args.Error(1)
}

func (m *LikeCounterMock) Rollback(ctx context.Context, eventID, userID uuid.UUID, previousLiked bool) error {
	args := m.Called(ctx, eventID, userID, previousLiked)
	return args.Error(0)
}

func (m *LikeCounterMock) SetCount(ctx context.Context, eventID uuid.UUID, count int) error {
	args := m.Called(ctx, eventID, count)
	return args.Error(0)
}

func (m *LikeCounterMock) Invalidate(ctx context.Context, eventID uuid.UUID) error {
	args := m.Called(ctx, eventID)
	return args.Error(0)
}
