package mocks

import (
	"context"

	"eventease/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type LikeServiceMock struct {
	mock.Mock
}

func NewLikeServiceMock() *LikeServiceMock {
	return &LikeServiceMock{}
}

func (m *LikeServiceMock) Toggle(ctx context.Context, eventID, userID uuid.UUID) (model.LikeState, error) {
	args := m.Called(ctx, eventID, userID)
	return args.Get(0).(model.LikeState), args.Error(1)
}

func (m *LikeServiceMock) Status(ctx context.Context, eventID, userID uuid.UUID) (model.LikeState, error) {
	args := m.Called(ctx, eventID, userID)
	return args.Get(0).(model.LikeState), args.Error(1)
}
