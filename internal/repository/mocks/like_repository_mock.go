package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type LikeRepositoryMock struct {
	mock.Mock
}

func NewLikeRepositoryMock() *LikeRepositoryMock {
	return &LikeRepositoryMock{}
}

func (m *LikeRepositoryMock) Create(ctx context.Context, eventID, userID uuid.UUID) (int, error) {
	args := m.Called(ctx, eventID, userID)
	return args.Int(0), args.Error(1)
}

func (m *LikeRepositoryMock) Delete(ctx context.Context, eventID, userID uuid.UUID) (int, error) {
	args := m.Called(ctx, eventID, userID)
	return args.Int(0), args.Error(1)
}

func (m *LikeRepositoryMock) Exists(ctx context.Context, eventID, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, eventID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *LikeRepositoryMock) Count(ctx context.Context, eventID uuid.UUID) (int, error) {
	args := m.Called(ctx, eventID)
	return args.Int(0), args.Error(1)
}
