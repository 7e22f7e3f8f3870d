package mocks

import (
	"context"

	"eventease/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type CommentRepositoryMock struct {
	mock.Mock
}

func NewCommentRepositoryMock() *CommentRepositoryMock {
	return &CommentRepositoryMock{}
}

func (m *CommentRepositoryMock) Create(ctx context.Context, comment *model.Comment) (*model.Comment, error) {
	args := m.Called(ctx, comment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Comment), args.Error(1)
}

func (m *CommentRepositoryMock) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]*model.Comment, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Comment), args.Error(1)
}

func (m *CommentRepositoryMock) Delete(ctx context.Context, eventID, id, userID uuid.UUID) error {
	args := m.Called(ctx, eventID, id, userID)
	return args.Error(0)
}
