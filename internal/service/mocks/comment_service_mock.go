package mocks

import (
	"context"

	"eventease/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type CommentServiceMock struct {
	mock.Mock
}

func NewCommentServiceMock() *CommentServiceMock {
	return &CommentServiceMock{}
}

func (m *CommentServiceMock) List(ctx context.Context, eventID uuid.UUID) ([]*model.Comment, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Comment), args.Error(1)
}

func (m *CommentServiceMock) Add(ctx context.Context, eventID, userID uuid.UUID, content string) (*model.Comment, error) {
	args := m.Called(ctx, eventID, userID, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Comment), args.Error(1)
}

func (m *CommentServiceMock) Delete(ctx context.Context, eventID, commentID, userID uuid.UUID) error {
	args := m.Called(ctx, eventID, commentID, userID)
	return args.Error(0)
}
