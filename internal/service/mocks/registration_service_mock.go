package mocks

import (
	"context"

	"eventease/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type RegistrationServiceMock struct {
	mock.Mock
}

func NewRegistrationServiceMock() *RegistrationServiceMock {
	return &RegistrationServiceMock{}
}

func (m *RegistrationServiceMock) Register(ctx context.Context, eventID, userID uuid.UUID) (*model.RegistrationStatus, error) {
	args := m.Called(ctx, eventID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RegistrationStatus), args.Error(1)
}

func (m *RegistrationServiceMock) Cancel(ctx context.Context, eventID, userID uuid.UUID) (*model.RegistrationStatus, error) {
	args := m.Called(ctx, eventID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RegistrationStatus), args.Error(1)
}

func (m *RegistrationServiceMock) Status(ctx context.Context, eventID, userID uuid.UUID) (*model.RegistrationStatus, error) {
	args := m.Called(ctx, eventID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RegistrationStatus), args.Error(1)
}

func (m *RegistrationServiceMock) Attendees(ctx context.Context, eventID uuid.UUID) ([]*model.Attendee, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Attendee), args.Error(1)
}
