package service

import (
	"context"
	"time"

	"eventease/internal/model"
	"eventease/internal/queue"
	"eventease/internal/repository"
	apperrors "eventease/pkg/app_errors"

	"github.com/google/uuid"
)

type RegistrationService interface {
	// Register 報名 (RSVP)，已結束的活動不可報名
	Register(ctx context.Context, eventID, userID uuid.UUID) (*model.RegistrationStatus, error)
	Cancel(ctx context.Context, eventID, userID uuid.UUID) (*model.RegistrationStatus, error)
	Status(ctx context.Context, eventID, userID uuid.UUID) (*model.RegistrationStatus, error)
	Attendees(ctx context.Context, eventID uuid.UUID) ([]*model.Attendee, error)
}

type RegistrationServiceImpl struct {
	repo         repository.RegistrationRepository
	eventRepo    repository.EventRepository
	feed         queue.ChangeFeed
	retryBackoff time.Duration
	clock        Clock
}

func NewRegistrationService(
	repo repository.RegistrationRepository,
	eventRepo repository.EventRepository,
	feed queue.ChangeFeed,
	retryBackoff time.Duration,
) RegistrationService {
	return &RegistrationServiceImpl{
		repo:         repo,
		eventRepo:    eventRepo,
		feed:         feed,
		retryBackoff: retryBackoffOrDefault(retryBackoff),
	}
}

func (s *RegistrationServiceImpl) Register(ctx context.Context, eventID, userID uuid.UUID) (*model.RegistrationStatus, error) {
	event, err := s.eventRepo.FindByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.IsPast(s.clock.today()) {
		return nil, apperrors.NewValidationError(map[string]string{
			"date": "Registration is closed for past events",
		})
	}

	registration, count, err := s.repo.Create(ctx, eventID, userID)
	if err != nil {
		return nil, err
	}

	publish(ctx, s.feed, model.NewChangeEvent(model.TableRegistrations, model.ChangeInsert, registration.ID, eventID))
	return &model.RegistrationStatus{EventID: eventID, Registered: true, Count: count}, nil
}

func (s *RegistrationServiceImpl) Cancel(ctx context.Context, eventID, userID uuid.UUID) (*model.RegistrationStatus, error) {
	count, err := s.repo.Delete(ctx, eventID, userID)
	if err != nil {
		return nil, err
	}

	publish(ctx, s.feed, model.NewChangeEvent(model.TableRegistrations, model.ChangeDelete, userID, eventID))
	return &model.RegistrationStatus{EventID: eventID, Registered: false, Count: count}, nil
}

func (s *RegistrationServiceImpl) Status(ctx context.Context, eventID, userID uuid.UUID) (*model.RegistrationStatus, error) {
	event, err := retryOnce(ctx, "get_event", s.retryBackoff, func(ctx context.Context) (*model.Event, error) {
		return s.eventRepo.FindByID(ctx, eventID)
	})
	if err != nil {
		return nil, err
	}

	registered, err := retryOnce(ctx, "registration_exists", s.retryBackoff, func(ctx context.Context) (bool, error) {
		return s.repo.Exists(ctx, eventID, userID)
	})
	if err != nil {
		return nil, err
	}

	return &model.RegistrationStatus{EventID: eventID, Registered: registered, Count: event.RegistrationCount}, nil
}

func (s *RegistrationServiceImpl) Attendees(ctx context.Context, eventID uuid.UUID) ([]*model.Attendee, error) {
	return retryOnce(ctx, "list_attendees", s.retryBackoff, func(ctx context.Context) ([]*model.Attendee, error) {
		return s.repo.ListAttendees(ctx, eventID)
	})
}
