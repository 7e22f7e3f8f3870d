package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"eventease/internal/model"
	"eventease/internal/queue"
	"eventease/internal/repository"
	"eventease/internal/storage"
	apperrors "eventease/pkg/app_errors"
	"eventease/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ProfileService interface {
	Get(ctx context.Context, userID uuid.UUID) (*model.Profile, error)
	// Me 登入者自己的資料；尚未建立時回傳只有 id 的空白資料
	Me(ctx context.Context, userID uuid.UUID) (*model.Profile, error)
	Update(ctx context.Context, userID uuid.UUID, req model.UpdateProfileRequest) (*model.Profile, error)
	UploadAvatar(ctx context.Context, userID uuid.UUID, file io.Reader) (*model.Profile, error)
	Follow(ctx context.Context, followerID, followingID uuid.UUID) (*model.Follow, error)
	Unfollow(ctx context.Context, followerID, followingID uuid.UUID) error
	IsFollowing(ctx context.Context, followerID, followingID uuid.UUID) (bool, error)
	GetNotificationPreferences(ctx context.Context, userID uuid.UUID) (*model.NotificationPreferences, error)
	UpdateNotificationPreferences(ctx context.Context, prefs model.NotificationPreferences) (*model.NotificationPreferences, error)
}

type ProfileServiceImpl struct {
	repo         repository.ProfileRepository
	storage      storage.ObjectStorage
	feed         queue.ChangeFeed
	retryBackoff time.Duration
}

func NewProfileService(repo repository.ProfileRepository, objectStorage storage.ObjectStorage, feed queue.ChangeFeed, retryBackoff time.Duration) ProfileService {
	return &ProfileServiceImpl{
		repo:         repo,
		storage:      objectStorage,
		feed:         feed,
		retryBackoff: retryBackoffOrDefault(retryBackoff),
	}
}

func (s *ProfileServiceImpl) Get(ctx context.Context, userID uuid.UUID) (*model.Profile, error) {
	return retryOnce(ctx, "get_profile", s.retryBackoff, func(ctx context.Context) (*model.Profile, error) {
		return s.repo.FindByID(ctx, userID)
	})
}

func (s *ProfileServiceImpl) Me(ctx context.Context, userID uuid.UUID) (*model.Profile, error) {
	profile, err := s.Get(ctx, userID)
	if errors.Is(err, apperrors.ErrProfileNotFound) {
		return &model.Profile{ID: userID}, nil
	}
	return profile, err
}

func (s *ProfileServiceImpl) Update(ctx context.Context, userID uuid.UUID, req model.UpdateProfileRequest) (*model.Profile, error) {
	if err := validateProfile(req); err != nil {
		return nil, err
	}

	profile, err := s.repo.Update(ctx, userID, req)
	if err != nil {
		return nil, err
	}

	publish(ctx, s.feed, model.NewChangeEvent(model.TableProfiles, model.ChangeUpdate, userID, uuid.Nil))
	return profile, nil
}

func (s *ProfileServiceImpl) UploadAvatar(ctx context.Context, userID uuid.UUID, file io.Reader) (*model.Profile, error) {
	url, err := s.storage.Upload(ctx, storage.FolderAvatars, file)
	if err != nil {
		return nil, err
	}

	previous, err := s.repo.UpdateAvatar(ctx, userID, url)
	if err != nil {
		s.deleteFile(url)
		return nil, err
	}
	if previous != "" && previous != url {
		s.deleteFile(previous)
	}

	publish(ctx, s.feed, model.NewChangeEvent(model.TableProfiles, model.ChangeUpdate, userID, uuid.Nil))
	return s.repo.FindByID(ctx, userID)
}

func (s *ProfileServiceImpl) Follow(ctx context.Context, followerID, followingID uuid.UUID) (*model.Follow, error) {
	if followerID == followingID {
		return nil, apperrors.ErrCannotFollowSelf
	}
	if _, err := s.repo.FindByID(ctx, followingID); err != nil {
		return nil, err
	}
	return s.repo.Follow(ctx, followerID, followingID)
}

func (s *ProfileServiceImpl) Unfollow(ctx context.Context, followerID, followingID uuid.UUID) error {
	return s.repo.Unfollow(ctx, followerID, followingID)
}

func (s *ProfileServiceImpl) IsFollowing(ctx context.Context, followerID, followingID uuid.UUID) (bool, error) {
	return s.repo.IsFollowing(ctx, followerID, followingID)
}

func (s *ProfileServiceImpl) GetNotificationPreferences(ctx context.Context, userID uuid.UUID) (*model.NotificationPreferences, error) {
	return retryOnce(ctx, "get_notification_preferences", s.retryBackoff, func(ctx context.Context) (*model.NotificationPreferences, error) {
		return s.repo.GetNotificationPreferences(ctx, userID)
	})
}

func (s *ProfileServiceImpl) UpdateNotificationPreferences(ctx context.Context, prefs model.NotificationPreferences) (*model.NotificationPreferences, error) {
	return s.repo.UpsertNotificationPreferences(ctx, prefs)
}

func (s *ProfileServiceImpl) deleteFile(url string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.storage.Delete(ctx, url); err != nil {
		logger.WithComponent("service").Warn("Failed to delete avatar",
			zap.String("url", url),
			zap.Error(err),
		)
	}
}

func validateProfile(req model.UpdateProfileRequest) error {
	if req.IsEmpty() {
		return apperrors.ErrInvalidInput
	}

	errs := map[string]string{}
	if req.Username != nil {
		username := strings.TrimSpace(*req.Username)
		if len(username) < 3 {
			errs["username"] = "Username must be at least 3 characters"
		} else if strings.ContainsAny(username, " \t@/") {
			errs["username"] = "Username may not contain spaces, @ or /"
		}
	}
	if req.DOB != nil && *req.DOB != "" {
		if _, err := time.Parse(model.DateLayout, *req.DOB); err != nil {
			errs["dob"] = "Date of birth must be YYYY-MM-DD"
		}
	}
	if req.Website != nil && *req.Website != "" && !strings.HasPrefix(*req.Website, "http://") && !strings.HasPrefix(*req.Website, "https://") {
		errs["website"] = "Website must start with http:// or https://"
	}

	if len(errs) > 0 {
		return apperrors.NewValidationError(errs)
	}
	return nil
}
