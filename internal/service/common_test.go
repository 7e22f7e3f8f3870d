package service

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"eventease/internal/geocode"
	"eventease/internal/model"
	"eventease/internal/queue"
	apperrors "eventease/pkg/app_errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

const testToday = "2025-06-11"

func fixedClock() Clock {
	return func() time.Time {
		return time.Date(2025, 6, 11, 9, 30, 0, 0, time.UTC)
	}
}

// recordingFeed 記錄發布的變更
type recordingFeed struct {
	mu      sync.Mutex
	changes []model.ChangeEvent
	err     error
}

func (f *recordingFeed) Publish(ctx context.Context, change model.ChangeEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.changes = append(f.changes, change)
	return nil
}

func (f *recordingFeed) Subscribe(ctx context.Context) (<-chan queue.Delivery, error) {
	return nil, errors.New("not supported")
}

func (f *recordingFeed) published() []model.ChangeEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.ChangeEvent(nil), f.changes...)
}

type storageMock struct {
	mock.Mock
}

func (m *storageMock) Upload(ctx context.Context, folder string, file io.Reader) (string, error) {
	args := m.Called(ctx, folder, file)
	return args.String(0), args.Error(1)
}

func (m *storageMock) Delete(ctx context.Context, fileURL string) error {
	args := m.Called(ctx, fileURL)
	return args.Error(0)
}

type geocoderMock struct {
	mock.Mock
}

func (m *geocoderMock) Geocode(ctx context.Context, address string) (*geocode.Location, error) {
	args := m.Called(ctx, address)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*geocode.Location), args.Error(1)
}

func TestClockToday(t *testing.T) {
	assert.Equal(t, testToday, fixedClock().today())

	var unset Clock
	assert.Equal(t, time.Now().Format(model.DateLayout), unset.today())
}

func TestRetryOnce(t *testing.T) {
	ctx := context.Background()

	t.Run("Success after one failure", func(t *testing.T) {
		calls := 0
		got, err := retryOnce(ctx, "test", time.Millisecond, func(ctx context.Context) (int, error) {
			calls++
			if calls == 1 {
				return 0, errors.New("connection reset")
			}
			return 42, nil
		})
		assert.NoError(t, err)
		assert.Equal(t, 42, got)
		assert.Equal(t, 2, calls)
	})

	t.Run("Failed - retried only once", func(t *testing.T) {
		calls := 0
		_, err := retryOnce(ctx, "test", time.Millisecond, func(ctx context.Context) (int, error) {
			calls++
			return 0, errors.New("connection reset")
		})
		assert.Error(t, err)
		assert.Equal(t, 2, calls)
	})

	t.Run("Not found is not retried", func(t *testing.T) {
		calls := 0
		_, err := retryOnce(ctx, "test", time.Millisecond, func(ctx context.Context) (int, error) {
			calls++
			return 0, apperrors.ErrEventNotFound
		})
		assert.ErrorIs(t, err, apperrors.ErrEventNotFound)
		assert.Equal(t, 1, calls)
	})

	t.Run("Canceled while waiting", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		calls := 0
		_, err := retryOnce(cctx, "test", time.Minute, func(ctx context.Context) (int, error) {
			calls++
			cancel()
			return 0, errors.New("connection reset")
		})
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls)
	})
}
