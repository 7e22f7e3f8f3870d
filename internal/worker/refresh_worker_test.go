package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"eventease/internal/service/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRefreshWorker(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int32
	svc := mocks.NewEventServiceMock()
	// 第一次失敗只記錄，worker 繼續執行
	svc.On("RefreshPublic", mock.Anything).
		Run(func(args mock.Arguments) { calls.Add(1) }).
		Return(errors.New("db down")).Once()
	svc.On("RefreshPublic", mock.Anything).
		Run(func(args mock.Arguments) { calls.Add(1) }).
		Return(nil)

	w := NewRefreshWorker(svc, 10*time.Millisecond)
	require.NoError(t, w.Start(ctx))

	assert.Eventually(t, func() bool { return calls.Load() >= 2 }, time.Second, 5*time.Millisecond)

	cancel()
	time.Sleep(30 * time.Millisecond)
	stopped := calls.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, stopped, calls.Load())
}
