package service

import (
	"context"
	"errors"
	"time"

	"eventease/internal/cache"
	"eventease/internal/model"
	"eventease/internal/monitoring"
	"eventease/internal/queue"
	apperrors "eventease/pkg/app_errors"
	"eventease/pkg/logger"

	"go.uber.org/zap"
)

// DefaultRetryBackoff 讀取失敗後重試前的固定等待；建構時傳入 0 使用此值
const DefaultRetryBackoff = time.Second

func retryBackoffOrDefault(backoff time.Duration) time.Duration {
	if backoff <= 0 {
		return DefaultRetryBackoff
	}
	return backoff
}

// Clock 讓測試可以固定「今天」
type Clock func() time.Time

func (c Clock) today() string {
	if c == nil {
		return time.Now().Format(model.DateLayout)
	}
	return c().Format(model.DateLayout)
}

// publish 發送變更通知；寫入已成功，通知失敗只記錄，快取靠 TTL 與定期更新補回
func publish(ctx context.Context, feed queue.ChangeFeed, change model.ChangeEvent) {
	if feed == nil {
		return
	}
	if err := feed.Publish(ctx, change); err != nil {
		logger.WithComponent("service").Warn("Failed to publish change",
			zap.String("table", change.Table),
			zap.String("action", string(change.Action)),
			zap.String("record_id", change.RecordID.String()),
			zap.Error(err),
		)
	}
}

// retryOnce 讀取失敗時等待 backoff 後重試一次。找不到資料或 context 已結束不重試。
func retryOnce[T any](ctx context.Context, operation string, backoff time.Duration, fn func(context.Context) (T, error)) (T, error) {
	result, err := fn(ctx)
	if err == nil || !retryable(err) {
		return result, err
	}

	monitoring.TrackRetry(operation)
	logger.WithComponent("service").Warn("Read failed, retrying",
		zap.String("operation", operation),
		zap.Duration("backoff", backoff),
		zap.Error(err),
	)

	timer := time.NewTimer(backoff)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	case <-timer.C:
	}

	return fn(ctx)
}

func retryable(err error) bool {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return false
	case errors.Is(err, apperrors.ErrEventNotFound),
		errors.Is(err, apperrors.ErrProfileNotFound),
		errors.Is(err, apperrors.ErrCommentNotFound),
		errors.Is(err, apperrors.ErrInvalidInput):
		return false
	}
	return true
}

// cacheLookup 快取讀取失敗視同未命中
func cacheLookup[T any](ctx context.Context, queryCache cache.QueryCache, key string) (T, bool) {
	var cached T
	if queryCache == nil {
		return cached, false
	}
	hit, err := queryCache.Get(ctx, key, &cached)
	if err != nil {
		logger.WithComponent("service").Warn("Cache read failed", zap.String("key", key), zap.Error(err))
		return cached, false
	}
	return cached, hit
}

// cachedLoad 先查快取，未命中時以 loadAndStore 查詢並寫回
func cachedLoad[T any](ctx context.Context, queryCache cache.QueryCache, key string, load func(context.Context) (T, error)) (T, error) {
	if cached, hit := cacheLookup[T](ctx, queryCache, key); hit {
		return cached, nil
	}
	return loadAndStore(ctx, queryCache, key, load)
}

// loadAndStore 查詢前先記下快取版本號；查詢期間若有變更使快取失效，放棄寫回舊資料
func loadAndStore[T any](ctx context.Context, queryCache cache.QueryCache, key string, load func(context.Context) (T, error)) (T, error) {
	if queryCache == nil {
		return load(ctx)
	}
	log := logger.WithComponent("service").With(zap.String("key", key))

	version, versionErr := queryCache.Version(ctx, key)
	if versionErr != nil {
		log.Warn("Cache version read failed, result will not be cached", zap.Error(versionErr))
	}

	result, err := load(ctx)
	if err != nil || versionErr != nil {
		return result, err
	}

	written, err := queryCache.Set(ctx, key, result, version)
	if err != nil {
		log.Warn("Cache write failed", zap.Error(err))
	} else if !written {
		log.Debug("Cache invalidated during load, write-back skipped")
	}
	return result, nil
}
