package worker

import (
	"context"

	"eventease/internal/cache"
	"eventease/internal/model"
	"eventease/internal/monitoring"
	"eventease/internal/queue"
	"eventease/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type InvalidationWorker interface {
	// 訂閱變更通知，讓對應的快取失效
	Start(ctx context.Context) error
}

type InvalidationWorkerImpl struct {
	cache   cache.QueryCache
	counter cache.LikeCounter
	feed    queue.ChangeFeed
	log     *zap.Logger
}

// NewInvalidationWorker counter 可為 nil，此時刪除活動不清除按讚計數
func NewInvalidationWorker(queryCache cache.QueryCache, counter cache.LikeCounter, feed queue.ChangeFeed) InvalidationWorker {
	return &InvalidationWorkerImpl{
		cache:   queryCache,
		counter: counter,
		feed:    feed,
		log:     logger.WithComponent("worker"),
	}
}

func (w *InvalidationWorkerImpl) Start(ctx context.Context) error {
	msgs, err := w.feed.Subscribe(ctx)
	if err != nil {
		return err
	}

	go func() {
		for msg := range msgs {
			change := msg.Data
			keys := KeysFor(*change)

			err := w.cache.Invalidate(ctx, keys...)
			if err == nil {
				err = w.dropLikeState(ctx, *change)
			}
			if err != nil {
				// Redis 暫時失敗，稍後重試
				w.log.Warn("invalidate failed, requeue",
					zap.String("table", change.Table),
					zap.String("event_id", change.EventID.String()),
					zap.Error(err))
				monitoring.TrackChangeEvent(change.Table, string(change.Action), "retry")
				msg.Nack(true)
				continue
			}

			monitoring.TrackChangeEvent(change.Table, string(change.Action), "ok")
			msg.Ack()
		}
	}()
	return nil
}

// dropLikeState 活動刪除後其按讚計數不再有人讀取，直接清掉
func (w *InvalidationWorkerImpl) dropLikeState(ctx context.Context, change model.ChangeEvent) error {
	if w.counter == nil || change.Table != model.TableEvents || change.Action != model.ChangeDelete || change.EventID == uuid.Nil {
		return nil
	}
	return w.counter.Invalidate(ctx, change.EventID)
}

// KeysFor 變更對應到需要失效的快取 key
func KeysFor(change model.ChangeEvent) []string {
	hasEvent := change.EventID != uuid.Nil

	switch change.Table {
	case model.TableEvents, model.TableRegistrations, model.TableLikes:
		// 報名數、按讚數影響列表排序與首頁精選
		keys := []string{cache.PublicEventsKey, cache.FeaturedEventsKey, cache.UpcomingEventsKey}
		if hasEvent {
			keys = append(keys, cache.EventKey(change.EventID))
		}
		if change.Table == model.TableEvents && change.Action == model.ChangeDelete && hasEvent {
			keys = append(keys, cache.EventCommentsKey(change.EventID))
		}
		return keys
	case model.TableComments:
		if hasEvent {
			return []string{cache.EventCommentsKey(change.EventID)}
		}
	}
	return nil
}
