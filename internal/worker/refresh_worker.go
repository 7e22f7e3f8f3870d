package worker

import (
	"context"
	"time"

	"eventease/internal/service"
	"eventease/pkg/logger"

	"go.uber.org/zap"
)

type RefreshWorker interface {
	// 定期重新查詢公開活動列表並寫回快取
	Start(ctx context.Context) error
}

type RefreshWorkerImpl struct {
	service  service.EventService
	interval time.Duration
	log      *zap.Logger
}

func NewRefreshWorker(eventService service.EventService, interval time.Duration) RefreshWorker {
	return &RefreshWorkerImpl{
		service:  eventService,
		interval: interval,
		log:      logger.WithComponent("worker"),
	}
}

func (w *RefreshWorkerImpl) Start(ctx context.Context) error {
	go func() {
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := w.service.RefreshPublic(ctx); err != nil {
					w.log.Warn("refresh public events failed", zap.Error(err))
				}
			}
		}
	}()
	return nil
}
