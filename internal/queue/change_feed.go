package queue

import (
	"context"

	"eventease/internal/model"
)

type Delivery struct {
	Data *model.ChangeEvent
	Ack  func()
	Nack func(requeue bool)
}

// ChangeFeed 資料變更通知。寫入成功後發布，快取失效 worker 訂閱。
type ChangeFeed interface {
	// 發布一筆變更
	Publish(ctx context.Context, change model.ChangeEvent) error
	// 訂閱變更，ctx 結束時關閉 channel
	Subscribe(ctx context.Context) (<-chan Delivery, error)
}

type MemoryChangeFeedImpl struct {
	// 使用 Go channel 模擬 MQ
	ch chan model.ChangeEvent
}

func NewMemoryChangeFeed(bufferSize int) ChangeFeed {
	return &MemoryChangeFeedImpl{
		ch: make(chan model.ChangeEvent, bufferSize),
	}
}

func (f *MemoryChangeFeedImpl) Publish(ctx context.Context, change model.ChangeEvent) error {
	select {
	case f.ch <- change:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (f *MemoryChangeFeedImpl) Subscribe(ctx context.Context) (<-chan Delivery, error) {
	out := make(chan Delivery)

	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case change, ok := <-f.ch:
				if !ok {
					return
				}

				c := change
				d := Delivery{
					Data: &c,
					Ack:  func() {},
					Nack: func(requeue bool) {
						if requeue {
							// 重回隊列；滿了就丟棄，下一次背景更新會補上
							select {
							case f.ch <- c:
							default:
							}
						}
					},
				}

				select {
				case out <- d:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}
