package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"eventease/internal/model"
	"eventease/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	StreamKey          = "eventease:changes"
	ConsumerGroupName  = "cache-invalidators"
	ConsumerNamePrefix = "worker"

	// 變更紀錄在 stream 中的欄位名稱
	changeField = "change"
	// stream 保留的大約筆數
	streamMaxLen = 10000
)

// RedisStreamConfig 可注入的逾時與重試設定；nil 或零值時使用預設。
type RedisStreamConfig struct {
	ClaimMinIdleTime   time.Duration // PEL 中超過此時間才被 XAUTOCLAIM 領取
	MaxRetryCount      int           // 超過此次數視為毒藥消息並丟棄
	ReadGroupBlockTime time.Duration // XReadGroup 阻塞時間
}

func defaultRedisStreamConfig() RedisStreamConfig {
	return RedisStreamConfig{
		ClaimMinIdleTime:   5 * time.Second,
		MaxRetryCount:      5,
		ReadGroupBlockTime: 2 * time.Second,
	}
}

type RedisStreamChangeFeedImpl struct {
	client       *redis.Client
	streamKey    string
	groupName    string
	consumerName string
	cfg          RedisStreamConfig
	log          *zap.Logger
}

// NewRedisStreamChangeFeed 建立 Redis Stream 版 ChangeFeed。config 可為 nil。
func NewRedisStreamChangeFeed(ctx context.Context, client *redis.Client, consumerID string, config *RedisStreamConfig) (ChangeFeed, error) {
	if consumerID == "" {
		consumerID = uuid.New().String()
	}
	cfg := defaultRedisStreamConfig()
	if config != nil {
		if config.ClaimMinIdleTime > 0 {
			cfg.ClaimMinIdleTime = config.ClaimMinIdleTime
		}
		if config.MaxRetryCount > 0 {
			cfg.MaxRetryCount = config.MaxRetryCount
		}
		if config.ReadGroupBlockTime > 0 {
			cfg.ReadGroupBlockTime = config.ReadGroupBlockTime
		}
	}
	f := &RedisStreamChangeFeedImpl{
		client:       client,
		streamKey:    StreamKey,
		groupName:    ConsumerGroupName,
		consumerName: fmt.Sprintf("%s:%s", ConsumerNamePrefix, consumerID),
		cfg:          cfg,
		log:          logger.WithComponent("feed"),
	}
	if err := f.ensureConsumerGroup(ctx); err != nil {
		return nil, fmt.Errorf("ensure consumer group: %w", err)
	}
	return f, nil
}

func (f *RedisStreamChangeFeedImpl) ensureConsumerGroup(ctx context.Context) error {
	err := f.client.XGroupCreateMkStream(ctx, f.streamKey, f.groupName, "$").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return err
	}
	return nil
}

func (f *RedisStreamChangeFeedImpl) Publish(ctx context.Context, change model.ChangeEvent) error {
	data, err := json.Marshal(change)
	if err != nil {
		return fmt.Errorf("marshal change: %w", err)
	}
	err = f.client.XAdd(ctx, &redis.XAddArgs{
		Stream: f.streamKey,
		MaxLen: streamMaxLen,
		Approx: true,
		ID:     "*",
		Values: map[string]interface{}{changeField: string(data)},
	}).Err()
	if err != nil {
		return fmt.Errorf("xadd: %w", err)
	}
	return nil
}

func (f *RedisStreamChangeFeedImpl) Subscribe(ctx context.Context) (<-chan Delivery, error) {
	out := make(chan Delivery)
	go func() {
		defer close(out)
		go f.runAutoClaim(ctx, out)
		f.runReadLoop(ctx, out)
	}()
	return out, nil
}

func (f *RedisStreamChangeFeedImpl) runReadLoop(ctx context.Context, out chan<- Delivery) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
			f.readAndDeliver(ctx, out)
		}
	}
}

// readAndDeliver 只讀新訊息 (">")；已投遞未 ack 的訊息由 XAUTOCLAIM 逾時後領回重試
func (f *RedisStreamChangeFeedImpl) readAndDeliver(ctx context.Context, out chan<- Delivery) {
	streams, err := f.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    f.groupName,
		Consumer: f.consumerName,
		Streams:  []string{f.streamKey, ">"},
		Count:    10,
		Block:    f.cfg.ReadGroupBlockTime,
	}).Result()

	if errors.Is(err, redis.Nil) {
		return
	}
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		f.log.Error("XReadGroup failed", zap.Error(err))
		select {
		case <-time.After(time.Second):
		case <-ctx.Done():
		}
		return
	}

	for _, stream := range streams {
		if stream.Stream != f.streamKey {
			continue
		}
		for _, msg := range stream.Messages {
			d := f.newDelivery(ctx, msg)
			if d == nil {
				continue
			}
			select {
			case out <- *d:
			case <-ctx.Done():
				return
			}
		}
	}
}

// shouldProcessMessage 毒藥消息判斷：重試次數超過上限就 ack 丟棄
func (f *RedisStreamChangeFeedImpl) shouldProcessMessage(ctx context.Context, messageID string) bool {
	n, err := f.getMessageRetryCount(ctx, messageID)
	if err != nil {
		f.log.Warn("getMessageRetryCount failed", zap.String("message_id", messageID), zap.Error(err))
		return true
	}
	if n >= f.cfg.MaxRetryCount {
		f.log.Warn("discard poison message", zap.String("message_id", messageID), zap.Int("retries", n), zap.Int("max_retries", f.cfg.MaxRetryCount))
		_ = f.client.XAck(ctx, f.streamKey, f.groupName, messageID).Err()
		return false
	}
	return true
}

func (f *RedisStreamChangeFeedImpl) getMessageRetryCount(ctx context.Context, messageID string) (int, error) {
	pending, err := f.client.XPendingExt(ctx, &redis.XPendingExtArgs{
		Stream: f.streamKey,
		Group:  f.groupName,
		Start:  messageID,
		End:    messageID,
		Count:  1,
	}).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, err
	}
	if len(pending) == 0 {
		return 0, nil
	}
	return int(pending[0].RetryCount), nil
}

// runAutoClaim 定時用 XAUTOCLAIM 領取逾時未 ack 的消息
func (f *RedisStreamChangeFeedImpl) runAutoClaim(ctx context.Context, out chan<- Delivery) {
	ticker := time.NewTicker(f.cfg.ClaimMinIdleTime)
	defer ticker.Stop()
	startID := "0-0"

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			claimed, nextID, err := f.client.XAutoClaim(ctx, &redis.XAutoClaimArgs{
				Stream:   f.streamKey,
				Group:    f.groupName,
				Consumer: f.consumerName,
				MinIdle:  f.cfg.ClaimMinIdleTime,
				Count:    10,
				Start:    startID,
			}).Result()

			if err != nil && !errors.Is(err, redis.Nil) {
				if ctx.Err() == nil {
					f.log.Error("XAutoClaim failed", zap.Error(err))
				}
				continue
			}
			if nextID != "" && nextID != "0-0" {
				startID = nextID
			} else {
				startID = "0-0"
			}

			for _, msg := range claimed {
				if !f.shouldProcessMessage(ctx, msg.ID) {
					continue
				}
				d := f.newDelivery(ctx, msg)
				if d == nil {
					continue
				}
				select {
				case out <- *d:
				case <-ctx.Done():
					return
				}
			}
		}
	}
}

// newDelivery 從 stream 訊息組裝 Delivery；格式錯誤的訊息直接 ack 丟棄
func (f *RedisStreamChangeFeedImpl) newDelivery(ctx context.Context, msg redis.XMessage) *Delivery {
	msgID := msg.ID
	change, err := decodeChange(msg)
	if err != nil {
		f.log.Warn("invalid change message", zap.String("message_id", msgID), zap.Error(err))
		_ = f.client.XAck(ctx, f.streamKey, f.groupName, msgID).Err()
		return nil
	}

	return &Delivery{
		Data: change,
		Ack: func() {
			if err := f.client.XAck(ctx, f.streamKey, f.groupName, msgID).Err(); err != nil {
				f.log.Error("XAck failed", zap.String("message_id", msgID), zap.Error(err))
			}
		},
		Nack: func(requeue bool) {
			if requeue {
				// 留在 PEL，ClaimMinIdleTime 後由 XAUTOCLAIM 領回，形成延遲重試
				f.log.Info("message nack(requeue), will retry", zap.String("message_id", msgID), zap.Duration("claim_min_idle", f.cfg.ClaimMinIdleTime))
				return
			}
			if err := f.client.XAck(ctx, f.streamKey, f.groupName, msgID).Err(); err != nil {
				f.log.Error("XAck discard failed", zap.String("message_id", msgID), zap.Error(err))
			}
		},
	}
}

func decodeChange(msg redis.XMessage) (*model.ChangeEvent, error) {
	raw, ok := msg.Values[changeField].(string)
	if !ok {
		return nil, errors.New("missing change field")
	}
	var change model.ChangeEvent
	if err := json.Unmarshal([]byte(raw), &change); err != nil {
		return nil, fmt.Errorf("unmarshal change: %w", err)
	}
	if !change.Action.IsValid() || change.Table == "" {
		return nil, fmt.Errorf("invalid change %s/%s", change.Table, change.Action)
	}
	return &change, nil
}
