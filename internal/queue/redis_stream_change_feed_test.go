package queue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"eventease/config"
	"eventease/internal/database"
	"eventease/internal/model"

	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRedisStreamChangeFeed_ExistingGroup(t *testing.T) {
	db, mock := redismock.NewClientMock()
	mock.ExpectXGroupCreateMkStream(StreamKey, ConsumerGroupName, "$").
		SetErr(errors.New("BUSYGROUP Consumer Group name already exists"))

	feed, err := NewRedisStreamChangeFeed(context.Background(), db, "test", nil)

	require.NoError(t, err)
	impl := feed.(*RedisStreamChangeFeedImpl)
	assert.Equal(t, "worker:test", impl.consumerName)
	assert.Equal(t, 5, impl.cfg.MaxRetryCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewRedisStreamChangeFeed_Error(t *testing.T) {
	db, mock := redismock.NewClientMock()
	mock.ExpectXGroupCreateMkStream(StreamKey, ConsumerGroupName, "$").SetErr(errors.New("connection refused"))

	_, err := NewRedisStreamChangeFeed(context.Background(), db, "test", nil)

	assert.Error(t, err)
}

func TestRedisStreamChangeFeed_Publish(t *testing.T) {
	db, mock := redismock.NewClientMock()
	feed := &RedisStreamChangeFeedImpl{client: db, streamKey: StreamKey, groupName: ConsumerGroupName, cfg: defaultRedisStreamConfig()}

	change := model.ChangeEvent{
		Table:      model.TableComments,
		Action:     model.ChangeDelete,
		RecordID:   uuid.New(),
		EventID:    uuid.New(),
		OccurredAt: time.Date(2025, 6, 11, 10, 0, 0, 0, time.UTC),
	}
	data, _ := json.Marshal(change)
	mock.ExpectXAdd(&redis.XAddArgs{
		Stream: StreamKey,
		MaxLen: streamMaxLen,
		Approx: true,
		ID:     "*",
		Values: map[string]interface{}{changeField: string(data)},
	}).SetVal("1-0")

	require.NoError(t, feed.Publish(context.Background(), change))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDecodeChange(t *testing.T) {
	valid := model.NewChangeEvent(model.TableEvents, model.ChangeInsert, uuid.New(), uuid.New())
	data, _ := json.Marshal(valid)

	tests := []struct {
		name    string
		values  map[string]interface{}
		wantErr bool
	}{
		{"valid", map[string]interface{}{changeField: string(data)}, false},
		{"missing field", map[string]interface{}{"other": "x"}, true},
		{"bad json", map[string]interface{}{changeField: "{"}, true},
		{"bad action", map[string]interface{}{changeField: `{"table":"events","action":"truncate"}`}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			change, err := decodeChange(redis.XMessage{ID: "1-0", Values: tt.values})
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, valid.EventID, change.EventID)
		})
	}
}

// 需要測試用 Redis (LoadTestConfig)，連不上時略過
func TestRedisStreamChangeFeed_Integration(t *testing.T) {
	cfg := config.LoadTestConfig()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rdb, err := database.InitRedis(ctx, &cfg.Redis)
	if err != nil {
		t.Skipf("test redis unavailable: %v", err)
	}
	defer rdb.Close()
	rdb.Del(ctx, StreamKey)

	feed, err := NewRedisStreamChangeFeed(ctx, rdb, "it", &RedisStreamConfig{
		ClaimMinIdleTime:   100 * time.Millisecond,
		ReadGroupBlockTime: 100 * time.Millisecond,
	})
	require.NoError(t, err)

	deliveries, err := feed.Subscribe(ctx)
	require.NoError(t, err)

	change := model.NewChangeEvent(model.TableRegistrations, model.ChangeInsert, uuid.New(), uuid.New())
	require.NoError(t, feed.Publish(ctx, change))

	d := receive(t, deliveries)
	assert.Equal(t, change.RecordID, d.Data.RecordID)
	d.Nack(true)

	// 逾時後由 XAUTOCLAIM 重新投遞
	redelivered := receive(t, deliveries)
	assert.Equal(t, change.RecordID, redelivered.Data.RecordID)
	redelivered.Ack()

	pending, err := rdb.XPending(ctx, StreamKey, ConsumerGroupName).Result()
	require.NoError(t, err)
	assert.Zero(t, pending.Count)
}
