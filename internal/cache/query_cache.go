package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"eventease/internal/monitoring"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// 快取 key
const (
	PublicEventsKey   = "events:public"
	FeaturedEventsKey = "events:featured"
	UpcomingEventsKey = "events:upcoming"
)

// versionTTL 失效版本號的保存時間，遠大於快取本身的 TTL
const versionTTL = 24 * time.Hour

func EventKey(eventID uuid.UUID) string {
	return fmt.Sprintf("event:%s", eventID)
}

func EventCommentsKey(eventID uuid.UUID) string {
	return fmt.Sprintf("event:%s:comments", eventID)
}

// QueryCache 查詢結果快取 (JSON)。過了 TTL 即失效，下一次讀取重新查詢。
// 每個 key 有失效版本號：查詢前先讀 Version，寫回時版本已變表示期間有人失效過，放棄寫回。
type QueryCache interface {
	// Get 命中時把值解到 dest 並回傳 true
	Get(ctx context.Context, key string, dest any) (bool, error)
	// Version 目前的失效版本號，從未失效為 0
	Version(ctx context.Context, key string) (int64, error)
	// Set 只在版本號仍等於 version 時寫入，回傳是否寫入
	Set(ctx context.Context, key string, value any, version int64) (bool, error)
	// Invalidate 刪除 key 並遞增版本號
	Invalidate(ctx context.Context, keys ...string) error
}

type RedisQueryCacheImpl struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisQueryCache(client *redis.Client, ttl time.Duration) QueryCache {
	return &RedisQueryCacheImpl{
		client: client,
		ttl:    ttl,
	}
}

func (c *RedisQueryCacheImpl) Get(ctx context.Context, key string, dest any) (bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		monitoring.TrackCacheLookup(cacheName(key), false)
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := json.Unmarshal(data, dest); err != nil {
		// 格式不符的舊資料直接丟掉
		c.client.Del(ctx, key)
		monitoring.TrackCacheLookup(cacheName(key), false)
		return false, nil
	}

	monitoring.TrackCacheLookup(cacheName(key), true)
	return true, nil
}

func versionKey(key string) string {
	return key + ":version"
}

func (c *RedisQueryCacheImpl) Version(ctx context.Context, key string) (int64, error) {
	version, err := c.client.Get(ctx, versionKey(key)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return version, err
}

// 版本號相同才寫入 (Lua 確保比對與寫入之間不會插入失效)
const setIfVersionScript = `
	local current = redis.call('GET', KEYS[2])
	if not current then
		current = '0'
	end
	if tonumber(current) ~= tonumber(ARGV[2]) then
		return 0
	end

	redis.call('SET', KEYS[1], ARGV[1], 'PX', ARGV[3])
	return 1
`

func (c *RedisQueryCacheImpl) Set(ctx context.Context, key string, value any, version int64) (bool, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return false, fmt.Errorf("marshal cache value: %w", err)
	}
	written, err := c.client.Eval(ctx, setIfVersionScript, []string{key, versionKey(key)},
		string(data), version, c.ttl.Milliseconds()).Int64()
	if err != nil {
		return false, err
	}
	return written == 1, nil
}

func (c *RedisQueryCacheImpl) Invalidate(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, keys...)
		for _, key := range keys {
			pipe.Incr(ctx, versionKey(key))
			pipe.Expire(ctx, versionKey(key), versionTTL)
		}
		return nil
	})
	return err
}

// cacheName 取 key 的分類作為指標標籤，避免 id 造成高基數
func cacheName(key string) string {
	parts := strings.Split(key, ":")
	if len(parts) == 3 {
		return parts[0] + "_" + parts[2]
	}
	if parts[0] == "events" {
		return strings.Join(parts, "_")
	}
	return parts[0]
}
