package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"eventease/internal/model"
	apperrors "eventease/pkg/app_errors"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// DefaultLikeStateTTL 按讚狀態在 Redis 的保存時間，過期後從資料庫重新預熱
const DefaultLikeStateTTL = time.Hour

type LikeCounter interface {
	// 預熱：從資料庫載入某使用者的按讚狀態與總數
	WarmUp(ctx context.Context, eventID, userID uuid.UUID, liked bool, count int) error
	// 讀取：未預熱時回傳 ErrLikeStateNotWarm
	State(ctx context.Context, eventID, userID uuid.UUID) (model.LikeState, error)
	// 切換：原子地翻轉按讚狀態並調整總數 (Lua)，總數不低於 0
	Toggle(ctx context.Context, eventID, userID uuid.UUID) (model.LikeState, error)
	// 回滾：恢復點擊前的旗標，總數以相對值調整 (Lua)
	Rollback(ctx context.Context, eventID, userID uuid.UUID, previousLiked bool) error
	// 以資料庫的總數校正
	SetCount(ctx context.Context, eventID uuid.UUID, count int) error
	Invalidate(ctx context.Context, eventID uuid.UUID) error
}

type RedisLikeCounterImpl struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisLikeCounter(client *redis.Client, ttl time.Duration) LikeCounter {
	return &RedisLikeCounterImpl{
		client: client,
		ttl:    ttl,
	}
}

// 總數 key
func (c *RedisLikeCounterImpl) getCountKey(eventID uuid.UUID) string {
	return fmt.Sprintf("event:%s:likes", eventID)
}

// 使用者按讚紀錄 key (field = user id, value = 1/0)
func (c *RedisLikeCounterImpl) getLikersKey(eventID uuid.UUID) string {
	return fmt.Sprintf("event:%s:likers", eventID)
}

func (c *RedisLikeCounterImpl) keys(eventID uuid.UUID) []string {
	return []string{c.getCountKey(eventID), c.getLikersKey(eventID)}
}

const warmUpScript = `
	local count_key = KEYS[1]
	local likers_key = KEYS[2]

	redis.call('HSETNX', count_key, 'count', ARGV[2])
	redis.call('HSET', likers_key, ARGV[1], ARGV[3])
	redis.call('EXPIRE', count_key, ARGV[4])
	redis.call('EXPIRE', likers_key, ARGV[4])

	return 1
`

const stateScript = `
	local count = redis.call('HGET', KEYS[1], 'count')
	local flag = redis.call('HGET', KEYS[2], ARGV[1])

	if not count or not flag then
		return {-3, 0} -- 錯誤：尚未預熱
	end

	return {tonumber(flag), tonumber(count)}
`

/*
切換按讚 (Lua 確保原子性)
 1. 檢查是否已預熱
 2. 已按讚則收回並扣減總數 (不低於 0)
 3. 未按讚則寫入並增加總數
*/
const toggleScript = `
	local count_key = KEYS[1]
	local likers_key = KEYS[2]
	local user_id = ARGV[1]

	local count = redis.call('HGET', count_key, 'count')
	local flag = redis.call('HGET', likers_key, user_id)

	if not count or not flag then
		return {-3, 0} -- 錯誤：尚未預熱
	end

	count = tonumber(count)

	if flag == '1' then
		count = count - 1
		if count < 0 then
			count = 0
		end
		redis.call('HSET', likers_key, user_id, '0')
		redis.call('HSET', count_key, 'count', count)
		return {0, count}
	end

	count = count + 1
	redis.call('HSET', likers_key, user_id, '1')
	redis.call('HSET', count_key, 'count', count)
	return {1, count}
`

/*
回滾 (Lua)：只撤銷這位使用者自己的那一次翻轉
 1. 旗標已是點擊前的值，或已過期，直接返回，重複呼叫不會重複調整
 2. 恢復旗標，總數以相對值 +1/-1 調整 (不低於 0)，不覆蓋其他使用者在期間的變更
 3. 總數已過期時刪除旗標，下次讀取重新預熱
*/
const rollbackScript = `
	local count_key = KEYS[1]
	local likers_key = KEYS[2]
	local user_id = ARGV[1]
	local previous_flag = ARGV[2]

	local flag = redis.call('HGET', likers_key, user_id)
	if not flag or flag == previous_flag then
		return 0
	end

	local count = redis.call('HGET', count_key, 'count')
	if not count then
		redis.call('HDEL', likers_key, user_id)
		return 1
	end

	count = tonumber(count)
	if previous_flag == '1' then
		count = count + 1
	else
		count = count - 1
		if count < 0 then
			count = 0
		end
	end

	redis.call('HSET', likers_key, user_id, previous_flag)
	redis.call('HSET', count_key, 'count', count)
	return 1
`

func flagOf(liked bool) string {
	if liked {
		return "1"
	}
	return "0"
}

func (c *RedisLikeCounterImpl) WarmUp(ctx context.Context, eventID, userID uuid.UUID, liked bool, count int) error {
	if count < 0 {
		count = 0
	}
	ttl := int(c.ttl.Seconds())
	return c.client.Eval(ctx, warmUpScript, c.keys(eventID), userID.String(), count, flagOf(liked), ttl).Err()
}

func (c *RedisLikeCounterImpl) State(ctx context.Context, eventID, userID uuid.UUID) (model.LikeState, error) {
	result, err := c.client.Eval(ctx, stateScript, c.keys(eventID), userID.String()).Result()
	if err != nil {
		return model.LikeState{}, err
	}
	return parseLikeResult(eventID, result)
}

func (c *RedisLikeCounterImpl) Toggle(ctx context.Context, eventID, userID uuid.UUID) (model.LikeState, error) {
	result, err := c.client.Eval(ctx, toggleScript, c.keys(eventID), userID.String()).Result()
	if err != nil {
		return model.LikeState{}, err
	}
	return parseLikeResult(eventID, result)
}

func (c *RedisLikeCounterImpl) Rollback(ctx context.Context, eventID, userID uuid.UUID, previousLiked bool) error {
	return c.client.Eval(ctx, rollbackScript, c.keys(eventID), userID.String(), flagOf(previousLiked)).Err()
}

func (c *RedisLikeCounterImpl) SetCount(ctx context.Context, eventID uuid.UUID, count int) error {
	key := c.getCountKey(eventID)
	// 只校正已預熱的 key，避免產生沒有 TTL 的資料
	n, err := c.client.Exists(ctx, key).Result()
	if err != nil || n == 0 {
		return err
	}
	return c.client.HSet(ctx, key, "count", count).Err()
}

func (c *RedisLikeCounterImpl) Invalidate(ctx context.Context, eventID uuid.UUID) error {
	return c.client.Del(ctx, c.keys(eventID)...).Err()
}

func parseLikeResult(eventID uuid.UUID, result any) (model.LikeState, error) {
	resSlice, ok := result.([]interface{})
	if !ok || len(resSlice) != 2 {
		return model.LikeState{}, errors.New("unexpected like script result")
	}
	code, ok1 := resSlice[0].(int64) // Redis 數字回傳 int64
	count, ok2 := resSlice[1].(int64)
	if !ok1 || !ok2 {
		return model.LikeState{}, errors.New("unexpected like script result")
	}

	switch code {
	case 1, 0:
		return model.LikeState{EventID: eventID, Liked: code == 1, Count: int(count)}, nil
	case -3:
		return model.LikeState{}, apperrors.ErrLikeStateNotWarm
	default:
		return model.LikeState{}, fmt.Errorf("unexpected like script code: %d", code)
	}
}
