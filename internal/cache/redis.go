package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// autoReplyQueueKey is the sorted set backing the deferred auto-reply queue.
// Members are JSON job payloads, scores are unix fire times.
const autoReplyQueueKey = "autoreply:queue"

type RedisClient struct {
	client *redis.Client
	ctx    context.Context
}

// NewRedisClient creates a new Redis client
func NewRedisClient(addr, password string, db int) (*RedisClient, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx := context.Background()

	// Test connection
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisClient{
		client: client,
		ctx:    ctx,
	}, nil
}

// Close closes the Redis connection
func (r *RedisClient) Close() error {
	return r.client.Close()
}

// GetClient returns the underlying Redis client
func (r *RedisClient) GetClient() *redis.Client {
	return r.client
}

// Auto-reply job queue

// EnqueueAutoReply adds a job payload due at fireAt
func (r *RedisClient) EnqueueAutoReply(payload []byte, fireAt time.Time) error {
	err := r.client.ZAdd(r.ctx, autoReplyQueueKey, redis.Z{
		Score:  float64(fireAt.Unix()),
		Member: string(payload),
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to enqueue auto-reply job: %w", err)
	}
	return nil
}

// popDueScript atomically removes and returns members whose score has passed.
// The claim has to be atomic so that concurrent workers never hand the same
// job to two goroutines.
const popDueScript = `
local due = redis.call('ZRANGEBYSCORE', KEYS[1], '-inf', ARGV[1], 'LIMIT', 0, ARGV[2])
for i, member in ipairs(due) do
	redis.call('ZREM', KEYS[1], member)
end
return due
`

// PopDueAutoReplies claims up to limit jobs that are due as of now
func (r *RedisClient) PopDueAutoReplies(now time.Time, limit int) ([]string, error) {
	res, err := r.client.Eval(r.ctx, popDueScript, []string{autoReplyQueueKey}, now.Unix(), limit).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to claim due auto-reply jobs: %w", err)
	}

	raw, ok := res.([]interface{})
	if !ok {
		return nil, fmt.Errorf("unexpected result from job queue: %T %v", res, res)
	}

	payloads := make([]string, 0, len(raw))
	for _, item := range raw {
		s, ok := item.(string)
		if !ok {
			continue
		}
		payloads = append(payloads, s)
	}

	return payloads, nil
}

// QueueDepth returns the number of pending auto-reply jobs
func (r *RedisClient) QueueDepth() (int64, error) {
	n, err := r.client.ZCard(r.ctx, autoReplyQueueKey).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to read queue depth: %w", err)
	}
	return n, nil
}

// AllowAction implements a Redis-backed token-bucket limiter per key (user+action).
// Returns true if the action is allowed, false if rate-limited.
func (r *RedisClient) AllowAction(userID uuid.UUID, action string, rate int, burst int) (bool, error) {
	key := fmt.Sprintf("rl:%s:%s", action, userID.String())
	// Lua script: manage tokens and last timestamp
	script := `
local key = KEYS[1]
local rate = tonumber(ARGV[1])
local burst = tonumber(ARGV[2])
local now = tonumber(ARGV[3])
local vals = redis.call('HMGET', key, 'tokens', 'last')
local tokens = tonumber(vals[1])
local last = tonumber(vals[2])
if tokens == nil then tokens = burst end
if last == nil then last = now end
local delta = math.max(0, now - last)
local new_tokens = math.min(burst, tokens + (delta * rate / 1000))
if new_tokens >= 1 then
	new_tokens = new_tokens - 1
	redis.call('HMSET', key, 'tokens', new_tokens, 'last', now)
	redis.call('PEXPIRE', key, 60000)
	return 1
else
	redis.call('HMSET', key, 'tokens', new_tokens, 'last', now)
	redis.call('PEXPIRE', key, 60000)
	return 0
end
`

	now := time.Now().UnixNano() / int64(time.Millisecond)
	res, err := r.client.Eval(r.ctx, script, []string{key}, rate, burst, now).Result()
	if err != nil {
		return false, err
	}
	// Eval returns int64 (1 or 0)
	switch v := res.(type) {
	case int64:
		return v == 1, nil
	case int:
		return v == 1, nil
	default:
		return false, fmt.Errorf("unexpected result from rate limiter: %T %v", res, res)
	}
}
