package middleware

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"jobmatch-backend/internal/shared/telemetry"
)

// Token bucket kept in a Redis hash so every replica draws from the same budget.
// Returns {allowed, retryAfterMs}.
const tokenBucketScript = `
local rate = tonumber(ARGV[1])
local burst = tonumber(ARGV[2])
local now = tonumber(ARGV[3])
local state = redis.call("HMGET", KEYS[1], "tokens", "last")
local tokens = tonumber(state[1])
local last = tonumber(state[2])
if tokens == nil or last == nil then
  tokens = burst
  last = now
end
local elapsed = (now - last) / 1000.0
if elapsed > 0 then
  tokens = math.min(burst, tokens + elapsed * rate)
  last = now
end
local allowed = 0
local wait = 0
if tokens >= 1 then
  tokens = tokens - 1
  allowed = 1
else
  wait = math.ceil((1 - tokens) / rate * 1000)
end
redis.call("HSET", KEYS[1], "tokens", tostring(tokens), "last", tostring(last))
redis.call("PEXPIRE", KEYS[1], math.ceil(burst / rate * 1000) + 1000)
return {allowed, wait}
`

const redisKeyPrefix = "ratelimit:"

// RedisRateLimiter shares bucket state across API replicas.
// Redis failures let the request through.
type RedisRateLimiter struct {
	client  redis.Scripter
	script  *redis.Script
	timeout time.Duration
	now     func() time.Time
}

func NewRedisRateLimiter(client redis.Scripter, now func() time.Time) *RedisRateLimiter {
	if client == nil {
		return nil
	}
	if now == nil {
		now = time.Now
	}
	return &RedisRateLimiter{
		client:  client,
		script:  redis.NewScript(tokenBucketScript),
		timeout: 250 * time.Millisecond,
		now:     now,
	}
}

func (l *RedisRateLimiter) Allow(ctx context.Context, key string, rule RateLimitRule) (bool, time.Duration) {
	if l == nil || l.client == nil {
		return true, 0
	}
	if key == "" || rule.Rate <= 0 || rule.Burst <= 0 {
		return true, 0
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	res, err := l.script.Run(ctx, l.client, []string{redisKeyPrefix + key}, rule.Rate, rule.Burst, l.now().UnixMilli()).Int64Slice()
	if err != nil || len(res) != 2 {
		telemetry.Warn("ratelimit.redis_unavailable", map[string]any{"key": key, "error": err})
		return true, 0
	}
	if res[0] == 1 {
		return true, 0
	}
	return false, time.Duration(res[1]) * time.Millisecond
}
