package repositories

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/avatarctic/realestate-crm/internal/core/domain/ratelimit"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// slidingWindowScript trims the client's sorted set to the trailing window, then
// adds the current instant only when fewer than limit members remain.
// KEYS[1] window key; ARGV: now (ms), window (ms), limit, member.
var slidingWindowScript = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])
redis.call('ZREMRANGEBYSCORE', key, '-inf', now - window)
local count = redis.call('ZCARD', key)
if count >= limit then
  return 0
end
redis.call('ZADD', key, now, ARGV[4])
redis.call('PEXPIRE', key, window)
return 1
`)

// RateLimitRedisRepository shares client windows across instances through Redis sorted sets.
type RateLimitRedisRepository struct {
	r         redis.Cmdable
	keyPrefix string
}

func NewRateLimitRedisRepository(r redis.Cmdable, keyPrefix string) *RateLimitRedisRepository {
	if keyPrefix == "" {
		keyPrefix = "ratelimit:client"
	}
	return &RateLimitRedisRepository{r: r, keyPrefix: keyPrefix}
}

func (repo *RateLimitRedisRepository) key(clientID string) string {
	return fmt.Sprintf("%s:%s", repo.keyPrefix, clientID)
}

func (repo *RateLimitRedisRepository) Admit(ctx context.Context, clientID string, now time.Time, policy ratelimit.Policy) (ratelimit.Decision, error) {
	member := strconv.FormatInt(now.UnixNano(), 10) + "-" + uuid.NewString()
	res, err := slidingWindowScript.Run(ctx, repo.r, []string{repo.key(clientID)},
		now.UnixMilli(), policy.Window.Milliseconds(), policy.Limit, member).Int()
	if err != nil {
		return ratelimit.Allowed, fmt.Errorf("sliding window script: %w", err)
	}
	if res == 0 {
		return ratelimit.Rejected, nil
	}
	return ratelimit.Allowed, nil
}

// Sweep is a no-op: every window key carries a TTL equal to the window length,
// so Redis drops idle clients on its own.
func (repo *RateLimitRedisRepository) Sweep(_ context.Context, _ time.Time, _ time.Duration) (int, error) {
	return 0, nil
}

func (repo *RateLimitRedisRepository) Tracked(ctx context.Context) (int, error) {
	var (
		cursor uint64
		n      int
	)
	for {
		keys, next, err := repo.r.Scan(ctx, cursor, repo.keyPrefix+":*", 500).Result()
		if err != nil {
			return n, fmt.Errorf("scan rate limit keys: %w", err)
		}
		n += len(keys)
		cursor = next
		if cursor == 0 {
			return n, nil
		}
	}
}
