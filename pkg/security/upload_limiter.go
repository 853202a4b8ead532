package security

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

// Sliding window over a sorted set.
// KEYS[1] = rate limit key
// ARGV[1] = max count allowed
// ARGV[2] = window size in milliseconds
// ARGV[3] = current timestamp in milliseconds
// ARGV[4] = unique member for this request
// Returns: 1 if allowed, 0 if rate limited
var uploadRateLimitScript = goredis.NewScript(`
local key = KEYS[1]
local limit = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local now = tonumber(ARGV[3])

redis.call('ZREMRANGEBYSCORE', key, 0, now - window)

if redis.call('ZCARD', key) >= limit then
    return 0
end

redis.call('ZADD', key, now, ARGV[4])
redis.call('PEXPIRE', key, window)
return 1
`)

// UploadLimiter caps document uploads per client IP using Redis.
type UploadLimiter struct {
	client *goredis.Client
	limit  int
	window time.Duration
	now    func() time.Time
}

// NewUploadLimiter returns a limiter allowing perMinute uploads per IP.
// A nil client disables limiting.
func NewUploadLimiter(client *goredis.Client, perMinute int) *UploadLimiter {
	if perMinute <= 0 {
		perMinute = 10
	}
	return &UploadLimiter{
		client: client,
		limit:  perMinute,
		window: time.Minute,
		now:    time.Now,
	}
}

func (ul *UploadLimiter) Enabled() bool {
	return ul != nil && ul.client != nil
}

// Allow reports whether ip may upload now and, if not, how many seconds to
// wait. Redis failures fail open and are returned for logging.
func (ul *UploadLimiter) Allow(ctx context.Context, ip string) (bool, int, error) {
	if !ul.Enabled() {
		return true, 0, nil
	}

	now := ul.now()
	key := fmt.Sprintf("ratelimit:upload:ip:%s", ip)
	res, err := uploadRateLimitScript.Run(ctx, ul.client, []string{key},
		ul.limit, ul.window.Milliseconds(), now.UnixMilli(), uuid.NewString()).Int()
	if err != nil {
		return true, 0, fmt.Errorf("upload rate limit check failed: %w", err)
	}
	if res == 0 {
		return false, int(ul.window.Seconds()), nil
	}
	return true, 0, nil
}

func (ul *UploadLimiter) Limit() int {
	return ul.limit
}
