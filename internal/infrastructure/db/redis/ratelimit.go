package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimiter is a fixed-window counter.
// Key format: ratelimit:<key>
type RateLimiter struct {
	client *redis.Client
}

// incrWindowSource increments the counter and sets the window TTL in one step. A
// counter left without a TTL is given one on the next hit.
const incrWindowSource = `
local n = redis.call("INCR", KEYS[1])
if redis.call("PTTL", KEYS[1]) < 0 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return n
`

var incrWindow = redis.NewScript(incrWindowSource)

func NewRateLimiter(client *redis.Client) *RateLimiter {
	return &RateLimiter{client: client}
}

// Allow counts one hit for key and reports whether the count is still within
// limit for the current window. A non-positive limit disables the check.
func (l *RateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	if limit <= 0 {
		return true, nil
	}
	if window <= 0 {
		window = time.Minute
	}

	count, err := incrWindow.Run(ctx, l.client, []string{l.key(key)}, window.Milliseconds()).Int64()
	if err != nil {
		return false, fmt.Errorf("rate limit incr: %w", err)
	}
	return count <= int64(limit), nil
}

func (l *RateLimiter) key(key string) string {
	return "ratelimit:" + key
}
