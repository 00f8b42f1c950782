package middleware

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/phrazzld/task-manager-api/internal/api/shared"
	"github.com/phrazzld/task-manager-api/internal/platform/logger"
	"github.com/phrazzld/task-manager-api/internal/redact"
	"github.com/redis/go-redis/v9"
)

// WindowCounter increments the hit count for key in the current window.
type WindowCounter interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

// RedisCounter is a fixed-window counter over INCR and EXPIRE.
type RedisCounter struct {
	client *redis.Client
}

// NewRedisCounter wraps client.
func NewRedisCounter(client *redis.Client) *RedisCounter {
	return &RedisCounter{client: client}
}

// Incr implements WindowCounter. INCR and TTL run in one MULTI block; a key
// left without an expiry, whether new or from an earlier failed EXPIRE, gets
// one on this hit.
func (c *RedisCounter) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	var (
		incr *redis.IntCmd
		ttl  *redis.DurationCmd
	)
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		ttl = pipe.TTL(ctx, key)
		return nil
	})
	if err != nil {
		return 0, err
	}
	n := incr.Val()
	if ttl.Val() < 0 {
		if err := c.client.Expire(ctx, key, window).Err(); err != nil {
			return n, err
		}
	}
	return n, nil
}

// RateLimiter caps requests per client IP in a fixed window. With a nil
// counter, or when the counter errors, requests are allowed.
type RateLimiter struct {
	counter WindowCounter
	limit   int
	window  time.Duration
	metrics *Metrics
}

// NewRateLimiter creates a RateLimiter. counter and metrics may be nil.
func NewRateLimiter(counter WindowCounter, limit int, window time.Duration, metrics *Metrics) *RateLimiter {
	return &RateLimiter{counter: counter, limit: limit, window: window, metrics: metrics}
}

// Limit returns middleware counting requests under name.
func (l *RateLimiter) Limit(name string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if l.counter == nil {
				next.ServeHTTP(w, r)
				return
			}

			key := fmt.Sprintf("rl:%s:%d:%s", name, int64(l.window.Seconds()), clientIP(r))
			n, err := l.counter.Incr(r.Context(), key, l.window)
			if err != nil {
				logger.FromContext(r.Context()).Warn("rate limiter unavailable, allowing request",
					"error", redact.Error(err),
					"endpoint", name)
				w.Header().Set("X-RateLimit-Error", "backend-error")
				next.ServeHTTP(w, r)
				return
			}

			remaining := max(l.limit-int(n), 0)
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(l.limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))

			if n > int64(l.limit) {
				if l.metrics != nil {
					l.metrics.RateLimited.WithLabelValues(name).Inc()
				}
				w.Header().Set("Retry-After", strconv.Itoa(int(l.window.Seconds())))
				shared.RespondWithErrorAndLog(w, r, http.StatusTooManyRequests,
					shared.ErrorBody{Code: shared.CodeRateLimited, Message: "Too many requests"}, nil)
				return
			}

			if l.metrics != nil {
				l.metrics.RateAllowed.WithLabelValues(name).Inc()
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP uses RemoteAddr, which chi's RealIP middleware has already
// rewritten from X-Forwarded-For / X-Real-IP.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
