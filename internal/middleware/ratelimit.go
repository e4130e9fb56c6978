package middleware

import (
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/iliyamo/glovo-marketplace/internal/config"
	"github.com/iliyamo/glovo-marketplace/internal/metrics"
)

// tokenBucketScript refills `refill_tokens` every `interval_ms` up to
// `capacity` and takes one token.  It returns {allowed, remaining,
// retry_after_ms}.
var tokenBucketScript = redis.NewScript(`
	local key = KEYS[1]
	local now_ms = tonumber(ARGV[1])
	local capacity = tonumber(ARGV[2])
	local refill_tokens = tonumber(ARGV[3])
	local interval_ms = tonumber(ARGV[4])
	local ttl_seconds = tonumber(ARGV[5])

	local state = redis.call('HMGET', key, 'tokens', 'last_refill_ms')
	local tokens = tonumber(state[1])
	local last_refill = tonumber(state[2])

	if tokens == nil or last_refill == nil then
		tokens = capacity
		last_refill = now_ms
	end

	if interval_ms > 0 and refill_tokens > 0 then
		local elapsed = math.max(0, now_ms - last_refill)
		local intervals = math.floor(elapsed / interval_ms)
		if intervals > 0 then
			tokens = math.min(capacity, tokens + (intervals * refill_tokens))
			last_refill = last_refill + (intervals * interval_ms)
		end
	end

	local allowed = 0
	local retry_after_ms = 0
	if tokens > 0 then
		allowed = 1
		tokens = tokens - 1
	else
		local until_next = interval_ms - (now_ms - last_refill)
		if until_next < 0 then until_next = 0 end
		retry_after_ms = until_next
	end

	redis.call('HSET', key, 'tokens', tokens, 'last_refill_ms', last_refill)
	redis.call('EXPIRE', key, ttl_seconds)

	return { allowed, tokens, retry_after_ms }
`)

// TokenBucket limits requests per key.  Buckets live in Redis so that
// every instance shares them; when Redis is not configured or a script
// call fails, an in-process bucket with the same refill arithmetic takes
// over.
type TokenBucket struct {
	name    string
	cfg     config.RateLimitConfig
	rdb     *redis.Client
	local   *localLimiter
	now     func() time.Time
	warnLog rate.Sometimes
}

// NewTokenBucket builds a limiter; name labels its metrics and logs.
func NewTokenBucket(name string, cfg config.RateLimitConfig, rdb *redis.Client) *TokenBucket {
	return &TokenBucket{
		name:    name,
		cfg:     cfg,
		rdb:     rdb,
		local:   newLocalLimiter(cfg),
		now:     time.Now,
		warnLog: rate.Sometimes{First: 1, Interval: 30 * time.Second},
	}
}

// Middleware returns the echo middleware enforcing the bucket.
func (tb *TokenBucket) Middleware() echo.MiddlewareFunc {
	if !tb.cfg.Enabled {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := buildRateKey(tb.cfg, c)
			allowed, remaining, retry := tb.take(c, key)

			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(tb.cfg.Capacity))
			h.Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
			if tb.cfg.Debug {
				h.Set("X-RateLimit-Key", key)
			}
			if allowed {
				return next(c)
			}

			secs := int(math.Ceil(retry.Seconds()))
			if secs < 1 {
				secs = 1
			}
			h.Set("Retry-After", strconv.Itoa(secs))
			metrics.RateLimitedTotal.WithLabelValues(tb.name).Inc()
			zap.L().Warn("rate limit exceeded",
				zap.String("limiter", tb.name),
				zap.String("key", key),
				zap.String("request_id", GetRequestID(c)),
				zap.Int("retry_after", secs),
			)
			return c.JSON(http.StatusTooManyRequests, echo.Map{
				"error":       "too many requests",
				"retry_after": secs,
			})
		}
	}
}

func (tb *TokenBucket) take(c echo.Context, key string) (bool, int64, time.Duration) {
	if tb.rdb != nil {
		args := []interface{}{
			tb.now().UnixMilli(),
			tb.cfg.Capacity,
			tb.cfg.RefillTokens,
			tb.cfg.RefillInterval.Milliseconds(),
			int64(tb.cfg.TTL / time.Second),
		}
		vals, err := tokenBucketScript.Run(c.Request().Context(), tb.rdb, []string{key}, args...).Int64Slice()
		if err == nil && len(vals) == 3 {
			return vals[0] == 1, vals[1], time.Duration(vals[2]) * time.Millisecond
		}
		tb.warnLog.Do(func() {
			zap.L().Warn("redis rate limit failed, using local limiter",
				zap.String("limiter", tb.name), zap.String("key", key), zap.Error(err))
		})
	}
	return tb.local.take(key, tb.now())
}

// localLimiter mirrors tokenBucketScript in memory: RefillTokens arrive
// together once per whole RefillInterval, capped at Capacity.  Keys idle
// longer than TTL are dropped, like the EXPIRE on the Redis hash.
type localLimiter struct {
	mu        sync.Mutex
	capacity  int64
	refill    int64
	interval  time.Duration
	ttl       time.Duration
	buckets   map[string]*localBucket
	lastSweep time.Time
}

type localBucket struct {
	tokens     int64
	lastRefill time.Time
	lastSeen   time.Time
}

func newLocalLimiter(cfg config.RateLimitConfig) *localLimiter {
	return &localLimiter{
		capacity: int64(max(cfg.Capacity, 1)),
		refill:   int64(cfg.RefillTokens),
		interval: cfg.RefillInterval,
		ttl:      cfg.TTL,
		buckets:  map[string]*localBucket{},
	}
}

func (l *localLimiter) take(key string, now time.Time) (bool, int64, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastSweep) > l.ttl {
		for k, b := range l.buckets {
			if now.Sub(b.lastSeen) > l.ttl {
				delete(l.buckets, k)
			}
		}
		l.lastSweep = now
	}

	b, ok := l.buckets[key]
	if !ok || now.Sub(b.lastSeen) > l.ttl {
		b = &localBucket{tokens: l.capacity, lastRefill: now}
		l.buckets[key] = b
	}
	b.lastSeen = now

	if l.interval > 0 && l.refill > 0 {
		if elapsed := now.Sub(b.lastRefill); elapsed > 0 {
			if n := int64(elapsed / l.interval); n > 0 {
				b.tokens = min(l.capacity, b.tokens+n*l.refill)
				b.lastRefill = b.lastRefill.Add(time.Duration(n) * l.interval)
			}
		}
	}

	if b.tokens > 0 {
		b.tokens--
		return true, b.tokens, 0
	}
	return false, 0, max(l.interval-now.Sub(b.lastRefill), 0)
}

func buildRateKey(cfg config.RateLimitConfig, c echo.Context) string {
	parts := []string{cfg.Prefix}
	ip := clientIP(c)
	uid := currentUserID(c)
	route := c.Request().Method + " " + c.Path()

	switch strings.ToLower(cfg.KeyStrategy) {
	case "ip":
		parts = append(parts, "ip", ip)
	case "user":
		parts = append(parts, "user", uid)
	case "ip_route":
		parts = append(parts, "ip", ip, "route", route)
	default:
		parts = append(parts, "ip", ip, "user", uid, "route", route)
	}
	return strings.Join(parts, ":")
}
