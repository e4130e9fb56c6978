package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/glovo-marketplace/internal/config"
)

func loginLimitConfig() config.RateLimitConfig {
	return config.RateLimitConfig{
		Enabled:        true,
		Capacity:       3,
		RefillTokens:   3,
		RefillInterval: 200 * time.Second,
		TTL:            10 * time.Minute,
		KeyStrategy:    "ip",
		Prefix:         "rl:login",
	}
}

func limitedEcho(tb *TokenBucket) *echo.Echo {
	e := echo.New()
	e.POST("/auth/login", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}, tb.Middleware())
	return e
}

func hit(e *echo.Echo, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	req.RemoteAddr = ip + ":5555"
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestTokenBucket_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	tb := NewTokenBucket("login", loginLimitConfig(), rdb)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	tb.now = func() time.Time { return now }
	e := limitedEcho(tb)

	for i := 0; i < 3; i++ {
		rec := hit(e, "10.0.0.1")
		require.Equal(t, http.StatusOK, rec.Code, "attempt %d", i+1)
		assert.Equal(t, strconv.Itoa(2-i), rec.Header().Get("X-RateLimit-Remaining"))
	}

	rec := hit(e, "10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "200", rec.Header().Get("Retry-After"))
	assert.True(t, mr.Exists("rl:login:ip:10.0.0.1"))

	// other clients have their own bucket
	assert.Equal(t, http.StatusOK, hit(e, "10.0.0.2").Code)

	// a full interval later the bucket is refilled
	now = now.Add(200 * time.Second)
	assert.Equal(t, http.StatusOK, hit(e, "10.0.0.1").Code)
}

func TestTokenBucket_FallsBackWithoutRedis(t *testing.T) {
	tb := NewTokenBucket("login", loginLimitConfig(), nil)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	tb.now = func() time.Time { return now }
	e := limitedEcho(tb)

	for i := 0; i < 3; i++ {
		require.Equal(t, http.StatusOK, hit(e, "10.0.0.1").Code)
	}
	rec := hit(e, "10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "200", rec.Header().Get("Retry-After"))
	assert.Equal(t, http.StatusOK, hit(e, "10.0.0.2").Code)
}

func TestTokenBucket_LocalRefillsWholeIntervals(t *testing.T) {
	tb := NewTokenBucket("login", loginLimitConfig(), nil)
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	now := start
	tb.now = func() time.Time { return now }
	e := limitedEcho(tb)

	allowed := 0
	for s := 0; s < 200; s++ {
		now = start.Add(time.Duration(s) * time.Second)
		if hit(e, "10.0.0.1").Code == http.StatusOK {
			allowed++
		}
	}
	assert.Equal(t, 3, allowed)

	now = start.Add(199 * time.Second)
	rec := hit(e, "10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))

	now = start.Add(200 * time.Second)
	for i := 0; i < 3; i++ {
		rec := hit(e, "10.0.0.1")
		require.Equal(t, http.StatusOK, rec.Code, "attempt %d after refill", i+1)
		assert.Equal(t, strconv.Itoa(2-i), rec.Header().Get("X-RateLimit-Remaining"))
	}
	assert.Equal(t, http.StatusTooManyRequests, hit(e, "10.0.0.1").Code)
}

func TestTokenBucket_LocalMatchesRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	now := start
	clock := func() time.Time { return now }

	remote := NewTokenBucket("login", loginLimitConfig(), redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	remote.now = clock
	local := NewTokenBucket("login", loginLimitConfig(), nil)
	local.now = clock
	re, le := limitedEcho(remote), limitedEcho(local)

	for _, offset := range []int{0, 1, 2, 3, 50, 199, 200, 201, 202, 203, 450, 451, 600} {
		now = start.Add(time.Duration(offset) * time.Second)
		r, l := hit(re, "10.0.0.1"), hit(le, "10.0.0.1")
		assert.Equal(t, r.Code, l.Code, "t=%ds", offset)
		assert.Equal(t, r.Header().Get("X-RateLimit-Remaining"), l.Header().Get("X-RateLimit-Remaining"), "t=%ds", offset)
		assert.Equal(t, r.Header().Get("Retry-After"), l.Header().Get("Retry-After"), "t=%ds", offset)
	}
}

func TestTokenBucket_FallsBackWhenRedisDown(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	mr.Close()
	e := limitedEcho(NewTokenBucket("login", loginLimitConfig(), rdb))

	for i := 0; i < 3; i++ {
		require.Equal(t, http.StatusOK, hit(e, "10.0.0.9").Code)
	}
	assert.Equal(t, http.StatusTooManyRequests, hit(e, "10.0.0.9").Code)
}

func TestTokenBucket_Disabled(t *testing.T) {
	cfg := loginLimitConfig()
	cfg.Enabled = false
	e := limitedEcho(NewTokenBucket("login", cfg, nil))
	for i := 0; i < 10; i++ {
		require.Equal(t, http.StatusOK, hit(e, "10.0.0.1").Code)
	}
}
