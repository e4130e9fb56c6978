package config

import "time"

// RateLimitConfig describes a token bucket: Capacity tokens, refilled by
// RefillTokens every RefillInterval.  The login limiter defaults to three
// attempts per 200 seconds per client IP.
type RateLimitConfig struct {
	Enabled        bool
	Capacity       int
	RefillTokens   int
	RefillInterval time.Duration
	TTL            time.Duration
	KeyStrategy    string
	Prefix         string
	Debug          bool
}

// LoadLoginRateLimitConfig reads LOGIN_RATE_LIMIT_* variables.
func LoadLoginRateLimitConfig() RateLimitConfig {
	def := RateLimitConfig{
		Enabled:        envBool("LOGIN_RATE_LIMIT_ENABLED", true),
		Capacity:       envInt("LOGIN_RATE_LIMIT_CAPACITY", 3),
		RefillTokens:   envInt("LOGIN_RATE_LIMIT_REFILL_TOKENS", 3),
		RefillInterval: envDur("LOGIN_RATE_LIMIT_REFILL_INTERVAL", 200*time.Second),
		TTL:            envDur("LOGIN_RATE_LIMIT_TTL", 10*time.Minute),
		KeyStrategy:    envStr("LOGIN_RATE_LIMIT_KEY_STRATEGY", "ip"),
		Prefix:         envStr("LOGIN_RATE_LIMIT_PREFIX", "rl:login"),
		Debug:          envBool("LOGIN_RATE_LIMIT_DEBUG", false),
	}
	return def.normalize()
}

func (c RateLimitConfig) normalize() RateLimitConfig {
	if c.Capacity < 1 {
		c.Capacity = 1
	}
	if c.RefillTokens < 1 {
		c.RefillTokens = 1
	}
	if c.RefillInterval <= 0 {
		c.RefillInterval = time.Second
	}
	if minTTL := 2 * c.RefillInterval; c.TTL < minTTL {
		c.TTL = minTTL
	}
	return c
}
