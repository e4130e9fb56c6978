package config // package config loads application configuration from environment variables

import (
	"fmt"
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
	"strings"
	"time"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  Optional values have defaults; the database
// coordinates and the signing secret are required.
type Config struct {
	Env          string        // application environment (e.g. "dev", "production")
	Port         string        // HTTP port to listen on
	DBUser       string        // database username
	DBPass       string        // database password (optional)
	DBHost       string        // database host address
	DBPort       string        // database port number
	DBName       string        // database name
	DBMigrate    bool          // apply the embedded schema at startup
	JWTSecret    string        // secret used to sign JWTs
	AccessTTL    time.Duration // access token time‑to‑live
	RefreshTTL   time.Duration // refresh token time‑to‑live
	BcryptCost   int           // bcrypt cost for password hashing
	CleanupEvery time.Duration // how often expired refresh tokens are swept
	RabbitMQURL  string        // broker for order events; empty disables publishing
	OAuth        OAuthConfig   // social login providers
}

// Load reads configuration values from environment variables and returns a
// Config.  Every missing required variable is reported in the error.
func Load() (Config, error) {
	var missing []string
	must := func(key string) string {
		v, ok := os.LookupEnv(key)
		if !ok || v == "" {
			missing = append(missing, key)
		}
		return v
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = os.Getenv("SECRET_KEY")
	}
	if secret == "" {
		missing = append(missing, "JWT_SECRET")
	}

	cfg := Config{
		Env:          getenv("APP_ENV", "dev"),
		Port:         getenv("APP_PORT", "8080"),
		DBUser:       must("DB_USER"),
		DBPass:       os.Getenv("DB_PASS"),
		DBHost:       must("DB_HOST"),
		DBPort:       getenv("DB_PORT", "3306"),
		DBName:       must("DB_NAME"),
		DBMigrate:    envBool("DB_MIGRATE", true),
		JWTSecret:    secret,
		AccessTTL:    time.Duration(envInt("ACCESS_TOKEN_TTL_MIN", 30)) * time.Minute,
		RefreshTTL:   time.Duration(envInt("REFRESH_TOKEN_TTL_DAYS", 2)) * 24 * time.Hour,
		BcryptCost:   envInt("BCRYPT_COST", 10),
		CleanupEvery: envDur("TOKEN_CLEANUP_INTERVAL", time.Hour),
		RabbitMQURL:  rabbitURL(),
		OAuth:        LoadOAuthConfig(),
	}
	if len(missing) > 0 {
		return cfg, fmt.Errorf("missing required env vars: %s", strings.Join(missing, ", "))
	}
	if cfg.AccessTTL <= 0 || cfg.RefreshTTL <= 0 {
		return cfg, fmt.Errorf("token ttl must be positive")
	}
	return cfg, nil
}

// IsProduction reports whether the service runs with APP_ENV=production.
func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production") || strings.EqualFold(c.Env, "prod")
}

func rabbitURL() string {
	if v := os.Getenv("RABBITMQ_URL"); v != "" {
		return v
	}
	return os.Getenv("AMQP_URL")
}

func envStr(k, d string) string { return getenv(k, d) }

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envBool(k string, d bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	switch v {
	case "1", "true", "TRUE", "True", "yes", "YES", "on", "ON":
		return true
	case "0", "false", "FALSE", "False", "no", "NO", "off", "OFF":
		return false
	}
	return d
}

func envInt(k string, d int) int {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return d
}

func envDur(k string, d time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if dur, err := time.ParseDuration(v); err == nil {
		return dur
	}
	return d
}
