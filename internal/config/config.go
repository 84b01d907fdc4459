package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds application level configuration loaded from environment variables.
// It is built once at startup and passed into constructors; nothing reads the
// environment after Load returns.
type Config struct {
	Env        string
	ServerPort string
	MySQLDSN   string
	RedisAddr  string
	RedisDB    int
	RedisPass  string

	JWTSecret string
	TokenTTL  time.Duration

	// Per-role request budgets for the rate limiter, requests per window.
	RateLimitWindow time.Duration
	AdminRateLimit  int
	UserRateLimit   int
	GuestRateLimit  int

	// AllowUserDeleteWithRefs permits deleting a user that still owns listings
	// or participates in deals. Off by default; such deletes fail with a
	// conflict so no dangling references are created.
	AllowUserDeleteWithRefs bool

	SwaggerHost string
}

// Load builds Config from environment with sensible defaults.
func Load() *Config {
	return &Config{
		Env:        getEnv("APP_ENV", "development"),
		ServerPort: getEnv("SERVER_PORT", "8080"),
		MySQLDSN:   getEnv("MYSQL_DSN", "user:password@tcp(localhost:3306)/dealhub?charset=utf8mb4&parseTime=True&loc=Local"),
		RedisAddr:  getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:    getEnvInt("REDIS_DB", 0),
		RedisPass:  os.Getenv("REDIS_PASSWORD"),

		JWTSecret: getEnv("JWT_SECRET", "change-me"),
		TokenTTL:  getEnvDuration("TOKEN_TTL", 24*time.Hour),

		RateLimitWindow: getEnvDuration("RATE_LIMIT_WINDOW", time.Minute),
		AdminRateLimit:  getEnvInt("RATE_LIMIT_ADMIN", 20),
		UserRateLimit:   getEnvInt("RATE_LIMIT_USER", 10),
		GuestRateLimit:  getEnvInt("RATE_LIMIT_GUEST", 5),

		AllowUserDeleteWithRefs: getEnvBool("ALLOW_USER_DELETE_WITH_REFS", false),

		SwaggerHost: os.Getenv("SWAGGER_HOST"),
	}
}

// IsProduction reports whether the app runs with production settings
// (JSON logs, Secure cookies).
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			return parsed
		}
	}
	return def
}
