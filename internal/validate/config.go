package validate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/5w1tchy/ai-books-api/internal/config"
	"github.com/redis/go-redis/v9"
)

// Env validates the loaded configuration. Fail-fast on bad config.
func Env(c config.Config) error {
	if c.DB.URL == "" {
		return errors.New("DATABASE_URL is required")
	}
	switch c.DB.Driver {
	case "pgx", "postgres":
	default:
		return fmt.Errorf("DB_DRIVER=%q: must be pgx or postgres", c.DB.Driver)
	}
	if c.DB.MaxOpenConns < 1 {
		return errors.New("DB_MAX_OPEN_CONNS must be >= 1")
	}
	if c.DB.MaxIdleConns < 0 || c.DB.MaxIdleConns > c.DB.MaxOpenConns {
		return errors.New("DB_MAX_IDLE_CONNS must be between 0 and DB_MAX_OPEN_CONNS")
	}
	if (c.TLSCertFile == "") != (c.TLSKeyFile == "") {
		return errors.New("TLS_CERT_FILE and TLS_KEY_FILE must be set together")
	}
	if c.MaxBodySize <= 0 {
		return errors.New("MAX_BODY_SIZE must be > 0")
	}
	if c.RateLimit.RPS <= 0 || c.RateLimit.Burst < 1 {
		return errors.New("RATE_LIMIT_RPS must be > 0 and RATE_LIMIT_BURST >= 1")
	}
	if c.Redis.URL == "" && c.Redis.Addr == "" && (c.Redis.User != "" || c.Redis.Password != "") {
		return errors.New("REDIS_USER/REDIS_PASSWORD set without REDIS_ADDR")
	}
	s3 := c.S3
	if n := countSet(s3.Bucket, s3.AccessKeyID, s3.SecretAccessKey); n != 0 && n != 3 {
		return errors.New("AWS_BUCKET, AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY must be set together")
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("LOG_FORMAT=%q: must be text or json", c.LogFormat)
	}
	if c.ShutdownTimeout <= 0 {
		return errors.New("SHUTDOWN_TIMEOUT must be > 0")
	}
	return nil
}

// HardeningWarnings returns non-fatal warnings you may want to log on startup.
func HardeningWarnings(c config.Config) []string {
	var warns []string

	if c.MaxBodySize > 10<<20 {
		warns = append(warns, fmt.Sprintf("MAX_BODY_SIZE=%d is > 10MB; JSON bodies are small", c.MaxBodySize))
	}
	if c.DB.MaxIdleConns > 0 {
		warns = append(warns, "DB_MAX_IDLE_CONNS > 0 keeps sessions open between requests")
	}

	// Production-specific nudges
	if c.Production() {
		if !c.TLS() {
			warns = append(warns, "TLS_CERT_FILE/TLS_KEY_FILE not set; serving plain HTTP (expecting a TLS-terminating proxy)")
		}
		if len(c.CORSOrigins) == 0 {
			warns = append(warns, "CORS_ALLOWED_ORIGINS empty; browsers on other origins will be refused")
		}
		for _, o := range c.CORSOrigins {
			if o == "*" {
				warns = append(warns, "CORS_ALLOWED_ORIGINS contains *; any origin may call the API")
			}
		}
		if !c.Redis.Enabled() {
			warns = append(warns, "no Redis configured; rate limits are per instance")
		}
		if strings.HasPrefix(c.Redis.URL, "redis://") {
			warns = append(warns, "REDIS_URL uses redis:// (no TLS). Prefer rediss:// for TLS")
		}
		if c.Redis.URL == "" && c.Redis.Addr != "" && c.Redis.Password == "" {
			warns = append(warns, "REDIS_ADDR provided without REDIS_PASSWORD; require auth in production")
		}
		if c.DB.AutoSchema {
			warns = append(warns, "DB_AUTO_SCHEMA=true in production; prefer managed migrations")
		}
	}

	return warns
}

// PingRedis checks connectivity with a short timeout.
func PingRedis(ctx context.Context, rdb redis.UniversalClient, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return rdb.Ping(ctx).Err()
}

func countSet(vals ...string) int {
	n := 0
	for _, v := range vals {
		if v != "" {
			n++
		}
	}
	return n
}
