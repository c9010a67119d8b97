package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is the process configuration, read once from the environment.
type Config struct {
	Port   string
	AppEnv string

	DB DB

	TLSCertFile string
	TLSKeyFile  string

	MaxBodySize int64
	CORSOrigins []string

	RateLimit RateLimit
	Redis     Redis
	S3        S3

	OTLPEndpoint string
	LogLevel     string
	LogFormat    string

	StrictSecurity  bool
	ShutdownTimeout time.Duration
}

type DB struct {
	URL          string
	Driver       string // "pgx" or "postgres" (lib/pq)
	MaxOpenConns int
	MaxIdleConns int
	AutoSchema   bool
}

type RateLimit struct {
	RPS         float64
	Burst       int
	WindowLimit int // sliding-window cap per hour; Redis only
}

// Redis is optional. URL wins over the split fields.
type Redis struct {
	URL      string
	Addr     string
	User     string
	Password string
}

func (r Redis) Enabled() bool { return r.URL != "" || r.Addr != "" }

type S3 struct {
	Endpoint        string
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	PublicBaseURL   string
}

// TLS reports whether both a certificate and a key are configured.
func (c Config) TLS() bool { return c.TLSCertFile != "" && c.TLSKeyFile != "" }

func (c Config) Production() bool { return strings.EqualFold(c.AppEnv, "production") }

// Load reads the environment. Parse failures are reported, absent values
// take their defaults; semantic checks live in validate.Env.
func Load() (Config, error) {
	var p parser
	c := Config{
		Port:   p.envStr("PORT", ":3000"),
		AppEnv: p.envStr("APP_ENV", "development"),
		DB: DB{
			URL:          os.Getenv("DATABASE_URL"),
			Driver:       p.envStr("DB_DRIVER", "pgx"),
			MaxOpenConns: p.envInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns: p.envInt("DB_MAX_IDLE_CONNS", 0),
			AutoSchema:   p.envBool("DB_AUTO_SCHEMA", true),
		},
		TLSCertFile: os.Getenv("TLS_CERT_FILE"),
		TLSKeyFile:  os.Getenv("TLS_KEY_FILE"),
		MaxBodySize: int64(p.envInt("MAX_BODY_SIZE", 1<<20)),
		CORSOrigins: csv(os.Getenv("CORS_ALLOWED_ORIGINS")),
		RateLimit: RateLimit{
			RPS:         p.envFloat("RATE_LIMIT_RPS", 5),
			Burst:       p.envInt("RATE_LIMIT_BURST", 20),
			WindowLimit: p.envInt("RATE_LIMIT_HOURLY", 3000),
		},
		Redis: Redis{
			URL:      os.Getenv("REDIS_URL"),
			Addr:     os.Getenv("REDIS_ADDR"),
			User:     os.Getenv("REDIS_USER"),
			Password: os.Getenv("REDIS_PASSWORD"),
		},
		S3: S3{
			Endpoint:        os.Getenv("AWS_ENDPOINT"),
			Region:          p.envStr("AWS_REGION", "auto"),
			Bucket:          os.Getenv("AWS_BUCKET"),
			AccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
			PublicBaseURL:   os.Getenv("COVER_PUBLIC_BASE_URL"),
		},
		OTLPEndpoint:    os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		LogLevel:        p.envStr("LOG_LEVEL", "info"),
		LogFormat:       p.envStr("LOG_FORMAT", "text"),
		StrictSecurity:  p.envBool("STRICT_SECURITY", false),
		ShutdownTimeout: p.envDur("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
	if p.err != nil {
		return Config{}, p.err
	}
	if c.Port != "" && !strings.Contains(c.Port, ":") {
		c.Port = ":" + c.Port
	}
	return c, nil
}

// parser keeps the first parse error so Load can read everything in one go.
type parser struct{ err error }

func (p *parser) fail(key, v string, err error) {
	if p.err == nil {
		p.err = fmt.Errorf("config: %s=%q: %w", key, v, err)
	}
}

func (p *parser) envStr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func (p *parser) envInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		p.fail(key, v, err)
		return def
	}
	return n
}

func (p *parser) envFloat(key string, def float64) float64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		p.fail(key, v, err)
		return def
	}
	return f
}

func (p *parser) envBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		p.fail(key, v, err)
		return def
	}
	return b
}

func (p *parser) envDur(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		p.fail(key, v, err)
		return def
	}
	return d
}

func csv(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
