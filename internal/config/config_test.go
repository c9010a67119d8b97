package config_test

import (
	"testing"
	"time"

	"github.com/5w1tchy/ai-books-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/books")

	c, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":3000", c.Port)
	assert.Equal(t, "pgx", c.DB.Driver)
	assert.Equal(t, 10, c.DB.MaxOpenConns)
	assert.Equal(t, 0, c.DB.MaxIdleConns)
	assert.True(t, c.DB.AutoSchema)
	assert.Equal(t, int64(1<<20), c.MaxBodySize)
	assert.Equal(t, 5.0, c.RateLimit.RPS)
	assert.Equal(t, 20, c.RateLimit.Burst)
	assert.Equal(t, 10*time.Second, c.ShutdownTimeout)
	assert.False(t, c.TLS())
	assert.False(t, c.Redis.Enabled())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_AUTO_SCHEMA", "false")
	t.Setenv("CORS_ALLOWED_ORIGINS", " http://a.test , ,http://b.test")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("TLS_CERT_FILE", "cert.pem")
	t.Setenv("TLS_KEY_FILE", "key.pem")

	c, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", c.Port)
	assert.Equal(t, "postgres", c.DB.Driver)
	assert.False(t, c.DB.AutoSchema)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, c.CORSOrigins)
	assert.True(t, c.Redis.Enabled())
	assert.True(t, c.TLS())
}

func TestLoad_ParseError(t *testing.T) {
	t.Setenv("RATE_LIMIT_BURST", "lots")

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RATE_LIMIT_BURST")
}
