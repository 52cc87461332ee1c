package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requiredVars() map[string]string {
	return map[string]string{
		"DATABASE_URL": "postgres://localhost/karawang",
		"JWT_SECRET":   "secret",
	}
}

func TestLoadFromDefaults(t *testing.T) {
	cfg, err := LoadFrom(requiredVars())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, []string{"*"}, cfg.AllowOrigins)
	assert.Equal(t, "pgx", cfg.Database.Driver)
	assert.Equal(t, 10, cfg.Database.MaxOpenConns)
	assert.True(t, cfg.Database.AutoMigrate)
	assert.Equal(t, 60*time.Minute, cfg.Session.TTL)
	assert.Equal(t, "session_token", cfg.Session.CookieName)
	assert.True(t, cfg.Session.CookieSecure)
	assert.Equal(t, "ek_device_id", cfg.Device.CookieName)
	assert.Equal(t, 8760*time.Hour, cfg.Device.TTL)
	assert.Equal(t, int64(5*1024*1024), cfg.Upload.MaxBytes)
	assert.Equal(t, 2048, cfg.Upload.MaxDimension)
	assert.Equal(t, int64(40_000_000), cfg.Upload.MaxPixels)
	assert.Equal(t, 5, cfg.Submission.RateLimit)
	assert.Equal(t, time.Hour, cfg.Submission.RateWindow)
	assert.False(t, cfg.MinIO.Enabled())
	assert.False(t, cfg.Redis.Enabled())
}

func TestLoadFromOverrides(t *testing.T) {
	vars := requiredVars()
	vars["DATABASE_DRIVER"] = "sqlite"
	vars["ALLOW_ORIGINS"] = "https://a.example, ,https://b.example"
	vars["MINIO_ENDPOINT"] = "minio:9000"
	vars["REDIS_ADDR"] = "redis:6379"
	vars["SUBMISSION_RATE_WINDOW"] = "15m"
	vars["COOKIE_SECURE"] = "false"

	cfg, err := LoadFrom(vars)
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowOrigins)
	assert.True(t, cfg.MinIO.Enabled())
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, 15*time.Minute, cfg.Submission.RateWindow)
	assert.False(t, cfg.Session.CookieSecure)
}

func TestLoadFromErrors(t *testing.T) {
	_, err := LoadFrom(map[string]string{"JWT_SECRET": "x"})
	require.Error(t, err, "DATABASE_URL is required")

	vars := requiredVars()
	vars["DATABASE_DRIVER"] = "mysql"
	_, err = LoadFrom(vars)
	require.Error(t, err)
}
