package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"ADDR", "DB_PATH", "JWT_SECRET", "TOKEN_TTL", "S3_ENDPOINT", "S3_BUCKET", "S3_USE_SSL", "OTEL_EXPORTER_OTLP_ENDPOINT"} {
		t.Setenv(k, "")
	}

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, ":6050", cfg.Addr)
	assert.Equal(t, "data/badger", cfg.DBPath)
	assert.Equal(t, time.Hour, cfg.JWT.TTL)
	assert.Empty(t, cfg.JWT.Secret)
	assert.ErrorIs(t, cfg.RequireSecret(), ErrMissingSecret)
	assert.Equal(t, "media", cfg.S3.Bucket)
	assert.False(t, cfg.S3.UseSSL)
	assert.Empty(t, cfg.Tracing.Endpoint)
}

func TestLoadFromEnvFile(t *testing.T) {
	for _, k := range []string{"ADDR", "JWT_SECRET", "TOKEN_TTL", "S3_USE_SSL"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}

	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("ADDR=:9000\nJWT_SECRET=s3cret\nTOKEN_TTL=30m\nS3_USE_SSL=true\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Addr)
	assert.Equal(t, "s3cret", cfg.JWT.Secret)
	assert.NoError(t, cfg.RequireSecret())
	assert.Equal(t, 30*time.Minute, cfg.JWT.TTL)
	assert.True(t, cfg.S3.UseSSL)
}

func TestLoadRejectsBadDuration(t *testing.T) {
	t.Setenv("TOKEN_TTL", "soon")
	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}
