// Package config loads runtime settings from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// ErrMissingSecret is returned by RequireSecret when JWT_SECRET is empty.
var ErrMissingSecret = errors.New("JWT_SECRET must be set to serve")

// Config holds every setting the server needs.
type Config struct {
	Addr    string
	DBPath  string
	DiagLog string
	JWT     JWTConfig
	S3      S3Config
	Tracing TracingConfig
}

type JWTConfig struct {
	Secret string
	TTL    time.Duration
}

// S3Config describes the object store for media uploads. An empty
// Endpoint disables uploads.
type S3Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	PublicURL string
}

// TracingConfig enables OTLP export when Endpoint is set.
type TracingConfig struct {
	Endpoint    string
	ServiceName string
}

// Load reads .env files (when present) and then the process environment.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	ttl, err := time.ParseDuration(envOr("TOKEN_TTL", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid TOKEN_TTL: %w", err)
	}
	useSSL, err := strconv.ParseBool(envOr("S3_USE_SSL", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid S3_USE_SSL: %w", err)
	}

	cfg := &Config{
		Addr:    envOr("ADDR", ":6050"),
		DBPath:  envOr("DB_PATH", "data/badger"),
		DiagLog: envOr("DIAG_LOG", "log.txt"),
		JWT: JWTConfig{
			Secret: os.Getenv("JWT_SECRET"),
			TTL:    ttl,
		},
		S3: S3Config{
			Endpoint:  os.Getenv("S3_ENDPOINT"),
			AccessKey: os.Getenv("S3_ACCESS_KEY"),
			SecretKey: os.Getenv("S3_SECRET_KEY"),
			Bucket:    envOr("S3_BUCKET", "media"),
			UseSSL:    useSSL,
			PublicURL: os.Getenv("S3_PUBLIC_URL"),
		},
		Tracing: TracingConfig{
			Endpoint:    os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
			ServiceName: envOr("OTEL_SERVICE_NAME", "postboard"),
		},
	}
	return cfg, nil
}

// RequireSecret fails when no signing secret is configured. Only commands
// that issue tokens need one.
func (c *Config) RequireSecret() error {
	if c.JWT.Secret == "" {
		return ErrMissingSecret
	}
	return nil
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
