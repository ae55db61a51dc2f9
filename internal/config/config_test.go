package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var keys = []string{
	"PORT", "GIN_MODE", "LOG_LEVEL", "DB_DRIVER", "DATABASE_URL", "JWT_SECRET",
	"COOKIE_NAME", "COOKIE_SECURE", "SESSION_TTL", "REDIS_ADDR", "REDIS_PASSWORD",
	"REDIS_DB", "NATS_URL", "SEED_DEMO",
}

func clearEnv(t *testing.T) {
	for _, k := range keys {
		t.Setenv(k, "")
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := FromEnv()
	require.NoError(t, err)

	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, ":8080", cfg.Addr())
	require.Equal(t, "debug", cfg.GinMode)
	require.Equal(t, "info", cfg.LogLevel)
	require.Equal(t, DriverSQLite, cfg.DBDriver)
	require.Equal(t, "auctions.db", cfg.DatabaseURL)
	require.Equal(t, "auction_session", cfg.CookieName)
	require.False(t, cfg.CookieSecure)
	require.Equal(t, 24*time.Hour, cfg.SessionTTL)
	require.Equal(t, 0, cfg.RedisDB)
	require.Empty(t, cfg.RedisAddr)
	require.Empty(t, cfg.NATSURL)
	require.False(t, cfg.SeedDemo)
	require.True(t, cfg.UsesDevelopmentSecret())
}

func TestFromEnv_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("GIN_MODE", "release")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "postgres://auction@localhost/auction")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("COOKIE_SECURE", "true")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("NATS_URL", "nats://localhost:4222")
	t.Setenv("SEED_DEMO", "1")

	cfg, err := FromEnv()
	require.NoError(t, err)

	require.Equal(t, ":9090", cfg.Addr())
	require.Equal(t, DriverPostgres, cfg.DBDriver)
	require.Equal(t, "s3cret", cfg.JWTSecret)
	require.False(t, cfg.UsesDevelopmentSecret())
	require.True(t, cfg.CookieSecure)
	require.Equal(t, 2*time.Hour, cfg.SessionTTL)
	require.Equal(t, "localhost:6379", cfg.RedisAddr)
	require.Equal(t, 3, cfg.RedisDB)
	require.Equal(t, "nats://localhost:4222", cfg.NATSURL)
	require.True(t, cfg.SeedDemo)
}

func TestFromEnv_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown_driver", map[string]string{"DB_DRIVER": "mysql"}},
		{"unknown_gin_mode", map[string]string{"GIN_MODE": "verbose"}},
		{"release_without_secret", map[string]string{"GIN_MODE": "release"}},
		{"bad_bool", map[string]string{"COOKIE_SECURE": "maybe"}},
		{"bad_ttl", map[string]string{"SESSION_TTL": "tomorrow"}},
		{"negative_ttl", map[string]string{"SESSION_TTL": "-1h"}},
		{"bad_redis_db", map[string]string{"REDIS_DB": "zero"}},
		{"bad_port", map[string]string{"PORT": "http"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			_, err := FromEnv()
			require.Error(t, err)
		})
	}
}
