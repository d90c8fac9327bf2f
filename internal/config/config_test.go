package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"APP_ENV", "HTTP_ADDR", "STORE_DRIVER", "DATABASE_URL", "JWT_SECRET", "JWT_ISSUER",
		"RABBIT_URL", "REDIS_URL", "NOTIFIER", "RECONCILE_DELAY", "RL_ENABLED", "REACTION_KINDS",
		"LIVE_ORIGIN_PATTERNS", "STREAM_BASE_URL",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad(t *testing.T) {
	t.Run("should_return_error_if_database_url_is_missing", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("JWT_SECRET", "s")
		cfg, err := Load()
		assert.Nil(t, cfg)
		require.Error(t, err)
		assert.Equal(t, "missing DATABASE_URL", err.Error())
	})

	t.Run("memory_store_does_not_need_database_url", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("STORE_DRIVER", "memory")
		t.Setenv("JWT_SECRET", "s")
		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, StoreDriverMemory, cfg.StoreDriver)
	})

	t.Run("should_return_error_if_jwt_secret_is_missing", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("DATABASE_URL", "postgres://localhost:5432/db")
		cfg, err := Load()
		assert.Nil(t, cfg)
		require.Error(t, err)
		assert.Equal(t, "missing JWT_SECRET", err.Error())
	})

	t.Run("rabbit_required_outside_dev", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("APP_ENV", "prod")
		t.Setenv("DATABASE_URL", "postgres://localhost:5432/db")
		t.Setenv("JWT_SECRET", "s")
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "RABBIT_URL")
	})

	t.Run("redis_url_selects_redis_notifier", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("DATABASE_URL", "postgres://localhost:5432/db")
		t.Setenv("JWT_SECRET", "s")
		t.Setenv("REDIS_URL", "redis://localhost:6379/0")
		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, NotifierRedis, cfg.Notifier)
	})

	t.Run("redis_notifier_without_url_fails", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("DATABASE_URL", "postgres://localhost:5432/db")
		t.Setenv("JWT_SECRET", "s")
		t.Setenv("NOTIFIER", "redis")
		_, err := Load()
		require.Error(t, err)
	})

	t.Run("should_load_defaults", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("DATABASE_URL", "postgres://localhost:5432/db")
		t.Setenv("JWT_SECRET", "super-secret")
		t.Setenv("RECONCILE_DELAY", "250ms")
		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "dev", cfg.AppEnv)
		assert.Equal(t, ":8085", cfg.HTTPAddr)
		assert.Equal(t, NotifierMemory, cfg.Notifier)
		assert.Equal(t, "127.0.0.1", cfg.IdentityFallback)
		assert.Equal(t, 250*time.Millisecond, cfg.ReconcileDelay)
		assert.True(t, cfg.RLEnabled)
		assert.Equal(t, "like,love,laugh,wow,sad,angry", cfg.ReactionKinds)
	})

	t.Run("parses_live_origins_and_trims_stream_base", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("STORE_DRIVER", "memory")
		t.Setenv("JWT_SECRET", "super-secret")
		t.Setenv("LIVE_ORIGIN_PATTERNS", "app.example.com, *.example.org ,")
		t.Setenv("STREAM_BASE_URL", "https://files.example.com/")
		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, []string{"app.example.com", "*.example.org"}, cfg.LiveOrigins)
		assert.Equal(t, "https://files.example.com", cfg.StreamBaseURL)
	})
}
