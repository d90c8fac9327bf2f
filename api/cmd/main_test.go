package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baechuer/streamgate/services/reaction-service/internal/config"
	cache "github.com/baechuer/streamgate/services/reaction-service/internal/infrastructure/caching/redis"
)

func baseConfig() *config.Config {
	return &config.Config{
		HTTPAddr:       ":8085",
		StoreDriver:    config.StoreDriverMemory,
		Notifier:       config.NotifierMemory,
		JWTSecret:      "test-secret",
		JWTIssuer:      "test-issuer",
		StreamBaseURL:  "https://files.example.com",
		ReactionKinds:  "like,love",
		ReconcileDelay: 10 * time.Millisecond,
		KnownVideoTTL:  time.Hour,
	}
}

func TestNewApp(t *testing.T) {
	ctx := context.Background()

	t.Run("memory_store_wiring", func(t *testing.T) {
		app, err := NewApp(ctx, baseConfig(), nil, nil)
		require.NoError(t, err)
		defer app.Close()

		assert.Equal(t, ":8085", app.Server.Addr)
		require.NotNil(t, app.Server.Handler)

		rr := httptest.NewRecorder()
		app.Server.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("configured_kinds_are_enforced", func(t *testing.T) {
		app, err := NewApp(ctx, baseConfig(), nil, nil)
		require.NoError(t, err)
		defer app.Close()

		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/videos/vid1/reactions", strings.NewReader(`{"reaction_type":"wow"}`))
		app.Server.Handler.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("postgres_and_redis_wiring", func(t *testing.T) {
		db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)
		mock.ExpectPing()

		mr := miniredis.RunT(t)
		rc, err := cache.New("redis://" + mr.Addr())
		require.NoError(t, err)

		cfg := baseConfig()
		cfg.StoreDriver = config.StoreDriverPostgres
		cfg.Notifier = config.NotifierRedis
		cfg.RedisURL = "redis://" + mr.Addr()

		app, err := NewApp(ctx, cfg, db, rc)
		require.NoError(t, err)
		defer app.Close()

		rr := httptest.NewRecorder()
		app.Server.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/readyz", nil))
		assert.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSysClock_Now(t *testing.T) {
	assert.Equal(t, "UTC", sysClock{}.Now().Location().String())
}
