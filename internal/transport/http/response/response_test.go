package response

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baechuer/streamgate/services/reaction-service/internal/domain"
	appCtx "github.com/baechuer/streamgate/services/reaction-service/internal/pkg/context"
)

func TestErr(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"validation", domain.ErrInvalidVideoID, http.StatusBadRequest, "validation_error"},
		{"unauthorized", domain.ErrUnauthorized("no token"), http.StatusUnauthorized, "unauthorized"},
		{"forbidden", domain.ErrForbidden("react first"), http.StatusForbidden, "forbidden"},
		{"not_found", domain.ErrNotFound("video missing"), http.StatusNotFound, "not_found"},
		{"invalid_state", domain.ErrNotReady, http.StatusConflict, "invalid_state"},
		{"unavailable", domain.ErrUnavailable("store down"), http.StatusServiceUnavailable, "unavailable"},
		{"wrapped_domain_error", fmt.Errorf("ensure: %w", domain.ErrInvalidKind), http.StatusBadRequest, "validation_error"},
		{"generic_error", errors.New("db crash"), http.StatusInternalServerError, "internal_error"},
		{"nil_error", nil, http.StatusInternalServerError, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/x", nil)
			req = req.WithContext(appCtx.WithRequestID(context.Background(), "req-1"))

			Err(rr, req, tt.err)

			assert.Equal(t, tt.wantStatus, rr.Code)
			var body ErrorBody
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
			assert.Equal(t, tt.wantCode, body.Error.Code)
			assert.Equal(t, "req-1", body.Error.RequestID)
		})
	}

	t.Run("generic_error_hides_details", func(t *testing.T) {
		rr := httptest.NewRecorder()
		Err(rr, httptest.NewRequest(http.MethodGet, "/x", nil), errors.New("pq: password authentication failed"))
		assert.NotContains(t, rr.Body.String(), "password")
	})

	t.Run("meta_is_forwarded", func(t *testing.T) {
		rr := httptest.NewRecorder()
		Err(rr, httptest.NewRequest(http.MethodGet, "/x", nil), domain.ErrInvalidVideoID)

		var body ErrorBody
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		assert.Contains(t, body.Error.Meta, "video_id")
	})
}

func TestData(t *testing.T) {
	rr := httptest.NewRecorder()
	Data(rr, http.StatusCreated, map[string]string{"id": "123"})

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "application/json; charset=utf-8", rr.Header().Get("Content-Type"))

	var env Envelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	assert.Equal(t, "123", env.Data.(map[string]any)["id"])
}
