package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"

	"github.com/baechuer/streamgate/services/reaction-service/internal/application/identity"
	appCtx "github.com/baechuer/streamgate/services/reaction-service/internal/pkg/context"
)

func signToken(t *testing.T, uid, role, iss, secret string, expired bool) string {
	t.Helper()
	exp := time.Now().Add(time.Hour)
	if expired {
		exp = time.Now().Add(-time.Hour)
	}
	claims := Claims{
		UserID: uid,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    iss,
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	ss, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return ss
}

func TestAuthMiddleware(t *testing.T) {
	secret, issuer := "test-secret", "test-issuer"
	auth := NewAuth(secret, issuer)
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	serve := func(h http.Handler, token string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		return rr
	}

	t.Run("valid_token_sets_context", func(t *testing.T) {
		token := signToken(t, "user-123", "admin", issuer, secret, false)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()

		auth.Require(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "user-123", UserID(r))
			assert.Equal(t, "admin", Role(r))
			w.WriteHeader(http.StatusOK)
		})).ServeHTTP(rr, req)
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("missing_token", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, serve(auth.Require(ok), "").Code)
	})

	t.Run("expired_token", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, serve(auth.Require(ok), signToken(t, "u1", "admin", issuer, secret, true)).Code)
	})

	t.Run("wrong_secret", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, serve(auth.Require(ok), signToken(t, "u1", "admin", issuer, "nope", false)).Code)
	})

	t.Run("wrong_issuer", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, serve(auth.Require(ok), signToken(t, "u1", "admin", "other", secret, false)).Code)
	})

	t.Run("admin_route_rejects_user_role", func(t *testing.T) {
		rr := serve(auth.RequireAdmin(ok), signToken(t, "u1", "user", issuer, secret, false))
		assert.Equal(t, http.StatusForbidden, rr.Code)
		assert.Contains(t, rr.Body.String(), "forbidden")
	})

	t.Run("admin_route_accepts_admin", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, serve(auth.RequireAdmin(ok), signToken(t, "u1", "admin", issuer, secret, false)).Code)
	})
}

func TestRequestID(t *testing.T) {
	t.Run("generates_when_missing", func(t *testing.T) {
		var seen string
		rr := httptest.NewRecorder()
		RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = appCtx.GetRequestID(r.Context())
		})).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.NotEmpty(t, seen)
		assert.Equal(t, seen, rr.Header().Get(HeaderXRequestID))
	})

	t.Run("keeps_incoming", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(HeaderXRequestID, "rid-9")
		rr := httptest.NewRecorder()
		RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})).ServeHTTP(rr, req)
		assert.Equal(t, "rid-9", rr.Header().Get(HeaderXRequestID))
	})
}

func TestIdentity(t *testing.T) {
	var seen string
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")

	Identity(identity.HeaderResolver{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = appCtx.GetIdentity(r.Context())
	})).ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "203.0.113.7", seen)
}

func TestAccessLogAndMetrics(t *testing.T) {
	h := Metrics(AccessLog(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	})))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/tea", nil))
	assert.Equal(t, http.StatusTeapot, rr.Code)
	assert.Equal(t, "short and stout", rr.Body.String())
}

func TestSecurityHeaders(t *testing.T) {
	rr := httptest.NewRecorder()
	SecurityHeaders(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rr.Header().Get("X-Frame-Options"))
}
