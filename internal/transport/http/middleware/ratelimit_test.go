package middleware

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrconsole/internal/domain/auth"
)

func noContent(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func loginRequest(email, remote string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewBufferString(`{"email":"`+email+`"}`))
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = remote
	return req
}

func TestRateLimitUsesUserKeyBeforeIPFallback(t *testing.T) {
	limited := RateLimit(1, time.Minute)(http.HandlerFunc(noContent))
	userCtx := WithUser(context.Background(), auth.UserContext{UserID: "user-1", Role: auth.RoleEditor})

	first := httptest.NewRequest(http.MethodPost, "/api/matrix/refresh", nil).WithContext(userCtx)
	first.RemoteAddr = "198.51.100.11:2222"
	firstRec := httptest.NewRecorder()
	limited.ServeHTTP(firstRec, first)
	assert.Equal(t, http.StatusNoContent, firstRec.Code)

	second := httptest.NewRequest(http.MethodPost, "/api/matrix/refresh", nil).WithContext(userCtx)
	second.RemoteAddr = "198.51.100.12:3333"
	secondRec := httptest.NewRecorder()
	limited.ServeHTTP(secondRec, second)
	assert.Equal(t, http.StatusTooManyRequests, secondRec.Code)
}

func TestRateLimitFallsBackToIP(t *testing.T) {
	limited := RateLimit(1, time.Minute)(http.HandlerFunc(noContent))

	firstRec := httptest.NewRecorder()
	limited.ServeHTTP(firstRec, loginRequest("a@example.com", "203.0.113.10:4444"))
	assert.Equal(t, http.StatusNoContent, firstRec.Code)

	secondRec := httptest.NewRecorder()
	limited.ServeHTTP(secondRec, loginRequest("b@example.com", "203.0.113.10:5555"))
	assert.Equal(t, http.StatusTooManyRequests, secondRec.Code)
}

func TestRateLimitWindowReset(t *testing.T) {
	current := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	limited := RateLimit(1, time.Minute, func(rl *rateLimiter) {
		rl.now = func() time.Time { return current }
	})(http.HandlerFunc(noContent))

	rec := httptest.NewRecorder()
	limited.ServeHTTP(rec, loginRequest("a@example.com", "192.0.2.20:1111"))
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	limited.ServeHTTP(rec, loginRequest("a@example.com", "192.0.2.20:1111"))
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Equal(t, "60", rec.Header().Get("X-RateLimit-Reset"))

	current = current.Add(61 * time.Second)
	rec = httptest.NewRecorder()
	limited.ServeHTTP(rec, loginRequest("a@example.com", "192.0.2.20:1111"))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestSensitiveRateLimitScope(t *testing.T) {
	limited := SensitiveRateLimit(4, time.Minute)(http.HandlerFunc(noContent))

	for i := 0; i < 6; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/matrix/options", nil)
		req.RemoteAddr = "198.51.100.40:8888"
		rec := httptest.NewRecorder()
		limited.ServeHTTP(rec, req)
		require.Equal(t, http.StatusNoContent, rec.Code, "read request %d", i+1)
	}

	userCtx := WithUser(context.Background(), auth.UserContext{UserID: "editor-1", Role: auth.RoleEditor})
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/skills/bulk-import?analyze=false", nil).WithContext(userCtx)
		req.RemoteAddr = "198.51.100.41:9999"
		rec := httptest.NewRecorder()
		limited.ServeHTTP(rec, req)
		if i < 2 {
			assert.Equal(t, http.StatusNoContent, rec.Code)
		} else {
			assert.Equal(t, http.StatusTooManyRequests, rec.Code)
		}
	}

	rec := httptest.NewRecorder()
	limited.ServeHTTP(rec, loginRequest("x@example.com", "198.51.100.42:1"))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = httptest.NewRecorder()
	limited.ServeHTTP(rec, loginRequest("x@example.com", "198.51.100.43:1"))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code, "same email from another address")
}
