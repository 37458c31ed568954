package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"hrconsole/internal/domain/auth"
	"hrconsole/internal/platform/config"
	"hrconsole/internal/platform/metrics"
	"hrconsole/internal/transport/http/api"
	authhandler "hrconsole/internal/transport/http/handlers/auth"
	"hrconsole/internal/transport/http/middleware"
	"hrconsole/internal/transport/http/shared"
)

const secret = "0123456789abcdef0123456789abcdef"

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

type pingGroup struct{}

func (pingGroup) RegisterRoutes(r chi.Router) {
	r.With(middleware.RequirePermission(auth.PermSkillsWrite, auth.StaticPermissions{})).Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		api.Success(w, "pong", shared.RequestID(r))
	})
}

func testRouter(t *testing.T, p pinger) http.Handler {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>console</html>"), 0o600))
	cfg := config.Config{
		JWTSecret:      secret,
		FrontendDir:    dir,
		MaxBodyBytes:   1 << 20,
		MaxUploadBytes: 2 << 20,
		MetricsEnabled: true,
	}
	logger := zap.NewNop()
	authHandler := authhandler.NewHandler(auth.NewService(nil, secret, nil, logger), logger)
	return NewRouter(cfg, logger, p, metrics.New(), authHandler, pingGroup{})
}

func bearer(t *testing.T, role string) string {
	t.Helper()
	token, err := auth.GenerateToken(secret, auth.Claims{UserID: "u-1", Email: "a@example.com", Role: role}, time.Hour)
	require.NoError(t, err)
	return "Bearer " + token
}

func serve(router http.Handler, method, path, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealthAndReadiness(t *testing.T) {
	assert.Equal(t, http.StatusOK, serve(testRouter(t, pinger{}), http.MethodGet, "/healthz", "").Code)
	assert.Equal(t, http.StatusOK, serve(testRouter(t, pinger{}), http.MethodGet, "/readyz", "").Code)
	assert.Equal(t, http.StatusServiceUnavailable, serve(testRouter(t, pinger{err: errors.New("down")}), http.MethodGet, "/readyz", "").Code)
}

func TestAPIRequiresAuthentication(t *testing.T) {
	router := testRouter(t, pinger{})

	rec := serve(router, http.MethodGet, "/api/ping", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	assert.Equal(t, http.StatusUnauthorized, serve(router, http.MethodGet, "/api/ping", "Bearer garbage").Code)
	assert.Equal(t, http.StatusForbidden, serve(router, http.MethodGet, "/api/ping", bearer(t, auth.RoleViewer)).Code)

	rec = serve(router, http.MethodGet, "/api/ping", bearer(t, auth.RoleEditor))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "pong")
}

func TestMeReturnsPermissions(t *testing.T) {
	rec := serve(testRouter(t, pinger{}), http.MethodGet, "/api/me", bearer(t, auth.RoleViewer))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), auth.PermSkillsRead)
}

func TestMetricsSnapshot(t *testing.T) {
	router := testRouter(t, pinger{})
	serve(router, http.MethodGet, "/healthz", "")

	rec := serve(router, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":true`)
}

func TestSPAFallback(t *testing.T) {
	rec := serve(testRouter(t, pinger{}), http.MethodGet, "/matrix/skills", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "console")
}

type seeder struct {
	email, role string
	calls       int
}

func (s *seeder) EnsureUser(_ context.Context, email, passwordHash, role string) (bool, error) {
	s.calls++
	s.email, s.role = email, role
	return true, auth.CheckPassword(passwordHash, "s3cret-pass")
}

func TestSeedAdmin(t *testing.T) {
	s := &seeder{}
	require.NoError(t, SeedAdmin(context.Background(), s, config.Config{}, zap.NewNop()))
	assert.Zero(t, s.calls)

	cfg := config.Config{SeedAdminEmail: " admin@example.com ", SeedAdminPassword: "s3cret-pass"}
	require.NoError(t, SeedAdmin(context.Background(), s, cfg, zap.NewNop()))
	assert.Equal(t, "admin@example.com", s.email)
	assert.Equal(t, auth.RoleAdmin, s.role)

	prod := config.Config{Environment: "production", SeedAdminEmail: "admin@example.com"}
	assert.Error(t, SeedAdmin(context.Background(), s, prod, zap.NewNop()))
}
