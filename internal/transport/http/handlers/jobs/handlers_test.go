package jobshandler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"hrconsole/internal/domain/auth"
	"hrconsole/internal/platform/jobs"
	"hrconsole/internal/transport/http/api"
	"hrconsole/internal/transport/http/middleware"
)

type runs map[string]jobs.Run

func (m runs) Create(_ context.Context, run jobs.Run) error {
	m[run.ID] = run
	return nil
}

func (m runs) Finish(_ context.Context, id, status string, details []byte, errMsg string) error {
	run := m[id]
	run.Status, run.Details, run.Error = status, details, errMsg
	m[id] = run
	return nil
}

func (m runs) Get(_ context.Context, id string) (jobs.Run, error) {
	run, ok := m[id]
	if !ok {
		return jobs.Run{}, jobs.ErrNotFound
	}
	return run, nil
}

func get(t *testing.T, router http.Handler, user auth.UserContext, path string) (*httptest.ResponseRecorder, api.Envelope) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req = req.WithContext(middleware.WithUser(req.Context(), user))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	var env api.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec, env
}

func TestGetRun(t *testing.T) {
	svc := jobs.New(runs{}, zap.NewNop())
	_, err := svc.RunNow(context.Background(), jobs.JobSkillsImport, "u-1", func(context.Context) (any, error) {
		return map[string]int{"skills_created": 2}, nil
	})
	require.NoError(t, err)

	store := svc.Store.(runs)
	var id string
	for key := range store {
		id = key
	}

	h := NewHandler(svc, auth.StaticPermissions{}, zap.NewNop())
	r := chi.NewRouter()
	r.Route("/api", h.RegisterRoutes)

	rec, env := get(t, r, auth.UserContext{UserID: "u-1", Role: auth.RoleEditor}, "/api/jobs/"+id)
	require.Equal(t, http.StatusOK, rec.Code)
	data := env.Data.(map[string]any)
	assert.Equal(t, jobs.StatusCompleted, data["status"])
	assert.Equal(t, float64(2), data["details"].(map[string]any)["skills_created"])

	rec, _ = get(t, r, auth.UserContext{UserID: "u-2", Role: auth.RoleEditor}, "/api/jobs/"+id)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = get(t, r, auth.UserContext{UserID: "u-9", Role: auth.RoleAdmin}, "/api/jobs/"+id)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, env = get(t, r, auth.UserContext{UserID: "u-1", Role: auth.RoleEditor}, "/api/jobs/missing")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", env.Error.Code)
}
