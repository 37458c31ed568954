package presetshandler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"hrconsole/internal/domain/auth"
	"hrconsole/internal/domain/presets"
	"hrconsole/internal/transport/http/api"
	"hrconsole/internal/transport/http/middleware"
)

type memoryPresets struct {
	items []presets.Preset
}

func (m *memoryPresets) List(_ context.Context, userID, pageContext string) ([]presets.Preset, error) {
	var out []presets.Preset
	for _, p := range m.items {
		if p.UserID == userID && p.PageContext == pageContext {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memoryPresets) Create(_ context.Context, p presets.Preset) (presets.Preset, error) {
	for _, existing := range m.items {
		if existing.UserID == p.UserID && existing.PageContext == p.PageContext && strings.EqualFold(existing.Name, p.Name) {
			return presets.Preset{}, presets.ErrDuplicate
		}
	}
	p.ID = strconv.Itoa(len(m.items) + 1)
	m.items = append(m.items, p)
	return p, nil
}

func (m *memoryPresets) Delete(_ context.Context, userID, id string) error {
	for i, p := range m.items {
		if p.ID == id && p.UserID == userID {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return presets.ErrNotFound
}

func newRouter(store *memoryPresets) http.Handler {
	h := NewHandler(presets.NewService(store), auth.StaticPermissions{}, zap.NewNop())
	r := chi.NewRouter()
	r.Route("/api", h.RegisterRoutes)
	return r
}

func do(t *testing.T, router http.Handler, userID, method, path, body string) (*httptest.ResponseRecorder, api.Envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req = req.WithContext(middleware.WithUser(req.Context(), auth.UserContext{UserID: userID, Role: auth.RoleViewer}))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	var env api.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec, env
}

func TestSaveAndListPresets(t *testing.T) {
	store := &memoryPresets{}
	router := newRouter(store)

	rec, env := do(t, router, "u-1", http.MethodPost, "/api/saved-filters",
		`{"filter_name":"Go people","page_context":"skills-matrix","filters":{"skill_names":["Go"],"search":""}}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	saved := env.Data.(map[string]any)
	assert.Equal(t, "Go people", saved["filter_name"])
	assert.Equal(t, []any{"Go"}, saved["filters"].(map[string]any)["skill_names"])
	assert.Equal(t, []any{}, saved["cleared"].(map[string]any)["skill_names"])

	rec, env = do(t, router, "u-1", http.MethodGet, "/api/saved-filters?page_context=skills-matrix", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, env.Data.([]any), 1)

	rec, _ = do(t, router, "u-2", http.MethodGet, "/api/saved-filters?page_context=skills-matrix", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"data":[]`)
}

func TestSaveDuplicateName(t *testing.T) {
	store := &memoryPresets{}
	router := newRouter(store)
	body := `{"filter_name":"Go people","page_context":"skills-matrix","filters":{"skill_names":["Go"]}}`

	rec, _ := do(t, router, "u-1", http.MethodPost, "/api/saved-filters", body)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, env := do(t, router, "u-1", http.MethodPost, "/api/saved-filters", strings.Replace(body, "Go people", "GO PEOPLE", 1))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "duplicate_name", env.Error.Code)
}

func TestSaveValidation(t *testing.T) {
	router := newRouter(&memoryPresets{})

	rec, env := do(t, router, "u-1", http.MethodPost, "/api/saved-filters", `{"filter_name":" ","page_context":"skills-matrix"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "validation_error", env.Error.Code)

	rec, env = do(t, router, "u-1", http.MethodPost, "/api/saved-filters", `{"filter_name":"Empty","page_context":"skills-matrix","filters":{"search":""}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_input", env.Error.Code)

	rec, env = do(t, router, "u-1", http.MethodGet, "/api/saved-filters", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "validation_error", env.Error.Code)
}

func TestDeletePreset(t *testing.T) {
	store := &memoryPresets{items: []presets.Preset{{ID: "1", UserID: "u-1", Name: "Mine", PageContext: "skills-matrix"}}}
	router := newRouter(store)

	rec, env := do(t, router, "u-2", http.MethodDelete, "/api/saved-filters/1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", env.Error.Code)

	rec, _ = do(t, router, "u-1", http.MethodDelete, "/api/saved-filters/1", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, store.items)
}
