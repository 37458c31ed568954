package matrixhandler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"hrconsole/internal/domain/auth"
	"hrconsole/internal/domain/entitystore"
	"hrconsole/internal/domain/skills"
	"hrconsole/internal/platform/document"
	"hrconsole/internal/platform/metrics"
	"hrconsole/internal/transport/http/middleware"
)

type stubLoader struct {
	snap  entitystore.Snapshot
	diag  entitystore.Diagnostics
	calls int
}

func (s *stubLoader) Refresh(_ context.Context, store *entitystore.Store) entitystore.Diagnostics {
	s.calls++
	store.Replace(s.snap, s.diag)
	return s.diag
}

func seededStore() *entitystore.Store {
	store := entitystore.New()
	store.Replace(entitystore.Snapshot{
		Employees: []skills.Employee{
			{ID: 1, EmployeeID: "E001", FirstName: "Asha", LastName: "Rao", Department: "Engineering", ParentDepartment: "Technology"},
			{ID: 2, EmployeeID: "E002", FirstName: "Ben", LastName: "Cole", Department: "Sales", ParentDepartment: "Commercial"},
			{ID: 3, EmployeeID: "E003", FirstName: "Chen", LastName: "Li", Department: "Engineering", ParentDepartment: "Technology"},
		},
		Skills: []skills.Skill{
			{ID: 10, Name: "Go", SkillCategory: skills.CategoryTechnical, ParentSkill: "Backend"},
			{ID: 11, Name: "Negotiation", SkillCategory: skills.CategoryNonTechnical},
		},
		Certificates: []skills.Certificate{
			{ID: 20, Name: "CKA", CategoryLabel: "Cloud"},
		},
		SkillAssignments: []skills.EmployeeSkill{
			{ID: 100, EmployeeID: 1, SkillID: 10, ProficiencyLevel: skills.ProficiencyExpert, Certified: true},
			{ID: 101, EmployeeID: 2, SkillID: 11, ProficiencyLevel: skills.ProficiencyBeginner},
		},
		CertificateAssignments: []skills.EmployeeCertificate{
			{ID: 200, EmployeeID: 3, CertificateID: 20, Status: skills.CertificateStatusCompleted},
		},
		LoadedAt: time.Date(2025, 7, 9, 8, 0, 0, 0, time.UTC),
	}, entitystore.Diagnostics{})
	return store
}

func newRouter(store *entitystore.Store, loader Refresher, collector *metrics.Collector) http.Handler {
	h := NewHandler(store, loader, collector, auth.StaticPermissions{}, zap.NewNop())
	h.Now = func() time.Time { return time.Date(2025, 7, 9, 12, 0, 0, 0, time.UTC) }
	r := chi.NewRouter()
	r.Route("/api", h.RegisterRoutes)
	return r
}

func send(t *testing.T, h http.Handler, role, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		require.NoError(t, err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req = req.WithContext(middleware.WithUser(req.Context(), auth.UserContext{UserID: "u-1", Role: role}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

type projected struct {
	Data projectResponse `json:"data"`
}

func TestProjectSkillsFiltersAndGroups(t *testing.T) {
	router := newRouter(seededStore(), &stubLoader{}, metrics.New())

	rec := send(t, router, auth.RoleViewer, http.MethodPost, "/api/matrix/skills", map[string]any{
		"departments": []string{"Engineering"},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var out projected
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, 2, out.Data.EmployeeCount)
	require.Len(t, out.Data.Groups, 2)
	assert.Equal(t, skills.CategoryTechnical, out.Data.Groups[0].Name)
	assert.Equal(t, "E✓", out.Data.Rows[0].Cells[0].Code)
	assert.Equal(t, "-", out.Data.Rows[1].Cells[0].Code)
	assert.Equal(t, []string{"Commercial", "Technology"}, out.Data.Options.ParentDepartments)
}

func TestProjectEmptyBodyShowsEveryone(t *testing.T) {
	router := newRouter(seededStore(), &stubLoader{}, nil)

	rec := send(t, router, auth.RoleViewer, http.MethodPost, "/api/matrix/certificates", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var out projected
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, 3, out.Data.EmployeeCount)
	require.Len(t, out.Data.Columns, 1)
	assert.Equal(t, "Completed", out.Data.Rows[2].Cells[0].Code)
}

func TestProjectAssignStatusUsesMatrixScope(t *testing.T) {
	router := newRouter(seededStore(), &stubLoader{}, nil)

	rec := send(t, router, auth.RoleViewer, http.MethodPost, "/api/matrix/certificates", map[string]any{"assign_status": "Assigned"})
	var out projected
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Equal(t, 1, out.Data.EmployeeCount)
	assert.Equal(t, "E003", out.Data.Rows[0].Employee.EmployeeID)
}

func TestExportXLSXMatchesMatrix(t *testing.T) {
	collector := metrics.New()
	router := newRouter(seededStore(), &stubLoader{}, collector)

	rec := send(t, router, auth.RoleViewer, http.MethodPost, "/api/matrix/skills/export?format=xlsx", map[string]any{
		"collapsed": map[string]bool{skills.CategoryNonTechnical: true},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, document.ContentTypeXLSX, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "skills_matrix_2025-07-09.xlsx")
	assert.Equal(t, "1", rec.Header().Get("X-Export-Rows"))

	rows, err := document.ReadRows(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "E001", rows[1][0])
	assert.Equal(t, uint64(1), collector.Snapshot()["matrixExports"])
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	rec := send(t, newRouter(seededStore(), &stubLoader{}, nil), auth.RoleViewer, http.MethodPost, "/api/matrix/skills/export?format=csv", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOptionsFollowSelection(t *testing.T) {
	router := newRouter(seededStore(), &stubLoader{}, nil)

	rec := send(t, router, auth.RoleViewer, http.MethodPost, "/api/matrix/options", map[string]any{"parent_departments": []string{"Commercial"}})
	require.Equal(t, http.StatusOK, rec.Code)
	var out struct {
		Data struct {
			Departments []string `json:"departments"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, []string{"Sales"}, out.Data.Departments)
}

func TestRefreshReportsDiagnostics(t *testing.T) {
	loader := &stubLoader{diag: entitystore.Diagnostics{
		entitystore.SourceSkills: &entitystore.LoadError{Source: entitystore.SourceSkills, Attempts: 3, Err: errors.New("network timeout")},
	}}
	store := seededStore()
	router := newRouter(store, loader, metrics.New())

	rec := send(t, router, auth.RoleViewer, http.MethodPost, "/api/matrix/refresh", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Zero(t, loader.calls)

	rec = send(t, router, auth.RoleEditor, http.MethodPost, "/api/matrix/refresh", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, loader.calls)
	assert.Contains(t, rec.Body.String(), `"ok":false`)
	assert.Contains(t, rec.Body.String(), entitystore.SourceSkills)
	assert.Empty(t, store.Snapshot().Employees)
}

func TestProjectPrunesNamesOutsideParentCategories(t *testing.T) {
	router := newRouter(seededStore(), &stubLoader{}, nil)

	rec := send(t, router, auth.RoleViewer, http.MethodPost, "/api/matrix/skills", map[string]any{
		"skill_parent_categories": []string{"Backend"},
		"skill_names":             []string{"Negotiation"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var out projected
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Empty(t, out.Data.Filters.SkillNames)
	assert.Equal(t, []string{"Backend"}, out.Data.Filters.SkillParentCategories)
	require.Len(t, out.Data.Columns, 1)
	assert.Equal(t, "Go", out.Data.Columns[0].Name)

	rec = send(t, router, auth.RoleViewer, http.MethodPost, "/api/matrix/skills", map[string]any{
		"skill_parent_categories": []string{"Backend"},
		"skill_names":             []string{"Go", "Negotiation"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	out = projected{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, []string{"Go"}, out.Data.Filters.SkillNames)
	require.Len(t, out.Data.Columns, 1)
	assert.Equal(t, "Go", out.Data.Columns[0].Name)
}
