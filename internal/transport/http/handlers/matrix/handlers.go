package matrixhandler

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"hrconsole/internal/domain/auth"
	"hrconsole/internal/domain/entitystore"
	"hrconsole/internal/domain/exports"
	"hrconsole/internal/domain/matrix"
	"hrconsole/internal/platform/metrics"
	"hrconsole/internal/transport/http/api"
	"hrconsole/internal/transport/http/middleware"
	"hrconsole/internal/transport/http/shared"
)

// Refresher reloads the entity store.
type Refresher interface {
	Refresh(ctx context.Context, store *entitystore.Store) entitystore.Diagnostics
}

type Handler struct {
	Store   *entitystore.Store
	Loader  Refresher
	Metrics *metrics.Collector
	Perms   middleware.PermissionStore
	Logger  *zap.Logger
	Now     func() time.Time
}

func NewHandler(store *entitystore.Store, loader Refresher, collector *metrics.Collector, perms middleware.PermissionStore, logger *zap.Logger) *Handler {
	return &Handler{
		Store:   store,
		Loader:  loader,
		Metrics: collector,
		Perms:   perms,
		Logger:  logger.Named("matrix_handler"),
		Now:     time.Now,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	read := middleware.RequirePermission(auth.PermSkillsRead, h.Perms)
	r.Route("/matrix", func(r chi.Router) {
		r.With(read).Get("/options", h.handleOptions)
		r.With(read).Post("/options", h.handleOptions)
		r.With(read).Post("/skills", h.handleProject(matrix.KindSkills))
		r.With(read).Post("/certificates", h.handleProject(matrix.KindCertificates))
		r.With(read).Post("/skills/export", h.handleExport(matrix.KindSkills))
		r.With(read).Post("/certificates/export", h.handleExport(matrix.KindCertificates))
		r.With(read).Get("/diagnostics", h.handleDiagnostics)
		r.With(middleware.RequirePermission(auth.PermSkillsWrite, h.Perms)).Post("/refresh", h.handleRefresh)
	})
}

// projectRequest is a filter state plus the collapsed column groups.
type projectRequest struct {
	matrix.FilterState
	Collapsed matrix.Collapse `json:"collapsed"`
}

type projectResponse struct {
	Kind          matrix.Kind        `json:"kind"`
	EmployeeCount int                `json:"employee_count"`
	Groups        []matrix.Group     `json:"groups"`
	Columns       []matrix.Item      `json:"columns"`
	Rows          []matrix.Row       `json:"rows"`
	Options       matrix.Options     `json:"options"`
	Filters       matrix.FilterState `json:"filters"`
	LoadedAt      time.Time          `json:"loaded_at"`
	Failed        []string           `json:"failed_sources"`
}

func (h *Handler) handleProject(kind matrix.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req projectRequest
		if !h.decode(w, r, &req) {
			return
		}
		snap := h.Store.Snapshot()
		state := snap.Normalize(req.FilterState)
		m := snap.Project(kind, state, req.Collapsed)
		if h.Metrics != nil {
			h.Metrics.Projection()
		}
		api.Success(w, projectResponse{
			Kind:          kind,
			EmployeeCount: len(m.Rows),
			Groups:        m.Groups,
			Columns:       nonNil(m.Columns),
			Rows:          nonNil(m.Rows),
			Options:       matrix.BuildOptions(snap.Employees, snap.Skills, snap.Certificates, state),
			Filters:       state,
			LoadedAt:      snap.LoadedAt,
			Failed:        nonNil(h.Store.Diagnostics().Failed()),
		}, shared.RequestID(r))
	}
}

func (h *Handler) handleExport(kind matrix.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		format, err := exports.ParseFormat(r.URL.Query().Get("format"))
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_format", "format must be xlsx or pdf", shared.RequestID(r))
			return
		}
		var req projectRequest
		if !h.decode(w, r, &req) {
			return
		}
		snap := h.Store.Snapshot()
		table := snap.ExportTable(kind, req.FilterState, req.Collapsed)

		var buf bytes.Buffer
		if err := exports.Write(&buf, format, kind, table); err != nil {
			h.Logger.Error("export render failed", zap.String("kind", string(kind)), zap.Error(err))
			api.Fail(w, http.StatusInternalServerError, "export_failed", "failed to render export", shared.RequestID(r))
			return
		}
		if h.Metrics != nil {
			h.Metrics.Export(len(table.Rows))
		}
		w.Header().Set("Content-Type", exports.ContentType(format))
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exports.FileName(kind, format, h.Now())))
		w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
		w.Header().Set("X-Export-Rows", strconv.Itoa(len(table.Rows)))
		if _, err := buf.WriteTo(w); err != nil {
			h.Logger.Warn("export write failed", zap.Error(err))
		}
	}
}

// handleOptions serves the dropdown lists. POST accepts the current filter
// state so dependent lists follow the selection; GET returns the full lists.
func (h *Handler) handleOptions(w http.ResponseWriter, r *http.Request) {
	var state matrix.FilterState
	if r.Method == http.MethodPost && !h.decode(w, r, &state) {
		return
	}
	snap := h.Store.Snapshot()
	state = snap.Normalize(state)
	api.Success(w, matrix.BuildOptions(snap.Employees, snap.Skills, snap.Certificates, state), shared.RequestID(r))
}

func (h *Handler) handleDiagnostics(w http.ResponseWriter, r *http.Request) {
	api.Success(w, diagnosticsBody(h.Store.Snapshot(), h.Store.Diagnostics()), shared.RequestID(r))
}

func (h *Handler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	diag := h.Loader.Refresh(r.Context(), h.Store)
	if h.Metrics != nil {
		h.Metrics.StoreReload(len(diag))
	}
	api.Success(w, diagnosticsBody(h.Store.Snapshot(), diag), shared.RequestID(r))
}

func diagnosticsBody(snap entitystore.Snapshot, diag entitystore.Diagnostics) map[string]any {
	return map[string]any{
		"ok":        diag.OK(),
		"errors":    diag.Messages(),
		"loaded_at": snap.LoadedAt,
		"counts": map[string]int{
			entitystore.SourceEmployees:            len(snap.Employees),
			entitystore.SourceSkills:               len(snap.Skills),
			entitystore.SourceCertificates:         len(snap.Certificates),
			entitystore.SourceEmployeeSkills:       len(snap.SkillAssignments),
			entitystore.SourceEmployeeCertificates: len(snap.CertificateAssignments),
		},
	}
}

// decode accepts an empty body as the empty filter state.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if r.ContentLength == 0 {
		return true
	}
	return shared.DecodeJSON(w, r, dst)
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
