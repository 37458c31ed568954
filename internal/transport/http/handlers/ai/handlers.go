package aihandler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"hrconsole/internal/domain/aifilter"
	"hrconsole/internal/domain/auth"
	"hrconsole/internal/domain/entitystore"
	"hrconsole/internal/domain/skills"
	"hrconsole/internal/platform/apiclient"
	"hrconsole/internal/transport/http/api"
	"hrconsole/internal/transport/http/middleware"
	"hrconsole/internal/transport/http/shared"
)

// Applier evaluates structured conditions somewhere other than the local
// entity store.
type Applier interface {
	Apply(ctx context.Context, conditions []aifilter.Condition, table string) ([]skills.Employee, error)
}

type Handler struct {
	Assistant aifilter.Assistant
	Remote    Applier
	Store     *entitystore.Store
	Perms     middleware.PermissionStore
	Logger    *zap.Logger
}

// NewHandler wires the assistant. A nil remote applier evaluates filters
// against the in-memory employee collection.
func NewHandler(assistant aifilter.Assistant, remote Applier, store *entitystore.Store, perms middleware.PermissionStore, logger *zap.Logger) *Handler {
	return &Handler{Assistant: assistant, Remote: remote, Store: store, Perms: perms, Logger: logger.Named("ai_handler")}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	read := middleware.RequirePermission(auth.PermSkillsRead, h.Perms)
	r.Route("/ai", func(r chi.Router) {
		r.With(read).Post("/filter", h.handleFilter)
		r.With(read).Post("/filter-apply", h.handleApply)
	})
}

type applyRequest struct {
	Filters   []aifilter.Condition `json:"filters"`
	TableName string               `json:"tableName"`
}

func (h *Handler) handleFilter(w http.ResponseWriter, r *http.Request) {
	if h.Assistant == nil {
		api.Fail(w, http.StatusServiceUnavailable, "ai_unavailable", "natural-language filtering is not configured", shared.RequestID(r))
		return
	}
	var payload aifilter.Request
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	resp, err := h.Assistant.Filter(r.Context(), payload)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, resp.Normalize(), shared.RequestID(r))
}

func (h *Handler) handleApply(w http.ResponseWriter, r *http.Request) {
	var payload applyRequest
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	table := strings.TrimSpace(payload.TableName)
	if table == "" {
		table = aifilter.TableEmployees
	}
	if table != aifilter.TableEmployees {
		h.fail(w, r, aifilter.ErrUnsupportedTable)
		return
	}

	var employees []skills.Employee
	if h.Remote != nil {
		var err error
		employees, err = h.Remote.Apply(r.Context(), payload.Filters, table)
		if err != nil {
			h.fail(w, r, err)
			return
		}
	} else {
		employees = aifilter.ApplyFilters(h.Store.Snapshot().Employees, payload.Filters)
	}
	if employees == nil {
		employees = []skills.Employee{}
	}
	api.Success(w, employees, shared.RequestID(r))
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	requestID := shared.RequestID(r)
	var upstream *apiclient.StatusError
	switch {
	case errors.Is(err, aifilter.ErrEmptyQuery), errors.Is(err, aifilter.ErrUnsupportedTable):
		api.Fail(w, http.StatusBadRequest, "invalid_input", err.Error(), requestID)
	case errors.As(err, &upstream):
		h.Logger.Warn("ai backend error", zap.Int("status", upstream.Status), zap.Error(err))
		api.Fail(w, http.StatusBadGateway, "upstream_error", upstream.Error(), requestID)
	default:
		shared.FailFromError(w, r, h.Logger, err)
	}
}
