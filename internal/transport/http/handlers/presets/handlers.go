package presetshandler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"hrconsole/internal/domain/auth"
	"hrconsole/internal/domain/presets"
	"hrconsole/internal/transport/http/api"
	"hrconsole/internal/transport/http/middleware"
	"hrconsole/internal/transport/http/shared"
)

type Handler struct {
	Service *presets.Service
	Perms   middleware.PermissionStore
	Logger  *zap.Logger
}

func NewHandler(service *presets.Service, perms middleware.PermissionStore, logger *zap.Logger) *Handler {
	return &Handler{Service: service, Perms: perms, Logger: logger.Named("presets_handler")}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	read := middleware.RequirePermission(auth.PermSkillsRead, h.Perms)
	r.Route("/saved-filters", func(r chi.Router) {
		r.With(read).Get("/", h.handleList)
		r.With(read).Post("/", h.handleSave)
		r.With(read).Delete("/{id}", h.handleDelete)
	})
}

type saveRequest struct {
	Name        string                     `json:"filter_name"`
	PageContext string                     `json:"page_context"`
	Filters     map[string]json.RawMessage `json:"filters"`
}

// presetView adds the ready-to-apply and toggle-off filter maps.
type presetView struct {
	presets.Preset
	Filters map[string]json.RawMessage `json:"filters"`
	Cleared map[string]json.RawMessage `json:"cleared"`
}

func view(p presets.Preset) presetView {
	return presetView{Preset: p, Filters: p.Apply(), Cleared: p.Cleared()}
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	pageContext := strings.TrimSpace(r.URL.Query().Get("page_context"))
	if pageContext == "" {
		shared.FailValidation(w, shared.RequestID(r), []shared.ValidationIssue{{Field: "page_context", Reason: "is required"}})
		return
	}
	list, err := h.Service.List(r.Context(), user.UserID, pageContext)
	if err != nil {
		shared.FailFromError(w, r, h.Logger, err)
		return
	}
	out := make([]presetView, 0, len(list))
	for _, p := range list {
		out = append(out, view(p))
	}
	api.Success(w, out, shared.RequestID(r))
}

func (h *Handler) handleSave(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	var payload saveRequest
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	v := shared.NewValidator()
	v.Required("filter_name", payload.Name, "Please enter a filter name")
	v.Required("page_context", payload.PageContext, "is required")
	if v.Reject(w, shared.RequestID(r)) {
		return
	}
	saved, err := h.Service.Save(r.Context(), user.UserID, payload.Name, payload.PageContext, payload.Filters)
	if err != nil {
		shared.FailFromError(w, r, h.Logger, err)
		return
	}
	api.Created(w, view(saved), shared.RequestID(r))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if err := h.Service.Delete(r.Context(), user.UserID, id); err != nil {
		shared.FailFromError(w, r, h.Logger, err)
		return
	}
	api.Success(w, map[string]any{"id": id, "deleted": true}, shared.RequestID(r))
}
