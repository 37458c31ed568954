package jobshandler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"hrconsole/internal/domain/auth"
	"hrconsole/internal/platform/jobs"
	"hrconsole/internal/transport/http/api"
	"hrconsole/internal/transport/http/middleware"
	"hrconsole/internal/transport/http/shared"
)

type Handler struct {
	Jobs   *jobs.Service
	Perms  middleware.PermissionStore
	Logger *zap.Logger
}

func NewHandler(jobsSvc *jobs.Service, perms middleware.PermissionStore, logger *zap.Logger) *Handler {
	return &Handler{Jobs: jobsSvc, Perms: perms, Logger: logger.Named("jobs_handler")}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/jobs", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermSkillsRead, h.Perms)).Get("/{id}", h.handleGet)
	})
}

// handleGet returns a run to the user who started it. Admins see every run,
// including scheduled ones.
func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	run, err := h.Jobs.Get(r.Context(), strings.TrimSpace(chi.URLParam(r, "id")))
	if err != nil {
		shared.FailFromError(w, r, h.Logger, err)
		return
	}
	if user.Role != auth.RoleAdmin && run.CreatedBy != user.UserID {
		shared.FailFromError(w, r, h.Logger, jobs.ErrNotFound)
		return
	}
	api.Success(w, run, shared.RequestID(r))
}
