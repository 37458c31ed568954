package skillshandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"hrconsole/internal/domain/auth"
	"hrconsole/internal/domain/skills"
	"hrconsole/internal/transport/http/api"
	"hrconsole/internal/transport/http/middleware"
	"hrconsole/internal/transport/http/shared"
)

// Handler serves the CRUD surface over employees, skills, certificates and
// their assignments.
type Handler struct {
	Service *skills.Service
	Perms   middleware.PermissionStore
	Logger  *zap.Logger
}

func NewHandler(service *skills.Service, perms middleware.PermissionStore, logger *zap.Logger) *Handler {
	return &Handler{Service: service, Perms: perms, Logger: logger.Named("skills_handler")}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	read := middleware.RequirePermission(auth.PermSkillsRead, h.Perms)
	write := middleware.RequirePermission(auth.PermSkillsWrite, h.Perms)
	employeesWrite := middleware.RequirePermission(auth.PermEmployeesWrite, h.Perms)

	r.Route("/employees", func(r chi.Router) {
		r.With(read).Get("/", h.handleListEmployees)
		r.With(employeesWrite).Post("/", h.handleCreateEmployee)
		r.With(read).Get("/{id}", h.handleGetEmployee)
		r.With(employeesWrite).Put("/{id}", h.handleUpdateEmployee)
		r.With(employeesWrite).Delete("/{id}", h.handleDeleteEmployee)
	})
	r.Route("/skills", func(r chi.Router) {
		r.With(read).Get("/", h.handleListSkills)
		r.With(read).Get("/parent-categories", h.handleSkillParentCategories)
		r.With(write).Post("/", h.handleCreateSkill)
		r.With(write).Put("/{id}", h.handleUpdateSkill)
		r.With(write).Delete("/{id}", h.handleDeleteSkill)
	})
	r.Route("/employee-skills", func(r chi.Router) {
		r.With(read).Get("/", h.handleListEmployeeSkills)
		r.With(write).Post("/", h.handleCreateEmployeeSkill)
		r.With(write).Put("/{id}", h.handleUpdateEmployeeSkill)
		r.With(write).Delete("/{id}", h.handleDeleteEmployeeSkill)
	})
	r.Route("/certificates", func(r chi.Router) {
		r.With(read).Get("/parent-categories", h.handleCertificateParentCategories)
		r.Route("/management", func(r chi.Router) {
			r.With(read).Get("/", h.handleListCertificates)
			r.With(write).Post("/", h.handleCreateCertificate)
			r.With(write).Put("/{id}", h.handleUpdateCertificate)
			r.With(write).Delete("/{id}", h.handleDeleteCertificate)
		})
		r.Route("/employee-certificates", func(r chi.Router) {
			r.With(read).Get("/", h.handleListEmployeeCertificates)
			r.With(write).Post("/", h.handleCreateEmployeeCertificate)
			r.With(write).Put("/{id}", h.handleUpdateEmployeeCertificate)
			r.With(write).Delete("/{id}", h.handleDeleteEmployeeCertificate)
		})
	})
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	shared.FailFromError(w, r, h.Logger, err)
}

func (h *Handler) deleted(w http.ResponseWriter, r *http.Request, id int64) {
	api.Success(w, map[string]any{"id": id, "deleted": true}, shared.RequestID(r))
}

// list writes items, never null.
func list[T any](w http.ResponseWriter, r *http.Request, items []T) {
	if items == nil {
		items = []T{}
	}
	api.Success(w, items, shared.RequestID(r))
}
