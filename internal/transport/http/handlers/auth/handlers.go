package authhandler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"hrconsole/internal/domain/auth"
	"hrconsole/internal/transport/http/api"
	"hrconsole/internal/transport/http/middleware"
	"hrconsole/internal/transport/http/shared"
)

type Handler struct {
	Service *auth.Service
	Logger  *zap.Logger
}

func NewHandler(service *auth.Service, logger *zap.Logger) *Handler {
	return &Handler{Service: service, Logger: logger.Named("auth_handler")}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	MFACode  string `json:"mfaCode"`
}

type mfaCodeRequest struct {
	Code string `json:"code"`
}

// RegisterPublicRoutes mounts the routes reachable without a token.
func (h *Handler) RegisterPublicRoutes(r chi.Router) {
	r.Post("/auth/login", h.HandleLogin)
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/me", h.handleMe)
	r.Route("/auth/mfa", func(r chi.Router) {
		r.Post("/setup", h.handleMFASetup)
		r.Post("/enable", h.handleMFAEnable)
		r.Post("/disable", h.handleMFADisable)
	})
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var payload loginRequest
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	v := shared.NewValidator()
	v.Required("email", payload.Email, "is required")
	v.Required("password", payload.Password, "is required")
	if v.Reject(w, shared.RequestID(r)) {
		return
	}

	session, err := h.Service.Login(r.Context(), payload.Email, payload.Password, strings.TrimSpace(payload.MFACode))
	if err != nil {
		h.failAuth(w, r, err)
		return
	}
	api.Success(w, session, shared.RequestID(r))
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", shared.RequestID(r))
		return
	}
	api.Success(w, map[string]any{
		"user":        user,
		"permissions": auth.RolePermissions[user.Role],
	}, shared.RequestID(r))
}

func (h *Handler) handleMFASetup(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", shared.RequestID(r))
		return
	}
	setup, err := h.Service.SetupMFA(r.Context(), user)
	if err != nil {
		h.failAuth(w, r, err)
		return
	}
	api.Success(w, setup, shared.RequestID(r))
}

func (h *Handler) handleMFAEnable(w http.ResponseWriter, r *http.Request) {
	h.setMFA(w, r, true)
}

func (h *Handler) handleMFADisable(w http.ResponseWriter, r *http.Request) {
	h.setMFA(w, r, false)
}

func (h *Handler) setMFA(w http.ResponseWriter, r *http.Request, enabled bool) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", shared.RequestID(r))
		return
	}
	var payload mfaCodeRequest
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	v := shared.NewValidator()
	v.Required("code", payload.Code, "is required")
	if v.Reject(w, shared.RequestID(r)) {
		return
	}
	if err := h.Service.SetMFA(r.Context(), user.UserID, strings.TrimSpace(payload.Code), enabled); err != nil {
		h.failAuth(w, r, err)
		return
	}
	api.Success(w, map[string]bool{"mfaEnabled": enabled}, shared.RequestID(r))
}

func (h *Handler) failAuth(w http.ResponseWriter, r *http.Request, err error) {
	requestID := shared.RequestID(r)
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials", requestID)
	case errors.Is(err, auth.ErrMFARequired):
		api.Fail(w, http.StatusUnauthorized, "mfa_required", "mfa code required", requestID)
	case errors.Is(err, auth.ErrMFAInvalid):
		api.Fail(w, http.StatusUnauthorized, "mfa_invalid", "invalid mfa code", requestID)
	case errors.Is(err, auth.ErrMFANotSetUp):
		api.Fail(w, http.StatusBadRequest, "mfa_not_setup", "mfa setup required", requestID)
	case errors.Is(err, auth.ErrMFAUnavailable):
		api.Fail(w, http.StatusServiceUnavailable, "mfa_unavailable", "mfa is not available on this server", requestID)
	default:
		h.Logger.Error("auth request failed", zap.String("path", r.URL.Path), zap.Error(err))
		api.Fail(w, http.StatusInternalServerError, "auth_error", "authentication failed", requestID)
	}
}
