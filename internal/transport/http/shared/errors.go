package shared

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"hrconsole/internal/domain/presets"
	"hrconsole/internal/domain/skills"
	"hrconsole/internal/platform/jobs"
	"hrconsole/internal/transport/http/api"
)

// FailFromError maps domain errors to HTTP responses. Unknown errors are
// logged and reported as 500 without leaking the message.
func FailFromError(w http.ResponseWriter, r *http.Request, logger *zap.Logger, err error) {
	requestID := RequestID(r)
	var conflict *skills.ConflictError
	switch {
	case errors.As(err, &conflict):
		api.FailWithDetails(w, http.StatusConflict, "in_use", conflict.Error(), map[string]any{
			"entity":     conflict.Entity,
			"name":       conflict.Name,
			"references": conflict.References,
		}, requestID)
	case errors.Is(err, skills.ErrNotFound), errors.Is(err, presets.ErrNotFound), errors.Is(err, jobs.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", err.Error(), requestID)
	case errors.Is(err, skills.ErrDuplicateName), errors.Is(err, presets.ErrDuplicate):
		api.Fail(w, http.StatusConflict, "duplicate_name", err.Error(), requestID)
	case errors.Is(err, skills.ErrAssigned):
		api.Fail(w, http.StatusConflict, "already_assigned", err.Error(), requestID)
	case errors.Is(err, skills.ErrInvalidInput),
		errors.Is(err, presets.ErrNameRequired),
		errors.Is(err, presets.ErrContextRequired),
		errors.Is(err, presets.ErrNoFilters),
		errors.Is(err, presets.ErrInvalidFilters):
		api.Fail(w, http.StatusBadRequest, "invalid_input", err.Error(), requestID)
	case errors.Is(err, jobs.ErrQueueFull):
		api.Fail(w, http.StatusServiceUnavailable, "busy", "background queue is full, try again shortly", requestID)
	default:
		logger.Error("request failed", zap.String("path", r.URL.Path), zap.String("request_id", requestID), zap.Error(err))
		api.Fail(w, http.StatusInternalServerError, "internal_error", "internal server error", requestID)
	}
}

// DecodeJSON reads a JSON body and writes a 400 on failure.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(dst); err != nil {
		message := "invalid request payload"
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			api.Fail(w, http.StatusRequestEntityTooLarge, "payload_too_large", "request body too large", RequestID(r))
			return false
		}
		if errors.Is(err, io.EOF) {
			message = "request body is required"
		}
		api.Fail(w, http.StatusBadRequest, "invalid_payload", message, RequestID(r))
		return false
	}
	return true
}

// PathID parses the int64 id URL parameter and writes a 400 on failure.
func PathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(chi.URLParam(r, name)), 10, 64)
	if err != nil || id <= 0 {
		api.Fail(w, http.StatusBadRequest, "invalid_id", name+" must be a positive integer", RequestID(r))
		return 0, false
	}
	return id, true
}
