package importhandler

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"hrconsole/internal/domain/auth"
	"hrconsole/internal/domain/importer"
	"hrconsole/internal/platform/document"
	"hrconsole/internal/platform/jobs"
	"hrconsole/internal/platform/metrics"
	"hrconsole/internal/transport/http/api"
	"hrconsole/internal/transport/http/middleware"
	"hrconsole/internal/transport/http/shared"
)

const (
	TemplateFileName = "Skills_Import_Template.xlsx"
	maxMemory        = 8 << 20
)

// Handler serves the spreadsheet import. Jobs is optional; without it
// async commits run inline.
type Handler struct {
	Importer *importer.Importer
	Jobs     *jobs.Service
	Metrics  *metrics.Collector
	Perms    middleware.PermissionStore
	Logger   *zap.Logger
}

func NewHandler(imp *importer.Importer, jobsSvc *jobs.Service, collector *metrics.Collector, perms middleware.PermissionStore, logger *zap.Logger) *Handler {
	return &Handler{Importer: imp, Jobs: jobsSvc, Metrics: collector, Perms: perms, Logger: logger.Named("import_handler")}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/skills/bulk-import", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermImportsRun, h.Perms)).Post("/", h.handleImport)
		r.With(middleware.RequirePermission(auth.PermSkillsRead, h.Perms)).Get("/template", h.handleTemplate)
	})
}

func (h *Handler) handleImport(w http.ResponseWriter, r *http.Request) {
	requestID := shared.RequestID(r)
	data, ok := h.readUpload(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	analyze, _ := strconv.ParseBool(query.Get("analyze"))
	if analyze {
		analysis, err := h.Importer.Analyze(r.Context(), bytes.NewReader(data))
		if err != nil {
			h.fail(w, r, err)
			return
		}
		api.Success(w, analysis, requestID)
		return
	}

	async, _ := strconv.ParseBool(query.Get("async"))
	if async && h.Jobs != nil {
		user, _ := middleware.GetUser(r.Context())
		id, err := h.Jobs.Enqueue(r.Context(), jobs.JobSkillsImport, user.UserID, func(ctx context.Context) (any, error) {
			return h.commit(ctx, data)
		})
		if err != nil {
			h.fail(w, r, err)
			return
		}
		api.Accepted(w, map[string]string{"job_id": id, "status": jobs.StatusQueued}, requestID)
		return
	}

	result, err := h.commit(r.Context(), data)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, result, requestID)
}

func (h *Handler) commit(ctx context.Context, data []byte) (importer.Result, error) {
	result, err := h.Importer.Commit(ctx, bytes.NewReader(data))
	if err != nil {
		return result, err
	}
	if h.Metrics != nil {
		h.Metrics.Import(result.TotalProcessed)
	}
	return result, nil
}

// readUpload returns the bytes of the multipart "file" field. Only Excel
// workbooks are accepted.
func (h *Handler) readUpload(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	requestID := shared.RequestID(r)
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			api.Fail(w, http.StatusRequestEntityTooLarge, "payload_too_large", "upload too large", requestID)
			return nil, false
		}
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "multipart form with a file field is required", requestID)
		return nil, false
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "file is required", requestID)
		return nil, false
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext != ".xlsx" && ext != ".xls" {
		api.Fail(w, http.StatusBadRequest, "invalid_file", "Please upload a valid Excel file (.xlsx or .xls)", requestID)
		return nil, false
	}
	data, err := io.ReadAll(file)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "could not read upload", requestID)
		return nil, false
	}
	return data, true
}

func (h *Handler) handleTemplate(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := importer.WriteTemplate(&buf); err != nil {
		shared.FailFromError(w, r, h.Logger, err)
		return
	}
	w.Header().Set("Content-Type", document.ContentTypeXLSX)
	w.Header().Set("Content-Disposition", `attachment; filename="`+TemplateFileName+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.Logger.Warn("template write failed", zap.Error(err))
	}
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	requestID := shared.RequestID(r)
	var missing *importer.MissingColumnsError
	switch {
	case errors.As(err, &missing):
		api.FailWithDetails(w, http.StatusBadRequest, "invalid_file", err.Error(), map[string]any{"missing_columns": missing.Columns}, requestID)
	case errors.Is(err, importer.ErrNoDataRows),
		errors.Is(err, document.ErrEmptyWorkbook),
		errors.Is(err, document.ErrUnreadableWorkbook):
		api.Fail(w, http.StatusBadRequest, "invalid_file", err.Error(), requestID)
	default:
		shared.FailFromError(w, r, h.Logger, err)
	}
}
