package handler

import (
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/insurelens/insurelens-backend/internal/parsing/service"
	"github.com/insurelens/insurelens-backend/pkg/httputil"
	"github.com/insurelens/insurelens-backend/pkg/logger"
)

// Handler handles HTTP requests for document parsing and license date
// calculation
type Handler struct {
	service       *service.Service
	maxUploadSize int64
	log           *logger.Logger
}

// NewHandler creates a new parsing handler
func NewHandler(svc *service.Service, maxUploadSize int64, log *logger.Logger) *Handler {
	return &Handler{
		service:       svc,
		maxUploadSize: maxUploadSize,
		log:           log,
	}
}

// Routes mounts the parsing endpoints
func (h *Handler) Routes(r chi.Router) {
	r.Post("/parse/dash", h.ParseDash)
	r.Post("/parse/mvr", h.ParseMvr)
	r.Post("/license-dates", h.CalculateLicenseDates)
	r.Post("/license-dates/manual", h.CalculateManual)
}

// ParseDash handles POST /api/v1/parse/dash.
// Accepts a multipart form with a "file" field holding a DASH PDF.
// Parse failures still return 200 with success=false and an errors
// list; only transport-level problems map to HTTP error codes.
func (h *Handler) ParseDash(w http.ResponseWriter, r *http.Request) {
	pdfData, ok := h.readUpload(w, r)
	if !ok {
		return
	}
	result := h.service.ParseDash(r.Context(), pdfData)
	httputil.Raw(w, http.StatusOK, result)
}

// ParseMvr handles POST /api/v1/parse/mvr
func (h *Handler) ParseMvr(w http.ResponseWriter, r *http.Request) {
	pdfData, ok := h.readUpload(w, r)
	if !ok {
		return
	}
	result := h.service.ParseMvr(r.Context(), pdfData)
	httputil.Raw(w, http.StatusOK, result)
}

// CalculateLicenseDates handles POST /api/v1/license-dates.
// The body is a combined payload of previously parsed documents:
// {"driver": {...DASH fields...}, "mvr_data": {...MVR fields...}}.
func (h *Handler) CalculateLicenseDates(w http.ResponseWriter, r *http.Request) {
	var payload service.CombinedPayload
	if err := httputil.DecodeJSON(r, &payload); err != nil {
		httputil.Error(w, err)
		return
	}
	result := h.service.CalculateFromDocuments(r.Context(), payload)
	httputil.Raw(w, http.StatusOK, result)
}

// CalculateManual handles POST /api/v1/license-dates/manual with
// user-entered MM/DD/YYYY dates.
func (h *Handler) CalculateManual(w http.ResponseWriter, r *http.Request) {
	var req service.ManualDatesRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}
	result := h.service.CalculateManual(r.Context(), req)
	httputil.Raw(w, http.StatusOK, result)
}

// readUpload pulls the PDF bytes out of the multipart form. The file
// handle is closed on every path.
func (h *Handler) readUpload(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)

	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		httputil.JSON(w, http.StatusBadRequest, map[string]string{
			"error": "File too large or invalid multipart form",
		})
		return nil, false
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		httputil.JSON(w, http.StatusBadRequest, map[string]string{
			"error": "Missing file in request",
		})
		return nil, false
	}
	defer file.Close()

	if ext := strings.ToLower(filepath.Ext(header.Filename)); ext != ".pdf" {
		httputil.JSON(w, http.StatusBadRequest, map[string]string{
			"error": "Only PDF files are supported",
		})
		return nil, false
	}

	pdfData, err := io.ReadAll(file)
	if err != nil {
		httputil.JSON(w, http.StatusInternalServerError, map[string]string{
			"error": "Failed to read uploaded file",
		})
		return nil, false
	}
	return pdfData, true
}
