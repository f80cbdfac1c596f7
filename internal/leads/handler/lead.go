package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/insurelens/insurelens-backend/internal/leads/domain"
	"github.com/insurelens/insurelens-backend/internal/leads/service"
	"github.com/insurelens/insurelens-backend/pkg/errors"
	"github.com/insurelens/insurelens-backend/pkg/httputil"
	"github.com/insurelens/insurelens-backend/pkg/logger"
)

// Handler handles HTTP requests for leads
type Handler struct {
	service *service.Service
	log     *logger.Logger
}

// NewHandler creates a new lead handler
func NewHandler(svc *service.Service, log *logger.Logger) *Handler {
	return &Handler{service: svc, log: log}
}

// Routes mounts the lead endpoints
func (h *Handler) Routes(r chi.Router) {
	r.Get("/leads", h.List)
	r.Patch("/leads/{id}/status", h.UpdateStatus)
	r.Get("/leads/incoming", h.ListIncoming)
	r.Delete("/leads/incoming/{leadgenID}", h.DeleteIncoming)
	r.Get("/meta/webhook", h.VerifyWebhook)
	r.Post("/meta/webhook", h.ReceiveWebhook)
}

// List handles GET /api/v1/leads?search=&status=&page=&page_size=
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	params := domain.ListParams{
		Search:   r.URL.Query().Get("search"),
		Status:   r.URL.Query().Get("status"),
		Page:     queryInt(r, "page", 1),
		PageSize: queryInt(r, "page_size", 25),
	}

	result, err := h.service.List(r.Context(), params)
	if err != nil {
		h.log.Error().Err(err).Msg("failed to list leads")
		httputil.Error(w, err)
		return
	}

	httputil.Raw(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"leads":   result.Leads,
		"total":   result.Total,
		"page":    result.Page,
		"pages":   result.Pages,
	})
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// UpdateStatus handles PATCH /api/v1/leads/{id}/status
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req updateStatusRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	status := domain.LeadStatus(req.Status)
	if !status.Valid() {
		httputil.Error(w, errors.BadRequest("unknown lead status: "+req.Status))
		return
	}

	if err := h.service.UpdateStatus(r.Context(), id, status); err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.NoContent(w)
}

// ListIncoming handles GET /api/v1/leads/incoming
func (h *Handler) ListIncoming(w http.ResponseWriter, r *http.Request) {
	leads, err := h.service.ListIncoming(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("failed to list incoming leads")
		httputil.Error(w, err)
		return
	}
	httputil.Raw(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"leads":   leads,
		"total":   len(leads),
	})
}

// DeleteIncoming handles DELETE /api/v1/leads/incoming/{leadgenID}
func (h *Handler) DeleteIncoming(w http.ResponseWriter, r *http.Request) {
	leadgenID := chi.URLParam(r, "leadgenID")
	if err := h.service.DeleteIncoming(r.Context(), leadgenID); err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.Raw(w, http.StatusOK, map[string]interface{}{"success": true})
}

func queryInt(r *http.Request, key string, def int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
