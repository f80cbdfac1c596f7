package handler

import (
	"net/http"

	"github.com/insurelens/insurelens-backend/internal/leads/service"
	"github.com/insurelens/insurelens-backend/pkg/httputil"
)

// VerifyWebhook handles GET /api/v1/meta/webhook, the Meta subscription
// handshake: echo hub.challenge when hub.verify_token matches.
func (h *Handler) VerifyWebhook(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("hub.verify_token")
	challenge := r.URL.Query().Get("hub.challenge")

	echo, ok := h.service.VerifyWebhook(token, challenge)
	if !ok {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte("Forbidden"))
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(echo))
}

// ReceiveWebhook handles POST /api/v1/meta/webhook. It always answers
// 200: a non-2xx response makes Meta retry the delivery indefinitely,
// so even malformed payloads are acknowledged.
func (h *Handler) ReceiveWebhook(w http.ResponseWriter, r *http.Request) {
	var payload service.WebhookPayload
	if err := httputil.DecodeJSON(r, &payload); err != nil {
		h.log.Warn().Err(err).Msg("malformed webhook payload")
		httputil.Raw(w, http.StatusOK, map[string]interface{}{"error": err.Error()})
		return
	}

	ingested := h.service.IngestWebhook(r.Context(), payload)
	httputil.Raw(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"ingested": ingested,
	})
}
