// Package handler acknowledges upstream webhook deliveries. Signature
// verification is deliberately a stub: the storefront does not act on
// webhook payloads yet, it only drains the queue so upstream stops retrying.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"storefront/internal/platform/middleware"
	"storefront/pkg/platform/httputil"
)

// Handler handles webhook deliveries from the upstream API.
type Handler struct {
	logger *slog.Logger
}

// New creates a new webhook Handler.
func New(logger *slog.Logger) *Handler {
	return &Handler{logger: logger}
}

// Register mounts the webhook route on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/api/webhooks/upstream", h.handleDelivery)
}

func (h *Handler) handleDelivery(w http.ResponseWriter, r *http.Request) {
	// TODO: verify the X-Pfy-Signature HMAC once webhook payloads drive
	// real side effects.
	var event struct {
		Type string `json:"type"`
	}
	_ = json.NewDecoder(r.Body).Decode(&event)

	h.logger.InfoContext(r.Context(), "webhook received",
		"request_id", middleware.GetRequestID(r.Context()),
		"event_type", event.Type,
	)
	httputil.WriteJSON(w, http.StatusOK, map[string]bool{"received": true})
}
