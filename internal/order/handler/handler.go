// Package handler exposes order submission and lookup over HTTP, forwarding
// to the upstream gateway client.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"storefront/internal/platform/middleware"
	"storefront/internal/upstream"
	dErrors "storefront/pkg/domain-errors"
	"storefront/pkg/platform/httputil"
)

// Gateway defines the upstream operations the order surface needs.
type Gateway interface {
	CreateOrder(ctx context.Context, order any) (*upstream.Response, error)
	ListOrders(ctx context.Context) (*upstream.Response, error)
	GetOrder(ctx context.Context, orderID string) (*upstream.Response, error)
}

// Handler handles order endpoints.
type Handler struct {
	logger  *slog.Logger
	gateway Gateway
}

// New creates a new order Handler.
func New(gateway Gateway, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, gateway: gateway}
}

// Register mounts the order routes on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/api/orders", h.handleCreateOrder)
	r.Get("/api/orders", h.handleListOrders)
	r.Get("/api/orders/{orderID}", h.handleGetOrder)
}

func (h *Handler) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var order map[string]any
	if err := json.NewDecoder(r.Body).Decode(&order); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	resp, err := h.gateway.CreateOrder(r.Context(), order)
	if err != nil {
		h.writeError(w, r, "create order", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, resp.Payload)
}

func (h *Handler) handleListOrders(w http.ResponseWriter, r *http.Request) {
	resp, err := h.gateway.ListOrders(r.Context())
	if err != nil {
		h.writeError(w, r, "list orders", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, resp.Payload)
}

func (h *Handler) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	resp, err := h.gateway.GetOrder(r.Context(), chi.URLParam(r, "orderID"))
	if err != nil {
		h.writeError(w, r, "get order", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, resp.Payload)
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, action string, err error) {
	h.logger.WarnContext(r.Context(), "order request failed",
		"request_id", middleware.GetRequestID(r.Context()),
		"action", action,
		"error", err.Error(),
	)
	httputil.WriteError(w, err)
}
