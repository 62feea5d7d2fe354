// Package handler exposes the read-only product and collection listing used
// by storefront pages. Everything proxies through the upstream gateway
// client; nothing is cached or persisted locally.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"storefront/internal/platform/middleware"
	"storefront/internal/upstream"
	"storefront/pkg/platform/httputil"
)

// Gateway defines the upstream operations the catalog surface needs.
type Gateway interface {
	ListProducts(ctx context.Context) (*upstream.Response, error)
	GetProduct(ctx context.Context, productID string) (*upstream.Response, error)
	ListCollections(ctx context.Context) (*upstream.Response, error)
}

// Handler handles catalog endpoints.
type Handler struct {
	logger  *slog.Logger
	gateway Gateway
}

// New creates a new catalog Handler.
func New(gateway Gateway, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, gateway: gateway}
}

// Register mounts the catalog routes on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/api/products", h.handleListProducts)
	r.Get("/api/products/{productID}", h.handleGetProduct)
	r.Get("/api/collections", h.handleListCollections)
}

func (h *Handler) handleListProducts(w http.ResponseWriter, r *http.Request) {
	resp, err := h.gateway.ListProducts(r.Context())
	if err != nil {
		h.writeError(w, r, "list products", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, resp.Payload)
}

func (h *Handler) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	resp, err := h.gateway.GetProduct(r.Context(), chi.URLParam(r, "productID"))
	if err != nil {
		h.writeError(w, r, "get product", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, resp.Payload)
}

func (h *Handler) handleListCollections(w http.ResponseWriter, r *http.Request) {
	resp, err := h.gateway.ListCollections(r.Context())
	if err != nil {
		h.writeError(w, r, "list collections", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, resp.Payload)
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, action string, err error) {
	h.logger.WarnContext(r.Context(), "catalog request failed",
		"request_id", middleware.GetRequestID(r.Context()),
		"action", action,
		"error", err.Error(),
	)
	httputil.WriteError(w, err)
}
