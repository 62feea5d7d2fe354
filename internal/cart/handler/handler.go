// Package handler exposes the local cart store over HTTP. Handlers only
// marshal requests and translate errors; cart semantics live in the cart
// service.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"storefront/internal/cart"
	"storefront/internal/platform/middleware"
	dErrors "storefront/pkg/domain-errors"
	"storefront/pkg/platform/httputil"
)

// Service defines the cart operations the handler needs.
type Service interface {
	Create(ctx context.Context) (*cart.Cart, error)
	Load(ctx context.Context, id string) (*cart.Cart, error)
	AddItem(ctx context.Context, id string, variantID int64, quantity int) (*cart.Cart, error)
	ReplaceItems(ctx context.Context, id string, lines []cart.Line) (*cart.Cart, error)
	Delete(ctx context.Context, id string) error
}

// Handler handles cart endpoints.
type Handler struct {
	logger *slog.Logger
	carts  Service
}

// New creates a new cart Handler.
func New(carts Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, carts: carts}
}

// Register mounts the cart routes on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/api/carts", h.handleCreateCart)
	r.Get("/api/carts/{cartID}", h.handleGetCart)
	r.Post("/api/carts/{cartID}/items", h.handleAddItem)
	r.Put("/api/carts/{cartID}", h.handleReplaceItems)
	r.Delete("/api/carts/{cartID}", h.handleDeleteCart)
}

type addItemRequest struct {
	VariantID int64 `json:"variantId"`
	Quantity  int   `json:"quantity"`
}

type replaceItemsRequest struct {
	Lines []cart.Line `json:"lines"`
}

func (h *Handler) handleCreateCart(w http.ResponseWriter, r *http.Request) {
	c, err := h.carts.Create(r.Context())
	if err != nil {
		h.writeError(w, r, "create cart", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, c)
}

func (h *Handler) handleGetCart(w http.ResponseWriter, r *http.Request) {
	c, err := h.carts.Load(r.Context(), chi.URLParam(r, "cartID"))
	if err != nil {
		h.writeError(w, r, "load cart", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) handleAddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	c, err := h.carts.AddItem(r.Context(), chi.URLParam(r, "cartID"), req.VariantID, req.Quantity)
	if err != nil {
		h.writeError(w, r, "add cart item", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) handleReplaceItems(w http.ResponseWriter, r *http.Request) {
	var req replaceItemsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	c, err := h.carts.ReplaceItems(r.Context(), chi.URLParam(r, "cartID"), req.Lines)
	if err != nil {
		h.writeError(w, r, "replace cart items", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) handleDeleteCart(w http.ResponseWriter, r *http.Request) {
	if err := h.carts.Delete(r.Context(), chi.URLParam(r, "cartID")); err != nil {
		h.writeError(w, r, "delete cart", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, action string, err error) {
	level := slog.LevelWarn
	if dErrors.HasCode(err, dErrors.CodeInternal) {
		level = slog.LevelError
	}
	h.logger.Log(r.Context(), level, "cart request failed",
		"request_id", middleware.GetRequestID(r.Context()),
		"action", action,
		"error", err.Error(),
	)
	httputil.WriteError(w, err)
}
