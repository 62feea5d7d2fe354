// Package httptransport composes the HTTP surface: middleware chain, domain
// handlers and operational endpoints.
package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	carthandler "storefront/internal/cart/handler"
	cataloghandler "storefront/internal/catalog/handler"
	orderhandler "storefront/internal/order/handler"
	"storefront/internal/platform/middleware"
	webhookhandler "storefront/internal/webhook/handler"
)

// Registrar is any domain handler that can mount its routes.
type Registrar interface {
	Register(r chi.Router)
}

// Handlers collects the domain handlers the router mounts.
type Handlers struct {
	Cart    *carthandler.Handler
	Catalog *cataloghandler.Handler
	Order   *orderhandler.Handler
	Webhook *webhookhandler.Handler
}

// NewRouter wires all public endpoints behind the shared middleware chain.
func NewRouter(h Handlers, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.ContentTypeJSON)

	for _, reg := range []Registrar{h.Cart, h.Catalog, h.Order, h.Webhook} {
		reg.Register(r)
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	return r
}
