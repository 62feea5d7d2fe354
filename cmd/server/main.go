package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"storefront/internal/cart"
	carthandler "storefront/internal/cart/handler"
	cataloghandler "storefront/internal/catalog/handler"
	orderhandler "storefront/internal/order/handler"
	"storefront/internal/platform/config"
	"storefront/internal/platform/httpserver"
	"storefront/internal/platform/logger"
	"storefront/internal/platform/metrics"
	platformredis "storefront/internal/platform/redis"
	ratelimit "storefront/internal/ratelimit/service"
	"storefront/internal/ratelimit/store/window"
	httptransport "storefront/internal/transport/http"
	"storefront/internal/upstream"
	webhookhandler "storefront/internal/webhook/handler"
)

// main wires high-level dependencies and keeps the server lifecycle small.
// Business logic lives in the internal packages.
func main() {
	log := logger.New()

	cfg, err := config.FromEnv()
	if err != nil {
		log.Error("configuration error", "error", err)
		os.Exit(1)
	}

	m := metrics.New()

	// The rate-limit window lives in redis when configured so replicas
	// share one upstream quota; otherwise it stays in-process.
	var windowStore ratelimit.WindowStore = window.NewInMemoryWindowStore()
	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("redis setup failed", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		windowStore = window.NewRedisWindowStore(redisClient)
		log.Info("rate limit windows backed by redis")
	}

	limiter, err := ratelimit.New(windowStore, cfg.RateLimit.MaxRequests, cfg.RateLimit.Window,
		ratelimit.WithLogger(log), ratelimit.WithMetrics(m))
	if err != nil {
		log.Error("rate limiter setup failed", "error", err)
		os.Exit(1)
	}

	gateway := upstream.NewClient(cfg.Upstream, limiter,
		upstream.WithLogger(log), upstream.WithMetrics(m))

	cartStore := cart.NewInMemoryStore(cart.WithTTL(cfg.CartTTL))
	cartService, err := cart.NewService(cartStore, cart.WithLogger(log), cart.WithMetrics(m))
	if err != nil {
		log.Error("cart service setup failed", "error", err)
		os.Exit(1)
	}

	router := httptransport.NewRouter(httptransport.Handlers{
		Cart:    carthandler.New(cartService, log),
		Catalog: cataloghandler.New(gateway, log),
		Order:   orderhandler.New(gateway, log),
		Webhook: webhookhandler.New(log),
	}, log)

	srv := httpserver.New(cfg.Addr, router)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting storefront gateway", "addr", cfg.Addr, "rate_limit", cfg.RateLimit.MaxRequests)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
