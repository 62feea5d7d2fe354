// Package service enforces the per-shop request quota in front of every
// outbound upstream call.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"storefront/internal/platform/metrics"
	"storefront/internal/ratelimit/models"
	dErrors "storefront/pkg/domain-errors"
)

// WindowStore is the sliding-window backend the limiter counts against.
type WindowStore interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (*models.AdmitResult, error)
	Reset(ctx context.Context, key string) error
}

// Limiter applies one configured quota to every shop key. Quotas are
// account-tier specific upstream (30 or 600 per minute have both been
// observed), so the figure comes from configuration, never a constant.
type Limiter struct {
	store   WindowStore
	limit   int
	window  time.Duration
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type Option func(*Limiter)

func WithLogger(logger *slog.Logger) Option {
	return func(l *Limiter) {
		l.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(l *Limiter) {
		l.metrics = m
	}
}

// New creates a Limiter over the given store.
func New(store WindowStore, limit int, window time.Duration, opts ...Option) (*Limiter, error) {
	if store == nil {
		return nil, errors.New("window store is required")
	}
	if limit <= 0 {
		return nil, errors.New("limit must be positive")
	}
	if window <= 0 {
		return nil, errors.New("window must be positive")
	}

	l := &Limiter{
		store:  store,
		limit:  limit,
		window: window,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Admit records one admission attempt for the shop. Callers must invoke it
// before every outbound request attributed to that shop and must not issue
// the request when the result is a rejection.
func (l *Limiter) Admit(ctx context.Context, shopID string) (*models.AdmitResult, error) {
	key := "shop:" + models.SanitizeKeySegment(shopID)

	result, err := l.store.Allow(ctx, key, l.limit, l.window)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "rate limit check failed")
	}

	l.metrics.IncrementRateLimitDecision(result.Allowed)
	if !result.Allowed {
		l.logger.WarnContext(ctx, "rate limit exceeded",
			"shop_id", shopID,
			"limit", result.Limit,
			"retry_after_s", result.RetryAfter,
		)
	}
	return result, nil
}

// Reset clears the shop's window. Only used operationally and in tests.
func (l *Limiter) Reset(ctx context.Context, shopID string) error {
	return l.store.Reset(ctx, "shop:"+models.SanitizeKeySegment(shopID))
}
