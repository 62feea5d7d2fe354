package cart

import (
	"context"
	"errors"
	"log/slog"

	"storefront/internal/platform/metrics"
	dErrors "storefront/pkg/domain-errors"
)

// Service validates cart operations before they reach the store and records
// operational telemetry.
type Service struct {
	store   Store
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// NewService creates the cart service over the given store.
func NewService(store Store, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, errors.New("cart store is required")
	}
	s := &Service{store: store, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Create makes a new empty cart.
func (s *Service) Create(ctx context.Context) (*Cart, error) {
	c, err := s.store.Create(ctx)
	if err != nil {
		return nil, err
	}
	s.metrics.IncrementCartOperation("create")
	s.logger.InfoContext(ctx, "cart created", "cart_id", c.ID)
	return c, nil
}

// Load returns a cart by id.
func (s *Service) Load(ctx context.Context, id string) (*Cart, error) {
	return s.store.Load(ctx, id)
}

// AddItem merges one line into the cart. Quantity must be at least 1.
func (s *Service) AddItem(ctx context.Context, id string, variantID int64, quantity int) (*Cart, error) {
	if variantID == 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "variantId is required")
	}
	if quantity < 1 {
		return nil, dErrors.New(dErrors.CodeValidation, "quantity must be at least 1")
	}

	c, err := s.store.AddItem(ctx, id, variantID, quantity)
	if err != nil {
		return nil, err
	}
	s.metrics.IncrementCartOperation("add_item")
	return c, nil
}

// ReplaceItems swaps the cart's lines wholesale. An empty list empties the
// cart regardless of prior state.
func (s *Service) ReplaceItems(ctx context.Context, id string, lines []Line) (*Cart, error) {
	for _, line := range lines {
		if line.Quantity < 1 {
			return nil, dErrors.Newf(dErrors.CodeValidation,
				"quantity must be at least 1 for variant %d", line.VariantID)
		}
	}

	c, err := s.store.ReplaceItems(ctx, id, lines)
	if err != nil {
		return nil, err
	}
	s.metrics.IncrementCartOperation("replace_items")
	return c, nil
}

// Delete removes the cart.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.metrics.IncrementCartOperation("delete")
	s.logger.InfoContext(ctx, "cart deleted", "cart_id", id)
	return nil
}
