package cart

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	dErrors "storefront/pkg/domain-errors"
	"storefront/pkg/requestcontext"
)

// InMemoryStore is the demonstrational cart backend: a mutex-guarded map,
// non-persistent, single-process. A production deployment would back this
// with external storage.
type InMemoryStore struct {
	mu    sync.Mutex
	carts map[string]*Cart
	// ttl > 0 makes idle carts expire lazily on access; there is no
	// background janitor, every unit of work stays request-scoped.
	ttl time.Duration
}

type StoreOption func(*InMemoryStore)

// WithTTL sets the idle expiry for carts. Zero disables expiry.
func WithTTL(ttl time.Duration) StoreOption {
	return func(s *InMemoryStore) {
		s.ttl = ttl
	}
}

// NewInMemoryStore creates an empty cart store.
func NewInMemoryStore(opts ...StoreOption) *InMemoryStore {
	s := &InMemoryStore{carts: make(map[string]*Cart)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create inserts a new empty cart under a collision-resistant opaque id.
func (s *InMemoryStore) Create(ctx context.Context) (*Cart, error) {
	now := requestcontext.Now(ctx)
	c := &Cart{
		ID:        "cart_" + uuid.NewString(),
		Items:     []Line{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[c.ID] = c
	return c.clone(), nil
}

// Load returns the cart or a not_found error.
func (s *InMemoryStore) Load(ctx context.Context, id string) (*Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return c.clone(), nil
}

// AddItem merges a line into the cart: an existing variant's quantity is
// incremented, a new variant is appended. The read-merge-write runs under
// the store lock so concurrent adds to the same cart cannot lose updates.
func (s *InMemoryStore) AddItem(ctx context.Context, id string, variantID int64, quantity int) (*Cart, error) {
	now := requestcontext.Now(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	merged := false
	for i := range c.Items {
		if c.Items[i].VariantID == variantID {
			c.Items[i].Quantity += quantity
			merged = true
			break
		}
	}
	if !merged {
		c.Items = append(c.Items, Line{VariantID: variantID, Quantity: quantity, AddedAt: now})
	}

	c.UpdatedAt = now
	return c.clone(), nil
}

// ReplaceItems swaps the cart's item list wholesale.
func (s *InMemoryStore) ReplaceItems(ctx context.Context, id string, lines []Line) (*Cart, error) {
	now := requestcontext.Now(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	items := make([]Line, 0, len(lines))
	for _, line := range lines {
		if line.AddedAt.IsZero() {
			line.AddedAt = now
		}
		items = append(items, line)
	}
	c.Items = items
	c.UpdatedAt = now
	return c.clone(), nil
}

// Delete removes the cart or returns not_found.
func (s *InMemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.get(ctx, id); err != nil {
		return err
	}
	delete(s.carts, id)
	return nil
}

// get resolves a live cart, evicting it first when the TTL has lapsed.
// Must be called while holding s.mu.
func (s *InMemoryStore) get(ctx context.Context, id string) (*Cart, error) {
	c, ok := s.carts[id]
	if !ok {
		return nil, dErrors.New(dErrors.CodeNotFound, "cart not found")
	}
	if s.ttl > 0 && requestcontext.Now(ctx).Sub(c.UpdatedAt) > s.ttl {
		delete(s.carts, id)
		return nil, dErrors.New(dErrors.CodeNotFound, "cart not found")
	}
	return c, nil
}
