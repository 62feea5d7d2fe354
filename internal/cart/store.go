package cart

import "context"

// Store persists carts for the process lifetime. Implementations must
// serialize mutations of the same cart id so concurrent AddItem calls never
// lose an increment.
type Store interface {
	Create(ctx context.Context) (*Cart, error)
	Load(ctx context.Context, id string) (*Cart, error)
	AddItem(ctx context.Context, id string, variantID int64, quantity int) (*Cart, error)
	ReplaceItems(ctx context.Context, id string, lines []Line) (*Cart, error)
	Delete(ctx context.Context, id string) error
}
