package cart

import "time"

// Cart is a locally managed shopping cart. The upstream commerce API has no
// cart primitive, so carts live in this process and reference upstream
// variants by id only.
type Cart struct {
	ID        string    `json:"id"`
	Items     []Line    `json:"items"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Line is one (variant, quantity) entry in a cart. Quantity is always >= 1;
// adding a variant that is already present merges into the existing line.
type Line struct {
	VariantID int64     `json:"variantId"`
	Quantity  int       `json:"quantity"`
	AddedAt   time.Time `json:"addedAt"`
}

// clone returns a copy safe to hand to callers while the store keeps
// mutating its own instance.
func (c *Cart) clone() *Cart {
	out := *c
	out.Items = append([]Line{}, c.Items...)
	return &out
}
