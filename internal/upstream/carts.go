package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Cart operations are a compatibility shim: the upstream API models a cart
// as a single resource whose item list is replaced wholesale on PUT. AddToCart
// therefore reads the current list, merges the new line by variant and writes
// the full list back, so adding a variant that is already present increments
// its quantity and the rest of the list is preserved.

// CreateCart creates an empty upstream cart.
func (c *Client) CreateCart(ctx context.Context) (*Response, error) {
	resp, err := c.do(ctx, Request{
		Endpoint: "/shops/{shop_id}/carts.json",
		Method:   http.MethodPost,
		Body:     cartEnvelope(nil),
	})
	if err != nil {
		return nil, err
	}
	return c.expect(ctx, resp, "create_cart", http.StatusOK, http.StatusCreated), nil
}

// LoadCart fetches an upstream cart by id.
func (c *Client) LoadCart(ctx context.Context, cartID string) (*Response, error) {
	resp, err := c.do(ctx, Request{
		Endpoint: fmt.Sprintf("/shops/{shop_id}/carts/%s.json", cartID),
	})
	if err != nil {
		return nil, err
	}
	return c.expect(ctx, resp, "load_cart", http.StatusOK), nil
}

// AddToCart merges one line into the cart's item list and writes the merged
// list back.
func (c *Client) AddToCart(ctx context.Context, cartID string, variantID int64, quantity int) (*Response, error) {
	current, err := c.LoadCart(ctx, cartID)
	if err != nil {
		return nil, err
	}

	items := decodeCartItems(current.Payload)
	merged := false
	for i := range items {
		if items[i].VariantID == variantID {
			items[i].Quantity += quantity
			merged = true
			break
		}
	}
	if !merged {
		items = append(items, CartItem{VariantID: variantID, Quantity: quantity})
	}

	return c.UpdateCart(ctx, cartID, items)
}

// UpdateCart replaces the cart's item list.
func (c *Client) UpdateCart(ctx context.Context, cartID string, items []CartItem) (*Response, error) {
	resp, err := c.do(ctx, Request{
		Endpoint: fmt.Sprintf("/shops/{shop_id}/carts/%s.json", cartID),
		Method:   http.MethodPut,
		Body:     cartEnvelope(items),
	})
	if err != nil {
		return nil, err
	}
	return c.expect(ctx, resp, "update_cart", http.StatusOK), nil
}

// DeleteCart removes an upstream cart.
func (c *Client) DeleteCart(ctx context.Context, cartID string) (*Response, error) {
	resp, err := c.do(ctx, Request{
		Endpoint: fmt.Sprintf("/shops/{shop_id}/carts/%s.json", cartID),
		Method:   http.MethodDelete,
	})
	if err != nil {
		return nil, err
	}
	return c.expect(ctx, resp, "delete_cart", http.StatusOK, http.StatusNoContent), nil
}

func cartEnvelope(items []CartItem) map[string]any {
	if items == nil {
		items = []CartItem{}
	}
	return map[string]any{"cart": map[string]any{"items": items}}
}

// decodeCartItems extracts the item list from a loaded cart payload,
// tolerating absent or malformed lists.
func decodeCartItems(payload any) []CartItem {
	var envelope struct {
		Cart struct {
			Items []CartItem `json:"items"`
		} `json:"cart"`
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil
	}
	return envelope.Cart.Items
}
