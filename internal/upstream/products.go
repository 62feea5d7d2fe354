package upstream

import (
	"context"
	"fmt"
	"net/http"
)

// ListProducts fetches the shop's product catalog.
func (c *Client) ListProducts(ctx context.Context) (*Response, error) {
	resp, err := c.do(ctx, Request{Endpoint: "/shops/{shop_id}/products.json"})
	if err != nil {
		return nil, err
	}
	return c.expect(ctx, resp, "list_products", http.StatusOK), nil
}

// GetProduct fetches a single product by id.
func (c *Client) GetProduct(ctx context.Context, productID string) (*Response, error) {
	resp, err := c.do(ctx, Request{
		Endpoint: fmt.Sprintf("/shops/{shop_id}/products/%s.json", productID),
	})
	if err != nil {
		return nil, err
	}
	return c.expect(ctx, resp, "get_product", http.StatusOK), nil
}

// CreateProduct creates a product from the given payload.
func (c *Client) CreateProduct(ctx context.Context, product any) (*Response, error) {
	resp, err := c.do(ctx, Request{
		Endpoint: "/shops/{shop_id}/products.json",
		Method:   http.MethodPost,
		Body:     product,
	})
	if err != nil {
		return nil, err
	}
	return c.expect(ctx, resp, "create_product", http.StatusOK, http.StatusCreated), nil
}

// UpdateProduct replaces a product's definition.
func (c *Client) UpdateProduct(ctx context.Context, productID string, product any) (*Response, error) {
	resp, err := c.do(ctx, Request{
		Endpoint: fmt.Sprintf("/shops/{shop_id}/products/%s.json", productID),
		Method:   http.MethodPut,
		Body:     product,
	})
	if err != nil {
		return nil, err
	}
	return c.expect(ctx, resp, "update_product", http.StatusOK), nil
}

// DeleteProduct removes a product.
func (c *Client) DeleteProduct(ctx context.Context, productID string) (*Response, error) {
	resp, err := c.do(ctx, Request{
		Endpoint: fmt.Sprintf("/shops/{shop_id}/products/%s.json", productID),
		Method:   http.MethodDelete,
	})
	if err != nil {
		return nil, err
	}
	return c.expect(ctx, resp, "delete_product", http.StatusOK, http.StatusNoContent), nil
}

// ListCollections exists for storefront page compatibility. The upstream API
// has no collection resource, so this returns an empty list without spending
// rate-limit quota.
func (c *Client) ListCollections(ctx context.Context) (*Response, error) {
	return &Response{
		Status:  http.StatusOK,
		Payload: map[string]any{"data": []any{}},
	}, nil
}
