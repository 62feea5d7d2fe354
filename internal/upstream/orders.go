package upstream

import (
	"context"
	"fmt"
	"net/http"
)

// CreateOrder submits an order for production.
func (c *Client) CreateOrder(ctx context.Context, order any) (*Response, error) {
	resp, err := c.do(ctx, Request{
		Endpoint: "/shops/{shop_id}/orders.json",
		Method:   http.MethodPost,
		Body:     order,
	})
	if err != nil {
		return nil, err
	}
	return c.expect(ctx, resp, "create_order", http.StatusOK, http.StatusCreated), nil
}

// ListOrders fetches the shop's orders.
func (c *Client) ListOrders(ctx context.Context) (*Response, error) {
	resp, err := c.do(ctx, Request{Endpoint: "/shops/{shop_id}/orders.json"})
	if err != nil {
		return nil, err
	}
	return c.expect(ctx, resp, "list_orders", http.StatusOK), nil
}

// GetOrder fetches a single order by id.
func (c *Client) GetOrder(ctx context.Context, orderID string) (*Response, error) {
	resp, err := c.do(ctx, Request{
		Endpoint: fmt.Sprintf("/shops/{shop_id}/orders/%s.json", orderID),
	})
	if err != nil {
		return nil, err
	}
	return c.expect(ctx, resp, "get_order", http.StatusOK), nil
}
