package client

import (
	"context"
	"net/http"

	"storefront/models"
)

func (c *Client) CreateOrder(ctx context.Context, req models.CreateOrderRequest) (*models.Order, error) {
	var out models.Order
	err := c.do(ctx, call{
		op:     "create order",
		method: http.MethodPost,
		path:   "/orders",
		auth:   true,
		body:   req,
		result: &out,
	})
	if err != nil {
		return nil, asCartError(err)
	}
	return &out, nil
}

func (c *Client) GetOrders(ctx context.Context) ([]models.Order, error) {
	var out []models.Order
	err := c.do(ctx, call{
		op:     "list orders",
		method: http.MethodGet,
		path:   "/orders",
		auth:   true,
		result: &out,
	})
	if err != nil {
		return nil, asAPIError(err)
	}
	return out, nil
}
