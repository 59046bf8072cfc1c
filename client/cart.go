package client

import (
	"context"
	"net/http"

	"storefront/models"
)

func (c *Client) GetCart(ctx context.Context) ([]models.CartLine, error) {
	var out []models.CartLine
	err := c.do(ctx, call{
		op:     "get cart",
		method: http.MethodGet,
		path:   "/cart",
		auth:   true,
		result: &out,
	})
	if err != nil {
		return nil, asCartError(err)
	}
	return nonNil(out), nil
}

func (c *Client) AddToCart(ctx context.Context, productID string, quantity int, size string) ([]models.CartLine, error) {
	var out []models.CartLine
	err := c.do(ctx, call{
		op:     "add to cart",
		method: http.MethodPost,
		path:   "/cart/items",
		auth:   true,
		body:   models.AddCartItemRequest{ProductID: productID, Quantity: quantity, Size: size},
		result: &out,
	})
	if err != nil {
		return nil, asCartError(err)
	}
	return nonNil(out), nil
}

func (c *Client) RemoveFromCart(ctx context.Context, productID, size string) ([]models.CartLine, error) {
	var out []models.CartLine
	err := c.do(ctx, call{
		op:     "remove from cart",
		method: http.MethodDelete,
		path:   "/cart/items/{productId}",
		auth:   true,
		params: map[string]string{"productId": productID},
		query:  map[string]string{"size": size},
		result: &out,
	})
	if err != nil {
		return nil, asCartError(err)
	}
	return nonNil(out), nil
}

// UpdateCartItemQuantity replaces a line's quantity with a remove followed by
// an add. The two calls are not atomic: if the add fails the line is gone
// server side and the returned error comes from the add.
func (c *Client) UpdateCartItemQuantity(ctx context.Context, productID string, quantity int, size string) ([]models.CartLine, error) {
	if _, err := c.RemoveFromCart(ctx, productID, size); err != nil {
		return nil, err
	}
	return c.AddToCart(ctx, productID, quantity, size)
}

func (c *Client) ClearCart(ctx context.Context) ([]models.CartLine, error) {
	var out []models.CartLine
	err := c.do(ctx, call{
		op:     "clear cart",
		method: http.MethodDelete,
		path:   "/cart",
		auth:   true,
		result: &out,
	})
	if err != nil {
		return nil, asCartError(err)
	}
	return nonNil(out), nil
}

func nonNil(lines []models.CartLine) []models.CartLine {
	if lines == nil {
		return []models.CartLine{}
	}
	return lines
}
