package client

import (
	"context"
	"net/http"
	"strconv"

	"storefront/models"
)

type ProductQuery struct {
	Page     int
	Limit    int
	Query    string
	Category string
}

func (q ProductQuery) params() map[string]string {
	out := map[string]string{}
	if q.Page > 0 {
		out["page"] = strconv.Itoa(q.Page)
	}
	if q.Limit > 0 {
		out["limit"] = strconv.Itoa(q.Limit)
	}
	if q.Query != "" {
		out["q"] = q.Query
	}
	if q.Category != "" {
		out["category"] = q.Category
	}
	return out
}

func (c *Client) GetProducts(ctx context.Context, q ProductQuery) (*models.ProductsResponse, error) {
	var out models.ProductsResponse
	err := c.do(ctx, call{
		op:     "list products",
		method: http.MethodGet,
		path:   "/products",
		query:  q.params(),
		result: &out,
	})
	if err != nil {
		return nil, asAPIError(err)
	}
	return &out, nil
}

func (c *Client) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	var out models.Product
	err := c.do(ctx, call{
		op:     "get product",
		method: http.MethodGet,
		path:   "/products/{id}",
		params: map[string]string{"id": id},
		result: &out,
	})
	if err != nil {
		return nil, asAPIError(err)
	}
	return &out, nil
}

func (c *Client) GetCategories(ctx context.Context) (*models.CategoriesResponse, error) {
	var out models.CategoriesResponse
	err := c.do(ctx, call{
		op:     "list categories",
		method: http.MethodGet,
		path:   "/categories",
		result: &out,
	})
	if err != nil {
		return nil, asAPIError(err)
	}
	return &out, nil
}

// CheckStock asks whether quantity units of size are available. Products
// without sizes are checked with an empty size.
func (c *Client) CheckStock(ctx context.Context, productID, size string, quantity int) (*models.StockCheck, error) {
	if size == "" {
		size = "-"
	}
	var out models.StockCheck
	err := c.do(ctx, call{
		op:     "check stock",
		method: http.MethodGet,
		path:   "/products/{id}/stock/{size}",
		params: map[string]string{"id": productID, "size": size},
		query:  map[string]string{"quantity": strconv.Itoa(quantity)},
		result: &out,
	})
	if err != nil {
		return nil, asAPIError(err)
	}
	return &out, nil
}
