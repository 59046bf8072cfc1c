package client

import (
	"context"
	"net/http"
	"strconv"

	"storefront/models"
)

func (c *Client) GetReviews(ctx context.Context, limit int) ([]models.Review, error) {
	var out models.ReviewsResponse
	in := call{
		op:     "list reviews",
		method: http.MethodGet,
		path:   "/reviews",
		result: &out,
	}
	if limit > 0 {
		in.query = map[string]string{"limit": strconv.Itoa(limit)}
	}
	if err := c.do(ctx, in); err != nil {
		return nil, asAPIError(err)
	}
	return out.Data, nil
}

// CreateReview returns the server's confirmation message.
func (c *Client) CreateReview(ctx context.Context, req models.CreateReviewRequest) (string, error) {
	var out models.Response
	err := c.do(ctx, call{
		op:     "create review",
		method: http.MethodPost,
		path:   "/reviews",
		auth:   true,
		body:   req,
		result: &out,
	})
	if err != nil {
		return "", asValidationError(err)
	}
	return out.Message, nil
}
