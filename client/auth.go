package client

import (
	"context"
	"net/http"

	"storefront/models"
)

func (c *Client) Login(ctx context.Context, email, password string) (*models.AuthResponse, error) {
	var out models.AuthResponse
	err := c.do(ctx, call{
		op:     "login",
		method: http.MethodPost,
		path:   "/auth/login",
		body:   models.LoginRequest{Email: email, Password: password},
		result: &out,
	})
	if err != nil {
		return nil, asAPIError(err)
	}
	return &out, nil
}

func (c *Client) Register(ctx context.Context, name, email, password string) (*models.AuthResponse, error) {
	var out models.AuthResponse
	err := c.do(ctx, call{
		op:     "register",
		method: http.MethodPost,
		path:   "/auth/register",
		body:   models.RegisterRequest{Name: name, Email: email, Password: password},
		result: &out,
	})
	if err != nil {
		return nil, asValidationError(err)
	}
	return &out, nil
}

// Logout revokes the current token server side.
func (c *Client) Logout(ctx context.Context) error {
	return asAPIError(c.do(ctx, call{
		op:     "logout",
		method: http.MethodPost,
		path:   "/auth/logout",
		auth:   true,
	}))
}

func (c *Client) Profile(ctx context.Context) (*models.User, error) {
	var out models.User
	err := c.do(ctx, call{
		op:     "profile",
		method: http.MethodGet,
		path:   "/auth/profile",
		auth:   true,
		result: &out,
	})
	if err != nil {
		return nil, asAPIError(err)
	}
	return &out, nil
}
