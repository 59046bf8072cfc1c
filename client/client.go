// Package client is a typed REST client for the storefront API.
package client

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"storefront/models"
)

const DefaultTimeout = 10 * time.Second

// TokenSource yields the bearer credential for authenticated calls. An empty
// token means no session.
type TokenSource interface {
	Token() string
}

type TokenFunc func() string

func (f TokenFunc) Token() string { return f() }

type Client struct {
	rest *resty.Client
	log  zerolog.Logger

	mu             sync.RWMutex
	tokens         TokenSource
	onUnauthorized func()
}

type Option func(*Client)

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.rest.SetTimeout(d)
		}
	}
}

func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// WithHTTPClient swaps the transport, for example to an httptest server client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.rest = resty.NewWithClient(hc).SetBaseURL(c.rest.BaseURL).SetTimeout(c.rest.GetClient().Timeout)
		c.configure()
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		rest: resty.New().SetBaseURL(strings.TrimRight(baseURL, "/")).SetTimeout(DefaultTimeout),
		log:  zerolog.Nop(),
	}
	c.configure()
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) configure() {
	c.rest.
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
			if resp.StatusCode() == http.StatusUnauthorized && resp.Request.Token != "" {
				c.log.Warn().Str("url", resp.Request.URL).Msg("session rejected by server")
				c.mu.RLock()
				hook := c.onUnauthorized
				c.mu.RUnlock()
				if hook != nil {
					hook()
				}
			}
			return nil
		})
}

func (c *Client) SetTokenSource(ts TokenSource) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tokens = ts
}

// OnUnauthorized registers fn to run whenever an authenticated call gets a 401.
func (c *Client) OnUnauthorized(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onUnauthorized = fn
}

func (c *Client) token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.tokens == nil {
		return ""
	}
	return c.tokens.Token()
}

type call struct {
	op     string
	method string
	path   string
	auth   bool
	query  map[string]string
	params map[string]string
	body   any
	result any
}

// statusError is a decoded non-2xx response before it is mapped to the
// caller-facing error types.
type statusError struct {
	status  int
	message string
}

func (e *statusError) Error() string { return e.message }

func (c *Client) do(ctx context.Context, in call) error {
	req := c.rest.R().SetContext(ctx).SetError(&models.ErrorResponse{})
	if in.auth {
		token := c.token()
		if token == "" {
			return ErrNoSession
		}
		req.SetAuthToken(token)
	}
	if in.query != nil {
		req.SetQueryParams(in.query)
	}
	if in.params != nil {
		req.SetPathParams(in.params)
	}
	if in.body != nil {
		req.SetBody(in.body)
	}
	if in.result != nil {
		req.SetResult(in.result)
	}

	resp, err := req.Execute(in.method, in.path)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return &NetworkError{Op: in.op, Err: ctxErr}
		}
		return &NetworkError{Op: in.op, Err: err}
	}

	c.log.Debug().
		Str("op", in.op).
		Int("status", resp.StatusCode()).
		Dur("latency", resp.Time()).
		Msg("api call")

	if !resp.IsError() {
		return nil
	}

	message := http.StatusText(resp.StatusCode())
	if e, ok := resp.Error().(*models.ErrorResponse); ok && e.Message != "" {
		message = e.Message
	}
	if resp.StatusCode() == http.StatusUnauthorized {
		return &AuthenticationError{Message: message}
	}
	return &statusError{status: resp.StatusCode(), message: message}
}

// asCartError maps business failures of cart and order calls.
func asCartError(err error) error {
	var se *statusError
	if errors.As(err, &se) {
		return &CartError{Status: se.status, Message: se.message}
	}
	return err
}

func asAPIError(err error) error {
	var se *statusError
	if errors.As(err, &se) {
		return &APIError{Status: se.status, Message: se.message}
	}
	return err
}

// asValidationError maps 400 and 409 responses to ValidationError.
func asValidationError(err error) error {
	var se *statusError
	if errors.As(err, &se) {
		if se.status == http.StatusBadRequest || se.status == http.StatusConflict {
			return &ValidationError{Message: se.message}
		}
		return &APIError{Status: se.status, Message: se.message}
	}
	return err
}
