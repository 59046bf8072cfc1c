package client

import (
	"errors"
	"fmt"
)

// NetworkError is a transport failure or a response that could not be decoded.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: network error: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// AuthenticationError covers rejected credentials, expired tokens and calls
// made without a session.
type AuthenticationError struct {
	Message string
	Err     error
}

func (e *AuthenticationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AuthenticationError) Unwrap() error {
	return e.Err
}

// ErrNoSession is returned by operations that need a signed-in user.
var ErrNoSession = &AuthenticationError{Message: "not signed in"}

// ValidationError is input rejected before reaching the network, or rejected
// by the server as malformed.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// CartError carries the server message of a failed cart or order request,
// such as insufficient stock.
type CartError struct {
	Status  int
	Message string
}

func (e *CartError) Error() string {
	return e.Message
}

// APIError is any other non-2xx response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// IsUnauthorized reports whether err stems from a missing or rejected session.
func IsUnauthorized(err error) bool {
	var authErr *AuthenticationError
	return errors.As(err, &authErr)
}
