package services

import "errors"

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrProductNotFound    = errors.New("product not found")
	ErrProductInactive    = errors.New("product is not available")
	ErrInvalidSize        = errors.New("size not available for this product")
	ErrInvalidQuantity    = errors.New("quantity must be at least 1")
	ErrEmptyOrder         = errors.New("order has no items")
	ErrReviewNotFound     = errors.New("review not found")
)

// StockError reports a request that exceeds the stock left for a product size.
type StockError struct {
	ProductName string
	Size        string
	Available   int
}

func (e *StockError) Error() string {
	if e.Size != "" {
		return "Insufficient stock for " + e.ProductName + " (size " + e.Size + ")"
	}
	return "Insufficient stock for " + e.ProductName
}
