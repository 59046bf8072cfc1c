package models

import (
	"strings"
	"time"
)

type ShippingData struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"required"`
	Address   string `json:"address" validate:"required"`
	City      string `json:"city" validate:"required"`
	State     string `json:"state" validate:"required"`
	ZipCode   string `json:"zipCode" validate:"required"`
}

type PaymentInfo struct {
	ShippingData   ShippingData `json:"shippingData"`
	ShippingMethod string       `json:"shippingMethod"`
}

type OrderItem struct {
	ProductID string  `json:"productId" binding:"required"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity" binding:"required,min=1"`
	Size      string  `json:"size"`
}

type Order struct {
	ID          string      `json:"_id"`
	OrderNumber string      `json:"orderNumber"`
	UserID      string      `json:"userId"`
	Items       []OrderItem `json:"items"`
	Total       float64     `json:"total"`
	Status      string      `json:"status"`
	PaymentInfo PaymentInfo `json:"paymentInfo"`
	CreatedAt   time.Time   `json:"createdAt"`
}

type CreateOrderRequest struct {
	PaymentInfo PaymentInfo `json:"paymentInfo"`
	Items       []OrderItem `json:"items" binding:"required,min=1,dive"`
	Total       float64     `json:"total"`
}

const OrderStatusPending = "pending"

const (
	ShippingStandard = "standard"
	ShippingExpress  = "express"
)

// ShippingFee returns the surcharge of a shipping method. Unknown methods
// ship as standard.
func ShippingFee(method string) float64 {
	switch strings.ToLower(method) {
	case ShippingExpress:
		return 10
	default:
		return 0
	}
}
