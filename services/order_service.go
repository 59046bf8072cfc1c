package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"storefront/models"
	"storefront/repositories"
)

// ProductInvalidator drops cached product reads after stock changes.
type ProductInvalidator interface {
	Invalidate(ctx context.Context, ids ...string)
}

type OrderService struct {
	orderRepo   repositories.OrderRepository
	productRepo repositories.ProductRepository
	invalidator ProductInvalidator
}

func NewOrderService(orders repositories.OrderRepository, products repositories.ProductRepository, invalidator ProductInvalidator) *OrderService {
	return &OrderService{orderRepo: orders, productRepo: products, invalidator: invalidator}
}

// CreateOrder prices items from the catalog rather than trusting the client
// and keeps the client's total only when it matches within a cent.
func (s *OrderService) CreateOrder(ctx context.Context, userID string, req models.CreateOrderRequest) (*models.Order, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyOrder
	}

	items := make([]models.OrderItem, 0, len(req.Items))
	subtotal := 0.0
	for _, it := range req.Items {
		if it.Quantity < 1 {
			return nil, ErrInvalidQuantity
		}
		p, err := s.productRepo.FindByID(ctx, it.ProductID)
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		if err != nil {
			return nil, err
		}
		items = append(items, models.OrderItem{
			ProductID: p.ID,
			Name:      p.Name,
			Price:     p.Price,
			Quantity:  it.Quantity,
			Size:      strings.TrimSpace(it.Size),
		})
		subtotal += p.Price * float64(it.Quantity)
	}

	total := subtotal + models.ShippingFee(req.PaymentInfo.ShippingMethod)
	if req.Total > 0 && math.Abs(req.Total-total) < 0.01 {
		total = req.Total
	}

	order := &models.Order{
		OrderNumber: fmt.Sprintf("ORD-%d-%s", time.Now().Unix(), uuid.NewString()[:8]),
		UserID:      userID,
		Items:       items,
		Total:       total,
		Status:      models.OrderStatusPending,
		PaymentInfo: req.PaymentInfo,
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		var shortage *repositories.StockShortage
		if errors.As(err, &shortage) {
			return nil, &StockError{ProductName: shortage.Name, Size: shortage.Size, Available: shortage.Available}
		}
		return nil, err
	}

	if s.invalidator != nil {
		ids := make([]string, len(items))
		for i, it := range items {
			ids[i] = it.ProductID
		}
		s.invalidator.Invalidate(ctx, ids...)
	}
	return order, nil
}

func (s *OrderService) GetOrders(ctx context.Context, userID string) ([]models.Order, error) {
	return s.orderRepo.FindByUser(ctx, userID)
}
