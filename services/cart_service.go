package services

import (
	"context"
	"errors"
	"strings"

	"storefront/models"
	"storefront/repositories"
)

type CartService struct {
	cartRepo    repositories.CartRepository
	productRepo repositories.ProductRepository
}

func NewCartService(carts repositories.CartRepository, products repositories.ProductRepository) *CartService {
	return &CartService{cartRepo: carts, productRepo: products}
}

// GetCart returns the user's lines in insertion order with products expanded.
// Lines whose product disappeared keep the bare id.
func (s *CartService) GetCart(ctx context.Context, userID string) ([]models.CartLine, error) {
	rows, err := s.cartRepo.Rows(ctx, userID)
	if err != nil {
		return nil, err
	}

	lines := make([]models.CartLine, 0, len(rows))
	for _, row := range rows {
		line := models.CartLine{Product: models.RefID(row.ProductID), Size: row.Size, Quantity: row.Quantity}
		p, err := s.productRepo.FindByID(ctx, row.ProductID)
		switch {
		case err == nil:
			line.Product = models.RefProduct(p)
		case !errors.Is(err, repositories.ErrNotFound):
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// AddItem merges quantity into the (product, size) line. The merged quantity
// may not exceed available stock.
func (s *CartService) AddItem(ctx context.Context, userID string, req models.AddCartItemRequest) ([]models.CartLine, error) {
	if req.Quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	size := strings.TrimSpace(req.Size)

	product, err := s.productRepo.FindByID(ctx, req.ProductID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	if !product.IsActive {
		return nil, ErrProductInactive
	}
	if !product.HasSize(size) {
		return nil, ErrInvalidSize
	}

	quantity := req.Quantity
	existing, err := s.cartRepo.Find(ctx, userID, product.ID, size)
	switch {
	case err == nil:
		quantity += existing.Quantity
	case !errors.Is(err, repositories.ErrNotFound):
		return nil, err
	}

	if available := product.AvailableStock(size); quantity > available {
		return nil, &StockError{ProductName: product.Name, Size: size, Available: available}
	}

	if err := s.cartRepo.Save(ctx, models.CartRow{
		UserID:    userID,
		ProductID: product.ID,
		Size:      size,
		Quantity:  quantity,
	}); err != nil {
		return nil, err
	}
	return s.GetCart(ctx, userID)
}

func (s *CartService) RemoveItem(ctx context.Context, userID, productID, size string) ([]models.CartLine, error) {
	if err := s.cartRepo.Delete(ctx, userID, productID, strings.TrimSpace(size)); err != nil {
		return nil, err
	}
	return s.GetCart(ctx, userID)
}

func (s *CartService) Clear(ctx context.Context, userID string) ([]models.CartLine, error) {
	if err := s.cartRepo.Clear(ctx, userID); err != nil {
		return nil, err
	}
	return []models.CartLine{}, nil
}
