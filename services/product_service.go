package services

import (
	"context"
	"errors"
	"math"

	"storefront/models"
	"storefront/repositories"
)

type ProductService struct {
	productRepo repositories.ProductRepository
}

func NewProductService(products repositories.ProductRepository) *ProductService {
	return &ProductService{productRepo: products}
}

func (s *ProductService) GetAllCategories(ctx context.Context) (*models.CategoriesResponse, error) {
	categories, err := s.productRepo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	return &models.CategoriesResponse{
		Data: categories,
		Meta: models.PaginationMeta{Total: len(categories), Page: 1, Limit: len(categories), TotalPages: 1},
	}, nil
}

func (s *ProductService) GetAllProducts(ctx context.Context, filter models.ProductFilter) (*models.ProductsResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 10
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}

	products, total, err := s.productRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	totalPages := int(math.Ceil(float64(total) / float64(filter.Limit)))

	return &models.ProductsResponse{
		Data: products,
		Meta: models.PaginationMeta{
			Total:      total,
			Page:       filter.Page,
			Limit:      filter.Limit,
			TotalPages: totalPages,
		},
	}, nil
}

func (s *ProductService) GetProductByID(ctx context.Context, id string) (*models.Product, error) {
	p, err := s.productRepo.FindByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrProductNotFound
	}
	return p, err
}

func (s *ProductService) CheckStock(ctx context.Context, id, size string, quantity int) (*models.StockCheck, error) {
	p, err := s.GetProductByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if quantity < 1 {
		quantity = 1
	}
	stock := p.AvailableStock(size)
	return &models.StockCheck{
		ProductID: p.ID,
		Size:      size,
		Requested: quantity,
		Stock:     stock,
		Available: p.IsActive && stock >= quantity,
	}, nil
}

func (s *ProductService) CreateProduct(ctx context.Context, req models.CreateProductRequest) (*models.Product, error) {
	product := &models.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		SizeStock:   req.SizeStock,
		CategoryID:  req.CategoryID,
		Images:      req.Images,
		Material:    req.Material,
		EcoFriendly: req.EcoFriendly,
		IsActive:    true,
	}
	if product.Images == nil {
		product.Images = []string{}
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}
