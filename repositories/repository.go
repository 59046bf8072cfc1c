package repositories

import (
	"context"
	"errors"

	"storefront/models"
)

var (
	ErrNotFound          = errors.New("record not found")
	ErrDuplicate         = errors.New("record already exists")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// StockShortage identifies the order line that could not be fulfilled.
type StockShortage struct {
	ProductID string
	Name      string
	Size      string
	Available int
}

func (e *StockShortage) Error() string {
	return "insufficient stock for " + e.Name
}

func (e *StockShortage) Unwrap() error {
	return ErrInsufficientStock
}

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
}

type ProductRepository interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	CreateCategory(ctx context.Context, category *models.Category) error
	List(ctx context.Context, filter models.ProductFilter) ([]models.Product, int, error)
	FindByID(ctx context.Context, id string) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
}

// CartRepository stores cart rows in insertion order.
type CartRepository interface {
	Rows(ctx context.Context, userID string) ([]models.CartRow, error)
	Find(ctx context.Context, userID, productID, size string) (*models.CartRow, error)
	// Save inserts the row or rewrites the quantity of an existing row in place.
	Save(ctx context.Context, row models.CartRow) error
	Delete(ctx context.Context, userID, productID, size string) error
	Clear(ctx context.Context, userID string) error
}

type OrderRepository interface {
	// Create stores the order and decrements stock for every item in one unit.
	// It fails with *StockShortage when any item exceeds available stock.
	Create(ctx context.Context, order *models.Order) error
	FindByUser(ctx context.Context, userID string) ([]models.Order, error)
}

type ReviewRepository interface {
	List(ctx context.Context, limit int) ([]models.Review, error)
	Create(ctx context.Context, review *models.Review) error
	UpdateStatus(ctx context.Context, id, status string, verified bool) error
}

// Store bundles the repositories the API needs.
type Store struct {
	Users    UserRepository
	Products ProductRepository
	Carts    CartRepository
	Orders   OrderRepository
	Reviews  ReviewRepository
}
