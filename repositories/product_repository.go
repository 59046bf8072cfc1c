package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"storefront/models"
)

type PGProductRepository struct {
	db *pgxpool.Pool
}

func NewProductRepository(db *pgxpool.Pool) *PGProductRepository {
	return &PGProductRepository{db: db}
}

const productColumns = `id, name, description, price, stock, COALESCE(category_id, ''), images,
	material, eco_friendly, rating, reviews, is_active, created_at, updated_at`

func (r *PGProductRepository) ListCategories(ctx context.Context) ([]models.Category, error) {
	query := `SELECT id, name, description, is_active, position, created_at FROM categories ORDER BY position, name`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		var cat models.Category
		if err := rows.Scan(&cat.ID, &cat.Name, &cat.Description, &cat.IsActive, &cat.Position, &cat.CreatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, cat)
	}
	return categories, rows.Err()
}

func (r *PGProductRepository) CreateCategory(ctx context.Context, category *models.Category) error {
	if category.ID == "" {
		category.ID = uuid.NewString()
	}
	category.CreatedAt = time.Now()
	_, err := r.db.Exec(ctx,
		`INSERT INTO categories (id, name, description, is_active, position, created_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		category.ID, category.Name, category.Description, category.IsActive, category.Position, category.CreatedAt,
	)
	return err
}

func (r *PGProductRepository) List(ctx context.Context, filter models.ProductFilter) ([]models.Product, int, error) {
	offset := (filter.Page - 1) * filter.Limit
	where := `WHERE is_active = true
		AND ($1 = '' OR name ILIKE '%' || $1 || '%')
		AND ($2 = '' OR category_id = $2)`

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM products `+where, filter.Query, filter.Category).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s FROM products %s ORDER BY created_at DESC LIMIT $3 OFFSET $4`, productColumns, where)
	rows, err := r.db.Query(ctx, query, filter.Query, filter.Category, filter.Limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	for i := range products {
		if err := r.loadSizes(ctx, &products[i]); err != nil {
			return nil, 0, err
		}
	}
	return products, total, nil
}

func (r *PGProductRepository) FindByID(ctx context.Context, id string) (*models.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE id = $1`, productColumns)

	p, err := scanProduct(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := r.loadSizes(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *PGProductRepository) Create(ctx context.Context, product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.NewString()
	}
	normalizeStock(product)
	now := time.Now()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var categoryID *string
	if product.CategoryID != "" {
		categoryID = &product.CategoryID
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO products (id, name, description, price, stock, category_id, images, material,
			eco_friendly, rating, reviews, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		product.ID, product.Name, product.Description, product.Price, product.Stock, categoryID,
		product.Images, product.Material, product.EcoFriendly, product.Rating, product.Reviews,
		product.IsActive, now, now,
	)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	if err != nil {
		return err
	}

	for i, s := range product.SizeStock {
		if _, err := tx.Exec(ctx,
			`INSERT INTO product_sizes (product_id, size, stock, position) VALUES ($1, $2, $3, $4)`,
			product.ID, s.Size, s.Stock, i,
		); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}
	product.CreatedAt, product.UpdatedAt = now, now
	return nil
}

func (r *PGProductRepository) loadSizes(ctx context.Context, p *models.Product) error {
	rows, err := r.db.Query(ctx,
		`SELECT size, stock FROM product_sizes WHERE product_id = $1 ORDER BY position`, p.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	p.SizeStock = []models.SizeStock{}
	p.Sizes = []string{}
	for rows.Next() {
		var s models.SizeStock
		if err := rows.Scan(&s.Size, &s.Stock); err != nil {
			return err
		}
		p.SizeStock = append(p.SizeStock, s)
		p.Sizes = append(p.Sizes, s.Size)
	}
	return rows.Err()
}

func scanProduct(row pgx.Row) (*models.Product, error) {
	var p models.Product
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.CategoryID, &p.Images,
		&p.Material, &p.EcoFriendly, &p.Rating, &p.Reviews, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
