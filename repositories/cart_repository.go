package repositories

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"storefront/models"
)

type PGCartRepository struct {
	db *pgxpool.Pool
}

func NewCartRepository(db *pgxpool.Pool) *PGCartRepository {
	return &PGCartRepository{db: db}
}

func (r *PGCartRepository) Rows(ctx context.Context, userID string) ([]models.CartRow, error) {
	rows, err := r.db.Query(ctx,
		`SELECT user_id, product_id, size, quantity FROM cart_items WHERE user_id = $1 ORDER BY id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.CartRow{}
	for rows.Next() {
		var row models.CartRow
		if err := rows.Scan(&row.UserID, &row.ProductID, &row.Size, &row.Quantity); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *PGCartRepository) Find(ctx context.Context, userID, productID, size string) (*models.CartRow, error) {
	var row models.CartRow
	err := r.db.QueryRow(ctx,
		`SELECT user_id, product_id, size, quantity FROM cart_items WHERE user_id = $1 AND product_id = $2 AND size = $3`,
		userID, productID, size,
	).Scan(&row.UserID, &row.ProductID, &row.Size, &row.Quantity)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *PGCartRepository) Save(ctx context.Context, row models.CartRow) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO cart_items (user_id, product_id, size, quantity)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, product_id, size)
		DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = now()`,
		row.UserID, row.ProductID, row.Size, row.Quantity,
	)
	return err
}

func (r *PGCartRepository) Delete(ctx context.Context, userID, productID, size string) error {
	_, err := r.db.Exec(ctx,
		`DELETE FROM cart_items WHERE user_id = $1 AND product_id = $2 AND size = $3`, userID, productID, size)
	return err
}

func (r *PGCartRepository) Clear(ctx context.Context, userID string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1`, userID)
	return err
}
