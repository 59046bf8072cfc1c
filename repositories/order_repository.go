package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"storefront/models"
)

type PGOrderRepository struct {
	db *pgxpool.Pool
}

func NewOrderRepository(db *pgxpool.Pool) *PGOrderRepository {
	return &PGOrderRepository{db: db}
}

func (r *PGOrderRepository) Create(ctx context.Context, order *models.Order) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	now := time.Now()
	for _, item := range order.Items {
		if err := decrementStockTx(ctx, tx, item, now); err != nil {
			return err
		}
	}

	shipping, err := json.Marshal(order.PaymentInfo.ShippingData)
	if err != nil {
		return err
	}

	order.ID = uuid.NewString()
	order.CreatedAt = now
	_, err = tx.Exec(ctx, `
		INSERT INTO orders (id, order_number, user_id, total, status, shipping_data, shipping_method, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		order.ID, order.OrderNumber, order.UserID, order.Total, order.Status, shipping,
		order.PaymentInfo.ShippingMethod, now,
	)
	if err != nil {
		return err
	}

	for _, item := range order.Items {
		if _, err := tx.Exec(ctx, `
			INSERT INTO order_items (order_id, product_id, name, price, quantity, size)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			order.ID, item.ProductID, item.Name, item.Price, item.Quantity, item.Size,
		); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// decrementStockTx locks the product (and size row, when tracked per size)
// before checking and decrementing stock.
func decrementStockTx(ctx context.Context, tx pgx.Tx, item models.OrderItem, now time.Time) error {
	var name string
	var stock int
	err := tx.QueryRow(ctx, `SELECT name, stock FROM products WHERE id = $1 FOR UPDATE`, item.ProductID).Scan(&name, &stock)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	var sized bool
	if err := tx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM product_sizes WHERE product_id = $1)`, item.ProductID,
	).Scan(&sized); err != nil {
		return err
	}

	if !sized {
		if stock < item.Quantity {
			return &StockShortage{ProductID: item.ProductID, Name: name, Size: item.Size, Available: stock}
		}
		_, err = tx.Exec(ctx, `UPDATE products SET stock = stock - $1, updated_at = $2 WHERE id = $3`,
			item.Quantity, now, item.ProductID)
		return err
	}

	var sizeStock int
	err = tx.QueryRow(ctx,
		`SELECT stock FROM product_sizes WHERE product_id = $1 AND size = $2 FOR UPDATE`,
		item.ProductID, item.Size,
	).Scan(&sizeStock)
	if errors.Is(err, pgx.ErrNoRows) {
		sizeStock = 0
	} else if err != nil {
		return err
	}
	if sizeStock < item.Quantity {
		return &StockShortage{ProductID: item.ProductID, Name: name, Size: item.Size, Available: sizeStock}
	}

	if _, err := tx.Exec(ctx,
		`UPDATE product_sizes SET stock = stock - $1 WHERE product_id = $2 AND size = $3`,
		item.Quantity, item.ProductID, item.Size,
	); err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `UPDATE products SET stock = stock - $1, updated_at = $2 WHERE id = $3`,
		item.Quantity, now, item.ProductID)
	return err
}

func (r *PGOrderRepository) FindByUser(ctx context.Context, userID string) ([]models.Order, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, order_number, user_id, total, status, shipping_data, shipping_method, created_at
		FROM orders WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		var o models.Order
		var shipping []byte
		if err := rows.Scan(&o.ID, &o.OrderNumber, &o.UserID, &o.Total, &o.Status, &shipping,
			&o.PaymentInfo.ShippingMethod, &o.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(shipping, &o.PaymentInfo.ShippingData); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range orders {
		items, err := r.items(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}
	return orders, nil
}

func (r *PGOrderRepository) items(ctx context.Context, orderID string) ([]models.OrderItem, error) {
	rows, err := r.db.Query(ctx,
		`SELECT product_id, name, price, quantity, size FROM order_items WHERE order_id = $1 ORDER BY id`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []models.OrderItem{}
	for rows.Next() {
		var it models.OrderItem
		if err := rows.Scan(&it.ProductID, &it.Name, &it.Price, &it.Quantity, &it.Size); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
