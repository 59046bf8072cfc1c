package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"storefront/models"
)

type PGReviewRepository struct {
	db *pgxpool.Pool
}

func NewReviewRepository(db *pgxpool.Pool) *PGReviewRepository {
	return &PGReviewRepository{db: db}
}

func (r *PGReviewRepository) List(ctx context.Context, limit int) ([]models.Review, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, COALESCE(user_id, ''), author, title, content, rating, status, verified, created_at
		FROM reviews ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reviews := []models.Review{}
	for rows.Next() {
		var rv models.Review
		if err := rows.Scan(&rv.ID, &rv.UserID, &rv.Author, &rv.Title, &rv.Content, &rv.Rating,
			&rv.Status, &rv.Verified, &rv.CreatedAt); err != nil {
			return nil, err
		}
		reviews = append(reviews, rv)
	}
	return reviews, rows.Err()
}

func (r *PGReviewRepository) Create(ctx context.Context, review *models.Review) error {
	review.ID = uuid.NewString()
	review.CreatedAt = time.Now()
	var userID *string
	if review.UserID != "" {
		userID = &review.UserID
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO reviews (id, user_id, author, title, content, rating, status, verified, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		review.ID, userID, review.Author, review.Title, review.Content, review.Rating,
		review.Status, review.Verified, review.CreatedAt,
	)
	return err
}

func (r *PGReviewRepository) UpdateStatus(ctx context.Context, id, status string, verified bool) error {
	tag, err := r.db.Exec(ctx, `UPDATE reviews SET status = $1, verified = $2 WHERE id = $3`, status, verified, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// NewPostgresStore wires every repository to the same pool.
func NewPostgresStore(db *pgxpool.Pool) *Store {
	return &Store{
		Users:    NewUserRepository(db),
		Products: NewProductRepository(db),
		Carts:    NewCartRepository(db),
		Orders:   NewOrderRepository(db),
		Reviews:  NewReviewRepository(db),
	}
}
