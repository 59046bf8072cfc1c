package repositories

import (
	"context"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"storefront/models"
)

type memoryDB struct {
	mu         sync.RWMutex
	users      map[string]models.User
	emails     map[string]string
	categories []models.Category
	products   map[string]models.Product
	productIDs []string
	carts      map[string][]models.CartRow
	orders     []models.Order
	reviews    []models.Review
}

// NewMemoryStore returns a Store kept entirely in process memory.
func NewMemoryStore() *Store {
	db := &memoryDB{
		users:    map[string]models.User{},
		emails:   map[string]string{},
		products: map[string]models.Product{},
		carts:    map[string][]models.CartRow{},
	}
	return &Store{
		Users:    &memoryUsers{db},
		Products: &memoryProducts{db},
		Carts:    &memoryCarts{db},
		Orders:   &memoryOrders{db},
		Reviews:  &memoryReviews{db},
	}
}

type memoryUsers struct{ db *memoryDB }

func (r *memoryUsers) Create(ctx context.Context, user *models.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	email := strings.ToLower(user.Email)
	if _, ok := r.db.emails[email]; ok {
		return ErrDuplicate
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now()
	user.CreatedAt, user.UpdatedAt = now, now
	r.db.users[user.ID] = *user
	r.db.emails[email] = user.ID
	return nil
}

func (r *memoryUsers) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	id, ok := r.db.emails[strings.ToLower(email)]
	if !ok {
		return nil, ErrNotFound
	}
	u := r.db.users[id]
	return &u, nil
}

func (r *memoryUsers) FindByID(ctx context.Context, id string) (*models.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	u, ok := r.db.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

type memoryProducts struct{ db *memoryDB }

func (r *memoryProducts) ListCategories(ctx context.Context) ([]models.Category, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	out := make([]models.Category, len(r.db.categories))
	copy(out, r.db.categories)
	return out, nil
}

func (r *memoryProducts) CreateCategory(ctx context.Context, category *models.Category) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if category.ID == "" {
		category.ID = uuid.NewString()
	}
	category.CreatedAt = time.Now()
	r.db.categories = append(r.db.categories, *category)
	return nil
}

func (r *memoryProducts) List(ctx context.Context, filter models.ProductFilter) ([]models.Product, int, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	q := strings.ToLower(filter.Query)
	matched := []models.Product{}
	for _, id := range r.db.productIDs {
		p := r.db.products[id]
		if !p.IsActive {
			continue
		}
		if filter.Category != "" && p.CategoryID != filter.Category {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(p.Name), q) {
			continue
		}
		matched = append(matched, cloneProduct(p))
	}

	total := len(matched)
	start := (filter.Page - 1) * filter.Limit
	if start >= total {
		return []models.Product{}, total, nil
	}
	end := int(math.Min(float64(start+filter.Limit), float64(total)))
	return matched[start:end], total, nil
}

func (r *memoryProducts) FindByID(ctx context.Context, id string) (*models.Product, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	p, ok := r.db.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	p = cloneProduct(p)
	return &p, nil
}

func (r *memoryProducts) Create(ctx context.Context, product *models.Product) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if product.ID == "" {
		product.ID = uuid.NewString()
	}
	if _, ok := r.db.products[product.ID]; ok {
		return ErrDuplicate
	}
	now := time.Now()
	product.CreatedAt, product.UpdatedAt = now, now
	normalizeStock(product)
	r.db.products[product.ID] = cloneProduct(*product)
	r.db.productIDs = append(r.db.productIDs, product.ID)
	return nil
}

type memoryCarts struct{ db *memoryDB }

func (r *memoryCarts) Rows(ctx context.Context, userID string) ([]models.CartRow, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	rows := r.db.carts[userID]
	out := make([]models.CartRow, len(rows))
	copy(out, rows)
	return out, nil
}

func (r *memoryCarts) Find(ctx context.Context, userID, productID, size string) (*models.CartRow, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	for _, row := range r.db.carts[userID] {
		if row.ProductID == productID && row.Size == size {
			return &row, nil
		}
	}
	return nil, ErrNotFound
}

func (r *memoryCarts) Save(ctx context.Context, row models.CartRow) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	rows := r.db.carts[row.UserID]
	for i := range rows {
		if rows[i].ProductID == row.ProductID && rows[i].Size == row.Size {
			rows[i].Quantity = row.Quantity
			return nil
		}
	}
	r.db.carts[row.UserID] = append(rows, row)
	return nil
}

func (r *memoryCarts) Delete(ctx context.Context, userID, productID, size string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	rows := r.db.carts[userID]
	kept := rows[:0]
	for _, row := range rows {
		if row.ProductID == productID && row.Size == size {
			continue
		}
		kept = append(kept, row)
	}
	r.db.carts[userID] = kept
	return nil
}

func (r *memoryCarts) Clear(ctx context.Context, userID string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	delete(r.db.carts, userID)
	return nil
}

type memoryOrders struct{ db *memoryDB }

func (r *memoryOrders) Create(ctx context.Context, order *models.Order) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, item := range order.Items {
		p, ok := r.db.products[item.ProductID]
		if !ok {
			return ErrNotFound
		}
		if available := p.AvailableStock(item.Size); available < item.Quantity {
			return &StockShortage{ProductID: p.ID, Name: p.Name, Size: item.Size, Available: available}
		}
	}

	for _, item := range order.Items {
		p := cloneProduct(r.db.products[item.ProductID])
		decrementStock(&p, item.Size, item.Quantity)
		p.UpdatedAt = time.Now()
		r.db.products[p.ID] = p
	}

	order.ID = uuid.NewString()
	order.CreatedAt = time.Now()
	r.db.orders = append(r.db.orders, *order)
	return nil
}

func (r *memoryOrders) FindByUser(ctx context.Context, userID string) ([]models.Order, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	out := []models.Order{}
	for _, o := range r.db.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

type memoryReviews struct{ db *memoryDB }

func (r *memoryReviews) List(ctx context.Context, limit int) ([]models.Review, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	out := []models.Review{}
	for i := len(r.db.reviews) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.db.reviews[i])
	}
	return out, nil
}

func (r *memoryReviews) Create(ctx context.Context, review *models.Review) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	review.ID = uuid.NewString()
	review.CreatedAt = time.Now()
	r.db.reviews = append(r.db.reviews, *review)
	return nil
}

func (r *memoryReviews) UpdateStatus(ctx context.Context, id, status string, verified bool) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for i := range r.db.reviews {
		if r.db.reviews[i].ID == id {
			r.db.reviews[i].Status = status
			r.db.reviews[i].Verified = verified
			return nil
		}
	}
	return ErrNotFound
}

func cloneProduct(p models.Product) models.Product {
	p.SizeStock = append([]models.SizeStock(nil), p.SizeStock...)
	p.Sizes = append([]string(nil), p.Sizes...)
	p.Images = append([]string(nil), p.Images...)
	return p
}

// normalizeStock keeps Sizes and the aggregate Stock consistent with SizeStock.
func normalizeStock(p *models.Product) {
	if len(p.SizeStock) == 0 {
		return
	}
	p.Sizes = make([]string, 0, len(p.SizeStock))
	total := 0
	for _, s := range p.SizeStock {
		p.Sizes = append(p.Sizes, s.Size)
		total += s.Stock
	}
	p.Stock = total
}

func decrementStock(p *models.Product, size string, qty int) {
	if len(p.SizeStock) == 0 {
		p.Stock -= qty
		return
	}
	for i := range p.SizeStock {
		if p.SizeStock[i].Size == size {
			p.SizeStock[i].Stock -= qty
		}
	}
	normalizeStock(p)
}

// MemoryDenylist is the in-process counterpart of RedisDenylist.
type MemoryDenylist struct {
	mu      sync.Mutex
	revoked map[string]time.Time
}

func NewMemoryDenylist() *MemoryDenylist {
	return &MemoryDenylist{revoked: map[string]time.Time{}}
}

func (d *MemoryDenylist) Revoke(ctx context.Context, jti string, until time.Time) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.revoked[jti] = until
	return nil
}

func (d *MemoryDenylist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	until, ok := d.revoked[jti]
	if !ok {
		return false, nil
	}
	if time.Now().After(until) {
		delete(d.revoked, jti)
		return false, nil
	}
	return true, nil
}
