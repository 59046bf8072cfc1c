package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"storefront/models"
)

const productCacheTTL = 5 * time.Minute

// CachedProductRepository serves single-product reads from redis. Stock
// changes must call Invalidate so cart and checkout reads see fresh stock.
type CachedProductRepository struct {
	ProductRepository
	rdb *redis.Client
	log zerolog.Logger
}

func NewCachedProductRepository(next ProductRepository, rdb *redis.Client, log zerolog.Logger) *CachedProductRepository {
	return &CachedProductRepository{ProductRepository: next, rdb: rdb, log: log}
}

func getProductCacheKey(id string) string {
	return "product:" + id
}

func (r *CachedProductRepository) FindByID(ctx context.Context, id string) (*models.Product, error) {
	if raw, err := r.rdb.Get(ctx, getProductCacheKey(id)).Bytes(); err == nil {
		var p models.Product
		if err := json.Unmarshal(raw, &p); err == nil {
			return &p, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		r.log.Warn().Err(err).Str("product_id", id).Msg("product cache read failed")
	}

	p, err := r.ProductRepository.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(p); err == nil {
		if err := r.rdb.Set(ctx, getProductCacheKey(id), raw, productCacheTTL).Err(); err != nil {
			r.log.Warn().Err(err).Str("product_id", id).Msg("product cache write failed")
		}
	}
	return p, nil
}

func (r *CachedProductRepository) Create(ctx context.Context, product *models.Product) error {
	if err := r.ProductRepository.Create(ctx, product); err != nil {
		return err
	}
	r.Invalidate(ctx, product.ID)
	return nil
}

func (r *CachedProductRepository) Invalidate(ctx context.Context, ids ...string) {
	if len(ids) == 0 {
		return
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = getProductCacheKey(id)
	}
	if err := r.rdb.Del(ctx, keys...).Err(); err != nil {
		r.log.Warn().Err(err).Strs("keys", keys).Msg("product cache invalidation failed")
	}
}

// RedisDenylist records revoked token ids until the token would have expired.
type RedisDenylist struct {
	rdb *redis.Client
}

func NewRedisDenylist(rdb *redis.Client) *RedisDenylist {
	return &RedisDenylist{rdb: rdb}
}

func (d *RedisDenylist) Revoke(ctx context.Context, jti string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}
	return d.rdb.Set(ctx, "revoked:"+jti, 1, ttl).Err()
}

func (d *RedisDenylist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := d.rdb.Exists(ctx, "revoked:"+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
