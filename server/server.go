// Package server assembles the reference REST backend.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"storefront/config"
	"storefront/middleware"
	"storefront/repositories"
	"storefront/routes"
	"storefront/services"
	"storefront/utils"
)

type Options struct {
	Store *repositories.Store
	// Redis enables the product read cache and the shared token denylist.
	Redis     *redis.Client
	Tokens    *utils.TokenIssuer
	Hasher    *utils.PasswordHasher
	OriginURL string
	Logger    zerolog.Logger
}

func NewRouter(opts Options) *gin.Engine {
	products := opts.Store.Products
	var invalidator services.ProductInvalidator
	var denylist services.Denylist = repositories.NewMemoryDenylist()
	if opts.Redis != nil {
		cached := repositories.NewCachedProductRepository(products, opts.Redis, opts.Logger)
		products = cached
		invalidator = cached
		denylist = repositories.NewRedisDenylist(opts.Redis)
	}

	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.Logger(opts.Logger),
		middleware.CORSMiddleware(opts.OriginURL),
	)

	routes.SetupRoutes(router, routes.Services{
		Auth:     services.NewAuthService(opts.Store.Users, opts.Tokens, opts.Hasher, denylist),
		Products: services.NewProductService(products),
		Carts:    services.NewCartService(opts.Store.Carts, products),
		Orders:   services.NewOrderService(opts.Store.Orders, products, invalidator),
		Reviews:  services.NewReviewService(opts.Store.Reviews, opts.Store.Users),
	})
	return router
}

// Backend owns the connections behind a running API.
type Backend struct {
	cfg    *config.Config
	log    zerolog.Logger
	pool   *pgxpool.Pool
	rdb    *redis.Client
	router *gin.Engine
}

// Open connects the configured store. The memory driver starts with demo data.
func Open(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Backend, error) {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	b := &Backend{cfg: cfg, log: log}

	var store *repositories.Store
	hasher := utils.NewPasswordHasher()
	switch cfg.StoreDriver {
	case config.StoreDriverMemory:
		hasher = utils.FastPasswordHasher()
		store = repositories.NewMemoryStore()
		if err := repositories.SeedDemo(ctx, store, hasher.HashPassword); err != nil {
			return nil, err
		}
		log.Info().
			Str("admin", repositories.DemoAdminEmail).
			Str("customer", repositories.DemoCustomerEmail).
			Msg("memory store seeded with demo data")
	default:
		pool, err := config.ConnectDB(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if err := config.RunMigrations(pool); err != nil {
			pool.Close()
			return nil, err
		}
		b.pool = pool
		store = repositories.NewPostgresStore(pool)
		log.Info().Msg("database connected successfully")
	}

	rdb, err := config.ConnectRedis(ctx, cfg)
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, running without cache")
	}
	b.rdb = rdb

	b.router = NewRouter(Options{
		Store:     store,
		Redis:     rdb,
		Tokens:    utils.NewTokenIssuer(cfg.JWTSecret, cfg.JWTExpiry),
		Hasher:    hasher,
		OriginURL: cfg.OriginURL,
		Logger:    log,
	})
	return b, nil
}

func (b *Backend) Handler() http.Handler {
	return b.router
}

// Serve blocks until ctx is cancelled, then drains in-flight requests.
func (b *Backend) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + b.cfg.Port,
		Handler:           b.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		b.log.Info().
			Str("addr", srv.Addr).
			Str("env", b.cfg.AppEnv).
			Str("swagger", fmt.Sprintf("http://localhost:%s/swagger/index.html", b.cfg.Port)).
			Msg("server starting")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	b.log.Info().Msg("server stopped")
	return nil
}

func (b *Backend) Close() {
	if b.rdb != nil {
		b.rdb.Close()
	}
	if b.pool != nil {
		b.pool.Close()
		b.log.Info().Msg("database connection closed")
	}
}
