// Package app wires the storefront client components together.
package app

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"storefront/cart"
	"storefront/checkout"
	"storefront/client"
	"storefront/config"
	"storefront/models"
	"storefront/reviews"
	"storefront/session"
)

type Options struct {
	BaseURL string
	Timeout time.Duration
	// HTTPClient overrides the transport, mainly for tests.
	HTTPClient      *http.Client
	Storage         session.Storage
	StockCheckDelay time.Duration
	ReviewInterval  time.Duration
	OnShortage      func(cart.Shortage)
	Logger          zerolog.Logger
}

// App owns one signed-in client: the session, its cart and the helpers
// built on top of them.
type App struct {
	Client   *client.Client
	Session  *session.Store
	Cart     *cart.Store
	Stock    *cart.StockWatcher
	Checkout *checkout.Service
	Reviews  *reviews.Poller

	storage session.Storage
	log     zerolog.Logger
	ctx     context.Context
	cancel  context.CancelFunc
	unsub   func()
}

func New(opts Options) *App {
	log := opts.Logger

	clientOpts := []client.Option{client.WithLogger(log)}
	if opts.HTTPClient != nil {
		clientOpts = append(clientOpts, client.WithHTTPClient(opts.HTTPClient))
	}
	clientOpts = append(clientOpts, client.WithTimeout(opts.Timeout))
	api := client.New(opts.BaseURL, clientOpts...)

	storage := opts.Storage
	if storage == nil {
		storage = session.NewMemoryStorage()
	}
	sess := session.NewStore(api, storage, session.WithLogger(log))
	api.SetTokenSource(sess)
	api.OnUnauthorized(sess.Expire)

	store := cart.NewStore(api, sess, cart.WithLogger(log))

	watcherOpts := []cart.WatcherOption{cart.WithDelay(opts.StockCheckDelay), cart.WithWatcherLogger(log)}
	if opts.OnShortage != nil {
		watcherOpts = append(watcherOpts, cart.OnShortage(opts.OnShortage))
	}

	ctx, cancel := context.WithCancel(context.Background())
	a := &App{
		Client:   api,
		Session:  sess,
		Cart:     store,
		Stock:    cart.NewStockWatcher(store, api, watcherOpts...),
		Checkout: checkout.NewService(api, store, sess, checkout.WithLogger(log)),
		Reviews:  reviews.NewPoller(api, sess, reviews.WithInterval(opts.ReviewInterval), reviews.WithLogger(log)),
		storage:  storage,
		log:      log,
		ctx:      ctx,
		cancel:   cancel,
	}

	a.unsub = sess.Subscribe(func(s *models.Session) {
		if err := store.OnSessionChange(a.ctx, s); err != nil {
			log.Warn().Err(err).Msg("cart refresh after session change failed")
		}
	})
	return a
}

// OptionsFromConfig opens the configured SQLite session file and fills the
// remaining options from cfg.
func OptionsFromConfig(cfg *config.Config, log zerolog.Logger) (Options, error) {
	storage, err := session.OpenSQLite(cfg.SessionDB)
	if err != nil {
		return Options{}, fmt.Errorf("open session store: %w", err)
	}
	return Options{
		BaseURL:         cfg.APIBaseURL,
		Timeout:         cfg.APITimeout,
		Storage:         storage,
		StockCheckDelay: cfg.StockCheckDelay,
		ReviewInterval:  cfg.ReviewPollInterval,
		Logger:          log,
	}, nil
}

// Start restores the persisted session, which loads its cart.
func (a *App) Start(ctx context.Context) error {
	if err := a.Session.Restore(ctx); err != nil {
		return fmt.Errorf("restore session: %w", err)
	}
	if a.Session.Authenticated() {
		a.log.Debug().Str("user", a.Session.Current().User.Email).Msg("session restored")
	}
	return nil
}

func (a *App) Close() error {
	a.Stock.Stop()
	a.unsub()
	a.cancel()
	if c, ok := a.storage.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
