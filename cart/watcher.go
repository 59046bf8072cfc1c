package cart

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"storefront/models"
)

const DefaultStockCheckDelay = 800 * time.Millisecond

// ProductFetcher loads a product with its current stock.
type ProductFetcher interface {
	GetProduct(ctx context.Context, id string) (*models.Product, error)
}

// Shortage is a cart line asking for more units than are in stock.
type Shortage struct {
	ProductID string
	Name      string
	Size      string
	Requested int
	Available int

	store *Store
}

// ShortageFor reports whether line asks for more of p than is in stock.
func (s *Store) ShortageFor(line models.CartLine, p *models.Product) (Shortage, bool) {
	sh := Shortage{
		ProductID: line.Product.ID,
		Name:      p.Name,
		Size:      line.Size,
		Requested: line.Quantity,
		Available: p.AvailableStock(line.Size),
		store:     s,
	}
	return sh, sh.Requested > sh.Available
}

// Resolve clamps the line to the available stock, or removes it when
// nothing is left.
func (s Shortage) Resolve(ctx context.Context) error {
	if s.Available <= 0 {
		return s.store.RemoveItem(ctx, s.ProductID, s.Size)
	}
	return s.store.UpdateItemQuantity(ctx, s.ProductID, s.Available, s.Size)
}

// StockWatcher re-checks stock shortly after quantity changes. A newer
// change on the same line replaces the pending check.
type StockWatcher struct {
	store      *Store
	products   ProductFetcher
	delay      time.Duration
	onShortage func(Shortage)
	log        zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	timers  map[models.LineKey]*time.Timer
	gen     map[models.LineKey]uint64
	stopped bool
}

type WatcherOption func(*StockWatcher)

func WithDelay(d time.Duration) WatcherOption {
	return func(w *StockWatcher) {
		if d > 0 {
			w.delay = d
		}
	}
}

func WithWatcherLogger(log zerolog.Logger) WatcherOption {
	return func(w *StockWatcher) { w.log = log }
}

// OnShortage sets the callback for detected shortages. Without one,
// shortages are only logged.
func OnShortage(fn func(Shortage)) WatcherOption {
	return func(w *StockWatcher) { w.onShortage = fn }
}

func NewStockWatcher(store *Store, products ProductFetcher, opts ...WatcherOption) *StockWatcher {
	ctx, cancel := context.WithCancel(context.Background())
	w := &StockWatcher{
		store:    store,
		products: products,
		delay:    DefaultStockCheckDelay,
		log:      zerolog.Nop(),
		ctx:      ctx,
		cancel:   cancel,
		timers:   map[models.LineKey]*time.Timer{},
		gen:      map[models.LineKey]uint64{},
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// UpdateQuantity updates the line through the store and schedules a stock
// check when the update succeeded.
func (w *StockWatcher) UpdateQuantity(ctx context.Context, productID string, quantity int, size string) error {
	if err := w.store.UpdateItemQuantity(ctx, productID, quantity, size); err != nil {
		return err
	}

	key := models.LineKey{ProductID: productID, Size: size}
	if quantity < 1 {
		w.cancelCheck(key)
		return nil
	}
	w.schedule(key)
	return nil
}

func (w *StockWatcher) schedule(key models.LineKey) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}

	if t, ok := w.timers[key]; ok {
		t.Stop()
	}
	w.gen[key]++
	gen := w.gen[key]
	w.timers[key] = time.AfterFunc(w.delay, func() { w.fire(key, gen) })
}

func (w *StockWatcher) cancelCheck(key models.LineKey) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.timers[key]; ok {
		t.Stop()
		delete(w.timers, key)
	}
	w.gen[key]++
}

func (w *StockWatcher) fire(key models.LineKey, gen uint64) {
	w.mu.Lock()
	if w.stopped || w.gen[key] != gen {
		w.mu.Unlock()
		return
	}
	delete(w.timers, key)
	w.mu.Unlock()

	ctx, cancel := context.WithTimeout(w.ctx, 10*time.Second)
	defer cancel()
	w.check(ctx, key)
}

// Flush runs every scheduled check now, in the calling goroutine.
func (w *StockWatcher) Flush(ctx context.Context) {
	w.mu.Lock()
	keys := make([]models.LineKey, 0, len(w.timers))
	for key, t := range w.timers {
		t.Stop()
		delete(w.timers, key)
		w.gen[key]++
		keys = append(keys, key)
	}
	w.mu.Unlock()

	for _, key := range keys {
		w.check(ctx, key)
	}
}

func (w *StockWatcher) check(ctx context.Context, key models.LineKey) {
	line, ok := w.store.Line(key.ProductID, key.Size)
	if !ok {
		return
	}

	p, err := w.products.GetProduct(ctx, key.ProductID)
	if err != nil {
		w.log.Warn().Err(err).Str("line", key.String()).Msg("stock check failed")
		return
	}

	shortage, short := w.store.ShortageFor(line, p)
	if !short {
		return
	}

	w.log.Info().
		Str("line", key.String()).
		Int("requested", shortage.Requested).
		Int("available", shortage.Available).
		Msg("stock shortage")
	if w.onShortage != nil {
		w.onShortage(shortage)
	}
}

// Pending reports how many checks are scheduled.
func (w *StockWatcher) Pending() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.timers)
}

// Stop cancels scheduled checks and aborts running ones.
func (w *StockWatcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}
	w.stopped = true
	for key, t := range w.timers {
		t.Stop()
		delete(w.timers, key)
	}
	w.cancel()
}
