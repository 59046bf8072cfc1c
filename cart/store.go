// Package cart keeps the client-side cart in sync with the storefront API.
//
// Quantity updates are applied optimistically: the local line changes first,
// the server is updated with a remove followed by an add, and the server
// result is mapped back onto the local display order. Every other mutation
// replaces the local cart with the server's.
package cart

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"storefront/client"
	"storefront/models"
)

// API is the part of the REST client the store needs.
type API interface {
	GetCart(ctx context.Context) ([]models.CartLine, error)
	AddToCart(ctx context.Context, productID string, quantity int, size string) ([]models.CartLine, error)
	RemoveFromCart(ctx context.Context, productID, size string) ([]models.CartLine, error)
	UpdateCartItemQuantity(ctx context.Context, productID string, quantity int, size string) ([]models.CartLine, error)
	ClearCart(ctx context.Context) ([]models.CartLine, error)
}

// SessionSource reports whether a user is signed in.
type SessionSource interface {
	Authenticated() bool
}

// Snapshot is a consistent copy of the store state.
type Snapshot struct {
	Lines   []models.CartLine
	Count   int
	Loading bool
	Err     error
}

type Listener func(Snapshot)

type Store struct {
	api     API
	session SessionSource
	log     zerolog.Logger
	guard   *lineGuard
	refresh singleflight.Group

	mu        sync.Mutex
	lines     []models.CartLine
	states    tracker
	inflight  int
	err       error
	// epoch changes with every session change. Results of calls started
	// under an older epoch are dropped.
	epoch     uint64
	listeners map[int]Listener
	nextID    int
}

type Option func(*Store)

func WithLogger(log zerolog.Logger) Option {
	return func(s *Store) { s.log = log }
}

func NewStore(api API, session SessionSource, opts ...Option) *Store {
	s := &Store{
		api:       api,
		session:   session,
		log:       zerolog.Nop(),
		guard:     newLineGuard(),
		lines:     []models.CartLine{},
		states:    tracker{},
		listeners: map[int]Listener{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) requireSession() error {
	if s.session == nil || !s.session.Authenticated() {
		return client.ErrNoSession
	}
	return nil
}

// AddItem adds quantity units of the product size. The server cart replaces
// the local one.
func (s *Store) AddItem(ctx context.Context, productID string, quantity int, size string) error {
	if err := s.requireSession(); err != nil {
		return err
	}
	if quantity < 1 {
		return &client.ValidationError{Field: "quantity", Message: "must be at least 1"}
	}

	epoch := s.begin()
	lines, err := s.api.AddToCart(ctx, productID, quantity, size)
	s.finish(epoch, lines, err, false)
	return err
}

// UpdateItemQuantity sets a line's quantity. Quantities below one remove
// the line. On failure the cart is re-fetched and the error returned.
func (s *Store) UpdateItemQuantity(ctx context.Context, productID string, quantity int, size string) error {
	if err := s.requireSession(); err != nil {
		return err
	}
	if quantity < 1 {
		return s.RemoveItem(ctx, productID, size)
	}

	key := models.LineKey{ProductID: productID, Size: size}
	release, err := s.guard.acquire(ctx, key)
	if err != nil {
		return fmt.Errorf("wait for cart line %s: %w", key, err)
	}
	defer release()

	s.mu.Lock()
	if i := indexOf(s.lines, key); i >= 0 {
		s.lines[i].Quantity = quantity
	}
	s.states.move(key, Pending)
	s.inflight++
	epoch := s.epoch
	s.publishLocked()

	lines, err := s.api.UpdateCartItemQuantity(ctx, productID, quantity, size)

	s.mu.Lock()
	if s.epoch != epoch {
		s.inflight--
		s.publishLocked()
		s.log.Debug().Str("line", key.String()).Msg("session changed during update, result dropped")
		return err
	}

	if err != nil {
		s.log.Warn().Err(err).Str("line", key.String()).Msg("quantity update failed, reverting")

		s.states.move(key, Reverted)
		s.inflight--
		s.err = err
		s.publishLocked()

		if ferr := s.RefreshCart(context.WithoutCancel(ctx)); ferr != nil {
			s.log.Error().Err(ferr).Msg("cart refetch after failed update")
		}

		s.mu.Lock()
		if s.epoch != epoch {
			s.mu.Unlock()
			return err
		}
		s.states.move(key, Stable)
		// The refetch clears err on success; the update itself still failed.
		s.err = err
		s.publishLocked()
		return err
	}

	s.lines = reconcile(s.lines, lines)
	s.states.move(key, Reconciled)
	s.inflight--
	s.err = nil
	s.publishLocked()

	s.mu.Lock()
	if s.epoch == epoch {
		s.states.move(key, Stable)
	}
	s.publishLocked()
	return nil
}

// RemoveItem deletes a line. Removing an absent line is not an error.
func (s *Store) RemoveItem(ctx context.Context, productID, size string) error {
	if err := s.requireSession(); err != nil {
		return err
	}

	key := models.LineKey{ProductID: productID, Size: size}
	release, err := s.guard.acquire(ctx, key)
	if err != nil {
		return fmt.Errorf("wait for cart line %s: %w", key, err)
	}
	defer release()

	epoch := s.begin()
	lines, err := s.api.RemoveFromCart(ctx, productID, size)
	s.finish(epoch, lines, err, false)
	return err
}

func (s *Store) ClearCartItems(ctx context.Context) error {
	if err := s.requireSession(); err != nil {
		return err
	}

	epoch := s.begin()
	lines, err := s.api.ClearCart(ctx)
	s.finish(epoch, lines, err, false)
	return err
}

// RefreshCart replaces the local cart with the server's. Concurrent calls
// within one session share one request, which is not cancelled when a
// single caller gives up. A failed fetch leaves the cart empty.
func (s *Store) RefreshCart(ctx context.Context) error {
	if err := s.requireSession(); err != nil {
		return err
	}

	s.mu.Lock()
	key := fmt.Sprintf("cart-%d", s.epoch)
	s.mu.Unlock()

	fetchCtx := context.WithoutCancel(ctx)
	ch := s.refresh.DoChan(key, func() (any, error) {
		epoch := s.begin()
		lines, err := s.api.GetCart(fetchCtx)
		s.finish(epoch, lines, err, true)
		return nil, err
	})

	select {
	case <-ctx.Done():
		return ctx.Err()
	case res := <-ch:
		return res.Err
	}
}

// OnSessionChange empties the cart and, for a new session, loads it. Calls
// still in flight from the previous session no longer touch the cart.
func (s *Store) OnSessionChange(ctx context.Context, sess *models.Session) error {
	s.mu.Lock()
	s.epoch++
	s.lines = []models.CartLine{}
	s.states = tracker{}
	s.err = nil
	s.publishLocked()

	if sess == nil {
		return nil
	}
	return s.RefreshCart(ctx)
}

func (s *Store) Lines() []models.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.CloneLines(s.lines)
}

// Count is the total quantity across lines.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.CountItems(s.lines)
}

func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inflight > 0
}

// Err is the error of the last failed operation, cleared by the next success.
func (s *Store) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *Store) LineState(productID, size string) LineState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.states.get(models.LineKey{ProductID: productID, Size: size})
}

// Line returns the line for the product size, if present.
func (s *Store) Line(productID, size string) (models.CartLine, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexOf(s.lines, models.LineKey{ProductID: productID, Size: size})
	if i < 0 {
		return models.CartLine{}, false
	}
	return s.lines[i], true
}

func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Subscribe registers fn for state changes and returns its cancel func.
// Listeners run outside the store lock and may call back into the store.
func (s *Store) Subscribe(fn Listener) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// begin marks a call in flight and returns the epoch it runs under.
func (s *Store) begin() uint64 {
	s.mu.Lock()
	s.inflight++
	epoch := s.epoch
	s.publishLocked()
	return epoch
}

// finish applies a server cart. Failures keep the local cart unless
// emptyOnError is set. Results from an earlier epoch are dropped.
func (s *Store) finish(epoch uint64, lines []models.CartLine, err error, emptyOnError bool) {
	s.mu.Lock()
	s.inflight--
	switch {
	case s.epoch != epoch:
	case err == nil:
		s.lines = models.CloneLines(lines)
		s.err = nil
	case emptyOnError:
		s.lines = []models.CartLine{}
		s.err = err
	default:
		s.err = err
	}
	s.publishLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{
		Lines:   models.CloneLines(s.lines),
		Count:   models.CountItems(s.lines),
		Loading: s.inflight > 0,
		Err:     s.err,
	}
}

// publishLocked must be called with s.mu held; it unlocks before notifying.
func (s *Store) publishLocked() {
	snap := s.snapshotLocked()
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	for _, l := range listeners {
		l(snap)
	}
}

func indexOf(lines []models.CartLine, key models.LineKey) int {
	for i, l := range lines {
		if l.Key() == key {
			return i
		}
	}
	return -1
}

// reconcile lays the server lines over the local order. Local lines the
// server did not return are kept; lines only the server has are appended.
func reconcile(local, server []models.CartLine) []models.CartLine {
	byKey := make(map[models.LineKey]models.CartLine, len(server))
	for _, l := range server {
		byKey[l.Key()] = l
	}

	out := make([]models.CartLine, 0, len(local)+len(server))
	placed := make(map[models.LineKey]bool, len(server))
	for _, l := range local {
		sl, ok := byKey[l.Key()]
		if !ok {
			out = append(out, l)
			continue
		}
		if sl.Product.Product == nil && l.Product.Product != nil {
			sl.Product = l.Product
		}
		out = append(out, sl)
		placed[l.Key()] = true
	}
	for _, l := range server {
		if !placed[l.Key()] {
			out = append(out, l)
			placed[l.Key()] = true
		}
	}
	return out
}
