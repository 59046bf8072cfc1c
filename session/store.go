// Package session holds the signed-in identity of the storefront client.
package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"storefront/client"
	"storefront/models"
	"storefront/utils"
)

// API is the part of the REST client the store needs.
type API interface {
	Login(ctx context.Context, email, password string) (*models.AuthResponse, error)
	Register(ctx context.Context, name, email, password string) (*models.AuthResponse, error)
	Logout(ctx context.Context) error
}

// Listener receives the new session, or nil after sign-out.
type Listener func(*models.Session)

type Store struct {
	api     API
	storage Storage
	log     zerolog.Logger
	now     func() time.Time

	mu        sync.RWMutex
	current   *models.Session
	listeners map[int]Listener
	nextID    int
}

type Option func(*Store)

func WithLogger(log zerolog.Logger) Option {
	return func(s *Store) { s.log = log }
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func NewStore(api API, storage Storage, opts ...Option) *Store {
	if storage == nil {
		storage = NewMemoryStorage()
	}
	s := &Store{
		api:       api,
		storage:   storage,
		log:       zerolog.Nop(),
		now:       time.Now,
		listeners: map[int]Listener{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Login fails with *client.AuthenticationError. Transport failures are
// wrapped inside it.
func (s *Store) Login(ctx context.Context, email, password string) (*models.Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, &client.AuthenticationError{Message: "email and password are required"}
	}

	resp, err := s.api.Login(ctx, email, password)
	if err != nil {
		var authErr *client.AuthenticationError
		if errors.As(err, &authErr) {
			return nil, err
		}
		return nil, &client.AuthenticationError{Message: "login failed", Err: err}
	}
	return s.establish(ctx, resp), nil
}

func (s *Store) Register(ctx context.Context, name, email, password string) (*models.Session, error) {
	name, email = strings.TrimSpace(name), strings.TrimSpace(email)
	switch {
	case name == "":
		return nil, &client.ValidationError{Field: "name", Message: "is required"}
	case email == "":
		return nil, &client.ValidationError{Field: "email", Message: "is required"}
	case password == "":
		return nil, &client.ValidationError{Field: "password", Message: "is required"}
	}

	resp, err := s.api.Register(ctx, name, email, password)
	if err != nil {
		return nil, err
	}
	return s.establish(ctx, resp), nil
}

// Logout always ends the local session. The server call only revokes the token.
func (s *Store) Logout(ctx context.Context) {
	if s.Authenticated() {
		if err := s.api.Logout(ctx); err != nil {
			s.log.Warn().Err(err).Msg("remote logout failed")
		}
	}
	s.clear(ctx)
}

// Expire drops the session after the server rejected its token.
func (s *Store) Expire() {
	s.clear(context.Background())
}

// Restore loads the persisted session. Tokens past their exp claim are discarded.
func (s *Store) Restore(ctx context.Context) error {
	stored, err := s.storage.Load(ctx)
	if err != nil {
		return err
	}
	if stored == nil {
		return nil
	}

	exp, err := utils.TokenExpiry(stored.Token)
	if err != nil || (!exp.IsZero() && !s.now().Before(exp)) {
		s.log.Info().Msg("stored session expired")
		return s.storage.Clear(ctx)
	}

	s.set(stored)
	return nil
}

func (s *Store) Current() *models.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	out := *s.current
	return &out
}

func (s *Store) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current != nil
}

// Token satisfies client.TokenSource.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return ""
	}
	return s.current.Token
}

// Subscribe registers fn for session changes and returns its cancel func.
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

func (s *Store) establish(ctx context.Context, resp *models.AuthResponse) *models.Session {
	sess := &models.Session{Token: resp.Token, User: resp.User}
	if err := s.storage.Save(ctx, *sess); err != nil {
		s.log.Warn().Err(err).Msg("failed to persist session")
	}
	s.set(sess)
	return s.Current()
}

func (s *Store) set(sess *models.Session) {
	s.mu.Lock()
	s.current = sess
	listeners := s.snapshotListeners()
	s.mu.Unlock()

	s.notify(listeners, sess)
}

func (s *Store) clear(ctx context.Context) {
	if err := s.storage.Clear(ctx); err != nil {
		s.log.Warn().Err(err).Msg("failed to clear stored session")
	}

	s.mu.Lock()
	if s.current == nil {
		s.mu.Unlock()
		return
	}
	s.current = nil
	listeners := s.snapshotListeners()
	s.mu.Unlock()

	s.notify(listeners, nil)
}

func (s *Store) snapshotListeners() []Listener {
	out := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		out = append(out, l)
	}
	return out
}

func (s *Store) notify(listeners []Listener, sess *models.Session) {
	for _, l := range listeners {
		if sess == nil {
			l(nil)
			continue
		}
		c := *sess
		l(&c)
	}
}
