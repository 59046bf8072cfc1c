// Package reviews polls the published store reviews and submits new ones.
package reviews

import (
	"context"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"storefront/client"
	"storefront/models"
)

const (
	DefaultInterval = 10 * time.Second
	fetchLimit      = 50
)

type API interface {
	GetReviews(ctx context.Context, limit int) ([]models.Review, error)
	CreateReview(ctx context.Context, req models.CreateReviewRequest) (string, error)
}

type SessionSource interface {
	Authenticated() bool
}

type Poller struct {
	api      API
	session  SessionSource
	interval time.Duration
	log      zerolog.Logger

	mu        sync.RWMutex
	reviews   []models.Review
	fetched   time.Time
	listeners map[int]func([]models.Review)
	nextID    int
}

type Option func(*Poller)

func WithInterval(d time.Duration) Option {
	return func(p *Poller) {
		if d > 0 {
			p.interval = d
		}
	}
}

func WithLogger(log zerolog.Logger) Option {
	return func(p *Poller) { p.log = log }
}

func NewPoller(api API, session SessionSource, opts ...Option) *Poller {
	p := &Poller{
		api:       api,
		session:   session,
		interval:  DefaultInterval,
		log:       zerolog.Nop(),
		reviews:   []models.Review{},
		listeners: map[int]func([]models.Review){},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run fetches immediately and then on every tick until ctx is done.
func (p *Poller) Run(ctx context.Context) {
	p.Refresh(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.Refresh(ctx)
		}
	}
}

// Refresh runs one fetch. A failed fetch keeps the previous list.
func (p *Poller) Refresh(ctx context.Context) {
	all, err := p.api.GetReviews(ctx, fetchLimit)
	if err != nil {
		if ctx.Err() == nil {
			p.log.Warn().Err(err).Msg("review poll failed")
		}
		return
	}

	visible := make([]models.Review, 0, len(all))
	for _, r := range all {
		if r.Visible() {
			visible = append(visible, r)
		}
	}

	p.mu.Lock()
	p.reviews = visible
	p.fetched = time.Now()
	listeners := make([]func([]models.Review), 0, len(p.listeners))
	for _, l := range p.listeners {
		listeners = append(listeners, l)
	}
	p.mu.Unlock()

	for _, l := range listeners {
		l(cloneReviews(visible))
	}
}

// Reviews returns the approved and verified reviews of the last fetch.
func (p *Poller) Reviews() []models.Review {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return cloneReviews(p.reviews)
}

// Average is the mean rating rounded to one decimal, zero without reviews.
func (p *Poller) Average() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return average(p.reviews)
}

func (p *Poller) LastFetch() time.Time {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.fetched
}

func (p *Poller) Subscribe(fn func([]models.Review)) func() {
	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.listeners[id] = fn
	p.mu.Unlock()

	return func() {
		p.mu.Lock()
		delete(p.listeners, id)
		p.mu.Unlock()
	}
}

// Submit sends a review for moderation and returns the server message.
func (p *Poller) Submit(ctx context.Context, title, content string, rating int) (string, error) {
	if p.session == nil || !p.session.Authenticated() {
		return "", client.ErrNoSession
	}
	title, content = strings.TrimSpace(title), strings.TrimSpace(content)
	switch {
	case title == "":
		return "", &client.ValidationError{Field: "title", Message: "is required"}
	case content == "":
		return "", &client.ValidationError{Field: "content", Message: "is required"}
	case rating < 1 || rating > 5:
		return "", &client.ValidationError{Field: "rating", Message: "must be between 1 and 5"}
	}

	return p.api.CreateReview(ctx, models.CreateReviewRequest{Title: title, Content: content, Rating: rating})
}

func average(reviews []models.Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	return math.Round(float64(sum)/float64(len(reviews))*10) / 10
}

func cloneReviews(in []models.Review) []models.Review {
	out := make([]models.Review, len(in))
	copy(out, in)
	return out
}
