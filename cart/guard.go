package cart

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"

	"storefront/models"
)

// lineGuard serializes operations on the same line. Different lines never
// block each other.
type lineGuard struct {
	mu    sync.Mutex
	slots map[models.LineKey]*guardSlot
}

type guardSlot struct {
	sem  *semaphore.Weighted
	refs int
}

func newLineGuard() *lineGuard {
	return &lineGuard{slots: map[models.LineKey]*guardSlot{}}
}

// acquire blocks until key is free or ctx is done. The returned func
// releases the line.
func (g *lineGuard) acquire(ctx context.Context, key models.LineKey) (func(), error) {
	g.mu.Lock()
	slot, ok := g.slots[key]
	if !ok {
		slot = &guardSlot{sem: semaphore.NewWeighted(1)}
		g.slots[key] = slot
	}
	slot.refs++
	g.mu.Unlock()

	if err := slot.sem.Acquire(ctx, 1); err != nil {
		g.unref(key, slot)
		return nil, err
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			slot.sem.Release(1)
			g.unref(key, slot)
		})
	}, nil
}

func (g *lineGuard) unref(key models.LineKey, slot *guardSlot) {
	g.mu.Lock()
	defer g.mu.Unlock()
	slot.refs--
	if slot.refs == 0 {
		delete(g.slots, key)
	}
}

func (g *lineGuard) held() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.slots)
}
