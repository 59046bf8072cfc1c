package cart

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"storefront/models"
)

type stubProducts struct {
	calls    atomic.Int32
	product  *models.Product
	err      error
	fetched  chan struct{}
	fetchMux sync.Mutex
}

func (p *stubProducts) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	p.calls.Add(1)
	defer func() {
		p.fetchMux.Lock()
		if p.fetched != nil {
			p.fetched <- struct{}{}
		}
		p.fetchMux.Unlock()
	}()
	if p.err != nil {
		return nil, p.err
	}
	cp := *p.product
	return &cp, nil
}

func sized(id string, stock map[string]int) *models.Product {
	p := &models.Product{ID: id, Name: "Product " + id, Price: 10}
	for size, n := range stock {
		p.SizeStock = append(p.SizeStock, models.SizeStock{Size: size, Stock: n})
	}
	return p
}

func TestStockWatcher_LastTimerWins(t *testing.T) {
	api := &mockAPI{}
	s := loaded(t, api, line("a", "M", 1))
	api.On("UpdateCartItemQuantity", mock.Anything, "a", mock.Anything, "M").
		Return([]models.CartLine{line("a", "M", 6)}, nil)

	products := &stubProducts{product: sized("a", map[string]int{"M": 4}), fetched: make(chan struct{}, 4)}
	var shortages []Shortage
	var mu sync.Mutex
	w := NewStockWatcher(s, products, WithDelay(40*time.Millisecond), OnShortage(func(sh Shortage) {
		mu.Lock()
		shortages = append(shortages, sh)
		mu.Unlock()
	}))
	defer w.Stop()

	ctx := context.Background()
	require.NoError(t, w.UpdateQuantity(ctx, "a", 2, "M"))
	require.NoError(t, w.UpdateQuantity(ctx, "a", 4, "M"))
	require.NoError(t, w.UpdateQuantity(ctx, "a", 6, "M"))
	assert.Equal(t, 1, w.Pending())

	select {
	case <-products.fetched:
	case <-time.After(time.Second):
		t.Fatal("stock check never ran")
	}
	time.Sleep(80 * time.Millisecond)

	assert.Equal(t, int32(1), products.calls.Load())
	mu.Lock()
	defer mu.Unlock()
	require.Len(t, shortages, 1)
	assert.Equal(t, 6, shortages[0].Requested)
	assert.Equal(t, 4, shortages[0].Available)
	assert.Equal(t, "M", shortages[0].Size)
}

func TestStockWatcher_NoShortageNoCallback(t *testing.T) {
	api := &mockAPI{}
	s := loaded(t, api, line("a", "M", 1))
	api.On("UpdateCartItemQuantity", mock.Anything, "a", 2, "M").
		Return([]models.CartLine{line("a", "M", 2)}, nil)

	products := &stubProducts{product: sized("a", map[string]int{"M": 5})}
	called := false
	w := NewStockWatcher(s, products, OnShortage(func(Shortage) { called = true }))
	defer w.Stop()

	require.NoError(t, w.UpdateQuantity(context.Background(), "a", 2, "M"))
	w.Flush(context.Background())

	assert.Equal(t, int32(1), products.calls.Load())
	assert.False(t, called)
	assert.Zero(t, w.Pending())
}

func TestStockWatcher_FetchFailureIsSwallowed(t *testing.T) {
	api := &mockAPI{}
	s := loaded(t, api, line("a", "M", 1))
	api.On("UpdateCartItemQuantity", mock.Anything, "a", 2, "M").
		Return([]models.CartLine{line("a", "M", 2)}, nil)

	products := &stubProducts{err: errors.New("offline")}
	called := false
	w := NewStockWatcher(s, products, OnShortage(func(Shortage) { called = true }))
	defer w.Stop()

	require.NoError(t, w.UpdateQuantity(context.Background(), "a", 2, "M"))
	w.Flush(context.Background())

	assert.False(t, called)
	got, _ := s.Line("a", "M")
	assert.Equal(t, 2, got.Quantity)
}

func TestStockWatcher_FailedUpdateSchedulesNothing(t *testing.T) {
	api := &mockAPI{}
	s := loaded(t, api, line("a", "M", 1))
	api.On("UpdateCartItemQuantity", mock.Anything, "a", 2, "M").Return(nil, errors.New("boom"))
	api.On("GetCart", mock.Anything).Return([]models.CartLine{line("a", "M", 1)}, nil)

	w := NewStockWatcher(s, &stubProducts{})
	defer w.Stop()

	require.Error(t, w.UpdateQuantity(context.Background(), "a", 2, "M"))
	assert.Zero(t, w.Pending())
}

func TestStockWatcher_StopCancelsTimers(t *testing.T) {
	api := &mockAPI{}
	s := loaded(t, api, line("a", "M", 1))
	api.On("UpdateCartItemQuantity", mock.Anything, "a", 2, "M").
		Return([]models.CartLine{line("a", "M", 2)}, nil)

	products := &stubProducts{product: sized("a", map[string]int{"M": 1})}
	w := NewStockWatcher(s, products, WithDelay(20*time.Millisecond))

	require.NoError(t, w.UpdateQuantity(context.Background(), "a", 2, "M"))
	w.Stop()
	time.Sleep(60 * time.Millisecond)

	assert.Zero(t, products.calls.Load())
	assert.Zero(t, w.Pending())
}

func TestShortageResolve(t *testing.T) {
	t.Run("clamps to available stock", func(t *testing.T) {
		api := &mockAPI{}
		s := loaded(t, api, line("a", "M", 5))
		api.On("UpdateCartItemQuantity", mock.Anything, "a", 3, "M").
			Return([]models.CartLine{line("a", "M", 3)}, nil)

		sh, short := s.ShortageFor(line("a", "M", 5), sized("a", map[string]int{"M": 3}))
		require.True(t, short)
		require.NoError(t, sh.Resolve(context.Background()))
		assert.Equal(t, 3, s.Count())
	})

	t.Run("removes sold out line", func(t *testing.T) {
		api := &mockAPI{}
		s := loaded(t, api, line("a", "M", 5))
		api.On("RemoveFromCart", mock.Anything, "a", "M").Return([]models.CartLine{}, nil)

		sh, short := s.ShortageFor(line("a", "M", 5), sized("a", map[string]int{"S": 9}))
		require.True(t, short)
		assert.Zero(t, sh.Available)
		require.NoError(t, sh.Resolve(context.Background()))
		assert.Empty(t, s.Lines())
	})
}
