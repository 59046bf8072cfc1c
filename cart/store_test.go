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

	"storefront/client"
	"storefront/models"
)

type mockAPI struct {
	mock.Mock
}

func linesArg(args mock.Arguments) []models.CartLine {
	lines, _ := args.Get(0).([]models.CartLine)
	return lines
}

func (m *mockAPI) GetCart(ctx context.Context) ([]models.CartLine, error) {
	args := m.Called(ctx)
	return linesArg(args), args.Error(1)
}

func (m *mockAPI) AddToCart(ctx context.Context, productID string, quantity int, size string) ([]models.CartLine, error) {
	args := m.Called(ctx, productID, quantity, size)
	return linesArg(args), args.Error(1)
}

func (m *mockAPI) RemoveFromCart(ctx context.Context, productID, size string) ([]models.CartLine, error) {
	args := m.Called(ctx, productID, size)
	return linesArg(args), args.Error(1)
}

func (m *mockAPI) UpdateCartItemQuantity(ctx context.Context, productID string, quantity int, size string) ([]models.CartLine, error) {
	args := m.Called(ctx, productID, quantity, size)
	return linesArg(args), args.Error(1)
}

func (m *mockAPI) ClearCart(ctx context.Context) ([]models.CartLine, error) {
	args := m.Called(ctx)
	return linesArg(args), args.Error(1)
}

type fakeSession struct {
	authed atomic.Bool
}

func signedIn() *fakeSession {
	s := &fakeSession{}
	s.authed.Store(true)
	return s
}

func (s *fakeSession) Authenticated() bool { return s.authed.Load() }

func line(id, size string, qty int) models.CartLine {
	return models.CartLine{
		Product:  models.RefProduct(&models.Product{ID: id, Name: "Product " + id, Price: 10}),
		Size:     size,
		Quantity: qty,
	}
}

func keys(lines []models.CartLine) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.Key().String()
	}
	return out
}

// loaded returns a store whose cart was fetched from the mock.
func loaded(t *testing.T, api *mockAPI, lines ...models.CartLine) *Store {
	t.Helper()
	api.On("GetCart", mock.Anything).Return(lines, nil).Once()
	s := NewStore(api, signedIn())
	require.NoError(t, s.RefreshCart(context.Background()))
	return s
}

func TestUpdateItemQuantity_KeepsDisplayOrder(t *testing.T) {
	api := &mockAPI{}
	s := loaded(t, api, line("a", "M", 1), line("b", "M", 2), line("c", "", 1))

	// The server re-adds the updated line at the end.
	api.On("UpdateCartItemQuantity", mock.Anything, "b", 5, "M").
		Return([]models.CartLine{line("a", "M", 1), line("c", "", 1), line("b", "M", 5)}, nil)

	require.NoError(t, s.UpdateItemQuantity(context.Background(), "b", 5, "M"))

	assert.Equal(t, []string{"a-M", "b-M", "c-"}, keys(s.Lines()))
	got, ok := s.Line("b", "M")
	require.True(t, ok)
	assert.Equal(t, 5, got.Quantity)
	assert.Equal(t, 7, s.Count())
	assert.Equal(t, Stable, s.LineState("b", "M"))
	assert.NoError(t, s.Err())
	api.AssertExpectations(t)
}

func TestUpdateItemQuantity_OptimisticWhilePending(t *testing.T) {
	api := &mockAPI{}
	s := loaded(t, api, line("a", "M", 1), line("b", "L", 2))

	release := make(chan struct{})
	api.On("UpdateCartItemQuantity", mock.Anything, "a", 3, "M").
		Run(func(mock.Arguments) { <-release }).
		Return([]models.CartLine{line("b", "L", 2), line("a", "M", 3)}, nil)

	done := make(chan error, 1)
	go func() { done <- s.UpdateItemQuantity(context.Background(), "a", 3, "M") }()

	require.Eventually(t, func() bool { return s.LineState("a", "M") == Pending }, time.Second, 5*time.Millisecond)
	got, _ := s.Line("a", "M")
	assert.Equal(t, 3, got.Quantity)
	assert.Equal(t, 5, s.Count())
	assert.True(t, s.Loading())
	assert.Equal(t, Stable, s.LineState("b", "L"))

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, Stable, s.LineState("a", "M"))
	assert.False(t, s.Loading())
	assert.Equal(t, []string{"a-M", "b-L"}, keys(s.Lines()))
}

func TestUpdateItemQuantity_ServerQuantityWins(t *testing.T) {
	api := &mockAPI{}
	s := loaded(t, api, line("a", "M", 1))

	api.On("UpdateCartItemQuantity", mock.Anything, "a", 4, "M").
		Return([]models.CartLine{line("a", "M", 2)}, nil)

	require.NoError(t, s.UpdateItemQuantity(context.Background(), "a", 4, "M"))
	got, _ := s.Line("a", "M")
	assert.Equal(t, 2, got.Quantity)
}

func TestUpdateItemQuantity_RevertsOnFailure(t *testing.T) {
	api := &mockAPI{}
	before := []models.CartLine{line("a", "M", 1), line("b", "M", 2)}
	s := loaded(t, api, before...)

	netErr := &client.NetworkError{Op: "add to cart", Err: errors.New("connection reset")}
	api.On("UpdateCartItemQuantity", mock.Anything, "a", 9, "M").Return(nil, netErr)
	api.On("GetCart", mock.Anything).Return(before, nil).Once()

	var states []LineState
	var mu sync.Mutex
	s.Subscribe(func(Snapshot) {
		mu.Lock()
		states = append(states, s.LineState("a", "M"))
		mu.Unlock()
	})

	err := s.UpdateItemQuantity(context.Background(), "a", 9, "M")
	var got *client.NetworkError
	require.ErrorAs(t, err, &got)

	assert.Equal(t, before, s.Lines())
	assert.Equal(t, Stable, s.LineState("a", "M"))
	assert.Equal(t, err, s.Err())

	mu.Lock()
	defer mu.Unlock()
	assert.Contains(t, states, Pending)
	assert.Contains(t, states, Reverted)
	assert.NotContains(t, states, Reconciled)
	api.AssertNumberOfCalls(t, "GetCart", 2)
}

func TestUpdateItemQuantity_ZeroRemoves(t *testing.T) {
	api := &mockAPI{}
	s := loaded(t, api, line("a", "M", 1), line("b", "M", 2))

	api.On("RemoveFromCart", mock.Anything, "a", "M").Return([]models.CartLine{line("b", "M", 2)}, nil)

	require.NoError(t, s.UpdateItemQuantity(context.Background(), "a", 0, "M"))
	assert.Equal(t, []string{"b-M"}, keys(s.Lines()))
	api.AssertNotCalled(t, "UpdateCartItemQuantity", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateItemQuantity_UnknownLineIsAppended(t *testing.T) {
	api := &mockAPI{}
	s := loaded(t, api, line("a", "M", 1))

	api.On("UpdateCartItemQuantity", mock.Anything, "z", 2, "").
		Return([]models.CartLine{line("a", "M", 1), line("z", "", 2)}, nil)

	require.NoError(t, s.UpdateItemQuantity(context.Background(), "z", 2, ""))
	assert.Equal(t, []string{"a-M", "z-"}, keys(s.Lines()))
}

func TestUpdateItemQuantity_SerializesSameLine(t *testing.T) {
	api := &mockAPI{}
	s := loaded(t, api, line("a", "M", 1))

	var active, peak atomic.Int32
	api.On("UpdateCartItemQuantity", mock.Anything, "a", mock.Anything, "M").
		Run(func(mock.Arguments) {
			n := active.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(10 * time.Millisecond)
			active.Add(-1)
		}).
		Return([]models.CartLine{line("a", "M", 2)}, nil)

	var wg sync.WaitGroup
	for q := 2; q < 7; q++ {
		q := q
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, s.UpdateItemQuantity(context.Background(), "a", q, "M"))
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), peak.Load())
	api.AssertNumberOfCalls(t, "UpdateCartItemQuantity", 5)
	assert.Zero(t, s.guard.held())
}

func TestUpdateItemQuantity_GuardHonoursContext(t *testing.T) {
	api := &mockAPI{}
	s := loaded(t, api, line("a", "M", 1))

	release := make(chan struct{})
	api.On("UpdateCartItemQuantity", mock.Anything, "a", 2, "M").
		Run(func(mock.Arguments) { <-release }).
		Return([]models.CartLine{line("a", "M", 2)}, nil)

	done := make(chan error, 1)
	go func() { done <- s.UpdateItemQuantity(context.Background(), "a", 2, "M") }()
	require.Eventually(t, func() bool { return s.LineState("a", "M") == Pending }, time.Second, 5*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := s.UpdateItemQuantity(ctx, "a", 3, "M")
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(release)
	require.NoError(t, <-done)
}

func TestMutations_RequireSession(t *testing.T) {
	api := &mockAPI{}
	s := NewStore(api, &fakeSession{})
	ctx := context.Background()

	for name, call := range map[string]func() error{
		"add":     func() error { return s.AddItem(ctx, "a", 1, "M") },
		"update":  func() error { return s.UpdateItemQuantity(ctx, "a", 2, "M") },
		"remove":  func() error { return s.RemoveItem(ctx, "a", "M") },
		"clear":   func() error { return s.ClearCartItems(ctx) },
		"refresh": func() error { return s.RefreshCart(ctx) },
	} {
		t.Run(name, func(t *testing.T) {
			err := call()
			assert.ErrorIs(t, err, client.ErrNoSession)
			assert.True(t, client.IsUnauthorized(err))
		})
	}
	assert.Empty(t, api.Calls)
}

func TestAddItem(t *testing.T) {
	api := &mockAPI{}
	s := loaded(t, api)

	t.Run("replaces cart with server cart", func(t *testing.T) {
		api.On("AddToCart", mock.Anything, "a", 2, "M").Return([]models.CartLine{line("a", "M", 2)}, nil).Once()
		require.NoError(t, s.AddItem(context.Background(), "a", 2, "M"))
		assert.Equal(t, 2, s.Count())
	})

	t.Run("rejects quantity below one", func(t *testing.T) {
		var vErr *client.ValidationError
		require.ErrorAs(t, s.AddItem(context.Background(), "a", 0, "M"), &vErr)
		assert.Equal(t, "quantity", vErr.Field)
	})

	t.Run("keeps cart on business failure", func(t *testing.T) {
		cartErr := &client.CartError{Status: 400, Message: "Insufficient stock for Product a (size M)"}
		api.On("AddToCart", mock.Anything, "a", 50, "M").Return(nil, cartErr).Once()

		err := s.AddItem(context.Background(), "a", 50, "M")
		var got *client.CartError
		require.ErrorAs(t, err, &got)
		assert.Contains(t, got.Message, "Insufficient stock")
		assert.Equal(t, 2, s.Count())
	})
}

func TestClearCartItems_Idempotent(t *testing.T) {
	api := &mockAPI{}
	s := loaded(t, api, line("a", "M", 1))
	api.On("ClearCart", mock.Anything).Return([]models.CartLine{}, nil)

	require.NoError(t, s.ClearCartItems(context.Background()))
	assert.Empty(t, s.Lines())
	require.NoError(t, s.ClearCartItems(context.Background()))
	assert.Empty(t, s.Lines())
	assert.Zero(t, s.Count())
}

func TestRefreshCart_FailureEmptiesCart(t *testing.T) {
	api := &mockAPI{}
	s := loaded(t, api, line("a", "M", 1))

	fetchErr := &client.NetworkError{Op: "get cart", Err: errors.New("timeout")}
	api.On("GetCart", mock.Anything).Return(nil, fetchErr).Once()

	err := s.RefreshCart(context.Background())
	assert.ErrorIs(t, err, fetchErr)
	assert.Empty(t, s.Lines())
	assert.Equal(t, fetchErr, s.Err())
}

func TestRefreshCart_CoalescesConcurrentCalls(t *testing.T) {
	api := &mockAPI{}
	s := NewStore(api, signedIn())

	started := make(chan struct{})
	release := make(chan struct{})
	api.On("GetCart", mock.Anything).
		Run(func(mock.Arguments) {
			close(started)
			<-release
		}).
		Return([]models.CartLine{line("a", "M", 1)}, nil).Once()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() { defer wg.Done(); assert.NoError(t, s.RefreshCart(context.Background())) }()
	<-started
	go func() { defer wg.Done(); assert.NoError(t, s.RefreshCart(context.Background())) }()
	time.Sleep(30 * time.Millisecond)
	close(release)
	wg.Wait()

	api.AssertNumberOfCalls(t, "GetCart", 1)
	assert.Equal(t, 1, s.Count())
}

func TestOnSessionChange(t *testing.T) {
	api := &mockAPI{}
	s := loaded(t, api, line("a", "M", 3))

	require.NoError(t, s.OnSessionChange(context.Background(), nil))
	assert.Empty(t, s.Lines())
	api.AssertNumberOfCalls(t, "GetCart", 1)

	api.On("GetCart", mock.Anything).Return([]models.CartLine{line("b", "", 1)}, nil).Once()
	require.NoError(t, s.OnSessionChange(context.Background(), &models.Session{Token: "t"}))
	assert.Equal(t, []string{"b-"}, keys(s.Lines()))
}

func TestOnSessionChange_DropsLateResults(t *testing.T) {
	cases := []struct {
		name   string
		method string
		args   []any
		call   func(*Store) error
	}{
		{"update", "UpdateCartItemQuantity", []any{mock.Anything, "a", 3, "M"},
			func(s *Store) error { return s.UpdateItemQuantity(context.Background(), "a", 3, "M") }},
		{"add", "AddToCart", []any{mock.Anything, "a", 2, "M"},
			func(s *Store) error { return s.AddItem(context.Background(), "a", 2, "M") }},
		{"remove", "RemoveFromCart", []any{mock.Anything, "a", "M"},
			func(s *Store) error { return s.RemoveItem(context.Background(), "a", "M") }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			api := &mockAPI{}
			sess := signedIn()
			s := NewStore(api, sess)
			api.On("GetCart", mock.Anything).Return([]models.CartLine{line("a", "M", 1)}, nil).Once()
			require.NoError(t, s.RefreshCart(context.Background()))

			started := make(chan struct{})
			release := make(chan struct{})
			api.On(tc.method, tc.args...).
				Run(func(mock.Arguments) {
					close(started)
					<-release
				}).
				Return([]models.CartLine{line("a", "M", 3)}, nil).Once()

			done := make(chan error, 1)
			go func() { done <- tc.call(s) }()
			<-started

			sess.authed.Store(false)
			require.NoError(t, s.OnSessionChange(context.Background(), nil))
			close(release)
			require.NoError(t, <-done)

			assert.Empty(t, s.Lines())
			assert.Zero(t, s.Count())
			assert.False(t, s.Loading())
			assert.Equal(t, Stable, s.LineState("a", "M"))
		})
	}
}

func TestRefreshCart_SurvivesFirstCallerCancel(t *testing.T) {
	api := &mockAPI{}
	s := NewStore(api, signedIn())

	started := make(chan struct{})
	release := make(chan struct{})
	api.On("GetCart", mock.Anything).
		Run(func(args mock.Arguments) {
			close(started)
			<-release
			assert.NoError(t, args.Get(0).(context.Context).Err())
		}).
		Return([]models.CartLine{line("a", "M", 1)}, nil).Once()

	ctx, cancel := context.WithCancel(context.Background())
	first := make(chan error, 1)
	go func() { first <- s.RefreshCart(ctx) }()
	<-started

	second := make(chan error, 1)
	go func() { second <- s.RefreshCart(context.Background()) }()
	time.Sleep(30 * time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-first, context.Canceled)
	close(release)
	require.NoError(t, <-second)

	api.AssertNumberOfCalls(t, "GetCart", 1)
	assert.Equal(t, []string{"a-M"}, keys(s.Lines()))
	assert.NoError(t, s.Err())
}

func TestSubscribe_ListenersRunOutsideLock(t *testing.T) {
	api := &mockAPI{}
	s := NewStore(api, signedIn())
	api.On("GetCart", mock.Anything).Return([]models.CartLine{line("a", "M", 2)}, nil)

	var counts []int
	unsubscribe := s.Subscribe(func(snap Snapshot) {
		// Reading back into the store would deadlock if the lock were held.
		counts = append(counts, s.Count())
		snap.Lines = append(snap.Lines, line("x", "", 1))
	})

	require.NoError(t, s.RefreshCart(context.Background()))
	assert.Equal(t, []int{0, 2}, counts)
	assert.Len(t, s.Lines(), 1)

	unsubscribe()
	require.NoError(t, s.RefreshCart(context.Background()))
	assert.Len(t, counts, 2)
}

func TestReconcile(t *testing.T) {
	bare := models.CartLine{Product: models.RefID("a"), Size: "M", Quantity: 4}
	out := reconcile(
		[]models.CartLine{line("a", "M", 1), line("gone", "", 1)},
		[]models.CartLine{line("new", "", 1), bare},
	)

	assert.Equal(t, []string{"a-M", "gone-", "new-"}, keys(out))
	assert.Equal(t, 4, out[0].Quantity)
	require.NotNil(t, out[0].Product.Product, "expanded product survives a bare server line")
	assert.Equal(t, "Product a", out[0].Product.Product.Name)
}

func TestLineStateTransitions(t *testing.T) {
	tr := tracker{}
	key := models.LineKey{ProductID: "a", Size: "M"}

	assert.False(t, tr.move(key, Reconciled))
	assert.True(t, tr.move(key, Pending))
	assert.False(t, tr.move(key, Stable))
	assert.True(t, tr.move(key, Reverted))
	assert.False(t, tr.move(key, Pending))
	assert.True(t, tr.move(key, Stable))
	assert.Equal(t, Stable, tr.get(key))
	assert.Empty(t, tr)
}
