package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"storefront/client"
	"storefront/models"
)

type mockAPI struct {
	mock.Mock
}

func (m *mockAPI) Login(ctx context.Context, email, password string) (*models.AuthResponse, error) {
	args := m.Called(ctx, email, password)
	resp, _ := args.Get(0).(*models.AuthResponse)
	return resp, args.Error(1)
}

func (m *mockAPI) Register(ctx context.Context, name, email, password string) (*models.AuthResponse, error) {
	args := m.Called(ctx, name, email, password)
	resp, _ := args.Get(0).(*models.AuthResponse)
	return resp, args.Error(1)
}

func (m *mockAPI) Logout(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func tokenExpiringAt(t *testing.T, exp time.Time) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "u1",
		"exp":     exp.Unix(),
	}).SignedString([]byte("test"))
	require.NoError(t, err)
	return token
}

func authResponse(token string) *models.AuthResponse {
	return &models.AuthResponse{
		Token: token,
		User:  models.User{ID: "u1", Name: "Ana", Email: "ana@example.com", Role: models.RoleCustomer},
	}
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("stores and persists the session", func(t *testing.T) {
		api := &mockAPI{}
		storage := NewMemoryStorage()
		s := NewStore(api, storage)
		token := tokenExpiringAt(t, time.Now().Add(time.Hour))
		api.On("Login", mock.Anything, "ana@example.com", "secret").Return(authResponse(token), nil)

		var seen []*models.Session
		s.Subscribe(func(sess *models.Session) { seen = append(seen, sess) })

		sess, err := s.Login(ctx, " ana@example.com ", "secret")
		require.NoError(t, err)
		assert.Equal(t, "u1", sess.User.ID)
		assert.True(t, s.Authenticated())
		assert.Equal(t, token, s.Token())

		stored, err := storage.Load(ctx)
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.Equal(t, token, stored.Token)

		require.Len(t, seen, 1)
		assert.Equal(t, "ana@example.com", seen[0].User.Email)
	})

	t.Run("invalid credentials", func(t *testing.T) {
		api := &mockAPI{}
		s := NewStore(api, nil)
		api.On("Login", mock.Anything, "ana@example.com", "wrong").
			Return(nil, &client.AuthenticationError{Message: "Invalid credentials"})

		_, err := s.Login(ctx, "ana@example.com", "wrong")
		var authErr *client.AuthenticationError
		require.ErrorAs(t, err, &authErr)
		assert.Equal(t, "Invalid credentials", authErr.Message)
		assert.False(t, s.Authenticated())
	})

	t.Run("network failure is an authentication error", func(t *testing.T) {
		api := &mockAPI{}
		s := NewStore(api, nil)
		netErr := &client.NetworkError{Op: "login", Err: errors.New("dial tcp: refused")}
		api.On("Login", mock.Anything, mock.Anything, mock.Anything).Return(nil, netErr)

		_, err := s.Login(ctx, "ana@example.com", "secret")
		var authErr *client.AuthenticationError
		require.ErrorAs(t, err, &authErr)
		var gotNet *client.NetworkError
		assert.ErrorAs(t, err, &gotNet)
	})

	t.Run("missing fields never reach the network", func(t *testing.T) {
		api := &mockAPI{}
		s := NewStore(api, nil)

		_, err := s.Login(ctx, "", "secret")
		assert.True(t, client.IsUnauthorized(err))
		assert.Empty(t, api.Calls)
	})
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("validates before calling the API", func(t *testing.T) {
		api := &mockAPI{}
		s := NewStore(api, nil)

		_, err := s.Register(ctx, "Ana", "", "secret")
		var vErr *client.ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "email", vErr.Field)
		assert.Empty(t, api.Calls)
	})

	t.Run("duplicate email", func(t *testing.T) {
		api := &mockAPI{}
		s := NewStore(api, nil)
		api.On("Register", mock.Anything, "Ana", "ana@example.com", "secret").
			Return(nil, &client.ValidationError{Message: "Email already exists"})

		_, err := s.Register(ctx, "Ana", "ana@example.com", "secret")
		var vErr *client.ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.False(t, s.Authenticated())
	})

	t.Run("signs in", func(t *testing.T) {
		api := &mockAPI{}
		s := NewStore(api, nil)
		api.On("Register", mock.Anything, "Ana", "ana@example.com", "secret").
			Return(authResponse(tokenExpiringAt(t, time.Now().Add(time.Hour))), nil)

		_, err := s.Register(ctx, "Ana", "ana@example.com", "secret")
		require.NoError(t, err)
		assert.True(t, s.Authenticated())
	})
}

func TestLogout_ClearsEvenWhenRemoteFails(t *testing.T) {
	ctx := context.Background()
	api := &mockAPI{}
	storage := NewMemoryStorage()
	s := NewStore(api, storage)

	api.On("Login", mock.Anything, mock.Anything, mock.Anything).
		Return(authResponse(tokenExpiringAt(t, time.Now().Add(time.Hour))), nil)
	api.On("Logout", mock.Anything).Return(&client.NetworkError{Op: "logout", Err: errors.New("offline")})

	_, err := s.Login(ctx, "ana@example.com", "secret")
	require.NoError(t, err)

	var cleared int
	s.Subscribe(func(sess *models.Session) {
		if sess == nil {
			cleared++
		}
	})

	s.Logout(ctx)
	assert.False(t, s.Authenticated())
	assert.Empty(t, s.Token())
	assert.Equal(t, 1, cleared)

	stored, err := storage.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, stored)

	s.Logout(ctx)
	assert.Equal(t, 1, cleared)
	api.AssertNumberOfCalls(t, "Logout", 1)
}

func TestExpire(t *testing.T) {
	ctx := context.Background()
	api := &mockAPI{}
	s := NewStore(api, nil)
	api.On("Login", mock.Anything, mock.Anything, mock.Anything).
		Return(authResponse(tokenExpiringAt(t, time.Now().Add(time.Hour))), nil)

	_, err := s.Login(ctx, "ana@example.com", "secret")
	require.NoError(t, err)

	s.Expire()
	assert.Nil(t, s.Current())
	api.AssertNotCalled(t, "Logout", mock.Anything)
}

func TestRestore(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("keeps a live token", func(t *testing.T) {
		storage := NewMemoryStorage()
		token := tokenExpiringAt(t, now.Add(time.Hour))
		require.NoError(t, storage.Save(ctx, models.Session{Token: token, User: models.User{ID: "u1"}}))

		s := NewStore(&mockAPI{}, storage, WithClock(func() time.Time { return now }))
		var restored *models.Session
		s.Subscribe(func(sess *models.Session) { restored = sess })

		require.NoError(t, s.Restore(ctx))
		assert.True(t, s.Authenticated())
		require.NotNil(t, restored)
		assert.Equal(t, "u1", restored.User.ID)
	})

	t.Run("drops an expired token", func(t *testing.T) {
		storage := NewMemoryStorage()
		token := tokenExpiringAt(t, now.Add(-time.Minute))
		require.NoError(t, storage.Save(ctx, models.Session{Token: token}))

		s := NewStore(&mockAPI{}, storage, WithClock(func() time.Time { return now }))
		require.NoError(t, s.Restore(ctx))
		assert.False(t, s.Authenticated())

		stored, err := storage.Load(ctx)
		require.NoError(t, err)
		assert.Nil(t, stored)
	})

	t.Run("drops an unreadable token", func(t *testing.T) {
		storage := NewMemoryStorage()
		require.NoError(t, storage.Save(ctx, models.Session{Token: "not-a-jwt"}))

		s := NewStore(&mockAPI{}, storage)
		require.NoError(t, s.Restore(ctx))
		assert.False(t, s.Authenticated())
	})

	t.Run("nothing stored", func(t *testing.T) {
		s := NewStore(&mockAPI{}, NewMemoryStorage())
		require.NoError(t, s.Restore(ctx))
		assert.False(t, s.Authenticated())
	})
}
