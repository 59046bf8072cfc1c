package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/models"
	"storefront/repositories"
	"storefront/utils"
)

type fixture struct {
	store    *repositories.Store
	auth     *AuthService
	products *ProductService
	carts    *CartService
	orders   *OrderService
	reviews  *ReviewService

	tee, tote *models.Product
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := repositories.NewMemoryStore()

	tee := &models.Product{Name: "Tee", Price: 20, IsActive: true,
		SizeStock: []models.SizeStock{{Size: "S", Stock: 2}, {Size: "M", Stock: 5}}}
	tote := &models.Product{Name: "Tote", Price: 8.5, Stock: 3, IsActive: true}
	retired := &models.Product{ID: "retired", Name: "Retired", Price: 1, Stock: 10}
	for _, p := range []*models.Product{tee, tote, retired} {
		require.NoError(t, store.Products.Create(ctx, p))
	}

	return &fixture{
		store:    store,
		auth:     NewAuthService(store.Users, utils.NewTokenIssuer("test", time.Hour), utils.FastPasswordHasher(), repositories.NewMemoryDenylist()),
		products: NewProductService(store.Products),
		carts:    NewCartService(store.Carts, store.Products),
		orders:   NewOrderService(store.Orders, store.Products, nil),
		reviews:  NewReviewService(store.Reviews, store.Users),
		tee:      tee,
		tote:     tote,
	}
}

func TestAuthService(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	resp, err := f.auth.Register(ctx, models.RegisterRequest{Name: " Ana ", Email: "Ana@Example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "Ana", resp.User.Name)
	assert.Equal(t, "ana@example.com", resp.User.Email)
	assert.Equal(t, models.RoleCustomer, resp.User.Role)
	assert.NotEmpty(t, resp.Token)

	_, err = f.auth.Register(ctx, models.RegisterRequest{Name: "Ana", Email: "ana@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, err = f.auth.Login(ctx, models.LoginRequest{Email: "ana@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = f.auth.Login(ctx, models.LoginRequest{Email: "nobody@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	login, err := f.auth.Login(ctx, models.LoginRequest{Email: "ana@example.com", Password: "secret1"})
	require.NoError(t, err)

	claims, err := f.auth.Tokens().ValidateToken(login.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)

	revoked, err := f.auth.IsRevoked(ctx, claims.ID)
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, f.auth.Logout(ctx, claims))
	revoked, err = f.auth.IsRevoked(ctx, claims.ID)
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestCartService_AddMergesAndChecksStock(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	lines, err := f.carts.AddItem(ctx, "u1", models.AddCartItemRequest{ProductID: f.tee.ID, Quantity: 2, Size: "M"})
	require.NoError(t, err)
	require.Len(t, lines, 1)

	_, err = f.carts.AddItem(ctx, "u1", models.AddCartItemRequest{ProductID: f.tote.ID, Quantity: 1})
	require.NoError(t, err)

	lines, err = f.carts.AddItem(ctx, "u1", models.AddCartItemRequest{ProductID: f.tee.ID, Quantity: 3, Size: "M"})
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, f.tee.ID, lines[0].Product.ID, "merged line keeps its position")
	assert.Equal(t, 5, lines[0].Quantity)
	require.NotNil(t, lines[0].Product.Product)
	assert.Equal(t, "Tee", lines[0].Product.Product.Name)

	_, err = f.carts.AddItem(ctx, "u1", models.AddCartItemRequest{ProductID: f.tee.ID, Quantity: 1, Size: "M"})
	var stockErr *StockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 5, stockErr.Available)
	assert.Equal(t, "Insufficient stock for Tee (size M)", stockErr.Error())

	other, err := f.carts.GetCart(ctx, "u2")
	require.NoError(t, err)
	assert.Empty(t, other, "carts are per user")
}

func TestCartService_AddRejects(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	tests := []struct {
		name string
		req  models.AddCartItemRequest
		want error
	}{
		{"unknown product", models.AddCartItemRequest{ProductID: "nope", Quantity: 1}, ErrProductNotFound},
		{"inactive product", models.AddCartItemRequest{ProductID: "retired", Quantity: 1}, ErrProductInactive},
		{"unknown size", models.AddCartItemRequest{ProductID: f.tee.ID, Quantity: 1, Size: "XL"}, ErrInvalidSize},
		{"zero quantity", models.AddCartItemRequest{ProductID: f.tee.ID, Quantity: 0, Size: "M"}, ErrInvalidQuantity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.carts.AddItem(ctx, "u1", tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestCartService_RemoveAndClear(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.carts.AddItem(ctx, "u1", models.AddCartItemRequest{ProductID: f.tee.ID, Quantity: 1, Size: "S"})
	require.NoError(t, err)
	_, err = f.carts.AddItem(ctx, "u1", models.AddCartItemRequest{ProductID: f.tee.ID, Quantity: 1, Size: "M"})
	require.NoError(t, err)

	lines, err := f.carts.RemoveItem(ctx, "u1", f.tee.ID, "S")
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "M", lines[0].Size)

	lines, err = f.carts.RemoveItem(ctx, "u1", f.tee.ID, "S")
	require.NoError(t, err, "removing a missing line is harmless")
	assert.Len(t, lines, 1)

	lines, err = f.carts.Clear(ctx, "u1")
	require.NoError(t, err)
	assert.NotNil(t, lines)
	assert.Empty(t, lines)
}

func TestOrderService_CreateOrder(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	order, err := f.orders.CreateOrder(ctx, "u1", models.CreateOrderRequest{
		PaymentInfo: models.PaymentInfo{ShippingMethod: models.ShippingExpress},
		Items: []models.OrderItem{
			{ProductID: f.tee.ID, Quantity: 2, Size: "M", Price: 0.01},
			{ProductID: f.tote.ID, Quantity: 1},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 20.0, order.Items[0].Price, "prices come from the catalog")
	assert.InDelta(t, 2*20+8.5+10, order.Total, 0.001)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.NotEmpty(t, order.OrderNumber)

	tee, err := f.products.GetProductByID(ctx, f.tee.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, tee.AvailableStock("M"))

	_, err = f.orders.CreateOrder(ctx, "u1", models.CreateOrderRequest{
		Items: []models.OrderItem{{ProductID: f.tote.ID, Quantity: 4}},
	})
	var stockErr *StockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 2, stockErr.Available)

	_, err = f.orders.CreateOrder(ctx, "u1", models.CreateOrderRequest{})
	assert.ErrorIs(t, err, ErrEmptyOrder)

	orders, err := f.orders.GetOrders(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, orders, 1)
}

func TestProductService(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	resp, err := f.products.GetAllProducts(ctx, models.ProductFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, resp.Data, 1)
	assert.Equal(t, 2, resp.Meta.Total, "inactive products are hidden")
	assert.Equal(t, 2, resp.Meta.TotalPages)

	resp, err = f.products.GetAllProducts(ctx, models.ProductFilter{Query: "to"})
	require.NoError(t, err)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "Tote", resp.Data[0].Name)

	check, err := f.products.CheckStock(ctx, f.tee.ID, "S", 3)
	require.NoError(t, err)
	assert.Equal(t, 2, check.Stock)
	assert.False(t, check.Available)

	check, err = f.products.CheckStock(ctx, f.tote.ID, "", 0)
	require.NoError(t, err)
	assert.Equal(t, 1, check.Requested)
	assert.True(t, check.Available)

	_, err = f.products.GetProductByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestReviewService(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	user := &models.User{Name: "Ana", Email: "ana@example.com"}
	require.NoError(t, f.store.Users.Create(ctx, user))

	review, err := f.reviews.Create(ctx, user.ID, models.CreateReviewRequest{Title: " Nice ", Content: "Good", Rating: 4})
	require.NoError(t, err)
	assert.Equal(t, "Ana", review.Author)
	assert.Equal(t, "Nice", review.Title)
	assert.Equal(t, models.ReviewPending, review.Status)
	assert.False(t, review.Visible())

	require.NoError(t, f.reviews.Moderate(ctx, review.ID, models.ReviewStatusRequest{Status: models.ReviewApproved, Verified: true}))
	list, err := f.reviews.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].Visible())

	err = f.reviews.Moderate(ctx, "missing", models.ReviewStatusRequest{Status: models.ReviewRejected})
	assert.ErrorIs(t, err, ErrReviewNotFound)
}
