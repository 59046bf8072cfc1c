// Package checkout validates the cart against live stock and places orders.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"storefront/cart"
	"storefront/client"
	"storefront/models"
)

const defaultConcurrency = 4

type API interface {
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	CreateOrder(ctx context.Context, req models.CreateOrderRequest) (*models.Order, error)
}

// ShortageError is the first cart line, in cart order, that cannot be filled.
type ShortageError struct {
	cart.Shortage
}

func (e *ShortageError) Error() string {
	if e.Available <= 0 {
		return fmt.Sprintf("%s (size %s) is out of stock", e.Name, e.Size)
	}
	return fmt.Sprintf("%s (size %s): only %d available, %d requested", e.Name, e.Size, e.Available, e.Requested)
}

type Request struct {
	Shipping models.ShippingData
	Method   string
}

// Confirmation is what the buyer sees after a successful order.
type Confirmation struct {
	Order    *models.Order
	Items    []models.CartLine
	Total    float64
	Shipping models.ShippingData
}

type Service struct {
	api         API
	cart        *cart.Store
	session     cart.SessionSource
	validate    *validator.Validate
	log         zerolog.Logger
	concurrency int
}

type Option func(*Service)

func WithLogger(log zerolog.Logger) Option {
	return func(s *Service) { s.log = log }
}

// WithConcurrency bounds parallel product fetches during Validate.
func WithConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

func NewService(api API, store *cart.Store, session cart.SessionSource, opts ...Option) *Service {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	s := &Service{
		api:         api,
		cart:        store,
		session:     session,
		validate:    v,
		log:         zerolog.Nop(),
		concurrency: defaultConcurrency,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) requireSession() error {
	if s.session == nil || !s.session.Authenticated() {
		return client.ErrNoSession
	}
	return nil
}

// Validate fetches every line's product and fails with *ShortageError for
// the first line asking for more than is in stock.
func (s *Service) Validate(ctx context.Context) error {
	if err := s.requireSession(); err != nil {
		return err
	}
	lines := s.cart.Lines()
	if len(lines) == 0 {
		return &client.ValidationError{Field: "cart", Message: "is empty"}
	}

	products, err := s.fetchProducts(ctx, lines)
	if err != nil {
		return err
	}

	for i, line := range lines {
		if shortage, short := s.cart.ShortageFor(line, products[i]); short {
			return &ShortageError{Shortage: shortage}
		}
	}
	return nil
}

func (s *Service) fetchProducts(ctx context.Context, lines []models.CartLine) ([]*models.Product, error) {
	products := make([]*models.Product, len(lines))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, line := range lines {
		i, line := i, line
		g.Go(func() error {
			p, err := s.api.GetProduct(gctx, line.Product.ID)
			if err != nil {
				return fmt.Errorf("check stock of %s: %w", line.Product.ID, err)
			}
			products[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return products, nil
}

// PlaceOrder submits the current cart and clears it once the order exists.
func (s *Service) PlaceOrder(ctx context.Context, req Request) (*Confirmation, error) {
	if err := s.requireSession(); err != nil {
		return nil, err
	}
	lines := s.cart.Lines()
	if len(lines) == 0 {
		return nil, &client.ValidationError{Field: "cart", Message: "is empty"}
	}
	if err := s.validateShipping(req.Shipping); err != nil {
		return nil, err
	}
	if req.Method == "" {
		req.Method = models.ShippingStandard
	}

	items, subtotal, err := s.orderItems(ctx, lines)
	if err != nil {
		return nil, err
	}
	total := math.Round((subtotal+models.ShippingFee(req.Method))*100) / 100

	order, err := s.api.CreateOrder(ctx, models.CreateOrderRequest{
		PaymentInfo: models.PaymentInfo{ShippingData: req.Shipping, ShippingMethod: req.Method},
		Items:       items,
		Total:       total,
	})
	if err != nil {
		return nil, err
	}

	if err := s.cart.ClearCartItems(ctx); err != nil {
		s.log.Warn().Err(err).Str("order", order.OrderNumber).Msg("order placed but cart not cleared")
	}

	return &Confirmation{
		Order:    order,
		Items:    lines,
		Total:    order.Total,
		Shipping: req.Shipping,
	}, nil
}

// orderItems prices lines from their product snapshots, fetching products
// the cart did not expand.
func (s *Service) orderItems(ctx context.Context, lines []models.CartLine) ([]models.OrderItem, float64, error) {
	items := make([]models.OrderItem, 0, len(lines))
	subtotal := 0.0
	for _, line := range lines {
		p := line.Product.Product
		if p == nil {
			fetched, err := s.api.GetProduct(ctx, line.Product.ID)
			if err != nil {
				return nil, 0, fmt.Errorf("price %s: %w", line.Product.ID, err)
			}
			p = fetched
		}
		items = append(items, models.OrderItem{
			ProductID: p.ID,
			Name:      p.Name,
			Price:     p.Price,
			Quantity:  line.Quantity,
			Size:      line.Size,
		})
		subtotal += p.Price * float64(line.Quantity)
	}
	return items, subtotal, nil
}

func (s *Service) validateShipping(data models.ShippingData) error {
	err := s.validate.Struct(data)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		msg := "is required"
		if fe.Tag() == "email" {
			msg = "must be a valid email address"
		}
		return &client.ValidationError{Field: fe.Field(), Message: msg}
	}
	return &client.ValidationError{Field: "shipping", Message: err.Error()}
}
