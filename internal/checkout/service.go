package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Aswin-111/ecommerce-server/internal/cart"
	"github.com/Aswin-111/ecommerce-server/internal/order"
	"github.com/Aswin-111/ecommerce-server/internal/product"
	"github.com/Aswin-111/ecommerce-server/internal/user"
)

var (
	ErrEmptyCart = errors.New("cart is empty")
	// ErrCartConflict means another request changed the cart between the
	// read and the commit. The caller should retry against the new cart.
	ErrCartConflict = errors.New("cart changed during checkout")
)

// Store commits an order snapshot and the matching cart clear as one unit.
// The commit must fail with ErrCartConflict when the cart's version no
// longer matches, leaving no trace of the order.
type Store interface {
	CommitOrder(ctx context.Context, o *order.Order, cartID string, cartVersion int64) error
}

// Line is a cart entry joined with the product it resolved to.
type Line struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	LineTotal decimal.Decimal `json:"lineTotal"`
}

// Summary is the priced view of a cart. Unresolved lists product ids whose
// products no longer exist; they contribute nothing to the total.
type Summary struct {
	Items      []Line          `json:"items"`
	Unresolved []string        `json:"unresolved,omitempty"`
	Total      decimal.Decimal `json:"total"`
}

type Service struct {
	users    user.Repository
	products product.Repository
	carts    cart.Repository
	store    Store
	now      func() time.Time
}

func NewService(users user.Repository, products product.Repository, carts cart.Repository, store Store) *Service {
	return &Service{
		users:    users,
		products: products,
		carts:    carts,
		store:    store,
		now:      time.Now,
	}
}

// Preview prices the user's current cart without mutating anything.
func (s *Service) Preview(ctx context.Context, userID string) (*Summary, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	c, err := s.carts.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return s.price(ctx, c)
}

// PlaceOrder converts the cart into an immutable order and clears the cart.
// The order write and the cart clear commit atomically; a concurrent cart
// mutation aborts the whole operation with ErrCartConflict.
func (s *Service) PlaceOrder(ctx context.Context, userID string) (*order.Order, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	c, err := s.carts.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if c.Empty() {
		return nil, ErrEmptyCart
	}

	sum, err := s.price(ctx, c)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	o := &order.Order{
		ID:        order.NewID(now),
		UserID:    userID,
		Total:     sum.Total,
		CreatedAt: now,
	}
	for _, line := range sum.Items {
		o.Items = append(o.Items, order.Item{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		})
	}

	if err := s.store.CommitOrder(ctx, o, c.ID, c.Version); err != nil {
		return nil, err
	}
	return o, nil
}

// price resolves every cart line against the catalog. A product that no
// longer exists is reported, not fatal: the rest of the cart still checks out.
func (s *Service) price(ctx context.Context, c *cart.Cart) (*Summary, error) {
	sum := &Summary{Total: decimal.Zero}

	for _, it := range c.Items {
		p, err := s.products.GetByID(ctx, it.ProductID)
		if err != nil {
			if errors.Is(err, product.ErrNotFound) {
				sum.Unresolved = append(sum.Unresolved, it.ProductID)
				continue
			}
			return nil, fmt.Errorf("resolve product %s: %w", it.ProductID, err)
		}

		lineTotal := p.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))
		sum.Items = append(sum.Items, Line{
			ProductID: p.ID,
			Name:      p.Name,
			Quantity:  it.Quantity,
			UnitPrice: p.Price,
			LineTotal: lineTotal,
		})
		sum.Total = sum.Total.Add(lineTotal)
	}

	return sum, nil
}
