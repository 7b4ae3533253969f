package httpapi

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Aswin-111/ecommerce-server/internal/auth"
	"github.com/Aswin-111/ecommerce-server/internal/cart"
	"github.com/Aswin-111/ecommerce-server/internal/checkout"
	"github.com/Aswin-111/ecommerce-server/internal/order"
	"github.com/Aswin-111/ecommerce-server/internal/product"
	"github.com/Aswin-111/ecommerce-server/internal/user"
)

type fakeUsers struct {
	createFunc        func(ctx context.Context, u *user.User) error
	getByEmailFunc    func(ctx context.Context, email string) (*user.User, error)
	getByIDFunc       func(ctx context.Context, id string) (*user.User, error)
	updateProfileFunc func(ctx context.Context, id string, upd user.ProfileUpdate) (*user.User, error)
}

func (f *fakeUsers) Create(ctx context.Context, u *user.User) error {
	if f.createFunc != nil {
		return f.createFunc(ctx, u)
	}
	return nil
}
func (f *fakeUsers) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	if f.getByEmailFunc != nil {
		return f.getByEmailFunc(ctx, email)
	}
	return nil, user.ErrNotFound
}
func (f *fakeUsers) GetByID(ctx context.Context, id string) (*user.User, error) {
	if f.getByIDFunc != nil {
		return f.getByIDFunc(ctx, id)
	}
	return &user.User{ID: id}, nil
}
func (f *fakeUsers) UpdateProfile(ctx context.Context, id string, upd user.ProfileUpdate) (*user.User, error) {
	if f.updateProfileFunc != nil {
		return f.updateProfileFunc(ctx, id, upd)
	}
	return &user.User{ID: id}, nil
}

type fakeProducts struct {
	createFunc  func(ctx context.Context, p *product.Product) error
	listFunc    func(ctx context.Context) ([]product.Product, error)
	getByIDFunc func(ctx context.Context, id string) (*product.Product, error)
	updateFunc  func(ctx context.Context, p *product.Product) error
	deleteFunc  func(ctx context.Context, id string) error
}

func (f *fakeProducts) Create(ctx context.Context, p *product.Product) error {
	if f.createFunc != nil {
		return f.createFunc(ctx, p)
	}
	return nil
}
func (f *fakeProducts) List(ctx context.Context) ([]product.Product, error) {
	if f.listFunc != nil {
		return f.listFunc(ctx)
	}
	return nil, nil
}
func (f *fakeProducts) GetByID(ctx context.Context, id string) (*product.Product, error) {
	if f.getByIDFunc != nil {
		return f.getByIDFunc(ctx, id)
	}
	return nil, product.ErrNotFound
}
func (f *fakeProducts) Update(ctx context.Context, p *product.Product) error {
	if f.updateFunc != nil {
		return f.updateFunc(ctx, p)
	}
	return nil
}
func (f *fakeProducts) Delete(ctx context.Context, id string) error {
	if f.deleteFunc != nil {
		return f.deleteFunc(ctx, id)
	}
	return nil
}

type fakeCarts struct {
	getByUserFunc       func(ctx context.Context, userID string) (*cart.Cart, error)
	addItemFunc         func(ctx context.Context, userID, productID string, quantity int) (*cart.Cart, error)
	removeItemFunc      func(ctx context.Context, userID, productID string) error
	setItemQuantityFunc func(ctx context.Context, userID, productID string, quantity int) error
	clearFunc           func(ctx context.Context, userID string) error
}

func (f *fakeCarts) GetByUser(ctx context.Context, userID string) (*cart.Cart, error) {
	if f.getByUserFunc != nil {
		return f.getByUserFunc(ctx, userID)
	}
	return &cart.Cart{UserID: userID, Items: []cart.Item{}}, nil
}
func (f *fakeCarts) AddItem(ctx context.Context, userID, productID string, quantity int) (*cart.Cart, error) {
	if f.addItemFunc != nil {
		return f.addItemFunc(ctx, userID, productID, quantity)
	}
	return &cart.Cart{UserID: userID, Items: []cart.Item{{ProductID: productID, Quantity: quantity}}}, nil
}
func (f *fakeCarts) RemoveItem(ctx context.Context, userID, productID string) error {
	if f.removeItemFunc != nil {
		return f.removeItemFunc(ctx, userID, productID)
	}
	return nil
}
func (f *fakeCarts) SetItemQuantity(ctx context.Context, userID, productID string, quantity int) error {
	if f.setItemQuantityFunc != nil {
		return f.setItemQuantityFunc(ctx, userID, productID, quantity)
	}
	return nil
}
func (f *fakeCarts) Clear(ctx context.Context, userID string) error {
	if f.clearFunc != nil {
		return f.clearFunc(ctx, userID)
	}
	return nil
}

type fakeOrders struct {
	listByUserFunc func(ctx context.Context, userID string) ([]order.Order, error)
}

func (f *fakeOrders) Create(ctx context.Context, o *order.Order) error { return nil }
func (f *fakeOrders) CreateTx(ctx context.Context, tx *sql.Tx, o *order.Order) error {
	return nil
}
func (f *fakeOrders) GetByID(ctx context.Context, orderID string) (*order.Order, error) {
	return nil, order.ErrNotFound
}
func (f *fakeOrders) ListByUser(ctx context.Context, userID string) ([]order.Order, error) {
	if f.listByUserFunc != nil {
		return f.listByUserFunc(ctx, userID)
	}
	return nil, nil
}

type fakeCheckout struct {
	previewFunc    func(ctx context.Context, userID string) (*checkout.Summary, error)
	placeOrderFunc func(ctx context.Context, userID string) (*order.Order, error)
}

func (f *fakeCheckout) Preview(ctx context.Context, userID string) (*checkout.Summary, error) {
	if f.previewFunc != nil {
		return f.previewFunc(ctx, userID)
	}
	return &checkout.Summary{}, nil
}
func (f *fakeCheckout) PlaceOrder(ctx context.Context, userID string) (*order.Order, error) {
	if f.placeOrderFunc != nil {
		return f.placeOrderFunc(ctx, userID)
	}
	return &order.Order{}, nil
}

type fakePublisher struct {
	published []*order.Order
	err       error
}

func (f *fakePublisher) PublishOrderPlaced(ctx context.Context, o *order.Order) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, o)
	return nil
}

type testDeps struct {
	users     *fakeUsers
	products  *fakeProducts
	carts     *fakeCarts
	orders    *fakeOrders
	checkout  *fakeCheckout
	publisher *fakePublisher
	tokens    *auth.Manager
}

func newTestDeps() *testDeps {
	return &testDeps{
		users:     &fakeUsers{},
		products:  &fakeProducts{},
		carts:     &fakeCarts{},
		orders:    &fakeOrders{},
		checkout:  &fakeCheckout{},
		publisher: &fakePublisher{},
		tokens:    auth.NewManager("test-secret", time.Hour),
	}
}

func (d *testDeps) router() http.Handler {
	logger := log.New(io.Discard, "", 0)
	return NewRouter(Handlers{
		Products:    NewProductHandler(d.products),
		Users:       NewUserHandler(d.users, d.tokens),
		Cart:        NewCartHandler(d.carts, d.products),
		Checkout:    NewCheckoutHandler(d.checkout, d.users, d.orders, d.publisher, logger),
		RequireAuth: auth.RequireAuth(d.tokens),
	})
}

func (d *testDeps) token(t *testing.T, userID string) string {
	t.Helper()
	token, err := d.tokens.Issue(userID)
	require.NoError(t, err)
	return token
}

func doJSON(t *testing.T, router http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}
