package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aswin-111/ecommerce-server/internal/checkout"
	"github.com/Aswin-111/ecommerce-server/internal/order"
	"github.com/Aswin-111/ecommerce-server/internal/user"
)

func TestPreview(t *testing.T) {
	deps := newTestDeps()
	deps.users.getByIDFunc = func(ctx context.Context, id string) (*user.User, error) {
		return &user.User{ID: id, FName: "Ada", City: "Copenhagen"}, nil
	}
	deps.checkout.previewFunc = func(ctx context.Context, userID string) (*checkout.Summary, error) {
		return &checkout.Summary{
			Items: []checkout.Line{{
				ProductID: "P1",
				Quantity:  2,
				UnitPrice: decimal.RequireFromString("9.99"),
				LineTotal: decimal.RequireFromString("19.98"),
			}},
			Unresolved: []string{"P404"},
			Total:      decimal.RequireFromString("19.98"),
		}, nil
	}

	rec := doJSON(t, deps.router(), http.MethodGet, "/api/users/checkout", deps.token(t, "u1"), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		User       map[string]string `json:"user"`
		Unresolved []string          `json:"unresolved"`
		Total      decimal.Decimal   `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Ada", resp.User["fname"])
	assert.Equal(t, []string{"P404"}, resp.Unresolved)
	assert.True(t, resp.Total.Equal(decimal.RequireFromString("19.98")))
}

func TestPlaceOrder_Success(t *testing.T) {
	deps := newTestDeps()
	placed := &order.Order{
		ID:        "ORDER-1-abc",
		UserID:    "u1",
		Total:     decimal.RequireFromString("19.98"),
		CreatedAt: time.Unix(0, 0),
	}
	deps.checkout.placeOrderFunc = func(ctx context.Context, userID string) (*order.Order, error) {
		return placed, nil
	}

	rec := doJSON(t, deps.router(), http.MethodPost, "/api/users/orders", deps.token(t, "u1"), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		OrderID string          `json:"orderId"`
		Total   decimal.Decimal `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ORDER-1-abc", resp.OrderID)
	assert.True(t, resp.Total.Equal(placed.Total))

	require.Len(t, deps.publisher.published, 1, "successful checkout must publish OrderPlaced")
	assert.Equal(t, "ORDER-1-abc", deps.publisher.published[0].ID)
}

func TestPlaceOrder_PublishFailureStillSucceeds(t *testing.T) {
	deps := newTestDeps()
	deps.checkout.placeOrderFunc = func(ctx context.Context, userID string) (*order.Order, error) {
		return &order.Order{ID: "ORDER-2"}, nil
	}
	deps.publisher.err = errors.New("broker down")

	rec := doJSON(t, deps.router(), http.MethodPost, "/api/users/orders", deps.token(t, "u1"), nil)
	assert.Equal(t, http.StatusOK, rec.Code, "order is durable; publish failure must not fail the request")
}

func TestPlaceOrder_EmptyCart(t *testing.T) {
	deps := newTestDeps()
	deps.checkout.placeOrderFunc = func(ctx context.Context, userID string) (*order.Order, error) {
		return nil, checkout.ErrEmptyCart
	}

	rec := doJSON(t, deps.router(), http.MethodPost, "/api/users/orders", deps.token(t, "u1"), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, deps.publisher.published)
}

func TestPlaceOrder_Conflict(t *testing.T) {
	deps := newTestDeps()
	deps.checkout.placeOrderFunc = func(ctx context.Context, userID string) (*order.Order, error) {
		return nil, checkout.ErrCartConflict
	}

	rec := doJSON(t, deps.router(), http.MethodPost, "/api/users/orders", deps.token(t, "u1"), nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestListOrders_NewestFirstFromStore(t *testing.T) {
	deps := newTestDeps()
	deps.orders.listByUserFunc = func(ctx context.Context, userID string) ([]order.Order, error) {
		return []order.Order{
			{ID: "ORDER-2", UserID: userID},
			{ID: "ORDER-1", UserID: userID},
		}, nil
	}

	rec := doJSON(t, deps.router(), http.MethodGet, "/api/users/orders", deps.token(t, "u1"), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var orders []order.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &orders))
	require.Len(t, orders, 2)
	assert.Equal(t, "ORDER-2", orders[0].ID)
}

func TestListOrders_EmptyIsArray(t *testing.T) {
	deps := newTestDeps()

	rec := doJSON(t, deps.router(), http.MethodGet, "/api/users/orders", deps.token(t, "u1"), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}
