package httpapi

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/Aswin-111/ecommerce-server/internal/auth"
	"github.com/Aswin-111/ecommerce-server/internal/checkout"
	"github.com/Aswin-111/ecommerce-server/internal/events"
	"github.com/Aswin-111/ecommerce-server/internal/order"
	"github.com/Aswin-111/ecommerce-server/internal/user"
)

type CheckoutService interface {
	Preview(ctx context.Context, userID string) (*checkout.Summary, error)
	PlaceOrder(ctx context.Context, userID string) (*order.Order, error)
}

type CheckoutHandler struct {
	svc       CheckoutService
	users     user.Repository
	orders    order.Repository
	publisher events.Publisher
	logger    *log.Logger
}

func NewCheckoutHandler(svc CheckoutService, users user.Repository, orders order.Repository, publisher events.Publisher, logger *log.Logger) *CheckoutHandler {
	return &CheckoutHandler{svc: svc, users: users, orders: orders, publisher: publisher, logger: logger}
}

// Preview prices the cart and returns the shipping details needed on the
// checkout page. Nothing is mutated.
func (h *CheckoutHandler) Preview(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	u, err := h.users.GetByID(ctx, userID)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	sum, err := h.svc.Preview(ctx, userID)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"user": map[string]string{
			"fname":   u.FName,
			"lname":   u.LName,
			"address": u.Address,
			"city":    u.City,
			"state":   u.State,
			"zipCode": u.ZipCode,
			"country": u.Country,
		},
		"items":      sum.Items,
		"unresolved": sum.Unresolved,
		"total":      sum.Total,
	})
}

func (h *CheckoutHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	o, err := h.svc.PlaceOrder(ctx, userID)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	// The order is durable at this point; a publish failure is an ops
	// problem, not the customer's.
	if err := h.publisher.PublishOrderPlaced(ctx, o); err != nil {
		h.logger.Printf("publish OrderPlaced %s: %v", o.ID, err)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Order placed successfully",
		"orderId": o.ID,
		"total":   o.Total,
		"order":   o,
	})
}

func (h *CheckoutHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	orders, err := h.orders.ListByUser(ctx, userID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if orders == nil {
		orders = []order.Order{}
	}
	writeJSON(w, http.StatusOK, orders)
}
