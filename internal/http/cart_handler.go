package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Aswin-111/ecommerce-server/internal/auth"
	"github.com/Aswin-111/ecommerce-server/internal/cart"
	"github.com/Aswin-111/ecommerce-server/internal/product"
)

type CartHandler struct {
	carts    cart.Repository
	products product.Repository
}

func NewCartHandler(carts cart.Repository, products product.Repository) *CartHandler {
	return &CartHandler{carts: carts, products: products}
}

// cartLine is a cart item joined with its product. Product is null when the
// referenced product no longer exists; the client decides how to show that.
type cartLine struct {
	ProductID string           `json:"productId"`
	Quantity  int              `json:"quantity"`
	Product   *product.Product `json:"product"`
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	c, err := h.carts.GetByUser(ctx, userID)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	lines := make([]cartLine, 0, len(c.Items))
	for _, it := range c.Items {
		line := cartLine{ProductID: it.ProductID, Quantity: it.Quantity}
		p, err := h.products.GetByID(ctx, it.ProductID)
		switch {
		case err == nil:
			line.Product = p
		case errors.Is(err, product.ErrNotFound):
			// keep the line, product stays null
		default:
			writeStoreError(w, err)
			return
		}
		lines = append(lines, line)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"userId": c.UserID,
		"items":  lines,
	})
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	var body struct {
		ProductID string `json:"productId"`
		Quantity  int    `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if body.ProductID == "" {
		writeError(w, http.StatusBadRequest, "missing productId")
		return
	}
	if body.Quantity == 0 {
		body.Quantity = 1
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	c, err := h.carts.AddItem(ctx, userID, body.ProductID, body.Quantity)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	productID := chi.URLParam(r, "productId")

	var body struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.carts.SetItemQuantity(ctx, userID, productID, body.Quantity); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Cart quantity updated successfully"})
}

// ClearCart empties the cart. Clearing an already-empty cart succeeds.
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.carts.Clear(ctx, userID); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Cart cleared successfully"})
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	productID := chi.URLParam(r, "productId")

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.carts.RemoveItem(ctx, userID, productID); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Product removed from cart successfully"})
}
