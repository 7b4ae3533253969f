package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/Aswin-111/ecommerce-server/internal/product"
)

type ProductHandler struct {
	products product.Repository
}

func NewProductHandler(products product.Repository) *ProductHandler {
	return &ProductHandler{products: products}
}

type productRequest struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	ImageURL    string           `json:"imageUrl"`
	Category    string           `json:"category"`
	ModelURL    string           `json:"modelUrl"`
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var body productRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if body.Price == nil {
		writeError(w, http.StatusBadRequest, "price is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	p := &product.Product{
		Name:        body.Name,
		Description: body.Description,
		Price:       *body.Price,
		ImageURL:    body.ImageURL,
		Category:    body.Category,
		ModelURL:    body.ModelURL,
	}
	if err := h.products.Create(ctx, p); err != nil {
		writeStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, p)
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	products, err := h.products.List(ctx)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if products == nil {
		products = []product.Product{}
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	p, err := h.products.GetByID(ctx, id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var body productRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if body.Price == nil {
		writeError(w, http.StatusBadRequest, "price is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	p := &product.Product{
		ID:          id,
		Name:        body.Name,
		Description: body.Description,
		Price:       *body.Price,
		ImageURL:    body.ImageURL,
		Category:    body.Category,
		ModelURL:    body.ModelURL,
	}
	if err := h.products.Update(ctx, p); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.products.Delete(ctx, id); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Product deleted successfully!"})
}
