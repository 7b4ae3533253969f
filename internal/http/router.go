package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type Handlers struct {
	Products *ProductHandler
	Users    *UserHandler
	Cart     *CartHandler
	Checkout *CheckoutHandler

	// RequireAuth guards every route that needs an authenticated user.
	RequireAuth func(http.Handler) http.Handler
}

func NewRouter(h Handlers) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)

	r.Get("/health", healthHandler)

	r.Post("/api/signup", h.Users.Signup)
	r.Post("/api/login", h.Users.Login)

	r.Route("/api/products", func(r chi.Router) {
		r.Post("/", h.Products.Create)
		r.Get("/", h.Products.List)
		r.Get("/{id}", h.Products.Get)
		r.Put("/{id}", h.Products.Update)
		r.Delete("/{id}", h.Products.Delete)
	})

	r.Group(func(r chi.Router) {
		r.Use(h.RequireAuth)

		r.Get("/api/users/profile", h.Users.Profile)
		r.Put("/api/users/{id}", h.Users.UpdateProfile)

		r.Route("/api/users/cart", func(r chi.Router) {
			r.Get("/", h.Cart.GetCart)
			r.Delete("/", h.Cart.ClearCart)
			r.Post("/items", h.Cart.AddItem)
			r.Put("/items/{productId}", h.Cart.UpdateItem)
			r.Delete("/items/{productId}", h.Cart.RemoveItem)
		})

		r.Get("/api/users/checkout", h.Checkout.Preview)
		r.Post("/api/users/orders", h.Checkout.PlaceOrder)
		r.Get("/api/users/orders", h.Checkout.ListOrders)
	})

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "ecommerce-server"})
}
