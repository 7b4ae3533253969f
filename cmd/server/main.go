package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/Aswin-111/ecommerce-server/internal/auth"
	"github.com/Aswin-111/ecommerce-server/internal/cart"
	"github.com/Aswin-111/ecommerce-server/internal/checkout"
	"github.com/Aswin-111/ecommerce-server/internal/config"
	"github.com/Aswin-111/ecommerce-server/internal/db"
	"github.com/Aswin-111/ecommerce-server/internal/events"
	httpapi "github.com/Aswin-111/ecommerce-server/internal/http"
	"github.com/Aswin-111/ecommerce-server/internal/order"
	"github.com/Aswin-111/ecommerce-server/internal/product"
	"github.com/Aswin-111/ecommerce-server/internal/user"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	logger := log.New(os.Stdout, "[ecommerce-server] ", log.LstdFlags|log.Lshortfile)

	// --- DB ---
	database, err := db.Open(cfg.DatabaseDSN)
	if err != nil {
		logger.Fatalf("db connect: %v", err)
	}
	defer database.Close()

	if cfg.RunMigrations {
		if err := db.RunMigrations(cfg.DatabaseDSN, logger); err != nil {
			logger.Fatalf("db migrate: %v", err)
		}
	}

	productRepo := product.NewRepository(database)
	userRepo := user.NewRepository(database)
	cartRepo := cart.NewRepository(database)
	orderRepo := order.NewRepository(database)

	checkoutStore := checkout.NewPostgresStore(database, orderRepo)
	checkoutSvc := checkout.NewService(userRepo, productRepo, cartRepo, checkoutStore)

	// --- AMQP (optional) ---
	var publisher events.Publisher = events.NoopPublisher{}
	if cfg.RabbitMQURL != "" {
		conn, err := events.Dial(cfg.RabbitMQURL)
		if err != nil {
			logger.Fatalf("rabbitmq connect: %v", err)
		}
		defer conn.Close()

		amqpPublisher, err := events.NewAMQPPublisher(conn)
		if err != nil {
			logger.Fatalf("rabbitmq publisher: %v", err)
		}
		defer amqpPublisher.Close()
		publisher = amqpPublisher
	}

	// --- HTTP ---
	tokens := auth.NewManager(cfg.JWTSecret, cfg.TokenTTL)
	router := httpapi.NewRouter(httpapi.Handlers{
		Products:    httpapi.NewProductHandler(productRepo),
		Users:       httpapi.NewUserHandler(userRepo, tokens),
		Cart:        httpapi.NewCartHandler(cartRepo, productRepo),
		Checkout:    httpapi.NewCheckoutHandler(checkoutSvc, userRepo, orderRepo, publisher, logger),
		RequireAuth: auth.RequireAuth(tokens),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Printf("listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// --- graceful shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Printf("shutdown signal: %s", sig)
	case err := <-errCh:
		logger.Printf("fatal error: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)

	logger.Printf("shutdown complete")
}
