package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/daygo-app/daygo/internal/api"
	"github.com/daygo-app/daygo/internal/auth"
	"github.com/daygo-app/daygo/internal/billing"
	"github.com/daygo-app/daygo/internal/config"
	"github.com/daygo-app/daygo/internal/db"
	"github.com/daygo-app/daygo/internal/subscription"
	"github.com/daygo-app/daygo/internal/user"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	database := db.NewBunPostgresClient(cfg.DatabaseURL)
	defer database.Close()

	bill := billing.NewBilling(cfg)

	if cfg.StripeSecretKey != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := bill.EnsureCatalog(ctx); err != nil {
			// Checkout needs the catalog; webhook processing does not.
			log.Printf("Stripe catalog sync failed: %v", err)
		}
		cancel()
	}

	userRepo := user.NewUserRepository(database)
	if err := userRepo.InitializeDatabase(context.Background()); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	userService := user.NewUserService(userRepo, bill)

	writer := subscription.NewWriter(database)
	reconciler := subscription.NewReconciler(bill, writer)

	jwtVerifier, err := auth.NewJWTVerifier(cfg.AuthJWKSURL)
	if err != nil {
		log.Fatalf("Failed to create JWT verifier: %v", err)
	}
	defer jwtVerifier.Close()
	authMiddleware := auth.NewMiddleware(jwtVerifier)

	webhookHandler := api.NewWebhookHandler(bill, writer, int64(cfg.WebhookBodyLimit))
	billingHandler := api.NewBillingHandler(bill, reconciler)

	router := api.SetupRoutes(webhookHandler, billingHandler, authMiddleware, userService, cfg.FEBaseURL)

	srv := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	log.Printf("Server starting on %s", cfg.ServerAddr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Server failed to start: %v", err)
	}

	log.Println("Server stopped")
}
