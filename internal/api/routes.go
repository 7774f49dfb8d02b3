package api

import (
	"github.com/daygo-app/daygo/internal/auth"
	"github.com/daygo-app/daygo/internal/user"
	"github.com/gorilla/mux"
)

func SetupRoutes(
	webhookHandler *WebhookHandler,
	billingHandler *BillingHandler,
	authMiddleware *auth.Middleware,
	userService user.Service,
	allowedOrigin string,
) *mux.Router {
	r := mux.NewRouter()

	r.Use(CORSMiddleware(allowedOrigin))
	r.Use(LoggingMiddleware)
	r.Use(RecoveryMiddleware)

	// The webhook authenticates via its signature, not a bearer token.
	r.HandleFunc("/api/v1/billing/webhook", webhookHandler.HandleWebhook).Methods("POST")
	r.HandleFunc("/api/v1/billing/tiers", billingHandler.ListTiers).Methods("GET")

	authed := r.PathPrefix("/api/v1/billing").Subrouter()
	authed.Use(authMiddleware.RequireAuth)
	authed.Use(user.UserMiddleware(userService))
	authed.HandleFunc("/sync", billingHandler.SyncSubscription).Methods("POST")
	authed.HandleFunc("/status", billingHandler.GetSubscriptionStatus).Methods("GET")
	authed.HandleFunc("/checkout", billingHandler.CreateSubscriptionCheckout).Methods("POST")

	return r
}
