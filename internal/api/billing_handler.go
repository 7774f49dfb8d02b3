package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/daygo-app/daygo/internal/billing"
	"github.com/daygo-app/daygo/internal/subscription"
	"github.com/daygo-app/daygo/internal/user"
	"github.com/stripe/stripe-go/v84"
)

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode JSON response: %v", err)
	}
}

func writeJSONStatus(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode JSON response: %v", err)
	}
}

type errorResponse struct {
	Error      string `json:"error"`
	Details    string `json:"details,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

// CheckoutService is the slice of the billing client the checkout endpoint
// needs.
type CheckoutService interface {
	CreateSubscriptionCheckout(ctx context.Context, customerID, userID string, tier *billing.SubscriptionTier, successURL, cancelURL string) (*stripe.CheckoutSession, error)
}

// SyncService recomputes a user's tier from the billing provider.
type SyncService interface {
	Sync(ctx context.Context, userID, email string) (*subscription.SyncResult, error)
}

type BillingHandler struct {
	checkout   CheckoutService
	reconciler SyncService
}

func NewBillingHandler(checkout CheckoutService, reconciler SyncService) *BillingHandler {
	return &BillingHandler{checkout: checkout, reconciler: reconciler}
}

type CreateCheckoutRequest struct {
	TierID     string `json:"tier_id"`
	SuccessURL string `json:"success_url"`
	CancelURL  string `json:"cancel_url"`
}

type CreateCheckoutResponse struct {
	CheckoutURL string `json:"checkout_url"`
	SessionID   string `json:"session_id"`
}

type SubscriptionStatusResponse struct {
	Tier           string  `json:"tier"`
	Status         *string `json:"status,omitempty"`
	SubscriptionID *string `json:"subscription_id,omitempty"`
}

type TierResponse struct {
	ID                string `json:"id"`
	DisplayName       string `json:"display_name"`
	Description       string `json:"description"`
	MonthlyPriceCents int64  `json:"monthly_price_cents"`
}

// SyncSubscription recomputes the caller's tier straight from Stripe. Unlike
// the webhook path, failures here are surfaced: there is no redelivery
// mechanism to protect, and the caller asked for fresh state.
func (h *BillingHandler) SyncSubscription(w http.ResponseWriter, r *http.Request) {
	dbUser, ok := user.GetDBUserFromContext(r.Context())
	if !ok {
		writeJSONStatus(w, http.StatusBadRequest, errorResponse{Error: "User not found"})
		return
	}

	result, err := h.reconciler.Sync(r.Context(), dbUser.ID, dbUser.Email)
	if err != nil {
		log.Printf("Subscription sync failed for user %s: %v", dbUser.ID, err)
		if errors.Is(err, billing.ErrProvider) {
			writeJSONStatus(w, http.StatusBadGateway, errorResponse{
				Error:      "Billing provider unavailable",
				Details:    err.Error(),
				Suggestion: "Retry in a few minutes",
			})
			return
		}
		writeJSONStatus(w, http.StatusInternalServerError, errorResponse{
			Error:   "Failed to update subscription records",
			Details: err.Error(),
		})
		return
	}

	writeJSON(w, result)
}

func (h *BillingHandler) GetSubscriptionStatus(w http.ResponseWriter, r *http.Request) {
	dbUser, ok := user.GetDBUserFromContext(r.Context())
	if !ok {
		writeJSONStatus(w, http.StatusBadRequest, errorResponse{Error: "User not found"})
		return
	}

	tier := string(billing.TierFree)
	if dbUser.SubscriptionTier != nil {
		tier = *dbUser.SubscriptionTier
	}

	writeJSON(w, SubscriptionStatusResponse{
		Tier:           tier,
		Status:         dbUser.SubscriptionStatus,
		SubscriptionID: dbUser.StripeSubscriptionID,
	})
}

func (h *BillingHandler) ListTiers(w http.ResponseWriter, r *http.Request) {
	tiers := make([]TierResponse, 0, len(billing.TierOrder))
	for _, id := range billing.TierOrder {
		t := billing.Tiers[id]
		tiers = append(tiers, TierResponse{
			ID:                string(t.ID),
			DisplayName:       t.DisplayName,
			Description:       t.Description,
			MonthlyPriceCents: t.MonthlyPriceCents,
		})
	}

	writeJSON(w, tiers)
}

func (h *BillingHandler) CreateSubscriptionCheckout(w http.ResponseWriter, r *http.Request) {
	dbUser, ok := user.GetDBUserFromContext(r.Context())
	if !ok || dbUser.StripeCustomerID == nil {
		writeJSONStatus(w, http.StatusBadRequest, errorResponse{Error: "User not found or missing Stripe customer"})
		return
	}

	var req CreateCheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONStatus(w, http.StatusBadRequest, errorResponse{Error: "Invalid request body"})
		return
	}

	tier := billing.GetTier(billing.Tier(req.TierID))
	if tier == nil {
		writeJSONStatus(w, http.StatusBadRequest, errorResponse{Error: "Invalid tier_id"})
		return
	}

	if req.SuccessURL == "" || req.CancelURL == "" {
		writeJSONStatus(w, http.StatusBadRequest, errorResponse{Error: "success_url and cancel_url are required"})
		return
	}

	session, err := h.checkout.CreateSubscriptionCheckout(r.Context(), *dbUser.StripeCustomerID, dbUser.ID, tier, req.SuccessURL, req.CancelURL)
	if err != nil {
		log.Printf("Failed to create subscription checkout: %v", err)
		writeJSONStatus(w, http.StatusInternalServerError, errorResponse{Error: "Failed to create checkout session"})
		return
	}

	writeJSON(w, CreateCheckoutResponse{
		CheckoutURL: session.URL,
		SessionID:   session.ID,
	})
}
