package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/daygo-app/daygo/internal/billing"
	"github.com/daygo-app/daygo/internal/logger"
	"github.com/stripe/stripe-go/v84"
)

// WebhookProvider is the slice of the billing client the webhook pipeline
// needs: signature verification plus the follow-up fetches for invoice
// events and the checkout-session metadata fallback.
type WebhookProvider interface {
	VerifyWebhookSignature(payload []byte, signature string) (*stripe.Event, error)
	GetSubscription(ctx context.Context, subscriptionID string) (*stripe.Subscription, error)
	FindCheckoutSessionBySubscription(ctx context.Context, subscriptionID string) (*stripe.CheckoutSession, error)
}

// StateWriter persists a resolved tier for a user.
type StateWriter interface {
	Apply(ctx context.Context, res billing.Resolution) error
}

type WebhookHandler struct {
	provider  WebhookProvider
	writer    StateWriter
	bodyLimit int64
}

func NewWebhookHandler(provider WebhookProvider, writer StateWriter, bodyLimit int64) *WebhookHandler {
	return &WebhookHandler{
		provider:  provider,
		writer:    writer,
		bodyLimit: bodyLimit,
	}
}

type webhookResponse struct {
	Received  bool   `json:"received"`
	EventID   string `json:"eventId"`
	EventType string `json:"eventType"`
}

// HandleWebhook processes a Stripe webhook delivery. Outcomes that are not
// genuine processing failures (unhandled event types, missing metadata, even
// write failures) answer 200 so Stripe does not redeliver; Stripe retries on
// any non-2xx and the writes are idempotent anyway.
func (h *WebhookHandler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.bodyLimit)
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read body", http.StatusBadRequest)
		return
	}

	signature := r.Header.Get("Stripe-Signature")
	event, err := h.provider.VerifyWebhookSignature(payload, signature)
	if err != nil {
		if errors.Is(err, billing.ErrMissingSecret) {
			logger.Log.Error("webhook secret not configured")
			http.Error(w, "Webhook not configured", http.StatusInternalServerError)
			return
		}
		logger.Log.Warn("webhook signature rejected", "error", err.Error())
		http.Error(w, "Invalid signature", http.StatusBadRequest)
		return
	}

	response := webhookResponse{
		Received:  true,
		EventID:   event.ID,
		EventType: string(event.Type),
	}

	transition := billing.Classify(event.Type)
	if transition == billing.TransitionUnhandled {
		logger.Log.Info("unhandled webhook event", "event_id", event.ID, "type", event.Type)
		writeJSON(w, response)
		return
	}

	state, ok, err := h.subscriptionState(r.Context(), transition, event)
	if err != nil {
		// The delivery was authentic and understood; losing this update is
		// recoverable via reconciliation, so don't trigger a redelivery storm.
		logger.Log.Error("webhook processing failed", "event_id", event.ID, "type", event.Type, "error", err.Error())
		writeJSON(w, response)
		return
	}
	if !ok {
		logger.Log.Info("webhook event carries no subscription", "event_id", event.ID, "type", event.Type)
		writeJSON(w, response)
		return
	}

	res, ok := billing.Resolve(transition, state)
	if !ok {
		logger.Log.Info("webhook subscription has no usable metadata",
			"event_id", event.ID, "subscription_id", state.ID)
		writeJSON(w, response)
		return
	}

	if err := h.writer.Apply(r.Context(), res); err != nil {
		logger.Log.Error("failed to write subscription state",
			"event_id", event.ID, "user_id", res.UserID, "error", err.Error())
		writeJSON(w, response)
		return
	}

	logger.Log.Info("subscription state updated",
		"event_id", event.ID, "user_id", res.UserID, "tier", string(res.Tier), "status", res.Status)
	writeJSON(w, response)
}

func (h *WebhookHandler) subscriptionState(ctx context.Context, transition billing.Transition, event *stripe.Event) (billing.SubscriptionState, bool, error) {
	if transition.RequiresSubscriptionFetch() {
		invoice, err := parseEventData[invoiceEvent](event)
		if err != nil {
			return billing.SubscriptionState{}, false, fmt.Errorf("failed to parse invoice: %w", err)
		}
		if invoice.Subscription == "" {
			return billing.SubscriptionState{}, false, nil
		}

		sub, err := h.provider.GetSubscription(ctx, invoice.Subscription)
		if err != nil {
			return billing.SubscriptionState{}, false, err
		}
		return billing.SubscriptionState{
			ID:       sub.ID,
			Status:   string(sub.Status),
			Metadata: sub.Metadata,
		}, true, nil
	}

	sub, err := parseEventData[subscriptionEvent](event)
	if err != nil {
		return billing.SubscriptionState{}, false, fmt.Errorf("failed to parse subscription: %w", err)
	}

	state := billing.SubscriptionState{
		ID:       sub.ID,
		Status:   sub.Status,
		Metadata: sub.Metadata,
	}
	if state.Metadata[billing.MetadataUserID] == "" || state.Metadata[billing.MetadataTier] == "" {
		state.Metadata = h.metadataFromCheckoutSession(ctx, state)
	}
	return state, true, nil
}

// metadataFromCheckoutSession recovers userId/tier from the checkout session
// when the subscription itself does not carry them yet. Stripe can fire
// customer.subscription.created before checkout metadata lands on the
// subscription object.
func (h *WebhookHandler) metadataFromCheckoutSession(ctx context.Context, state billing.SubscriptionState) map[string]string {
	session, err := h.provider.FindCheckoutSessionBySubscription(ctx, state.ID)
	if err != nil {
		logger.Log.Warn("checkout session lookup failed", "subscription_id", state.ID, "error", err.Error())
		return state.Metadata
	}
	if session == nil {
		return state.Metadata
	}

	merged := make(map[string]string, len(state.Metadata)+len(session.Metadata))
	for k, v := range session.Metadata {
		merged[k] = v
	}
	for k, v := range state.Metadata {
		if v != "" {
			merged[k] = v
		}
	}
	return merged
}

func parseEventData[T any](event *stripe.Event) (*T, error) {
	var data T
	if err := json.Unmarshal(event.Data.Raw, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

type subscriptionEvent struct {
	ID       string            `json:"id"`
	Status   string            `json:"status"`
	Metadata map[string]string `json:"metadata"`
}

type invoiceEvent struct {
	Subscription string `json:"subscription"`
}
