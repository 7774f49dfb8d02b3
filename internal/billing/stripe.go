package billing

import (
	"context"
	"fmt"

	"github.com/daygo-app/daygo/internal/config"
	"github.com/stripe/stripe-go/v84"
	"github.com/stripe/stripe-go/v84/webhook"
)

type Billing struct {
	sc            *stripe.Client
	webhookSecret string
}

func NewBilling(cfg *config.Config) *Billing {
	sc := stripe.NewClient(cfg.StripeSecretKey)
	return &Billing{
		sc:            sc,
		webhookSecret: cfg.StripeWebhookSecret,
	}
}

// VerifyWebhookSignature authenticates a webhook delivery. The payload must
// be the exact raw request bytes; re-serialized JSON breaks the signature.
func (b *Billing) VerifyWebhookSignature(payload []byte, signature string) (*stripe.Event, error) {
	if b.webhookSecret == "" {
		return nil, ErrMissingSecret
	}
	if signature == "" {
		return nil, ErrMissingSignature
	}

	event, err := webhook.ConstructEventWithOptions(payload, signature, b.webhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	return &event, nil
}

func (b *Billing) GetSubscription(ctx context.Context, subscriptionID string) (*stripe.Subscription, error) {
	sub, err := b.sc.V1Subscriptions.Retrieve(ctx, subscriptionID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve subscription %s: %w", subscriptionID, err)
	}
	return sub, nil
}

// FindCustomerByEmail returns the first Stripe customer with the given email,
// or nil when none exists.
func (b *Billing) FindCustomerByEmail(ctx context.Context, email string) (*stripe.Customer, error) {
	params := &stripe.CustomerListParams{Email: stripe.String(email)}
	for c, err := range b.sc.V1Customers.List(ctx, params) {
		if err != nil {
			return nil, fmt.Errorf("failed to list customers: %w", err)
		}
		return c, nil
	}
	return nil, nil
}

func (b *Billing) ListActiveSubscriptions(ctx context.Context, customerID string) ([]*stripe.Subscription, error) {
	params := &stripe.SubscriptionListParams{
		Customer: stripe.String(customerID),
		Status:   stripe.String("active"),
	}
	var subs []*stripe.Subscription
	for s, err := range b.sc.V1Subscriptions.List(ctx, params) {
		if err != nil {
			return nil, fmt.Errorf("failed to list subscriptions: %w", err)
		}
		subs = append(subs, s)
	}
	return subs, nil
}

// FindCheckoutSessionBySubscription looks up the checkout session that
// created a subscription. Used as a metadata fallback: Stripe fires
// customer.subscription.created before our checkout metadata is attached to
// the subscription, but the session always carries it.
func (b *Billing) FindCheckoutSessionBySubscription(ctx context.Context, subscriptionID string) (*stripe.CheckoutSession, error) {
	params := &stripe.CheckoutSessionListParams{Subscription: stripe.String(subscriptionID)}
	for s, err := range b.sc.V1CheckoutSessions.List(ctx, params) {
		if err != nil {
			return nil, fmt.Errorf("failed to list checkout sessions: %w", err)
		}
		return s, nil
	}
	return nil, nil
}

func (b *Billing) CreateCustomer(ctx context.Context, userID, email string) (*stripe.Customer, error) {
	params := &stripe.CustomerCreateParams{
		Email:    stripe.String(email),
		Metadata: map[string]string{MetadataUserID: userID},
	}
	return b.sc.V1Customers.Create(ctx, params)
}

// CreateSubscriptionCheckout starts a Stripe Checkout flow for a paid tier.
// The userId/tier metadata stamped here is what the webhook pipeline later
// reads to know which user the subscription belongs to.
func (b *Billing) CreateSubscriptionCheckout(ctx context.Context, customerID, userID string, tier *SubscriptionTier, successURL, cancelURL string) (*stripe.CheckoutSession, error) {
	metadata := map[string]string{
		MetadataUserID: userID,
		MetadataTier:   string(tier.ID),
	}
	params := &stripe.CheckoutSessionCreateParams{
		Customer: stripe.String(customerID),
		Mode:     stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionCreateLineItemParams{
			{
				Price:    stripe.String(tier.PriceID),
				Quantity: stripe.Int64(1),
			},
		},
		SubscriptionData: &stripe.CheckoutSessionCreateSubscriptionDataParams{
			Metadata: metadata,
		},
		Metadata:   metadata,
		SuccessURL: stripe.String(successURL),
		CancelURL:  stripe.String(cancelURL),
	}
	return b.sc.V1CheckoutSessions.Create(ctx, params)
}

func (b *Billing) CancelSubscription(ctx context.Context, subscriptionID string) (*stripe.Subscription, error) {
	return b.sc.V1Subscriptions.Cancel(ctx, subscriptionID, nil)
}
