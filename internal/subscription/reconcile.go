package subscription

import (
	"context"
	"fmt"

	"github.com/daygo-app/daygo/internal/billing"
	"github.com/stripe/stripe-go/v84"
)

// ProviderClient is the slice of the billing client the reconciler needs.
type ProviderClient interface {
	FindCustomerByEmail(ctx context.Context, email string) (*stripe.Customer, error)
	ListActiveSubscriptions(ctx context.Context, customerID string) ([]*stripe.Subscription, error)
}

// StateWriter persists a resolved tier for a user.
type StateWriter interface {
	Apply(ctx context.Context, res billing.Resolution) error
}

type SyncResult struct {
	Tier           billing.Tier `json:"tier"`
	SubscriptionID string       `json:"subscriptionId,omitempty"`
	Status         string       `json:"status,omitempty"`
	Message        string       `json:"message"`
}

// Reconciler recomputes a user's tier straight from Stripe, bypassing the
// webhook stream. Used to recover from missed or misordered deliveries.
type Reconciler struct {
	provider ProviderClient
	writer   StateWriter
}

func NewReconciler(provider ProviderClient, writer StateWriter) *Reconciler {
	return &Reconciler{provider: provider, writer: writer}
}

// Sync queries Stripe for the customer behind the user's billing email and
// rewrites stored state from what it finds. Stripe failures are surfaced to
// the caller without committing anything.
func (r *Reconciler) Sync(ctx context.Context, userID, email string) (*SyncResult, error) {
	customer, err := r.provider.FindCustomerByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", billing.ErrProvider, err)
	}

	if customer == nil {
		if err := r.writeFree(ctx, userID); err != nil {
			return nil, err
		}
		return &SyncResult{
			Tier:    billing.TierFree,
			Status:  "no_subscription",
			Message: fmt.Sprintf("no billing account found for %s", email),
		}, nil
	}

	subs, err := r.provider.ListActiveSubscriptions(ctx, customer.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", billing.ErrProvider, err)
	}

	if len(subs) == 0 {
		if err := r.writeFree(ctx, userID); err != nil {
			return nil, err
		}
		return &SyncResult{
			Tier:    billing.TierFree,
			Status:  "no_subscription",
			Message: "no active subscription found",
		}, nil
	}

	sub := subs[0]
	tier, ok := billing.ParseTier(sub.Metadata[billing.MetadataTier])
	if !ok {
		// Metadata can be missing on subscriptions created before the
		// checkout flow stamped it. Fall back to the price.
		tier = billing.TierForUnitAmount(subscriptionUnitAmount(sub))
	}

	res := billing.Resolution{
		UserID:         userID,
		Tier:           tier,
		Status:         string(sub.Status),
		SubscriptionID: sub.ID,
	}
	if err := r.writer.Apply(ctx, res); err != nil {
		return nil, err
	}

	return &SyncResult{
		Tier:           tier,
		SubscriptionID: sub.ID,
		Status:         string(sub.Status),
		Message:        "subscription synced from Stripe",
	}, nil
}

func (r *Reconciler) writeFree(ctx context.Context, userID string) error {
	return r.writer.Apply(ctx, billing.Resolution{
		UserID: userID,
		Tier:   billing.TierFree,
		Status: "no_subscription",
	})
}

func subscriptionUnitAmount(sub *stripe.Subscription) int64 {
	if sub.Items == nil || len(sub.Items.Data) == 0 {
		return 0
	}
	item := sub.Items.Data[0]
	if item.Price == nil {
		return 0
	}
	return item.Price.UnitAmount
}
