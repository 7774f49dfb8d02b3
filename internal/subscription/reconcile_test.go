package subscription

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/daygo-app/daygo/internal/billing"
	"github.com/stripe/stripe-go/v84"
)

type fakeProvider struct {
	customer    *stripe.Customer
	customerErr error
	subs        []*stripe.Subscription
	subsErr     error
}

func (f *fakeProvider) FindCustomerByEmail(ctx context.Context, email string) (*stripe.Customer, error) {
	return f.customer, f.customerErr
}

func (f *fakeProvider) ListActiveSubscriptions(ctx context.Context, customerID string) ([]*stripe.Subscription, error) {
	return f.subs, f.subsErr
}

type fakeWriter struct {
	applied []billing.Resolution
	err     error
}

func (f *fakeWriter) Apply(ctx context.Context, res billing.Resolution) error {
	if f.err != nil {
		return f.err
	}
	f.applied = append(f.applied, res)
	return nil
}

func activeSubscription(id string, metadata map[string]string, unitAmount int64) *stripe.Subscription {
	return &stripe.Subscription{
		ID:       id,
		Status:   stripe.SubscriptionStatusActive,
		Metadata: metadata,
		Items: &stripe.SubscriptionItemList{
			Data: []*stripe.SubscriptionItem{
				{Price: &stripe.Price{UnitAmount: unitAmount}},
			},
		},
	}
}

func TestSyncNoCustomerResolvesFree(t *testing.T) {
	writer := &fakeWriter{}
	r := NewReconciler(&fakeProvider{}, writer)

	result, err := r.Sync(context.Background(), "u1", "nobody@example.com")
	if err != nil {
		t.Fatalf("Sync() error = %v", err)
	}
	if result.Tier != billing.TierFree {
		t.Errorf("result.Tier = %v, want free", result.Tier)
	}
	if !strings.Contains(result.Message, "nobody@example.com") {
		t.Errorf("message %q should mention the email", result.Message)
	}
	if len(writer.applied) != 1 || writer.applied[0].Tier != billing.TierFree {
		t.Fatalf("expected one free write, got %+v", writer.applied)
	}
	if writer.applied[0].UserID != "u1" {
		t.Errorf("written userID = %q, want u1", writer.applied[0].UserID)
	}
}

func TestSyncNoActiveSubscriptionResolvesFree(t *testing.T) {
	writer := &fakeWriter{}
	r := NewReconciler(&fakeProvider{customer: &stripe.Customer{ID: "cus_1"}}, writer)

	result, err := r.Sync(context.Background(), "u1", "user@example.com")
	if err != nil {
		t.Fatalf("Sync() error = %v", err)
	}
	if result.Tier != billing.TierFree {
		t.Errorf("result.Tier = %v, want free", result.Tier)
	}
	if len(writer.applied) != 1 || writer.applied[0].Status != "no_subscription" {
		t.Fatalf("expected a no_subscription write, got %+v", writer.applied)
	}
}

func TestSyncActiveSubscriptionUsesMetadataTier(t *testing.T) {
	writer := &fakeWriter{}
	provider := &fakeProvider{
		customer: &stripe.Customer{ID: "cus_1"},
		subs: []*stripe.Subscription{
			activeSubscription("sub_1", map[string]string{"userId": "u1", "tier": "team"}, 2900),
		},
	}
	r := NewReconciler(provider, writer)

	result, err := r.Sync(context.Background(), "u1", "user@example.com")
	if err != nil {
		t.Fatalf("Sync() error = %v", err)
	}
	if result.Tier != billing.TierTeam {
		t.Errorf("result.Tier = %v, want team", result.Tier)
	}
	if result.SubscriptionID != "sub_1" || result.Status != "active" {
		t.Errorf("result = %+v, want sub_1/active", result)
	}
	if len(writer.applied) != 1 || writer.applied[0].Tier != billing.TierTeam {
		t.Fatalf("expected one team write, got %+v", writer.applied)
	}
}

func TestSyncMissingMetadataFallsBackToPrice(t *testing.T) {
	tests := []struct {
		name       string
		unitAmount int64
		want       billing.Tier
	}{
		{"pro price", 900, billing.TierPro},
		{"team price", 2900, billing.TierTeam},
		{"no items defaults to pro", 0, billing.TierPro},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			writer := &fakeWriter{}
			sub := activeSubscription("sub_1", nil, tt.unitAmount)
			if tt.unitAmount == 0 {
				sub.Items = nil
			}
			provider := &fakeProvider{
				customer: &stripe.Customer{ID: "cus_1"},
				subs:     []*stripe.Subscription{sub},
			}

			result, err := NewReconciler(provider, writer).Sync(context.Background(), "u1", "user@example.com")
			if err != nil {
				t.Fatalf("Sync() error = %v", err)
			}
			if result.Tier != tt.want {
				t.Errorf("result.Tier = %v, want %v", result.Tier, tt.want)
			}
		})
	}
}

func TestSyncProviderFailureCommitsNothing(t *testing.T) {
	writer := &fakeWriter{}
	provider := &fakeProvider{customerErr: errors.New("stripe down")}

	_, err := NewReconciler(provider, writer).Sync(context.Background(), "u1", "user@example.com")
	if !errors.Is(err, billing.ErrProvider) {
		t.Fatalf("error = %v, want ErrProvider", err)
	}
	if len(writer.applied) != 0 {
		t.Errorf("no state should be written on provider failure, got %+v", writer.applied)
	}

	provider = &fakeProvider{
		customer: &stripe.Customer{ID: "cus_1"},
		subsErr:  errors.New("stripe down"),
	}
	_, err = NewReconciler(provider, writer).Sync(context.Background(), "u1", "user@example.com")
	if !errors.Is(err, billing.ErrProvider) {
		t.Fatalf("error = %v, want ErrProvider", err)
	}
	if len(writer.applied) != 0 {
		t.Errorf("no state should be written on provider failure, got %+v", writer.applied)
	}
}

func TestSyncWriterFailureIsSurfaced(t *testing.T) {
	writer := &fakeWriter{err: errors.New("db down")}
	provider := &fakeProvider{customer: &stripe.Customer{ID: "cus_1"}}

	_, err := NewReconciler(provider, writer).Sync(context.Background(), "u1", "user@example.com")
	if err == nil {
		t.Fatal("expected error from writer")
	}
	if errors.Is(err, billing.ErrProvider) {
		t.Error("writer failure must not be reported as a provider failure")
	}
}
