package billing

import (
	"testing"

	"github.com/stripe/stripe-go/v84"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		eventType string
		want      Transition
	}{
		{"customer.subscription.created", TransitionActivated},
		{"customer.subscription.updated", TransitionActivated},
		{"customer.subscription.deleted", TransitionCanceled},
		{"invoice.payment_succeeded", TransitionPaymentSucceeded},
		{"invoice.payment_failed", TransitionPaymentFailed},
		{"invoice.paid", TransitionUnhandled},
		{"checkout.session.completed", TransitionUnhandled},
		{"payment_intent.created", TransitionUnhandled},
		{"", TransitionUnhandled},
	}
	for _, tt := range tests {
		t.Run(tt.eventType, func(t *testing.T) {
			got := Classify(stripe.EventType(tt.eventType))
			if got != tt.want {
				t.Errorf("Classify(%q) = %v, want %v", tt.eventType, got, tt.want)
			}
		})
	}
}

func TestRequiresSubscriptionFetch(t *testing.T) {
	tests := []struct {
		transition Transition
		want       bool
	}{
		{TransitionActivated, false},
		{TransitionCanceled, false},
		{TransitionPaymentSucceeded, true},
		{TransitionPaymentFailed, true},
		{TransitionUnhandled, false},
	}
	for _, tt := range tests {
		if got := tt.transition.RequiresSubscriptionFetch(); got != tt.want {
			t.Errorf("%v.RequiresSubscriptionFetch() = %v, want %v", tt.transition, got, tt.want)
		}
	}
}
