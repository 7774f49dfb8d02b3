package billing

import "github.com/stripe/stripe-go/v84"

// Transition is the subscription lifecycle change implied by a Stripe event.
type Transition string

const (
	TransitionActivated        Transition = "subscription_activated"
	TransitionCanceled         Transition = "subscription_canceled"
	TransitionPaymentSucceeded Transition = "payment_succeeded"
	TransitionPaymentFailed    Transition = "payment_failed"
	TransitionUnhandled        Transition = "unhandled"
)

// Classify maps a Stripe event type to a lifecycle transition. Invoice
// transitions reference a subscription by ID only; the caller must fetch the
// subscription before resolving a tier.
func Classify(eventType stripe.EventType) Transition {
	switch eventType {
	case "customer.subscription.created", "customer.subscription.updated":
		return TransitionActivated
	case "customer.subscription.deleted":
		return TransitionCanceled
	case "invoice.payment_succeeded":
		return TransitionPaymentSucceeded
	case "invoice.payment_failed":
		return TransitionPaymentFailed
	}
	return TransitionUnhandled
}

// RequiresSubscriptionFetch reports whether the transition's event carries an
// invoice instead of a subscription object.
func (t Transition) RequiresSubscriptionFetch() bool {
	return t == TransitionPaymentSucceeded || t == TransitionPaymentFailed
}
