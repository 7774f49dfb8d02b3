package billing

import "errors"

var (
	// ErrMissingSecret means STRIPE_WEBHOOK_SECRET is not configured. This is
	// a deployment problem, not a bad request.
	ErrMissingSecret = errors.New("webhook secret is not configured")

	// ErrMissingSignature means the Stripe-Signature header was absent.
	ErrMissingSignature = errors.New("missing webhook signature header")

	// ErrInvalidSignature means the signature did not match the payload.
	ErrInvalidSignature = errors.New("invalid webhook signature")

	// ErrProvider wraps failures of Stripe API calls so callers can decide
	// whether the operation is retryable.
	ErrProvider = errors.New("billing provider request failed")
)
