package models

import "time"

type User struct {
	ID                   string    `json:"id"`
	Email                string    `json:"email"`
	FirstName            string    `json:"first_name"`
	LastName             string    `json:"last_name"`
	StripeCustomerID     *string   `json:"stripe_customer_id,omitempty"`
	SubscriptionTier     *string   `json:"subscription_tier,omitempty"`
	SubscriptionStatus   *string   `json:"subscription_status,omitempty"`
	StripeSubscriptionID *string   `json:"stripe_subscription_id,omitempty"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}
