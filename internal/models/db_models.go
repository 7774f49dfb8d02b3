package models

import (
	"time"

	"github.com/uptrace/bun"
)

type UserDB struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID                   string    `bun:"id,pk" json:"id"`
	Email                string    `bun:"email,notnull" json:"email"`
	FirstName            string    `bun:"first_name" json:"first_name"`
	LastName             string    `bun:"last_name" json:"last_name"`
	StripeCustomerID     *string   `bun:"stripe_customer_id" json:"stripe_customer_id,omitempty"`
	SubscriptionTier     *string   `bun:"subscription_tier" json:"subscription_tier,omitempty"`
	SubscriptionStatus   *string   `bun:"subscription_status" json:"subscription_status,omitempty"`
	StripeSubscriptionID *string   `bun:"stripe_subscription_id" json:"stripe_subscription_id,omitempty"`
	CreatedAt            time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt            time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}

func (u *UserDB) ToUser() *User {
	return &User{
		ID:                   u.ID,
		Email:                u.Email,
		FirstName:            u.FirstName,
		LastName:             u.LastName,
		StripeCustomerID:     u.StripeCustomerID,
		SubscriptionTier:     u.SubscriptionTier,
		SubscriptionStatus:   u.SubscriptionStatus,
		StripeSubscriptionID: u.StripeSubscriptionID,
		CreatedAt:            u.CreatedAt,
		UpdatedAt:            u.UpdatedAt,
	}
}

func UserFromDomain(u *User) *UserDB {
	return &UserDB{
		ID:                   u.ID,
		Email:                u.Email,
		FirstName:            u.FirstName,
		LastName:             u.LastName,
		StripeCustomerID:     u.StripeCustomerID,
		SubscriptionTier:     u.SubscriptionTier,
		SubscriptionStatus:   u.SubscriptionStatus,
		StripeSubscriptionID: u.StripeSubscriptionID,
		CreatedAt:            u.CreatedAt,
		UpdatedAt:            u.UpdatedAt,
	}
}

type SubscriptionDB struct {
	bun.BaseModel `bun:"table:subscriptions,alias:s"`

	UserID               string    `bun:"user_id,pk" json:"user_id"`
	Tier                 string    `bun:"tier,notnull" json:"tier"`
	Status               string    `bun:"status,notnull" json:"status"`
	StripeSubscriptionID *string   `bun:"stripe_subscription_id" json:"stripe_subscription_id,omitempty"`
	CreatedAt            time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt            time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}
