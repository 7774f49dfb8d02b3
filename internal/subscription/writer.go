package subscription

import (
	"context"
	"fmt"
	"time"

	"github.com/daygo-app/daygo/internal/billing"
	"github.com/daygo-app/daygo/internal/models"
	"github.com/uptrace/bun"
)

// Writer owns the subscriptions table and the denormalized subscription
// columns on users. Both records are written inside a single transaction so
// they cannot diverge, and the upsert is idempotent: replaying the same
// resolution only moves updated_at.
type Writer struct {
	db *bun.DB
}

func NewWriter(db *bun.DB) *Writer {
	return &Writer{db: db}
}

func (w *Writer) Apply(ctx context.Context, res billing.Resolution) error {
	var subscriptionID *string
	if res.SubscriptionID != "" {
		subscriptionID = &res.SubscriptionID
	}
	now := time.Now()

	return w.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		record := &models.SubscriptionDB{
			UserID:               res.UserID,
			Tier:                 string(res.Tier),
			Status:               res.Status,
			StripeSubscriptionID: subscriptionID,
			CreatedAt:            now,
			UpdatedAt:            now,
		}
		if _, err := tx.NewInsert().
			Model(record).
			On("CONFLICT (user_id) DO UPDATE").
			Set("tier = EXCLUDED.tier").
			Set("status = EXCLUDED.status").
			Set("stripe_subscription_id = EXCLUDED.stripe_subscription_id").
			Set("updated_at = EXCLUDED.updated_at").
			Exec(ctx); err != nil {
			return fmt.Errorf("failed to upsert subscription for user %s: %w", res.UserID, err)
		}

		if _, err := tx.NewUpdate().
			Model((*models.UserDB)(nil)).
			Set("subscription_tier = ?", string(res.Tier)).
			Set("subscription_status = ?", res.Status).
			Set("stripe_subscription_id = ?", subscriptionID).
			Set("updated_at = ?", now).
			Where("id = ?", res.UserID).
			Exec(ctx); err != nil {
			return fmt.Errorf("failed to update subscription columns for user %s: %w", res.UserID, err)
		}

		return nil
	})
}
