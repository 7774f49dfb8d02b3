package migrations

import (
	"context"

	"github.com/daygo-app/daygo/internal/models"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		if _, err := db.NewCreateTable().
			Model((*models.UserDB)(nil)).
			IfNotExists().
			Exec(ctx); err != nil {
			return err
		}

		if _, err := db.NewCreateTable().
			Model((*models.SubscriptionDB)(nil)).
			IfNotExists().
			Exec(ctx); err != nil {
			return err
		}

		if _, err := db.NewCreateIndex().
			Model((*models.UserDB)(nil)).
			Index("idx_users_email").
			Column("email").
			IfNotExists().
			Exec(ctx); err != nil {
			return err
		}

		_, err := db.NewCreateIndex().
			Model((*models.UserDB)(nil)).
			Index("idx_users_stripe_customer_id").
			Column("stripe_customer_id").
			IfNotExists().
			Exec(ctx)
		return err
	}, func(ctx context.Context, db *bun.DB) error {
		if _, err := db.NewDropTable().
			Model((*models.SubscriptionDB)(nil)).
			IfExists().
			Exec(ctx); err != nil {
			return err
		}

		_, err := db.NewDropTable().
			Model((*models.UserDB)(nil)).
			IfExists().
			Exec(ctx)
		return err
	})
}
