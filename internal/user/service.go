package user

import (
	"context"

	"github.com/daygo-app/daygo/internal/billing"
	"github.com/daygo-app/daygo/internal/models"
)

type Service interface {
	GetOrCreate(ctx context.Context, userID, email, firstName, lastName string) (*models.User, error)
}

type UserService struct {
	repo    Repository
	billing *billing.Billing
}

func NewUserService(repo Repository, billing *billing.Billing) *UserService {
	return &UserService{
		repo:    repo,
		billing: billing,
	}
}

// GetOrCreate loads the user row, creating it on first sight and
// provisioning a Stripe customer so checkout and reconciliation can find
// them by email later.
func (s *UserService) GetOrCreate(ctx context.Context, userID, email, firstName, lastName string) (*models.User, error) {
	user, err := s.repo.GetOrCreate(ctx, userID, email, firstName, lastName)
	if err != nil {
		return nil, err
	}

	if user.StripeCustomerID == nil {
		customer, err := s.billing.CreateCustomer(ctx, userID, email)
		if err != nil {
			return nil, err
		}
		if err := s.repo.UpdateStripeCustomerID(ctx, userID, customer.ID); err != nil {
			return nil, err
		}
		user.StripeCustomerID = &customer.ID
	}

	return user, nil
}
