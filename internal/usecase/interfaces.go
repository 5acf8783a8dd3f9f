package usecase

import (
	"context"

	"github.com/xavierca1/rewards-onboarding/internal/entity"
	"github.com/xavierca1/rewards-onboarding/internal/infra/integration/stripe"
)

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hashed, password string) (bool, error)
}

type TokenManager interface {
	Issue(user *entity.User) (*entity.Session, error)
	Verify(token string) (*entity.Session, error)
}

type PaymentGateway interface {
	CreateCustomer(ctx context.Context, input stripe.CreateCustomerInput) (string, error)
	CreateCheckoutSession(ctx context.Context, input stripe.CheckoutSessionInput) (*stripe.CheckoutSession, error)
}

type PlaceLookup interface {
	Search(ctx context.Context, query string) ([]entity.CandidateBusiness, error)
}
