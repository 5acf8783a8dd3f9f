package usecase

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/xavierca1/rewards-onboarding/internal/config"
	"github.com/xavierca1/rewards-onboarding/internal/entity"
	"github.com/xavierca1/rewards-onboarding/internal/infra/integration/stripe"
	"github.com/xavierca1/rewards-onboarding/internal/infra/queue"
)

const (
	PremiumProductName        = "Rewards Network Premium"
	PremiumProductDescription = "Premium business listing features"
	PremiumCurrency           = "usd"
	PremiumPriceCents         = 3450
	PremiumInterval           = "month"
	PremiumTrialDays          = 30
)

type CreateCheckoutUseCase struct {
	Tokens     TokenManager
	Users      entity.UserRepositoryInterface
	Gateway    PaymentGateway
	Queue      queue.Publisher
	Logger     logrus.FieldLogger
	AppBaseURL string
}

func NewCreateCheckoutUseCase(
	tokens TokenManager,
	users entity.UserRepositoryInterface,
	gateway PaymentGateway,
	publisher queue.Publisher,
	logger logrus.FieldLogger,
	appBaseURL string,
) *CreateCheckoutUseCase {
	return &CreateCheckoutUseCase{
		Tokens:     tokens,
		Users:      users,
		Gateway:    gateway,
		Queue:      publisher,
		Logger:     logger,
		AppBaseURL: appBaseURL,
	}
}

func (uc *CreateCheckoutUseCase) Execute(ctx context.Context, token string) (*CreateCheckoutOutput, error) {
	session, err := uc.Tokens.Verify(token)
	if err != nil {
		return nil, unauthorized(err)
	}

	user, err := uc.Users.FindByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, entity.ErrUserNotFound) {
			return nil, &DomainError{Code: CodeNotFound, Message: "user not found", Err: err}
		}
		return nil, &TechnicalError{Code: CodeDatabase, Message: "failed to load user", Err: err}
	}

	customerID, err := uc.Gateway.CreateCustomer(ctx, stripe.CreateCustomerInput{
		Email:  user.Email,
		Name:   user.Name,
		UserID: user.ID,
	})
	if err != nil {
		return nil, &TechnicalError{Code: CodeGateway, Message: "payment provider rejected the customer", Err: err}
	}

	checkout, err := uc.Gateway.CreateCheckoutSession(ctx, stripe.CheckoutSessionInput{
		CustomerID:         customerID,
		UserID:             user.ID,
		ProductName:        PremiumProductName,
		ProductDescription: PremiumProductDescription,
		Currency:           PremiumCurrency,
		UnitAmount:         PremiumPriceCents,
		Interval:           PremiumInterval,
		TrialPeriodDays:    PremiumTrialDays,
		SuccessURL:         uc.AppBaseURL + "/dashboard?success=true",
		CancelURL:          uc.AppBaseURL + "/dashboard?canceled=true",
	})
	if err != nil {
		return nil, &TechnicalError{Code: CodeGateway, Message: "failed to start checkout", Err: err}
	}

	uc.Logger.WithFields(logrus.Fields{
		"module":     "usecase",
		"user_id":    user.ID,
		"session_id": checkout.ID,
	}).Info("checkout session created")

	err = queue.PublishCheckoutNotification(ctx, uc.Queue, queue.CheckoutNotificationPayload{
		UserID:            user.ID,
		Email:             user.Email,
		Name:              user.Name,
		CheckoutSessionID: checkout.ID,
		CheckoutURL:       checkout.URL,
	})
	if err != nil {
		config.LogError(uc.Logger, "usecase", "CreateCheckout", "publish checkout notification", map[string]interface{}{"user_id": user.ID}, err)
	}

	return &CreateCheckoutOutput{SessionID: checkout.ID, SessionURL: checkout.URL}, nil
}

// StartCheckout returns only the hosted checkout URL.
func (uc *CreateCheckoutUseCase) StartCheckout(ctx context.Context, token string) (string, error) {
	out, err := uc.Execute(ctx, token)
	if err != nil {
		return "", err
	}
	return out.SessionURL, nil
}
