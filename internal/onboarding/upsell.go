package onboarding

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/xavierca1/rewards-onboarding/internal/entity"
)

type CheckoutStarter interface {
	StartCheckout(ctx context.Context, token string) (string, error)
}

type RedirectTarget struct {
	URL string `json:"url"`
}

// UpsellGate offers the paid plan after activation. It only talks to the
// payment collaborator; the listing is never modified here.
type UpsellGate struct {
	Checkout CheckoutStarter
	Logger   logrus.FieldLogger
}

func NewUpsellGate(checkout CheckoutStarter, logger logrus.FieldLogger) *UpsellGate {
	return &UpsellGate{Checkout: checkout, Logger: logger}
}

func (g *UpsellGate) OfferUpgrade(ctx context.Context, token string) (RedirectTarget, error) {
	if token == "" {
		return RedirectTarget{}, fmt.Errorf("%w: %w", ErrUpsellFailed, entity.ErrUnauthorized)
	}

	url, err := g.Checkout.StartCheckout(ctx, token)
	if err == nil && url == "" {
		err = errors.New("empty checkout url")
	}
	if err != nil {
		g.Logger.WithField("module", "upsell").WithError(err).Warn("checkout not started")
		return RedirectTarget{}, fmt.Errorf("%w: %w", ErrUpsellFailed, err)
	}

	return RedirectTarget{URL: url}, nil
}
