package onboarding

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/xavierca1/rewards-onboarding/internal/entity"
	"github.com/xavierca1/rewards-onboarding/internal/usecase"
)

type Registrar interface {
	Register(ctx context.Context, name, email, password string) (*entity.User, error)
}

type SessionIssuer interface {
	Authenticate(ctx context.Context, email, password string) (*entity.Session, error)
}

type ListingRegistry interface {
	CreateForSession(ctx context.Context, token string, draft entity.ListingDraft) (*entity.Listing, error)
}

type ActivationResult struct {
	Listing *entity.Listing
	Session *entity.Session
}

// Activator commits the collected step state.
type Activator interface {
	Activate(ctx context.Context, verified entity.VerifiedBusiness, draft entity.AccountDraft) (*ActivationResult, error)
}

// Activation registers the user, signs them in and creates the listing, in that
// order. There is no compensation: a user created before a later failure stays.
type Activation struct {
	Registrar Registrar
	Sessions  SessionIssuer
	Listings  ListingRegistry
	Logger    logrus.FieldLogger
}

func NewActivation(registrar Registrar, sessions SessionIssuer, listings ListingRegistry, logger logrus.FieldLogger) *Activation {
	return &Activation{Registrar: registrar, Sessions: sessions, Listings: listings, Logger: logger}
}

func (a *Activation) Activate(ctx context.Context, verified entity.VerifiedBusiness, draft entity.AccountDraft) (*ActivationResult, error) {
	var (
		session *entity.Session
		listing *entity.Listing
	)

	seq := usecase.NewSequence(a.Logger.WithField("module", "activation"))

	seq.AddStep(StepRegister, func(ctx context.Context) error {
		_, err := a.Registrar.Register(ctx, draft.FullName, draft.Email, draft.Password)
		return err
	})

	seq.AddStep(StepAuthenticate, func(ctx context.Context) error {
		s, err := a.Sessions.Authenticate(ctx, draft.Email, draft.Password)
		if err != nil {
			return err
		}
		session = s
		return nil
	})

	seq.AddStep(StepCreateListing, func(ctx context.Context) error {
		l, err := a.Listings.CreateForSession(ctx, session.Token, ListingFromVerified(verified, draft))
		if err != nil {
			return err
		}
		listing = l
		return nil
	})

	if err := seq.Execute(ctx); err != nil {
		var stepErr *usecase.StepError
		if errors.As(err, &stepErr) {
			return nil, &ActivationStepFailedError{Step: stepErr.Step, Err: stepErr.Err}
		}
		return nil, err
	}

	return &ActivationResult{Listing: listing, Session: session}, nil
}

// ListingFromVerified maps the verified place and the account draft to the
// listing payload. The place phone wins; the draft mobile number fills in.
func ListingFromVerified(v entity.VerifiedBusiness, d entity.AccountDraft) entity.ListingDraft {
	phone := strings.TrimSpace(v.Phone)
	if phone == "" {
		phone = d.MobileNumber
	}

	return entity.ListingDraft{
		BusinessName:    v.Name,
		BusinessType:    entity.GeneralBusinessType,
		Address:         v.Address,
		Phone:           phone,
		Email:           d.Email,
		Website:         d.Website,
		Description:     v.Name + " - Now part of the Rewards Network",
		ExternalPlaceID: v.PlaceID,
		Latitude:        v.Latitude,
		Longitude:       v.Longitude,
	}
}
