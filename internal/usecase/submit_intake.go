package usecase

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/xavierca1/rewards-onboarding/internal/entity"
)

// SubmitIntakeUseCase is the manual listing path: the user picks a category and the
// address is geocoded on a best-effort basis.
type SubmitIntakeUseCase struct {
	Listings  *CreateListingUseCase
	Tokens    TokenManager
	Lookup    PlaceLookup
	Validator *Validator
	Logger    logrus.FieldLogger
}

func NewSubmitIntakeUseCase(listings *CreateListingUseCase, tokens TokenManager, lookup PlaceLookup, validator *Validator, logger logrus.FieldLogger) *SubmitIntakeUseCase {
	return &SubmitIntakeUseCase{
		Listings:  listings,
		Tokens:    tokens,
		Lookup:    lookup,
		Validator: validator,
		Logger:    logger,
	}
}

func (uc *SubmitIntakeUseCase) Execute(ctx context.Context, token string, input SubmitIntakeInput) (*entity.Listing, error) {
	if _, err := uc.Tokens.Verify(token); err != nil {
		return nil, unauthorized(err)
	}

	input.BusinessName = strings.TrimSpace(input.BusinessName)
	input.Address = strings.TrimSpace(input.Address)

	if errs := uc.Validator.ValidateIntakeInput(input); len(errs) > 0 {
		return nil, validationFailed(errs)
	}

	draft := entity.ListingDraft{
		BusinessName: input.BusinessName,
		BusinessType: input.BusinessType,
		Address:      input.Address,
		Phone:        input.Phone,
		Email:        input.Email,
		Website:      input.Website,
		Description:  input.Description,
	}
	uc.geocode(ctx, &draft)

	return uc.Listings.Execute(ctx, token, draft)
}

func (uc *SubmitIntakeUseCase) geocode(ctx context.Context, draft *entity.ListingDraft) {
	if uc.Lookup == nil {
		return
	}

	candidates, err := uc.Lookup.Search(ctx, draft.BusinessName+" "+draft.Address)
	if err != nil {
		uc.Logger.WithFields(logrus.Fields{"module": "usecase", "business": draft.BusinessName}).
			WithError(err).Warn("geocoding skipped")
		return
	}
	if len(candidates) == 0 {
		return
	}

	first := candidates[0]
	draft.ExternalPlaceID = first.PlaceID
	draft.Latitude = first.Latitude
	draft.Longitude = first.Longitude
}
