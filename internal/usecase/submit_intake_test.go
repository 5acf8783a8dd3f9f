package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/rewards-onboarding/internal/entity"
	"github.com/xavierca1/rewards-onboarding/internal/infra/auth"
)

func newIntake(t *testing.T, lookup PlaceLookup, repo *MockListingRepository) (*SubmitIntakeUseCase, string) {
	t.Helper()
	tokens := auth.NewTokenManager("secret", time.Hour)
	users := new(MockUserRepository)
	users.On("FindByID", mock.Anything, mock.Anything).Return(&entity.User{ID: 3, Name: "Ann", Email: "ann@example.com"}, nil)

	listings := NewCreateListingUseCase(repo, users, tokens, NewValidator("US"), &recordingPublisher{}, nullLogger())
	return NewSubmitIntakeUseCase(listings, tokens, lookup, NewValidator("US"), nullLogger()), issueToken(t, tokens, 3)
}

func TestSubmitIntakeGeocodes(t *testing.T) {
	lat, lng := 1.5, 2.5
	lookup := new(MockPlaceLookup)
	lookup.On("Search", mock.Anything, "Bella Salon 9 Elm St").Return([]entity.CandidateBusiness{
		{PlaceID: "p-9", Latitude: &lat, Longitude: &lng},
	}, nil)

	repo := new(MockListingRepository)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(l *entity.Listing) bool {
		return l.ExternalPlaceID == "p-9" && l.Latitude != nil && *l.Latitude == 1.5 && l.BusinessType == "Beauty & Wellness"
	})).Return(nil)

	uc, token := newIntake(t, lookup, repo)
	_, err := uc.Execute(context.Background(), token, SubmitIntakeInput{
		BusinessName: "Bella Salon",
		BusinessType: "Beauty & Wellness",
		Address:      "9 Elm St",
	})

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestSubmitIntakeLookupFailureIsIgnored(t *testing.T) {
	lookup := new(MockPlaceLookup)
	lookup.On("Search", mock.Anything, mock.Anything).Return(nil, entity.ErrLookupUnavailable)

	repo := new(MockListingRepository)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(l *entity.Listing) bool {
		return l.ExternalPlaceID == "" && l.Latitude == nil
	})).Return(nil)

	uc, token := newIntake(t, lookup, repo)
	_, err := uc.Execute(context.Background(), token, SubmitIntakeInput{BusinessName: "Bella Salon", BusinessType: "Other", Address: "9 Elm St"})

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestSubmitIntakeRejectsUnknownCategory(t *testing.T) {
	lookup := new(MockPlaceLookup)
	repo := new(MockListingRepository)

	uc, token := newIntake(t, lookup, repo)
	_, err := uc.Execute(context.Background(), token, SubmitIntakeInput{BusinessName: "X", BusinessType: "Casino", Address: "1 St"})

	var de *DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "businessType", de.Fields[0].Field)
	lookup.AssertNotCalled(t, "Search", mock.Anything, mock.Anything)
}

func TestSubmitIntakeRequiresSession(t *testing.T) {
	uc, _ := newIntake(t, new(MockPlaceLookup), new(MockListingRepository))

	_, err := uc.Execute(context.Background(), "", SubmitIntakeInput{BusinessName: "X", BusinessType: "Other", Address: "1 St"})
	assert.ErrorIs(t, err, entity.ErrUnauthorized)
}
