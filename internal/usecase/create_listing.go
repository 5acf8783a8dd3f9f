package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/xavierca1/rewards-onboarding/internal/config"
	"github.com/xavierca1/rewards-onboarding/internal/entity"
	"github.com/xavierca1/rewards-onboarding/internal/infra/queue"
)

type CreateListingUseCase struct {
	Repo      entity.ListingRepositoryInterface
	Users     entity.UserRepositoryInterface
	Tokens    TokenManager
	Validator *Validator
	Queue     queue.Publisher
	Logger    logrus.FieldLogger
}

func NewCreateListingUseCase(
	repo entity.ListingRepositoryInterface,
	users entity.UserRepositoryInterface,
	tokens TokenManager,
	validator *Validator,
	publisher queue.Publisher,
	logger logrus.FieldLogger,
) *CreateListingUseCase {
	return &CreateListingUseCase{
		Repo:      repo,
		Users:     users,
		Tokens:    tokens,
		Validator: validator,
		Queue:     publisher,
		Logger:    logger,
	}
}

func unauthorized(err error) *DomainError {
	return &DomainError{Code: CodeUnauthorized, Message: "unauthorized", Err: errors.Join(entity.ErrUnauthorized, err)}
}

func (uc *CreateListingUseCase) Execute(ctx context.Context, token string, draft entity.ListingDraft) (*entity.Listing, error) {
	session, err := uc.Tokens.Verify(token)
	if err != nil {
		return nil, unauthorized(err)
	}

	draft.BusinessName = strings.TrimSpace(draft.BusinessName)
	draft.Address = strings.TrimSpace(draft.Address)
	draft.Email = strings.TrimSpace(draft.Email)

	if errs := uc.Validator.ValidateListingDraft(draft); len(errs) > 0 {
		return nil, validationFailed(errs)
	}

	listing := entity.NewListing(session.UserID, draft)
	if err := uc.Repo.Create(ctx, listing); err != nil {
		return nil, &TechnicalError{Code: CodeDatabase, Message: "failed to create listing", Err: err}
	}

	uc.Logger.WithFields(logrus.Fields{
		"module":     "usecase",
		"listing_id": listing.ID,
		"user_id":    session.UserID,
	}).Info("listing created")

	uc.publishWelcome(ctx, session, listing)

	return listing, nil
}

// CreateForSession creates a listing owned by the holder of token.
func (uc *CreateListingUseCase) CreateForSession(ctx context.Context, token string, draft entity.ListingDraft) (*entity.Listing, error) {
	return uc.Execute(ctx, token, draft)
}

// publishWelcome never fails the listing; errors are only logged.
func (uc *CreateListingUseCase) publishWelcome(ctx context.Context, session *entity.Session, listing *entity.Listing) {
	payload := queue.WelcomeEmailPayload{
		ListingID:    listing.ID,
		Email:        session.Email,
		BusinessName: listing.BusinessName,
	}

	user, err := uc.Users.FindByID(ctx, session.UserID)
	if err != nil {
		config.LogError(uc.Logger, "usecase", "publishWelcome", "load user", map[string]interface{}{"user_id": session.UserID}, err)
	} else {
		payload.Email = user.Email
		payload.Name = user.Name
	}

	if err := queue.PublishWelcomeEmail(ctx, uc.Queue, payload); err != nil {
		config.LogError(uc.Logger, "usecase", "publishWelcome", "publish welcome email", map[string]interface{}{"listing_id": listing.ID}, err)
	}
}

type GetListingStatusUseCase struct {
	Repo entity.ListingRepositoryInterface
}

func NewGetListingStatusUseCase(repo entity.ListingRepositoryInterface) *GetListingStatusUseCase {
	return &GetListingStatusUseCase{Repo: repo}
}

func (uc *GetListingStatusUseCase) Execute(ctx context.Context, id int64) (*ListingStatusOutput, error) {
	listing, err := uc.Repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, entity.ErrListingNotFound) {
			return nil, &DomainError{Code: CodeNotFound, Message: "listing not found", Err: err}
		}
		return nil, &TechnicalError{Code: CodeDatabase, Message: "failed to load listing", Err: err}
	}

	return &ListingStatusOutput{
		ID:           listing.ID,
		BusinessName: listing.BusinessName,
		Status:       listing.Status,
		IsPremium:    listing.IsPremium,
	}, nil
}
