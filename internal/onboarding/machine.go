package onboarding

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/xavierca1/rewards-onboarding/internal/config"
	"github.com/xavierca1/rewards-onboarding/internal/entity"
	"github.com/xavierca1/rewards-onboarding/internal/usecase"
)

const clearTimeout = 5 * time.Second

type PlaceLookup interface {
	Search(ctx context.Context, query string) ([]entity.CandidateBusiness, error)
}

type LookupStatus string

const (
	LookupFound       LookupStatus = "found"
	LookupNotFound    LookupStatus = "not_found"
	LookupUnavailable LookupStatus = "unavailable"
)

type SearchView struct {
	Decision
	Query string
}

type VerifyView struct {
	Decision
	Query     string
	Status    LookupStatus
	Candidate *entity.CandidateBusiness
}

type AccountView struct {
	Decision
	Business *entity.VerifiedBusiness
	Draft    *entity.AccountDraft
}

type TermsView struct {
	Decision
	Business *entity.VerifiedBusiness
	Draft    *entity.AccountDraft
}

type SuccessView struct {
	Decision
	Listing *entity.Listing
	Session *entity.Session
}

// Machine drives one visitor at a time through the onboarding steps. Every
// step reads its prerequisites from the store; nothing is trusted from the caller.
type Machine struct {
	Store     StepStore
	Lookup    PlaceLookup
	Activator Activator
	Locker    VisitorLocker
	Validator *usecase.Validator
	Logger    logrus.FieldLogger
}

func NewMachine(store StepStore, lookup PlaceLookup, activator Activator, locker VisitorLocker, validator *usecase.Validator, logger logrus.FieldLogger) *Machine {
	return &Machine{
		Store:     store,
		Lookup:    lookup,
		Activator: activator,
		Locker:    locker,
		Validator: validator,
		Logger:    logger,
	}
}

func (m *Machine) Search(ctx context.Context, visitor string) (SearchView, error) {
	var query string
	if _, err := m.Store.Get(ctx, visitor, KeySearchQuery, &query); err != nil {
		return SearchView{}, err
	}
	return SearchView{Decision: Proceed(StateSearch), Query: query}, nil
}

// SubmitSearch stores the query and moves on to Verify. A new query drops any
// candidate found for the previous one.
func (m *Machine) SubmitSearch(ctx context.Context, visitor, query string) (Decision, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Decision{}, ErrEmptyQuery
	}

	if err := m.Store.Put(ctx, visitor, KeySearchQuery, query); err != nil {
		return Decision{}, err
	}
	if err := m.Store.Delete(ctx, visitor, KeyPendingCandidate); err != nil {
		return Decision{}, err
	}
	return Proceed(StateVerify), nil
}

// Verify shows the first match for the stored query. A match already looked up
// for the same query is shown again without calling the directory.
func (m *Machine) Verify(ctx context.Context, visitor string) (VerifyView, error) {
	var query string
	ok, err := m.Store.Get(ctx, visitor, KeySearchQuery, &query)
	if err != nil {
		return VerifyView{}, err
	}
	if decision := Guard(StateVerify, present(ok, KeySearchQuery)); decision.Redirected() {
		return VerifyView{Decision: decision}, nil
	}

	view := VerifyView{Decision: Proceed(StateVerify), Query: query}

	var pending PendingCandidate
	ok, err = m.Store.Get(ctx, visitor, KeyPendingCandidate, &pending)
	if err != nil {
		return VerifyView{}, err
	}
	if ok && pending.Query == query {
		view.Status = LookupFound
		view.Candidate = &pending.Candidate
		return view, nil
	}

	candidates, err := m.Lookup.Search(ctx, query)
	if ctxErr := ctx.Err(); ctxErr != nil {
		// the visitor left; drop the result
		return VerifyView{}, ctxErr
	}
	if err != nil {
		config.LogError(m.Logger, "onboarding", "Verify", "place lookup", map[string]interface{}{"visitor": visitor}, err)
		view.Status = LookupUnavailable
		return view, nil
	}
	if len(candidates) == 0 {
		view.Status = LookupNotFound
		return view, nil
	}

	first := candidates[0]
	if err := m.Store.Put(ctx, visitor, KeyPendingCandidate, PendingCandidate{Query: query, Candidate: first}); err != nil {
		return VerifyView{}, err
	}

	view.Status = LookupFound
	view.Candidate = &first
	return view, nil
}

// ConfirmCandidate promotes the candidate shown on Verify to the verified business.
func (m *Machine) ConfirmCandidate(ctx context.Context, visitor string) (Decision, error) {
	var query string
	ok, err := m.Store.Get(ctx, visitor, KeySearchQuery, &query)
	if err != nil {
		return Decision{}, err
	}
	if decision := Guard(StateVerify, present(ok, KeySearchQuery)); decision.Redirected() {
		return decision, nil
	}

	var pending PendingCandidate
	ok, err = m.Store.Get(ctx, visitor, KeyPendingCandidate, &pending)
	if err != nil {
		return Decision{}, err
	}
	if !ok || pending.Query != query {
		return RedirectTo(StateVerify), nil
	}

	if err := m.Store.Put(ctx, visitor, KeyVerifiedBusiness, pending.Candidate.Verify()); err != nil {
		return Decision{}, err
	}
	return Proceed(StateCreateAccount), nil
}

// RejectCandidate discards the candidate and the query and returns to Search.
func (m *Machine) RejectCandidate(ctx context.Context, visitor string) (Decision, error) {
	var query string
	ok, err := m.Store.Get(ctx, visitor, KeySearchQuery, &query)
	if err != nil {
		return Decision{}, err
	}
	if decision := Guard(StateVerify, present(ok, KeySearchQuery)); decision.Redirected() {
		return decision, nil
	}

	if err := m.Store.Delete(ctx, visitor, KeyPendingCandidate, KeySearchQuery); err != nil {
		return Decision{}, err
	}
	return RedirectTo(StateSearch), nil
}

func (m *Machine) CreateAccount(ctx context.Context, visitor string) (AccountView, error) {
	var verified entity.VerifiedBusiness
	ok, err := m.Store.Get(ctx, visitor, KeyVerifiedBusiness, &verified)
	if err != nil {
		return AccountView{}, err
	}
	if decision := Guard(StateCreateAccount, present(ok, KeyVerifiedBusiness)); decision.Redirected() {
		return AccountView{Decision: decision}, nil
	}

	view := AccountView{Decision: Proceed(StateCreateAccount), Business: &verified}

	var draft entity.AccountDraft
	ok, err = m.Store.Get(ctx, visitor, KeyAccountDraft, &draft)
	if err != nil {
		return AccountView{}, err
	}
	if ok {
		redacted := draft.Redacted()
		view.Draft = &redacted
	}
	return view, nil
}

// SubmitAccount validates and stores the account draft. Nothing is sent to any
// collaborator until terms are accepted.
func (m *Machine) SubmitAccount(ctx context.Context, visitor string, draft entity.AccountDraft) (Decision, error) {
	var verified entity.VerifiedBusiness
	ok, err := m.Store.Get(ctx, visitor, KeyVerifiedBusiness, &verified)
	if err != nil {
		return Decision{}, err
	}
	if decision := Guard(StateCreateAccount, present(ok, KeyVerifiedBusiness)); decision.Redirected() {
		return decision, nil
	}

	if !draft.OwnershipAttestation {
		return Decision{}, ErrOwnershipNotAttested
	}

	normalized, errs := m.Validator.ValidateAccountDraft(draft)
	if len(errs) > 0 {
		return Decision{}, &ValidationFailedError{Fields: errs}
	}

	if err := m.Store.Put(ctx, visitor, KeyAccountDraft, normalized); err != nil {
		return Decision{}, err
	}
	return Proceed(StateAcceptTerms), nil
}

func (m *Machine) Terms(ctx context.Context, visitor string) (TermsView, error) {
	verified, draft, decision, err := m.loadActivationInputs(ctx, visitor)
	if err != nil || decision.Redirected() {
		return TermsView{Decision: decision}, err
	}

	redacted := draft.Redacted()
	return TermsView{Decision: decision, Business: verified, Draft: &redacted}, nil
}

// AcceptTerms runs the activation and, once it succeeds, clears the whole step
// state. A failed activation leaves every key in place so the visitor can retry.
func (m *Machine) AcceptTerms(ctx context.Context, visitor string, agreed bool) (SuccessView, error) {
	_, _, decision, err := m.loadActivationInputs(ctx, visitor)
	if err != nil || decision.Redirected() {
		return SuccessView{Decision: decision}, err
	}

	if !agreed {
		return SuccessView{}, ErrTermsNotAccepted
	}

	unlock, err := m.Locker.Lock(ctx, visitor)
	if err != nil {
		return SuccessView{}, err
	}
	defer unlock()

	// an activation that finished while we waited for the lock has cleared the state
	verified, draft, decision, err := m.loadActivationInputs(ctx, visitor)
	if err != nil || decision.Redirected() {
		return SuccessView{Decision: decision}, err
	}

	result, err := m.Activator.Activate(ctx, *verified, *draft)
	if err != nil {
		log := m.Logger.WithFields(logrus.Fields{"module": "onboarding", "visitor": visitor})
		var stepErr *ActivationStepFailedError
		if errors.As(err, &stepErr) {
			log = log.WithField("step", stepErr.Step)
		}
		log.WithError(err).Error("activation failed")
		return SuccessView{}, err
	}

	// the listing is committed; the clear must outlive a visitor who already left
	clearCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), clearTimeout)
	defer cancel()
	if err := m.Store.ClearAll(clearCtx, visitor); err != nil {
		// stale keys expire with the store TTL
		config.LogError(m.Logger, "onboarding", "AcceptTerms", "clear step state", map[string]interface{}{"visitor": visitor}, err)
	}

	m.Logger.WithFields(logrus.Fields{
		"module":     "onboarding",
		"visitor":    visitor,
		"listing_id": result.Listing.ID,
	}).Info("onboarding completed")

	return SuccessView{Decision: Proceed(StateSuccess), Listing: result.Listing, Session: result.Session}, nil
}

func (m *Machine) loadActivationInputs(ctx context.Context, visitor string) (*entity.VerifiedBusiness, *entity.AccountDraft, Decision, error) {
	var verified entity.VerifiedBusiness
	hasVerified, err := m.Store.Get(ctx, visitor, KeyVerifiedBusiness, &verified)
	if err != nil {
		return nil, nil, Decision{}, err
	}

	var draft entity.AccountDraft
	hasDraft, err := m.Store.Get(ctx, visitor, KeyAccountDraft, &draft)
	if err != nil {
		return nil, nil, Decision{}, err
	}

	decision := Guard(StateAcceptTerms, func(k StepKey) bool {
		switch k {
		case KeyVerifiedBusiness:
			return hasVerified
		case KeyAccountDraft:
			return hasDraft
		}
		return false
	})
	if decision.Redirected() {
		return nil, nil, decision, nil
	}
	return &verified, &draft, decision, nil
}

func present(ok bool, key StepKey) func(StepKey) bool {
	return func(k StepKey) bool {
		return ok && k == key
	}
}
