package onboarding

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/xavierca1/rewards-onboarding/internal/entity"
	"github.com/xavierca1/rewards-onboarding/internal/usecase"
)

const visitor = "v-1"

var joes = entity.CandidateBusiness{
	PlaceID:   "abc",
	Name:      "Joe's Diner",
	Address:   "123 Main St",
	Latitude:  coord(40.1),
	Longitude: coord(-73.2),
}

func coord(v float64) *float64 { return &v }

type fakeLookup struct {
	mu      sync.Mutex
	results []entity.CandidateBusiness
	err     error
	calls   int
	hook    func()
}

func (f *fakeLookup) Search(_ context.Context, _ string) ([]entity.CandidateBusiness, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.hook != nil {
		f.hook()
	}
	return f.results, f.err
}

// backend records activation calls in order and mimics unique emails.
type backend struct {
	mu       sync.Mutex
	calls    []string
	emails   map[string]string
	listings []entity.ListingDraft

	registerErr error
	authErr     error
	listingErr  error
	block       chan struct{}
}

func newBackend() *backend {
	return &backend{emails: map[string]string{}}
}

func (b *backend) record(call string) {
	b.mu.Lock()
	b.calls = append(b.calls, call)
	b.mu.Unlock()
}

func (b *backend) Register(_ context.Context, name, email, password string) (*entity.User, error) {
	b.record(StepRegister)
	if b.block != nil {
		<-b.block
	}
	if b.registerErr != nil {
		return nil, b.registerErr
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if _, exists := b.emails[email]; exists {
		return nil, &usecase.DomainError{Code: usecase.CodeEmailConflict, Message: "email already registered", Err: entity.ErrEmailAlreadyExists}
	}
	b.emails[email] = password
	return &entity.User{ID: int64(len(b.emails)), Email: email, Name: name}, nil
}

func (b *backend) Authenticate(_ context.Context, email, password string) (*entity.Session, error) {
	b.record(StepAuthenticate)
	if b.authErr != nil {
		return nil, b.authErr
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.emails[email] != password {
		return nil, entity.ErrInvalidCredentials
	}
	return &entity.Session{Token: "tok-" + email, Email: email, UserID: 1}, nil
}

func (b *backend) CreateForSession(_ context.Context, token string, draft entity.ListingDraft) (*entity.Listing, error) {
	b.record(StepCreateListing)
	if token == "" {
		return nil, entity.ErrUnauthorized
	}
	if b.listingErr != nil {
		return nil, b.listingErr
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.listings = append(b.listings, draft)
	l := entity.NewListing(1, draft)
	l.ID = int64(len(b.listings))
	return l, nil
}

type failingStore struct {
	*MemoryStore
	clearErr error
}

func (s *failingStore) ClearAll(ctx context.Context, visitor string) error {
	if s.clearErr != nil {
		return s.clearErr
	}
	return s.MemoryStore.ClearAll(ctx, visitor)
}

var errBoom = errors.New("boom")

func nullLogger() logrus.FieldLogger {
	logger, _ := test.NewNullLogger()
	return logger
}

type harness struct {
	store   *MemoryStore
	lookup  *fakeLookup
	backend *backend
	machine *Machine
}

func newHarness() *harness {
	h := &harness{
		store:   NewMemoryStore(0),
		lookup:  &fakeLookup{results: []entity.CandidateBusiness{joes, {PlaceID: "zzz", Name: "Other"}}},
		backend: newBackend(),
	}
	activation := NewActivation(h.backend, h.backend, h.backend, nullLogger())
	h.machine = NewMachine(h.store, h.lookup, activation, NewMemoryLocker(), usecase.NewValidator("US"), nullLogger())
	return h
}

func goodDraft() entity.AccountDraft {
	return entity.AccountDraft{
		FullName:             "Ann Lee",
		Email:                "ann@example.com",
		MobileNumber:         "555-1111",
		Password:             "s3cretpass",
		OwnershipAttestation: true,
	}
}

// ctxStore refuses writes on a finished context, like a network store does.
type ctxStore struct {
	*MemoryStore
}

func (s *ctxStore) ClearAll(ctx context.Context, visitor string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.MemoryStore.ClearAll(ctx, visitor)
}

// cancellingActivator succeeds and then cancels the request, as a visitor
// closing the tab while the listing commit returns.
type cancellingActivator struct {
	cancel context.CancelFunc
}

func (a *cancellingActivator) Activate(_ context.Context, v entity.VerifiedBusiness, d entity.AccountDraft) (*ActivationResult, error) {
	a.cancel()
	return &ActivationResult{
		Listing: &entity.Listing{ID: 7, BusinessName: v.Name, Status: entity.ListingStatusActive},
		Session: &entity.Session{Token: "tok-" + d.Email, Email: d.Email},
	}, nil
}

// lateLocker runs beforeGrant while the caller waits for the lock.
type lateLocker struct {
	beforeGrant func()
}

func (l *lateLocker) Lock(context.Context, string) (func(), error) {
	if l.beforeGrant != nil {
		l.beforeGrant()
	}
	return func() {}, nil
}
