package onboarding

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/xavierca1/rewards-onboarding/internal/entity"
)

// StepKey names one artifact of the step state.
type StepKey string

const (
	KeySearchQuery      StepKey = "search_query"
	KeyVerifiedBusiness StepKey = "verified_business"
	KeyAccountDraft     StepKey = "account_draft"
	KeyPendingCandidate StepKey = "pending_candidate"
)

// AllKeys is the full onboarding key set, removed together after activation.
var AllKeys = []StepKey{KeySearchQuery, KeyVerifiedBusiness, KeyAccountDraft, KeyPendingCandidate}

// StorageKey is the namespaced key under which a visitor's artifact is stored.
func StorageKey(visitor string, key StepKey) string {
	return "onboarding:" + visitor + ":" + string(key)
}

// PendingCandidate is the match shown on the Verify step for query.
type PendingCandidate struct {
	Query     string                   `json:"query"`
	Candidate entity.CandidateBusiness `json:"candidate"`
}

// StepStore keeps partially completed onboarding data per visitor.
type StepStore interface {
	Put(ctx context.Context, visitor string, key StepKey, value any) error
	// Get decodes the stored value into dest and reports whether it was present.
	Get(ctx context.Context, visitor string, key StepKey, dest any) (bool, error)
	Delete(ctx context.Context, visitor string, keys ...StepKey) error
	// ClearAll removes every key in AllKeys as one operation.
	ClearAll(ctx context.Context, visitor string) error
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryStore is an in-process StepStore for development and tests.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{entries: map[string]memoryEntry{}, ttl: ttl, now: time.Now}
}

func (s *MemoryStore) Put(_ context.Context, visitor string, key StepKey, value any) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e := memoryEntry{value: b}
	if s.ttl > 0 {
		e.expiresAt = s.now().Add(s.ttl)
	}
	s.entries[StorageKey(visitor, key)] = e
	return nil
}

func (s *MemoryStore) Get(_ context.Context, visitor string, key StepKey, dest any) (bool, error) {
	s.mu.Lock()
	e, ok := s.entries[StorageKey(visitor, key)]
	if ok && !e.expiresAt.IsZero() && !s.now().Before(e.expiresAt) {
		delete(s.entries, StorageKey(visitor, key))
		ok = false
	}
	s.mu.Unlock()

	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(e.value, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (s *MemoryStore) Delete(_ context.Context, visitor string, keys ...StepKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, key := range keys {
		delete(s.entries, StorageKey(visitor, key))
	}
	return nil
}

func (s *MemoryStore) ClearAll(ctx context.Context, visitor string) error {
	return s.Delete(ctx, visitor, AllKeys...)
}

// Sweep drops expired entries and reports how many were removed.
func (s *MemoryStore) Sweep(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for k, e := range s.entries {
		if !e.expiresAt.IsZero() && !now.Before(e.expiresAt) {
			delete(s.entries, k)
			removed++
		}
	}
	return removed, nil
}
