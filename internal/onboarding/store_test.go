package onboarding

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/rewards-onboarding/internal/entity"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(time.Hour)

	require.NoError(t, s.Put(ctx, "a", KeyVerifiedBusiness, joes.Verify()))

	var got entity.VerifiedBusiness
	ok, err := s.Get(ctx, "a", KeyVerifiedBusiness, &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, joes.Verify(), got)

	ok, err = s.Get(ctx, "b", KeyVerifiedBusiness, &got)
	require.NoError(t, err)
	assert.False(t, ok, "visitors must not see each other's keys")
}

func TestMemoryStoreExpires(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	s := NewMemoryStore(time.Minute)
	s.now = func() time.Time { return now }

	require.NoError(t, s.Put(ctx, "a", KeySearchQuery, "joe"))

	s.now = func() time.Time { return now.Add(2 * time.Minute) }
	var q string
	ok, err := s.Get(ctx, "a", KeySearchQuery, &q)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStoreSweep(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	s := NewMemoryStore(time.Minute)
	s.now = func() time.Time { return now }

	require.NoError(t, s.Put(ctx, "a", KeySearchQuery, "joe"))
	require.NoError(t, s.Put(ctx, "b", KeySearchQuery, "ann"))

	s.now = func() time.Time { return now.Add(30 * time.Second) }
	require.NoError(t, s.Put(ctx, "b", KeySearchQuery, "ann"))

	s.now = func() time.Time { return now.Add(70 * time.Second) }
	removed, err := s.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	var q string
	ok, err := s.Get(ctx, "b", KeySearchQuery, &q)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMemoryStoreClearAll(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(0)

	for _, k := range AllKeys {
		require.NoError(t, s.Put(ctx, "a", k, "x"))
	}
	require.NoError(t, s.Put(ctx, "b", KeySearchQuery, "keep"))

	require.NoError(t, s.ClearAll(ctx, "a"))

	for _, k := range AllKeys {
		var v string
		ok, err := s.Get(ctx, "a", k, &v)
		require.NoError(t, err)
		assert.False(t, ok, string(k))
	}

	var v string
	ok, _ := s.Get(ctx, "b", KeySearchQuery, &v)
	assert.True(t, ok)
}

func TestStorageKey(t *testing.T) {
	assert.Equal(t, "onboarding:v-9:account_draft", StorageKey("v-9", KeyAccountDraft))
}

func TestMemoryLocker(t *testing.T) {
	l := NewMemoryLocker()

	unlock, err := l.Lock(context.Background(), "a")
	require.NoError(t, err)

	_, err = l.Lock(context.Background(), "a")
	assert.ErrorIs(t, err, ErrActivationInProgress)

	other, err := l.Lock(context.Background(), "b")
	require.NoError(t, err)
	other()

	unlock()
	unlock()
	again, err := l.Lock(context.Background(), "a")
	require.NoError(t, err)
	again()
}
