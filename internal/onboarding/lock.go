package onboarding

import (
	"context"
	"sync"
)

// VisitorLocker serializes activation per visitor. Lock fails with
// ErrActivationInProgress when the visitor is already locked.
type VisitorLocker interface {
	Lock(ctx context.Context, visitor string) (unlock func(), err error)
}

type MemoryLocker struct {
	mu   sync.Mutex
	held map[string]struct{}
}

func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{held: map[string]struct{}{}}
}

func (l *MemoryLocker) Lock(_ context.Context, visitor string) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.held[visitor]; ok {
		return nil, ErrActivationInProgress
	}
	l.held[visitor] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.held, visitor)
			l.mu.Unlock()
		})
	}, nil
}
