package redisstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/sirupsen/logrus"

	"github.com/xavierca1/rewards-onboarding/internal/onboarding"
)

type obtainer interface {
	Obtain(ctx context.Context, key string, ttl time.Duration, opt *redislock.Options) (*redislock.Lock, error)
}

// Locker holds a short Redis lock per visitor while an activation runs.
type Locker struct {
	locks  obtainer
	ttl    time.Duration
	logger logrus.FieldLogger
}

func NewLocker(client redislock.RedisClient, ttl time.Duration, logger logrus.FieldLogger) *Locker {
	return &Locker{locks: redislock.New(client), ttl: ttl, logger: logger}
}

func lockKey(visitor string) string {
	return "lock:onboarding:" + visitor
}

func (l *Locker) Lock(ctx context.Context, visitor string) (func(), error) {
	lock, err := l.locks.Obtain(ctx, lockKey(visitor), l.ttl, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, onboarding.ErrActivationInProgress
	}
	if err != nil {
		return nil, fmt.Errorf("obtain activation lock: %w", err)
	}

	return func() {
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
		defer cancel()
		if err := lock.Release(rctx); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			l.logger.WithFields(logrus.Fields{"module": "redisstore", "visitor": visitor}).
				WithError(err).Warn("failed to release activation lock")
		}
	}, nil
}
