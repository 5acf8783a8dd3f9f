package worker

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// Sweeper removes expired state and reports how much it removed.
type Sweeper interface {
	Sweep(ctx context.Context) (int, error)
}

// SweepWorker runs a Sweeper on a fixed tick until the context ends.
type SweepWorker struct {
	target       Sweeper
	name         string
	tickInterval time.Duration
	logger       logrus.FieldLogger
}

func NewSweepWorker(name string, target Sweeper, interval time.Duration, logger logrus.FieldLogger) *SweepWorker {
	if interval <= 0 {
		interval = time.Minute
	}
	return &SweepWorker{
		target:       target,
		name:         name,
		tickInterval: interval,
		logger:       logger.WithFields(logrus.Fields{"module": "worker", "worker": name}),
	}
}

func (w *SweepWorker) Start(ctx context.Context) {
	w.logger.WithField("interval", w.tickInterval).Info("sweep worker started")

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	w.sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("sweep worker stopped")
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *SweepWorker) sweep(ctx context.Context) {
	removed, err := w.target.Sweep(ctx)
	if err != nil {
		w.logger.WithError(err).Warn("sweep failed")
		return
	}
	if removed > 0 {
		w.logger.WithField("removed", removed).Debug("expired entries swept")
	}
}
