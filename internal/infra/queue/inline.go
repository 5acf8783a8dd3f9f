package queue

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// InlinePublisher runs tasks in a background goroutine when no broker is configured.
type InlinePublisher struct {
	Dispatcher *Dispatcher
	Logger     logrus.FieldLogger
	Timeout    time.Duration

	wg sync.WaitGroup
}

func NewInlinePublisher(dispatcher *Dispatcher, logger logrus.FieldLogger) *InlinePublisher {
	return &InlinePublisher{Dispatcher: dispatcher, Logger: logger, Timeout: 30 * time.Second}
}

func (p *InlinePublisher) Publish(ctx context.Context, task Task) error {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()

		tctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.Timeout)
		defer cancel()

		if err := p.Dispatcher.Handle(tctx, task); err != nil {
			p.Logger.WithFields(logrus.Fields{"task_id": task.ID, "type": task.Type}).
				WithError(err).Error("inline task failed")
		}
	}()
	return nil
}

// Wait blocks until every published task has finished.
func (p *InlinePublisher) Wait() {
	p.wg.Wait()
}
