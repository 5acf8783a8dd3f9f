package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

type WelcomeMailer interface {
	SendWelcome(to, name, businessName string) error
}

type CheckoutNotifier interface {
	NotifyCheckoutStarted(ctx context.Context, payload CheckoutNotificationPayload) error
}

// Dispatcher routes a task to the integration that handles its type.
type Dispatcher struct {
	Mailer   WelcomeMailer
	Notifier CheckoutNotifier
	Logger   logrus.FieldLogger
}

func (d *Dispatcher) Handle(ctx context.Context, task Task) error {
	switch task.Type {
	case TaskWelcomeEmail:
		var p WelcomeEmailPayload
		if err := json.Unmarshal(task.Payload, &p); err != nil {
			return fmt.Errorf("decode welcome email payload: %w", err)
		}
		if d.Mailer == nil {
			d.Logger.WithField("task_id", task.ID).Warn("no mailer configured, skipping welcome email")
			return nil
		}
		return d.Mailer.SendWelcome(p.Email, p.Name, p.BusinessName)

	case TaskCheckoutNotification:
		var p CheckoutNotificationPayload
		if err := json.Unmarshal(task.Payload, &p); err != nil {
			return fmt.Errorf("decode checkout notification payload: %w", err)
		}
		if d.Notifier == nil {
			d.Logger.WithField("task_id", task.ID).Warn("no automation hook configured, skipping notification")
			return nil
		}
		return d.Notifier.NotifyCheckoutStarted(ctx, p)

	default:
		// unknown types are acked so they do not block the queue
		d.Logger.WithFields(logrus.Fields{"task_id": task.ID, "type": task.Type}).Warn("unknown task type")
		return nil
	}
}

type consumer interface {
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
}

type Worker struct {
	Channel    consumer
	Dispatcher *Dispatcher
	Logger     logrus.FieldLogger
	Timeout    time.Duration
}

func NewWorker(ch *amqp.Channel, dispatcher *Dispatcher, logger logrus.FieldLogger) *Worker {
	return &Worker{
		Channel:    ch,
		Dispatcher: dispatcher,
		Logger:     logger,
		Timeout:    30 * time.Second,
	}
}

// Start consumes queueName until ctx is done or the channel closes.
func (w *Worker) Start(ctx context.Context, queueName string) error {
	msgs, err := w.Channel.Consume(queueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("register consumer: %w", err)
	}

	w.Logger.WithField("queue", queueName).Info("worker waiting for tasks")

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return nil
			}
			w.process(ctx, d)
		}
	}
}

func (w *Worker) process(ctx context.Context, d amqp.Delivery) {
	var task Task
	if err := json.Unmarshal(d.Body, &task); err != nil {
		w.Logger.WithError(err).Error("malformed task, sending to dlq")
		d.Nack(false, false)
		return
	}

	log := w.Logger.WithFields(logrus.Fields{"task_id": task.ID, "type": task.Type})

	tctx, cancel := context.WithTimeout(ctx, w.Timeout)
	defer cancel()

	if err := w.Dispatcher.Handle(tctx, task); err != nil {
		log.WithError(err).Error("task failed, sending to dlq")
		d.Nack(false, false)
		return
	}

	log.Info("task done")
	d.Ack(false)
}
