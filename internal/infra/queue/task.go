package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type TaskType string

const (
	TaskWelcomeEmail         TaskType = "welcome_email"
	TaskCheckoutNotification TaskType = "checkout_notification"
)

// Task is the envelope carried on the queue.
type Task struct {
	ID        string          `json:"id"`
	Type      TaskType        `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
}

type WelcomeEmailPayload struct {
	ListingID    int64  `json:"listing_id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	BusinessName string `json:"business_name"`
}

type CheckoutNotificationPayload struct {
	UserID            int64  `json:"user_id"`
	Email             string `json:"email"`
	Name              string `json:"name"`
	CheckoutSessionID string `json:"checkout_session_id"`
	CheckoutURL       string `json:"checkout_url"`
}

func NewTask(t TaskType, payload any) (Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return Task{}, fmt.Errorf("marshal %s payload: %w", t, err)
	}
	return Task{
		ID:        uuid.NewString(),
		Type:      t,
		Payload:   body,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// Publisher is satisfied by the RabbitMQ producer and by the inline publisher.
type Publisher interface {
	Publish(ctx context.Context, task Task) error
}

func PublishWelcomeEmail(ctx context.Context, p Publisher, payload WelcomeEmailPayload) error {
	task, err := NewTask(TaskWelcomeEmail, payload)
	if err != nil {
		return err
	}
	return p.Publish(ctx, task)
}

func PublishCheckoutNotification(ctx context.Context, p Publisher, payload CheckoutNotificationPayload) error {
	task, err := NewTask(TaskCheckoutNotification, payload)
	if err != nil {
		return err
	}
	return p.Publish(ctx, task)
}
