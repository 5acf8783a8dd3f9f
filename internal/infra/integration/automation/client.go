package automation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/xavierca1/rewards-onboarding/internal/infra/queue"
)

// Client posts onboarding events to an external automation webhook.
type Client struct {
	hookURL string
	http    *http.Client
	now     func() time.Time
}

func NewClient(hookURL string) *Client {
	return &Client{
		hookURL: hookURL,
		http:    &http.Client{Timeout: 10 * time.Second},
		now:     time.Now,
	}
}

type checkoutStartedEvent struct {
	Name              string `json:"name"`
	Email             string `json:"email"`
	Plan              string `json:"plan"`
	Status            string `json:"status"`
	SubscribedOn      string `json:"subscribed_on"`
	CheckoutSessionID string `json:"checkout_session_id"`
}

func (c *Client) NotifyCheckoutStarted(ctx context.Context, p queue.CheckoutNotificationPayload) error {
	body, err := json.Marshal(checkoutStartedEvent{
		Name:              p.Name,
		Email:             p.Email,
		Plan:              "premium",
		Status:            "checkout_started",
		SubscribedOn:      c.now().UTC().Format(time.RFC3339),
		CheckoutSessionID: p.CheckoutSessionID,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.hookURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("post automation hook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("automation hook status %d: %s", resp.StatusCode, string(b))
	}
	return nil
}
