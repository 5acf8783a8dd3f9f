package automation

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/rewards-onboarding/internal/infra/queue"
)

func TestNotifyCheckoutStarted(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	c.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }

	err := c.NotifyCheckoutStarted(context.Background(), queue.CheckoutNotificationPayload{
		Name: "Ann", Email: "ann@example.com", CheckoutSessionID: "cs_1",
	})
	require.NoError(t, err)

	assert.Equal(t, "Ann", got["name"])
	assert.Equal(t, "premium", got["plan"])
	assert.Equal(t, "checkout_started", got["status"])
	assert.Equal(t, "2026-01-02T03:04:05Z", got["subscribed_on"])
	assert.Equal(t, "cs_1", got["checkout_session_id"])
}

func TestNotifyCheckoutStartedNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	err := NewClient(srv.URL).NotifyCheckoutStarted(context.Background(), queue.CheckoutNotificationPayload{})
	assert.Error(t, err)
}
