package mail

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

type recordingDialer struct {
	sent []*gomail.Message
	err  error
}

func (d *recordingDialer) DialAndSend(m ...*gomail.Message) error {
	d.sent = append(d.sent, m...)
	return d.err
}

func TestRenderWelcomeEscapesInput(t *testing.T) {
	body, err := renderWelcome(WelcomeEmailData{Name: "Ann", BusinessName: "<b>Joe's</b>"})
	require.NoError(t, err)

	assert.Contains(t, body, "Welcome to the Rewards Network, Ann!")
	assert.NotContains(t, body, "<b>Joe's</b>")
	assert.NotContains(t, body, "Open your dashboard")
}

func TestSendWelcome(t *testing.T) {
	d := &recordingDialer{}
	s := &EmailSender{From: "no-reply@rewards.test", DashboardURL: "https://app.test/dashboard", dialer: d}

	require.NoError(t, s.SendWelcome("ann@example.com", "Ann", "Joe's Diner"))
	require.Len(t, d.sent, 1)

	m := d.sent[0]
	assert.Equal(t, []string{"ann@example.com"}, m.GetHeader("To"))
	assert.Equal(t, []string{"no-reply@rewards.test"}, m.GetHeader("From"))
	assert.Equal(t, []string{"Welcome to the Rewards Network, Ann!"}, m.GetHeader("Subject"))
}

func TestSendWelcomeWrapsDialError(t *testing.T) {
	s := &EmailSender{From: "x@y.z", dialer: &recordingDialer{err: errors.New("connection refused")}}

	err := s.SendWelcome("ann@example.com", "Ann", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}
