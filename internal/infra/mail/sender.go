package mail

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"gopkg.in/gomail.v2"
)

//go:embed templates/*.html
var templateFS embed.FS

var welcomeTemplate = template.Must(template.ParseFS(templateFS, "templates/welcome.html"))

type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

func NewEmailSender(host string, port int, user, password, from, appBaseURL string) *EmailSender {
	return &EmailSender{
		From:         from,
		DashboardURL: appBaseURL + "/dashboard",
		dialer:       gomail.NewDialer(host, port, user, password),
	}
}

func (s *EmailSender) SendWelcome(to, name, businessName string) error {
	body, err := renderWelcome(WelcomeEmailData{
		Name:         name,
		BusinessName: businessName,
		DashboardURL: s.DashboardURL,
	})
	if err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", fmt.Sprintf("Welcome to the Rewards Network, %s!", name))
	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send welcome email: %w", err)
	}

	return nil
}

func renderWelcome(data WelcomeEmailData) (string, error) {
	var body bytes.Buffer
	if err := welcomeTemplate.Execute(&body, data); err != nil {
		return "", fmt.Errorf("render welcome email: %w", err)
	}
	return body.String(), nil
}
