package mail

type WelcomeEmailData struct {
	Name         string
	BusinessName string
	DashboardURL string
}

type EmailSender struct {
	From         string
	DashboardURL string
	dialer       dialer
}
