package email

import (
	"context"

	"github.com/cuongpc-foren/EMA-tool/internal/service/notification"
	"gopkg.in/gomail.v2"
)

var _ notification.EmailService = (*Service)(nil)

// Service sends mail through an authenticated SMTP submission relay.
// On port 587 the dialer upgrades the connection with STARTTLS.
type Service struct {
	dialer *gomail.Dialer
	from   string
}

func NewService(host string, port int, username, password string) *Service {
	return &Service{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   username,
	}
}

func (s *Service) send(to, subject, body, contentType string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody(contentType, body)
	return s.dialer.DialAndSend(m)
}

func (s *Service) SendText(ctx context.Context, to, subject, body string) error {
	return s.send(to, subject, body, "text/plain")
}

func (s *Service) SendHTML(ctx context.Context, to, subject, body string) error {
	return s.send(to, subject, body, "text/html")
}
