package mailer

import (
	"time"

	"artistconnection/internal/config"

	log "github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"
)

const welcomeMaxRetries = 3

// SMTPMailer sends HTML mail through a single SMTP account.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPMailer(cfg config.SMTP) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:   cfg.From,
	}
}

func (m *SMTPMailer) Send(to, subject, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	if err := m.dialer.DialAndSend(msg); err != nil {
		log.WithError(err).WithField("to", to).Error("Failed to send email")
		return err
	}
	log.WithField("to", to).Info("Email sent")
	return nil
}

// SendWelcomeEmail retries with exponential backoff and swallows the final
// failure; a missed welcome mail is not worth failing a signup over.
func (m *SMTPMailer) SendWelcomeEmail(to string) {
	html, err := RenderWelcomeEmail()
	if err != nil {
		log.WithError(err).Error("Failed to render welcome email")
		return
	}

	for attempt := 1; attempt <= welcomeMaxRetries; attempt++ {
		err = m.Send(to, "Welcome to MTG Artist Connection!", html)
		if err == nil {
			return
		}
		log.WithError(err).WithFields(log.Fields{
			"to":      to,
			"attempt": attempt,
		}).Error("Failed to send welcome email")
		if attempt < welcomeMaxRetries {
			time.Sleep(time.Duration(1<<attempt) * time.Second)
		}
	}
	log.WithField("to", to).Error("Giving up on welcome email")
}
