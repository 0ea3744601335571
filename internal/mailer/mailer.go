// Package mailer sends notification emails over SMTP. Delivery is fire
// and forget: callers log failures and carry on, data writes never wait
// on the mail transport.
package mailer

import (
	"strconv"
	"sync"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/surveyhq/survey-management-api/internal/config"
)

// Mailer delivers one message to a recipient list.
type Mailer interface {
	Send(subject, body string, to ...string) error
}

// SMTPMailer is the gomail-backed Mailer used in production.
type SMTPMailer struct {
	dialer *gomail.Dialer
	sender string
	logger *zap.Logger
}

// NewSMTPMailer builds a mailer from SMTP configuration.
func NewSMTPMailer(cfg *config.Config, logger *zap.Logger) *SMTPMailer {
	if logger == nil {
		logger = zap.NewNop()
	}
	port, err := strconv.Atoi(cfg.SMTPPort)
	if err != nil {
		port = 587
	}
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.SMTPHost, port, cfg.SMTPUser, cfg.SMTPPass),
		sender: cfg.MailSender,
		logger: logger,
	}
}

// Send delivers a single HTML message.
func (m *SMTPMailer) Send(subject, body string, to ...string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.sender)
	msg.SetHeader("To", to...)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		m.logger.Error("email delivery failed",
			zap.String("subject", subject),
			zap.Strings("to", to),
			zap.Error(err))
		return err
	}

	m.logger.Info("email sent", zap.String("subject", subject), zap.Strings("to", to))
	return nil
}

// SentMessage is one message captured by the Recorder.
type SentMessage struct {
	Subject string
	Body    string
	To      []string
}

// Recorder is an in-memory Mailer for tests.
type Recorder struct {
	mu   sync.Mutex
	sent []SentMessage

	// FailWith, when set, is returned from Send after recording.
	FailWith error
}

func (r *Recorder) Send(subject, body string, to ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, SentMessage{Subject: subject, Body: body, To: to})
	return r.FailWith
}

// Sent returns a copy of the captured messages.
func (r *Recorder) Sent() []SentMessage {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]SentMessage, len(r.sent))
	copy(out, r.sent)
	return out
}
