// Package mail delivers outbound email: SMTP through gomail when a host is
// configured, otherwise a console sender that only logs.
package mail

import (
	"context"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

type Message struct {
	Subject string
	Body    string
	From    string
	To      []string
}

type Sender interface {
	Send(ctx context.Context, m Message) error
}

type SMTPSender struct {
	dialer *gomail.Dialer
}

func NewSMTPSender(host string, port int, user, password string) *SMTPSender {
	return &SMTPSender{dialer: gomail.NewDialer(host, port, user, password)}
}

func (s *SMTPSender) Send(ctx context.Context, m Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.dialer.DialAndSend(build(m))
}

func build(m Message) *gomail.Message {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.From)
	msg.SetHeader("To", m.To...)
	msg.SetHeader("Subject", m.Subject)
	msg.SetBody("text/plain", m.Body)
	return msg
}

// ConsoleSender writes messages to the process log instead of sending them.
type ConsoleSender struct {
	Log *zap.Logger
}

func (s ConsoleSender) Send(_ context.Context, m Message) error {
	l := s.Log
	if l == nil {
		l = zap.L()
	}
	l.Info("mail.console",
		zap.String("subject", m.Subject),
		zap.String("from", m.From),
		zap.Strings("to", m.To),
		zap.String("body", m.Body),
	)
	return nil
}

// New picks the SMTP sender when host is set.
func New(host string, port int, user, password string) Sender {
	if host == "" {
		return ConsoleSender{}
	}
	return NewSMTPSender(host, port, user, password)
}
