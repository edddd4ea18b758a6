package services

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"nexusshop/internal/mail"
	"nexusshop/internal/validate"
)

type ContactService struct {
	Mail mail.Sender
	To   string
}

func NewContactService(sender mail.Sender, to string) *ContactService {
	return &ContactService{Mail: sender, To: to}
}

// Send forwards a contact-form message to the shop mailbox. It is tried
// once; failures come back as ErrBadHeader or ErrTransport.
func (s *ContactService) Send(ctx context.Context, name, email, message string) error {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if validate.HasHeaderBreak(name) || validate.HasHeaderBreak(email) {
		return ErrBadHeader
	}
	verr := &ValidationError{}
	if _, ok := validate.Text(name, 100); !ok {
		verr.Add("name", "Please tell us your name.")
	}
	if _, ok := validate.Email(email); !ok {
		verr.Add("email", "Enter a valid email address.")
	}
	if strings.TrimSpace(message) == "" {
		verr.Add("message", "Message cannot be empty.")
	}
	if err := verr.Err(); err != nil {
		return err
	}

	err := s.Mail.Send(ctx, mail.Message{
		Subject: "Contact Form Submission from " + name,
		Body:    message,
		From:    email,
		To:      []string{s.To},
	})
	if err != nil {
		return errors.Wrapf(ErrTransport, "%v", err)
	}
	return nil
}
