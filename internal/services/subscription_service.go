package services

import (
	"context"
	"strings"

	"nexusshop/internal/repos"
	"nexusshop/internal/validate"
)

type SubscriptionService struct {
	Subs *repos.SubscriberRepo
}

func NewSubscriptionService(subs *repos.SubscriberRepo) *SubscriptionService {
	return &SubscriptionService{Subs: subs}
}

// Subscribe records email for the newsletter. Subscribing twice is not an
// error and leaves one row.
func (s *SubscriptionService) Subscribe(ctx context.Context, email string) error {
	addr, ok := validate.Email(email)
	if !ok {
		return fieldError("email", "Enter a valid email address.")
	}
	_, err := s.Subs.Upsert(ctx, strings.ToLower(addr))
	return err
}
