package service

import (
	"context"
	"strings"

	"github.com/productdigest/content-api/internal/repository"
)

type SubscriberService interface {
	Subscribe(ctx context.Context, email string) error
}

type subscriberService struct {
	sr repository.SubscriberRepository
}

func NewSubscriberService(sr repository.SubscriberRepository) SubscriberService {
	return &subscriberService{sr: sr}
}

func (s *subscriberService) Subscribe(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if !validEmail(email) {
		return invalid("invalid_email")
	}

	sub, err := s.sr.Create(ctx, email)
	if err != nil {
		return err
	}
	if sub == nil {
		return ErrDuplicate
	}
	return nil
}
