package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/vertextarget/portal-gateway/internal/core/domain"
	"github.com/vertextarget/portal-gateway/internal/core/ports"
)

// ContactService forwards contact form submissions and lists them for admins.
type ContactService struct {
	client ports.ContactClient
	log    zerolog.Logger
}

func NewContactService(client ports.ContactClient, log zerolog.Logger) *ContactService {
	return &ContactService{client: client, log: log}
}

// Submit trims the form and sends it to the backend.
func (s *ContactService) Submit(ctx context.Context, in domain.ContactInput) (domain.Contact, error) {
	c, err := s.client.Submit(ctx, in.Normalize())
	if err != nil {
		s.log.Warn().Err(err).Msg("contact submission failed")
		return domain.Contact{}, err
	}
	s.log.Info().Str("contact_id", c.ID).Int("interests", len(c.ServiceInterest)).Msg("contact received")
	return c, nil
}

func (s *ContactService) List(ctx context.Context, actor domain.Actor) ([]domain.Contact, error) {
	if actor.Token == "" {
		return nil, domain.ErrNotAuthenticated
	}
	return s.client.List(ctx, actor.Token)
}
