package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/vertextarget/portal-gateway/internal/core/domain"
	"github.com/vertextarget/portal-gateway/internal/core/ports"
)

const usersResource = "users"

// UserService manages accounts on behalf of a logged in actor.
type UserService struct {
	users ports.UserClient
	auth  ports.AuthClient
	audit ports.AuditSink
	log   zerolog.Logger
	now   func() time.Time
}

func NewUserService(users ports.UserClient, auth ports.AuthClient, audit ports.AuditSink, log zerolog.Logger) *UserService {
	if audit == nil {
		audit = ports.NopAuditSink{}
	}
	return &UserService{users: users, auth: auth, audit: audit, log: log, now: time.Now}
}

func (s *UserService) List(ctx context.Context, actor domain.Actor) ([]domain.User, error) {
	if actor.Token == "" {
		return nil, domain.ErrNotAuthenticated
	}
	return s.users.List(ctx, actor.Token)
}

// Create registers an account with an explicit role. Unlike self-service
// registration it does not log anyone in.
func (s *UserService) Create(ctx context.Context, actor domain.Actor, in domain.RegisterInput) (*domain.User, error) {
	if actor.Token == "" {
		return nil, domain.ErrNotAuthenticated
	}
	res, err := s.auth.Register(ctx, in)
	if err != nil {
		return nil, err
	}
	s.record(actor, domain.AuditCreate, res.User.ID)
	s.log.Info().Str("actor", actor.Email).Str("user_id", res.User.ID).Str("role", string(res.User.Role)).Msg("account created")
	return &res.User, nil
}

func (s *UserService) Update(ctx context.Context, actor domain.Actor, id string, in domain.UserUpdate) (domain.User, error) {
	if actor.Token == "" {
		return domain.User{}, domain.ErrNotAuthenticated
	}
	u, err := s.users.Update(ctx, actor.Token, id, in)
	if err != nil {
		return domain.User{}, err
	}
	s.record(actor, domain.AuditUpdate, id)
	return u, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, actor domain.Actor, in domain.ProfileUpdate) (domain.User, error) {
	if actor.Token == "" {
		return domain.User{}, domain.ErrNotAuthenticated
	}
	return s.users.UpdateProfile(ctx, actor.Token, in)
}

func (s *UserService) record(actor domain.Actor, action domain.AuditAction, id string) {
	s.audit.Record(domain.AuditRecord{
		Resource:   usersResource,
		Action:     action,
		ResourceID: id,
		ActorID:    actor.UserID,
		ActorEmail: actor.Email,
		At:         s.now().UTC(),
	})
}
