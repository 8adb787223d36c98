package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/vertextarget/portal-gateway/internal/core/domain"
	"github.com/vertextarget/portal-gateway/internal/core/ports"
)

const defaultStrategyTokenTTL = 23 * time.Hour

// StrategyConfig holds the service account used for anonymous visitors.
type StrategyConfig struct {
	DemoEmail    string
	DemoPassword string
	TokenTTL     time.Duration
}

// StrategyService generates marketing strategies. Logged in users call the
// backend with their own token; visitors share a cached demo token.
type StrategyService struct {
	client ports.StrategyClient
	auth   ports.AuthClient
	cfg    StrategyConfig
	log    zerolog.Logger
	now    func() time.Time

	mu      sync.Mutex
	token   string
	expires time.Time
}

func NewStrategyService(client ports.StrategyClient, auth ports.AuthClient, cfg StrategyConfig, log zerolog.Logger) *StrategyService {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = defaultStrategyTokenTTL
	}
	return &StrategyService{client: client, auth: auth, cfg: cfg, log: log, now: time.Now}
}

func (s *StrategyService) Generate(ctx context.Context, userToken, industry, objective string) (*domain.Strategy, error) {
	industry, objective = strings.TrimSpace(industry), strings.TrimSpace(objective)
	if industry == "" || objective == "" {
		return nil, fmt.Errorf("%w: industry and objective are required", domain.ErrValidation)
	}

	if userToken != "" {
		return s.client.Generate(ctx, userToken, industry, objective)
	}

	token, err := s.demoToken(ctx)
	if err != nil {
		return nil, err
	}
	res, err := s.client.Generate(ctx, token, industry, objective)
	if errors.Is(err, domain.ErrUnauthorized) {
		s.dropToken(token)
	}
	return res, err
}

// demoToken returns the cached service token, logging in when it is
// missing or older than the configured TTL.
func (s *StrategyService) demoToken(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token != "" && s.now().Before(s.expires) {
		return s.token, nil
	}
	if s.cfg.DemoEmail == "" || s.cfg.DemoPassword == "" {
		return "", domain.ErrNotAuthenticated
	}

	res, err := s.auth.Login(ctx, s.cfg.DemoEmail, s.cfg.DemoPassword)
	if err != nil {
		s.log.Error().Err(err).Msg("strategy demo login failed")
		return "", err
	}
	s.token = res.Token
	s.expires = s.now().Add(s.cfg.TokenTTL)
	s.log.Info().Time("expires", s.expires).Msg("strategy demo token refreshed")
	return s.token, nil
}

// dropToken forgets token unless it was already replaced.
func (s *StrategyService) dropToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token == token {
		s.token = ""
		s.expires = time.Time{}
	}
}

// CacheStats returns the backend strategy cache counters.
func (s *StrategyService) CacheStats(ctx context.Context, actor domain.Actor) (domain.StrategyCacheStats, error) {
	if actor.Token == "" {
		return domain.StrategyCacheStats{}, domain.ErrNotAuthenticated
	}
	return s.client.CacheStats(ctx, actor.Token)
}

// ClearCache empties the backend strategy cache on behalf of actor.
func (s *StrategyService) ClearCache(ctx context.Context, actor domain.Actor) (domain.StrategyCacheCleared, error) {
	if actor.Token == "" {
		return domain.StrategyCacheCleared{}, domain.ErrNotAuthenticated
	}
	res, err := s.client.ClearCache(ctx, actor.Token)
	if err != nil {
		return domain.StrategyCacheCleared{}, err
	}
	s.log.Info().Str("actor", actor.Email).Int("cleared", res.ClearedEntries).Msg("strategy cache cleared")
	return res, nil
}

func (s *StrategyService) CacheHealth(ctx context.Context) (domain.StrategyCacheHealth, error) {
	return s.client.CacheHealth(ctx)
}
