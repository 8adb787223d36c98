package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/vertextarget/portal-gateway/internal/core/domain"
	"github.com/vertextarget/portal-gateway/internal/core/ports"
)

// Auth outcomes reported to an AuthObserver.
const (
	AuthSuccess = "success"
	AuthFailure = "failure"
)

// AuthObserver counts login and registration attempts.
type AuthObserver interface {
	Auth(action, result string)
}

type nopAuthObserver struct{}

func (nopAuthObserver) Auth(string, string) {}

// SessionManager owns the identity of one browser session. The in-memory
// user mirrors the durable storage: both are written together on login and
// wiped together on logout.
type SessionManager struct {
	storage ports.SessionStorage
	auth    ports.AuthClient
	log     zerolog.Logger
	obs     AuthObserver
	now     func() time.Time

	mu       sync.RWMutex
	user     *domain.User
	hydrated bool
	lastErr  string
}

// SessionOption configures a SessionManager.
type SessionOption func(*SessionManager)

func WithAuthObserver(obs AuthObserver) SessionOption {
	return func(m *SessionManager) {
		if obs != nil {
			m.obs = obs
		}
	}
}

func WithSessionClock(now func() time.Time) SessionOption {
	return func(m *SessionManager) { m.now = now }
}

func NewSessionManager(storage ports.SessionStorage, auth ports.AuthClient, log zerolog.Logger, opts ...SessionOption) *SessionManager {
	m := &SessionManager{
		storage: storage,
		auth:    auth,
		log:     log,
		obs:     nopAuthObserver{},
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Hydrate restores the session from durable storage. A corrupt or expired
// record is wiped and leaves the session empty without an error. A storage
// failure is returned and leaves the manager unhydrated, so guards keep
// answering "loading" instead of redirecting a possibly valid session.
func (m *SessionManager) Hydrate(ctx context.Context) error {
	token, hasToken, err := m.storage.Get(ctx, ports.SessionTokenKey)
	if err != nil {
		return fmt.Errorf("hydrate session: %w", err)
	}
	raw, hasUser, err := m.storage.Get(ctx, ports.SessionUserKey)
	if err != nil {
		return fmt.Errorf("hydrate session: %w", err)
	}
	if !hasToken || !hasUser {
		m.markHydrated()
		return nil
	}

	var user domain.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil || user.ID == "" {
		m.log.Warn().Err(err).Msg("discarding corrupt stored session")
		m.wipe(ctx)
		m.markHydrated()
		return nil
	}
	if tokenExpired(token, m.now()) {
		m.log.Info().Str("user_id", user.ID).Msg("stored token expired")
		m.wipe(ctx)
		m.markHydrated()
		return nil
	}

	m.mu.Lock()
	m.user = &user
	m.hydrated = true
	m.mu.Unlock()
	return nil
}

func (m *SessionManager) markHydrated() {
	m.mu.Lock()
	m.hydrated = true
	m.mu.Unlock()
}

// tokenExpired reads the exp claim without verifying the signature. Tokens
// that are not JWTs or carry no exp never expire here; the backend stays
// the authority on validity.
func tokenExpired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !exp.After(now)
}

// Login authenticates against the backend and persists the session. On
// failure the current session is left untouched and the error is kept for Err.
func (m *SessionManager) Login(ctx context.Context, email, password string) (*domain.User, error) {
	res, err := m.auth.Login(ctx, email, password)
	if err != nil {
		m.obs.Auth("login", AuthFailure)
		m.setErr(err)
		m.log.Info().Str("email", email).Err(err).Msg("login failed")
		return nil, err
	}
	if err := m.establish(ctx, res); err != nil {
		m.obs.Auth("login", AuthFailure)
		m.setErr(err)
		return nil, err
	}
	m.obs.Auth("login", AuthSuccess)
	m.log.Info().Str("user_id", res.User.ID).Str("role", string(res.User.Role)).Msg("logged in")
	return &res.User, nil
}

// Register creates an account and logs it in.
func (m *SessionManager) Register(ctx context.Context, in domain.RegisterInput) (*domain.User, error) {
	res, err := m.auth.Register(ctx, in)
	if err != nil {
		m.obs.Auth("register", AuthFailure)
		m.setErr(err)
		return nil, err
	}
	if err := m.establish(ctx, res); err != nil {
		m.obs.Auth("register", AuthFailure)
		m.setErr(err)
		return nil, err
	}
	m.obs.Auth("register", AuthSuccess)
	m.log.Info().Str("user_id", res.User.ID).Msg("registered")
	return &res.User, nil
}

func (m *SessionManager) establish(ctx context.Context, res *domain.AuthResult) error {
	raw, err := json.Marshal(res.User)
	if err != nil {
		return fmt.Errorf("encode session user: %w", err)
	}
	if err := m.storage.Set(ctx, ports.SessionTokenKey, res.Token); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	if err := m.storage.Set(ctx, ports.SessionUserKey, string(raw)); err != nil {
		m.wipe(ctx)
		return fmt.Errorf("persist session: %w", err)
	}

	user := res.User
	m.mu.Lock()
	m.user = &user
	m.lastErr = ""
	m.mu.Unlock()
	return nil
}

// Logout wipes storage and memory. It never fails.
func (m *SessionManager) Logout(ctx context.Context) {
	m.wipe(ctx)
	m.mu.Lock()
	m.user = nil
	m.lastErr = ""
	m.mu.Unlock()
}

func (m *SessionManager) wipe(ctx context.Context) {
	if err := m.storage.Delete(ctx, ports.SessionTokenKey, ports.SessionUserKey); err != nil {
		m.log.Error().Err(err).Msg("failed to wipe session storage")
	}
}

// IsAuthenticated requires both a user in memory and a token in storage.
func (m *SessionManager) IsAuthenticated(ctx context.Context) bool {
	if m.User() == nil {
		return false
	}
	return m.Token(ctx) != ""
}

// User returns a copy of the logged in user, or nil.
func (m *SessionManager) User() *domain.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.user == nil {
		return nil
	}
	u := *m.user
	return &u
}

// Token reads the stored bearer token; "" when absent or unreadable.
func (m *SessionManager) Token(ctx context.Context) string {
	token, ok, err := m.storage.Get(ctx, ports.SessionTokenKey)
	if err != nil {
		m.log.Error().Err(err).Msg("failed to read session token")
		return ""
	}
	if !ok {
		return ""
	}
	return token
}

// AuthorizationHeader returns "Bearer <token>", or "" without a token.
func (m *SessionManager) AuthorizationHeader(ctx context.Context) string {
	if token := m.Token(ctx); token != "" {
		return "Bearer " + token
	}
	return ""
}

// Session returns the identity and token together, or an empty Session.
func (m *SessionManager) Session(ctx context.Context) domain.Session {
	user := m.User()
	if user == nil {
		return domain.Session{}
	}
	token := m.Token(ctx)
	if token == "" {
		return domain.Session{}
	}
	return domain.Session{Token: token, User: user}
}

// Actor describes the current user for authenticated backend calls.
func (m *SessionManager) Actor(ctx context.Context) (domain.Actor, error) {
	s := m.Session(ctx)
	if s.Empty() {
		return domain.Actor{}, domain.ErrNotAuthenticated
	}
	return domain.Actor{UserID: s.User.ID, Email: s.User.Email, Token: s.Token}, nil
}

func (m *SessionManager) IsAdmin() bool { return m.hasRole(domain.RoleAdmin) }

func (m *SessionManager) IsUser() bool { return m.hasRole(domain.RoleUser) }

func (m *SessionManager) hasRole(r domain.Role) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.user != nil && m.user.Role == r
}

// Hydrated reports whether Hydrate has completed.
func (m *SessionManager) Hydrated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.hydrated
}

// Err returns the message of the last failed login or registration.
func (m *SessionManager) Err() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastErr
}

// UpdateUser replaces the stored user after a profile edit.
func (m *SessionManager) UpdateUser(ctx context.Context, user domain.User) error {
	if m.User() == nil {
		return domain.ErrNotAuthenticated
	}
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode session user: %w", err)
	}
	if err := m.storage.Set(ctx, ports.SessionUserKey, string(raw)); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	m.mu.Lock()
	m.user = &user
	m.mu.Unlock()
	return nil
}

func (m *SessionManager) setErr(err error) {
	msg := err.Error()
	if errors.Is(err, context.Canceled) {
		msg = "request cancelled"
	}
	m.mu.Lock()
	m.lastErr = msg
	m.mu.Unlock()
}
