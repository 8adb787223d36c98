package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/vertextarget/portal-gateway/internal/api/middleware"
	"github.com/vertextarget/portal-gateway/internal/core/domain"
	"github.com/vertextarget/portal-gateway/internal/core/ports"
	"github.com/vertextarget/portal-gateway/internal/core/service"
	"github.com/vertextarget/portal-gateway/internal/infrastructure/db/memory"
)

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

type stubAuth struct {
	loginFn    func(email, password string) (*domain.AuthResult, error)
	registerFn func(in domain.RegisterInput) (*domain.AuthResult, error)
}

func (s *stubAuth) Login(_ context.Context, email, password string) (*domain.AuthResult, error) {
	return s.loginFn(email, password)
}

func (s *stubAuth) Register(_ context.Context, in domain.RegisterInput) (*domain.AuthResult, error) {
	return s.registerFn(in)
}

type stubResources[T any, In any] struct {
	items   []T
	listErr error
	created []In
	deleted []string
	tokens  []string
	newFn   func(in In) T
}

func (s *stubResources[T, In]) List(context.Context) ([]T, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.items, nil
}

func (s *stubResources[T, In]) Get(context.Context, string) (T, error) {
	var zero T
	return zero, domain.ErrNotFound
}

func (s *stubResources[T, In]) Create(_ context.Context, token string, in In) (T, error) {
	s.tokens = append(s.tokens, token)
	s.created = append(s.created, in)
	return s.newFn(in), nil
}

func (s *stubResources[T, In]) Update(_ context.Context, token, _ string, in In) (T, error) {
	s.tokens = append(s.tokens, token)
	return s.newFn(in), nil
}

func (s *stubResources[T, In]) Delete(_ context.Context, token, id string) error {
	s.tokens = append(s.tokens, token)
	s.deleted = append(s.deleted, id)
	return nil
}

// ---------------------------------------------------------------------------
// Request helpers
// ---------------------------------------------------------------------------

const testSID = "1b2f7c52-96a0-4d6b-8c55-3c1f0e6f2d44"

var (
	adminUser = domain.User{ID: "u-admin", Email: "admin@vertextarget.com", FullName: "Admin", Role: domain.RoleAdmin, IsActive: true}
	plainUser = domain.User{ID: "u-1", Email: "ana@example.com", FullName: "Ana", Role: domain.RoleUser, IsActive: true}
)

type fixture struct {
	e       *echo.Echo
	storage *memory.SessionStorage
	auth    *stubAuth
}

func newFixture() *fixture {
	e := echo.New()
	e.Validator = NewValidator()
	return &fixture{
		e:       e,
		storage: memory.NewSessionStorage(time.Hour),
		auth: &stubAuth{
			loginFn: func(string, string) (*domain.AuthResult, error) {
				return nil, domain.ErrUnauthorized
			},
			registerFn: func(domain.RegisterInput) (*domain.AuthResult, error) {
				return nil, domain.ErrUserExists
			},
		},
	}
}

// login stores a session for user so the next manager hydrates into it.
func (f *fixture) login(t *testing.T, user domain.User) {
	t.Helper()
	raw, err := json.Marshal(user)
	if err != nil {
		t.Fatalf("marshal user: %v", err)
	}
	s := f.storage.Scope(testSID)
	if err := s.Set(context.Background(), ports.SessionTokenKey, "tok-"+user.ID); err != nil {
		t.Fatalf("seed token: %v", err)
	}
	if err := s.Set(context.Background(), ports.SessionUserKey, string(raw)); err != nil {
		t.Fatalf("seed user: %v", err)
	}
}

// call builds an echo context for method/target with a hydrated session
// attached and returns it with its recorder.
func (f *fixture) call(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	c := f.e.NewContext(req, rec)

	m := service.NewSessionManager(f.storage.Scope(testSID), f.auth, zerolog.Nop())
	if err := m.Hydrate(context.Background()); err != nil {
		t.Fatalf("hydrate: %v", err)
	}
	middleware.SetSession(c, m)
	return c, rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

func httpCode(t *testing.T, err error) int {
	t.Helper()
	he, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected *echo.HTTPError, got %T (%v)", err, err)
	}
	return he.Code
}
