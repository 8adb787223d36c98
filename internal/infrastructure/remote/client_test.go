package remote

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/vertextarget/portal-gateway/internal/core/domain"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(Config{BaseURL: srv.URL + "/", Timeout: 2 * time.Second}, zerolog.Nop())
}

func respond(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

// ---- status mapping ----

func TestMapStatus(t *testing.T) {
	msgs := Messages{Action: "fetch testimonials", NotFound: "no testimonials found"}
	tests := []struct {
		name    string
		status  int
		body    string
		kind    error
		message string
	}{
		{"unauthorized", 401, `{}`, domain.ErrUnauthorized, msgUnauthorized},
		{"forbidden", 403, `{}`, domain.ErrForbidden, msgForbidden},
		{"not found uses override", 404, `{"detail":"Not Found"}`, domain.ErrNotFound, "no testimonials found"},
		{"validation string detail", 422, `{"detail":"rating out of range"}`, domain.ErrValidation, "invalid data: rating out of range"},
		{"validation list detail", 422, `{"detail":[{"loc":["body","rating"],"msg":"too big"}]}`, domain.ErrValidation, "invalid data: rating: too big"},
		{"validation without detail", 422, ``, domain.ErrValidation, "invalid data: " + msgValidation},
		{"rate limited", 429, `{}`, domain.ErrRateLimited, msgRateLimited},
		{"server error", 500, `{"detail":"boom"}`, domain.ErrUpstream, msgServer},
		{"unavailable", 503, ``, domain.ErrUnavailable, msgUnavailable},
		{"bad request keeps detail", 400, `{"detail":"Email already registered"}`, domain.ErrValidation, "Email already registered"},
		{"other status", 502, `<html>`, domain.ErrUpstream, "failed to fetch testimonials: 502"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := mapStatus(tt.status, []byte(tt.body), msgs)
			if !errors.Is(err, tt.kind) {
				t.Fatalf("expected kind %v, got %v", tt.kind, err.kind)
			}
			if err.Message != tt.message {
				t.Fatalf("expected message %q, got %q", tt.message, err.Message)
			}
			if err.Status != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, err.Status)
			}
		})
	}
}

func TestMapStatus_LoginOverridesUnauthorized(t *testing.T) {
	err := mapStatus(401, nil, Messages{Unauthorized: "incorrect email or password"})
	if err.Message != "incorrect email or password" {
		t.Fatalf("unexpected message %q", err.Message)
	}
}

// ---- client ----

func TestResourceClient_List(t *testing.T) {
	var gotPath string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		respond(200, `[{"id":"t1","name":"Ana","rating":5},{"id":"t2","name":"Luis","rating":4}]`)(w, r)
	})

	items, err := NewTestimonialClient(c).List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/api/testimonials" {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if len(items) != 2 || items[0].ID != "t1" || items[1].Rating != 4 {
		t.Fatalf("unexpected items: %+v", items)
	}
}

func TestResourceClient_ListNullIsEmpty(t *testing.T) {
	c := newTestClient(t, respond(200, `null`))
	items, err := NewPortfolioClient(c).List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if items == nil || len(items) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", items)
	}
}

func TestResourceClient_ListFailure(t *testing.T) {
	c := newTestClient(t, respond(500, `{"detail":"db down"}`))
	items, err := NewPortfolioClient(c).List(context.Background())
	if items != nil {
		t.Fatalf("expected nil items on failure, got %v", items)
	}
	var se *StatusError
	if !errors.As(err, &se) || se.Status != 500 || se.Detail != "db down" {
		t.Fatalf("unexpected error: %#v", err)
	}
	if !IsStatus(err, 500) {
		t.Fatal("expected IsStatus to match 500")
	}
}

func TestResourceClient_MutationSendsBearer(t *testing.T) {
	var auth, method, path string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		method = r.Method
		path = r.URL.Path
		w.WriteHeader(http.StatusOK)
	})

	if err := NewPortfolioClient(c).Delete(context.Background(), "tok", "p 1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if auth != "Bearer tok" {
		t.Fatalf("expected bearer header, got %q", auth)
	}
	if method != http.MethodDelete || path != "/api/portfolio/p 1" {
		t.Fatalf("unexpected request %s %s", method, path)
	}
}

func TestResourceClient_GetNotFound(t *testing.T) {
	c := newTestClient(t, respond(404, `{"detail":"Project not found"}`))
	_, err := NewPortfolioClient(c).Get(context.Background(), "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err.Error() != "project not found" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestClient_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := New(Config{BaseURL: url, Timeout: time.Second}, zerolog.Nop())
	_, err := NewTestimonialClient(c).List(context.Background())
	if !errors.Is(err, domain.ErrNetwork) {
		t.Fatalf("expected ErrNetwork, got %v", err)
	}
	if err.Error() != msgNetwork {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestClient_CallerCancellation(t *testing.T) {
	c := newTestClient(t, respond(200, `[]`))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewTestimonialClient(c).List(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestAuthClient_Login(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("missing json content type")
		}
		respond(200, `{"access_token":"jwt","token_type":"bearer","user":{"id":"u1","email":"a@x.io","full_name":"A","role":"admin","is_active":true}}`)(w, r)
	})

	res, err := NewAuthClient(c).Login(context.Background(), "a@x.io", "pw")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Token != "jwt" || res.User.Role != domain.RoleAdmin {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestAuthClient_LoginRejected(t *testing.T) {
	c := newTestClient(t, respond(401, `{"detail":"Incorrect email or password"}`))
	_, err := NewAuthClient(c).Login(context.Background(), "a@x.io", "bad")
	if !errors.Is(err, domain.ErrUnauthorized) || err.Error() != "incorrect email or password" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAuthClient_LoginUnknownRole(t *testing.T) {
	c := newTestClient(t, respond(200, `{"access_token":"jwt","user":{"id":"u1","role":"superuser"}}`))
	_, err := NewAuthClient(c).Login(context.Background(), "a@x.io", "pw")
	if !errors.Is(err, domain.ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
}

func TestStrategyClient_Generate(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/ai/generate-strategy" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		respond(200, `{"strategy":"grow","cached":true}`)(w, r)
	})
	s, err := NewStrategyClient(c).Generate(context.Background(), "tok", "retail", "leads")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Strategy != "grow" || !s.Cached {
		t.Fatalf("unexpected strategy: %+v", s)
	}
}

func TestClient_URLJoin(t *testing.T) {
	c := New(Config{BaseURL: "http://backend:8001///"}, zerolog.Nop())
	if got := c.url("/api/health"); got != "http://backend:8001/api/health" {
		t.Fatalf("unexpected url %q", got)
	}
	if !strings.HasPrefix(c.url("api/x"), "http://backend:8001/api/") {
		t.Fatalf("expected join without leading slash")
	}
}

// ---- contact ----

func TestContactClient_RateLimitedMessage(t *testing.T) {
	var gotAuth string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		respond(http.StatusTooManyRequests, `{}`)(w, r)
	})

	_, err := NewContactClient(c).Submit(context.Background(), domain.ContactInput{Name: "Ana"})
	if !errors.Is(err, domain.ErrRateLimited) || err.Error() != msgContactRateLimited {
		t.Fatalf("expected contact rate limit message, got %v", err)
	}
	if gotAuth != "" {
		t.Fatalf("contact submissions are anonymous, got %q", gotAuth)
	}
}

func TestContactClient_ListNullIsEmpty(t *testing.T) {
	c := newTestClient(t, respond(http.StatusOK, `null`))
	list, err := NewContactClient(c).List(context.Background(), "tok")
	if err != nil || list == nil || len(list) != 0 {
		t.Fatalf("expected empty list, got %#v %v", list, err)
	}
}
