package remote

import (
	"context"
	"fmt"
	"net/http"

	"github.com/vertextarget/portal-gateway/internal/core/domain"
)

// AuthClient calls /api/auth.
type AuthClient struct {
	c *Client
}

func NewAuthClient(c *Client) *AuthClient {
	return &AuthClient{c: c}
}

// Login exchanges credentials for a bearer token and the user record.
func (a *AuthClient) Login(ctx context.Context, email, password string) (*domain.AuthResult, error) {
	body := map[string]string{"email": email, "password": password}
	var out domain.AuthResult
	err := a.c.do(ctx, "auth.login", http.MethodPost, "/api/auth/login", "", body, &out, Messages{
		Action:       "log in",
		Unauthorized: "incorrect email or password",
	})
	if err != nil {
		return nil, err
	}
	if err := checkAuthResult(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Register creates an account. The backend logs the new user in.
func (a *AuthClient) Register(ctx context.Context, in domain.RegisterInput) (*domain.AuthResult, error) {
	var out domain.AuthResult
	err := a.c.do(ctx, "auth.register", http.MethodPost, "/api/auth/register", "", in, &out, Messages{
		Action: "create account",
	})
	if err != nil {
		return nil, err
	}
	if err := checkAuthResult(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

func checkAuthResult(r *domain.AuthResult) error {
	if r.Token == "" || r.User.ID == "" {
		return fmt.Errorf("%w: auth response missing token or user", domain.ErrUpstream)
	}
	return nil
}
