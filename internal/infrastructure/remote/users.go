package remote

import (
	"context"
	"net/http"
	"net/url"

	"github.com/vertextarget/portal-gateway/internal/core/domain"
)

// UserClient calls the account management endpoints.
type UserClient struct {
	c *Client
}

func NewUserClient(c *Client) *UserClient {
	return &UserClient{c: c}
}

func (u *UserClient) List(ctx context.Context, token string) ([]domain.User, error) {
	var out []domain.User
	err := u.c.do(ctx, "users.list", http.MethodGet, "/api/admin/users", token, nil, &out, Messages{
		Action: "fetch users",
	})
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.User{}
	}
	return out, nil
}

func (u *UserClient) Update(ctx context.Context, token, id string, in domain.UserUpdate) (domain.User, error) {
	var out domain.User
	err := u.c.do(ctx, "users.update", http.MethodPut, "/api/admin/users/"+url.PathEscape(id), token, in, &out, Messages{
		Action:   "update user",
		NotFound: "user not found",
	})
	return out, err
}

func (u *UserClient) UpdateProfile(ctx context.Context, token string, in domain.ProfileUpdate) (domain.User, error) {
	var out domain.User
	err := u.c.do(ctx, "users.profile", http.MethodPut, "/api/users/profile", token, in, &out, Messages{
		Action: "update profile",
	})
	return out, err
}
