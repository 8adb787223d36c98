package remote

import (
	"context"
	"net/http"

	"github.com/vertextarget/portal-gateway/internal/core/domain"
)

const msgContactRateLimited = "too many messages sent, please wait a few minutes before trying again"

// ContactClient calls the contact form endpoints.
type ContactClient struct {
	c *Client
}

func NewContactClient(c *Client) *ContactClient {
	return &ContactClient{c: c}
}

// Submit posts a contact form. It needs no token.
func (cc *ContactClient) Submit(ctx context.Context, in domain.ContactInput) (domain.Contact, error) {
	var out domain.Contact
	err := cc.c.do(ctx, "contact.submit", http.MethodPost, "/api/contact", "", in, &out, Messages{
		Action:      "send message",
		RateLimited: msgContactRateLimited,
	})
	return out, err
}

func (cc *ContactClient) List(ctx context.Context, token string) ([]domain.Contact, error) {
	var out []domain.Contact
	err := cc.c.do(ctx, "contact.list", http.MethodGet, "/api/contact", token, nil, &out, Messages{
		Action: "fetch contact submissions",
	})
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.Contact{}
	}
	return out, nil
}
