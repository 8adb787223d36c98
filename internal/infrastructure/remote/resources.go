package remote

import (
	"context"
	"net/http"
	"net/url"

	"github.com/vertextarget/portal-gateway/internal/core/domain"
)

// ResourceClient calls the CRUD endpoints of one list-typed resource:
// GET/POST <path>, GET/PUT/DELETE <path>/{id}.
type ResourceClient[T any, In any] struct {
	c      *Client
	name   string // metric/op prefix
	path   string
	noun   string // singular, for messages
	plural string
}

// NewPortfolioClient returns the client for /api/portfolio.
func NewPortfolioClient(c *Client) *ResourceClient[domain.Project, domain.ProjectInput] {
	return &ResourceClient[domain.Project, domain.ProjectInput]{
		c: c, name: "portfolio", path: "/api/portfolio", noun: "project", plural: "portfolio projects",
	}
}

// NewTestimonialClient returns the client for /api/testimonials.
func NewTestimonialClient(c *Client) *ResourceClient[domain.Testimonial, domain.TestimonialInput] {
	return &ResourceClient[domain.Testimonial, domain.TestimonialInput]{
		c: c, name: "testimonials", path: "/api/testimonials", noun: "testimonial", plural: "testimonials",
	}
}

func (r *ResourceClient[T, In]) List(ctx context.Context) ([]T, error) {
	var out []T
	err := r.c.do(ctx, r.name+".list", http.MethodGet, r.path, "", nil, &out, Messages{
		Action:   "fetch " + r.plural,
		NotFound: "no " + r.plural + " found",
	})
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

func (r *ResourceClient[T, In]) Get(ctx context.Context, id string) (T, error) {
	var out T
	err := r.c.do(ctx, r.name+".get", http.MethodGet, r.item(id), "", nil, &out, Messages{
		Action:   "fetch " + r.noun,
		NotFound: r.noun + " not found",
	})
	return out, err
}

func (r *ResourceClient[T, In]) Create(ctx context.Context, token string, in In) (T, error) {
	var out T
	err := r.c.do(ctx, r.name+".create", http.MethodPost, r.path, token, in, &out, Messages{
		Action: "create " + r.noun,
	})
	return out, err
}

func (r *ResourceClient[T, In]) Update(ctx context.Context, token, id string, in In) (T, error) {
	var out T
	err := r.c.do(ctx, r.name+".update", http.MethodPut, r.item(id), token, in, &out, Messages{
		Action:   "update " + r.noun,
		NotFound: r.noun + " not found",
	})
	return out, err
}

func (r *ResourceClient[T, In]) Delete(ctx context.Context, token, id string) error {
	return r.c.do(ctx, r.name+".delete", http.MethodDelete, r.item(id), token, nil, nil, Messages{
		Action:   "delete " + r.noun,
		NotFound: r.noun + " not found",
	})
}

func (r *ResourceClient[T, In]) item(id string) string {
	return r.path + "/" + url.PathEscape(id)
}
