// Package remote is the HTTP client for the VERTEX TARGET REST backend.
//
// Every non-2xx response is translated into a *StatusError whose Message is
// safe to show to users; transport failures become network errors.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	defaultTimeout = 15 * time.Second
	maxBodyBytes   = 4 << 20
)

// Config captures the backend location.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Observer records backend call outcomes. status is 0 for transport failures.
type Observer interface {
	Call(operation string, status int, took time.Duration)
}

type nopObserver struct{}

func (nopObserver) Call(string, int, time.Duration) {}

// Client performs JSON calls against the backend.
type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
	obs     Observer
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the instrumented default client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithObserver(obs Observer) Option {
	return func(c *Client) {
		if obs != nil {
			c.obs = obs
		}
	}
}

// New builds a Client. Outbound requests are traced through otelhttp.
func New(cfg Config, log zerolog.Logger, opts ...Option) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	c := &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		log: log,
		obs: nopObserver{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Health pings GET /api/health.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, "health", http.MethodGet, "/api/health", "", nil, nil, Messages{Action: "check backend health"})
}

func (c *Client) url(path string) string {
	return c.baseURL + "/" + strings.TrimLeft(path, "/")
}

func (c *Client) do(ctx context.Context, op, method, path, token string, in, out any, msgs Messages) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path), body)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.obs.Call(op, 0, time.Since(start))
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		c.log.Warn().Err(err).Str("op", op).Msg("backend unreachable")
		return networkError(err)
	}
	defer resp.Body.Close()
	c.obs.Call(op, resp.StatusCode, time.Since(start))

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return networkError(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		se := mapStatus(resp.StatusCode, raw, msgs)
		c.log.Debug().
			Str("op", op).
			Int("status", resp.StatusCode).
			Str("detail", se.Detail).
			Msg("backend rejected request")
		return se
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}
