package api

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/vertextarget/portal-gateway/internal/infrastructure/remote"
)

// fetchErr performs a project lookup against url and returns its error.
func fetchErr(t *testing.T, url string) error {
	t.Helper()
	c := remote.New(remote.Config{BaseURL: url, Timeout: time.Second}, zerolog.Nop())
	_, err := remote.NewPortfolioClient(c).Get(context.Background(), "x")
	if err == nil {
		t.Fatal("expected backend error")
	}
	return err
}
