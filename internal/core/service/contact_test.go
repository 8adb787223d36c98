package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/vertextarget/portal-gateway/internal/core/domain"
)

func TestContact_SubmitTrimsFields(t *testing.T) {
	client := &stubContactClient{}
	s := NewContactService(client, zerolog.Nop())

	c, err := s.Submit(context.Background(), domain.ContactInput{
		Name:    "  Ana  ",
		Email:   " ana@example.com ",
		Message: "  We need a new funnel  ",
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if c.Status != domain.ContactStatusNew {
		t.Fatalf("unexpected contact: %+v", c)
	}
	got := client.submitted[0]
	if got.Name != "Ana" || got.Email != "ana@example.com" || got.Message != "We need a new funnel" {
		t.Fatalf("fields not trimmed: %+v", got)
	}
	if got.ServiceInterest == nil {
		t.Fatalf("service_interest must be sent as an empty list")
	}
}

func TestContact_SubmitFailure(t *testing.T) {
	client := &stubContactClient{submitErr: domain.ErrRateLimited}
	s := NewContactService(client, zerolog.Nop())

	if _, err := s.Submit(context.Background(), domain.ContactInput{Name: "Ana"}); !errors.Is(err, domain.ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
}

func TestContact_ListNeedsToken(t *testing.T) {
	client := &stubContactClient{}
	s := NewContactService(client, zerolog.Nop())

	if _, err := s.List(context.Background(), domain.Actor{}); !errors.Is(err, domain.ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
	list, err := s.List(context.Background(), adminActor)
	if err != nil || len(list) != 1 || client.tokens[0] != "tok" {
		t.Fatalf("list: %+v %v %v", list, err, client.tokens)
	}
}
