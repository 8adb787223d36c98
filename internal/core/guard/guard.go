// Package guard decides what a protected route shows for a session.
package guard

import (
	"context"

	"github.com/vertextarget/portal-gateway/internal/core/domain"
)

// Outcome of a guard decision.
type Outcome int

const (
	// Loading means the session has not been restored yet.
	Loading Outcome = iota
	RedirectLogin
	RedirectDashboard
	Render
)

func (o Outcome) String() string {
	switch o {
	case Loading:
		return "loading"
	case RedirectLogin:
		return "redirect_login"
	case RedirectDashboard:
		return "redirect_dashboard"
	case Render:
		return "render"
	default:
		return "unknown"
	}
}

// Session is the view of a session the guard needs.
type Session interface {
	Hydrated() bool
	IsAuthenticated(ctx context.Context) bool
	User() *domain.User
}

// Decision is the single outcome for one route request. Target is set for
// redirects; From carries the requested path on RedirectLogin.
type Decision struct {
	Outcome Outcome
	Target  string
	From    string
}

// Decide applies the guard rules in order: loading, unauthenticated, wrong
// role, render. An empty required role admits any authenticated user.
func Decide(ctx context.Context, s Session, required domain.Role, path string) Decision {
	if !s.Hydrated() {
		return Decision{Outcome: Loading}
	}
	user := s.User()
	if user == nil || !s.IsAuthenticated(ctx) {
		return Decision{Outcome: RedirectLogin, Target: domain.LoginRoute, From: path}
	}
	if required != "" && user.Role != required {
		return Decision{Outcome: RedirectDashboard, Target: domain.DashboardRoute(user.Role)}
	}
	return Decision{Outcome: Render}
}
