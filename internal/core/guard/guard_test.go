package guard

import (
	"context"
	"testing"

	"github.com/vertextarget/portal-gateway/internal/core/domain"
)

type stubSession struct {
	hydrated bool
	authed   bool
	user     *domain.User
}

func (s stubSession) Hydrated() bool                      { return s.hydrated }
func (s stubSession) IsAuthenticated(context.Context) bool { return s.authed }
func (s stubSession) User() *domain.User                  { return s.user }

func TestDecide(t *testing.T) {
	admin := &domain.User{ID: "a", Role: domain.RoleAdmin}
	user := &domain.User{ID: "u", Role: domain.RoleUser}

	tests := []struct {
		name     string
		session  stubSession
		required domain.Role
		want     Decision
	}{
		{
			name:     "not hydrated",
			session:  stubSession{},
			required: domain.RoleAdmin,
			want:     Decision{Outcome: Loading},
		},
		{
			name:     "anonymous",
			session:  stubSession{hydrated: true},
			required: domain.RoleAdmin,
			want:     Decision{Outcome: RedirectLogin, Target: "/login", From: "/admin"},
		},
		{
			name:     "user in memory but token gone",
			session:  stubSession{hydrated: true, user: user},
			required: "",
			want:     Decision{Outcome: RedirectLogin, Target: "/login", From: "/admin"},
		},
		{
			name:     "user on admin route goes to own dashboard",
			session:  stubSession{hydrated: true, authed: true, user: user},
			required: domain.RoleAdmin,
			want:     Decision{Outcome: RedirectDashboard, Target: "/dashboard"},
		},
		{
			name:     "admin on user-only route",
			session:  stubSession{hydrated: true, authed: true, user: admin},
			required: domain.RoleUser,
			want:     Decision{Outcome: RedirectDashboard, Target: "/admin"},
		},
		{
			name:     "admin on admin route",
			session:  stubSession{hydrated: true, authed: true, user: admin},
			required: domain.RoleAdmin,
			want:     Decision{Outcome: Render},
		},
		{
			name:     "any role",
			session:  stubSession{hydrated: true, authed: true, user: user},
			required: "",
			want:     Decision{Outcome: Render},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Decide(context.Background(), tt.session, tt.required, "/admin")
			if got != tt.want {
				t.Fatalf("Decide = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestDecide_WrongRoleNeverRedirectsToLogin(t *testing.T) {
	s := stubSession{hydrated: true, authed: true, user: &domain.User{ID: "u", Role: domain.RoleUser}}
	d := Decide(context.Background(), s, domain.RoleAdmin, "/admin/users")
	if d.Target != domain.DashboardRoute(domain.RoleUser) {
		t.Fatalf("expected user dashboard, got %q", d.Target)
	}
	if d.Target == domain.LoginRoute {
		t.Fatal("wrong role must never redirect to login")
	}
}
