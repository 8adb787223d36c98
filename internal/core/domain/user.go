package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// Role is the closed set of dashboard roles.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Dashboard routes per role.
const (
	AdminDashboardRoute = "/admin"
	UserDashboardRoute  = "/dashboard"
	LoginRoute          = "/login"
)

// ParseRole converts s into a Role, rejecting anything outside the enum.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleUser:
		return Role(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidRole, s)
	}
}

// Valid reports whether r is a member of the enum.
func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

// UnmarshalJSON rejects unknown roles at the decoding boundary, so a
// Role held by any decoded value is always valid.
func (r *Role) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseRole(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// DashboardRoute maps a role to its landing route. Anything unrecognised
// lands on the lowest-privilege dashboard.
func DashboardRoute(r Role) string {
	switch r {
	case RoleAdmin:
		return AdminDashboardRoute
	case RoleUser:
		return UserDashboardRoute
	default:
		return UserDashboardRoute
	}
}

// User models an authenticated dashboard actor as returned by the backend.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Role      Role      `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at,omitzero"`
}

// Session is the authenticated identity plus its bearer token. Token and
// User are always set and cleared together.
type Session struct {
	Token string
	User  *User
}

// Empty reports whether no one is logged in.
func (s Session) Empty() bool {
	return s.Token == "" || s.User == nil
}

// AuthResult is the payload of a successful login or registration.
type AuthResult struct {
	Token string `json:"access_token"`
	User  User   `json:"user"`
}

// Actor identifies who performs a mutation against the backend.
type Actor struct {
	UserID string
	Email  string
	Token  string
}

// RegisterInput carries account creation data.
type RegisterInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"full_name" validate:"required,max=120"`
	Role     Role   `json:"role" validate:"required,oneof=admin user"`
}

// UserUpdate carries an admin edit of another account. Nil fields are left unchanged.
type UserUpdate struct {
	FullName *string `json:"full_name,omitempty" validate:"omitempty,min=1,max=120"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	Role     *Role   `json:"role,omitempty" validate:"omitempty,oneof=admin user"`
	IsActive *bool   `json:"is_active,omitempty"`
}

// ProfileUpdate carries a self-service profile edit.
type ProfileUpdate struct {
	FullName *string `json:"full_name,omitempty" validate:"omitempty,min=1,max=120"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=8"`
}
