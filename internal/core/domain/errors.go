package domain

import "errors"

// Backend failure classes. Remote errors unwrap to one of these.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("access forbidden")
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
	ErrRateLimited  = errors.New("rate limited")
	ErrUpstream     = errors.New("backend error")
	ErrUnavailable  = errors.New("backend unavailable")
	ErrNetwork      = errors.New("network error")
)

// Session and account errors.
var (
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrInvalidRole        = errors.New("invalid role")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("user already exists")
)
