package remote

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/vertextarget/portal-gateway/internal/core/domain"
)

// StatusError is a backend failure translated into a user-facing message.
// It unwraps to the domain sentinel of its class.
type StatusError struct {
	Status  int    // 0 for transport failures
	Message string // shown to the user
	Detail  string // raw backend detail, if any
	kind    error
}

func (e *StatusError) Error() string { return e.Message }

func (e *StatusError) Unwrap() error { return e.kind }

// Messages customises the status mapping for one operation.
type Messages struct {
	// Action completes "failed to <action>" for unmapped statuses.
	Action string
	// NotFound is used for 404 responses.
	NotFound string
	// Unauthorized overrides the default 401 text (e.g. for login).
	Unauthorized string
	// RateLimited overrides the default 429 text.
	RateLimited string
}

const (
	msgUnauthorized = "not authorized, please log in again"
	msgForbidden    = "access restricted, you do not have permission for this action"
	msgValidation   = "check the required fields"
	msgRateLimited  = "too many requests right now, please wait a minute and try again"
	msgServer       = "internal server error, please try again later"
	msgUnavailable  = "service temporarily unavailable, please try again in a few minutes"
	msgNetwork      = "connection problem detected, check your connection and try again"
)

// mapStatus converts a non-2xx response into a *StatusError.
func mapStatus(status int, body []byte, msgs Messages) *StatusError {
	detail := extractDetail(body)
	e := &StatusError{Status: status, Detail: detail}

	switch status {
	case http.StatusUnauthorized:
		e.kind = domain.ErrUnauthorized
		e.Message = firstNonEmpty(msgs.Unauthorized, msgUnauthorized)
	case http.StatusForbidden:
		e.kind = domain.ErrForbidden
		e.Message = msgForbidden
	case http.StatusNotFound:
		e.kind = domain.ErrNotFound
		e.Message = firstNonEmpty(msgs.NotFound, detail, "resource not found")
	case http.StatusUnprocessableEntity:
		e.kind = domain.ErrValidation
		e.Message = "invalid data: " + firstNonEmpty(detail, msgValidation)
	case http.StatusTooManyRequests:
		e.kind = domain.ErrRateLimited
		e.Message = firstNonEmpty(msgs.RateLimited, msgRateLimited)
	case http.StatusInternalServerError:
		e.kind = domain.ErrUpstream
		e.Message = msgServer
	case http.StatusServiceUnavailable:
		e.kind = domain.ErrUnavailable
		e.Message = msgUnavailable
	default:
		e.kind = classify(status)
		e.Message = firstNonEmpty(detail, fmt.Sprintf("failed to %s: %d", firstNonEmpty(msgs.Action, "complete request"), status))
	}
	return e
}

func classify(status int) error {
	switch status {
	case http.StatusBadRequest:
		return domain.ErrValidation
	case http.StatusConflict:
		return domain.ErrUserExists
	default:
		return domain.ErrUpstream
	}
}

func networkError(err error) *StatusError {
	return &StatusError{Message: msgNetwork, Detail: err.Error(), kind: domain.ErrNetwork}
}

// extractDetail reads the backend's {"detail": ...} envelope. Detail is
// either a string or a list of {"loc": [...], "msg": "..."} entries.
func extractDetail(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Detail) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(envelope.Detail, &s); err == nil {
		return s
	}

	var items []struct {
		Loc []any  `json:"loc"`
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(envelope.Detail, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, it := range items {
			if it.Msg == "" {
				continue
			}
			if len(it.Loc) > 0 {
				msgs = append(msgs, fmt.Sprintf("%v: %s", it.Loc[len(it.Loc)-1], it.Msg))
			} else {
				msgs = append(msgs, it.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// IsStatus reports whether err is a *StatusError with the given HTTP status.
func IsStatus(err error, status int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Status == status
}
