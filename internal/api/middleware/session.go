package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/vertextarget/portal-gateway/internal/core/ports"
	"github.com/vertextarget/portal-gateway/internal/core/service"
)

const sessionContextKey = "session"

// SessionConfig wires the per-request session manager.
type SessionConfig struct {
	CookieName string
	TTL        time.Duration
	Secure     bool
	Storage    ports.SessionStorageProvider
	Auth       ports.AuthClient
	Observer   service.AuthObserver
	Log        zerolog.Logger
}

// Session binds each request to a browser session. The session id lives
// in an HttpOnly cookie; an absent or malformed id starts a new session.
// The manager is hydrated before the handler runs.
func Session(cfg SessionConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sid := sessionID(c, cfg.CookieName)
			c.SetCookie(&http.Cookie{
				Name:     cfg.CookieName,
				Value:    sid,
				Path:     "/",
				MaxAge:   int(cfg.TTL.Seconds()),
				HttpOnly: true,
				Secure:   cfg.Secure,
				SameSite: http.SameSiteLaxMode,
			})

			log := cfg.Log.With().Str("session_id", sid).Logger()
			m := service.NewSessionManager(cfg.Storage.Scope(sid), cfg.Auth, log, service.WithAuthObserver(cfg.Observer))
			if err := m.Hydrate(c.Request().Context()); err != nil {
				log.Error().Err(err).Msg("session hydrate failed")
			}

			SetSession(c, m)
			return next(c)
		}
	}
}

func sessionID(c echo.Context, name string) string {
	if ck, err := c.Cookie(name); err == nil {
		if id, err := uuid.Parse(ck.Value); err == nil {
			return id.String()
		}
	}
	return uuid.NewString()
}

// SetSession installs m as the request's session manager.
func SetSession(c echo.Context, m *service.SessionManager) {
	c.Set(sessionContextKey, m)
}

// SessionFrom returns the manager installed by Session, or nil.
func SessionFrom(c echo.Context) *service.SessionManager {
	m, _ := c.Get(sessionContextKey).(*service.SessionManager)
	return m
}
