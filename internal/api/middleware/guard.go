package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/vertextarget/portal-gateway/internal/core/domain"
	"github.com/vertextarget/portal-gateway/internal/core/guard"
)

type guardResponse struct {
	Status   string `json:"status,omitempty"`
	Error    string `json:"error,omitempty"`
	Redirect string `json:"redirect,omitempty"`
}

// Guard protects a route group. An empty role admits any logged in user.
// Browser navigations (Accept: text/html) get 302 redirects; API calls get
// 401/403 JSON carrying the redirect target.
func Guard(required domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			m := SessionFrom(c)
			if m == nil {
				return echo.NewHTTPError(http.StatusInternalServerError, "session unavailable")
			}

			d := guard.Decide(c.Request().Context(), m, required, c.Request().URL.RequestURI())
			switch d.Outcome {
			case guard.Loading:
				return c.JSON(http.StatusServiceUnavailable, guardResponse{Status: "verifying authentication"})
			case guard.RedirectLogin:
				target := d.Target + "?from=" + url.QueryEscape(d.From)
				if wantsHTML(c) {
					return c.Redirect(http.StatusFound, target)
				}
				return c.JSON(http.StatusUnauthorized, guardResponse{Error: "authentication required", Redirect: target})
			case guard.RedirectDashboard:
				if wantsHTML(c) {
					return c.Redirect(http.StatusFound, d.Target)
				}
				return c.JSON(http.StatusForbidden, guardResponse{Error: "insufficient role", Redirect: d.Target})
			default:
				return next(c)
			}
		}
	}
}

func wantsHTML(c echo.Context) bool {
	return strings.Contains(c.Request().Header.Get(echo.HeaderAccept), echo.MIMETextHTML)
}
