package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vertextarget/portal-gateway/internal/api/middleware"
	"github.com/vertextarget/portal-gateway/internal/core/domain"
	"github.com/vertextarget/portal-gateway/internal/core/service"
)

// sessionOf returns the request's session manager. Its absence means the
// Session middleware was not mounted, which is a wiring bug.
func sessionOf(c echo.Context) (*service.SessionManager, error) {
	m := middleware.SessionFrom(c)
	if m == nil {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "session unavailable")
	}
	return m, nil
}

// actorOf fast-fails with 401 before any backend call when no one is logged in.
func actorOf(c echo.Context) (domain.Actor, error) {
	m, err := sessionOf(c)
	if err != nil {
		return domain.Actor{}, err
	}
	return m.Actor(c.Request().Context())
}

// bindValid binds the request body into dst and validates it.
func bindValid(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(dst); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}
