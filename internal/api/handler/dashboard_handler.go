package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vertextarget/portal-gateway/internal/core/domain"
)

// DashboardHandler renders the data behind the two guarded dashboard routes.
type DashboardHandler struct {
	resources map[string]CachedResource
}

func NewDashboardHandler(resources map[string]CachedResource) *DashboardHandler {
	return &DashboardHandler{resources: resources}
}

type dashboardView struct {
	User      *domain.User   `json:"user"`
	Role      domain.Role    `json:"role"`
	Resources map[string]any `json:"resources,omitempty"`
}

// Admin handles GET /admin.
//
// @Summary      Admin dashboard
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  dashboardView
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /admin [get]
func (h *DashboardHandler) Admin(c echo.Context) error {
	m, err := sessionOf(c)
	if err != nil {
		return err
	}
	u := m.User()
	if u == nil {
		return domain.ErrNotAuthenticated
	}
	res := make(map[string]any, len(h.resources))
	for name, r := range h.resources {
		res[name] = r.Summary()
	}
	return c.JSON(http.StatusOK, dashboardView{User: u, Role: u.Role, Resources: res})
}

// User handles GET /dashboard.
//
// @Summary      User dashboard
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  dashboardView
// @Failure      401  {object}  map[string]string
// @Router       /dashboard [get]
func (h *DashboardHandler) User(c echo.Context) error {
	m, err := sessionOf(c)
	if err != nil {
		return err
	}
	u := m.User()
	if u == nil {
		return domain.ErrNotAuthenticated
	}
	return c.JSON(http.StatusOK, dashboardView{User: u, Role: u.Role})
}
