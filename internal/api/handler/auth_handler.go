package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/vertextarget/portal-gateway/internal/core/domain"
)

// AuthHandler logs browser sessions in and out.
type AuthHandler struct{}

func NewAuthHandler() *AuthHandler {
	return &AuthHandler{}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	From     string `json:"from,omitempty"`
}

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"full_name" validate:"required,max=120"`
}

type authResponse struct {
	User     *domain.User `json:"user"`
	Redirect string       `json:"redirect"`
}

type meResponse struct {
	Authenticated bool         `json:"authenticated"`
	User          *domain.User `json:"user,omitempty"`
	Dashboard     string       `json:"dashboard,omitempty"`
}

// Login authenticates the browser session.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Param        from  query     string        false "Route to return to"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	m, err := sessionOf(c)
	if err != nil {
		return err
	}
	var req loginRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	user, err := m.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	from := req.From
	if from == "" {
		from = c.QueryParam("from")
	}
	return c.JSON(http.StatusOK, authResponse{User: user, Redirect: afterLogin(from, user.Role)})
}

// Register creates a user account and logs it in. Self-service accounts
// always get the user role.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	m, err := sessionOf(c)
	if err != nil {
		return err
	}
	var req registerRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	user, err := m.Register(c.Request().Context(), domain.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Role:     domain.RoleUser,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, authResponse{User: user, Redirect: domain.DashboardRoute(user.Role)})
}

// Logout clears the session. It always succeeds.
//
// @Summary      Logout
// @Tags         auth
// @Success      204
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	m, err := sessionOf(c)
	if err != nil {
		return err
	}
	m.Logout(c.Request().Context())
	return c.NoContent(http.StatusNoContent)
}

// Me reports the current session.
//
// @Summary      Current session
// @Tags         auth
// @Produce      json
// @Success      200  {object}  meResponse
// @Router       /api/auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	m, err := sessionOf(c)
	if err != nil {
		return err
	}
	if !m.IsAuthenticated(c.Request().Context()) {
		return c.JSON(http.StatusOK, meResponse{})
	}
	u := m.User()
	return c.JSON(http.StatusOK, meResponse{
		Authenticated: true,
		User:          u,
		Dashboard:     domain.DashboardRoute(u.Role),
	})
}

// afterLogin returns from when it is a local route other than the login
// page, and the role's dashboard otherwise.
func afterLogin(from string, role domain.Role) string {
	if from == "" || !strings.HasPrefix(from, "/") || strings.HasPrefix(from, "//") || strings.HasPrefix(from, `/\`) {
		return domain.DashboardRoute(role)
	}
	path, _, _ := strings.Cut(from, "?")
	if path == domain.LoginRoute {
		return domain.DashboardRoute(role)
	}
	return from
}
