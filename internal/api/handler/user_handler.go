package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vertextarget/portal-gateway/internal/core/domain"
)

type userService interface {
	List(ctx context.Context, actor domain.Actor) ([]domain.User, error)
	Create(ctx context.Context, actor domain.Actor, in domain.RegisterInput) (*domain.User, error)
	Update(ctx context.Context, actor domain.Actor, id string, in domain.UserUpdate) (domain.User, error)
	UpdateProfile(ctx context.Context, actor domain.Actor, in domain.ProfileUpdate) (domain.User, error)
}

// UserHandler manages accounts: self-service profile edits and the admin user list.
type UserHandler struct {
	svc userService
}

func NewUserHandler(svc userService) *UserHandler {
	return &UserHandler{svc: svc}
}

// UpdateProfile handles PUT /api/users/profile. The session's copy of the
// user is refreshed so the dashboard shows the new values at once.
//
// @Summary      Update own profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      domain.ProfileUpdate  true  "Profile fields"
// @Success      200   {object}  domain.User
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/users/profile [put]
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	m, err := sessionOf(c)
	if err != nil {
		return err
	}
	actor, err := m.Actor(c.Request().Context())
	if err != nil {
		return err
	}
	var in domain.ProfileUpdate
	if err := bindValid(c, &in); err != nil {
		return err
	}

	u, err := h.svc.UpdateProfile(c.Request().Context(), actor, in)
	if err != nil {
		return err
	}
	if err := m.UpdateUser(c.Request().Context(), u); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, u)
}

// List handles GET /api/admin/users.
//
// @Summary      List accounts
// @Tags         admin
// @Produce      json
// @Success      200  {array}   domain.User
// @Failure      403  {object}  map[string]string
// @Router       /api/admin/users [get]
func (h *UserHandler) List(c echo.Context) error {
	actor, err := actorOf(c)
	if err != nil {
		return err
	}
	users, err := h.svc.List(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

// Create handles POST /api/admin/users.
//
// @Summary      Create an account with any role
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        body  body      domain.RegisterInput  true  "Account"
// @Success      201   {object}  domain.User
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/admin/users [post]
func (h *UserHandler) Create(c echo.Context) error {
	actor, err := actorOf(c)
	if err != nil {
		return err
	}
	var in domain.RegisterInput
	if err := bindValid(c, &in); err != nil {
		return err
	}
	u, err := h.svc.Create(c.Request().Context(), actor, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, u)
}

// Update handles PUT /api/admin/users/:id.
//
// @Summary      Update an account
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id    path      string             true  "User id"
// @Param        body  body      domain.UserUpdate  true  "Fields to change"
// @Success      200   {object}  domain.User
// @Failure      404   {object}  map[string]string
// @Router       /api/admin/users/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	actor, err := actorOf(c)
	if err != nil {
		return err
	}
	var in domain.UserUpdate
	if err := bindValid(c, &in); err != nil {
		return err
	}
	u, err := h.svc.Update(c.Request().Context(), actor, c.Param("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, u)
}
