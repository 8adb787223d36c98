package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vertextarget/portal-gateway/internal/core/domain"
)

type contactService interface {
	Submit(ctx context.Context, in domain.ContactInput) (domain.Contact, error)
	List(ctx context.Context, actor domain.Actor) ([]domain.Contact, error)
}

// ContactHandler serves the landing-page contact form.
type ContactHandler struct {
	svc contactService
}

func NewContactHandler(svc contactService) *ContactHandler {
	return &ContactHandler{svc: svc}
}

// Submit handles POST /api/contact.
//
// @Summary      Send a contact message
// @Tags         contact
// @Accept       json
// @Produce      json
// @Param        body  body      domain.ContactInput  true  "Contact form"
// @Success      201   {object}  domain.Contact
// @Failure      400   {object}  map[string]string
// @Failure      429   {object}  map[string]string
// @Router       /api/contact [post]
func (h *ContactHandler) Submit(c echo.Context) error {
	var in domain.ContactInput
	if err := bindValid(c, &in); err != nil {
		return err
	}
	contact, err := h.svc.Submit(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, contact)
}

// List handles GET /api/admin/contact.
//
// @Summary      List contact submissions
// @Tags         admin
// @Produce      json
// @Success      200  {array}   domain.Contact
// @Failure      403  {object}  map[string]string
// @Router       /api/admin/contact [get]
func (h *ContactHandler) List(c echo.Context) error {
	actor, err := actorOf(c)
	if err != nil {
		return err
	}
	list, err := h.svc.List(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list)
}
