package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/vertextarget/portal-gateway/internal/core/domain"
	"github.com/vertextarget/portal-gateway/internal/infrastructure/remote"
)

// catalog is the part of service.Catalog the resource handlers need.
type catalog[T any, In any] interface {
	List(ctx context.Context, force bool) ([]T, error)
	Get(ctx context.Context, id string) (T, error)
	Create(ctx context.Context, actor domain.Actor, in In) (T, error)
	Update(ctx context.Context, actor domain.Actor, id string, in In) (T, error)
	Delete(ctx context.Context, actor domain.Actor, id string) error
}

// listFailure is returned when a collection could not be loaded. The
// dashboard offers a retry button when Retry is set.
type listFailure struct {
	Error string `json:"error"`
	Retry bool   `json:"retry"`
}

// resourceHandler implements the CRUD endpoints shared by every list-typed resource.
type resourceHandler[T any, In any] struct {
	svc catalog[T, In]
}

func (h resourceHandler[T, In]) list(c echo.Context) ([]T, error) {
	force, _ := strconv.ParseBool(c.QueryParam("refresh"))
	return h.svc.List(c.Request().Context(), force)
}

func (h resourceHandler[T, In]) listJSON(c echo.Context) error {
	items, err := h.list(c)
	if err != nil {
		return listFailed(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h resourceHandler[T, In]) get(c echo.Context) error {
	item, err := h.svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, item)
}

func (h resourceHandler[T, In]) create(c echo.Context) error {
	actor, err := actorOf(c)
	if err != nil {
		return err
	}
	var in In
	if err := bindValid(c, &in); err != nil {
		return err
	}
	item, err := h.svc.Create(c.Request().Context(), actor, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, item)
}

func (h resourceHandler[T, In]) update(c echo.Context) error {
	actor, err := actorOf(c)
	if err != nil {
		return err
	}
	var in In
	if err := bindValid(c, &in); err != nil {
		return err
	}
	item, err := h.svc.Update(c.Request().Context(), actor, c.Param("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, item)
}

func (h resourceHandler[T, In]) delete(c echo.Context) error {
	actor, err := actorOf(c)
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Request().Context(), actor, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func listFailed(c echo.Context, err error) error {
	msg := err.Error()
	var se *remote.StatusError
	if errors.As(err, &se) {
		msg = se.Message
	}
	return c.JSON(http.StatusBadGateway, listFailure{Error: msg, Retry: true})
}
