package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vertextarget/portal-gateway/internal/api/middleware"
	"github.com/vertextarget/portal-gateway/internal/core/domain"
)

type strategyService interface {
	Generate(ctx context.Context, userToken, industry, objective string) (*domain.Strategy, error)
	CacheStats(ctx context.Context, actor domain.Actor) (domain.StrategyCacheStats, error)
	ClearCache(ctx context.Context, actor domain.Actor) (domain.StrategyCacheCleared, error)
	CacheHealth(ctx context.Context) (domain.StrategyCacheHealth, error)
}

type StrategyHandler struct {
	svc strategyService
}

func NewStrategyHandler(svc strategyService) *StrategyHandler {
	return &StrategyHandler{svc: svc}
}

type strategyRequest struct {
	Industry  string `json:"industry" validate:"required,max=200"`
	Objective string `json:"objective" validate:"required,max=500"`
}

// Generate handles POST /api/strategy. Visitors without a session are
// served with the shared demo account.
//
// @Summary      Generate a marketing strategy
// @Tags         strategy
// @Accept       json
// @Produce      json
// @Param        body  body      strategyRequest  true  "Industry and objective"
// @Success      200   {object}  domain.Strategy
// @Failure      400   {object}  map[string]string
// @Failure      429   {object}  map[string]string
// @Router       /api/strategy [post]
func (h *StrategyHandler) Generate(c echo.Context) error {
	var req strategyRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	var token string
	if m := middleware.SessionFrom(c); m != nil && m.IsAuthenticated(c.Request().Context()) {
		token = m.Token(c.Request().Context())
	}

	res, err := h.svc.Generate(c.Request().Context(), token, req.Industry, req.Objective)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

// CacheHealth handles GET /api/strategy/cache/health.
//
// @Summary      Strategy cache health
// @Tags         strategy
// @Produce      json
// @Success      200  {object}  domain.StrategyCacheHealth
// @Router       /api/strategy/cache/health [get]
func (h *StrategyHandler) CacheHealth(c echo.Context) error {
	res, err := h.svc.CacheHealth(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

// CacheStats handles GET /api/admin/cache/strategy.
//
// @Summary      Strategy cache counters
// @Tags         admin
// @Produce      json
// @Success      200  {object}  domain.StrategyCacheStats
// @Failure      403  {object}  map[string]string
// @Router       /api/admin/cache/strategy [get]
func (h *StrategyHandler) CacheStats(c echo.Context) error {
	actor, err := actorOf(c)
	if err != nil {
		return err
	}
	res, err := h.svc.CacheStats(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

// ClearCache handles DELETE /api/admin/cache/strategy.
//
// @Summary      Empty the strategy cache
// @Tags         admin
// @Produce      json
// @Success      200  {object}  domain.StrategyCacheCleared
// @Failure      403  {object}  map[string]string
// @Router       /api/admin/cache/strategy [delete]
func (h *StrategyHandler) ClearCache(c echo.Context) error {
	actor, err := actorOf(c)
	if err != nil {
		return err
	}
	res, err := h.svc.ClearCache(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}
