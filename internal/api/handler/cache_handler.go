package handler

import (
	"context"
	"net/http"
	"sort"
	"strings"

	"github.com/labstack/echo/v4"
)

// CachedResource is a resource store the admin can inspect and reset.
type CachedResource interface {
	ClearCache()
	Reload(ctx context.Context) (int, error)
	Summary() any
}

// CacheHandler exposes the resource caches to administrators.
type CacheHandler struct {
	resources map[string]CachedResource
}

func NewCacheHandler(resources map[string]CachedResource) *CacheHandler {
	return &CacheHandler{resources: resources}
}

type cacheActionResponse struct {
	Resource string `json:"resource"`
	Status   string `json:"status"`
	Count    int    `json:"count"`
}

// Stats handles GET /api/admin/cache.
//
// @Summary      Cache state of every resource
// @Tags         admin
// @Produce      json
// @Success      200  {object}  map[string]any
// @Router       /api/admin/cache [get]
func (h *CacheHandler) Stats(c echo.Context) error {
	out := make(map[string]any, len(h.resources))
	for name, r := range h.resources {
		out[name] = r.Summary()
	}
	return c.JSON(http.StatusOK, out)
}

// Clear handles DELETE /api/admin/cache/:resource.
//
// @Summary      Empty one resource cache
// @Tags         admin
// @Produce      json
// @Param        resource  path      string  true  "portfolio or testimonials"
// @Success      200       {object}  cacheActionResponse
// @Failure      404       {object}  map[string]string
// @Router       /api/admin/cache/{resource} [delete]
func (h *CacheHandler) Clear(c echo.Context) error {
	name, r, err := h.lookup(c)
	if err != nil {
		return err
	}
	r.ClearCache()
	return c.JSON(http.StatusOK, cacheActionResponse{Resource: name, Status: "cleared"})
}

// Refresh handles POST /api/admin/cache/:resource/refresh.
//
// @Summary      Reload one resource from the backend
// @Tags         admin
// @Produce      json
// @Param        resource  path      string  true  "portfolio or testimonials"
// @Success      200       {object}  cacheActionResponse
// @Failure      404       {object}  map[string]string
// @Failure      502       {object}  listFailure
// @Router       /api/admin/cache/{resource}/refresh [post]
func (h *CacheHandler) Refresh(c echo.Context) error {
	name, r, err := h.lookup(c)
	if err != nil {
		return err
	}
	n, err := r.Reload(c.Request().Context())
	if err != nil {
		return listFailed(c, err)
	}
	return c.JSON(http.StatusOK, cacheActionResponse{Resource: name, Status: "refreshed", Count: n})
}

func (h *CacheHandler) lookup(c echo.Context) (string, CachedResource, error) {
	name := c.Param("resource")
	r, ok := h.resources[name]
	if !ok {
		return "", nil, echo.NewHTTPError(http.StatusNotFound, "unknown resource "+name+", expected one of "+h.names())
	}
	return name, r, nil
}

func (h *CacheHandler) names() string {
	names := make([]string, 0, len(h.resources))
	for n := range h.resources {
		names = append(names, n)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
