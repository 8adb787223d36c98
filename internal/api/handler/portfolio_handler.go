package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vertextarget/portal-gateway/internal/core/domain"
)

type portfolioService interface {
	catalog[domain.Project, domain.ProjectInput]
	ByCategory(category string) []domain.Project
}

// PortfolioHandler serves the project catalog.
type PortfolioHandler struct {
	svc portfolioService
	res resourceHandler[domain.Project, domain.ProjectInput]
}

func NewPortfolioHandler(svc portfolioService) *PortfolioHandler {
	return &PortfolioHandler{svc: svc, res: resourceHandler[domain.Project, domain.ProjectInput]{svc: svc}}
}

// List handles GET /api/portfolio.
//
// @Summary      List portfolio projects
// @Tags         portfolio
// @Produce      json
// @Param        refresh  query     bool  false  "Bypass the cache"
// @Success      200      {array}   domain.Project
// @Failure      502      {object}  listFailure
// @Router       /api/portfolio [get]
func (h *PortfolioHandler) List(c echo.Context) error {
	return h.res.listJSON(c)
}

// Get handles GET /api/portfolio/:id.
//
// @Summary      Get a project
// @Tags         portfolio
// @Produce      json
// @Param        id   path      string  true  "Project id"
// @Success      200  {object}  domain.Project
// @Failure      404  {object}  map[string]string
// @Router       /api/portfolio/{id} [get]
func (h *PortfolioHandler) Get(c echo.Context) error {
	return h.res.get(c)
}

// ByCategory handles GET /api/portfolio/category/:category.
//
// @Summary      List projects of one category
// @Tags         portfolio
// @Produce      json
// @Param        category  path      string  true  "Exact category name"
// @Success      200       {array}   domain.Project
// @Failure      502       {object}  listFailure
// @Router       /api/portfolio/category/{category} [get]
func (h *PortfolioHandler) ByCategory(c echo.Context) error {
	if _, err := h.res.list(c); err != nil {
		return listFailed(c, err)
	}
	return c.JSON(http.StatusOK, h.svc.ByCategory(c.Param("category")))
}

// Create handles POST /api/admin/portfolio.
//
// @Summary      Create a project
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        body  body      domain.ProjectInput  true  "Project"
// @Success      201   {object}  domain.Project
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /api/admin/portfolio [post]
func (h *PortfolioHandler) Create(c echo.Context) error {
	return h.res.create(c)
}

// Update handles PUT /api/admin/portfolio/:id.
//
// @Summary      Update a project
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id    path      string               true  "Project id"
// @Param        body  body      domain.ProjectInput  true  "Project"
// @Success      200   {object}  domain.Project
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/admin/portfolio/{id} [put]
func (h *PortfolioHandler) Update(c echo.Context) error {
	return h.res.update(c)
}

// Delete handles DELETE /api/admin/portfolio/:id.
//
// @Summary      Delete a project
// @Tags         admin
// @Param        id   path  string  true  "Project id"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /api/admin/portfolio/{id} [delete]
func (h *PortfolioHandler) Delete(c echo.Context) error {
	return h.res.delete(c)
}
