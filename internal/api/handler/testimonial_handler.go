package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/vertextarget/portal-gateway/internal/core/domain"
)

type testimonialService interface {
	catalog[domain.Testimonial, domain.TestimonialInput]
	ByMinRating(min int) []domain.Testimonial
}

// TestimonialHandler serves client testimonials.
type TestimonialHandler struct {
	svc testimonialService
	res resourceHandler[domain.Testimonial, domain.TestimonialInput]
}

func NewTestimonialHandler(svc testimonialService) *TestimonialHandler {
	return &TestimonialHandler{svc: svc, res: resourceHandler[domain.Testimonial, domain.TestimonialInput]{svc: svc}}
}

// List handles GET /api/testimonials.
//
// @Summary      List testimonials
// @Tags         testimonials
// @Produce      json
// @Param        refresh  query     bool  false  "Bypass the cache"
// @Success      200      {array}   domain.Testimonial
// @Failure      502      {object}  listFailure
// @Router       /api/testimonials [get]
func (h *TestimonialHandler) List(c echo.Context) error {
	return h.res.listJSON(c)
}

// Get handles GET /api/testimonials/:id.
//
// @Summary      Get a testimonial
// @Tags         testimonials
// @Produce      json
// @Param        id   path      string  true  "Testimonial id"
// @Success      200  {object}  domain.Testimonial
// @Failure      404  {object}  map[string]string
// @Router       /api/testimonials/{id} [get]
func (h *TestimonialHandler) Get(c echo.Context) error {
	return h.res.get(c)
}

// ByRating handles GET /api/testimonials/rating/:min.
//
// @Summary      List testimonials rated at least min
// @Tags         testimonials
// @Produce      json
// @Param        min  path      int  true  "Minimum rating (1-5)"
// @Success      200  {array}   domain.Testimonial
// @Failure      400  {object}  map[string]string
// @Failure      502  {object}  listFailure
// @Router       /api/testimonials/rating/{min} [get]
func (h *TestimonialHandler) ByRating(c echo.Context) error {
	min, err := strconv.Atoi(c.Param("min"))
	if err != nil || min < 1 || min > 5 {
		return echo.NewHTTPError(http.StatusBadRequest, "rating must be between 1 and 5")
	}
	if _, err := h.res.list(c); err != nil {
		return listFailed(c, err)
	}
	return c.JSON(http.StatusOK, h.svc.ByMinRating(min))
}

// Create handles POST /api/admin/testimonials.
//
// @Summary      Create a testimonial
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        body  body      domain.TestimonialInput  true  "Testimonial"
// @Success      201   {object}  domain.Testimonial
// @Failure      400   {object}  map[string]string
// @Router       /api/admin/testimonials [post]
func (h *TestimonialHandler) Create(c echo.Context) error {
	return h.res.create(c)
}

// Update handles PUT /api/admin/testimonials/:id.
//
// @Summary      Update a testimonial
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id    path      string                   true  "Testimonial id"
// @Param        body  body      domain.TestimonialInput  true  "Testimonial"
// @Success      200   {object}  domain.Testimonial
// @Failure      404   {object}  map[string]string
// @Router       /api/admin/testimonials/{id} [put]
func (h *TestimonialHandler) Update(c echo.Context) error {
	return h.res.update(c)
}

// Delete handles DELETE /api/admin/testimonials/:id.
//
// @Summary      Delete a testimonial
// @Tags         admin
// @Param        id   path  string  true  "Testimonial id"
// @Success      204
// @Router       /api/admin/testimonials/{id} [delete]
func (h *TestimonialHandler) Delete(c echo.Context) error {
	return h.res.delete(c)
}
