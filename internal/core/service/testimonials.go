package service

import (
	"math"

	"github.com/rs/zerolog"

	"github.com/vertextarget/portal-gateway/internal/core/cache"
	"github.com/vertextarget/portal-gateway/internal/core/domain"
	"github.com/vertextarget/portal-gateway/internal/core/ports"
)

// Testimonials is the client quote catalog.
type Testimonials struct {
	*Catalog[domain.Testimonial, domain.TestimonialInput]
}

func NewTestimonials(
	store *cache.Store[domain.Testimonial],
	client ports.ResourceClient[domain.Testimonial, domain.TestimonialInput],
	audit ports.AuditSink,
	log zerolog.Logger,
) *Testimonials {
	return &Testimonials{Catalog: NewCatalog(store, client, audit, log)}
}

// ByMinRating returns cached testimonials rated at least min.
func (t *Testimonials) ByMinRating(min int) []domain.Testimonial {
	return t.store.Filter(func(ts domain.Testimonial) bool { return ts.Rating >= min })
}

type TestimonialStats struct {
	TotalTestimonials int      `json:"total_testimonials"`
	AverageRating     float64  `json:"average_rating"`
	Companies         []string `json:"companies"`
	CacheInfo
}

func (t *Testimonials) Stats() TestimonialStats {
	items := t.store.Items()
	return TestimonialStats{
		TotalTestimonials: len(items),
		AverageRating:     averageRating(items),
		Companies:         distinct(items, func(ts domain.Testimonial) string { return ts.Company }),
		CacheInfo:         t.cacheInfo(t.store.Stats()),
	}
}

// averageRating rounds to one decimal; an empty list averages 0.
func averageRating(items []domain.Testimonial) float64 {
	if len(items) == 0 {
		return 0
	}
	sum := 0
	for _, it := range items {
		sum += it.Rating
	}
	return math.Round(float64(sum)/float64(len(items))*10) / 10
}

// Summary returns Stats for generic cache dashboards.
func (t *Testimonials) Summary() any { return t.Stats() }
