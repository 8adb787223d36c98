package service

import (
	"github.com/rs/zerolog"

	"github.com/vertextarget/portal-gateway/internal/core/cache"
	"github.com/vertextarget/portal-gateway/internal/core/domain"
	"github.com/vertextarget/portal-gateway/internal/core/ports"
)

// Portfolio is the project catalog.
type Portfolio struct {
	*Catalog[domain.Project, domain.ProjectInput]
}

func NewPortfolio(
	store *cache.Store[domain.Project],
	client ports.ResourceClient[domain.Project, domain.ProjectInput],
	audit ports.AuditSink,
	log zerolog.Logger,
) *Portfolio {
	return &Portfolio{Catalog: NewCatalog(store, client, audit, log)}
}

// ByCategory filters the cached projects by exact category.
func (p *Portfolio) ByCategory(category string) []domain.Project {
	return p.store.Filter(func(pr domain.Project) bool { return pr.Category == category })
}

type PortfolioStats struct {
	TotalProjects int      `json:"total_projects"`
	Categories    []string `json:"categories"`
	CacheInfo
}

func (p *Portfolio) Stats() PortfolioStats {
	items := p.store.Items()
	return PortfolioStats{
		TotalProjects: len(items),
		Categories:    distinct(items, func(pr domain.Project) string { return pr.Category }),
		CacheInfo:     p.cacheInfo(p.store.Stats()),
	}
}

// Summary returns Stats for generic cache dashboards.
func (p *Portfolio) Summary() any { return p.Stats() }
