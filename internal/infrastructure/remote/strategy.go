package remote

import (
	"context"
	"net/http"

	"github.com/vertextarget/portal-gateway/internal/core/domain"
)

// StrategyClient calls the strategy generator.
type StrategyClient struct {
	c *Client
}

func NewStrategyClient(c *Client) *StrategyClient {
	return &StrategyClient{c: c}
}

func (s *StrategyClient) Generate(ctx context.Context, token, industry, objective string) (*domain.Strategy, error) {
	body := map[string]string{"industry": industry, "objective": objective}
	var out domain.Strategy
	err := s.c.do(ctx, "strategy.generate", http.MethodPost, "/api/v1/ai/generate-strategy", token, body, &out, Messages{
		Action: "generate strategy",
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// CacheStats reads the hit/miss counters of the backend strategy cache.
func (s *StrategyClient) CacheStats(ctx context.Context, token string) (domain.StrategyCacheStats, error) {
	var out domain.StrategyCacheStats
	err := s.c.do(ctx, "strategy.cache_stats", http.MethodGet, "/api/v1/ai/cache/stats", token, nil, &out, Messages{
		Action: "fetch strategy cache stats",
	})
	return out, err
}

// ClearCache empties the backend strategy cache.
func (s *StrategyClient) ClearCache(ctx context.Context, token string) (domain.StrategyCacheCleared, error) {
	var out domain.StrategyCacheCleared
	err := s.c.do(ctx, "strategy.cache_clear", http.MethodDelete, "/api/v1/ai/cache/clear", token, nil, &out, Messages{
		Action: "clear strategy cache",
	})
	return out, err
}

func (s *StrategyClient) CacheHealth(ctx context.Context) (domain.StrategyCacheHealth, error) {
	var out domain.StrategyCacheHealth
	err := s.c.do(ctx, "strategy.cache_health", http.MethodGet, "/api/v1/ai/cache/health", "", nil, &out, Messages{
		Action: "check strategy cache",
	})
	return out, err
}
