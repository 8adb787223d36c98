package devbackend

import (
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/vertextarget/portal-gateway/internal/core/domain"
)

// An entry count above this suggests expired entries are not being evicted.
const strategyCacheHighUsage = 1000

type strategyEntry struct {
	text string
	at   time.Time
}

// strategyCache memoises generated strategies per industry and objective.
type strategyCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]strategyEntry
	hits    int
	misses  int
}

func newStrategyCache(ttl time.Duration, now func() time.Time) *strategyCache {
	return &strategyCache{ttl: ttl, now: now, entries: make(map[string]strategyEntry)}
}

func strategyKey(industry, objective string) string {
	return strings.ToLower(strings.TrimSpace(industry)) + "|" + strings.ToLower(strings.TrimSpace(objective))
}

// get returns the cached entry and whether it was still fresh. Expired
// entries are evicted.
func (c *strategyCache) get(industry, objective string) (strategyEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := strategyKey(industry, objective)
	e, ok := c.entries[key]
	if ok && c.now().Sub(e.at) >= c.ttl {
		delete(c.entries, key)
		ok = false
	}
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return e, ok
}

func (c *strategyCache) put(industry, objective, text string) strategyEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := strategyEntry{text: text, at: c.now().UTC()}
	c.entries[strategyKey(industry, objective)] = e
	return e
}

// stats evicts expired entries and reports the counters.
func (c *strategyCache) stats() domain.StrategyCacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	var oldest, newest time.Time
	for k, e := range c.entries {
		if now.Sub(e.at) >= c.ttl {
			delete(c.entries, k)
			continue
		}
		if oldest.IsZero() || e.at.Before(oldest) {
			oldest = e.at
		}
		if e.at.After(newest) {
			newest = e.at
		}
	}

	st := domain.StrategyCacheStats{
		TotalEntries: len(c.entries),
		CacheHits:    c.hits,
		CacheMisses:  c.misses,
	}
	if total := c.hits + c.misses; total > 0 {
		st.HitRatio = math.Round(float64(c.hits)/float64(total)*1000) / 1000
	}
	if !oldest.IsZero() {
		st.OldestEntry, st.NewestEntry = &oldest, &newest
	}
	return st
}

// clear drops every entry and returns how many there were. Counters are kept.
func (c *strategyCache) clear() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := len(c.entries)
	c.entries = make(map[string]strategyEntry)
	return n
}

func (c *strategyCache) health() domain.StrategyCacheHealth {
	st := c.stats()
	status := domain.StrategyCacheHealthy
	switch {
	case st.TotalEntries == 0:
		status = domain.StrategyCacheEmpty
	case st.HitRatio < 0.3:
		status = domain.StrategyCacheLowEfficiency
	case st.TotalEntries > strategyCacheHighUsage:
		status = domain.StrategyCacheHighUsage
	}
	return domain.StrategyCacheHealth{
		Status:       status,
		CacheEnabled: true,
		TotalEntries: st.TotalEntries,
		HitRatio:     st.HitRatio,
		OldestEntry:  st.OldestEntry,
		NewestEntry:  st.NewestEntry,
	}
}

// composeStrategy produces a deterministic 90-day plan. It stands in for the
// generative model the production backend calls.
func composeStrategy(industry, objective string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "90-day plan for %s: %s\n\n", industry, objective)
	fmt.Fprintf(&b, "1. Context: map the %s buying journey and the channels competitors already own.\n", industry)
	fmt.Fprintf(&b, "2. Tactics: launch one paid acquisition test and one content series aimed at \"%s\".\n", objective)
	b.WriteString("3. Metrics: track cost per lead, conversion rate and 30-day retention weekly.\n")
	b.WriteString("4. Next steps: pick the winning channel at day 45 and double its budget.")
	return b.String()
}
