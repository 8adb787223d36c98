package service

import (
	"context"
	"errors"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"

	"github.com/vertextarget/portal-gateway/internal/core/cache"
	"github.com/vertextarget/portal-gateway/internal/core/domain"
	"github.com/vertextarget/portal-gateway/internal/core/ports"
)

// Catalog binds a resource store to its backend client. Reads go through
// the store; writes go to the backend first and are mirrored locally only
// after the backend accepted them.
type Catalog[T cache.Record, In any] struct {
	store  *cache.Store[T]
	client ports.ResourceClient[T, In]
	audit  ports.AuditSink
	log    zerolog.Logger
	now    func() time.Time
}

func NewCatalog[T cache.Record, In any](
	store *cache.Store[T],
	client ports.ResourceClient[T, In],
	audit ports.AuditSink,
	log zerolog.Logger,
) *Catalog[T, In] {
	if audit == nil {
		audit = ports.NopAuditSink{}
	}
	return &Catalog[T, In]{
		store:  store,
		client: client,
		audit:  audit,
		log:    log.With().Str("resource", store.Name()).Logger(),
		now:    time.Now,
	}
}

// Store exposes the underlying cache, e.g. for the admin cache endpoints.
func (c *Catalog[T, In]) Store() *cache.Store[T] { return c.store }

func (c *Catalog[T, In]) Name() string { return c.store.Name() }

// List returns the collection through the cache.
func (c *Catalog[T, In]) List(ctx context.Context, force bool) ([]T, error) {
	return c.fetch(ctx, force)
}

// Reload forces a backend load and reports how many items were loaded.
func (c *Catalog[T, In]) Reload(ctx context.Context) (int, error) {
	items, err := c.fetch(ctx, true)
	if err != nil {
		return 0, err
	}
	return len(items), nil
}

// fetch loads once more when the first load was overtaken by a cache
// clear or a local mutation, so callers see the post-change state.
func (c *Catalog[T, In]) fetch(ctx context.Context, force bool) ([]T, error) {
	items, err := c.store.Fetch(ctx, force)
	if errors.Is(err, cache.ErrSuperseded) {
		c.log.Debug().Msg("load superseded, retrying")
		items, err = c.store.Fetch(ctx, force)
	}
	return items, err
}

// ClearCache empties the store.
func (c *Catalog[T, In]) ClearCache() {
	c.store.Clear()
}

// Get serves a cached item when present and asks the backend otherwise.
func (c *Catalog[T, In]) Get(ctx context.Context, id string) (T, error) {
	if item, ok := c.store.Find(id); ok {
		return item, nil
	}
	return c.client.Get(ctx, id)
}

func (c *Catalog[T, In]) Create(ctx context.Context, actor domain.Actor, in In) (T, error) {
	var zero T
	if actor.Token == "" {
		return zero, domain.ErrNotAuthenticated
	}
	item, err := c.client.Create(ctx, actor.Token, in)
	if err != nil {
		c.log.Warn().Err(err).Str("actor", actor.Email).Msg("create rejected")
		return zero, err
	}
	c.store.Add(item)
	c.record(actor, domain.AuditCreate, item.ResourceID())
	return item, nil
}

func (c *Catalog[T, In]) Update(ctx context.Context, actor domain.Actor, id string, in In) (T, error) {
	var zero T
	if actor.Token == "" {
		return zero, domain.ErrNotAuthenticated
	}
	item, err := c.client.Update(ctx, actor.Token, id, in)
	if err != nil {
		c.log.Warn().Err(err).Str("id", id).Str("actor", actor.Email).Msg("update rejected")
		return zero, err
	}
	c.store.Replace(id, item)
	c.record(actor, domain.AuditUpdate, id)
	return item, nil
}

func (c *Catalog[T, In]) Delete(ctx context.Context, actor domain.Actor, id string) error {
	if actor.Token == "" {
		return domain.ErrNotAuthenticated
	}
	if err := c.client.Delete(ctx, actor.Token, id); err != nil {
		c.log.Warn().Err(err).Str("id", id).Str("actor", actor.Email).Msg("delete rejected")
		return err
	}
	c.store.Remove(id)
	c.record(actor, domain.AuditDelete, id)
	return nil
}

func (c *Catalog[T, In]) record(actor domain.Actor, action domain.AuditAction, id string) {
	c.audit.Record(domain.AuditRecord{
		Resource:   c.store.Name(),
		Action:     action,
		ResourceID: id,
		ActorID:    actor.UserID,
		ActorEmail: actor.Email,
		At:         c.now().UTC(),
	})
}

// CacheInfo is the cache part of a resource summary.
type CacheInfo struct {
	LastFetch   string `json:"last_fetch"`
	CacheValid  bool   `json:"cache_valid"`
	CacheExpiry string `json:"cache_expiry"`
	ExpiresIn   string `json:"expires_in,omitempty"`
	Loading     bool   `json:"loading"`
	Error       string `json:"error,omitempty"`
}

func (c *Catalog[T, In]) cacheInfo(st cache.Stats) CacheInfo {
	info := CacheInfo{
		LastFetch:   "never",
		CacheValid:  st.Valid,
		CacheExpiry: "N/A",
		Loading:     st.Loading,
		Error:       st.Err,
	}
	if !st.LastFetch.IsZero() {
		info.LastFetch = st.LastFetch.UTC().Format(time.RFC3339)
		info.CacheExpiry = st.Expiry.UTC().Format(time.RFC3339)
		info.ExpiresIn = humanize.RelTime(st.Expiry, c.now(), "ago", "from now")
	}
	return info
}

// distinct returns the unique values of key in first-seen order.
func distinct[T any](items []T, key func(T) string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0)
	for _, item := range items {
		k := key(item)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}
