package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/vertextarget/portal-gateway/internal/core/cache"
	"github.com/vertextarget/portal-gateway/internal/core/domain"
)

var adminActor = domain.Actor{UserID: "u-admin", Email: "admin@vertex.io", Token: "tok"}

func newPortfolio(t *testing.T, client *stubResourceClient[domain.Project, domain.ProjectInput], audit *recordingAudit) *Portfolio {
	t.Helper()
	store := cache.New[domain.Project]("portfolio", client.List)
	return NewPortfolio(store, client, audit, zerolog.Nop())
}

func seededProjects() []domain.Project {
	return []domain.Project{
		{ID: "p1", Title: "Shop relaunch", Category: "E-commerce"},
		{ID: "p2", Title: "Clinic funnel", Category: "Health"},
		{ID: "p3", Title: "Marketplace SEO", Category: "E-commerce"},
	}
}

// ---- reads ----

func TestCatalog_GetPrefersCache(t *testing.T) {
	backendGets := 0
	client := &stubResourceClient[domain.Project, domain.ProjectInput]{
		listFn: func(context.Context) ([]domain.Project, error) { return seededProjects(), nil },
		getFn: func(_ context.Context, id string) (domain.Project, error) {
			backendGets++
			if id == "p9" {
				return domain.Project{ID: "p9", Title: "Archived"}, nil
			}
			return domain.Project{}, domain.ErrNotFound
		},
	}
	p := newPortfolio(t, client, &recordingAudit{})

	if _, err := p.List(context.Background(), false); err != nil {
		t.Fatalf("list: %v", err)
	}
	got, err := p.Get(context.Background(), "p2")
	if err != nil || got.Title != "Clinic funnel" {
		t.Fatalf("unexpected cached get: %+v %v", got, err)
	}
	if backendGets != 0 {
		t.Fatalf("expected cache lookup, backend called %d times", backendGets)
	}

	got, err = p.Get(context.Background(), "p9")
	if err != nil || got.Title != "Archived" || backendGets != 1 {
		t.Fatalf("expected backend fallback, got %+v %v (%d calls)", got, err, backendGets)
	}
	if _, err := p.Get(context.Background(), "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

// ---- mutations ----

func TestCatalog_CreateMirrorsAndAudits(t *testing.T) {
	var gotToken string
	client := &stubResourceClient[domain.Project, domain.ProjectInput]{
		listFn: func(context.Context) ([]domain.Project, error) { return seededProjects(), nil },
		createFn: func(_ context.Context, token string, in domain.ProjectInput) (domain.Project, error) {
			gotToken = token
			return domain.Project{ID: "p4", Title: in.Title, Category: in.Category}, nil
		},
	}
	audit := &recordingAudit{}
	p := newPortfolio(t, client, audit)
	p.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	if _, err := p.List(context.Background(), false); err != nil {
		t.Fatalf("list: %v", err)
	}

	created, err := p.Create(context.Background(), adminActor, domain.ProjectInput{Title: "New", Category: "Fintech"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if gotToken != "tok" || created.ID != "p4" {
		t.Fatalf("unexpected create: token=%q item=%+v", gotToken, created)
	}
	if _, ok := p.Store().Find("p4"); !ok {
		t.Fatal("expected created project in store")
	}
	if p.Store().Valid() {
		t.Fatal("expected local mutation to invalidate the cache window")
	}

	if len(audit.records) != 1 {
		t.Fatalf("expected 1 audit record, got %d", len(audit.records))
	}
	rec := audit.records[0]
	if rec.Resource != "portfolio" || rec.Action != domain.AuditCreate || rec.ResourceID != "p4" || rec.ActorEmail != "admin@vertex.io" {
		t.Fatalf("unexpected audit record: %+v", rec)
	}
}

func TestCatalog_MutationFailureLeavesStoreUntouched(t *testing.T) {
	backendErr := errors.New("forbidden")
	client := &stubResourceClient[domain.Project, domain.ProjectInput]{
		listFn: func(context.Context) ([]domain.Project, error) { return seededProjects(), nil },
		updateFn: func(context.Context, string, string, domain.ProjectInput) (domain.Project, error) {
			return domain.Project{}, backendErr
		},
		deleteFn: func(context.Context, string, string) error { return backendErr },
	}
	audit := &recordingAudit{}
	p := newPortfolio(t, client, audit)
	if _, err := p.List(context.Background(), false); err != nil {
		t.Fatalf("list: %v", err)
	}

	if _, err := p.Update(context.Background(), adminActor, "p1", domain.ProjectInput{Title: "x"}); !errors.Is(err, backendErr) {
		t.Fatalf("expected backend error, got %v", err)
	}
	if err := p.Delete(context.Background(), adminActor, "p1"); !errors.Is(err, backendErr) {
		t.Fatalf("expected backend error, got %v", err)
	}

	st := p.Store().State()
	if len(st.Items) != 3 || st.Items[0].Title != "Shop relaunch" {
		t.Fatalf("store changed after failed mutation: %+v", st.Items)
	}
	if st.Err != "" {
		t.Fatalf("mutation failure must not be written to store state, got %q", st.Err)
	}
	if !p.Store().Valid() {
		t.Fatal("failed mutation must not invalidate the cache")
	}
	if len(audit.records) != 0 {
		t.Fatalf("expected no audit records, got %d", len(audit.records))
	}
}

func TestCatalog_MutationRequiresToken(t *testing.T) {
	p := newPortfolio(t, &stubResourceClient[domain.Project, domain.ProjectInput]{}, &recordingAudit{})
	if _, err := p.Create(context.Background(), domain.Actor{}, domain.ProjectInput{}); !errors.Is(err, domain.ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
	if err := p.Delete(context.Background(), domain.Actor{}, "p1"); !errors.Is(err, domain.ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
}

func TestCatalog_UpdateAndDelete(t *testing.T) {
	client := &stubResourceClient[domain.Project, domain.ProjectInput]{
		listFn: func(context.Context) ([]domain.Project, error) { return seededProjects(), nil },
		updateFn: func(_ context.Context, _, id string, in domain.ProjectInput) (domain.Project, error) {
			return domain.Project{ID: id, Title: in.Title, Category: in.Category}, nil
		},
		deleteFn: func(context.Context, string, string) error { return nil },
	}
	audit := &recordingAudit{}
	p := newPortfolio(t, client, audit)
	if _, err := p.List(context.Background(), false); err != nil {
		t.Fatalf("list: %v", err)
	}

	if _, err := p.Update(context.Background(), adminActor, "p2", domain.ProjectInput{Title: "Clinic 2.0", Category: "Health"}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if got, _ := p.Store().Find("p2"); got.Title != "Clinic 2.0" {
		t.Fatalf("expected updated title, got %q", got.Title)
	}
	if err := p.Delete(context.Background(), adminActor, "p1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok := p.Store().Find("p1"); ok {
		t.Fatal("expected p1 removed")
	}
	if len(audit.records) != 2 || audit.records[1].Action != domain.AuditDelete {
		t.Fatalf("unexpected audit records: %+v", audit.records)
	}
}

// ---- derived views ----

func TestPortfolio_ByCategoryAndStats(t *testing.T) {
	client := &stubResourceClient[domain.Project, domain.ProjectInput]{
		listFn: func(context.Context) ([]domain.Project, error) { return seededProjects(), nil },
	}
	p := newPortfolio(t, client, &recordingAudit{})

	empty := p.Stats()
	if empty.TotalProjects != 0 || empty.LastFetch != "never" || empty.CacheExpiry != "N/A" || empty.CacheValid {
		t.Fatalf("unexpected empty stats: %+v", empty)
	}

	if _, err := p.List(context.Background(), false); err != nil {
		t.Fatalf("list: %v", err)
	}
	if got := p.ByCategory("E-commerce"); len(got) != 2 || got[0].ID != "p1" || got[1].ID != "p3" {
		t.Fatalf("unexpected category filter: %+v", got)
	}
	if got := p.ByCategory("e-commerce"); len(got) != 0 {
		t.Fatalf("category match must be exact, got %d", len(got))
	}

	st := p.Stats()
	if st.TotalProjects != 3 || !st.CacheValid {
		t.Fatalf("unexpected stats: %+v", st)
	}
	if len(st.Categories) != 2 || st.Categories[0] != "E-commerce" || st.Categories[1] != "Health" {
		t.Fatalf("unexpected categories: %v", st.Categories)
	}
	if st.LastFetch == "never" || st.CacheExpiry == "N/A" || st.ExpiresIn == "" {
		t.Fatalf("expected cache timestamps, got %+v", st.CacheInfo)
	}
}

func TestTestimonials_ByMinRatingAndStats(t *testing.T) {
	client := &stubResourceClient[domain.Testimonial, domain.TestimonialInput]{
		listFn: func(context.Context) ([]domain.Testimonial, error) {
			return []domain.Testimonial{
				{ID: "t1", Company: "Acme", Rating: 5},
				{ID: "t2", Company: "Globex", Rating: 4},
				{ID: "t3", Company: "Acme", Rating: 5},
			}, nil
		},
	}
	store := cache.New[domain.Testimonial]("testimonials", client.List)
	ts := NewTestimonials(store, client, nil, zerolog.Nop())

	if st := ts.Stats(); st.AverageRating != 0 || st.TotalTestimonials != 0 {
		t.Fatalf("unexpected empty stats: %+v", st)
	}
	if _, err := ts.List(context.Background(), false); err != nil {
		t.Fatalf("list: %v", err)
	}
	if got := ts.ByMinRating(5); len(got) != 2 {
		t.Fatalf("expected 2 five-star testimonials, got %d", len(got))
	}

	st := ts.Stats()
	if st.AverageRating != 4.7 {
		t.Fatalf("expected average 4.7, got %v", st.AverageRating)
	}
	if len(st.Companies) != 2 || st.Companies[0] != "Acme" || st.Companies[1] != "Globex" {
		t.Fatalf("unexpected companies: %v", st.Companies)
	}
}

func TestCatalog_ReloadAndClear(t *testing.T) {
	calls := 0
	client := &stubResourceClient[domain.Project, domain.ProjectInput]{
		listFn: func(context.Context) ([]domain.Project, error) {
			calls++
			return seededProjects(), nil
		},
	}
	p := newPortfolio(t, client, &recordingAudit{})

	for i := 0; i < 2; i++ {
		n, err := p.Reload(context.Background())
		if err != nil || n != 3 {
			t.Fatalf("reload: %d %v", n, err)
		}
	}
	if calls != 2 {
		t.Fatalf("reload must bypass the cache, got %d calls", calls)
	}

	p.ClearCache()
	if st := p.Store().State(); len(st.Items) != 0 || !st.LastFetch.IsZero() {
		t.Fatalf("expected cleared store, got %+v", st)
	}
}

func TestCatalog_ReloadOvertakenByClearLoadsAgain(t *testing.T) {
	var calls atomic.Int32
	started := make(chan struct{}, 1)
	release := make(chan struct{})
	client := &stubResourceClient[domain.Project, domain.ProjectInput]{
		listFn: func(context.Context) ([]domain.Project, error) {
			if calls.Add(1) == 1 {
				started <- struct{}{}
				<-release
			}
			return seededProjects(), nil
		},
	}
	p := newPortfolio(t, client, &recordingAudit{})

	type result struct {
		n   int
		err error
	}
	done := make(chan result, 1)
	go func() {
		n, err := p.Reload(context.Background())
		done <- result{n, err}
	}()

	<-started
	p.ClearCache()
	close(release)

	res := <-done
	if res.err != nil || res.n != 3 {
		t.Fatalf("expected the retried load to report 3 items, got %d %v", res.n, res.err)
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("expected one retry, got %d backend calls", got)
	}
	if len(p.Store().Items()) != 3 {
		t.Fatalf("retried load must populate the store")
	}
}
