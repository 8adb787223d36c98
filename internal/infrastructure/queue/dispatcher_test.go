package queue

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/vertextarget/portal-gateway/internal/core/domain"
)

type stubRepo struct {
	mu      sync.Mutex
	records []domain.AuditRecord
	fail    bool
	block   chan struct{}
}

func (r *stubRepo) Insert(_ context.Context, rec *domain.AuditRecord) error {
	if r.block != nil {
		<-r.block
	}
	if r.fail {
		return errors.New("write failed")
	}
	r.mu.Lock()
	r.records = append(r.records, *rec)
	r.mu.Unlock()
	return nil
}

func (r *stubRepo) Recent(context.Context, int) ([]domain.AuditRecord, error) {
	return nil, nil
}

type countingObserver struct {
	queued, dropped, failed atomic.Int64
}

func (c *countingObserver) Queued()   { c.queued.Add(1) }
func (c *countingObserver) Dropped()  { c.dropped.Add(1) }
func (c *countingObserver) Failed()   { c.failed.Add(1) }
func (c *countingObserver) Depth(int) {}

func TestDispatcher_WritesInOrderPerItem(t *testing.T) {
	repo := &stubRepo{}
	obs := &countingObserver{}
	d := NewDispatcher(4, repo, obs, zerolog.Nop())
	d.Start(context.Background())

	actions := []domain.AuditAction{domain.AuditCreate, domain.AuditUpdate, domain.AuditUpdate, domain.AuditDelete}
	for i, a := range actions {
		d.Record(domain.AuditRecord{Resource: "portfolio", ResourceID: "p1", Action: a, At: time.Unix(int64(i), 0)})
	}
	d.Close()

	if len(repo.records) != len(actions) {
		t.Fatalf("expected %d records, got %d", len(actions), len(repo.records))
	}
	for i, rec := range repo.records {
		if rec.Action != actions[i] {
			t.Fatalf("record %d: expected %s, got %s", i, actions[i], rec.Action)
		}
	}
	if obs.queued.Load() != int64(len(actions)) {
		t.Fatalf("expected %d queued, got %d", len(actions), obs.queued.Load())
	}
}

func TestDispatcher_DropsWhenFull(t *testing.T) {
	repo := &stubRepo{block: make(chan struct{})}
	obs := &countingObserver{}
	d := NewDispatcher(1, repo, obs, zerolog.Nop())
	d.Start(context.Background())

	// one record is held by the blocked worker, channelBuffer more fill the shard
	total := channelBuffer + 10
	done := make(chan struct{})
	go func() {
		for i := 0; i < total; i++ {
			d.Record(domain.AuditRecord{Resource: "testimonials", ResourceID: "t1"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Record blocked on a full queue")
	}
	if obs.dropped.Load() == 0 {
		t.Fatal("expected dropped records")
	}
	close(repo.block)
	d.Close()

	if got := obs.queued.Load() + obs.dropped.Load(); got != int64(total) {
		t.Fatalf("expected every record queued or dropped, got %d of %d", got, total)
	}
}

func TestDispatcher_CountsFailuresAndRejectsAfterClose(t *testing.T) {
	repo := &stubRepo{fail: true}
	obs := &countingObserver{}
	d := NewDispatcher(2, repo, obs, zerolog.Nop())
	d.Start(context.Background())

	d.Record(domain.AuditRecord{Resource: "portfolio", ResourceID: "p1"})
	d.Close()
	if obs.failed.Load() != 1 {
		t.Fatalf("expected 1 failure, got %d", obs.failed.Load())
	}

	d.Record(domain.AuditRecord{Resource: "portfolio", ResourceID: "p2"})
	if obs.dropped.Load() != 1 {
		t.Fatalf("expected record after close to be dropped, got %d", obs.dropped.Load())
	}
	d.Close()
}

func TestShardIndexIsStable(t *testing.T) {
	d := NewDispatcher(8, &stubRepo{}, nil, zerolog.Nop())
	first := d.shardIndex("portfolio/p1")
	for i := 0; i < 10; i++ {
		if d.shardIndex("portfolio/p1") != first {
			t.Fatal("shard index must be deterministic")
		}
	}
	if first < 0 || first >= 8 {
		t.Fatalf("shard index out of range: %d", first)
	}
}
