// Package queue fans audit records out to sharded writer goroutines.
package queue

import (
	"context"
	"hash/fnv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/vertextarget/portal-gateway/internal/core/domain"
	"github.com/vertextarget/portal-gateway/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	writeTimeout   = 5 * time.Second
)

// Observer receives dispatcher events for metrics.
type Observer interface {
	Queued()
	Dropped()
	Failed()
	Depth(n int)
}

type nopObserver struct{}

func (nopObserver) Queued()   {}
func (nopObserver) Dropped()  {}
func (nopObserver) Failed()   {}
func (nopObserver) Depth(int) {}

// Dispatcher writes audit records through a fixed set of workers. Records
// of the same resource item always land on the same worker, so their
// writes keep submission order.
type Dispatcher struct {
	workers []chan domain.AuditRecord
	repo    ports.AuditRepository
	obs     Observer
	log     zerolog.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers shards.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, repo ports.AuditRepository, obs Observer, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	if obs == nil {
		obs = nopObserver{}
	}
	d := &Dispatcher{
		workers: make([]chan domain.AuditRecord, numWorkers),
		repo:    repo,
		obs:     obs,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.AuditRecord, channelBuffer)
	}
	return d
}

// Start launches the workers. Writes use ctx values but are not cancelled
// with it; call Close to drain and stop.
func (d *Dispatcher) Start(ctx context.Context) {
	base := context.WithoutCancel(ctx)
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(base, i, ch)
	}
}

// Record enqueues rec without blocking. When the shard is full the record
// is dropped and counted.
func (d *Dispatcher) Record(rec domain.AuditRecord) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.obs.Dropped()
		return
	}

	select {
	case d.workers[d.shardIndex(rec.Resource+"/"+rec.ResourceID)] <- rec:
		d.obs.Queued()
		d.obs.Depth(d.depth())
	default:
		d.obs.Dropped()
		d.log.Warn().
			Str("resource", rec.Resource).
			Str("resource_id", rec.ResourceID).
			Msg("audit queue full, record dropped")
	}
}

// Close stops accepting records and waits for queued ones to be written.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	for _, ch := range d.workers {
		close(ch)
	}
	d.mu.Unlock()
	d.wg.Wait()
}

// shardIndex maps a key deterministically to a worker index.
func (d *Dispatcher) shardIndex(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) depth() int {
	n := 0
	for _, ch := range d.workers {
		n += len(ch)
	}
	return n
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.AuditRecord) {
	defer d.wg.Done()
	for rec := range ch {
		writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
		err := d.repo.Insert(writeCtx, &rec)
		cancel()
		if err != nil {
			d.obs.Failed()
			d.log.Error().Err(err).
				Str("resource", rec.Resource).
				Str("resource_id", rec.ResourceID).
				Int("worker_id", id).
				Msg("audit write failed")
		}
		d.obs.Depth(d.depth())
	}
}
