package cache

import (
	"time"

	"github.com/rs/zerolog"
)

// Request results reported to an Observer.
const (
	ResultHit    = "hit"
	ResultMiss   = "miss"
	ResultJoined = "joined"
)

// Observer receives store events, typically to export metrics.
type Observer interface {
	Request(resource, result string)
	Load(resource string, took time.Duration, err error)
	Size(resource string, n int)
}

type nopObserver struct{}

func (nopObserver) Request(string, string)            {}
func (nopObserver) Load(string, time.Duration, error) {}
func (nopObserver) Size(string, int)                  {}

type options struct {
	ttl time.Duration
	now func() time.Time
	log zerolog.Logger
	obs Observer
}

// Option configures a Store.
type Option func(*options)

// WithTTL sets the cache window. Non-positive values are ignored.
func WithTTL(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.ttl = d
		}
	}
}

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithLogger sets the logger for load and cache events.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithObserver reports store events to obs. A nil obs is ignored.
func WithObserver(obs Observer) Option {
	return func(o *options) {
		if obs != nil {
			o.obs = obs
		}
	}
}
