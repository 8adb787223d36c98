// Package metrics defines the gateway's Prometheus metrics and the observer
// adapters that feed them. It is the single source of truth for metric
// names, labels and help strings.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "vertex"

// ── Resource cache ───────────────────────────────────────────────────────────

// CacheRequestsTotal counts Fetch calls.
// Labels:
//   - resource: "portfolio" or "testimonials"
//   - result: "hit" (served from cache), "miss" (started a load), "joined" (awaited an in-flight load)
var CacheRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_requests_total",
		Help:      "Resource cache lookups, by resource and result.",
	},
	[]string{"resource", "result"},
)

// CacheLoadDuration measures backend loads triggered by the cache.
// Label outcome is "ok" or "error".
var CacheLoadDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "cache_load_duration_seconds",
		Help:      "Duration of resource loads from the backend.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"resource", "outcome"},
)

var CacheItems = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "cache_items",
		Help:      "Number of items currently cached per resource.",
	},
	[]string{"resource"},
)

// ── Backend client ───────────────────────────────────────────────────────────

// BackendRequestDuration measures calls to the REST backend.
// Labels:
//   - operation: e.g. "portfolio.list", "auth.login"
//   - status: HTTP status class ("2xx", "4xx", "5xx") or "network"
var BackendRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "backend_request_duration_seconds",
		Help:      "Duration of backend REST calls, by operation and status class.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"operation", "status"},
)

// ── Sessions ─────────────────────────────────────────────────────────────────

var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Login and registration attempts, by action and result.",
	},
	[]string{"action", "result"},
)

// ── Audit trail ──────────────────────────────────────────────────────────────

// AuditRecordsTotal counts audit records by outcome: "queued", "dropped", "failed".
var AuditRecordsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_records_total",
		Help:      "Audit records by outcome.",
	},
	[]string{"outcome"},
)

var AuditQueueDepth = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Audit records waiting to be written.",
	},
)

// ── Observer adapters ────────────────────────────────────────────────────────

// CacheObserver feeds the cache metrics.
type CacheObserver struct{}

func (CacheObserver) Request(resource, result string) {
	CacheRequestsTotal.WithLabelValues(resource, result).Inc()
}

func (CacheObserver) Load(resource string, took time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	CacheLoadDuration.WithLabelValues(resource, outcome).Observe(took.Seconds())
}

func (CacheObserver) Size(resource string, n int) {
	CacheItems.WithLabelValues(resource).Set(float64(n))
}

// BackendObserver feeds the backend client metrics.
type BackendObserver struct{}

func (BackendObserver) Call(operation string, status int, took time.Duration) {
	BackendRequestDuration.WithLabelValues(operation, statusClass(status)).Observe(took.Seconds())
}

func statusClass(status int) string {
	if status <= 0 {
		return "network"
	}
	return strconv.Itoa(status/100) + "xx"
}

// AuthObserver feeds the session metrics.
type AuthObserver struct{}

func (AuthObserver) Auth(action, result string) {
	AuthAttemptsTotal.WithLabelValues(action, result).Inc()
}

// AuditObserver feeds the audit dispatcher metrics.
type AuditObserver struct{}

func (AuditObserver) Queued()  { AuditRecordsTotal.WithLabelValues("queued").Inc() }
func (AuditObserver) Dropped() { AuditRecordsTotal.WithLabelValues("dropped").Inc() }
func (AuditObserver) Failed()  { AuditRecordsTotal.WithLabelValues("failed").Inc() }

func (AuditObserver) Depth(n int) { AuditQueueDepth.Set(float64(n)) }
