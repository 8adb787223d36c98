package domain

import "time"

// Project is a portfolio case study shown on the landing page.
type Project struct {
	ID           string            `json:"id"`
	Title        string            `json:"title"`
	Category     string            `json:"category"`
	Image        string            `json:"image"`
	Metric       string            `json:"metric"`
	Description  string            `json:"description"`
	Technologies []string          `json:"technologies"`
	Results      map[string]string `json:"results"`
	Challenge    string            `json:"challenge"`
	Solution     string            `json:"solution"`
	Outcome      string            `json:"outcome"`
	CreatedAt    time.Time         `json:"created_at,omitzero"`
	UpdatedAt    time.Time         `json:"updated_at,omitzero"`
}

func (p Project) ResourceID() string { return p.ID }

// ProjectInput is the create/update payload for a project.
type ProjectInput struct {
	Title        string            `json:"title" validate:"required,max=200"`
	Category     string            `json:"category" validate:"required,max=100"`
	Image        string            `json:"image" validate:"required"`
	Metric       string            `json:"metric" validate:"required,max=100"`
	Description  string            `json:"description" validate:"required,max=500"`
	Technologies []string          `json:"technologies" validate:"required,min=1"`
	Results      map[string]string `json:"results" validate:"required"`
	Challenge    string            `json:"challenge" validate:"required"`
	Solution     string            `json:"solution" validate:"required"`
	Outcome      string            `json:"outcome" validate:"required"`
}

// Testimonial is a client quote shown in the testimonials section.
type Testimonial struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Position  string    `json:"position"`
	Company   string    `json:"company"`
	Avatar    string    `json:"avatar"`
	Quote     string    `json:"quote"`
	Rating    int       `json:"rating"`
	Project   string    `json:"project"`
	CreatedAt time.Time `json:"created_at,omitzero"`
	UpdatedAt time.Time `json:"updated_at,omitzero"`
}

func (t Testimonial) ResourceID() string { return t.ID }

// TestimonialInput is the create/update payload for a testimonial.
type TestimonialInput struct {
	Name     string `json:"name" validate:"required,max=100"`
	Position string `json:"position" validate:"required,max=100"`
	Company  string `json:"company" validate:"required,max=100"`
	Avatar   string `json:"avatar" validate:"required"`
	Quote    string `json:"quote" validate:"required,min=10,max=1000"`
	Rating   int    `json:"rating" validate:"required,gte=1,lte=5"`
	Project  string `json:"project" validate:"required,max=100"`
}

// Strategy is a generated marketing strategy.
type Strategy struct {
	Strategy       string     `json:"strategy"`
	Cached         bool       `json:"cached"`
	CacheTimestamp *time.Time `json:"cache_timestamp,omitempty"`
}

// StrategyCacheStats describes the backend's strategy response cache.
type StrategyCacheStats struct {
	TotalEntries int        `json:"total_entries"`
	CacheHits    int        `json:"cache_hits"`
	CacheMisses  int        `json:"cache_misses"`
	HitRatio     float64    `json:"hit_ratio"`
	OldestEntry  *time.Time `json:"oldest_entry,omitempty"`
	NewestEntry  *time.Time `json:"newest_entry,omitempty"`
}

// StrategyCacheCleared is the result of emptying the strategy cache.
type StrategyCacheCleared struct {
	ClearedEntries int       `json:"cleared_entries"`
	ClearedBy      string    `json:"cleared_by"`
	Timestamp      time.Time `json:"timestamp"`
}

// Strategy cache health states.
const (
	StrategyCacheHealthy       = "healthy"
	StrategyCacheEmpty         = "empty"
	StrategyCacheLowEfficiency = "low_efficiency"
	StrategyCacheHighUsage     = "high_usage"
)

// StrategyCacheHealth is the public summary of the strategy cache.
type StrategyCacheHealth struct {
	Status       string     `json:"status"`
	CacheEnabled bool       `json:"cache_enabled"`
	TotalEntries int        `json:"total_entries"`
	HitRatio     float64    `json:"hit_ratio"`
	OldestEntry  *time.Time `json:"oldest_entry,omitempty"`
	NewestEntry  *time.Time `json:"newest_entry,omitempty"`
}

// AuditAction names a dashboard mutation.
type AuditAction string

const (
	AuditCreate AuditAction = "create"
	AuditUpdate AuditAction = "update"
	AuditDelete AuditAction = "delete"
)

// AuditRecord is one successful admin mutation.
type AuditRecord struct {
	Resource   string      `json:"resource"`
	Action     AuditAction `json:"action"`
	ResourceID string      `json:"resource_id"`
	ActorID    string      `json:"actor_id"`
	ActorEmail string      `json:"actor_email"`
	At         time.Time   `json:"at"`
}
