package ports

import (
	"context"

	"github.com/vertextarget/portal-gateway/internal/core/domain"
)

// AuditRepository persists dashboard mutations.
type AuditRepository interface {
	Insert(ctx context.Context, rec *domain.AuditRecord) error
	Recent(ctx context.Context, limit int) ([]domain.AuditRecord, error)
}

// AuditSink accepts records for asynchronous persistence. Record must not block.
type AuditSink interface {
	Record(rec domain.AuditRecord)
}

// NopAuditSink discards every record.
type NopAuditSink struct{}

func (NopAuditSink) Record(domain.AuditRecord) {}
