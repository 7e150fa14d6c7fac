package ports

import (
	"context"

	"github.com/adminhub/admin-system/internal/core/domain"
)

// AuditSink accepts audit events for durable storage. The core treats writes
// as fire-and-forget, but a sink failure must surface to the caller so it can
// be logged rather than silently swallowed.
type AuditSink interface {
	Write(ctx context.Context, event domain.AuditEvent) error
}

// AuditRepository is a sink that can also be queried for the trail.
type AuditRepository interface {
	AuditSink
	List(ctx context.Context, page, pageSize int) ([]domain.AuditEvent, int64, error)
}

// AuditRecorder decouples event emission from the sink write; the dispatcher
// implements it with a worker pool so request latency never includes the sink.
type AuditRecorder interface {
	Record(event domain.AuditEvent)
}
