package ports

import (
	"context"

	"github.com/complaintdesk/complaints-api/internal/core/domain"
)

// AuditRepository persists audit entries.
type AuditRepository interface {
	Insert(ctx context.Context, entry domain.AuditEntry) error
}

// AuditSink accepts audit entries without blocking the write that produced them.
type AuditSink interface {
	Record(entry domain.AuditEntry)
}
