package memory

import (
	"context"
	"sync"

	"github.com/complaintdesk/complaints-api/internal/core/domain"
)

type AuditRepository struct {
	mu      sync.Mutex
	entries []domain.AuditEntry
}

func NewAuditRepository() *AuditRepository {
	return &AuditRepository{}
}

func (r *AuditRepository) Insert(_ context.Context, entry domain.AuditEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
	return nil
}

// Entries returns a snapshot of every recorded entry.
func (r *AuditRepository) Entries() []domain.AuditEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.AuditEntry(nil), r.entries...)
}
