package service

import (
	"context"
	"errors"
	"time"

	"github.com/complaintdesk/complaints-api/internal/core/domain"
	"github.com/complaintdesk/complaints-api/internal/core/ports"
	"github.com/complaintdesk/complaints-api/internal/pkg/metrics"
)

// writeResult maps a write-path error to the result label of metrics.WritesTotal.
func writeResult(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrValidation):
		return "validation"
	case errors.Is(err, domain.ErrConflict):
		return "conflict"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}

func observeWrite(entity, action string, err error) {
	metrics.WritesTotal.WithLabelValues(entity, action, writeResult(err)).Inc()
}

func observeListing(entity string, err error) {
	if err == nil {
		return
	}
	reason := "error"
	switch {
	case errors.Is(err, domain.ErrNotFound):
		reason = "empty"
	case errors.Is(err, domain.ErrIntegrity):
		reason = "integrity"
	}
	metrics.ListingFailuresTotal.WithLabelValues(entity, reason).Inc()
}

// recordAudit hands a successful write to the audit sink, if one is configured.
func recordAudit(ctx context.Context, sink ports.AuditSink, entity, id, action string) {
	if sink == nil {
		return
	}
	sink.Record(domain.AuditEntry{
		Entity:   entity,
		EntityID: id,
		Action:   action,
		Actor:    domain.ActorFromContext(ctx),
		At:       time.Now().UTC(),
	})
}
