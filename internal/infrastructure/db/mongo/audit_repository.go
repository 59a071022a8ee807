package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/complaintdesk/complaints-api/internal/core/domain"
)

const collectionAudit = "audit_events"

// AuditRepository appends write records to the audit_events collection.
type AuditRepository struct {
	col *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{col: db.Collection(collectionAudit)}
}

func (r *AuditRepository) Insert(ctx context.Context, e domain.AuditEntry) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := bson.M{
		"entity":    e.Entity,
		"entity_id": e.EntityID,
		"action":    e.Action,
		"at":        e.At.UTC(),
	}
	if e.Actor != "" {
		doc["actor"] = e.Actor
	}

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}
