package domain

import (
	"context"
	"time"
)

const (
	EntityUser      = "user"
	EntityComplaint = "complaint"

	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// AuditEntry records one successful write.
type AuditEntry struct {
	Entity   string
	EntityID string
	Action   string
	Actor    string
	At       time.Time
}

type actorKey struct{}

// WithActor returns a copy of ctx carrying the authenticated username.
func WithActor(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, actorKey{}, username)
}

// ActorFromContext returns the username stored by WithActor, or "" if none.
func ActorFromContext(ctx context.Context) string {
	actor, _ := ctx.Value(actorKey{}).(string)
	return actor
}
