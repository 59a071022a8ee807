package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/complaintdesk/complaints-api/internal/core/domain"
)

const defaultTimeout = 10 * time.Second

// Config captures the minimal settings required to establish a MongoDB connection.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Connect establishes a MongoDB client, verifies connectivity with a ping, and
// returns both the client and the selected database. A default timeout is
// applied when none is provided.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := client.Database(cfg.Database)
	return client, db, nil
}

// RepositoryOptions is shared by the user and complaint repositories.
type RepositoryOptions struct {
	// Collation is attached to every lookup on a unique text field and to the
	// index that backs it.
	Collation domain.Collation
	// Timeout bounds every single repository call.
	Timeout time.Duration
}

func (o RepositoryOptions) normalize() RepositoryOptions {
	o.Collation = o.Collation.Normalize()
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	return o
}

func (o RepositoryOptions) mongoCollation() *options.Collation {
	return &options.Collation{Locale: o.Collation.Locale, Strength: o.Collation.Strength}
}

// objectID parses a hex id. Malformed ids cannot match any document, so they
// are reported as not found.
func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, domain.ErrNotFound
	}
	return oid, nil
}

// translate maps driver errors onto domain error kinds and wraps the rest.
func translate(op string, err error) error {
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return domain.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return domain.ErrConflict
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
