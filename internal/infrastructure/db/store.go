// Package db opens the document store selected by configuration and exposes
// its repositories behind the core ports.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	mongodriver "go.mongodb.org/mongo-driver/mongo"

	"github.com/complaintdesk/complaints-api/internal/core/domain"
	"github.com/complaintdesk/complaints-api/internal/core/ports"
	"github.com/complaintdesk/complaints-api/internal/infrastructure/db/memory"
	"github.com/complaintdesk/complaints-api/internal/infrastructure/db/mongo"
	"github.com/complaintdesk/complaints-api/internal/pkg/config"
)

// Store is the process-wide store handle. It is safe for concurrent use.
type Store struct {
	Users      ports.UserRepository
	Complaints ports.ComplaintRepository
	Audit      ports.AuditRepository

	client *mongodriver.Client
}

// Open connects the configured driver and ensures the collation indexes exist.
func Open(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Store, error) {
	collation := domain.Collation{
		Locale:   cfg.Store.CollationLocale,
		Strength: cfg.Store.CollationStrength,
	}.Normalize()

	if cfg.Store.Driver == config.DriverMemory {
		log.Warn().Msg("using in-memory store, data is lost on restart")
		mem := memory.New(memory.Options{Collation: collation, UniqueIndexes: cfg.Store.UniqueIndexes})
		return &Store{Users: mem.Users, Complaints: mem.Complaints, Audit: mem.Audit}, nil
	}

	client, database, err := mongo.Connect(ctx, mongo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		Timeout:  cfg.Mongo.Timeout,
	})
	if err != nil {
		return nil, err
	}

	opts := mongo.RepositoryOptions{Collation: collation, Timeout: cfg.Mongo.Timeout}
	users := mongo.NewUserRepository(database, opts)
	complaints := mongo.NewComplaintRepository(database, opts)

	if err := users.EnsureIndexes(ctx, cfg.Store.UniqueIndexes); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	if err := complaints.EnsureIndexes(ctx, cfg.Store.UniqueIndexes); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	log.Info().
		Str("database", cfg.Mongo.Database).
		Str("collation_locale", collation.Locale).
		Int("collation_strength", collation.Strength).
		Bool("unique_indexes", cfg.Store.UniqueIndexes).
		Msg("connected to MongoDB")

	return &Store{
		Users:      users,
		Complaints: complaints,
		Audit:      mongo.NewAuditRepository(database),
		client:     client,
	}, nil
}

// Ping checks the underlying deployment. The in-memory store is always ready.
func (s *Store) Ping(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := s.client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("mongo ping: %w", err)
	}
	return nil
}

// Close releases the connection pool.
func (s *Store) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}
