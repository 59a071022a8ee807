// Package memory implements the user, complaint and audit repositories in
// process memory. Unique fields are compared with the same collation the
// Mongo store uses, emulated with golang.org/x/text/collate.
package memory

import (
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/complaintdesk/complaints-api/internal/core/domain"
)

// Options configures the in-memory store.
type Options struct {
	Collation domain.Collation
	// UniqueIndexes makes Create and Update reject collation-equal keys
	// atomically, the way a unique collation index would.
	UniqueIndexes bool
}

// Store groups the in-memory repositories.
type Store struct {
	Users      *UserRepository
	Complaints *ComplaintRepository
	Audit      *AuditRepository
}

// New returns an empty store.
func New(opts Options) *Store {
	col := opts.Collation.Normalize()
	return &Store{
		Users:      NewUserRepository(col, opts.UniqueIndexes),
		Complaints: NewComplaintRepository(col, opts.UniqueIndexes),
		Audit:      NewAuditRepository(),
	}
}

func newID() string {
	return primitive.NewObjectID().Hex()
}

// table keeps records in insertion order, mirroring a collection's natural order.
type table[T any] struct {
	mu    sync.RWMutex
	order []string
	rows  map[string]T
}

func newTable[T any]() *table[T] {
	return &table[T]{rows: make(map[string]T)}
}

func (t *table[T]) remove(id string) {
	delete(t.rows, id)
	for i, v := range t.order {
		if v == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			return
		}
	}
}
