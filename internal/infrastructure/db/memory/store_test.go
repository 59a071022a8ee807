package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/complaintdesk/complaints-api/internal/core/domain"
)

func TestUserRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	s := New(Options{Collation: domain.DefaultCollation})

	created, err := s.Users.Create(ctx, &domain.User{Username: "Alice", PasswordHash: "h", Roles: []string{"Customer"}, Active: true})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("expected id to be assigned")
	}

	found, err := s.Users.FindByUsername(ctx, "ALICE")
	if err != nil {
		t.Fatalf("find by username: %v", err)
	}
	if found.ID != created.ID || found.Username != "Alice" {
		t.Fatalf("unexpected user: %+v", found)
	}

	found.Roles[0] = "mutated"
	again, _ := s.Users.FindByID(ctx, created.ID)
	if again.Roles[0] != "Customer" {
		t.Fatalf("repository leaked internal state")
	}

	deleted, err := s.Users.Delete(ctx, created.ID)
	if err != nil || deleted.ID != created.ID {
		t.Fatalf("delete: %v %+v", err, deleted)
	}
	if _, err := s.Users.FindByID(ctx, created.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if _, err := s.Users.Delete(ctx, created.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestUserRepository_UniqueIndexes(t *testing.T) {
	ctx := context.Background()
	s := New(Options{UniqueIndexes: true})

	first, err := s.Users.Create(ctx, &domain.User{Username: "bob"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := s.Users.Create(ctx, &domain.User{Username: "BOB"}); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	first.Username = "Bob"
	if _, err := s.Users.Update(ctx, first); err != nil {
		t.Fatalf("self rename should pass the unique index: %v", err)
	}
}

func TestUserRepository_FindByIDs(t *testing.T) {
	ctx := context.Background()
	s := New(Options{})

	a, _ := s.Users.Create(ctx, &domain.User{Username: "a"})
	b, _ := s.Users.Create(ctx, &domain.User{Username: "b"})

	got, err := s.Users.FindByIDs(ctx, []string{a.ID, b.ID, "missing"})
	if err != nil {
		t.Fatalf("find by ids: %v", err)
	}
	if len(got) != 2 || got[a.ID].Username != "a" || got[b.ID].Username != "b" {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestComplaintRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	s := New(Options{})
	owner, _ := s.Users.Create(ctx, &domain.User{Username: "owner"})

	if _, err := s.Complaints.Create(ctx, &domain.Complaint{User: "not-an-id", Title: "x", Text: "y"}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for malformed user id, got %v", err)
	}

	c, err := s.Complaints.Create(ctx, &domain.Complaint{User: owner.ID, Title: "Broken heater", Text: "cold"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if c.CreatedAt.IsZero() || !c.CreatedAt.Equal(c.UpdatedAt) {
		t.Fatalf("expected timestamps to be set: %+v", c)
	}

	dup, err := s.Complaints.FindByTitle(ctx, "broken HEATER")
	if err != nil || dup.ID != c.ID {
		t.Fatalf("collation lookup failed: %v %+v", err, dup)
	}
	if _, err := s.Complaints.FindByTitle(ctx, "Broken heaters"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	c.Completed = true
	updated, err := s.Complaints.Update(ctx, c)
	if err != nil || !updated.Completed || !updated.CreatedAt.Equal(c.CreatedAt) {
		t.Fatalf("update: %v %+v", err, updated)
	}

	list, _ := s.Complaints.List(ctx)
	if len(list) != 1 {
		t.Fatalf("expected 1 complaint, got %d", len(list))
	}

	if _, err := s.Complaints.Delete(ctx, c.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	list, _ = s.Complaints.List(ctx)
	if len(list) != 0 {
		t.Fatalf("expected empty list, got %d", len(list))
	}
}
