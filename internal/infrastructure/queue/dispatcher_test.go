package queue

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/complaintdesk/complaints-api/internal/core/domain"
)

type recordingRepo struct {
	mu      sync.Mutex
	entries []domain.AuditEntry
	err     error
}

func (r *recordingRepo) Insert(_ context.Context, e domain.AuditEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.entries = append(r.entries, e)
	return nil
}

func (r *recordingRepo) snapshot() []domain.AuditEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.AuditEntry(nil), r.entries...)
}

func TestDispatcher_StopDrainsQueue(t *testing.T) {
	repo := &recordingRepo{}
	d := NewDispatcher(3, repo, zerolog.Nop())
	d.Start(context.Background())

	for _, action := range []string{domain.ActionCreate, domain.ActionUpdate, domain.ActionDelete} {
		d.Record(domain.AuditEntry{Entity: domain.EntityUser, EntityID: "u1", Action: action})
	}
	d.Record(domain.AuditEntry{Entity: domain.EntityComplaint, EntityID: "c1", Action: domain.ActionCreate})
	d.Stop()

	got := repo.snapshot()
	if len(got) != 4 {
		t.Fatalf("expected 4 persisted entries, got %d", len(got))
	}

	var order []string
	for _, e := range got {
		if e.EntityID == "u1" {
			order = append(order, e.Action)
		}
	}
	if len(order) != 3 || order[0] != domain.ActionCreate || order[2] != domain.ActionDelete {
		t.Fatalf("entries of one entity must keep their order, got %v", order)
	}
}

func TestDispatcher_RecordAfterStopIsDropped(t *testing.T) {
	repo := &recordingRepo{}
	d := NewDispatcher(1, repo, zerolog.Nop())
	d.Start(context.Background())
	d.Stop()
	d.Stop()

	d.Record(domain.AuditEntry{EntityID: "x"})
	if len(repo.snapshot()) != 0 {
		t.Fatalf("record after stop must not persist")
	}
}

func TestDispatcher_WriteErrorDoesNotStopWorker(t *testing.T) {
	repo := &recordingRepo{err: errors.New("db down")}
	d := NewDispatcher(1, repo, zerolog.Nop())
	d.Start(context.Background())

	d.Record(domain.AuditEntry{EntityID: "a"})
	d.Record(domain.AuditEntry{EntityID: "b"})
	d.Stop()

	if len(repo.snapshot()) != 0 {
		t.Fatalf("failing repo must not record entries")
	}
}

func TestDispatcher_FullQueueDrops(t *testing.T) {
	repo := &recordingRepo{}
	d := NewDispatcher(1, repo, zerolog.Nop())

	// Workers not started: the channel fills up and further entries are dropped.
	for i := 0; i < channelBuffer+10; i++ {
		d.Record(domain.AuditEntry{EntityID: "same"})
	}
	if got := len(d.workers[0]); got != channelBuffer {
		t.Fatalf("expected full channel of %d, got %d", channelBuffer, got)
	}

	d.Start(context.Background())
	d.Stop()
	if got := len(repo.snapshot()); got != channelBuffer {
		t.Fatalf("expected %d persisted entries, got %d", channelBuffer, got)
	}
}

func TestDispatcher_ShardIndexIsStable(t *testing.T) {
	d := NewDispatcher(0, &recordingRepo{}, zerolog.Nop())
	if len(d.workers) != defaultWorkers {
		t.Fatalf("expected %d default workers, got %d", defaultWorkers, len(d.workers))
	}
	first := d.shardIndex("abc")
	for i := 0; i < 10; i++ {
		if d.shardIndex("abc") != first {
			t.Fatalf("shard index must be deterministic")
		}
	}
}
