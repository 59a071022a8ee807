package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/complaintdesk/complaints-api/internal/core/domain"
	"github.com/complaintdesk/complaints-api/internal/core/ports"
	"github.com/complaintdesk/complaints-api/internal/pkg/metrics"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	writeTimeout   = 5 * time.Second
)

// Dispatcher persists audit entries off the request path. Entries are sharded
// by entity id so that the records of one document keep their order.
type Dispatcher struct {
	workers []chan domain.AuditEntry
	repo    ports.AuditRepository
	log     zerolog.Logger

	mu      sync.RWMutex
	stopped bool
	wg      sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, repo ports.AuditRepository, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.AuditEntry, numWorkers),
		repo:    repo,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.AuditEntry, channelBuffer)
	}
	return d
}

// Start launches the workers. They drain their channel until Stop is called.
// ctx bounds the store calls; cancelling it makes pending writes fail fast.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Record enqueues e without blocking. When the worker channel is full, or the
// dispatcher is stopped, the entry is dropped and counted.
func (d *Dispatcher) Record(e domain.AuditEntry) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.stopped {
		metrics.AuditDroppedTotal.Inc()
		return
	}

	idx := d.shardIndex(e.EntityID)
	select {
	case d.workers[idx] <- e:
		metrics.AuditQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		metrics.AuditDroppedTotal.Inc()
		d.log.Warn().
			Str("entity", e.Entity).
			Str("entity_id", e.EntityID).
			Int("worker_id", idx).
			Msg("audit queue full, entry dropped")
	}
}

// Stop closes the worker channels and waits until queued entries are written.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.stopped = true
	for _, ch := range d.workers {
		close(ch)
	}
	d.mu.Unlock()

	d.wg.Wait()
}

// shardIndex maps an entity id deterministically to a worker index.
func (d *Dispatcher) shardIndex(entityID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(entityID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.AuditEntry) {
	defer d.wg.Done()
	label := strconv.Itoa(id)

	for entry := range ch {
		metrics.AuditQueueDepth.WithLabelValues(label).Set(float64(len(ch)))
		d.write(ctx, id, entry)
	}
}

func (d *Dispatcher) write(ctx context.Context, id int, entry domain.AuditEntry) {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	start := time.Now()
	err := d.repo.Insert(ctx, entry)
	result := "ok"
	if err != nil {
		result = "error"
		d.log.Error().Err(err).
			Str("entity", entry.Entity).
			Str("entity_id", entry.EntityID).
			Str("action", entry.Action).
			Int("worker_id", id).
			Msg("audit write failed")
	}
	metrics.AuditWriteDuration.WithLabelValues(result).Observe(time.Since(start).Seconds())
}
