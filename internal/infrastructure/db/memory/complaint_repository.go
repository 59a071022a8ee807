package memory

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/complaintdesk/complaints-api/internal/core/domain"
)

type ComplaintRepository struct {
	t         *table[domain.Complaint]
	collation domain.Collation
	unique    bool
	now       func() time.Time
}

func NewComplaintRepository(collation domain.Collation, unique bool) *ComplaintRepository {
	return &ComplaintRepository{
		t:         newTable[domain.Complaint](),
		collation: collation.Normalize(),
		unique:    unique,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (r *ComplaintRepository) List(_ context.Context) ([]*domain.Complaint, error) {
	r.t.mu.RLock()
	defer r.t.mu.RUnlock()

	out := make([]*domain.Complaint, 0, len(r.t.order))
	for _, id := range r.t.order {
		c := r.t.rows[id]
		out = append(out, &c)
	}
	return out, nil
}

func (r *ComplaintRepository) FindByID(_ context.Context, id string) (*domain.Complaint, error) {
	r.t.mu.RLock()
	defer r.t.mu.RUnlock()

	c, ok := r.t.rows[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &c, nil
}

func (r *ComplaintRepository) FindByTitle(_ context.Context, title string) (*domain.Complaint, error) {
	r.t.mu.RLock()
	defer r.t.mu.RUnlock()

	if c := r.findByTitle(title, ""); c != nil {
		return c, nil
	}
	return nil, domain.ErrNotFound
}

func (r *ComplaintRepository) findByTitle(title, exceptID string) *domain.Complaint {
	for _, id := range r.t.order {
		if id == exceptID {
			continue
		}
		c := r.t.rows[id]
		if r.collation.Equal(c.Title, title) {
			return &c
		}
	}
	return nil
}

func (r *ComplaintRepository) Create(_ context.Context, complaint *domain.Complaint) (*domain.Complaint, error) {
	if _, err := primitive.ObjectIDFromHex(complaint.User); err != nil {
		return nil, domain.Validation("Invalid user id")
	}

	r.t.mu.Lock()
	defer r.t.mu.Unlock()

	if r.unique && r.findByTitle(complaint.Title, "") != nil {
		return nil, domain.ErrConflict
	}

	row := *complaint
	row.ID = newID()
	row.CreatedAt = r.now()
	row.UpdatedAt = row.CreatedAt
	r.t.rows[row.ID] = row
	r.t.order = append(r.t.order, row.ID)
	return &row, nil
}

func (r *ComplaintRepository) Update(_ context.Context, complaint *domain.Complaint) (*domain.Complaint, error) {
	if _, err := primitive.ObjectIDFromHex(complaint.User); err != nil {
		return nil, domain.Validation("Invalid user id")
	}

	r.t.mu.Lock()
	defer r.t.mu.Unlock()

	current, ok := r.t.rows[complaint.ID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if r.unique && r.findByTitle(complaint.Title, complaint.ID) != nil {
		return nil, domain.ErrConflict
	}

	row := *complaint
	row.CreatedAt = current.CreatedAt
	row.UpdatedAt = r.now()
	r.t.rows[row.ID] = row
	return &row, nil
}

func (r *ComplaintRepository) Delete(_ context.Context, id string) (*domain.Complaint, error) {
	r.t.mu.Lock()
	defer r.t.mu.Unlock()

	c, ok := r.t.rows[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	r.t.remove(id)
	return &c, nil
}
