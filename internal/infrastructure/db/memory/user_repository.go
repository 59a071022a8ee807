package memory

import (
	"context"

	"github.com/complaintdesk/complaints-api/internal/core/domain"
)

type UserRepository struct {
	t         *table[domain.User]
	collation domain.Collation
	unique    bool
}

func NewUserRepository(collation domain.Collation, unique bool) *UserRepository {
	return &UserRepository{t: newTable[domain.User](), collation: collation.Normalize(), unique: unique}
}

func cloneUser(u domain.User) *domain.User {
	u.Roles = append([]string(nil), u.Roles...)
	return &u
}

func (r *UserRepository) List(_ context.Context) ([]*domain.User, error) {
	r.t.mu.RLock()
	defer r.t.mu.RUnlock()

	out := make([]*domain.User, 0, len(r.t.order))
	for _, id := range r.t.order {
		out = append(out, cloneUser(r.t.rows[id]))
	}
	return out, nil
}

func (r *UserRepository) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.t.mu.RLock()
	defer r.t.mu.RUnlock()

	u, ok := r.t.rows[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneUser(u), nil
}

func (r *UserRepository) FindByIDs(_ context.Context, ids []string) (map[string]*domain.User, error) {
	r.t.mu.RLock()
	defer r.t.mu.RUnlock()

	out := make(map[string]*domain.User, len(ids))
	for _, id := range ids {
		if u, ok := r.t.rows[id]; ok {
			out[id] = cloneUser(u)
		}
	}
	return out, nil
}

func (r *UserRepository) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	r.t.mu.RLock()
	defer r.t.mu.RUnlock()

	if u := r.findByUsername(username, ""); u != nil {
		return cloneUser(*u), nil
	}
	return nil, domain.ErrNotFound
}

// findByUsername returns the first user other than exceptID whose username
// equals username under the collation. Callers hold the lock.
func (r *UserRepository) findByUsername(username, exceptID string) *domain.User {
	for _, id := range r.t.order {
		if id == exceptID {
			continue
		}
		u := r.t.rows[id]
		if r.collation.Equal(u.Username, username) {
			return &u
		}
	}
	return nil
}

func (r *UserRepository) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.t.mu.Lock()
	defer r.t.mu.Unlock()

	if r.unique && r.findByUsername(user.Username, "") != nil {
		return nil, domain.ErrConflict
	}

	row := *cloneUser(*user)
	row.ID = newID()
	r.t.rows[row.ID] = row
	r.t.order = append(r.t.order, row.ID)
	return cloneUser(row), nil
}

func (r *UserRepository) Update(_ context.Context, user *domain.User) (*domain.User, error) {
	r.t.mu.Lock()
	defer r.t.mu.Unlock()

	if _, ok := r.t.rows[user.ID]; !ok {
		return nil, domain.ErrNotFound
	}
	if r.unique && r.findByUsername(user.Username, user.ID) != nil {
		return nil, domain.ErrConflict
	}

	r.t.rows[user.ID] = *cloneUser(*user)
	return cloneUser(*user), nil
}

func (r *UserRepository) Delete(_ context.Context, id string) (*domain.User, error) {
	r.t.mu.Lock()
	defer r.t.mu.Unlock()

	u, ok := r.t.rows[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	r.t.remove(id)
	return cloneUser(u), nil
}
