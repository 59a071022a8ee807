package ports

import (
	"context"

	"github.com/complaintdesk/complaints-api/internal/core/domain"
)

// CreateUserInput carries the fields accepted when creating a user.
// Roles is optional; the configured defaults apply when it is empty.
type CreateUserInput struct {
	Username string
	Password string
	Roles    []string
}

// UpdateUserInput replaces every field of an existing user. Active is a pointer
// so that "not supplied" can be told apart from false. Password is optional.
type UpdateUserInput struct {
	ID       string
	Username string
	Roles    []string
	Active   *bool
	Password string
}

// UserService defines the use cases for users.
type UserService interface {
	List(ctx context.Context) ([]*domain.User, error)
	Create(ctx context.Context, input CreateUserInput) (*domain.User, error)
	Update(ctx context.Context, input UpdateUserInput) (*domain.User, error)
	Delete(ctx context.Context, id string) (*domain.User, error)
}
