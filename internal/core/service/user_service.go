package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/complaintdesk/complaints-api/internal/core/domain"
	"github.com/complaintdesk/complaints-api/internal/core/ports"
)

// DefaultBcryptCost is the salt-round count used when none is configured.
const DefaultBcryptCost = 10

// UserServiceConfig is applied once, at construction.
type UserServiceConfig struct {
	BcryptCost int
	Defaults   domain.UserDefaults
}

// UserService implements the uniqueness-checked write path for users.
type UserService struct {
	repo     ports.UserRepository
	audit    ports.AuditSink
	cost     int
	defaults domain.UserDefaults
	logger   zerolog.Logger
}

func NewUserService(repo ports.UserRepository, audit ports.AuditSink, cfg UserServiceConfig, logger zerolog.Logger) *UserService {
	cost := cfg.BcryptCost
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	return &UserService{
		repo:     repo,
		audit:    audit,
		cost:     cost,
		defaults: cfg.Defaults.Normalize(),
		logger:   logger,
	}
}

// List returns every user. An empty collection is reported as not found.
func (s *UserService) List(ctx context.Context) (users []*domain.User, err error) {
	defer func() { observeListing(domain.EntityUser, err) }()

	users, err = s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	if len(users) == 0 {
		return nil, domain.NotFound("No users found")
	}
	return users, nil
}

// Create hashes the password and inserts the user unless the username is
// already taken under the store's collation.
func (s *UserService) Create(ctx context.Context, in ports.CreateUserInput) (user *domain.User, err error) {
	defer func() { observeWrite(domain.EntityUser, domain.ActionCreate, err) }()

	username := strings.TrimSpace(in.Username)
	if username == "" || in.Password == "" {
		return nil, domain.Validation("All fields are required")
	}

	if err := s.ensureUniqueUsername(ctx, username, ""); err != nil {
		return nil, err
	}

	hash, err := s.hash(in.Password)
	if err != nil {
		return nil, err
	}

	roles := domain.CleanRoles(in.Roles)
	if len(roles) == 0 {
		roles = append([]string(nil), s.defaults.Roles...)
	}

	created, err := s.repo.Create(ctx, &domain.User{
		Username:     username,
		PasswordHash: hash,
		Roles:        roles,
		Active:       s.defaults.Active,
	})
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, domain.Conflict("Duplicate username")
		}
		s.logger.Error().Err(err).Str("username", username).Msg("failed to create user")
		return nil, fmt.Errorf("create user: %w", err)
	}

	recordAudit(ctx, s.audit, domain.EntityUser, created.ID, domain.ActionCreate)
	s.logger.Info().Str("user_id", created.ID).Str("username", created.Username).Msg("user created")
	return created, nil
}

// Update overwrites username, roles and active flag. The password is replaced
// only when a new one is supplied. Renaming a user to its own current
// username is not a conflict.
func (s *UserService) Update(ctx context.Context, in ports.UpdateUserInput) (user *domain.User, err error) {
	defer func() { observeWrite(domain.EntityUser, domain.ActionUpdate, err) }()

	id := strings.TrimSpace(in.ID)
	username := strings.TrimSpace(in.Username)
	roles := domain.CleanRoles(in.Roles)
	if id == "" || username == "" || len(roles) == 0 || in.Active == nil {
		return nil, domain.Validation("All fields except password are required")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NotFound("User not found")
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if err := s.ensureUniqueUsername(ctx, username, existing.ID); err != nil {
		return nil, err
	}

	existing.Username = username
	existing.Roles = roles
	existing.Active = *in.Active
	if in.Password != "" {
		hash, err := s.hash(in.Password)
		if err != nil {
			return nil, err
		}
		existing.PasswordHash = hash
	}

	updated, err := s.repo.Update(ctx, existing)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return nil, domain.NotFound("User not found")
		case errors.Is(err, domain.ErrConflict):
			return nil, domain.Conflict("Duplicate username")
		}
		return nil, fmt.Errorf("update user: %w", err)
	}

	recordAudit(ctx, s.audit, domain.EntityUser, updated.ID, domain.ActionUpdate)
	s.logger.Info().Str("user_id", updated.ID).Str("username", updated.Username).Msg("user updated")
	return updated, nil
}

// Delete removes the user. Complaints filed by the user are left in place.
func (s *UserService) Delete(ctx context.Context, id string) (user *domain.User, err error) {
	defer func() { observeWrite(domain.EntityUser, domain.ActionDelete, err) }()

	id = strings.TrimSpace(id)
	if id == "" {
		return nil, domain.Validation("User ID required")
	}

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NotFound("User not found")
		}
		return nil, fmt.Errorf("delete user: %w", err)
	}

	recordAudit(ctx, s.audit, domain.EntityUser, deleted.ID, domain.ActionDelete)
	s.logger.Info().Str("user_id", deleted.ID).Str("username", deleted.Username).Msg("user deleted")
	return deleted, nil
}

// ensureUniqueUsername fails with a conflict when another user (any id other
// than selfID) already holds username under the collation.
func (s *UserService) ensureUniqueUsername(ctx context.Context, username, selfID string) error {
	dup, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("check duplicate username: %w", err)
	}
	if dup.ID != selfID {
		return domain.Conflict("Duplicate username")
	}
	return nil
}

func (s *UserService) hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", domain.Validation("Password must be at most 72 bytes")
		}
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
