package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/complaintdesk/complaints-api/internal/core/domain"
	"github.com/complaintdesk/complaints-api/internal/core/ports"
)

// ComplaintService implements the uniqueness-checked write path for
// complaints and the listing that attaches each owner's username.
type ComplaintService struct {
	complaints ports.ComplaintRepository
	users      ports.UserRepository
	audit      ports.AuditSink
	logger     zerolog.Logger
}

func NewComplaintService(complaints ports.ComplaintRepository, users ports.UserRepository, audit ports.AuditSink, logger zerolog.Logger) *ComplaintService {
	return &ComplaintService{
		complaints: complaints,
		users:      users,
		audit:      audit,
		logger:     logger,
	}
}

// List returns every complaint with its owner's username. The owners are
// resolved in a single batch lookup; if any of them is missing, or has no
// username, the whole listing fails.
func (s *ComplaintService) List(ctx context.Context) (views []ports.ComplaintView, err error) {
	defer func() { observeListing(domain.EntityComplaint, err) }()

	complaints, err := s.complaints.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list complaints: %w", err)
	}
	if len(complaints) == 0 {
		return nil, domain.NotFound("No complaints found")
	}

	owners, err := s.users.FindByIDs(ctx, distinctOwners(complaints))
	if err != nil {
		return nil, fmt.Errorf("resolve complaint owners: %w", err)
	}

	views = make([]ports.ComplaintView, 0, len(complaints))
	for _, c := range complaints {
		owner, ok := owners[c.User]
		if !ok || owner == nil {
			s.logger.Error().Str("complaint_id", c.ID).Str("user_id", c.User).Msg("complaint owner not found")
			return nil, domain.Integrity("User with id %s not found", c.User)
		}
		if owner.Username == "" {
			s.logger.Error().Str("complaint_id", c.ID).Str("user_id", owner.ID).Msg("complaint owner has no username")
			return nil, domain.Integrity("Username not defined for user with id %s", owner.ID)
		}
		views = append(views, ports.ComplaintView{Complaint: c, Username: owner.Username})
	}
	return views, nil
}

// Create inserts the complaint unless its title is already taken under the
// store's collation. The user reference is stored as given.
func (s *ComplaintService) Create(ctx context.Context, in ports.CreateComplaintInput) (complaint *domain.Complaint, err error) {
	defer func() { observeWrite(domain.EntityComplaint, domain.ActionCreate, err) }()

	user := strings.TrimSpace(in.User)
	title := strings.TrimSpace(in.Title)
	if user == "" || title == "" || strings.TrimSpace(in.Text) == "" {
		return nil, domain.Validation("All fields are required")
	}

	if err := s.ensureUniqueTitle(ctx, title, ""); err != nil {
		return nil, err
	}

	created, err := s.complaints.Create(ctx, &domain.Complaint{
		User:  user,
		Title: title,
		Text:  in.Text,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrConflict):
			return nil, domain.Conflict("Duplicate complaint title")
		case errors.Is(err, domain.ErrValidation):
			return nil, err
		}
		s.logger.Error().Err(err).Str("title", title).Msg("failed to create complaint")
		return nil, fmt.Errorf("create complaint: %w", err)
	}

	recordAudit(ctx, s.audit, domain.EntityComplaint, created.ID, domain.ActionCreate)
	s.logger.Info().Str("complaint_id", created.ID).Str("user_id", created.User).Msg("complaint created")
	return created, nil
}

// Update overwrites user, title, text and completed flag. Keeping the current
// title (in any letter case) is not a conflict.
func (s *ComplaintService) Update(ctx context.Context, in ports.UpdateComplaintInput) (complaint *domain.Complaint, err error) {
	defer func() { observeWrite(domain.EntityComplaint, domain.ActionUpdate, err) }()

	id := strings.TrimSpace(in.ID)
	user := strings.TrimSpace(in.User)
	title := strings.TrimSpace(in.Title)
	if id == "" || user == "" || title == "" || strings.TrimSpace(in.Text) == "" || in.Completed == nil {
		return nil, domain.Validation("All fields are required")
	}

	existing, err := s.complaints.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NotFound("Complaint not found")
		}
		return nil, fmt.Errorf("find complaint: %w", err)
	}

	if err := s.ensureUniqueTitle(ctx, title, existing.ID); err != nil {
		return nil, err
	}

	existing.User = user
	existing.Title = title
	existing.Text = in.Text
	existing.Completed = *in.Completed

	updated, err := s.complaints.Update(ctx, existing)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return nil, domain.NotFound("Complaint not found")
		case errors.Is(err, domain.ErrConflict):
			return nil, domain.Conflict("Duplicate complaint title")
		case errors.Is(err, domain.ErrValidation):
			return nil, err
		}
		return nil, fmt.Errorf("update complaint: %w", err)
	}

	recordAudit(ctx, s.audit, domain.EntityComplaint, updated.ID, domain.ActionUpdate)
	s.logger.Info().Str("complaint_id", updated.ID).Msg("complaint updated")
	return updated, nil
}

// Delete removes the complaint.
func (s *ComplaintService) Delete(ctx context.Context, id string) (complaint *domain.Complaint, err error) {
	defer func() { observeWrite(domain.EntityComplaint, domain.ActionDelete, err) }()

	id = strings.TrimSpace(id)
	if id == "" {
		return nil, domain.Validation("Complaint ID required")
	}

	deleted, err := s.complaints.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NotFound("Complaint not found")
		}
		return nil, fmt.Errorf("delete complaint: %w", err)
	}

	recordAudit(ctx, s.audit, domain.EntityComplaint, deleted.ID, domain.ActionDelete)
	s.logger.Info().Str("complaint_id", deleted.ID).Msg("complaint deleted")
	return deleted, nil
}

func (s *ComplaintService) ensureUniqueTitle(ctx context.Context, title, selfID string) error {
	dup, err := s.complaints.FindByTitle(ctx, title)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("check duplicate title: %w", err)
	}
	if dup.ID != selfID {
		return domain.Conflict("Duplicate complaint title")
	}
	return nil
}

// distinctOwners returns each referenced user id once, in first-seen order.
func distinctOwners(complaints []*domain.Complaint) []string {
	seen := make(map[string]struct{}, len(complaints))
	ids := make([]string, 0, len(complaints))
	for _, c := range complaints {
		if _, ok := seen[c.User]; ok {
			continue
		}
		seen[c.User] = struct{}{}
		ids = append(ids, c.User)
	}
	return ids
}
