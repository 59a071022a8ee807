package ports

import (
	"context"

	"github.com/complaintdesk/complaints-api/internal/core/domain"
)

// CreateComplaintInput carries the fields accepted when creating a complaint.
type CreateComplaintInput struct {
	User  string
	Title string
	Text  string
}

// UpdateComplaintInput replaces every field of an existing complaint.
type UpdateComplaintInput struct {
	ID        string
	User      string
	Title     string
	Text      string
	Completed *bool
}

// ComplaintView is a complaint with its owner's username attached.
type ComplaintView struct {
	*domain.Complaint
	Username string `json:"username"`
}

// ComplaintService defines the use cases for complaints.
type ComplaintService interface {
	List(ctx context.Context) ([]ComplaintView, error)
	Create(ctx context.Context, input CreateComplaintInput) (*domain.Complaint, error)
	Update(ctx context.Context, input UpdateComplaintInput) (*domain.Complaint, error)
	Delete(ctx context.Context, id string) (*domain.Complaint, error)
}
