package ports

import (
	"context"

	"github.com/complaintdesk/complaints-api/internal/core/domain"
)

// ComplaintRepository defines persistence operations for complaints.
type ComplaintRepository interface {
	List(ctx context.Context) ([]*domain.Complaint, error)
	FindByID(ctx context.Context, id string) (*domain.Complaint, error)
	// FindByTitle looks the title up under the store's collation.
	FindByTitle(ctx context.Context, title string) (*domain.Complaint, error)
	Create(ctx context.Context, complaint *domain.Complaint) (*domain.Complaint, error)
	Update(ctx context.Context, complaint *domain.Complaint) (*domain.Complaint, error)
	Delete(ctx context.Context, id string) (*domain.Complaint, error)
}
