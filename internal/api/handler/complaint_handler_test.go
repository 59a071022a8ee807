package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/complaintdesk/complaints-api/internal/core/domain"
	"github.com/complaintdesk/complaints-api/internal/core/ports"
)

type stubComplaintService struct {
	listFn   func(ctx context.Context) ([]ports.ComplaintView, error)
	createFn func(ctx context.Context, in ports.CreateComplaintInput) (*domain.Complaint, error)
	updateFn func(ctx context.Context, in ports.UpdateComplaintInput) (*domain.Complaint, error)
	deleteFn func(ctx context.Context, id string) (*domain.Complaint, error)
}

func (s *stubComplaintService) List(ctx context.Context) ([]ports.ComplaintView, error) {
	return s.listFn(ctx)
}

func (s *stubComplaintService) Create(ctx context.Context, in ports.CreateComplaintInput) (*domain.Complaint, error) {
	return s.createFn(ctx, in)
}

func (s *stubComplaintService) Update(ctx context.Context, in ports.UpdateComplaintInput) (*domain.Complaint, error) {
	return s.updateFn(ctx, in)
}

func (s *stubComplaintService) Delete(ctx context.Context, id string) (*domain.Complaint, error) {
	return s.deleteFn(ctx, id)
}

func TestComplaintHandler_List_FlattensUsername(t *testing.T) {
	stub := &stubComplaintService{
		listFn: func(ctx context.Context) ([]ports.ComplaintView, error) {
			return []ports.ComplaintView{{
				Complaint: &domain.Complaint{ID: "c1", User: "u1", Title: "Broken", Text: "x"},
				Username:  "alice",
			}}, nil
		},
	}
	c, rec := newJSONContext(http.MethodGet, "/complaints", "")
	if err := NewComplaintHandler(stub).List(c); err != nil {
		t.Fatalf("list: %v", err)
	}

	var out []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(out) != 1 || out[0]["title"] != "Broken" || out[0]["username"] != "alice" || out[0]["user"] != "u1" {
		t.Fatalf("unexpected payload: %+v", out)
	}
	if out[0]["completed"] != false {
		t.Fatalf("expected completed flag in payload")
	}
}

func TestComplaintHandler_List_IntegrityFailure(t *testing.T) {
	stub := &stubComplaintService{
		listFn: func(ctx context.Context) ([]ports.ComplaintView, error) {
			return nil, domain.Integrity("User with id u9 not found")
		},
	}
	c, rec := newJSONContext(http.MethodGet, "/complaints", "")
	if err := NewComplaintHandler(stub).List(c); !errors.Is(err, domain.ErrIntegrity) {
		t.Fatalf("expected ErrIntegrity, got %v", err)
	}
	if rec.Body.Len() != 0 {
		t.Fatalf("no partial listing may be written")
	}
}

func TestComplaintHandler_Create(t *testing.T) {
	stub := &stubComplaintService{
		createFn: func(ctx context.Context, in ports.CreateComplaintInput) (*domain.Complaint, error) {
			if in.User != "u1" || in.Title != "Broken" || in.Text != "x" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &domain.Complaint{ID: "c1", Title: in.Title}, nil
		},
	}
	c, rec := newJSONContext(http.MethodPost, "/complaints", `{"user":"u1","title":"Broken","text":"x"}`)
	if err := NewComplaintHandler(stub).Create(c); err != nil {
		t.Fatalf("create: %v", err)
	}
	if rec.Code != http.StatusCreated || decodeMessage(t, rec) != "New complaint created" {
		t.Fatalf("unexpected response %d %s", rec.Code, rec.Body.String())
	}
}

func TestComplaintHandler_Update(t *testing.T) {
	stub := &stubComplaintService{
		updateFn: func(ctx context.Context, in ports.UpdateComplaintInput) (*domain.Complaint, error) {
			if in.Completed == nil || !*in.Completed {
				t.Fatalf("expected completed=true, got %+v", in.Completed)
			}
			return &domain.Complaint{ID: in.ID, Title: in.Title}, nil
		},
	}
	c, rec := newJSONContext(http.MethodPatch, "/complaints", `{"id":"c1","user":"u1","title":"Broken","text":"x","completed":true}`)
	if err := NewComplaintHandler(stub).Update(c); err != nil {
		t.Fatalf("update: %v", err)
	}
	if decodeMessage(t, rec) != "'Broken' updated" {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestComplaintHandler_Delete(t *testing.T) {
	stub := &stubComplaintService{
		deleteFn: func(ctx context.Context, id string) (*domain.Complaint, error) {
			if id == "" {
				return nil, domain.Validation("Complaint ID required")
			}
			return &domain.Complaint{ID: id, Title: "Broken"}, nil
		},
	}

	c, _ := newJSONContext(http.MethodDelete, "/complaints", `{}`)
	if err := NewComplaintHandler(stub).Delete(c); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}

	c, rec := newJSONContext(http.MethodDelete, "/complaints", `{"id":"c1"}`)
	if err := NewComplaintHandler(stub).Delete(c); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if decodeMessage(t, rec) != "Complaint 'Broken' with ID c1 deleted" {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}
