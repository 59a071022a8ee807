package domain

import "time"

// Complaint is a ticket filed against a user. User holds the owning user's id;
// the store does not enforce that it resolves.
type Complaint struct {
	ID        string    `json:"id"`
	User      string    `json:"user"`
	Title     string    `json:"title"`
	Text      string    `json:"text"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
