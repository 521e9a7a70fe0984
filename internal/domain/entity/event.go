package entity

import (
	"time"

	"github.com/google/uuid"
)

// Guest is an attendee on a scheduled event. The identifying fields are PII
// and land in the protected tier when the agenda is persisted.
type Guest struct {
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
}

// Event is an entry in the user's scheduling agenda. Events are local-only
// state; the remote API has no events resource.
type Event struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Date      time.Time `json:"date"`
	Notes     string    `json:"notes,omitempty"`
	Guests    []Guest   `json:"guests,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewEvent creates a scheduled event. A zero date defaults to now.
func NewEvent(title string, date time.Time, notes string, guests []Guest) *Event {
	now := time.Now().UTC()
	if date.IsZero() {
		date = now
	}
	return &Event{
		ID:        uuid.New().String(),
		Title:     title,
		Date:      date,
		Notes:     notes,
		Guests:    guests,
		CreatedAt: now,
	}
}
