package dto

import (
	"time"

	"github.com/finance-tracker/client/internal/domain/entity"
)

// GuestRequest is an attendee on an event request body.
type GuestRequest struct {
	Name  string `json:"name" binding:"required,min=1,max=255"`
	Phone string `json:"phone,omitempty" binding:"omitempty,max=32"`
}

// EventRequest is the request body for scheduling an event.
type EventRequest struct {
	Title  string         `json:"title" binding:"required,min=1,max=255"`
	Date   time.Time      `json:"date,omitempty"`
	Notes  string         `json:"notes,omitempty" binding:"omitempty,max=1000"`
	Guests []GuestRequest `json:"guests,omitempty" binding:"omitempty,dive"`
}

// ToEntity converts the request into an event entity.
func (r EventRequest) ToEntity() *entity.Event {
	guests := make([]entity.Guest, 0, len(r.Guests))
	for _, guest := range r.Guests {
		guests = append(guests, entity.Guest{Name: guest.Name, Phone: guest.Phone})
	}
	if len(guests) == 0 {
		guests = nil
	}
	return entity.NewEvent(r.Title, r.Date, r.Notes, guests)
}

// GuestResponse represents an event attendee in API responses.
type GuestResponse struct {
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
}

// EventResponse represents a scheduled event in API responses.
type EventResponse struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Date      time.Time       `json:"date"`
	Notes     string          `json:"notes,omitempty"`
	Guests    []GuestResponse `json:"guests,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}

// EventListResponse wraps the agenda listing.
type EventListResponse struct {
	Events []EventResponse `json:"events"`
	Total  int             `json:"total"`
}

// ToEventResponse converts an event entity to its API shape.
func ToEventResponse(event *entity.Event) EventResponse {
	var guests []GuestResponse
	for _, guest := range event.Guests {
		guests = append(guests, GuestResponse{Name: guest.Name, Phone: guest.Phone})
	}
	return EventResponse{
		ID:        event.ID,
		Title:     event.Title,
		Date:      event.Date,
		Notes:     event.Notes,
		Guests:    guests,
		CreatedAt: event.CreatedAt,
	}
}

// ToEventListResponse converts the agenda to its API shape.
func ToEventListResponse(events []*entity.Event) EventListResponse {
	responses := make([]EventResponse, 0, len(events))
	for _, event := range events {
		responses = append(responses, ToEventResponse(event))
	}
	return EventListResponse{
		Events: responses,
		Total:  len(responses),
	}
}
