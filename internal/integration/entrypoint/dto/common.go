package dto

import (
	"time"

	"github.com/finance-tracker/client/internal/application/usecase/syncengine"
	"github.com/finance-tracker/client/internal/domain/entity"
)

// ErrorResponse represents an error response body.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// SyncStatusResponse reports the sync engine's state.
type SyncStatusResponse struct {
	Syncing    bool   `json:"syncing"`
	LastSyncAt string `json:"lastSyncAt,omitempty"`
	LastError  string `json:"lastError,omitempty"`
	Pending    int    `json:"pending"`
}

// ToSyncStatusResponse converts an engine status to its API shape.
func ToSyncStatusResponse(status syncengine.Status) SyncStatusResponse {
	response := SyncStatusResponse{
		Syncing:   status.Syncing,
		LastError: status.LastError,
		Pending:   status.Pending,
	}
	if !status.LastSyncAt.IsZero() {
		response.LastSyncAt = status.LastSyncAt.Format(time.RFC3339)
	}
	return response
}

// ProfileResponse represents the cached user profile.
type ProfileResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ToProfileResponse converts a profile entity to its API shape.
func ToProfileResponse(profile *entity.Profile) ProfileResponse {
	return ProfileResponse{
		ID:    profile.ID,
		Name:  profile.Name,
		Email: profile.Email,
	}
}
