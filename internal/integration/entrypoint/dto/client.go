package dto

import "github.com/finance-tracker/client/internal/domain/entity"

// ClientRequest is the request body for creating or updating a client.
type ClientRequest struct {
	Name  string `json:"name" binding:"required,min=1,max=255"`
	CPF   string `json:"cpf,omitempty" binding:"omitempty,max=14"`
	Phone string `json:"phone,omitempty" binding:"omitempty,max=32"`
	Email string `json:"email,omitempty" binding:"omitempty,email"`
	Notes string `json:"notes,omitempty" binding:"omitempty,max=1000"`
}

// ToEntity converts the request into a client entity.
func (r ClientRequest) ToEntity(id string) *entity.Client {
	return &entity.Client{
		ID:    id,
		Name:  r.Name,
		CPF:   r.CPF,
		Phone: r.Phone,
		Email: r.Email,
		Notes: r.Notes,
	}
}

// ClientResponse represents a client in API responses.
type ClientResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	CPF   string `json:"cpf,omitempty"`
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
	Notes string `json:"notes,omitempty"`
}

// ClientListResponse wraps the client directory listing.
type ClientListResponse struct {
	Clients []ClientResponse `json:"clients"`
	Total   int              `json:"total"`
}

// ToClientResponse converts a client entity to its API shape.
func ToClientResponse(client *entity.Client) ClientResponse {
	return ClientResponse{
		ID:    client.ID,
		Name:  client.Name,
		CPF:   client.CPF,
		Phone: client.Phone,
		Email: client.Email,
		Notes: client.Notes,
	}
}

// ToClientListResponse converts a client list to its API shape.
func ToClientListResponse(clients []*entity.Client) ClientListResponse {
	responses := make([]ClientResponse, 0, len(clients))
	for _, client := range clients {
		responses = append(responses, ToClientResponse(client))
	}
	return ClientListResponse{
		Clients: responses,
		Total:   len(responses),
	}
}
