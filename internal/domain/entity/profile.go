package entity

// Profile is the remote user profile. It is fetched best-effort on startup
// and used only for display; the agent keeps working without it.
type Profile struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Client represents a client of the user (a customer in the mobile app's
// clients screen). Every identifying field is PII and lands in the protected
// tier when the list is cached locally.
type Client struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	CPF   string `json:"cpf,omitempty"`
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
	Notes string `json:"notes,omitempty"`
}
