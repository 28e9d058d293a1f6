package dto

import "github.com/octobees/outreach/api/internal/entity"

// DraftRequest asks for an outreach email draft for one contact.
type DraftRequest struct {
	Contact     entity.Contact `json:"contact"`
	UserContext string         `json:"user_context"`
	JobLink     string         `json:"job_link"`
}

// DraftResponse is a generated email draft.
type DraftResponse struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}
