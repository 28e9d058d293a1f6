package entity

import (
	"time"

	"github.com/google/uuid"
)

// SearchRecord is an immutable audit entry written once per discovery run.
type SearchRecord struct {
	ID            uuid.UUID `json:"id"`
	CompanyDomain string    `json:"company_domain"`
	Roles         []string  `json:"roles"`
	Limit         int       `json:"limit"`
	TotalFound    int       `json:"total_found"`
	CreatedAt     time.Time `json:"created_at"`
}
