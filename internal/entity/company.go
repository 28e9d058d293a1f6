package entity

import (
	"time"

	"github.com/google/uuid"
)

// Company represents a business targeted for outreach. The normalized
// domain is the identity: it is set once on first resolution and never
// changes, while the display name may be refreshed by later lookups.
type Company struct {
	ID             uuid.UUID `json:"id"`
	Domain         string    `json:"domain"`
	Name           string    `json:"name"`
	OrganizationID *string   `json:"organization_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
