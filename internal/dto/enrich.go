package dto

import "github.com/octobees/outreach/api/internal/entity"

// EnrichRequest asks to reveal emails for contacts at a company. When
// Contacts is empty every unenriched contact in the snapshot is attempted.
type EnrichRequest struct {
	CompanyDomain string           `json:"company_domain"`
	Contacts      []entity.Contact `json:"contacts"`
}

// EnrichResponse reports the contacts after the enrichment pass.
type EnrichResponse struct {
	Contacts      []entity.Contact `json:"contacts"`
	TotalEnriched int              `json:"total_enriched"`
}
