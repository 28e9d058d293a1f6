package dto

import "github.com/octobees/outreach/api/internal/entity"

// DiscoverRequest asks for contacts at a company. Company may be a name,
// URL or bare domain; roles are tags from the role mapping table.
type DiscoverRequest struct {
	Company string   `json:"company"`
	Roles   []string `json:"roles"`
	Limit   int      `json:"limit"`
}

// DiscoverResponse is the merged contact set for a company.
type DiscoverResponse struct {
	Company         CompanyInfo      `json:"company"`
	Contacts        []entity.Contact `json:"contacts"`
	TotalPersisted  int              `json:"total_persisted"`
	NewThisSearch   int              `json:"new_this_search"`
	NeedsEnrichment int              `json:"needs_enrichment"`
	Cached          bool             `json:"cached"`
}

// CompanyInfo is the resolved identity of the target company.
type CompanyInfo struct {
	Domain         string  `json:"domain"`
	Name           string  `json:"name"`
	OrganizationID *string `json:"organization_id,omitempty"`
}
