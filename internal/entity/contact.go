package entity

import (
	"strings"
	"time"
)

// Contact is a person discovered at a company. Email, PersonalEmail and
// Phone are only present once paid enrichment has revealed them; the
// directory obfuscates them (and sometimes the person id) in free search
// results.
type Contact struct {
	PersonID      string     `json:"person_id,omitempty"`
	FirstName     string     `json:"first_name"`
	LastName      string     `json:"last_name"`
	Title         string     `json:"title,omitempty"`
	Company       string     `json:"company,omitempty"`
	CompanyDomain string     `json:"company_domain,omitempty"`
	Location      string     `json:"location,omitempty"`
	Seniority     string     `json:"seniority,omitempty"`
	Departments   []string   `json:"departments,omitempty"`
	LinkedInURL   string     `json:"linkedin_url,omitempty"`
	PhotoURL      string     `json:"photo_url,omitempty"`
	Headline      string     `json:"headline,omitempty"`
	Email         string     `json:"email,omitempty"`
	PersonalEmail string     `json:"personal_email,omitempty"`
	Phone         string     `json:"phone,omitempty"`
	EnrichedAt    *time.Time `json:"enriched_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at,omitempty"`
	UpdatedAt     time.Time  `json:"updated_at,omitempty"`
}

// Enriched reports whether the paid enrichment subset has been obtained.
// Having the primary email is the threshold.
func (c Contact) Enriched() bool {
	return c.Email != ""
}

// FullName joins the available name parts.
func (c Contact) FullName() string {
	parts := make([]string, 0, 2)
	if c.FirstName != "" {
		parts = append(parts, c.FirstName)
	}
	if c.LastName != "" {
		parts = append(parts, c.LastName)
	}
	return strings.Join(parts, " ")
}
