package directory

import (
	"strings"

	"github.com/nyaruka/phonenumbers"

	"github.com/octobees/outreach/api/internal/entity"
)

// Person is the wire representation of a directory search or match result.
// Free search results may omit the id and obfuscate the last name; email
// and phone fields appear only for records the account has paid for.
type Person struct {
	ID                 string        `json:"id"`
	FirstName          string        `json:"first_name"`
	LastName           string        `json:"last_name"`
	LastNameObfuscated string        `json:"last_name_obfuscated"`
	Name               string        `json:"name"`
	Title              string        `json:"title"`
	Seniority          string        `json:"seniority"`
	Departments        []string      `json:"departments"`
	City               string        `json:"city"`
	State              string        `json:"state"`
	Country            string        `json:"country"`
	LinkedInURL        string        `json:"linkedin_url"`
	PhotoURL           string        `json:"photo_url"`
	Headline           string        `json:"headline"`
	Email              string        `json:"email"`
	PersonalEmails     []string      `json:"personal_emails"`
	PhoneNumbers       []PhoneNumber `json:"phone_numbers"`
	Organization       *Organization `json:"organization"`
	OrganizationName   string        `json:"organization_name"`
	HasEmail           bool          `json:"has_email"`
}

// PhoneNumber carries both the sanitized and raw form of a number.
type PhoneNumber struct {
	SanitizedNumber string `json:"sanitized_number"`
	RawNumber       string `json:"raw_number"`
}

// Organization identifies a company in directory responses.
type Organization struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	PrimaryDomain string `json:"primary_domain"`
	WebsiteURL    string `json:"website_url"`
}

// Pagination mirrors the API's page bookkeeping.
type Pagination struct {
	Page         int `json:"page"`
	PerPage      int `json:"per_page"`
	TotalEntries int `json:"total_entries"`
	TotalPages   int `json:"total_pages"`
}

// PageResult is one page of people search results.
type PageResult struct {
	People     []Person   `json:"people"`
	Pagination Pagination `json:"pagination"`
}

// Contact converts a wire person into the domain contact shape,
// normalizing name parts, location and phone.
func (p Person) Contact(defaultRegion string) entity.Contact {
	lastName := p.LastName
	if lastName == "" {
		lastName = p.LastNameObfuscated
	}

	company := p.OrganizationName
	domain := ""
	if p.Organization != nil {
		if p.Organization.Name != "" {
			company = p.Organization.Name
		}
		domain = p.Organization.PrimaryDomain
	}

	contact := entity.Contact{
		PersonID:      p.ID,
		FirstName:     p.FirstName,
		LastName:      lastName,
		Title:         p.Title,
		Company:       company,
		CompanyDomain: domain,
		Location:      p.location(),
		Seniority:     p.Seniority,
		Departments:   p.Departments,
		LinkedInURL:   p.LinkedInURL,
		PhotoURL:      p.PhotoURL,
		Headline:      p.Headline,
		Email:         p.Email,
	}
	if len(p.PersonalEmails) > 0 {
		contact.PersonalEmail = p.PersonalEmails[0]
	}
	if phone := p.phone(defaultRegion); phone != "" {
		contact.Phone = phone
	}
	return contact
}

func (p Person) location() string {
	parts := make([]string, 0, 2)
	if p.City != "" {
		parts = append(parts, p.City)
	}
	if p.State != "" {
		parts = append(parts, p.State)
	} else if p.Country != "" && p.Country != p.City {
		parts = append(parts, p.Country)
	}
	return strings.Join(parts, ", ")
}

func (p Person) phone(defaultRegion string) string {
	if len(p.PhoneNumbers) == 0 {
		return ""
	}
	raw := p.PhoneNumbers[0].SanitizedNumber
	if raw == "" {
		raw = p.PhoneNumbers[0].RawNumber
	}
	return sanitizePhone(raw, defaultRegion)
}

// sanitizePhone normalizes to E.164 when the number parses; otherwise the
// raw value is kept rather than dropped.
func sanitizePhone(raw, region string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if region == "" {
		region = "US"
	}
	number, err := phonenumbers.Parse(raw, region)
	if err != nil || !phonenumbers.IsValidNumber(number) {
		return raw
	}
	return phonenumbers.Format(number, phonenumbers.E164)
}
