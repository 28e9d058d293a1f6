package service

import (
	"strings"

	"github.com/octobees/outreach/api/internal/entity"
)

// ContactKey decides whether two contact records refer to the same person.
// The external person id is the primary key; the directory only returns a
// stable id for records whose email the account has already purchased, so
// the (first, last) name pair is the fallback for obfuscated results.
// Either PersonID is set, or the name fields are, never both.
type ContactKey struct {
	PersonID  string
	FirstName string
	LastName  string
}

// KeyOf resolves the identity key for a contact. Name comparison is
// case-folded; distinct people sharing a full name at one company collapse
// to a single key, an accepted limitation of the scheme.
func KeyOf(c entity.Contact) ContactKey {
	if c.PersonID != "" {
		return ContactKey{PersonID: c.PersonID}
	}
	return ContactKey{
		FirstName: strings.ToLower(strings.TrimSpace(c.FirstName)),
		LastName:  strings.ToLower(strings.TrimSpace(c.LastName)),
	}
}
