package directory

import "testing"

func TestPersonContact(t *testing.T) {
	person := Person{
		ID:                 "p1",
		FirstName:          "Ada",
		LastNameObfuscated: "L.",
		Title:              "Engineering Manager",
		City:               "London",
		Country:            "United Kingdom",
		Email:              "ada@acme.io",
		PersonalEmails:     []string{"ada@example.com", "ada2@example.com"},
		PhoneNumbers:       []PhoneNumber{{SanitizedNumber: "+442071838750"}},
		Organization:       &Organization{ID: "org-1", Name: "Acme", PrimaryDomain: "acme.io"},
	}

	contact := person.Contact("GB")

	if contact.LastName != "L." {
		t.Fatalf("expected obfuscated last name fallback, got %q", contact.LastName)
	}
	if contact.Company != "Acme" || contact.CompanyDomain != "acme.io" {
		t.Fatalf("organization fields not mapped: %+v", contact)
	}
	if contact.Location != "London, United Kingdom" {
		t.Fatalf("unexpected location %q", contact.Location)
	}
	if contact.PersonalEmail != "ada@example.com" {
		t.Fatalf("expected first personal email, got %q", contact.PersonalEmail)
	}
	if contact.Phone != "+442071838750" {
		t.Fatalf("expected E.164 phone, got %q", contact.Phone)
	}
	if !contact.Enriched() {
		t.Fatalf("contact with email should count as enriched")
	}
}

func TestSanitizePhone(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		region string
		want   string
	}{
		{"us number normalized", "(415) 555-2671", "US", "+14155552671"},
		{"already e164", "+14155552671", "US", "+14155552671"},
		{"unparseable kept raw", "ext. 1234", "US", "ext. 1234"},
		{"empty stays empty", "  ", "US", ""},
		{"empty region defaults", "(415) 555-2671", "", "+14155552671"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sanitizePhone(tt.raw, tt.region); got != tt.want {
				t.Fatalf("sanitizePhone(%q, %q) = %q, want %q", tt.raw, tt.region, got, tt.want)
			}
		})
	}
}
