package directory

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/net/idna"
)

// CompanyInfo is the canonical identity a user-supplied company input
// resolves to. Domain is the partition key everywhere downstream.
type CompanyInfo struct {
	Domain         string
	Name           string
	OrganizationID *string
}

var domainPattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9-]{0,61}[a-zA-Z0-9]?\.[a-zA-Z]{2,}$`)

// ResolveCompany turns free text, a URL or a bare domain into company
// info. Name input goes through the organization search; domain input is
// also looked up so people searches can use the more reliable organization
// id, falling back to the domain alone when the lookup fails.
func (c *Client) ResolveCompany(ctx context.Context, input string) (CompanyInfo, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return CompanyInfo{}, fmt.Errorf("company input must not be empty")
	}

	switch {
	case isURL(input):
		domain := domainFromURL(input)
		if domain == "" {
			return CompanyInfo{}, fmt.Errorf("could not extract a domain from %q", input)
		}
		return CompanyInfo{Domain: domain, Name: nameFromDomain(domain)}, nil

	case isDomain(input):
		domain := normalizeDomain(input)
		if info, err := c.lookupOrganization(ctx, domain); err == nil {
			return info, nil
		} else {
			log.Printf("organization lookup for %s failed, using domain directly: %v", domain, err)
		}
		return CompanyInfo{Domain: domain, Name: nameFromDomain(domain)}, nil

	default:
		info, err := c.lookupOrganization(ctx, input)
		if err != nil {
			return CompanyInfo{}, fmt.Errorf("could not find company %q, try providing its domain instead: %w", input, err)
		}
		return info, nil
	}
}

func (c *Client) lookupOrganization(ctx context.Context, query string) (CompanyInfo, error) {
	orgs, err := c.SearchOrganizations(ctx, query)
	if err != nil {
		return CompanyInfo{}, err
	}
	if len(orgs) == 0 {
		return CompanyInfo{}, ErrNotFound
	}

	top := orgs[0]
	domain := top.PrimaryDomain
	if domain == "" {
		domain = top.WebsiteURL
	}
	if domain != "" {
		domain = domainFromURL(domain)
	}
	if domain == "" {
		return CompanyInfo{}, fmt.Errorf("organization %q has no usable domain", top.Name)
	}

	name := top.Name
	if name == "" {
		name = query
	}
	info := CompanyInfo{Domain: domain, Name: name}
	if top.ID != "" {
		id := top.ID
		info.OrganizationID = &id
	}
	return info, nil
}

func isURL(text string) bool {
	return strings.HasPrefix(text, "http://") ||
		strings.HasPrefix(text, "https://") ||
		strings.HasPrefix(text, "www.")
}

func isDomain(text string) bool {
	if domainPattern.MatchString(text) {
		return true
	}
	if !strings.Contains(text, ".") || strings.Contains(text, " ") {
		return false
	}
	parts := strings.Split(text, ".")
	return len(parts[len(parts)-1]) >= 2
}

func domainFromURL(raw string) string {
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		raw = "https://" + raw
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	host := parsed.Hostname()
	if host == "" {
		host = strings.Trim(parsed.Path, "/")
	}
	return normalizeDomain(host)
}

// normalizeDomain lowercases, strips the www prefix, and converts
// internationalized names to their ASCII form so the domain is a stable
// partition key.
func normalizeDomain(domain string) string {
	domain = strings.ToLower(strings.TrimSpace(domain))
	domain = strings.TrimPrefix(domain, "www.")
	if ascii, err := idna.Lookup.ToASCII(domain); err == nil {
		domain = ascii
	}
	return domain
}

func nameFromDomain(domain string) string {
	name := strings.SplitN(domain, ".", 2)[0]
	name = strings.NewReplacer("-", " ", "_", " ").Replace(name)
	words := strings.Fields(name)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
