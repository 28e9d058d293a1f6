package directory

import (
	"sort"
	"strings"
)

// RoleMapping translates a caller-facing role tag into the directory's
// title and seniority vocabulary.
type RoleMapping struct {
	Titles      []string
	Seniorities []string
}

var roleMappings = map[string]RoleMapping{
	"recruiter": {
		Titles: []string{
			"Recruiter",
			"Technical Recruiter",
			"HR Manager",
			"Talent Acquisition",
			"Talent Acquisition Manager",
			"Recruiting Manager",
			"Head of Recruiting",
			"Hiring Manager",
		},
		Seniorities: []string{"manager", "head", "senior"},
	},
	"engineering_manager": {
		Titles: []string{
			"Engineering Manager",
			"Software Engineering Manager",
			"Team Lead",
			"Engineering Lead",
			"Development Manager",
			"Tech Lead",
		},
		Seniorities: []string{"manager", "head", "director"},
	},
	"cto": {
		Titles: []string{
			"CTO",
			"Chief Technology Officer",
			"VP Engineering",
			"VP of Engineering",
			"Vice President of Engineering",
			"Head of Engineering",
			"Chief Technical Officer",
		},
		Seniorities: []string{"c_suite", "vp", "head"},
	},
}

// KnownRoles returns the supported role tags in stable order.
func KnownRoles() []string {
	roles := make([]string, 0, len(roleMappings))
	for role := range roleMappings {
		roles = append(roles, role)
	}
	sort.Strings(roles)
	return roles
}

// RoleFilters unions the titles and seniorities of the requested role tags
// for query construction. Seniorities come back nil when no tag contributes
// one, so the remote query is not over-constrained.
func RoleFilters(roles []string) (titles, seniorities []string) {
	seen := make(map[string]bool)
	for _, role := range roles {
		mapping, ok := roleMappings[strings.ToLower(role)]
		if !ok {
			continue
		}
		titles = append(titles, mapping.Titles...)
		for _, s := range mapping.Seniorities {
			if !seen[s] {
				seen[s] = true
				seniorities = append(seniorities, s)
			}
		}
	}
	return titles, seniorities
}

// MatchesRole re-evaluates a free-text title against the requested role
// tags without a remote call: a case-insensitive substring hit on any
// canonical title, or on the tag itself, counts. An empty role list matches
// everything.
func MatchesRole(title string, roles []string) bool {
	if len(roles) == 0 {
		return true
	}
	lowered := strings.ToLower(title)
	for _, role := range roles {
		tag := strings.ToLower(role)
		if tag != "" && strings.Contains(lowered, strings.ReplaceAll(tag, "_", " ")) {
			return true
		}
		mapping, ok := roleMappings[tag]
		if !ok {
			continue
		}
		for _, canonical := range mapping.Titles {
			if strings.Contains(lowered, strings.ToLower(canonical)) {
				return true
			}
		}
	}
	return false
}
