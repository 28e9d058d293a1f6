package service

import "github.com/octobees/outreach/api/internal/entity"

// ReconcileResult is the outcome of merging a fresh candidate batch
// against the cached snapshot for a company.
type ReconcileResult struct {
	// Merged is the union to persist and return: one record per identity
	// key, fresh data preferred except where cached enrichment must be
	// preserved, plus every cached contact the query did not resurface.
	Merged []entity.Contact
	// NeedsEnrichment is the subset of Merged still missing a paid email.
	NeedsEnrichment []entity.Contact
	// Resurfaced counts fresh candidates that were already known.
	Resurfaced int
}

// Reconcile merges fresh search results with the cached snapshot.
//
// For each fresh candidate: if a cached record with the same identity key
// already carries an enrichment email, the cached record wins wholesale:
// previously purchased data is never re-bought and never overwritten, not
// even its non-enrichment fields. Otherwise the fresh record wins (assumed
// more current) and is marked as needing enrichment. Cached contacts the
// query did not resurface are appended unchanged, so knowledge accumulates
// across runs with different role filters and the persisted identity set
// only ever grows.
func Reconcile(fresh, cached []entity.Contact) ReconcileResult {
	cachedByKey := make(map[ContactKey]entity.Contact, len(cached))
	for _, c := range cached {
		cachedByKey[KeyOf(c)] = c
	}

	var result ReconcileResult
	seen := make(map[ContactKey]bool, len(fresh))

	for _, candidate := range fresh {
		key := KeyOf(candidate)
		if seen[key] {
			continue
		}
		seen[key] = true

		if existing, ok := cachedByKey[key]; ok {
			result.Resurfaced++
			if existing.Enriched() {
				result.Merged = append(result.Merged, existing)
				continue
			}
		}
		result.Merged = append(result.Merged, candidate)
		if !candidate.Enriched() {
			result.NeedsEnrichment = append(result.NeedsEnrichment, candidate)
		}
	}

	for _, c := range cached {
		if !seen[KeyOf(c)] {
			result.Merged = append(result.Merged, c)
		}
	}

	return result
}

// mergeEnriched folds freshly revealed fields into a contact. Enrichment
// fields are monotonic: a non-empty stored value is never replaced by an
// empty one. Profile fields refresh opportunistically from the newer data.
func mergeEnriched(base, update entity.Contact) entity.Contact {
	merged := base
	if update.Email != "" {
		merged.Email = update.Email
	}
	if update.PersonalEmail != "" {
		merged.PersonalEmail = update.PersonalEmail
	}
	if update.Phone != "" {
		merged.Phone = update.Phone
	}
	if update.PersonID != "" {
		merged.PersonID = update.PersonID
	}
	if update.LinkedInURL != "" {
		merged.LinkedInURL = update.LinkedInURL
	}
	if update.Headline != "" {
		merged.Headline = update.Headline
	}
	if update.PhotoURL != "" {
		merged.PhotoURL = update.PhotoURL
	}
	if update.EnrichedAt != nil {
		merged.EnrichedAt = update.EnrichedAt
	}
	return merged
}
