package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"golang.org/x/time/rate"

	"github.com/octobees/outreach/api/internal/directory"
	"github.com/octobees/outreach/api/internal/entity"
	"github.com/octobees/outreach/api/internal/repository"
)

// DefaultEnrichInterval spaces enrichment lookups. Each lookup spends
// credits and the provider throttles bursts aggressively.
const DefaultEnrichInterval = 500 * time.Millisecond

// PersonEnricher resolves full contact details (email, phone) for one person.
type PersonEnricher interface {
	EnrichPerson(ctx context.Context, query directory.EnrichQuery) (*directory.Person, error)
}

// EnrichmentService reveals emails and phone numbers for discovered
// contacts, one at a time. Failures are isolated per contact: a person the
// provider cannot match keeps their un-enriched record, and the run
// continues with the next one. Only authentication failures and context
// cancellation abort the whole run.
type EnrichmentService struct {
	enricher      PersonEnricher
	snapshots     repository.SnapshotStore
	limiter       *rate.Limiter
	defaultRegion string
}

// NewEnrichmentService wires the enrichment flow. A non-positive interval
// disables pacing, which tests rely on.
func NewEnrichmentService(enricher PersonEnricher, snapshots repository.SnapshotStore, interval time.Duration, defaultRegion string) *EnrichmentService {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &EnrichmentService{
		enricher:      enricher,
		snapshots:     snapshots,
		limiter:       rate.NewLimiter(limit, 1),
		defaultRegion: defaultRegion,
	}
}

// Enrich looks up full details for each contact and merges the results
// back into the company snapshot. It returns every input contact, enriched
// where possible, plus the count of successful enrichments. An empty
// contact list means "everything still unenriched in the snapshot".
func (s *EnrichmentService) Enrich(ctx context.Context, companyDomain string, contacts []entity.Contact) ([]entity.Contact, int, error) {
	if len(contacts) == 0 {
		if companyDomain == "" {
			return nil, 0, fmt.Errorf("either a company domain or explicit contacts are required")
		}
		stored, err := s.snapshots.Load(ctx, companyDomain)
		if err != nil {
			return nil, 0, fmt.Errorf("load snapshot: %w", err)
		}
		contacts = stored
	}

	out := make([]entity.Contact, len(contacts))
	copy(out, contacts)

	enriched := 0
	for i := range out {
		if out[i].Enriched() {
			continue
		}
		if err := s.limiter.Wait(ctx); err != nil {
			return out, enriched, err
		}

		person, err := s.enricher.EnrichPerson(ctx, enrichQueryFor(out[i]))
		if err != nil {
			if errors.Is(err, directory.ErrAuthentication) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return out, enriched, err
			}
			if errors.Is(err, directory.ErrInsufficientCredits) {
				log.Printf("enrichment stopped at %s: %v", out[i].FullName(), err)
				break
			}
			log.Printf("enrichment skipped %s: %v", out[i].FullName(), err)
			continue
		}

		update := person.Contact(s.defaultRegion)
		out[i] = mergeEnriched(out[i], update)
		if out[i].Enriched() && out[i].EnrichedAt == nil {
			now := time.Now().UTC()
			out[i].EnrichedAt = &now
		}
		enriched++
	}

	if companyDomain != "" && enriched > 0 {
		cached, err := s.snapshots.Load(ctx, companyDomain)
		if err != nil {
			return out, enriched, fmt.Errorf("load snapshot: %w", err)
		}
		result := Reconcile(out, cached)
		if err := s.snapshots.Save(ctx, companyDomain, result.Merged); err != nil {
			return out, enriched, fmt.Errorf("persist snapshot: %w", err)
		}
	}

	return out, enriched, nil
}

// enrichQueryFor prefers the stable external id; the provider falls back
// to fuzzy name-plus-domain matching otherwise.
func enrichQueryFor(c entity.Contact) directory.EnrichQuery {
	return directory.EnrichQuery{
		PersonID:             c.PersonID,
		FirstName:            c.FirstName,
		LastName:             c.LastName,
		Domain:               c.CompanyDomain,
		OrganizationName:     c.Company,
		RevealPersonalEmails: true,
		RevealPhoneNumber:    true,
	}
}
