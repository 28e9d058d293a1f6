package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/octobees/outreach/api/internal/directory"
	"github.com/octobees/outreach/api/internal/dto"
	"github.com/octobees/outreach/api/internal/entity"
	"github.com/octobees/outreach/api/internal/repository"
)

// ErrCompanyUnresolved wraps resolution failures so handlers can map them
// to a 404 instead of a server error.
var ErrCompanyUnresolved = errors.New("company could not be resolved")

// CompanyResolver turns user input into a canonical company identity.
type CompanyResolver interface {
	ResolveCompany(ctx context.Context, input string) (directory.CompanyInfo, error)
}

// CandidateCollector gathers raw people search results across pages.
type CandidateCollector interface {
	Collect(ctx context.Context, filters directory.SearchFilters, maxResults int) ([]directory.Person, error)
}

// DiscoveryService runs the end-to-end contact discovery flow: resolve the
// company, query the directory, reconcile against the persisted snapshot,
// and write the merged set back. One request is processed sequentially by
// one worker; concurrent requests for different companies share nothing
// but the snapshot store.
type DiscoveryService struct {
	resolver      CompanyResolver
	collector     CandidateCollector
	snapshots     repository.SnapshotStore
	companies     repository.CompaniesRepository
	defaultRegion string
}

// NewDiscoveryService wires the discovery flow.
func NewDiscoveryService(
	resolver CompanyResolver,
	collector CandidateCollector,
	snapshots repository.SnapshotStore,
	companies repository.CompaniesRepository,
	defaultRegion string,
) *DiscoveryService {
	return &DiscoveryService{
		resolver:      resolver,
		collector:     collector,
		snapshots:     snapshots,
		companies:     companies,
		defaultRegion: defaultRegion,
	}
}

// Discover finds contacts for a company and merges them with everything
// already known. The persisted snapshot only grows; previously purchased
// enrichment is never discarded. A failed snapshot write fails the whole
// operation; the caller must not act on results that were not persisted.
func (s *DiscoveryService) Discover(ctx context.Context, companyInput string, roles []string, maxResults int) (*dto.DiscoverResponse, error) {
	info, err := s.resolver.ResolveCompany(ctx, companyInput)
	if err != nil {
		if errors.Is(err, directory.ErrAuthentication) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrCompanyUnresolved, err)
	}

	if _, err := s.companies.Upsert(ctx, &entity.Company{
		Domain:         info.Domain,
		Name:           info.Name,
		OrganizationID: info.OrganizationID,
	}); err != nil {
		return nil, fmt.Errorf("persist company: %w", err)
	}

	cached, err := s.snapshots.Load(ctx, info.Domain)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	titles, seniorities := directory.RoleFilters(roles)
	filters := directory.SearchFilters{
		Domain:               info.Domain,
		Titles:               titles,
		Seniorities:          seniorities,
		IncludeSimilarTitles: true,
	}
	if info.OrganizationID != nil {
		filters.OrganizationID = *info.OrganizationID
	}

	people, err := s.collector.Collect(ctx, filters, maxResults)
	if err != nil {
		return nil, err
	}

	fresh := make([]entity.Contact, 0, len(people))
	for _, p := range people {
		contact := p.Contact(s.defaultRegion)
		if contact.CompanyDomain == "" {
			contact.CompanyDomain = info.Domain
		}
		if contact.Company == "" {
			contact.Company = info.Name
		}
		fresh = append(fresh, contact)
	}

	result := Reconcile(fresh, cached)

	if err := s.snapshots.Save(ctx, info.Domain, result.Merged); err != nil {
		return nil, fmt.Errorf("persist snapshot: %w", err)
	}

	if err := s.companies.RecordSearch(ctx, &entity.SearchRecord{
		CompanyDomain: info.Domain,
		Roles:         roles,
		Limit:         maxResults,
		TotalFound:    len(fresh),
	}); err != nil {
		// Audit only; the discovery result is already durable.
		log.Printf("record search for %s failed: %v", info.Domain, err)
	}

	returned := filterByRoles(result.Merged, roles, maxResults)

	return &dto.DiscoverResponse{
		Company: dto.CompanyInfo{
			Domain:         info.Domain,
			Name:           info.Name,
			OrganizationID: info.OrganizationID,
		},
		Contacts:        returned,
		TotalPersisted:  len(result.Merged),
		NewThisSearch:   len(fresh) - result.Resurfaced,
		NeedsEnrichment: len(result.NeedsEnrichment),
		Cached:          len(cached) > 0,
	}, nil
}

// filterByRoles re-evaluates the merged set against the requested role
// tags locally. When the filter would underfill the requested count the
// full merged set is returned instead.
func filterByRoles(contacts []entity.Contact, roles []string, maxResults int) []entity.Contact {
	if len(roles) == 0 {
		return contacts
	}
	filtered := make([]entity.Contact, 0, len(contacts))
	for _, c := range contacts {
		if directory.MatchesRole(c.Title, roles) {
			filtered = append(filtered, c)
		}
	}
	if maxResults > 0 && len(filtered) < maxResults {
		return contacts
	}
	return filtered
}
