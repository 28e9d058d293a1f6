package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/octobees/outreach/api/internal/entity"
)

// ErrCompanyNotFound indicates no company matches the given domain.
var ErrCompanyNotFound = errors.New("company not found")

// CompaniesRepository describes persistence for companies and the
// immutable per-run search log.
type CompaniesRepository interface {
	Upsert(ctx context.Context, company *entity.Company) (*entity.Company, error)
	FindByDomain(ctx context.Context, domain string) (*entity.Company, error)
	List(ctx context.Context) ([]entity.Company, error)
	RecordSearch(ctx context.Context, record *entity.SearchRecord) error
}

// PGXCompaniesRepository implements CompaniesRepository using pgx.
type PGXCompaniesRepository struct {
	pool pgxPool
}

// NewPGXCompaniesRepository wires a pgx backed repository.
func NewPGXCompaniesRepository(pool *pgxpool.Pool) *PGXCompaniesRepository {
	return &PGXCompaniesRepository{pool: pool}
}

// Upsert inserts or updates a company keyed by domain. The domain never
// changes after creation; name and organization id refresh on every
// resolution.
func (r *PGXCompaniesRepository) Upsert(ctx context.Context, company *entity.Company) (*entity.Company, error) {
	if company == nil {
		return nil, fmt.Errorf("company payload is nil")
	}

	row := r.pool.QueryRow(ctx, `
        INSERT INTO companies (domain, name, organization_id, updated_at)
        VALUES ($1, $2, $3, NOW())
        ON CONFLICT (domain) DO UPDATE SET
            name = EXCLUDED.name,
            organization_id = COALESCE(EXCLUDED.organization_id, companies.organization_id),
            updated_at = NOW()
        RETURNING id, domain, name, organization_id, created_at, updated_at
    `, company.Domain, company.Name, company.OrganizationID)

	var saved entity.Company
	if err := row.Scan(&saved.ID, &saved.Domain, &saved.Name, &saved.OrganizationID, &saved.CreatedAt, &saved.UpdatedAt); err != nil {
		return nil, fmt.Errorf("upsert company %s: %w", company.Domain, err)
	}
	return &saved, nil
}

// FindByDomain fetches a company by its normalized domain.
func (r *PGXCompaniesRepository) FindByDomain(ctx context.Context, domain string) (*entity.Company, error) {
	row := r.pool.QueryRow(ctx, `
        SELECT id, domain, name, organization_id, created_at, updated_at
        FROM companies WHERE domain = $1
    `, domain)

	var company entity.Company
	if err := row.Scan(&company.ID, &company.Domain, &company.Name, &company.OrganizationID, &company.CreatedAt, &company.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCompanyNotFound
		}
		return nil, fmt.Errorf("query company by domain: %w", err)
	}
	return &company, nil
}

// List returns all companies ordered by name.
func (r *PGXCompaniesRepository) List(ctx context.Context) ([]entity.Company, error) {
	rows, err := r.pool.Query(ctx, `
        SELECT id, domain, name, organization_id, created_at, updated_at
        FROM companies ORDER BY name
    `)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	defer rows.Close()

	var companies []entity.Company
	for rows.Next() {
		var company entity.Company
		if err := rows.Scan(&company.ID, &company.Domain, &company.Name, &company.OrganizationID, &company.CreatedAt, &company.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan company: %w", err)
		}
		companies = append(companies, company)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate companies: %w", err)
	}
	return companies, nil
}

// RecordSearch appends one audit row per discovery run. Rows are never
// updated or deleted.
func (r *PGXCompaniesRepository) RecordSearch(ctx context.Context, record *entity.SearchRecord) error {
	if record == nil {
		return fmt.Errorf("search record is nil")
	}
	_, err := r.pool.Exec(ctx, `
        INSERT INTO searches (company_domain, roles, search_limit, total_found)
        VALUES ($1, $2, $3, $4)
    `, record.CompanyDomain, record.Roles, record.Limit, record.TotalFound)
	if err != nil {
		return fmt.Errorf("record search for %s: %w", record.CompanyDomain, err)
	}
	return nil
}
