package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/octobees/outreach/api/internal/entity"
)

// SnapshotStore persists the full contact list for one company, keyed by
// the normalized domain. Load returns an empty list for unknown domains.
type SnapshotStore interface {
	Load(ctx context.Context, domain string) ([]entity.Contact, error)
	Save(ctx context.Context, domain string, contacts []entity.Contact) error
}

// PGXSnapshotStore implements SnapshotStore on Postgres.
type PGXSnapshotStore struct {
	pool pgxPool
}

// NewPGXSnapshotStore wires a pgx backed snapshot store.
func NewPGXSnapshotStore(pool *pgxpool.Pool) *PGXSnapshotStore {
	return &PGXSnapshotStore{pool: pool}
}

// identityKey is the stored merge key: the external person id when the
// directory supplied one, otherwise the case-folded name pair.
func identityKey(c entity.Contact) string {
	if c.PersonID != "" {
		return "id:" + c.PersonID
	}
	return "name:" + strings.ToLower(strings.TrimSpace(c.FirstName)) + "|" + strings.ToLower(strings.TrimSpace(c.LastName))
}

// Load returns every contact stored for the domain.
func (s *PGXSnapshotStore) Load(ctx context.Context, domain string) ([]entity.Contact, error) {
	rows, err := s.pool.Query(ctx, `
        SELECT person_id, first_name, last_name, title, company, company_domain,
               location, seniority, departments, linkedin_url, photo_url, headline,
               email, personal_email, phone, enriched_at, created_at, updated_at
        FROM contacts
        WHERE company_domain = $1
        ORDER BY created_at, last_name, first_name
    `, domain)
	if err != nil {
		return nil, fmt.Errorf("load snapshot for %s: %w", domain, err)
	}
	defer rows.Close()

	var contacts []entity.Contact
	for rows.Next() {
		var c entity.Contact
		err := rows.Scan(
			&c.PersonID, &c.FirstName, &c.LastName, &c.Title, &c.Company, &c.CompanyDomain,
			&c.Location, &c.Seniority, &c.Departments, &c.LinkedInURL, &c.PhotoURL, &c.Headline,
			&c.Email, &c.PersonalEmail, &c.Phone, &c.EnrichedAt, &c.CreatedAt, &c.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		contacts = append(contacts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate contacts: %w", err)
	}
	return contacts, nil
}

const upsertContactSQL = `
        INSERT INTO contacts (
            company_domain, identity_key, person_id, first_name, last_name, title,
            company, location, seniority, departments, linkedin_url, photo_url,
            headline, email, personal_email, phone, enriched_at, updated_at
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,NOW())
        ON CONFLICT (company_domain, identity_key) DO UPDATE SET
            person_id = CASE WHEN EXCLUDED.person_id <> '' THEN EXCLUDED.person_id ELSE contacts.person_id END,
            first_name = EXCLUDED.first_name,
            last_name = EXCLUDED.last_name,
            title = CASE WHEN EXCLUDED.title <> '' THEN EXCLUDED.title ELSE contacts.title END,
            company = CASE WHEN EXCLUDED.company <> '' THEN EXCLUDED.company ELSE contacts.company END,
            location = CASE WHEN EXCLUDED.location <> '' THEN EXCLUDED.location ELSE contacts.location END,
            seniority = CASE WHEN EXCLUDED.seniority <> '' THEN EXCLUDED.seniority ELSE contacts.seniority END,
            departments = COALESCE(EXCLUDED.departments, contacts.departments),
            linkedin_url = CASE WHEN EXCLUDED.linkedin_url <> '' THEN EXCLUDED.linkedin_url ELSE contacts.linkedin_url END,
            photo_url = CASE WHEN EXCLUDED.photo_url <> '' THEN EXCLUDED.photo_url ELSE contacts.photo_url END,
            headline = CASE WHEN EXCLUDED.headline <> '' THEN EXCLUDED.headline ELSE contacts.headline END,
            email = CASE WHEN EXCLUDED.email <> '' THEN EXCLUDED.email ELSE contacts.email END,
            personal_email = CASE WHEN EXCLUDED.personal_email <> '' THEN EXCLUDED.personal_email ELSE contacts.personal_email END,
            phone = CASE WHEN EXCLUDED.phone <> '' THEN EXCLUDED.phone ELSE contacts.phone END,
            enriched_at = COALESCE(EXCLUDED.enriched_at, contacts.enriched_at),
            updated_at = NOW();
    `

// Save overwrites the snapshot with the merged union. The write is
// upsert-only: rows are never deleted, so the stored set only grows.
// It runs under a per-domain advisory lock so concurrent discovery
// runs for the same company cannot interleave their read-modify-write
// cycles.
func (s *PGXSnapshotStore) Save(ctx context.Context, domain string, contacts []entity.Contact) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("start snapshot tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, domain); err != nil {
		return fmt.Errorf("acquire snapshot lock for %s: %w", domain, err)
	}

	for _, c := range contacts {
		_, err := tx.Exec(ctx, upsertContactSQL,
			domain,
			identityKey(c),
			c.PersonID,
			c.FirstName,
			c.LastName,
			c.Title,
			c.Company,
			c.Location,
			c.Seniority,
			c.Departments,
			c.LinkedInURL,
			c.PhotoURL,
			c.Headline,
			c.Email,
			c.PersonalEmail,
			c.Phone,
			c.EnrichedAt,
		)
		if err != nil {
			return fmt.Errorf("upsert contact %s %s: %w", c.FirstName, c.LastName, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit snapshot tx: %w", err)
	}
	return nil
}

// ErrSnapshotNotFound is reserved for stores that distinguish a missing
// snapshot from an empty one.
var ErrSnapshotNotFound = errors.New("contact snapshot not found")
