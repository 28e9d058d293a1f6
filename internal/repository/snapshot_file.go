package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/octobees/outreach/api/internal/entity"
)

// FileSnapshotStore keeps one JSON document per company domain. It backs
// offline/CLI use where no database is available; the engine only sees the
// SnapshotStore interface and does not care which backend is wired.
type FileSnapshotStore struct {
	dir string
	mu  sync.Mutex
}

// NewFileSnapshotStore creates the directory if needed.
func NewFileSnapshotStore(dir string) (*FileSnapshotStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("snapshot directory must not be empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create snapshot directory: %w", err)
	}
	return &FileSnapshotStore{dir: dir}, nil
}

type snapshotDocument struct {
	Metadata snapshotMetadata `json:"metadata"`
	Contacts []entity.Contact `json:"contacts"`
}

type snapshotMetadata struct {
	CompanyDomain string    `json:"company_domain"`
	TotalContacts int       `json:"total_contacts"`
	SavedAt       time.Time `json:"saved_at"`
}

// Load reads the stored contact list; an absent file means an empty
// snapshot, not an error.
func (s *FileSnapshotStore) Load(_ context.Context, domain string) ([]entity.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path(domain))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read snapshot for %s: %w", domain, err)
	}

	var doc snapshotDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode snapshot for %s: %w", domain, err)
	}
	return doc.Contacts, nil
}

// Save overwrites the snapshot atomically (write to temp file, rename).
func (s *FileSnapshotStore) Save(_ context.Context, domain string, contacts []entity.Contact) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := snapshotDocument{
		Metadata: snapshotMetadata{
			CompanyDomain: domain,
			TotalContacts: len(contacts),
			SavedAt:       time.Now().UTC(),
		},
		Contacts: contacts,
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot for %s: %w", domain, err)
	}

	target := s.path(domain)
	tmp, err := os.CreateTemp(s.dir, ".snapshot-*")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write snapshot for %s: %w", domain, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace snapshot for %s: %w", domain, err)
	}
	return nil
}

func (s *FileSnapshotStore) path(domain string) string {
	safe := strings.ToLower(domain)
	safe = strings.NewReplacer(".", "_", " ", "_", "/", "_").Replace(safe)
	var b strings.Builder
	for _, r := range safe {
		if r == '_' || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return filepath.Join(s.dir, b.String()+"_contacts.json")
}
