package repository

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/octobees/outreach/api/internal/entity"
)

type stubTx struct {
	execFunc  func(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	commits   int
	rollbacks int
}

func (s *stubTx) Begin(ctx context.Context) (pgx.Tx, error) { return nil, errors.New("nested tx") }

func (s *stubTx) Commit(ctx context.Context) error {
	s.commits++
	return nil
}

func (s *stubTx) Rollback(ctx context.Context) error {
	s.rollbacks++
	return nil
}

func (s *stubTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, errors.New("not implemented")
}

func (s *stubTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }

func (s *stubTx) LargeObjects() pgx.LargeObjects { return pgx.LargeObjects{} }

func (s *stubTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, errors.New("not implemented")
}

func (s *stubTx) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if s.execFunc != nil {
		return s.execFunc(ctx, sql, args...)
	}
	return pgconn.CommandTag{}, nil
}

func (s *stubTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, errors.New("not implemented")
}

func (s *stubTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return &stubRow{}
}

func (s *stubTx) Conn() *pgx.Conn { return nil }

func TestIdentityKey(t *testing.T) {
	withID := entity.Contact{PersonID: "p1", FirstName: "Ada", LastName: "Lovelace"}
	if got := identityKey(withID); got != "id:p1" {
		t.Fatalf("expected id key, got %q", got)
	}

	withoutID := entity.Contact{FirstName: " Ada ", LastName: "LOVELACE"}
	if got := identityKey(withoutID); got != "name:ada|lovelace" {
		t.Fatalf("expected case-folded name key, got %q", got)
	}
}

func TestPGXSnapshotStoreSave(t *testing.T) {
	var statements []string
	tx := &stubTx{execFunc: func(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
		statements = append(statements, sql)
		return pgconn.CommandTag{}, nil
	}}
	store := &PGXSnapshotStore{pool: &stubPool{
		beginTxFunc: func(context.Context, pgx.TxOptions) (pgx.Tx, error) {
			return tx, nil
		},
	}}

	contacts := []entity.Contact{
		{PersonID: "p1", FirstName: "Ada", LastName: "Lovelace", Email: "ada@acme.io"},
		{FirstName: "Grace", LastName: "Hopper"},
	}
	if err := store.Save(context.Background(), "acme.io", contacts); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(statements) != 3 {
		t.Fatalf("expected lock plus one upsert per contact, got %d statements", len(statements))
	}
	if !strings.Contains(statements[0], "pg_advisory_xact_lock") {
		t.Fatalf("expected advisory lock first, got %q", statements[0])
	}
	for _, stmt := range statements[1:] {
		if !strings.Contains(stmt, "ON CONFLICT (company_domain, identity_key)") {
			t.Fatalf("expected upsert statement, got %q", stmt)
		}
		if strings.Contains(stmt, "DELETE") {
			t.Fatalf("snapshot writes must never delete rows")
		}
	}
	if tx.commits != 1 {
		t.Fatalf("expected one commit, got %d", tx.commits)
	}
}

func TestPGXSnapshotStoreSaveUpsertFailure(t *testing.T) {
	tx := &stubTx{execFunc: func(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
		if strings.Contains(sql, "INSERT INTO contacts") {
			return pgconn.CommandTag{}, errors.New("constraint violation")
		}
		return pgconn.CommandTag{}, nil
	}}
	store := &PGXSnapshotStore{pool: &stubPool{
		beginTxFunc: func(context.Context, pgx.TxOptions) (pgx.Tx, error) {
			return tx, nil
		},
	}}

	err := store.Save(context.Background(), "acme.io", []entity.Contact{{FirstName: "Ada", LastName: "Lovelace"}})
	if err == nil {
		t.Fatalf("expected upsert failure to propagate")
	}
	if tx.commits != 0 {
		t.Fatalf("failed save must not commit")
	}
	if tx.rollbacks == 0 {
		t.Fatalf("expected rollback on failure")
	}
}

func TestPGXSnapshotStoreLoad(t *testing.T) {
	store := &PGXSnapshotStore{pool: &stubPool{
		queryFunc: func(ctx context.Context, query string, args ...any) (pgx.Rows, error) {
			return &stubRows{scans: []func(dest ...any) error{
				func(dest ...any) error {
					*dest[0].(*string) = "p1"
					*dest[1].(*string) = "Ada"
					*dest[2].(*string) = "Lovelace"
					*dest[12].(*string) = "ada@acme.io"
					return nil
				},
			}}, nil
		},
	}}

	contacts, err := store.Load(context.Background(), "acme.io")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(contacts) != 1 || contacts[0].Email != "ada@acme.io" {
		t.Fatalf("unexpected contacts: %+v", contacts)
	}
}
