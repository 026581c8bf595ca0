package refdata

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/HendryAvila/apply-wizard/internal/sqlitedb"
)

const dbFile = "reference.db"

var schema = []string{
	`CREATE TABLE IF NOT EXISTS reference_data (
		kind    TEXT NOT NULL,
		subject TEXT NOT NULL,
		payload TEXT NOT NULL,
		PRIMARY KEY (kind, subject)
	)`,
}

const (
	getQuery = `SELECT payload FROM reference_data WHERE kind = ? AND subject = ?`
	putQuery = `INSERT INTO reference_data (kind, subject, payload) VALUES (?, ?, ?)
		ON CONFLICT(kind, subject) DO UPDATE SET payload = excluded.payload`
)

// emptyPayload is served when nothing is held for a subject.
var emptyPayload = []byte("[]")

// SQLiteSource serves reference data loaded into a local SQLite table,
// keyed by kind (the service name) and subject (the person's CRN).
type SQLiteSource struct {
	db *sql.DB
}

// OpenSource opens or creates the reference data store under dataDir.
func OpenSource(dataDir string) (*SQLiteSource, error) {
	db, err := sqlitedb.Open(dataDir, dbFile)
	if err != nil {
		return nil, fmt.Errorf("refdata: %w", err)
	}
	if err := sqlitedb.Migrate(db, schema...); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("refdata: %w", err)
	}
	return &SQLiteSource{db: db}, nil
}

// NewSourceWithDB wraps an already migrated database handle.
func NewSourceWithDB(db *sql.DB) *SQLiteSource {
	return &SQLiteSource{db: db}
}

// Close closes the underlying database connection.
func (s *SQLiteSource) Close() error {
	return s.db.Close()
}

// Put stores payload as JSON for (kind, subject), replacing any previous value.
func (s *SQLiteSource) Put(ctx context.Context, kind, subject string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("refdata: encode %s/%s: %w", kind, subject, err)
	}
	if _, err := s.db.ExecContext(ctx, putQuery, kind, subject, string(raw)); err != nil {
		return fmt.Errorf("refdata: put %s/%s: %w", kind, subject, err)
	}
	return nil
}

// Get returns the stored payload, or an empty JSON list when nothing is held.
func (s *SQLiteSource) Get(ctx context.Context, kind, subject string) ([]byte, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, getQuery, kind, subject).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return emptyPayload, nil
	}
	if err != nil {
		return nil, fmt.Errorf("refdata: get %s/%s: %w", kind, subject, err)
	}
	return []byte(payload), nil
}

// Fetcher exposes one kind as a Fetcher.
func (s *SQLiteSource) Fetcher(kind string) Fetcher {
	return FetcherFunc(func(ctx context.Context, _, key string) ([]byte, error) {
		return s.Get(ctx, kind, key)
	})
}

// RegisterAll registers a fetcher per kind on svc.
func (s *SQLiteSource) RegisterAll(svc *Services, kinds ...string) {
	for _, k := range kinds {
		svc.Register(k, s.Fetcher(k))
	}
}
