package casestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/HendryAvila/apply-wizard/internal/application"
	"github.com/HendryAvila/apply-wizard/internal/sqlitedb"
)

const dbFile = "applications.db"

var schema = []string{
	`CREATE TABLE IF NOT EXISTS applications (
		id           TEXT PRIMARY KEY,
		crn          TEXT NOT NULL,
		status       TEXT NOT NULL,
		risks        TEXT NOT NULL DEFAULT '{}',
		data         TEXT NOT NULL DEFAULT '{}',
		document     TEXT,
		created_at   TEXT NOT NULL,
		updated_at   TEXT NOT NULL,
		submitted_at TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_applications_crn ON applications(crn)`,
	`CREATE TABLE IF NOT EXISTS clarification_notes (
		id             TEXT PRIMARY KEY,
		application_id TEXT NOT NULL REFERENCES applications(id),
		query          TEXT NOT NULL,
		created_by     TEXT NOT NULL,
		created_at     TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS assessments (
		application_id TEXT PRIMARY KEY REFERENCES applications(id),
		status         TEXT NOT NULL,
		data           TEXT NOT NULL DEFAULT '{}',
		document       TEXT,
		created_at     TEXT NOT NULL,
		updated_at     TEXT NOT NULL,
		submitted_at   TEXT
	)`,
}

const (
	insertQuery = `INSERT INTO applications (id, crn, status, risks, data, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)`
	findQuery   = `SELECT id, crn, status, risks, data, document, created_at, submitted_at FROM applications WHERE id = ?`
	updateQuery = `UPDATE applications SET data = ?, updated_at = ? WHERE id = ?`
	submitQuery = `UPDATE applications SET status = ?, data = ?, document = ?, submitted_at = ?, updated_at = ? WHERE id = ?`
	noteQuery   = `INSERT INTO clarification_notes (id, application_id, query, created_by, created_at) VALUES (?, ?, ?, ?, ?)`
	notesQuery  = `SELECT id, application_id, query, created_by, created_at FROM clarification_notes WHERE application_id = ? ORDER BY created_at, id`
)

// SQLiteStore is the application Store backed by SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// Open opens or creates the case store under dataDir.
func Open(dataDir string) (*SQLiteStore, error) {
	db, err := sqlitedb.Open(dataDir, dbFile)
	if err != nil {
		return nil, fmt.Errorf("casestore: %w", err)
	}
	if err := sqlitedb.Migrate(db, schema...); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("casestore: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// NewWithDB wraps an already migrated database handle.
func NewWithDB(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func now() string {
	return timeNow().UTC().Format(time.RFC3339)
}

// Create inserts a new, empty application for crn.
func (s *SQLiteStore) Create(ctx context.Context, crn string) (*application.Application, error) {
	app := application.New(newID(), crn)
	app.Risks = map[string]any{}
	if _, err := s.db.ExecContext(ctx, insertQuery,
		app.ID, app.CRN, string(app.Status), "{}", "{}", app.CreatedAt, app.CreatedAt,
	); err != nil {
		return nil, fmt.Errorf("casestore: create application: %w", err)
	}
	return app, nil
}

// Find loads an application. Stored data is validated against the
// persisted shape before it is returned.
func (s *SQLiteStore) Find(ctx context.Context, id string) (*application.Application, error) {
	var (
		app                   application.Application
		status, risks, data   string
		document, submittedAt sql.NullString
	)
	err := s.db.QueryRowContext(ctx, findQuery, id).Scan(
		&app.ID, &app.CRN, &status, &risks, &data, &document, &app.CreatedAt, &submittedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("casestore: find application %q: %w", id, err)
	}

	app.Status = application.Status(status)
	if err := application.ValidateStatus(app.Status); err != nil {
		return nil, fmt.Errorf("casestore: application %q: %w", id, err)
	}
	if app.Data, err = application.DecodeData([]byte(data)); err != nil {
		return nil, fmt.Errorf("casestore: application %q: %w", id, err)
	}
	if err := json.Unmarshal([]byte(risks), &app.Risks); err != nil {
		return nil, fmt.Errorf("casestore: application %q risks: %w", id, err)
	}
	if document.Valid {
		if err := json.Unmarshal([]byte(document.String), &app.Document); err != nil {
			return nil, fmt.Errorf("casestore: application %q document: %w", id, err)
		}
	}
	app.SubmittedAt = submittedAt.String
	return &app, nil
}

// Update writes app.Data.
func (s *SQLiteStore) Update(ctx context.Context, app *application.Application) error {
	data, err := application.EncodeData(app.Data)
	if err != nil {
		return fmt.Errorf("casestore: %w", err)
	}
	res, err := s.db.ExecContext(ctx, updateQuery, string(data), now(), app.ID)
	if err != nil {
		return fmt.Errorf("casestore: update application %q: %w", app.ID, err)
	}
	return expectOneRow(res, app.ID)
}

// Submit writes the submitted status, final data and document.
func (s *SQLiteStore) Submit(ctx context.Context, app *application.Application) error {
	data, err := application.EncodeData(app.Data)
	if err != nil {
		return fmt.Errorf("casestore: %w", err)
	}
	document, err := json.Marshal(app.Document)
	if err != nil {
		return fmt.Errorf("casestore: encode document: %w", err)
	}
	res, err := s.db.ExecContext(ctx, submitQuery,
		string(app.Status), string(data), string(document), app.SubmittedAt, now(), app.ID,
	)
	if err != nil {
		return fmt.Errorf("casestore: submit application %q: %w", app.ID, err)
	}
	return expectOneRow(res, app.ID)
}

// Notes lists the clarification notes of an application, oldest first.
func (s *SQLiteStore) Notes(ctx context.Context, applicationID string) ([]Note, error) {
	rows, err := s.db.QueryContext(ctx, notesQuery, applicationID)
	if err != nil {
		return nil, fmt.Errorf("casestore: list notes: %w", err)
	}
	defer rows.Close()

	var notes []Note
	for rows.Next() {
		var n Note
		if err := rows.Scan(&n.ID, &n.ApplicationID, &n.Query, &n.CreatedBy, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("casestore: scan note: %w", err)
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("casestore: list notes: %w", err)
	}
	return notes, nil
}

func expectOneRow(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("casestore: rows affected: %w", err)
	}
	if n == 0 {
		return &NotFoundError{ID: id}
	}
	return nil
}
