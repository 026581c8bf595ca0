package casestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/HendryAvila/apply-wizard/internal/application"
)

var (
	// ErrNotSubmitted is returned when assessing an application that has
	// not been submitted.
	ErrNotSubmitted = errors.New("application has not been submitted")
	// ErrUnsupported is returned by store operations that do not apply to
	// the record kind.
	ErrUnsupported = errors.New("operation not supported")
)

const (
	applicationStatusQuery = `SELECT status FROM applications WHERE id = ?`
	insertAssessmentQuery  = `INSERT OR IGNORE INTO assessments (application_id, status, data, created_at, updated_at) VALUES (?, ?, '{}', ?, ?)`
	findAssessmentQuery    = `SELECT a.crn, s.status, s.data, s.document, s.created_at, s.submitted_at
		FROM assessments s JOIN applications a ON a.id = s.application_id
		WHERE s.application_id = ?`
	updateAssessmentQuery = `UPDATE assessments SET data = ?, updated_at = ? WHERE application_id = ?`
	submitAssessmentQuery = `UPDATE assessments SET status = ?, data = ?, document = ?, submitted_at = ?, updated_at = ? WHERE application_id = ?`
	flagAssessmentQuery   = `UPDATE assessments SET status = ?, updated_at = ? WHERE application_id = ?`
)

// AssessmentStore keeps the assessor's answers for a submitted
// application. It implements Store over the assessments table: the
// returned record carries the application's ID and CRN, and the
// assessment's own status, data and document. The application row is
// never written.
type AssessmentStore struct {
	db *sql.DB
}

// Assessments returns the assessment store sharing s's database.
func (s *SQLiteStore) Assessments() *AssessmentStore {
	return &AssessmentStore{db: s.db}
}

// Create is unsupported: an assessment opens on first Find of a
// submitted application.
func (s *AssessmentStore) Create(context.Context, string) (*application.Application, error) {
	return nil, fmt.Errorf("casestore: create assessment: %w", ErrUnsupported)
}

// Find loads the assessment of applicationID, opening an empty one when
// the application is submitted and has none yet.
func (s *AssessmentStore) Find(ctx context.Context, applicationID string) (*application.Application, error) {
	app, err := s.find(ctx, applicationID)
	if !errors.Is(err, ErrNotFound) {
		return app, err
	}
	if err := s.open(ctx, applicationID); err != nil {
		return nil, err
	}
	return s.find(ctx, applicationID)
}

func (s *AssessmentStore) open(ctx context.Context, applicationID string) error {
	var status string
	err := s.db.QueryRowContext(ctx, applicationStatusQuery, applicationID).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return &NotFoundError{ID: applicationID}
	}
	if err != nil {
		return fmt.Errorf("casestore: find application %q: %w", applicationID, err)
	}
	if application.Status(status) != application.StatusSubmitted {
		return fmt.Errorf("casestore: assess %q: %w", applicationID, ErrNotSubmitted)
	}
	ts := now()
	if _, err := s.db.ExecContext(ctx, insertAssessmentQuery,
		applicationID, string(application.StatusStarted), ts, ts,
	); err != nil {
		return fmt.Errorf("casestore: open assessment %q: %w", applicationID, err)
	}
	return nil
}

func (s *AssessmentStore) find(ctx context.Context, applicationID string) (*application.Application, error) {
	var (
		status, data          string
		document, submittedAt sql.NullString
	)
	app := application.Application{ID: applicationID}
	err := s.db.QueryRowContext(ctx, findAssessmentQuery, applicationID).Scan(
		&app.CRN, &status, &data, &document, &app.CreatedAt, &submittedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{ID: applicationID}
	}
	if err != nil {
		return nil, fmt.Errorf("casestore: find assessment %q: %w", applicationID, err)
	}

	app.Status = application.Status(status)
	if err := application.ValidateStatus(app.Status); err != nil {
		return nil, fmt.Errorf("casestore: assessment %q: %w", applicationID, err)
	}
	if app.Data, err = application.DecodeData([]byte(data)); err != nil {
		return nil, fmt.Errorf("casestore: assessment %q: %w", applicationID, err)
	}
	if document.Valid {
		if err := json.Unmarshal([]byte(document.String), &app.Document); err != nil {
			return nil, fmt.Errorf("casestore: assessment %q document: %w", applicationID, err)
		}
	}
	app.SubmittedAt = submittedAt.String
	return &app, nil
}

// Update writes the assessment's data.
func (s *AssessmentStore) Update(ctx context.Context, app *application.Application) error {
	data, err := application.EncodeData(app.Data)
	if err != nil {
		return fmt.Errorf("casestore: %w", err)
	}
	res, err := s.db.ExecContext(ctx, updateAssessmentQuery, string(data), now(), app.ID)
	if err != nil {
		return fmt.Errorf("casestore: update assessment %q: %w", app.ID, err)
	}
	return expectOneRow(res, app.ID)
}

// Submit writes the assessment's terminal status and document.
func (s *AssessmentStore) Submit(ctx context.Context, app *application.Application) error {
	data, err := application.EncodeData(app.Data)
	if err != nil {
		return fmt.Errorf("casestore: %w", err)
	}
	document, err := json.Marshal(app.Document)
	if err != nil {
		return fmt.Errorf("casestore: encode document: %w", err)
	}
	res, err := s.db.ExecContext(ctx, submitAssessmentQuery,
		string(app.Status), string(data), string(document), app.SubmittedAt, now(), app.ID,
	)
	if err != nil {
		return fmt.Errorf("casestore: submit assessment %q: %w", app.ID, err)
	}
	return expectOneRow(res, app.ID)
}

// CreateNote records a clarification note and flags the assessment as
// waiting for further information, in one transaction. The submitted
// application is left as it is.
func (s *AssessmentStore) CreateNote(ctx context.Context, applicationID, query, createdBy string) (*Note, error) {
	current, err := s.Find(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if current.ReadOnly() {
		return nil, fmt.Errorf("casestore: note on %s assessment %q: %w", current.Status, applicationID, ErrUnsupported)
	}
	note := &Note{
		ID:            newID(),
		ApplicationID: applicationID,
		Query:         query,
		CreatedBy:     createdBy,
		CreatedAt:     now(),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("casestore: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, flagAssessmentQuery, string(application.StatusRequestedFurtherInformation), note.CreatedAt, applicationID)
	if err != nil {
		return nil, fmt.Errorf("casestore: flag assessment %q: %w", applicationID, err)
	}
	if err := expectOneRow(res, applicationID); err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, noteQuery,
		note.ID, note.ApplicationID, note.Query, note.CreatedBy, note.CreatedAt,
	); err != nil {
		return nil, fmt.Errorf("casestore: create note: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("casestore: commit: %w", err)
	}
	return note, nil
}
