package casestore

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HendryAvila/apply-wizard/internal/application"
)

var errUpstream = errors.New("disk I/O error")

func newMockStore(t *testing.T) (*SQLiteStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewWithDB(db), mock
}

var findColumns = []string{"id", "crn", "status", "risks", "data", "document", "created_at", "submitted_at"}

func TestFind_PropagatesQueryError(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectQuery(regexp.QuoteMeta(findQuery)).WithArgs("app-1").WillReturnError(errUpstream)

	_, err := s.Find(context.Background(), "app-1")
	assert.ErrorIs(t, err, errUpstream)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFind_RejectsMalformedData(t *testing.T) {
	s, mock := newMockStore(t)
	rows := sqlmock.NewRows(findColumns).
		AddRow("app-1", "X1", "started", "{}", `{"basic-information": ["not", "pages"]}`, nil, "2026-03-02T09:30:00Z", nil)
	mock.ExpectQuery(regexp.QuoteMeta(findQuery)).WithArgs("app-1").WillReturnRows(rows)

	_, err := s.Find(context.Background(), "app-1")
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFind_RejectsUnknownStatus(t *testing.T) {
	s, mock := newMockStore(t)
	rows := sqlmock.NewRows(findColumns).
		AddRow("app-1", "X1", "archived", "{}", "{}", nil, "2026-03-02T09:30:00Z", nil)
	mock.ExpectQuery(regexp.QuoteMeta(findQuery)).WithArgs("app-1").WillReturnRows(rows)

	_, err := s.Find(context.Background(), "app-1")
	assert.Error(t, err)
}

func TestUpdate_PropagatesExecError(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectExec(regexp.QuoteMeta(updateQuery)).
		WithArgs(`{}`, sqlmock.AnyArg(), "app-1").
		WillReturnError(errUpstream)

	err := s.Update(context.Background(), application.New("app-1", "X1"))
	assert.ErrorIs(t, err, errUpstream)
	assert.NoError(t, mock.ExpectationsWereMet())
}

var assessmentColumns = []string{"crn", "status", "data", "document", "created_at", "submitted_at"}

func TestAssessmentCreateNote_RollsBackOnInsertFailure(t *testing.T) {
	s, mock := newMockStore(t)
	rows := sqlmock.NewRows(assessmentColumns).
		AddRow("X1", "started", "{}", nil, "2026-03-02T09:30:00Z", nil)
	mock.ExpectQuery(regexp.QuoteMeta(findAssessmentQuery)).WithArgs("app-1").WillReturnRows(rows)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(flagAssessmentQuery)).
		WithArgs("requestedFurtherInformation", sqlmock.AnyArg(), "app-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(noteQuery)).WillReturnError(errUpstream)
	mock.ExpectRollback()

	_, err := s.Assessments().CreateNote(context.Background(), "app-1", "q", "assessor")
	assert.ErrorIs(t, err, errUpstream)
	assert.NoError(t, mock.ExpectationsWereMet())
}
