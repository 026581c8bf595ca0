package refdata

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type caseNote struct {
	ID   string `json:"id"`
	Note string `json:"note"`
}

func TestServices_FetchDecodes(t *testing.T) {
	svc := NewServices()
	svc.Register("prisonCaseNotes", FetcherFunc(func(_ context.Context, token, key string) ([]byte, error) {
		assert.Equal(t, "tok", token)
		assert.Equal(t, "X1", key)
		return []byte(`[{"id":"n1","note":"Engaging"}]`), nil
	}))

	var notes []caseNote
	require.NoError(t, svc.Fetch(context.Background(), "prisonCaseNotes", "tok", "X1", &notes))
	assert.Equal(t, []caseNote{{ID: "n1", Note: "Engaging"}}, notes)
	assert.Equal(t, []string{"prisonCaseNotes"}, svc.Names())
}

func TestServices_UnknownAndFailing(t *testing.T) {
	svc := NewServices()
	var out any
	assert.ErrorIs(t, svc.Fetch(context.Background(), "nope", "", "", &out), ErrUnknownService)

	boom := errors.New("timeout")
	svc.Register("documents", FetcherFunc(func(context.Context, string, string) ([]byte, error) {
		return nil, boom
	}))
	assert.ErrorIs(t, svc.Fetch(context.Background(), "documents", "", "X1", &out), boom)
}

func TestSQLiteSource_PutGet(t *testing.T) {
	ctx := context.Background()
	src, err := OpenSource(t.TempDir())
	require.NoError(t, err)
	defer src.Close()

	raw, err := src.Get(ctx, "documents", "X1")
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(raw), "nothing held reads as an empty list")

	require.NoError(t, src.Put(ctx, "documents", "X1", []map[string]string{{"id": "d1", "fileName": "a.pdf"}}))
	require.NoError(t, src.Put(ctx, "documents", "X1", []map[string]string{{"id": "d2", "fileName": "b.pdf"}}))

	svc := NewServices()
	src.RegisterAll(svc, "documents")
	var docs []map[string]string
	require.NoError(t, svc.Fetch(ctx, "documents", "", "X1", &docs))
	assert.Equal(t, []map[string]string{{"id": "d2", "fileName": "b.pdf"}}, docs, "put replaces")
}

func TestSQLiteSource_PropagatesQueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	boom := errors.New("database is locked")
	mock.ExpectQuery(regexp.QuoteMeta(getQuery)).WithArgs("roshSummary", "X1").WillReturnError(boom)

	_, err = NewSourceWithDB(db).Get(context.Background(), "roshSummary", "X1")
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeed_Apply(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
documents:
  X1:
    - id: d1
      fileName: report.pdf
roshSummary:
  X1:
    - label: Who is at risk
      questionNumber: R10.1
      answer: The public
`), 0o600))

	seed, err := LoadSeed(path)
	require.NoError(t, err)

	src, err := OpenSource(t.TempDir())
	require.NoError(t, err)
	defer src.Close()

	n, err := seed.Apply(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	raw, err := src.Get(context.Background(), "roshSummary", "X1")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"label":"Who is at risk","questionNumber":"R10.1","answer":"The public"}]`, string(raw))
}
