package apply

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HendryAvila/apply-wizard/internal/application"
	"github.com/HendryAvila/apply-wizard/internal/form"
)

func TestSentenceType_Next(t *testing.T) {
	tests := []struct {
		sentence string
		want     string
	}{
		{SentenceStandardDeterminate, PageReleaseType},
		{SentenceLife, PageReleaseType},
		{SentenceIPP, PageReleaseType},
		{SentenceExtendedDeterminate, PageReleaseType},
		{SentenceCommunityOrder, PageSituation},
		{SentenceBailPlacement, PageSituation},
		{SentenceNonStatutory, PageReleaseDate},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.sentence, func(t *testing.T) {
			page, err := newSentenceType(form.Input{"sentenceType": tt.sentence}, appWith(application.Data{}), "")
			require.NoError(t, err)
			assert.Equal(t, tt.want, page.Next())
		})
	}
}

func TestSentenceType_PreviousFollowsTransgenderAnswer(t *testing.T) {
	data := application.Data{}
	page, _ := newSentenceType(form.Input{}, appWith(data), "")
	assert.Equal(t, PageTransgender, page.Previous())

	data.Set(TaskBasicInformation, PageTransgender, application.Body{"transgenderOrHasTransgenderHistory": "yes"})
	page, _ = newSentenceType(form.Input{}, appWith(data), "")
	assert.Equal(t, PageComplexCaseBoard, page.Previous())
}

func TestSentenceType_Errors(t *testing.T) {
	page, _ := newSentenceType(form.Input{}, appWith(application.Data{}), "")
	assert.Equal(t, form.Errors{"sentenceType": "You must choose a sentence type"}, page.Errors())

	page, _ = newSentenceType(form.Input{"sentenceType": "madeUp"}, appWith(application.Data{}), "")
	assert.Contains(t, page.Errors(), "sentenceType")

	page, _ = newSentenceType(form.Input{"sentenceType": SentenceLife}, appWith(application.Data{}), "")
	assert.Empty(t, page.Errors())
}

func TestReleaseType_RequiresSentenceType(t *testing.T) {
	_, err := newReleaseType(form.Input{}, appWith(application.Data{}), "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, form.ErrMissingSessionData))

	var missing *form.MissingSessionDataError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, PageSentenceType, missing.Page)
}

func TestReleaseType_OptionsDependOnSentence(t *testing.T) {
	data := application.Data{}
	data.Set(TaskBasicInformation, PageSentenceType, application.Body{"sentenceType": SentenceLife})

	page, err := newReleaseType(form.Input{"releaseType": "hdc"}, appWith(data), "")
	require.NoError(t, err)
	assert.Contains(t, page.Errors(), "releaseType", "HDC is not offered for life sentences")

	page, err = newReleaseType(form.Input{"releaseType": "rotl"}, appWith(data), "")
	require.NoError(t, err)
	assert.Empty(t, page.Errors())
}

func TestReleaseDate_Branches(t *testing.T) {
	app := appWith(application.Data{})

	page, _ := newReleaseDate(form.Input{"knowReleaseDate": "yes", "releaseDate-day": "1", "releaseDate-month": "6", "releaseDate-year": "2026"}, app, "")
	assert.Empty(t, page.Errors())
	assert.Equal(t, PagePlacementDate, page.Next())
	assert.Equal(t, releaseDateBody{KnowReleaseDate: "yes", ReleaseDate: "2026-06-01"}, page.Body())

	page, _ = newReleaseDate(form.Input{"knowReleaseDate": "no", "releaseDate-day": "1"}, app, "")
	assert.Equal(t, PageOralHearing, page.Next())
	assert.Equal(t, releaseDateBody{KnowReleaseDate: "no"}, page.Body(), "hidden date parts are dropped")

	page, _ = newReleaseDate(form.Input{"knowReleaseDate": "yes", "releaseDate-day": "31", "releaseDate-month": "2", "releaseDate-year": "2026"}, app, "")
	assert.Equal(t, "The release date is an invalid date", page.Errors()["releaseDate"])
}

func TestReleaseDate_RerendersStoredBody(t *testing.T) {
	page, _ := newReleaseDate(form.Input{"knowReleaseDate": "yes", "releaseDate": "2026-06-01"}, appWith(application.Data{}), "")
	assert.Empty(t, page.Errors())
	assert.Equal(t, []form.Answer{
		{Question: "Do you know the person's release date?", Answer: "Yes"},
		{Question: "Release date", Answer: "1 June 2026"},
	}, page.Response())
}

func TestPlacementDate_TitleUsesReleaseDate(t *testing.T) {
	page, err := newPlacementDate(form.Input{"startDateSameAsReleaseDate": "yes"}, appWith(application.Data{}), "")
	require.NoError(t, err)
	assert.Equal(t, "Is the release date the date you want the placement to start?", page.Title())
	assert.Empty(t, page.Errors())

	data := application.Data{}
	data.Set(TaskBasicInformation, PageReleaseDate, application.Body{"knowReleaseDate": "yes", "releaseDate": "2026-06-01"})
	page, err = newPlacementDate(form.Input{"startDateSameAsReleaseDate": "yes"}, appWith(data), "")
	require.NoError(t, err)
	assert.Equal(t, "Is 1 June 2026 the date you want the placement to start?", page.Title())
	assert.Equal(t, PagePlacementPurpose, page.Next())
}

func TestPlacementPurpose_Response(t *testing.T) {
	page, _ := newPlacementPurpose(form.Input{"placementPurposes": []any{"publicProtection", "preventContact", "bogus"}}, appWith(application.Data{}), "")
	assert.Empty(t, page.Errors())
	assert.Equal(t, []form.Answer{
		{Question: "What is the purpose of the Approved Premises (AP) placement?", Answer: "Public protection, Prevent contact"},
	}, page.Response())

	page, _ = newPlacementPurpose(form.Input{"placementPurposes": "otherReason"}, appWith(application.Data{}), "")
	assert.Equal(t, "You must explain the reason", page.Errors()["otherReason"])
	assert.Equal(t, "", page.Next(), "last page returns to the task list")
}
