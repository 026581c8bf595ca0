package apply

import (
	"context"
	"fmt"

	"github.com/HendryAvila/apply-wizard/internal/application"
	"github.com/HendryAvila/apply-wizard/internal/fields"
	"github.com/HendryAvila/apply-wizard/internal/form"
)

// Reference data service names used by the prison information page.
const (
	ServicePrisonCaseNotes = "prisonCaseNotes"
	ServiceAdjudications   = "adjudications"
)

// CaseNote is a prison case note that can be attached to the application.
type CaseNote struct {
	ID         string `json:"id"`
	CreatedAt  string `json:"createdAt"`
	Type       string `json:"type"`
	Subtype    string `json:"subType"`
	Note       string `json:"note"`
	AuthorName string `json:"authorName"`
}

// Adjudication is a finding recorded against the person in custody.
type Adjudication struct {
	ID                 string `json:"id"`
	ReportedAt         string `json:"reportedAt"`
	Establishment      string `json:"establishment"`
	OffenceDescription string `json:"offenceDescription"`
	Finding            string `json:"finding"`
}

type caseNotesBody struct {
	SelectedCaseNotes []CaseNote     `json:"selectedCaseNotes"`
	MoreDetail        string         `json:"moreDetail,omitempty"`
	Adjudications     []Adjudication `json:"adjudications"`
}

// CaseNotes lets the caseworker pick prison case notes relevant to the
// placement. Adjudications are imported alongside them.
type CaseNotes struct {
	form.Base
	body      caseNotesBody
	available []CaseNote
}

func newCaseNotes(input form.Input, app *application.Application, previous string) (form.Page, error) {
	return &CaseNotes{
		Base: form.Base{App: app, From: previous},
		body: caseNotesBody{
			SelectedCaseNotes: decodeList[CaseNote](input["selectedCaseNotes"]),
			MoreDetail:        fields.String(input, "moreDetail"),
			Adjudications:     decodeList[Adjudication](input["adjudications"]),
		},
	}, nil
}

// initializeCaseNotes resolves the submitted case note ids against the
// notes held for the person.
func initializeCaseNotes(ctx context.Context, input form.Input, app *application.Application, previous, token string, svc form.Services) (form.Page, error) {
	var notes []CaseNote
	if err := svc.Fetch(ctx, ServicePrisonCaseNotes, token, app.CRN, &notes); err != nil {
		return nil, fmt.Errorf("fetching prison case notes: %w", err)
	}
	var adjudications []Adjudication
	if err := svc.Fetch(ctx, ServiceAdjudications, token, app.CRN, &adjudications); err != nil {
		return nil, fmt.Errorf("fetching adjudications: %w", err)
	}

	page, _ := newCaseNotes(input, app, previous)
	p := page.(*CaseNotes)
	p.available = notes
	p.body.Adjudications = adjudications

	if ids := fields.Strings(input, "caseNoteIds"); len(ids) > 0 {
		p.body.SelectedCaseNotes = nil
		for _, n := range notes {
			if fields.Contains(ids, n.ID) {
				p.body.SelectedCaseNotes = append(p.body.SelectedCaseNotes, n)
			}
		}
	}
	if p.body.SelectedCaseNotes == nil {
		p.body.SelectedCaseNotes = []CaseNote{}
	}
	return p, nil
}

func (p *CaseNotes) Title() string { return "Prison information" }

// Available lists the case notes offered for selection.
func (p *CaseNotes) Available() []CaseNote { return p.available }

func (p *CaseNotes) Body() any { return p.body }

func (p *CaseNotes) Next() string { return "" }

func (p *CaseNotes) Previous() string { return "" }

// Errors is always empty: attaching case notes is optional.
func (p *CaseNotes) Errors() form.Errors { return form.Errors{} }

func (p *CaseNotes) Response() []form.Answer {
	out := make([]form.Answer, 0, len(p.body.SelectedCaseNotes)+2)
	if len(p.body.SelectedCaseNotes) == 0 {
		out = append(out, form.Answer{Question: "Selected prison case notes", Answer: "No case notes selected"})
	}
	for _, n := range p.body.SelectedCaseNotes {
		out = append(out, form.Answer{
			Question: fmt.Sprintf("%s: %s", fields.FormatDate(n.CreatedAt), n.Type),
			Answer:   n.Note,
		})
	}
	if !fields.Blank(p.body.MoreDetail) {
		out = append(out, form.Answer{Question: "Additional information", Answer: p.body.MoreDetail})
	}
	out = append(out, form.Answer{Question: "Adjudications", Answer: fields.Pluralize(len(p.body.Adjudications), "adjudication")})
	return out
}

var prisonInformation = form.Task{
	Slug:  TaskPrisonInformation,
	Title: "Review prison information",
	Pages: []form.Descriptor{
		{Slug: PageCaseNotes, New: newCaseNotes, Initialize: initializeCaseNotes},
	},
}
