// Package assess declares the assessment form filled in by an assessor
// reviewing a submitted application.
package assess

import (
	"github.com/HendryAvila/apply-wizard/internal/application"
	"github.com/HendryAvila/apply-wizard/internal/fields"
	"github.com/HendryAvila/apply-wizard/internal/form"
	"github.com/HendryAvila/apply-wizard/internal/pages/shared"
)

// Name is the form name used in paths and logs.
const Name = "assess"

const (
	TaskReviewApplication = "review-application"
	TaskCheckYourAnswers  = "check-your-answers"

	PageReview                = "review"
	PageSufficientInformation = "sufficient-information"
)

// --- review ---

type reviewBody struct {
	Reviewed string `json:"reviewed"`
}

// Review asks the assessor to confirm they have read the application.
type Review struct {
	form.Base
	body reviewBody
}

func newReview(input form.Input, app *application.Application, previous string) (form.Page, error) {
	return &Review{
		Base: form.Base{App: app, From: previous},
		body: reviewBody{Reviewed: fields.String(input, "reviewed")},
	}, nil
}

func (p *Review) Title() string { return "Review application and documents" }

func (p *Review) Body() any { return p.body }

func (p *Review) Next() string { return PageSufficientInformation }

func (p *Review) Previous() string { return "" }

func (p *Review) Errors() form.Errors {
	errs := form.Errors{}
	if !fields.IsYesNo(p.body.Reviewed) {
		errs.Add("reviewed", "You must confirm if you have reviewed the application")
	}
	return errs
}

func (p *Review) Response() []form.Answer {
	return []form.Answer{{Question: "Have you reviewed all of the application information?", Answer: fields.YesNoLabel(p.body.Reviewed)}}
}

// --- sufficient-information ---

type sufficientInformationBody struct {
	SufficientInformation string `json:"sufficientInformation"`
	Query                 string `json:"query,omitempty"`
}

// SufficientInformation asks whether the application holds enough
// information to assess. Answering "no" with a query sends the query to
// the applicant instead of saving the page.
type SufficientInformation struct {
	form.Base
	body sufficientInformationBody
}

func newSufficientInformation(input form.Input, app *application.Application, previous string) (form.Page, error) {
	answer := fields.String(input, "sufficientInformation")
	return &SufficientInformation{
		Base: form.Base{App: app, From: previous},
		body: sufficientInformationBody{
			SufficientInformation: answer,
			Query:                 fields.OnlyIf(answer == fields.No, fields.String(input, "query")),
		},
	}, nil
}

func (p *SufficientInformation) Title() string {
	return "Is there enough information in the application for you to make a decision?"
}

func (p *SufficientInformation) Body() any { return p.body }

func (p *SufficientInformation) Next() string { return "" }

func (p *SufficientInformation) Previous() string { return PageReview }

func (p *SufficientInformation) Errors() form.Errors {
	errs := form.Errors{}
	if !fields.IsYesNo(p.body.SufficientInformation) {
		errs.Add("sufficientInformation", "You must confirm if there is enough information in the application to make a decision")
	} else if p.body.SufficientInformation == fields.No && fields.Blank(p.body.Query) {
		errs.Add("query", "You must specify what additional information is required")
	}
	return errs
}

func (p *SufficientInformation) Response() []form.Answer {
	out := []form.Answer{{Question: p.Title(), Answer: fields.YesNoLabel(p.body.SufficientInformation)}}
	if p.body.SufficientInformation == fields.No {
		out = append(out, form.Answer{Question: "What additional information is required?", Answer: p.body.Query})
	}
	return out
}

// Form is the assess form graph.
var Form = form.MustDefine(Name,
	form.Section{
		Title: "Review application",
		Tasks: []form.Task{{
			Slug:  TaskReviewApplication,
			Title: "Review application and documents",
			Pages: []form.Descriptor{
				{Slug: PageReview, New: newReview, Links: []string{PageSufficientInformation}},
				{
					Slug:  PageSufficientInformation,
					New:   newSufficientInformation,
					Links: []string{PageReview},
					InformationRequest: &form.InformationRequest{
						Flag:      "sufficientInformation",
						FlagValue: fields.No,
						Query:     "query",
					},
				},
			},
		}},
	},
	form.Section{
		Title: "Check your answers",
		Tasks: []form.Task{{
			Slug:  TaskCheckYourAnswers,
			Title: "Check your answers",
			Pages: []form.Descriptor{shared.ReviewDescriptor},
		}},
	},
)
