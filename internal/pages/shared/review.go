package shared

import (
	"github.com/HendryAvila/apply-wizard/internal/application"
	"github.com/HendryAvila/apply-wizard/internal/fields"
	"github.com/HendryAvila/apply-wizard/internal/form"
)

// ReviewSlug is the page slug of the terminal check-your-answers task.
const ReviewSlug = "review"

type reviewBody struct {
	Reviewed string `json:"reviewed"`
}

// Review is the "I have checked my answers" marker page. Recording it is
// what completes the terminal task.
type Review struct {
	form.Base
	body reviewBody
}

// NewReview builds the review marker page.
func NewReview(input form.Input, app *application.Application, previous string) (form.Page, error) {
	return &Review{
		Base: form.Base{App: app, From: previous},
		body: reviewBody{Reviewed: fields.String(input, "reviewed")},
	}, nil
}

// ReviewDescriptor is the form entry for the review page.
var ReviewDescriptor = form.Descriptor{Slug: ReviewSlug, New: NewReview}

func (p *Review) Title() string { return "Check your answers" }

func (p *Review) Body() any { return p.body }

func (p *Review) Next() string { return "" }

func (p *Review) Previous() string { return "" }

func (p *Review) Errors() form.Errors {
	errs := form.Errors{}
	if p.body.Reviewed != "1" {
		errs.Add("reviewed", "You should confirm you have reviewed your answers before submitting")
	}
	return errs
}

func (p *Review) Response() []form.Answer {
	answer := "No"
	if p.body.Reviewed == "1" {
		answer = "Yes"
	}
	return []form.Answer{{Question: "Have you reviewed your answers?", Answer: answer}}
}
