// Package shared holds page shapes reused across forms: the yes/no with
// optional detail question block and the terminal review page.
package shared

import (
	"fmt"

	"github.com/HendryAvila/apply-wizard/internal/application"
	"github.com/HendryAvila/apply-wizard/internal/fields"
	"github.com/HendryAvila/apply-wizard/internal/form"
)

// Question is one yes/no question with a free-text follow-up. DetailWhen
// names the answer that reveals the follow-up; it defaults to "yes".
type Question struct {
	Key        string
	Question   string
	Error      string
	DetailWhen string
	DetailHint string
	// DetailOptional skips the "must provide detail" check.
	DetailOptional bool
}

func (q Question) detailKey() string {
	return q.Key + "Detail"
}

func (q Question) revealsDetail(answer string) bool {
	when := q.DetailWhen
	if when == "" {
		when = fields.Yes
	}
	return answer == when
}

// YesNoSpec declares a page made of yes/no questions.
type YesNoSpec struct {
	Slug      string
	Title     string
	Questions []Question
	NextPage  string
	// PreviousPage, when set, replaces the navigation-supplied back link.
	PreviousPage string
}

// YesNoPage is a page built from a YesNoSpec. Its body is the flat map of
// answers and revealed details.
type YesNoPage struct {
	form.Base
	spec YesNoSpec
	body map[string]string
}

// Descriptor returns the form entry for the spec.
func (s YesNoSpec) Descriptor() form.Descriptor {
	return form.Descriptor{
		Slug: s.Slug,
		New: func(input form.Input, app *application.Application, previous string) (form.Page, error) {
			return s.build(input, app, previous), nil
		},
		Links: []string{s.NextPage, s.PreviousPage},
	}
}

func (s YesNoSpec) build(input form.Input, app *application.Application, previous string) *YesNoPage {
	body := make(map[string]string, len(s.Questions)*2)
	for _, q := range s.Questions {
		answer := fields.String(input, q.Key)
		body[q.Key] = answer
		if q.revealsDetail(answer) {
			body[q.detailKey()] = fields.String(input, q.detailKey())
		}
	}
	return &YesNoPage{Base: form.Base{App: app, From: previous}, spec: s, body: body}
}

func (p *YesNoPage) Title() string { return p.spec.Title }

func (p *YesNoPage) Body() any { return p.body }

func (p *YesNoPage) Next() string { return p.spec.NextPage }

func (p *YesNoPage) Previous() string {
	if p.spec.PreviousPage != "" {
		return p.spec.PreviousPage
	}
	return p.From
}

func (p *YesNoPage) Errors() form.Errors {
	errs := form.Errors{}
	for _, q := range p.spec.Questions {
		answer := p.body[q.Key]
		if !fields.IsYesNo(answer) {
			errs.Add(q.Key, q.Error)
			continue
		}
		if q.revealsDetail(answer) && !q.DetailOptional && fields.Blank(p.body[q.detailKey()]) {
			hint := q.DetailHint
			if hint == "" {
				hint = "You must provide details"
			}
			errs.Add(q.detailKey(), hint)
		}
	}
	return errs
}

func (p *YesNoPage) Response() []form.Answer {
	out := make([]form.Answer, 0, len(p.spec.Questions))
	for _, q := range p.spec.Questions {
		answer := fields.YesNoLabel(p.body[q.Key])
		if detail := p.body[q.detailKey()]; detail != "" {
			answer = fmt.Sprintf("%s - %s", answer, detail)
		}
		out = append(out, form.Answer{Question: q.Question, Answer: answer})
	}
	return out
}
