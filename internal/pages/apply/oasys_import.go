package apply

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/HendryAvila/apply-wizard/internal/application"
	"github.com/HendryAvila/apply-wizard/internal/fields"
	"github.com/HendryAvila/apply-wizard/internal/form"
)

// Reference data service names used by the OASys import pages.
const (
	ServiceOASysSelections = "oasysSelections"
	ServiceRoshSummary     = "roshSummary"
	ServiceRiskToSelf      = "riskToSelf"
)

// OASysSection is one selectable section of the person's OASys record.
type OASysSection struct {
	Section             int    `json:"section"`
	Name                string `json:"name"`
	LinkedToHarm        bool   `json:"linkedToHarm"`
	LinkedToReOffending bool   `json:"linkedToReOffending"`
}

// OASysQuestion is one imported OASys question with its recorded answer.
type OASysQuestion struct {
	Label          string `json:"label"`
	QuestionNumber string `json:"questionNumber"`
	Answer         string `json:"answer"`
}

// --- optional-oasys-sections ---

// sectionRef is a chosen OASys section. The name is stored with the
// number so the summary can be rebuilt without asking OASys again.
type sectionRef struct {
	Section int    `json:"section"`
	Name    string `json:"name"`
}

type optionalSectionsBody struct {
	NeedsLinkedToReoffending []sectionRef `json:"needsLinkedToReoffending"`
	OtherNeeds               []sectionRef `json:"otherNeeds"`
}

// OptionalOASysSections lets the caseworker pick which non-mandatory
// OASys needs to import. The option list comes from OASys itself.
type OptionalOASysSections struct {
	form.Base
	body     optionalSectionsBody
	linked   []OASysSection
	unlinked []OASysSection
}

func newOptionalOASysSections(input form.Input, app *application.Application, previous string) (form.Page, error) {
	return &OptionalOASysSections{
		Base: form.Base{App: app, From: previous},
		body: optionalSectionsBody{
			NeedsLinkedToReoffending: readSectionRefs(input, "needsLinkedToReoffending"),
			OtherNeeds:               readSectionRefs(input, "otherNeeds"),
		},
	}, nil
}

func initializeOptionalOASysSections(ctx context.Context, input form.Input, app *application.Application, previous, token string, svc form.Services) (form.Page, error) {
	var sections []OASysSection
	if err := svc.Fetch(ctx, ServiceOASysSelections, token, app.CRN, &sections); err != nil {
		return nil, fmt.Errorf("fetching OASys sections: %w", err)
	}
	page, _ := newOptionalOASysSections(input, app, previous)
	p := page.(*OptionalOASysSections)
	for _, s := range sections {
		if s.LinkedToHarm || s.LinkedToReOffending {
			p.linked = append(p.linked, s)
		} else {
			p.unlinked = append(p.unlinked, s)
		}
	}
	p.body.NeedsLinkedToReoffending = offeredSections(p.linked, p.body.NeedsLinkedToReoffending)
	p.body.OtherNeeds = offeredSections(p.unlinked, p.body.OtherNeeds)
	return p, nil
}

// readSectionRefs accepts posted section numbers as well as the stored
// {section, name} entries.
func readSectionRefs(input form.Input, key string) []sectionRef {
	var items []any
	switch v := input[key].(type) {
	case string:
		items = []any{v}
	case []string:
		for _, s := range v {
			items = append(items, s)
		}
	case []any:
		items = v
	case []sectionRef:
		return v
	}
	out := make([]sectionRef, 0, len(items))
	for _, item := range items {
		switch v := item.(type) {
		case string:
			if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
				out = append(out, sectionRef{Section: n})
			}
		case float64:
			out = append(out, sectionRef{Section: int(v)})
		case int:
			out = append(out, sectionRef{Section: v})
		case map[string]any:
			n, ok := fields.Int(form.Input(v), "section")
			if !ok {
				continue
			}
			out = append(out, sectionRef{Section: n, Name: fields.String(form.Input(v), "name")})
		}
	}
	return out
}

// offeredSections keeps the chosen sections that OASys offered and names
// them from the offer.
func offeredSections(offered []OASysSection, chosen []sectionRef) []sectionRef {
	names := make(map[int]string, len(offered))
	for _, s := range offered {
		names[s.Section] = s.Name
	}
	out := make([]sectionRef, 0, len(chosen))
	for _, c := range chosen {
		if name, ok := names[c.Section]; ok {
			out = append(out, sectionRef{Section: c.Section, Name: name})
		}
	}
	return out
}

func (p *OptionalOASysSections) Title() string {
	return "Which of the following sections of OASys do you want to import?"
}

func (p *OptionalOASysSections) Body() any { return p.body }

// Sections returns the offered sections, split by whether OASys links
// them to harm or reoffending.
func (p *OptionalOASysSections) Sections() (linked, other []OASysSection) {
	return p.linked, p.unlinked
}

func (p *OptionalOASysSections) Next() string { return PageRoshSummary }

func (p *OptionalOASysSections) Previous() string { return "" }

// Errors is always empty: every section on this page is optional.
func (p *OptionalOASysSections) Errors() form.Errors { return form.Errors{} }

func (p *OptionalOASysSections) Response() []form.Answer {
	names := func(refs []sectionRef) string {
		if len(refs) == 0 {
			return "None"
		}
		out := make([]string, 0, len(refs))
		for _, r := range refs {
			if r.Name == "" {
				out = append(out, strconv.Itoa(r.Section))
				continue
			}
			out = append(out, r.Name)
		}
		return strings.Join(out, ", ")
	}
	return []form.Answer{
		{Question: "Needs linked to reoffending", Answer: names(p.body.NeedsLinkedToReoffending)},
		{Question: "Other needs", Answer: names(p.body.OtherNeeds)},
	}
}

// --- rosh-summary and risk-to-self ---

// oasysAnswers is the shared shape of pages that show imported OASys
// answers and let the caseworker edit them before they are saved.
type oasysAnswers struct {
	form.Base
	title     string
	field     string
	summaries string
	next      string
	prev      string
	answers   map[string]string
	questions []OASysQuestion
}

type oasysAnswersSpec struct {
	slug  string
	title string
	field string
	// summaries keeps the imported questions next to the answers.
	summaries string
	service   string
	next      string
	prev      string
}

func (s oasysAnswersSpec) build(input form.Input, app *application.Application, previous string, questions []OASysQuestion) *oasysAnswers {
	if questions == nil {
		questions = storedQuestions(input[s.summaries])
	}
	answers := map[string]string{}
	for _, q := range questions {
		answers[q.QuestionNumber] = q.Answer
	}
	if raw, ok := input[s.field].(map[string]any); ok {
		for k, v := range raw {
			answers[k] = fields.String(form.Input{k: v}, k)
		}
	}
	return &oasysAnswers{
		Base:      form.Base{App: app, From: previous},
		title:     s.title,
		field:     s.field,
		summaries: s.summaries,
		next:      s.next,
		prev:      s.prev,
		answers:   answers,
		questions: questions,
	}
}

func (s oasysAnswersSpec) descriptor() form.Descriptor {
	return form.Descriptor{
		Slug: s.slug,
		New: func(input form.Input, app *application.Application, previous string) (form.Page, error) {
			return s.build(input, app, previous, nil), nil
		},
		Initialize: func(ctx context.Context, input form.Input, app *application.Application, previous, token string, svc form.Services) (form.Page, error) {
			var questions []OASysQuestion
			if err := svc.Fetch(ctx, s.service, token, app.CRN, &questions); err != nil {
				return nil, fmt.Errorf("fetching %s: %w", s.service, err)
			}
			return s.build(input, app, previous, questions), nil
		},
		Links: []string{s.next, s.prev},
	}
}

// storedQuestions reads the question list saved by an earlier import.
func storedQuestions(v any) []OASysQuestion {
	if v == nil {
		return nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	var out []OASysQuestion
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}

func (p *oasysAnswers) Title() string { return p.title }

func (p *oasysAnswers) Body() any {
	summaries := make([]OASysQuestion, 0, len(p.questions))
	for _, q := range p.questions {
		summaries = append(summaries, OASysQuestion{Label: q.Label, QuestionNumber: q.QuestionNumber, Answer: p.answers[q.QuestionNumber]})
	}
	return map[string]any{p.field: p.answers, p.summaries: summaries}
}

func (p *oasysAnswers) Next() string { return p.next }

func (p *oasysAnswers) Previous() string { return p.prev }

func (p *oasysAnswers) Errors() form.Errors {
	errs := form.Errors{}
	for _, q := range p.questions {
		if fields.Blank(p.answers[q.QuestionNumber]) {
			errs.Add(p.field+"["+q.QuestionNumber+"]", fmt.Sprintf("You must enter a response for the '%s' question", q.Label))
		}
	}
	return errs
}

// Response lists answers by question number, labelled from the imported
// or stored questions.
func (p *oasysAnswers) Response() []form.Answer {
	labels := map[string]string{}
	for _, q := range p.questions {
		labels[q.QuestionNumber] = q.Label
	}
	keys := make([]string, 0, len(p.answers))
	for k := range p.answers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]form.Answer, 0, len(keys))
	for _, k := range keys {
		question := k
		if l, ok := labels[k]; ok {
			question = fmt.Sprintf("%s %s", k, l)
		}
		out = append(out, form.Answer{Question: strings.TrimSpace(question), Answer: p.answers[k]})
	}
	return out
}

var roshSummary = oasysAnswersSpec{
	slug:      PageRoshSummary,
	title:     "Edit risk information",
	field:     "roshAnswers",
	summaries: "roshSummaries",
	service:   ServiceRoshSummary,
	next:      PageRiskToSelf,
	prev:      PageOptionalOASysSections,
}

var riskToSelf = oasysAnswersSpec{
	slug:      PageRiskToSelf,
	title:     "Edit risk to self information",
	field:     "riskToSelfAnswers",
	summaries: "riskToSelfSummaries",
	service:   ServiceRiskToSelf,
	prev:      PageRoshSummary,
}

var oasysImport = form.Task{
	Slug:  TaskOASysImport,
	Title: "Import OASys",
	Pages: []form.Descriptor{
		{
			Slug:       PageOptionalOASysSections,
			New:        newOptionalOASysSections,
			Initialize: initializeOptionalOASysSections,
			Links:      []string{PageRoshSummary},
		},
		roshSummary.descriptor(),
		riskToSelf.descriptor(),
	},
}
