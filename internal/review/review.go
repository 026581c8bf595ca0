// Package review builds the check-your-answers summary of an application
// and owns the rule that invalidates a completed review.
package review

import (
	"errors"
	"fmt"

	"github.com/HendryAvila/apply-wizard/internal/application"
	"github.com/HendryAvila/apply-wizard/internal/form"
	"github.com/HendryAvila/apply-wizard/internal/pages/apply"
)

// Row is one question/answer line of a card.
type Row struct {
	Key   string `json:"key"`
	Value string `json:"value"`
	// Href is the edit link, empty in read-only views.
	Href string `json:"href,omitempty"`
}

// Action is a call-to-action appended to a task's card.
type Action struct {
	Text string `json:"text"`
	Href string `json:"href"`
}

// Card summarises one task.
type Card struct {
	Task   string  `json:"task"`
	Title  string  `json:"title"`
	Rows   []Row   `json:"rows"`
	Action *Action `json:"action,omitempty"`
}

// Section groups the cards of one form section.
type Section struct {
	Title string `json:"title"`
	Cards []Card `json:"cards"`
}

// actionFunc renders a card action for an application id.
type actionFunc func(applicationID string) Action

// callsToAction holds the per-task actions appended after the answers.
var callsToAction = map[string]actionFunc{
	apply.TaskOASysImport: func(id string) Action {
		return Action{
			Text: "View detailed risk information",
			Href: fmt.Sprintf("/applications/%s/risk-information", id),
		}
	},
}

// Options controls how the summary is rendered.
type Options struct {
	// Editable adds per-row edit links; submitted views leave it false.
	Editable bool
	// Actions appends the per-task calls-to-action.
	Actions bool
}

// Build walks every task before the review task, rebuilds each saved page
// from its stored body and collects its response rows. A page whose
// rebuild needs an answer that is no longer recorded is skipped. Tasks with no
// saved page are left out, as are sections that end up empty.
func Build(def *form.Definition, app *application.Application, opts Options) ([]Section, error) {
	review := def.ReviewTask().Slug
	var out []Section
	for _, section := range def.Sections {
		s := Section{Title: section.Title}
		for _, task := range section.Tasks {
			if task.Slug == review || app.Data.PageCount(task.Slug) == 0 {
				continue
			}
			card, err := buildCard(task, app, opts)
			if err != nil {
				return nil, err
			}
			s.Cards = append(s.Cards, card)
		}
		if len(s.Cards) > 0 {
			out = append(out, s)
		}
	}
	return out, nil
}

func buildCard(task form.Task, app *application.Application, opts Options) (Card, error) {
	card := Card{Task: task.Slug, Title: task.Title, Rows: []Row{}}
	for _, desc := range task.Pages {
		body, ok := app.Data.Get(task.Slug, desc.Slug)
		if !ok {
			continue
		}
		page, err := desc.New(form.Input(body), app, "")
		if errors.Is(err, form.ErrMissingSessionData) {
			// Left behind on a branch the answers no longer reach.
			continue
		}
		if err != nil {
			return Card{}, fmt.Errorf("rebuilding %s/%s: %w", task.Slug, desc.Slug, err)
		}
		for _, answer := range page.Response() {
			row := Row{Key: answer.Question, Value: answer.Answer}
			if opts.Editable {
				row.Href = form.PagePath(app.ID, task.Slug, desc.Slug)
			}
			card.Rows = append(card.Rows, row)
		}
	}
	if opts.Actions {
		if fn, ok := callsToAction[task.Slug]; ok {
			a := fn(app.ID)
			card.Action = &a
		}
	}
	return card, nil
}

// Invalidate removes recorded review data after a page of any other task
// is saved. It does not compare old and new bodies: re-saving identical
// answers still clears the review. It reports whether anything was removed.
func Invalidate(def *form.Definition, data application.Data, savedTask string) bool {
	review := def.ReviewTask().Slug
	if savedTask == review || !data.HasTask(review) {
		return false
	}
	data.Remove(review)
	return true
}

// Document renders the read-only summary stored on submission.
func Document(def *form.Definition, app *application.Application) (map[string]any, error) {
	sections, err := Build(def, app, Options{})
	if err != nil {
		return nil, err
	}
	body, err := form.EncodeBody(struct {
		Form     string    `json:"form"`
		Sections []Section `json:"sections"`
	}{Form: def.Name, Sections: sections})
	if err != nil {
		return nil, err
	}
	return body, nil
}
