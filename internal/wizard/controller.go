// Package wizard drives one form over an application: it shows pages,
// validates and persists submissions, and decides where to go next.
//
// Each call handles one request. Within a Save, validation happens before
// persistence and persistence before Next is computed, so branching can
// read the answer that was just saved. Persistence is all-or-nothing: a
// failed store update leaves the cached application as it was.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/HendryAvila/apply-wizard/internal/application"
	"github.com/HendryAvila/apply-wizard/internal/casestore"
	"github.com/HendryAvila/apply-wizard/internal/fields"
	"github.com/HendryAvila/apply-wizard/internal/form"
	"github.com/HendryAvila/apply-wizard/internal/metrics"
	"github.com/HendryAvila/apply-wizard/internal/review"
	"github.com/HendryAvila/apply-wizard/internal/snapshot"
	"github.com/HendryAvila/apply-wizard/internal/tasklist"
)

var (
	// ErrReadOnly is returned when writing to an application in a
	// terminal status.
	ErrReadOnly = errors.New("application is read-only")
	// ErrNotReviewed is returned by Submit before the review task is done.
	ErrNotReviewed = errors.New("application answers have not been reviewed")
	// ErrIncomplete is returned when reviewing or submitting while a task
	// other than the review is still incomplete.
	ErrIncomplete = errors.New("application has incomplete tasks")
	// ErrNoNoteCreator is returned when an information request is made
	// against a controller built without a NoteCreator.
	ErrNoNoteCreator = errors.New("information requests are not supported")
)

// Deps are the collaborators of a Controller. Notes, Metrics and Logger
// are optional.
type Deps struct {
	Store     casestore.Store
	Notes     casestore.NoteCreator
	Snapshots snapshot.Store
	Services  form.Services
	Metrics   *metrics.Metrics
	Logger    *slog.Logger
}

// Controller runs the show/validate/persist/redirect cycle for one form.
type Controller struct {
	def  *form.Definition
	deps Deps
	log  *slog.Logger
}

// New returns a controller for def.
func New(def *form.Definition, deps Deps) *Controller {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		def:  def,
		deps: deps,
		log:  logger.With(slog.String("form", def.Name)),
	}
}

// Definition returns the form the controller drives.
func (c *Controller) Definition() *form.Definition {
	return c.def
}

// Start creates an application for the person identified by crn.
func (c *Controller) Start(ctx context.Context, crn string) (*application.Application, error) {
	app, err := c.deps.Store.Create(ctx, crn)
	if err != nil {
		return nil, err
	}
	c.log.Info("application started", slog.String("application", app.ID))
	return app, nil
}

// application returns the request's cached application, loading it once.
func (c *Controller) application(ctx context.Context, req *Request) (*application.Application, error) {
	if req.Application != nil {
		if req.Application.ID != req.ApplicationID {
			return nil, fmt.Errorf("cached application %q does not match request for %q", req.Application.ID, req.ApplicationID)
		}
		return req.Application, nil
	}
	app, err := c.deps.Store.Find(ctx, req.ApplicationID)
	if err != nil {
		return nil, err
	}
	req.Application = app
	return app, nil
}

func (c *Controller) build(ctx context.Context, req *Request, desc form.Descriptor, input form.Input, app *application.Application) (form.Page, error) {
	page, err := desc.Build(ctx, input, app, req.From, req.Token, c.deps.Services)
	if err != nil {
		c.deps.Metrics.BuildFailed(c.def.Name, req.Task)
		return nil, fmt.Errorf("building %s/%s: %w", req.Task, req.Page, err)
	}
	return page, nil
}

// Show builds the page from its stored answers, or from the snapshot of a
// failed save when one is pending for this actor and page.
func (c *Controller) Show(ctx context.Context, req *Request) (*View, error) {
	desc, err := c.def.Lookup(req.Task, req.Page)
	if err != nil {
		return nil, err
	}
	app, err := c.application(ctx, req)
	if err != nil {
		return nil, err
	}

	input := form.Input{}
	if body, ok := app.Data.Get(req.Task, req.Page); ok {
		input = form.Input(body)
	}
	key := c.snapshotKey(req)
	snap, pending, err := c.deps.Snapshots.Take(ctx, key)
	if err != nil {
		return nil, err
	}
	if pending {
		input = snap.UserInput
	}

	page, err := c.build(ctx, req, desc, input, app)
	if err != nil {
		if pending {
			// The errors were never shown; keep them for the next show.
			if perr := c.deps.Snapshots.Put(ctx, key, snap); perr != nil {
				c.log.Warn("restoring snapshot failed",
					slog.String("application", app.ID),
					slog.String("error", perr.Error()),
				)
			}
		}
		return nil, err
	}

	view := &View{
		Form:     c.def.Name,
		Task:     req.Task,
		Page:     req.Page,
		Title:    page.Title(),
		Body:     page.Body(),
		Errors:   form.Errors{},
		Summary:  []form.ErrorSummaryItem{},
		Input:    input,
		ReadOnly: app.ReadOnly(),
		Instance: page,
	}
	if prev := page.Previous(); prev != "" {
		view.Back = form.PagePath(app.ID, req.Task, prev)
	} else {
		view.Back = form.TaskListPath(app.ID)
	}
	if pending {
		view.Errors = snap.Errors
		view.Summary = snap.ErrorSummary
	}
	return view, nil
}

// Save validates input for the requested page. Invalid input is stored as
// a snapshot and redirects back to the page; valid input is persisted,
// clearing any completed review when the page belongs to another task.
func (c *Controller) Save(ctx context.Context, req *Request, input form.Input) (*Outcome, error) {
	started := time.Now()
	out, err := c.save(ctx, req, input)
	switch {
	case err != nil:
		c.deps.Metrics.Save(c.def.Name, req.Task, metrics.OutcomeError, time.Since(started))
	case out.Saved:
		c.deps.Metrics.Save(c.def.Name, req.Task, metrics.OutcomeSaved, time.Since(started))
	default:
		c.deps.Metrics.Save(c.def.Name, req.Task, metrics.OutcomeInvalid, time.Since(started))
	}
	return out, err
}

func (c *Controller) save(ctx context.Context, req *Request, input form.Input) (*Outcome, error) {
	desc, err := c.def.Lookup(req.Task, req.Page)
	if err != nil {
		return nil, err
	}
	app, err := c.application(ctx, req)
	if err != nil {
		return nil, err
	}
	if app.ReadOnly() {
		return nil, fmt.Errorf("%w: %s is %s", ErrReadOnly, app.ID, app.Status)
	}
	if c.def.IsReviewTask(req.Task) {
		if err := c.requireComplete(app); err != nil {
			return nil, err
		}
	}
	if input == nil {
		input = form.Input{}
	}

	page, err := c.build(ctx, req, desc, input, app)
	if err != nil {
		return nil, err
	}

	// Validate.
	if errs := page.Errors(); len(errs) > 0 {
		if err := c.deps.Snapshots.Put(ctx, c.snapshotKey(req), form.NewSnapshot(errs, input)); err != nil {
			return nil, err
		}
		c.log.Debug("page invalid",
			slog.String("application", app.ID),
			slog.String("task", req.Task),
			slog.String("page", req.Page),
			slog.Int("errors", len(errs)),
		)
		return &Outcome{
			Redirect: form.PagePath(app.ID, req.Task, req.Page),
			Errors:   errs,
		}, nil
	}

	// Persist.
	body, err := form.EncodeBody(page.Body())
	if err != nil {
		return nil, err
	}
	data := app.Data.Clone()
	invalidated := review.Invalidate(c.def, data, req.Task)
	data.Set(req.Task, req.Page, body)

	previous := app.Data
	app.Data = data
	if err := c.deps.Store.Update(ctx, app); err != nil {
		app.Data = previous
		return nil, err
	}
	if invalidated {
		c.deps.Metrics.Invalidated()
		c.log.Info("review invalidated",
			slog.String("application", app.ID),
			slog.String("task", req.Task),
		)
	}
	c.log.Info("page saved",
		slog.String("application", app.ID),
		slog.String("task", req.Task),
		slog.String("page", req.Page),
	)

	// Redirect.
	out := &Outcome{Saved: true, Invalidated: invalidated, Next: page.Next()}
	if out.Next != "" {
		out.Redirect = form.PagePath(app.ID, req.Task, out.Next)
	} else {
		out.Redirect = form.TaskListPath(app.ID)
	}
	return out, nil
}

// SaveWithInformationRequest handles pages that can ask for more
// information. When the page declares an information request, the flag
// holds its trigger value and the query is not blank, a clarification note
// is created and the outcome redirects to the confirmation page without
// validating or saving anything. Otherwise it is Save.
func (c *Controller) SaveWithInformationRequest(ctx context.Context, req *Request, input form.Input) (*Outcome, error) {
	desc, err := c.def.Lookup(req.Task, req.Page)
	if err != nil {
		return nil, err
	}
	ir := desc.InformationRequest
	if ir == nil || fields.String(input, ir.Flag) != ir.FlagValue || fields.Blank(fields.String(input, ir.Query)) {
		return c.Save(ctx, req, input)
	}

	started := time.Now()
	if c.deps.Notes == nil {
		return nil, ErrNoNoteCreator
	}
	app, err := c.application(ctx, req)
	if err != nil {
		return nil, err
	}
	if app.ReadOnly() {
		return nil, fmt.Errorf("%w: %s is %s", ErrReadOnly, app.ID, app.Status)
	}
	note, err := c.deps.Notes.CreateNote(ctx, req.ApplicationID, fields.String(input, ir.Query), req.Actor)
	if err != nil {
		c.deps.Metrics.Save(c.def.Name, req.Task, metrics.OutcomeError, time.Since(started))
		return nil, err
	}
	c.deps.Metrics.Save(c.def.Name, req.Task, metrics.OutcomeInformationRequest, time.Since(started))
	c.log.Info("information requested",
		slog.String("application", req.ApplicationID),
		slog.String("note", note.ID),
	)
	return &Outcome{
		Redirect:             form.ConfirmationPath(req.ApplicationID),
		InformationRequested: true,
		Note:                 note,
	}, nil
}

// TaskList computes the task list of the request's application.
func (c *Controller) TaskList(ctx context.Context, req *Request) (tasklist.List, error) {
	app, err := c.application(ctx, req)
	if err != nil {
		return tasklist.List{}, err
	}
	return tasklist.Build(c.def, app.Data), nil
}

// CheckYourAnswers builds the editable review summary.
func (c *Controller) CheckYourAnswers(ctx context.Context, req *Request) ([]review.Section, error) {
	app, err := c.application(ctx, req)
	if err != nil {
		return nil, err
	}
	return review.Build(c.def, app, review.Options{Editable: !app.ReadOnly(), Actions: true})
}

// Submitted builds the read-only view of an application.
func (c *Controller) Submitted(ctx context.Context, req *Request) ([]review.Section, error) {
	app, err := c.application(ctx, req)
	if err != nil {
		return nil, err
	}
	return review.Build(c.def, app, review.Options{})
}

func (c *Controller) requireComplete(app *application.Application) error {
	if tasklist.ReadyForReview(c.def, app.Data) {
		return nil
	}
	var missing []string
	for _, ref := range c.def.Tasks() {
		if !c.def.IsReviewTask(ref.Slug) && !tasklist.IsCompleted(app.Data, ref.Slug) {
			missing = append(missing, ref.Slug)
		}
	}
	return fmt.Errorf("%w: %s", ErrIncomplete, strings.Join(missing, ", "))
}

// Submit freezes a reviewed application and hands it to the case store.
// Every task must be complete, the review included.
func (c *Controller) Submit(ctx context.Context, req *Request) (*Outcome, error) {
	app, err := c.application(ctx, req)
	if err != nil {
		return nil, err
	}
	if app.ReadOnly() {
		return nil, fmt.Errorf("%w: %s is %s", ErrReadOnly, app.ID, app.Status)
	}
	if err := c.requireComplete(app); err != nil {
		return nil, err
	}
	if !tasklist.IsCompleted(app.Data, c.def.ReviewTask().Slug) {
		return nil, ErrNotReviewed
	}

	doc, err := review.Document(c.def, app)
	if err != nil {
		return nil, err
	}
	before := *app
	if err := app.MarkSubmitted(doc); err != nil {
		return nil, err
	}
	if err := c.deps.Store.Submit(ctx, app); err != nil {
		*app = before
		return nil, err
	}
	c.deps.Metrics.Submitted()
	c.log.Info("application submitted", slog.String("application", app.ID))
	return &Outcome{Saved: true, Redirect: form.SubmittedPath(app.ID)}, nil
}

func (c *Controller) snapshotKey(req *Request) string {
	return snapshot.Key(c.def.Name, req.SessionID, req.ApplicationID, req.Task, req.Page)
}
