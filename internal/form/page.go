// Package form declares the wizard's page contract and the static graph of
// sections, tasks and pages that every form is built from.
//
// Pages are stateless templates: a Descriptor knows how to build a fresh
// Page instance per request from raw input and the parent application.
// Instances never mutate the application; the wizard package owns writes.
package form

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/HendryAvila/apply-wizard/internal/application"
)

// Input is raw submitted input, or a stored body being re-rendered.
type Input = map[string]any

// Errors maps a field name to a human message. An empty map means valid.
type Errors map[string]string

// Add records a message for a field unless one is already present, so the
// first failing rule for a field wins.
func (e Errors) Add(field, message string) {
	if _, ok := e[field]; !ok {
		e[field] = message
	}
}

// Answer is one question/answer row of a page's human-readable response.
type Answer struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Page is one screen's worth of capture, validation and rendering logic.
type Page interface {
	// Title is the human heading of the page.
	Title() string
	// Body is the typed subset of input this page keeps.
	Body() any
	// Errors validates Body against the application context.
	Errors() Errors
	// Next is the page slug to show after a successful save, or "" to
	// return to the task list.
	Next() string
	// Previous is the page slug the back link points to.
	Previous() string
	// Response renders Body as ordered question/answer rows.
	Response() []Answer
}

// Services is the bag of named external data fetchers handed to pages
// that must look something up before they can be built.
type Services interface {
	Fetch(ctx context.Context, name, token, key string, out any) error
}

// Constructor builds a page synchronously.
type Constructor func(input Input, app *application.Application, previous string) (Page, error)

// Initializer builds a page after fetching external reference data.
type Initializer func(ctx context.Context, input Input, app *application.Application, previous, token string, svc Services) (Page, error)

// InformationRequest marks a page whose submission may divert into
// "request more information" instead of the normal save cycle. The
// diversion happens when Flag holds FlagValue and Query is non-empty.
type InformationRequest struct {
	Flag      string
	FlagValue string
	Query     string
}

// Descriptor is the typed entry for one (task, page) in a Definition.
type Descriptor struct {
	Slug       string
	New        Constructor
	Initialize Initializer
	// Links lists every page slug Next or Previous can return.
	Links              []string
	InformationRequest *InformationRequest
}

// Build constructs a page instance, preferring Initialize when present.
func (d Descriptor) Build(ctx context.Context, input Input, app *application.Application, previous, token string, svc Services) (Page, error) {
	if input == nil {
		input = Input{}
	}
	if d.Initialize != nil {
		return d.Initialize(ctx, input, app, previous, token, svc)
	}
	return d.New(input, app, previous)
}

// EncodeBody renders a typed page body into the persisted body shape.
func EncodeBody(body any) (application.Body, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encoding page body: %w", err)
	}
	out := application.Body{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("page body must encode to a JSON object: %w", err)
	}
	return out, nil
}

// Base carries what every page keeps from its constructor. Embedding it
// gives a page the default Previous behaviour.
type Base struct {
	App  *application.Application
	From string
}

// Previous returns the constructor-supplied previous slug.
func (b Base) Previous() string {
	return b.From
}
