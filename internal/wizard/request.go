package wizard

import (
	"github.com/HendryAvila/apply-wizard/internal/application"
	"github.com/HendryAvila/apply-wizard/internal/casestore"
	"github.com/HendryAvila/apply-wizard/internal/form"
)

// Request identifies one page interaction.
type Request struct {
	ApplicationID string
	Task          string
	Page          string
	// From is the slug of the page the actor came from, if any.
	From string
	// Token is passed through to reference data services.
	Token string
	// SessionID scopes snapshots to one actor session.
	SessionID string
	// Actor is recorded on clarification notes.
	Actor string
	// Application is the request-scoped copy of the case record. The
	// controller fills it on first use and reuses it afterwards.
	Application *application.Application
}

// View is what Show renders.
type View struct {
	Form     string                  `json:"form"`
	Task     string                  `json:"task"`
	Page     string                  `json:"page"`
	Title    string                  `json:"title"`
	Body     any                     `json:"body"`
	Errors   form.Errors             `json:"errors"`
	Summary  []form.ErrorSummaryItem `json:"errorSummary"`
	Input    form.Input              `json:"input"`
	Back     string                  `json:"back"`
	ReadOnly bool                    `json:"readOnly"`
	// Instance is the built page, for renderers that need page-specific
	// data such as option lists.
	Instance form.Page `json:"-"`
}

// Outcome is the result of a submission.
type Outcome struct {
	Redirect string      `json:"redirect"`
	Saved    bool        `json:"saved"`
	Next     string      `json:"next,omitempty"`
	Errors   form.Errors `json:"errors,omitempty"`
	// Invalidated reports that a completed review was cleared.
	Invalidated          bool            `json:"invalidated,omitempty"`
	InformationRequested bool            `json:"informationRequested,omitempty"`
	Note                 *casestore.Note `json:"note,omitempty"`
}
