// Package application holds the case record the wizard builds up, and the
// nested task → page → body store that carries every answer saved so far.
//
// The record itself is plain data. Persistence belongs to casestore; the
// navigation rules that mutate Data belong to wizard.
package application

import (
	"fmt"
	"time"
)

// --- Status enum ---

// Status tracks where an application is in its lifecycle.
type Status string

const (
	StatusStarted                     Status = "started"
	StatusRequestedFurtherInformation Status = "requestedFurtherInformation"
	StatusSubmitted                   Status = "submitted"
	StatusWithdrawn                   Status = "withdrawn"
	StatusExpired                     Status = "expired"
	StatusRejected                    Status = "rejected"
)

// terminalStatuses freeze an application: no page may be saved once reached.
var terminalStatuses = map[Status]bool{
	StatusSubmitted: true,
	StatusWithdrawn: true,
	StatusExpired:   true,
	StatusRejected:  true,
}

// validStatuses is the set of recognised lifecycle values.
var validStatuses = map[Status]bool{
	StatusStarted:                     true,
	StatusRequestedFurtherInformation: true,
	StatusSubmitted:                   true,
	StatusWithdrawn:                   true,
	StatusExpired:                     true,
	StatusRejected:                    true,
}

// ValidateStatus returns an error if the status is not recognised.
func ValidateStatus(s Status) error {
	if !validStatuses[s] {
		return fmt.Errorf("invalid application status %q", s)
	}
	return nil
}

// IsTerminal reports whether the status freezes the application.
func (s Status) IsTerminal() bool {
	return terminalStatuses[s]
}

// --- Core record ---

// Application is the root case record. Data is the only part the wizard
// mutates; everything else is owned by the case store.
type Application struct {
	ID          string         `json:"id"`
	CRN         string         `json:"crn"`
	Risks       map[string]any `json:"risks,omitempty"`
	Status      Status         `json:"status"`
	Data        Data           `json:"data"`
	Document    map[string]any `json:"document,omitempty"`
	CreatedAt   string         `json:"createdAt"`
	SubmittedAt string         `json:"submittedAt,omitempty"`
}

// New returns an empty, started application for the given person.
func New(id, crn string) *Application {
	return &Application{
		ID:        id,
		CRN:       crn,
		Status:    StatusStarted,
		Data:      Data{},
		CreatedAt: timeNow().UTC().Format(time.RFC3339),
	}
}

// ReadOnly reports whether the application may no longer be edited.
func (a *Application) ReadOnly() bool {
	return a.Status.IsTerminal()
}

// MarkSubmitted freezes the application with the given rendered document.
func (a *Application) MarkSubmitted(document map[string]any) error {
	if a.ReadOnly() {
		return fmt.Errorf("application %q is already %s", a.ID, a.Status)
	}
	a.Status = StatusSubmitted
	a.Document = document
	a.SubmittedAt = timeNow().UTC().Format(time.RFC3339)
	return nil
}
