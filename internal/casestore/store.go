// Package casestore persists applications, the assessments made of them
// and the clarification notes assessors raise.
package casestore

import (
	"context"
	"errors"
	"fmt"

	"github.com/HendryAvila/apply-wizard/internal/application"
)

// ErrNotFound matches any *NotFoundError via errors.Is.
var ErrNotFound = errors.New("application not found")

// NotFoundError is returned when no application has the given id.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("application %q not found", e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// Store is the case store the wizard reads and writes applications
// through. Implementations do not retry; every I/O error is returned.
type Store interface {
	Create(ctx context.Context, crn string) (*application.Application, error)
	Find(ctx context.Context, id string) (*application.Application, error)
	// Update writes the application's data. Last write wins.
	Update(ctx context.Context, app *application.Application) error
	// Submit writes the application's terminal status and document.
	Submit(ctx context.Context, app *application.Application) error
}

// Note is a request for more information raised by an assessor.
type Note struct {
	ID            string `json:"id"`
	ApplicationID string `json:"applicationId"`
	Query         string `json:"query"`
	CreatedBy     string `json:"createdBy"`
	CreatedAt     string `json:"createdAt"`
}

// NoteCreator records clarification notes.
type NoteCreator interface {
	CreateNote(ctx context.Context, applicationID, query, createdBy string) (*Note, error)
}
