package form

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownPage matches any *UnknownPageError via errors.Is.
	ErrUnknownPage = errors.New("unknown page")
	// ErrMissingSessionData matches any *MissingSessionDataError via errors.Is.
	ErrMissingSessionData = errors.New("missing session data")
)

// UnknownPageError is returned when (task, page) is not in a Definition.
// Routing layers answer "not found" for it.
type UnknownPageError struct {
	Form string
	Task string
	Page string
}

func (e *UnknownPageError) Error() string {
	if e.Page == "" {
		return fmt.Sprintf("%s form: unknown task %q", e.Form, e.Task)
	}
	return fmt.Sprintf("%s form: unknown page %q in task %q", e.Form, e.Page, e.Task)
}

func (e *UnknownPageError) Is(target error) bool {
	return target == ErrUnknownPage
}

// MissingSessionDataError is returned when an answer another computation
// depends on has not been recorded.
type MissingSessionDataError struct {
	Task  string
	Page  string
	Field string
}

func (e *MissingSessionDataError) Error() string {
	return fmt.Sprintf("question %q on page %s/%s has not been answered", e.Field, e.Task, e.Page)
}

func (e *MissingSessionDataError) Is(target error) bool {
	return target == ErrMissingSessionData
}
