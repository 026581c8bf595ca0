package form

import (
	"fmt"

	"github.com/HendryAvila/apply-wizard/internal/application"
)

// ResponseFromApplication reads one recorded field from another page.
// It fails with *MissingSessionDataError when the page or field is absent.
func ResponseFromApplication(app *application.Application, task, page, field string) (any, error) {
	if v, ok := OptionalResponse(app, task, page, field); ok {
		return v, nil
	}
	return nil, &MissingSessionDataError{Task: task, Page: page, Field: field}
}

// OptionalResponse is the non-raising lookup for rendering paths that can
// do without the answer.
func OptionalResponse(app *application.Application, task, page, field string) (any, bool) {
	if app == nil {
		return nil, false
	}
	body, ok := app.Data.Get(task, page)
	if !ok {
		return nil, false
	}
	v, ok := body[field]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// StringResponse is ResponseFromApplication for string answers.
func StringResponse(app *application.Application, task, page, field string) (string, error) {
	v, err := ResponseFromApplication(app, task, page, field)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", &MissingSessionDataError{Task: task, Page: page, Field: field}
	}
	return s, nil
}

// OptionalString is OptionalResponse for string answers.
func OptionalString(app *application.Application, task, page, field string) string {
	v, ok := OptionalResponse(app, task, page, field)
	if !ok {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
