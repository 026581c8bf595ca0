// Package tools implements the MCP tool handlers that drive the apply and
// assess forms.
//
// Each tool receives its dependencies via its struct and exposes a
// Definition for registration and a Handle compatible with mcp-go's
// CallToolRequest signature. Problems the caller can fix (unknown pages,
// missing applications, read-only records) come back as tool errors;
// anything else is returned as an error.
package tools

import (
	"errors"
	"fmt"
	"sort"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/apply-wizard/internal/casestore"
	"github.com/HendryAvila/apply-wizard/internal/form"
	"github.com/HendryAvila/apply-wizard/internal/wizard"
)

// DefaultForm is used when a call does not name a form.
const DefaultForm = "apply"

// Controllers maps form names to the controller that drives them.
type Controllers map[string]*wizard.Controller

// Names returns the form names, for enum descriptions.
func (c Controllers) Names() []string {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// pick resolves the controller for the call's form argument.
func (c Controllers) pick(req mcp.CallToolRequest) (*wizard.Controller, *mcp.CallToolResult) {
	name := req.GetString("form", DefaultForm)
	ctrl, ok := c[name]
	if !ok {
		return nil, mcp.NewToolResultError(fmt.Sprintf("Unknown form %q.", name))
	}
	return ctrl, nil
}

// withForm adds the shared "form" argument.
func withForm(names []string) mcp.ToolOption {
	return mcp.WithString("form",
		mcp.Description("Form to drive. Defaults to 'apply'."),
		mcp.Enum(names...),
	)
}

// withApplicationID adds the shared "application_id" argument.
func withApplicationID() mcp.ToolOption {
	return mcp.WithString("application_id",
		mcp.Required(),
		mcp.Description("ID of the application, as returned by apply_start."),
	)
}

// pageOptions are the arguments shared by the page tools.
func pageOptions() []mcp.ToolOption {
	return []mcp.ToolOption{
		withApplicationID(),
		mcp.WithString("task", mcp.Required(), mcp.Description("Task slug, e.g. 'basic-information'.")),
		mcp.WithString("page", mcp.Required(), mcp.Description("Page slug, e.g. 'sentence-type'.")),
		mcp.WithString("session_id", mcp.Description("Caller session; scopes validation snapshots.")),
		mcp.WithString("from", mcp.Description("Slug of the page the caller came from.")),
		mcp.WithString("token", mcp.Description("Bearer token passed to reference data services.")),
	}
}

// requireApplicationID reads application_id or returns a tool error.
func requireApplicationID(req mcp.CallToolRequest) (string, *mcp.CallToolResult) {
	id := req.GetString("application_id", "")
	if id == "" {
		return "", mcp.NewToolResultError("'application_id' is required.")
	}
	return id, nil
}

// pageRequest builds a wizard request from the page tool arguments.
func pageRequest(req mcp.CallToolRequest) (*wizard.Request, *mcp.CallToolResult) {
	id, bad := requireApplicationID(req)
	if bad != nil {
		return nil, bad
	}
	task := req.GetString("task", "")
	page := req.GetString("page", "")
	if task == "" || page == "" {
		return nil, mcp.NewToolResultError("'task' and 'page' are required.")
	}
	return &wizard.Request{
		ApplicationID: id,
		Task:          task,
		Page:          page,
		From:          req.GetString("from", ""),
		Token:         req.GetString("token", ""),
		SessionID:     req.GetString("session_id", ""),
		Actor:         req.GetString("actor", ""),
	}, nil
}

// toolError turns caller mistakes into tool errors and wraps the rest.
func toolError(action string, err error) (*mcp.CallToolResult, error) {
	var (
		unknown *form.UnknownPageError
		missing *form.MissingSessionDataError
	)
	switch {
	case errors.As(err, &unknown):
		return mcp.NewToolResultError(unknown.Error()), nil
	case errors.As(err, &missing):
		return mcp.NewToolResultError(fmt.Sprintf("%v. Complete %s/%s first.", missing, missing.Task, missing.Page)), nil
	case errors.Is(err, casestore.ErrNotFound):
		return mcp.NewToolResultError(err.Error()), nil
	case errors.Is(err, wizard.ErrReadOnly):
		return mcp.NewToolResultError(fmt.Sprintf("%v. Submitted applications cannot be changed.", err)), nil
	case errors.Is(err, wizard.ErrIncomplete):
		return mcp.NewToolResultError(fmt.Sprintf("%v. Complete every task before reviewing or submitting.", err)), nil
	case errors.Is(err, casestore.ErrNotSubmitted):
		return mcp.NewToolResultError(fmt.Sprintf("%v. Only submitted applications can be assessed.", err)), nil
	case errors.Is(err, casestore.ErrUnsupported):
		return mcp.NewToolResultError(err.Error()), nil
	case errors.Is(err, wizard.ErrNotReviewed):
		return mcp.NewToolResultError("Check your answers before submitting: save the check-your-answers review page first."), nil
	default:
		return nil, fmt.Errorf("%s: %w", action, err)
	}
}
