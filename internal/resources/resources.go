// Package resources implements MCP resource handlers for applications.
//
// Resources provide read-only data that the host can consume for context.
// They use URI-based addressing (apply://...) following MCP conventions.
package resources

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/apply-wizard/internal/casestore"
	"github.com/HendryAvila/apply-wizard/internal/tasklist"
	"github.com/HendryAvila/apply-wizard/internal/wizard"
)

const (
	statusPrefix = "apply://applications/"
	statusSuffix = "/status"
)

// Handler manages application resource endpoints.
type Handler struct {
	wizard *wizard.Controller
}

// NewHandler creates a resource Handler with its dependencies.
func NewHandler(w *wizard.Controller) *Handler {
	return &Handler{wizard: w}
}

// Status is the JSON document served for one application.
type Status struct {
	ID             string        `json:"id"`
	CRN            string        `json:"crn"`
	Status         string        `json:"status"`
	ReadOnly       bool          `json:"readOnly"`
	Summary        string        `json:"summary"`
	ReadyForReview bool          `json:"readyForReview"`
	TaskList       tasklist.List `json:"taskList"`
	SubmittedAt    string        `json:"submittedAt,omitempty"`
}

// StatusTemplate returns the MCP resource template for application status.
func (h *Handler) StatusTemplate() mcp.ResourceTemplate {
	return mcp.NewResourceTemplate(
		statusPrefix+"{id}"+statusSuffix,
		"Application Status",
		mcp.WithTemplateDescription("Lifecycle status and task list progress of one application"),
		mcp.WithTemplateMIMEType("application/json"),
	)
}

// HandleStatus returns the status of the application named in the URI.
func (h *Handler) HandleStatus(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uri := req.Params.URI
	id, ok := applicationID(uri)
	if !ok {
		return errorResource(uri, fmt.Sprintf("expected %s{id}%s", statusPrefix, statusSuffix)), nil
	}

	wreq := &wizard.Request{ApplicationID: id}
	list, err := h.wizard.TaskList(ctx, wreq)
	if errors.Is(err, casestore.ErrNotFound) {
		return errorResource(uri, err.Error()), nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading application %q: %w", id, err)
	}

	app := wreq.Application
	status := Status{
		ID:             app.ID,
		CRN:            app.CRN,
		Status:         string(app.Status),
		ReadOnly:       app.ReadOnly(),
		Summary:        list.Summary(),
		ReadyForReview: tasklist.ReadyForReview(h.wizard.Definition(), app.Data),
		TaskList:       list,
		SubmittedAt:    app.SubmittedAt,
	}
	data, err := json.MarshalIndent(status, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling status: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

// applicationID extracts {id} from apply://applications/{id}/status.
func applicationID(uri string) (string, bool) {
	rest, ok := strings.CutPrefix(uri, statusPrefix)
	if !ok {
		return "", false
	}
	id, ok := strings.CutSuffix(rest, statusSuffix)
	if !ok || id == "" || strings.Contains(id, "/") {
		return "", false
	}
	return id, true
}

// errorResource returns a resource with an error message.
func errorResource(uri, message string) []mcp.ResourceContents {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "text/plain",
			Text:     fmt.Sprintf("Error: %s", message),
		},
	}
}
