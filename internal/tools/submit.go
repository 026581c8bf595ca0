package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/apply-wizard/internal/wizard"
)

// SubmitTool handles the apply_submit MCP tool.
type SubmitTool struct {
	forms Controllers
}

// NewSubmitTool creates a SubmitTool.
func NewSubmitTool(forms Controllers) *SubmitTool {
	return &SubmitTool{forms: forms}
}

// Definition returns the MCP tool definition for registration.
func (t *SubmitTool) Definition() mcp.Tool {
	return mcp.NewTool("apply_submit",
		mcp.WithDescription(
			"Submit a reviewed application. The answers are frozen and the application "+
				"becomes read-only. Fails if check-your-answers has not been confirmed "+
				"since the last change.",
		),
		withApplicationID(),
		withForm(t.forms.Names()),
	)
}

// Handle processes the apply_submit tool call.
func (t *SubmitTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, bad := requireApplicationID(req)
	if bad != nil {
		return bad, nil
	}
	ctrl, bad := t.forms.pick(req)
	if bad != nil {
		return bad, nil
	}

	wreq := &wizard.Request{ApplicationID: id}
	out, err := ctrl.Submit(ctx, wreq)
	if err != nil {
		return toolError("submitting application", err)
	}
	response := fmt.Sprintf(
		"# Application Submitted\n\n"+
			"**ID:** `%s`\n"+
			"**Submitted:** %s\n"+
			"**Redirect:** `%s`\n\n"+
			"Use `apply_view_submitted` to read the submitted answers.\n",
		id, wreq.Application.SubmittedAt, out.Redirect,
	)
	return mcp.NewToolResultText(response), nil
}

// ViewSubmittedTool handles the apply_view_submitted MCP tool.
type ViewSubmittedTool struct {
	forms Controllers
}

// NewViewSubmittedTool creates a ViewSubmittedTool.
func NewViewSubmittedTool(forms Controllers) *ViewSubmittedTool {
	return &ViewSubmittedTool{forms: forms}
}

// Definition returns the MCP tool definition for registration.
func (t *ViewSubmittedTool) Definition() mcp.Tool {
	return mcp.NewTool("apply_view_submitted",
		mcp.WithDescription("Show the read-only summary of an application's answers, without change links."),
		withApplicationID(),
		withForm(t.forms.Names()),
	)
}

// Handle processes the apply_view_submitted tool call.
func (t *ViewSubmittedTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, bad := requireApplicationID(req)
	if bad != nil {
		return bad, nil
	}
	ctrl, bad := t.forms.pick(req)
	if bad != nil {
		return bad, nil
	}

	wreq := &wizard.Request{ApplicationID: id}
	sections, err := ctrl.Submitted(ctx, wreq)
	if err != nil {
		return toolError("building submitted view", err)
	}
	heading := fmt.Sprintf("Application %s (%s)", id, wreq.Application.Status)
	return mcp.NewToolResultText(renderSections(heading, sections)), nil
}
