package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/apply-wizard/internal/form"
)

// StartTool handles the apply_start MCP tool.
// It creates an application for a person and points at the first page.
type StartTool struct {
	forms Controllers
}

// NewStartTool creates a StartTool.
func NewStartTool(forms Controllers) *StartTool {
	return &StartTool{forms: forms}
}

// Definition returns the MCP tool definition for registration.
func (t *StartTool) Definition() mcp.Tool {
	return mcp.NewTool("apply_start",
		mcp.WithDescription(
			"Start a new Approved Premises application for a person on probation. "+
				"Returns the application ID and the first page to fill in.",
		),
		mcp.WithString("crn",
			mcp.Required(),
			mcp.Description("Case reference number of the person, e.g. 'X320741'."),
		),
		withForm(t.forms.Names()),
	)
}

// Handle processes the apply_start tool call.
func (t *StartTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	crn := strings.TrimSpace(req.GetString("crn", ""))
	if crn == "" {
		return mcp.NewToolResultError("'crn' is required."), nil
	}
	ctrl, bad := t.forms.pick(req)
	if bad != nil {
		return bad, nil
	}

	app, err := ctrl.Start(ctx, crn)
	if err != nil {
		return toolError("starting application", err)
	}

	first := ctrl.Definition().Tasks()[0]
	response := fmt.Sprintf(
		"# Application Started\n\n"+
			"**ID:** `%s`\n"+
			"**CRN:** %s\n"+
			"**Status:** %s\n\n"+
			"## Next Step\n\n"+
			"Open `%s` (%s) with `apply_show_page` using task `%s` and page `%s`.\n",
		app.ID, app.CRN, app.Status,
		form.PagePath(app.ID, first.Slug, first.FirstPage()), first.Title,
		first.Slug, first.FirstPage(),
	)
	return mcp.NewToolResultText(response), nil
}
