package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/apply-wizard/internal/form"
	"github.com/HendryAvila/apply-wizard/internal/wizard"
)

// ShowPageTool handles the apply_show_page MCP tool.
// It renders a page with its current answers and any pending errors from
// the last failed save.
type ShowPageTool struct {
	forms Controllers
}

// NewShowPageTool creates a ShowPageTool.
func NewShowPageTool(forms Controllers) *ShowPageTool {
	return &ShowPageTool{forms: forms}
}

// Definition returns the MCP tool definition for registration.
func (t *ShowPageTool) Definition() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription(
			"Show one page of an application: its question, the answers saved so far, " +
				"and validation errors from the previous save attempt if there were any.",
		),
	}
	opts = append(opts, pageOptions()...)
	opts = append(opts, withForm(t.forms.Names()))
	return mcp.NewTool("apply_show_page", opts...)
}

// Handle processes the apply_show_page tool call.
func (t *ShowPageTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	wreq, bad := pageRequest(req)
	if bad != nil {
		return bad, nil
	}
	ctrl, bad := t.forms.pick(req)
	if bad != nil {
		return bad, nil
	}

	view, err := ctrl.Show(ctx, wreq)
	if err != nil {
		return toolError("showing page", err)
	}
	text, err := renderView(view)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(text), nil
}

func renderView(view *wizard.View) (string, error) {
	answers, err := json.MarshalIndent(view.Input, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling answers: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", view.Title)
	fmt.Fprintf(&b, "**Task:** `%s`  **Page:** `%s`\n", view.Task, view.Page)
	fmt.Fprintf(&b, "**Back:** `%s`\n", view.Back)
	if view.ReadOnly {
		b.WriteString("**Read-only:** this application can no longer be changed.\n")
	}
	b.WriteString("\n")
	if len(view.Summary) > 0 {
		b.WriteString(renderErrorSummary(view.Summary))
	}
	b.WriteString("## Current Answers\n\n")
	fmt.Fprintf(&b, "```json\n%s\n```\n", answers)
	return b.String(), nil
}

func renderErrorSummary(items []form.ErrorSummaryItem) string {
	var b strings.Builder
	b.WriteString("## There is a problem\n\n")
	for _, item := range items {
		fmt.Fprintf(&b, "- `%s`: %s\n", item.Field, item.Text)
	}
	b.WriteString("\n")
	return b.String()
}
