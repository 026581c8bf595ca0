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

// SavePageTool handles the apply_save_page MCP tool.
// Pages that can ask for more information go through the information
// request variant; every other page goes through a plain save.
type SavePageTool struct {
	forms Controllers
}

// NewSavePageTool creates a SavePageTool.
func NewSavePageTool(forms Controllers) *SavePageTool {
	return &SavePageTool{forms: forms}
}

// Definition returns the MCP tool definition for registration.
func (t *SavePageTool) Definition() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription(
			"Submit answers for one page. Valid answers are saved and the result names " +
				"the next page (or the task list). Invalid answers are not saved: the result " +
				"lists the errors and apply_show_page will show them once. Saving any page " +
				"outside check-your-answers clears a completed review.",
		),
	}
	opts = append(opts, pageOptions()...)
	opts = append(opts,
		mcp.WithObject("input",
			mcp.Required(),
			mcp.Description("Field values keyed by field name. Date questions use '<field>-day', '<field>-month' and '<field>-year'; checkbox groups take arrays."),
		),
		mcp.WithString("actor", mcp.Description("Who is answering. Recorded on information requests.")),
		withForm(t.forms.Names()),
	)
	return mcp.NewTool("apply_save_page", opts...)
}

// Handle processes the apply_save_page tool call.
func (t *SavePageTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	wreq, bad := pageRequest(req)
	if bad != nil {
		return bad, nil
	}
	ctrl, bad := t.forms.pick(req)
	if bad != nil {
		return bad, nil
	}
	input, bad := readInput(req)
	if bad != nil {
		return bad, nil
	}

	out, err := ctrl.SaveWithInformationRequest(ctx, wreq, input)
	if err != nil {
		return toolError("saving page", err)
	}
	return mcp.NewToolResultText(renderOutcome(wreq, out)), nil
}

// readInput accepts the input object either as a JSON object or as a
// string holding one.
func readInput(req mcp.CallToolRequest) (form.Input, *mcp.CallToolResult) {
	switch v := req.GetArguments()["input"].(type) {
	case map[string]any:
		return form.Input(v), nil
	case string:
		var input form.Input
		if err := json.Unmarshal([]byte(v), &input); err != nil {
			return nil, mcp.NewToolResultError(fmt.Sprintf("'input' is not a JSON object: %v", err))
		}
		return input, nil
	case nil:
		return nil, mcp.NewToolResultError("'input' is required.")
	default:
		return nil, mcp.NewToolResultError("'input' must be an object of field values.")
	}
}

func renderOutcome(req *wizard.Request, out *wizard.Outcome) string {
	var b strings.Builder
	switch {
	case out.InformationRequested:
		b.WriteString("# Information Requested\n\n")
		fmt.Fprintf(&b, "A clarification note (`%s`) was sent to the applicant. The page was not saved.\n\n", out.Note.ID)
	case out.Saved:
		b.WriteString("# Page Saved\n\n")
		fmt.Fprintf(&b, "`%s/%s` was saved.\n\n", req.Task, req.Page)
		if out.Invalidated {
			b.WriteString("The completed review was cleared. Check your answers again before submitting.\n\n")
		}
	default:
		b.WriteString("# Page Not Saved\n\n")
		b.WriteString(renderErrorSummary(form.NewSnapshot(out.Errors, nil).ErrorSummary))
	}
	fmt.Fprintf(&b, "**Redirect:** `%s`\n", out.Redirect)
	if out.Saved {
		if out.Next != "" {
			fmt.Fprintf(&b, "**Next page:** `%s`\n", out.Next)
		} else {
			b.WriteString("**Next:** task complete, return to the task list.\n")
		}
	}
	return b.String()
}
