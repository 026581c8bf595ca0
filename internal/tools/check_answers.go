package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/apply-wizard/internal/review"
	"github.com/HendryAvila/apply-wizard/internal/wizard"
)

// CheckAnswersTool handles the apply_check_answers MCP tool.
type CheckAnswersTool struct {
	forms Controllers
}

// NewCheckAnswersTool creates a CheckAnswersTool.
func NewCheckAnswersTool(forms Controllers) *CheckAnswersTool {
	return &CheckAnswersTool{forms: forms}
}

// Definition returns the MCP tool definition for registration.
func (t *CheckAnswersTool) Definition() mcp.Tool {
	return mcp.NewTool("apply_check_answers",
		mcp.WithDescription(
			"Summarise every answer of an application, grouped by section and task, "+
				"with a change link for each answer. Use before confirming the review page.",
		),
		withApplicationID(),
		withForm(t.forms.Names()),
	)
}

// Handle processes the apply_check_answers tool call.
func (t *CheckAnswersTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, bad := requireApplicationID(req)
	if bad != nil {
		return bad, nil
	}
	ctrl, bad := t.forms.pick(req)
	if bad != nil {
		return bad, nil
	}

	wreq := &wizard.Request{ApplicationID: id}
	sections, err := ctrl.CheckYourAnswers(ctx, wreq)
	if err != nil {
		return toolError("building check your answers", err)
	}
	reviewTask := ctrl.Definition().ReviewTask()
	footer := fmt.Sprintf(
		"When the answers are correct, save `%s/%s` with `{\"reviewed\": \"1\"}` and then call `apply_submit`.\n",
		reviewTask.Slug, reviewTask.FirstPage(),
	)
	return mcp.NewToolResultText(renderSections("Check Your Answers", sections) + footer), nil
}

func renderSections(heading string, sections []review.Section) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", heading)
	if len(sections) == 0 {
		b.WriteString("No answers have been saved yet.\n\n")
	}
	for _, section := range sections {
		fmt.Fprintf(&b, "## %s\n\n", section.Title)
		for _, card := range section.Cards {
			fmt.Fprintf(&b, "### %s\n\n", card.Title)
			for _, row := range card.Rows {
				value := row.Value
				if value == "" {
					value = "—"
				}
				if row.Href != "" {
					fmt.Fprintf(&b, "- **%s**: %s ([change](%s))\n", row.Key, value, row.Href)
				} else {
					fmt.Fprintf(&b, "- **%s**: %s\n", row.Key, value)
				}
			}
			if card.Action != nil {
				fmt.Fprintf(&b, "\n[%s](%s)\n", card.Action.Text, card.Action.Href)
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}
