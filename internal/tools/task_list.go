package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/apply-wizard/internal/form"
	"github.com/HendryAvila/apply-wizard/internal/tasklist"
	"github.com/HendryAvila/apply-wizard/internal/wizard"
)

// TaskListTool handles the apply_task_list MCP tool.
type TaskListTool struct {
	forms Controllers
}

// NewTaskListTool creates a TaskListTool.
func NewTaskListTool(forms Controllers) *TaskListTool {
	return &TaskListTool{forms: forms}
}

// Definition returns the MCP tool definition for registration.
func (t *TaskListTool) Definition() mcp.Tool {
	return mcp.NewTool("apply_task_list",
		mcp.WithDescription(
			"Show the task list of an application: every task with its status "+
				"(Cannot start yet, Not started, Completed) and how many sections are done.",
		),
		withApplicationID(),
		withForm(t.forms.Names()),
	)
}

// Handle processes the apply_task_list tool call.
func (t *TaskListTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, bad := requireApplicationID(req)
	if bad != nil {
		return bad, nil
	}
	ctrl, bad := t.forms.pick(req)
	if bad != nil {
		return bad, nil
	}

	list, err := ctrl.TaskList(ctx, &wizard.Request{ApplicationID: id})
	if err != nil {
		return toolError("building task list", err)
	}
	return mcp.NewToolResultText(renderTaskList(id, list)), nil
}

func renderTaskList(id string, list tasklist.List) string {
	var b strings.Builder
	b.WriteString("# Task List\n\n")
	fmt.Fprintf(&b, "%s.\n\n", list.Summary())
	for i, section := range list.Sections {
		fmt.Fprintf(&b, "## %d. %s\n\n", i+1, section.Title)
		b.WriteString("| Task | Status | Start at |\n")
		b.WriteString("|------|--------|----------|\n")
		for _, task := range section.Tasks {
			start := "—"
			if task.Status != tasklist.StatusCannotStartYet {
				start = fmt.Sprintf("`%s`", form.PagePath(id, task.Slug, task.FirstPage))
			}
			fmt.Fprintf(&b, "| %s (`%s`) | %s | %s |\n", task.Title, task.Slug, task.Status.Label(), start)
		}
		b.WriteString("\n")
	}
	return b.String()
}
