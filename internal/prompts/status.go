package prompts

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// StatusPrompt handles the apply-status MCP prompt.
// It instructs the AI to read and present where an application stands.
type StatusPrompt struct{}

// NewStatusPrompt creates a StatusPrompt.
func NewStatusPrompt() *StatusPrompt {
	return &StatusPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *StatusPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("apply-status",
		mcp.WithPromptDescription(
			"Check the progress of an application: which tasks are done, "+
				"which can be started and what to do next.",
		),
		mcp.WithArgument("application_id",
			mcp.ArgumentDescription("ID of the application"),
			mcp.RequiredArgument(),
		),
	)
}

// Handle processes the apply-status prompt request.
func (p *StatusPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	id := req.Params.Arguments["application_id"]
	if id == "" {
		return nil, fmt.Errorf("application_id is required")
	}

	return &mcp.GetPromptResult{
		Description: "Application Status",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(fmt.Sprintf(
					"Please run `apply_task_list` for application `%s`.\n\n"+
						"Then:\n"+
						"1. Show me the sections and their tasks in a clear, visual format\n"+
						"2. Tell me which task I can work on next and open its first page with `apply_show_page`\n"+
						"3. If every task is completed, run `apply_check_answers` and help me confirm the review",
					id,
				)),
			},
		},
	}, nil
}
