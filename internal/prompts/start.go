// Package prompts implements MCP prompt handlers for the application
// wizard.
//
// MCP prompts are user-triggered workflows (like slash commands) that
// instruct the AI to execute a specific sequence. Unlike tools (which
// the AI calls), prompts are initiated by the user.
package prompts

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// StartPrompt handles the apply-start MCP prompt.
// It guides the AI through starting an application and its first task.
type StartPrompt struct{}

// NewStartPrompt creates a StartPrompt.
func NewStartPrompt() *StartPrompt {
	return &StartPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *StartPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("apply-start",
		mcp.WithPromptDescription(
			"Start an Approved Premises application for a person on probation "+
				"and walk through the first task page by page.",
		),
		mcp.WithArgument("crn",
			mcp.ArgumentDescription("Case reference number of the person"),
		),
	)
}

// Handle processes the apply-start prompt request.
func (p *StartPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	crn := ""
	if args := req.Params.Arguments; args != nil {
		crn = args["crn"]
	}

	first := "1. Ask me for the person's case reference number (CRN), then run `apply_start` with it\n"
	description := "Start an Approved Premises application"
	if crn != "" {
		first = fmt.Sprintf("1. Run `apply_start` with crn='%s'\n", crn)
		description = fmt.Sprintf("Start an Approved Premises application for %s", crn)
	}

	return &mcp.GetPromptResult{
		Description: description,
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(
					"I want to apply for an Approved Premises placement.\n\n" +
						"Please:\n" +
						first +
						"2. Use `apply_show_page` to show me each page, ask me the question in plain words, " +
						"and save my answer with `apply_save_page`\n" +
						"3. If a save reports errors, explain them and ask again\n" +
						"4. Follow the next page the save returns until the task is done, then show me `apply_task_list`",
				),
			},
		},
	}, nil
}
