// Package prompts implements MCP prompt handlers for the decision engine.
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

// DecidePrompt handles the decide MCP prompt.
// It guides the AI through building and evaluating a weighted decision matrix.
type DecidePrompt struct{}

// NewDecidePrompt creates a DecidePrompt.
func NewDecidePrompt() *DecidePrompt {
	return &DecidePrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *DecidePrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("decide",
		mcp.WithPromptDescription(
			"Work through a decision with a weighted decision matrix: "+
				"collect the options, define weighted criteria, score every "+
				"option, and evaluate the ranking.",
		),
		mcp.WithArgument("topic",
			mcp.ArgumentDescription("What is being decided (e.g. 'which message broker to adopt')"),
		),
	)
}

// Handle processes the decide prompt request.
func (p *DecidePrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	topic := "my decision"
	if args := req.Params.Arguments; args != nil {
		if t, ok := args["topic"]; ok && t != "" {
			topic = t
		}
	}

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Analyze decision: %s", topic),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(fmt.Sprintf(
					"I need to decide: %s.\n\n"+
						"Please walk me through a weighted decision matrix:\n"+
						"1. Run `decision_create` with a clear name for this decision\n"+
						"2. Ask me which options I'm considering, then add each with `option_add`\n"+
						"3. Ask me what matters for this decision and how much. Add each as a "+
						"criteria with `criteria_add`, using weights that reflect relative "+
						"importance (1.0 is the baseline)\n"+
						"4. For every option, ask me to rate it against every criteria and "+
						"record the rating with `score_set` — note my reasoning in 'notes'\n"+
						"5. Run `decision_evaluate` and explain the ranking to me, including "+
						"which criteria drove the winner's lead\n\n"+
						"Keep the questions concrete: one option or criteria at a time.",
					topic,
				)),
			},
		},
	}, nil
}
