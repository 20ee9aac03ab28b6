package decisiontools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/strangelabs/strange/internal/evaluation"
)

// EvaluateTool handles the decision_evaluate MCP tool.
type EvaluateTool struct {
	reg *Registry
}

// NewEvaluateTool creates an EvaluateTool.
func NewEvaluateTool(reg *Registry) *EvaluateTool {
	return &EvaluateTool{reg: reg}
}

// Definition returns the MCP tool definition for decision_evaluate.
func (t *EvaluateTool) Definition() mcp.Tool {
	return mcp.NewTool("decision_evaluate",
		mcp.WithDescription(
			"Rank a decision's options by weighted score: for each option, sum "+
				"value * weight over every criteria. An option not scored on a "+
				"criteria contributes 0 for it. Highest total wins.",
		),
		mcp.WithString("decision_id",
			mcp.Required(),
			mcp.Description("ID of the decision to evaluate"),
		),
		mcp.WithBoolean("normalized",
			mcp.Description("Also show weighted averages over the criteria each option was scored on"),
		),
	)
}

// Handle processes the decision_evaluate tool call.
func (t *EvaluateTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	decisionID := req.GetString("decision_id", "")
	if decisionID == "" {
		return mcp.NewToolResultError("'decision_id' is required"), nil
	}

	svc, err := t.reg.serviceFor(decisionID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	ranked, err := svc.CalculateWeightedScores()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("evaluation failed: %v", err)), nil
	}
	if len(ranked) == 0 {
		return mcp.NewToolResultText("No options to evaluate. Add some with option_add."), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Evaluation of %q:\n\n", svc.Decision().Name)
	writeRanking(&b, ranked)
	fmt.Fprintf(&b, "\nRecommendation: %s (%.2f)\n", ranked[0].Option.Name, ranked[0].WeightedScore)

	if boolArg(req, "normalized", false) {
		normalized, err := svc.NormalizedScores()
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("evaluation failed: %v", err)), nil
		}
		b.WriteString("\nNormalized (weighted average over scored criteria):\n")
		writeRanking(&b, normalized)
	}

	return mcp.NewToolResultText(b.String()), nil
}

func writeRanking(b *strings.Builder, ranked []evaluation.RankedOption) {
	for i, r := range ranked {
		fmt.Fprintf(b, "%d. %s — %.2f\n", i+1, r.Option.Name, r.WeightedScore)
	}
}
