package decisiontools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/strangelabs/strange/internal/decision"
	"github.com/strangelabs/strange/internal/evaluation"
	"github.com/strangelabs/strange/internal/storage"
)

// ScoreSetTool handles the score_set MCP tool.
type ScoreSetTool struct {
	reg *Registry
}

// NewScoreSetTool creates a ScoreSetTool.
func NewScoreSetTool(reg *Registry) *ScoreSetTool {
	return &ScoreSetTool{reg: reg}
}

// Definition returns the MCP tool definition for score_set.
func (t *ScoreSetTool) Definition() mcp.Tool {
	return mcp.NewTool("score_set",
		mcp.WithDescription(
			"Record how an option performs on a criteria. Each (option, criteria) pair "+
				"takes exactly one score; use score_update to change an existing one. "+
				"Values are unbounded — negative and zero are fine.",
		),
		mcp.WithString("decision_id",
			mcp.Required(),
			mcp.Description("ID of the decision being worked on"),
		),
		mcp.WithString("option_id",
			mcp.Required(),
			mcp.Description("ID of the option being rated"),
		),
		mcp.WithString("criteria_id",
			mcp.Required(),
			mcp.Description("ID of the criteria rated against"),
		),
		mcp.WithNumber("value",
			mcp.Required(),
			mcp.Description("Numeric score"),
		),
		mcp.WithString("notes",
			mcp.Description("Justification for the score"),
		),
	)
}

// Handle processes the score_set tool call.
func (t *ScoreSetTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	decisionID := req.GetString("decision_id", "")
	if decisionID == "" {
		return mcp.NewToolResultError("'decision_id' is required"), nil
	}
	if _, ok := req.GetArguments()["value"].(float64); !ok {
		return mcp.NewToolResultError("'value' is required and must be a number"), nil
	}

	svc, err := t.reg.serviceFor(decisionID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	sc, err := svc.CreateScore(
		req.GetString("option_id", ""),
		req.GetString("criteria_id", ""),
		floatArg(req, "value", 0),
		req.GetString("notes", ""),
	)
	if err != nil {
		switch {
		case storage.IsUniqueViolation(err):
			return mcp.NewToolResultError(
				"this (option, criteria) pair already has a score — use score_update to change it",
			), nil
		case storage.IsForeignKeyViolation(err):
			return mcp.NewToolResultError(
				"option_id or criteria_id does not reference a stored row",
			), nil
		default:
			return mcp.NewToolResultError(fmt.Sprintf("failed to set score: %v", err)), nil
		}
	}
	return mcp.NewToolResultText(fmt.Sprintf("Score recorded: %g\nID: %s", sc.Value, sc.ID)), nil
}

// ─── ScoreListTool ───────────────────────────────────────────────────────────

// ScoreListTool handles the score_list MCP tool.
type ScoreListTool struct {
	reg *Registry
}

// NewScoreListTool creates a ScoreListTool.
func NewScoreListTool(reg *Registry) *ScoreListTool {
	return &ScoreListTool{reg: reg}
}

// Definition returns the MCP tool definition for score_list.
func (t *ScoreListTool) Definition() mcp.Tool {
	return mcp.NewTool("score_list",
		mcp.WithDescription(
			"List scores for one option or for one criteria of a decision. "+
				"Provide exactly one of option_id / criteria_id.",
		),
		mcp.WithString("decision_id",
			mcp.Required(),
			mcp.Description("ID of the decision being worked on"),
		),
		mcp.WithString("option_id",
			mcp.Description("List this option's scores"),
		),
		mcp.WithString("criteria_id",
			mcp.Description("List scores recorded against this criteria"),
		),
	)
}

// Handle processes the score_list tool call.
func (t *ScoreListTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	decisionID := req.GetString("decision_id", "")
	optionID := req.GetString("option_id", "")
	criteriaID := req.GetString("criteria_id", "")
	if decisionID == "" {
		return mcp.NewToolResultError("'decision_id' is required"), nil
	}
	if (optionID == "") == (criteriaID == "") {
		return mcp.NewToolResultError("provide exactly one of 'option_id' or 'criteria_id'"), nil
	}

	svc, err := t.reg.serviceFor(decisionID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if optionID != "" {
		scoreRows, err := svc.GetScoresByOption(optionID)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to list scores: %v", err)), nil
		}
		return mcp.NewToolResultText(renderScores(scoreRows)), nil
	}

	scoreRows, err := svc.GetScoresByCriteria(criteriaID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list scores: %v", err)), nil
	}
	return mcp.NewToolResultText(renderScores(scoreRows)), nil
}

func renderScores(scores []*decision.Score) string {
	if len(scores) == 0 {
		return "No scores recorded yet. Add one with score_set."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Scores (%d):\n", len(scores))
	for _, s := range scores {
		fmt.Fprintf(&b, "- %g (option: %s, criteria: %s, ID: %s)\n", s.Value, s.OptionID, s.CriteriaID, s.ID)
		if s.Notes != "" {
			fmt.Fprintf(&b, "  %s\n", s.Notes)
		}
	}
	return b.String()
}

// ─── ScoreUpdateTool ─────────────────────────────────────────────────────────

// ScoreUpdateTool handles the score_update MCP tool.
type ScoreUpdateTool struct {
	reg *Registry
}

// NewScoreUpdateTool creates a ScoreUpdateTool.
func NewScoreUpdateTool(reg *Registry) *ScoreUpdateTool {
	return &ScoreUpdateTool{reg: reg}
}

// Definition returns the MCP tool definition for score_update.
func (t *ScoreUpdateTool) Definition() mcp.Tool {
	return mcp.NewTool("score_update",
		mcp.WithDescription("Update a score's value or notes. Omitted fields stay unchanged."),
		mcp.WithString("decision_id",
			mcp.Required(),
			mcp.Description("ID of the decision being worked on"),
		),
		mcp.WithString("score_id",
			mcp.Required(),
			mcp.Description("ID of the score"),
		),
		mcp.WithNumber("value",
			mcp.Description("New value"),
		),
		mcp.WithString("notes",
			mcp.Description("New notes"),
		),
	)
}

// Handle processes the score_update tool call.
func (t *ScoreUpdateTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	decisionID := req.GetString("decision_id", "")
	scoreID := req.GetString("score_id", "")
	if decisionID == "" {
		return mcp.NewToolResultError("'decision_id' is required"), nil
	}
	if scoreID == "" {
		return mcp.NewToolResultError("'score_id' is required"), nil
	}

	svc, err := t.reg.serviceFor(decisionID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	sc, err := svc.UpdateScore(scoreID, evaluation.ScoreUpdate{
		Value: optFloatArg(req, "value"),
		Notes: optStringArg(req, "notes"),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to update score: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Score updated: %g", sc.Value)), nil
}

// ─── ScoreRemoveTool ─────────────────────────────────────────────────────────

// ScoreRemoveTool handles the score_remove MCP tool.
type ScoreRemoveTool struct {
	reg *Registry
}

// NewScoreRemoveTool creates a ScoreRemoveTool.
func NewScoreRemoveTool(reg *Registry) *ScoreRemoveTool {
	return &ScoreRemoveTool{reg: reg}
}

// Definition returns the MCP tool definition for score_remove.
func (t *ScoreRemoveTool) Definition() mcp.Tool {
	return mcp.NewTool("score_remove",
		mcp.WithDescription("Remove a score."),
		mcp.WithString("decision_id",
			mcp.Required(),
			mcp.Description("ID of the decision being worked on"),
		),
		mcp.WithString("score_id",
			mcp.Required(),
			mcp.Description("ID of the score to remove"),
		),
	)
}

// Handle processes the score_remove tool call.
func (t *ScoreRemoveTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	decisionID := req.GetString("decision_id", "")
	scoreID := req.GetString("score_id", "")
	if decisionID == "" {
		return mcp.NewToolResultError("'decision_id' is required"), nil
	}
	if scoreID == "" {
		return mcp.NewToolResultError("'score_id' is required"), nil
	}

	svc, err := t.reg.serviceFor(decisionID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	removed, err := svc.DeleteScore(scoreID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to remove score: %v", err)), nil
	}
	if !removed {
		return mcp.NewToolResultText(fmt.Sprintf("No score with ID %s.", scoreID)), nil
	}
	return mcp.NewToolResultText("Score removed."), nil
}
