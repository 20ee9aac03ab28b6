package decisiontools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// ExportTool handles the decision_export MCP tool.
type ExportTool struct {
	reg *Registry
}

// NewExportTool creates an ExportTool.
func NewExportTool(reg *Registry) *ExportTool {
	return &ExportTool{reg: reg}
}

// Definition returns the MCP tool definition for decision_export.
func (t *ExportTool) Definition() mcp.Tool {
	return mcp.NewTool("decision_export",
		mcp.WithDescription(
			"Export a full decision as JSON: the decision itself, its options with "+
				"their scores, and its criteria.",
		),
		mcp.WithString("decision_id",
			mcp.Required(),
			mcp.Description("ID of the decision to export"),
		),
	)
}

// Handle processes the decision_export tool call.
func (t *ExportTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	decisionID := req.GetString("decision_id", "")
	if decisionID == "" {
		return mcp.NewToolResultError("'decision_id' is required"), nil
	}

	svc, err := t.reg.serviceFor(decisionID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	options, err := svc.GetAllOptions()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list options: %v", err)), nil
	}
	criteria, err := svc.GetAllCriteria()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list criteria: %v", err)), nil
	}

	optionRecords := make([]map[string]any, 0, len(options))
	for _, o := range options {
		rec := o.Record()
		scores, err := svc.GetScoresByOption(o.ID)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to list scores: %v", err)), nil
		}
		scoreRecords := make([]map[string]any, 0, len(scores))
		for _, s := range scores {
			scoreRecords = append(scoreRecords, s.Record())
		}
		rec["scores"] = scoreRecords
		optionRecords = append(optionRecords, rec)
	}

	criteriaRecords := make([]map[string]any, 0, len(criteria))
	for _, c := range criteria {
		criteriaRecords = append(criteriaRecords, c.Record())
	}

	export := map[string]any{
		"decision": svc.Decision().Record(),
		"options":  optionRecords,
		"criteria": criteriaRecords,
	}

	payload, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode export: %v", err)), nil
	}
	return mcp.NewToolResultText(string(payload)), nil
}
