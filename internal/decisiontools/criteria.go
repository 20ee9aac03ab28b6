package decisiontools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/strangelabs/strange/internal/decision"
	"github.com/strangelabs/strange/internal/evaluation"
)

// CriteriaAddTool handles the criteria_add MCP tool.
type CriteriaAddTool struct {
	reg *Registry
}

// NewCriteriaAddTool creates a CriteriaAddTool.
func NewCriteriaAddTool(reg *Registry) *CriteriaAddTool {
	return &CriteriaAddTool{reg: reg}
}

// Definition returns the MCP tool definition for criteria_add.
func (t *CriteriaAddTool) Definition() mcp.Tool {
	return mcp.NewTool("criteria_add",
		mcp.WithDescription(
			"Add a weighted evaluation criteria to a decision. Weight expresses relative "+
				"importance; it must be >= 0 and defaults to 1.0.",
		),
		mcp.WithString("decision_id",
			mcp.Required(),
			mcp.Description("ID of the decision this criteria belongs to"),
		),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Name of the criteria (e.g. 'Operational cost')"),
		),
		mcp.WithNumber("weight",
			mcp.Description("Relative importance, >= 0 (default: 1.0)"),
		),
		mcp.WithString("description",
			mcp.Description("What this criteria measures"),
		),
	)
}

// Handle processes the criteria_add tool call.
func (t *CriteriaAddTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	decisionID := req.GetString("decision_id", "")
	if decisionID == "" {
		return mcp.NewToolResultError("'decision_id' is required"), nil
	}

	svc, err := t.reg.serviceFor(decisionID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	c, err := svc.CreateCriteria(
		req.GetString("name", ""),
		req.GetString("description", ""),
		floatArg(req, "weight", decision.DefaultWeight),
	)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to add criteria: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf(
		"Criteria added: %q (weight: %g)\nID: %s", c.Name, c.Weight, c.ID,
	)), nil
}

// ─── CriteriaListTool ────────────────────────────────────────────────────────

// CriteriaListTool handles the criteria_list MCP tool.
type CriteriaListTool struct {
	reg *Registry
}

// NewCriteriaListTool creates a CriteriaListTool.
func NewCriteriaListTool(reg *Registry) *CriteriaListTool {
	return &CriteriaListTool{reg: reg}
}

// Definition returns the MCP tool definition for criteria_list.
func (t *CriteriaListTool) Definition() mcp.Tool {
	return mcp.NewTool("criteria_list",
		mcp.WithDescription("List a decision's criteria in the order they were added."),
		mcp.WithString("decision_id",
			mcp.Required(),
			mcp.Description("ID of the decision"),
		),
	)
}

// Handle processes the criteria_list tool call.
func (t *CriteriaListTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	decisionID := req.GetString("decision_id", "")
	if decisionID == "" {
		return mcp.NewToolResultError("'decision_id' is required"), nil
	}

	svc, err := t.reg.serviceFor(decisionID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	criteria, err := svc.GetAllCriteria()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list criteria: %v", err)), nil
	}
	if len(criteria) == 0 {
		return mcp.NewToolResultText("No criteria yet. Add one with criteria_add."), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Criteria (%d):\n", len(criteria))
	for _, c := range criteria {
		fmt.Fprintf(&b, "- %s (weight: %g, ID: %s)\n", c.Name, c.Weight, c.ID)
		if c.Description != "" {
			fmt.Fprintf(&b, "  %s\n", c.Description)
		}
	}
	return mcp.NewToolResultText(b.String()), nil
}

// ─── CriteriaUpdateTool ──────────────────────────────────────────────────────

// CriteriaUpdateTool handles the criteria_update MCP tool.
type CriteriaUpdateTool struct {
	reg *Registry
}

// NewCriteriaUpdateTool creates a CriteriaUpdateTool.
func NewCriteriaUpdateTool(reg *Registry) *CriteriaUpdateTool {
	return &CriteriaUpdateTool{reg: reg}
}

// Definition returns the MCP tool definition for criteria_update.
func (t *CriteriaUpdateTool) Definition() mcp.Tool {
	return mcp.NewTool("criteria_update",
		mcp.WithDescription("Update a criteria's name, description, or weight. Omitted fields stay unchanged."),
		mcp.WithString("decision_id",
			mcp.Required(),
			mcp.Description("ID of the decision the criteria belongs to"),
		),
		mcp.WithString("criteria_id",
			mcp.Required(),
			mcp.Description("ID of the criteria"),
		),
		mcp.WithString("name",
			mcp.Description("New name"),
		),
		mcp.WithString("description",
			mcp.Description("New description"),
		),
		mcp.WithNumber("weight",
			mcp.Description("New weight"),
		),
	)
}

// Handle processes the criteria_update tool call.
func (t *CriteriaUpdateTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	decisionID := req.GetString("decision_id", "")
	criteriaID := req.GetString("criteria_id", "")
	if decisionID == "" {
		return mcp.NewToolResultError("'decision_id' is required"), nil
	}
	if criteriaID == "" {
		return mcp.NewToolResultError("'criteria_id' is required"), nil
	}

	svc, err := t.reg.serviceFor(decisionID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	c, err := svc.UpdateCriteria(criteriaID, evaluation.CriteriaUpdate{
		Name:        optStringArg(req, "name"),
		Description: optStringArg(req, "description"),
		Weight:      optFloatArg(req, "weight"),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to update criteria: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Criteria %q updated (weight: %g).", c.Name, c.Weight)), nil
}

// ─── CriteriaRemoveTool ──────────────────────────────────────────────────────

// CriteriaRemoveTool handles the criteria_remove MCP tool.
type CriteriaRemoveTool struct {
	reg *Registry
}

// NewCriteriaRemoveTool creates a CriteriaRemoveTool.
func NewCriteriaRemoveTool(reg *Registry) *CriteriaRemoveTool {
	return &CriteriaRemoveTool{reg: reg}
}

// Definition returns the MCP tool definition for criteria_remove.
func (t *CriteriaRemoveTool) Definition() mcp.Tool {
	return mcp.NewTool("criteria_remove",
		mcp.WithDescription("Remove a criteria from a decision. Its scores are removed with it."),
		mcp.WithString("decision_id",
			mcp.Required(),
			mcp.Description("ID of the decision the criteria belongs to"),
		),
		mcp.WithString("criteria_id",
			mcp.Required(),
			mcp.Description("ID of the criteria to remove"),
		),
	)
}

// Handle processes the criteria_remove tool call.
func (t *CriteriaRemoveTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	decisionID := req.GetString("decision_id", "")
	criteriaID := req.GetString("criteria_id", "")
	if decisionID == "" {
		return mcp.NewToolResultError("'decision_id' is required"), nil
	}
	if criteriaID == "" {
		return mcp.NewToolResultError("'criteria_id' is required"), nil
	}

	svc, err := t.reg.serviceFor(decisionID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	removed, err := svc.DeleteCriteria(criteriaID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to remove criteria: %v", err)), nil
	}
	if !removed {
		return mcp.NewToolResultText(fmt.Sprintf("No criteria with ID %s.", criteriaID)), nil
	}
	return mcp.NewToolResultText("Criteria removed, along with its scores."), nil
}
