package decisiontools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/strangelabs/strange/internal/decision"
)

// DecisionCreateTool handles the decision_create MCP tool.
type DecisionCreateTool struct {
	reg *Registry
}

// NewDecisionCreateTool creates a DecisionCreateTool.
func NewDecisionCreateTool(reg *Registry) *DecisionCreateTool {
	return &DecisionCreateTool{reg: reg}
}

// Definition returns the MCP tool definition for decision_create.
func (t *DecisionCreateTool) Definition() mcp.Tool {
	return mcp.NewTool("decision_create",
		mcp.WithDescription(
			"Create a new decision to analyze. A decision is the root of a weighted "+
				"decision matrix: add options (candidates) and criteria (weighted axes), "+
				"score each option against each criteria, then run decision_evaluate.",
		),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Name of the decision (e.g. 'Choose a database for the new service')"),
		),
		mcp.WithString("description",
			mcp.Description("Longer context for the decision"),
		),
	)
}

// Handle processes the decision_create tool call.
func (t *DecisionCreateTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := req.GetString("name", "")
	description := req.GetString("description", "")

	d, err := decision.NewDecision(name, description)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if _, err := t.reg.Decisions.Create(d); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to create decision: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf(
		"Decision created: %q\nID: %s\n\nNext: add options with option_add and criteria with criteria_add.",
		d.Name, d.ID,
	)), nil
}

// ─── DecisionListTool ────────────────────────────────────────────────────────

// DecisionListTool handles the decision_list MCP tool.
type DecisionListTool struct {
	reg *Registry
}

// NewDecisionListTool creates a DecisionListTool.
func NewDecisionListTool(reg *Registry) *DecisionListTool {
	return &DecisionListTool{reg: reg}
}

// Definition returns the MCP tool definition for decision_list.
func (t *DecisionListTool) Definition() mcp.Tool {
	return mcp.NewTool("decision_list",
		mcp.WithDescription("List all stored decisions, newest first."),
	)
}

// Handle processes the decision_list tool call.
func (t *DecisionListTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	decisions, err := t.reg.Decisions.GetAll()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list decisions: %v", err)), nil
	}
	if len(decisions) == 0 {
		return mcp.NewToolResultText("No decisions stored yet. Create one with decision_create."), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Decisions (%d):\n", len(decisions))
	for _, d := range decisions {
		fmt.Fprintf(&b, "\n- %s\n  ID: %s\n  Created: %s\n", d.Name, d.ID, decision.FormatTime(d.CreatedAt))
		if d.Description != "" {
			fmt.Fprintf(&b, "  %s\n", d.Description)
		}
	}
	return mcp.NewToolResultText(b.String()), nil
}

// ─── DecisionGetTool ─────────────────────────────────────────────────────────

// DecisionGetTool handles the decision_get MCP tool.
type DecisionGetTool struct {
	reg *Registry
}

// NewDecisionGetTool creates a DecisionGetTool.
func NewDecisionGetTool(reg *Registry) *DecisionGetTool {
	return &DecisionGetTool{reg: reg}
}

// Definition returns the MCP tool definition for decision_get.
func (t *DecisionGetTool) Definition() mcp.Tool {
	return mcp.NewTool("decision_get",
		mcp.WithDescription("Show one decision with its options and criteria."),
		mcp.WithString("decision_id",
			mcp.Required(),
			mcp.Description("ID of the decision"),
		),
	)
}

// Handle processes the decision_get tool call.
func (t *DecisionGetTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
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

	d := svc.Decision()
	var b strings.Builder
	fmt.Fprintf(&b, "Decision: %s\nID: %s\n", d.Name, d.ID)
	if d.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", d.Description)
	}

	fmt.Fprintf(&b, "\nOptions (%d):\n", len(options))
	for _, o := range options {
		fmt.Fprintf(&b, "- %s (ID: %s)\n", o.Name, o.ID)
		if o.Description != "" {
			fmt.Fprintf(&b, "  %s\n", o.Description)
		}
	}

	fmt.Fprintf(&b, "\nCriteria (%d):\n", len(criteria))
	for _, c := range criteria {
		fmt.Fprintf(&b, "- %s (weight: %g, ID: %s)\n", c.Name, c.Weight, c.ID)
		if c.Description != "" {
			fmt.Fprintf(&b, "  %s\n", c.Description)
		}
	}

	return mcp.NewToolResultText(b.String()), nil
}

// ─── DecisionUpdateTool ──────────────────────────────────────────────────────

// DecisionUpdateTool handles the decision_update MCP tool.
type DecisionUpdateTool struct {
	reg *Registry
}

// NewDecisionUpdateTool creates a DecisionUpdateTool.
func NewDecisionUpdateTool(reg *Registry) *DecisionUpdateTool {
	return &DecisionUpdateTool{reg: reg}
}

// Definition returns the MCP tool definition for decision_update.
func (t *DecisionUpdateTool) Definition() mcp.Tool {
	return mcp.NewTool("decision_update",
		mcp.WithDescription("Update a decision's name or description. Omitted fields stay unchanged."),
		mcp.WithString("decision_id",
			mcp.Required(),
			mcp.Description("ID of the decision"),
		),
		mcp.WithString("name",
			mcp.Description("New name"),
		),
		mcp.WithString("description",
			mcp.Description("New description"),
		),
	)
}

// Handle processes the decision_update tool call.
func (t *DecisionUpdateTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	decisionID := req.GetString("decision_id", "")
	if decisionID == "" {
		return mcp.NewToolResultError("'decision_id' is required"), nil
	}

	d, err := t.reg.Decisions.GetByID(decisionID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load decision: %v", err)), nil
	}
	if d == nil {
		return mcp.NewToolResultError(fmt.Sprintf("decision %q not found", decisionID)), nil
	}

	if name := optStringArg(req, "name"); name != nil {
		d.Name = *name
	}
	if description := optStringArg(req, "description"); description != nil {
		d.Description = *description
	}

	if _, err := t.reg.Decisions.Update(d); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to update decision: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Decision %q updated.", d.Name)), nil
}

// ─── DecisionDeleteTool ──────────────────────────────────────────────────────

// DecisionDeleteTool handles the decision_delete MCP tool.
type DecisionDeleteTool struct {
	reg *Registry
}

// NewDecisionDeleteTool creates a DecisionDeleteTool.
func NewDecisionDeleteTool(reg *Registry) *DecisionDeleteTool {
	return &DecisionDeleteTool{reg: reg}
}

// Definition returns the MCP tool definition for decision_delete.
func (t *DecisionDeleteTool) Definition() mcp.Tool {
	return mcp.NewTool("decision_delete",
		mcp.WithDescription(
			"Delete a decision and everything under it: its options, its criteria, "+
				"and all scores referencing them (two-level cascade).",
		),
		mcp.WithString("decision_id",
			mcp.Required(),
			mcp.Description("ID of the decision to delete"),
		),
	)
}

// Handle processes the decision_delete tool call.
func (t *DecisionDeleteTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	decisionID := req.GetString("decision_id", "")
	if decisionID == "" {
		return mcp.NewToolResultError("'decision_id' is required"), nil
	}

	removed, err := t.reg.Decisions.Delete(decisionID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to delete decision: %v", err)), nil
	}
	if !removed {
		return mcp.NewToolResultText(fmt.Sprintf("No decision with ID %s.", decisionID)), nil
	}
	return mcp.NewToolResultText(
		"Decision deleted, along with its options, criteria, and their scores.",
	), nil
}
