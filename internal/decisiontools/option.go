package decisiontools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/strangelabs/strange/internal/evaluation"
)

// OptionAddTool handles the option_add MCP tool.
type OptionAddTool struct {
	reg *Registry
}

// NewOptionAddTool creates an OptionAddTool.
func NewOptionAddTool(reg *Registry) *OptionAddTool {
	return &OptionAddTool{reg: reg}
}

// Definition returns the MCP tool definition for option_add.
func (t *OptionAddTool) Definition() mcp.Tool {
	return mcp.NewTool("option_add",
		mcp.WithDescription("Add a candidate option to a decision."),
		mcp.WithString("decision_id",
			mcp.Required(),
			mcp.Description("ID of the decision this option belongs to"),
		),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Name of the option (e.g. 'PostgreSQL')"),
		),
		mcp.WithString("description",
			mcp.Description("What makes this option a candidate"),
		),
	)
}

// Handle processes the option_add tool call.
func (t *OptionAddTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	decisionID := req.GetString("decision_id", "")
	if decisionID == "" {
		return mcp.NewToolResultError("'decision_id' is required"), nil
	}

	svc, err := t.reg.serviceFor(decisionID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	o, err := svc.CreateOption(req.GetString("name", ""), req.GetString("description", ""))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to add option: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Option added: %q\nID: %s", o.Name, o.ID)), nil
}

// ─── OptionListTool ──────────────────────────────────────────────────────────

// OptionListTool handles the option_list MCP tool.
type OptionListTool struct {
	reg *Registry
}

// NewOptionListTool creates an OptionListTool.
func NewOptionListTool(reg *Registry) *OptionListTool {
	return &OptionListTool{reg: reg}
}

// Definition returns the MCP tool definition for option_list.
func (t *OptionListTool) Definition() mcp.Tool {
	return mcp.NewTool("option_list",
		mcp.WithDescription("List a decision's options in the order they were added."),
		mcp.WithString("decision_id",
			mcp.Required(),
			mcp.Description("ID of the decision"),
		),
	)
}

// Handle processes the option_list tool call.
func (t *OptionListTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
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
	if len(options) == 0 {
		return mcp.NewToolResultText("No options yet. Add one with option_add."), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Options (%d):\n", len(options))
	for _, o := range options {
		fmt.Fprintf(&b, "- %s (ID: %s)\n", o.Name, o.ID)
		if o.Description != "" {
			fmt.Fprintf(&b, "  %s\n", o.Description)
		}
	}
	return mcp.NewToolResultText(b.String()), nil
}

// ─── OptionUpdateTool ────────────────────────────────────────────────────────

// OptionUpdateTool handles the option_update MCP tool.
type OptionUpdateTool struct {
	reg *Registry
}

// NewOptionUpdateTool creates an OptionUpdateTool.
func NewOptionUpdateTool(reg *Registry) *OptionUpdateTool {
	return &OptionUpdateTool{reg: reg}
}

// Definition returns the MCP tool definition for option_update.
func (t *OptionUpdateTool) Definition() mcp.Tool {
	return mcp.NewTool("option_update",
		mcp.WithDescription("Update an option's name or description. Omitted fields stay unchanged."),
		mcp.WithString("decision_id",
			mcp.Required(),
			mcp.Description("ID of the decision the option belongs to"),
		),
		mcp.WithString("option_id",
			mcp.Required(),
			mcp.Description("ID of the option"),
		),
		mcp.WithString("name",
			mcp.Description("New name"),
		),
		mcp.WithString("description",
			mcp.Description("New description"),
		),
	)
}

// Handle processes the option_update tool call.
func (t *OptionUpdateTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	decisionID := req.GetString("decision_id", "")
	optionID := req.GetString("option_id", "")
	if decisionID == "" {
		return mcp.NewToolResultError("'decision_id' is required"), nil
	}
	if optionID == "" {
		return mcp.NewToolResultError("'option_id' is required"), nil
	}

	svc, err := t.reg.serviceFor(decisionID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	o, err := svc.UpdateOption(optionID, evaluation.OptionUpdate{
		Name:        optStringArg(req, "name"),
		Description: optStringArg(req, "description"),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to update option: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Option %q updated.", o.Name)), nil
}

// ─── OptionRemoveTool ────────────────────────────────────────────────────────

// OptionRemoveTool handles the option_remove MCP tool.
type OptionRemoveTool struct {
	reg *Registry
}

// NewOptionRemoveTool creates an OptionRemoveTool.
func NewOptionRemoveTool(reg *Registry) *OptionRemoveTool {
	return &OptionRemoveTool{reg: reg}
}

// Definition returns the MCP tool definition for option_remove.
func (t *OptionRemoveTool) Definition() mcp.Tool {
	return mcp.NewTool("option_remove",
		mcp.WithDescription("Remove an option from a decision. Its scores are removed with it."),
		mcp.WithString("decision_id",
			mcp.Required(),
			mcp.Description("ID of the decision the option belongs to"),
		),
		mcp.WithString("option_id",
			mcp.Required(),
			mcp.Description("ID of the option to remove"),
		),
	)
}

// Handle processes the option_remove tool call.
func (t *OptionRemoveTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	decisionID := req.GetString("decision_id", "")
	optionID := req.GetString("option_id", "")
	if decisionID == "" {
		return mcp.NewToolResultError("'decision_id' is required"), nil
	}
	if optionID == "" {
		return mcp.NewToolResultError("'option_id' is required"), nil
	}

	svc, err := t.reg.serviceFor(decisionID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	removed, err := svc.DeleteOption(optionID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to remove option: %v", err)), nil
	}
	if !removed {
		return mcp.NewToolResultText(fmt.Sprintf("No option with ID %s.", optionID)), nil
	}
	return mcp.NewToolResultText("Option removed, along with its scores."), nil
}
