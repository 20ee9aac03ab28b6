// Package resources implements MCP resource handlers for the decision engine.
//
// Resources provide read-only data that the host can consume for context.
// They use URI-based addressing (strange://...) following MCP conventions.
package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/strangelabs/strange/internal/repository"
)

// Handler manages the decision resource endpoints.
type Handler struct {
	decisions *repository.DecisionRepository
}

// NewHandler creates a resource Handler with its dependencies.
func NewHandler(decisions *repository.DecisionRepository) *Handler {
	return &Handler{decisions: decisions}
}

// DecisionsResource returns the MCP resource definition for the decision list.
func (h *Handler) DecisionsResource() mcp.Resource {
	return mcp.NewResource(
		"strange://decisions",
		"Stored Decisions",
		mcp.WithResourceDescription("All stored decisions, newest first, as JSON"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleDecisions returns the stored decisions as JSON.
func (h *Handler) HandleDecisions(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	decisions, err := h.decisions.GetAll()
	if err != nil {
		return errorResource(req.Params.URI, err.Error()), nil
	}

	records := make([]map[string]any, 0, len(decisions))
	for _, d := range decisions {
		records = append(records, d.Record())
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling decisions: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

// errorResource returns a resource with an error message.
func errorResource(uri, message string) []mcp.ResourceContents {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "text/plain",
			Text:     fmt.Sprintf("Error: %s", message),
		},
	}
}
