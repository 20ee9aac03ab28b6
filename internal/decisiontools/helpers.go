// Package decisiontools provides the MCP tool handlers for the decision
// engine.
//
// Each tool handler follows the same pattern:
// - A struct holding a *Registry of repositories injected via constructor
// - Definition() returns the mcp.Tool schema
// - Handle() processes the request and returns a result
//
// Decision-scoped tools resolve their decision by id and construct an
// evaluation.Service for it, so every mutation goes through the engine's
// validation rather than straight to storage.
package decisiontools

import (
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/strangelabs/strange/internal/evaluation"
	"github.com/strangelabs/strange/internal/repository"
)

// Registry bundles the repositories the decision tools operate on.
type Registry struct {
	Decisions *repository.DecisionRepository
	Options   *repository.OptionRepository
	Criteria  *repository.CriteriaRepository
	Scores    *repository.ScoreRepository
}

// NewRegistry creates a Registry from the four repositories.
func NewRegistry(
	decisions *repository.DecisionRepository,
	options *repository.OptionRepository,
	criteria *repository.CriteriaRepository,
	scores *repository.ScoreRepository,
) *Registry {
	return &Registry{
		Decisions: decisions,
		Options:   options,
		Criteria:  criteria,
		Scores:    scores,
	}
}

// serviceFor resolves the decision and builds an evaluation.Service scoped
// to it. A missing decision is reported as an error.
func (r *Registry) serviceFor(decisionID string) (*evaluation.Service, error) {
	d, err := r.Decisions.GetByID(decisionID)
	if err != nil {
		return nil, fmt.Errorf("loading decision: %w", err)
	}
	if d == nil {
		return nil, fmt.Errorf("decision %q not found", decisionID)
	}
	return evaluation.NewService(d, r.Options, r.Criteria, r.Scores)
}

// floatArg extracts a float argument from a tool request, returning
// defaultVal if the key is missing or not a number (JSON numbers are
// float64).
func floatArg(req mcp.CallToolRequest, key string, defaultVal float64) float64 {
	v, ok := req.GetArguments()[key].(float64)
	if !ok {
		return defaultVal
	}
	return v
}

// boolArg extracts a boolean argument from a tool request.
func boolArg(req mcp.CallToolRequest, key string, defaultVal bool) bool {
	v, ok := req.GetArguments()[key].(bool)
	if !ok {
		return defaultVal
	}
	return v
}

// optStringArg returns a pointer to the string argument if it was supplied,
// nil otherwise. Update tools use this to leave unsupplied fields untouched.
func optStringArg(req mcp.CallToolRequest, key string) *string {
	v, ok := req.GetArguments()[key].(string)
	if !ok {
		return nil
	}
	return &v
}

// optFloatArg returns a pointer to the float argument if it was supplied,
// nil otherwise.
func optFloatArg(req mcp.CallToolRequest, key string) *float64 {
	v, ok := req.GetArguments()[key].(float64)
	if !ok {
		return nil
	}
	return &v
}
