// Package server wires all MCP components and creates the server instance.
//
// This is the composition root (DIP): it creates concrete implementations
// and injects them into the tools/prompts/resources that depend on
// abstractions. No business logic lives here — only wiring.
package server

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"github.com/strangelabs/strange/internal/config"
	"github.com/strangelabs/strange/internal/decisiontools"
	"github.com/strangelabs/strange/internal/prompts"
	"github.com/strangelabs/strange/internal/repository"
	"github.com/strangelabs/strange/internal/resources"
	"github.com/strangelabs/strange/internal/storage"
)

// Version is set at build time via ldflags.
var Version = "dev"

// New creates and configures the MCP server with all tools, prompts,
// and resources registered. This is the single place where all
// dependencies are resolved.
//
// The returned cleanup function closes the database connection and must
// be called on shutdown (typically via defer). It is always non-nil and
// safe to call.
func New(cfg config.Config) (*server.MCPServer, func(), error) {
	// Logs go to stderr: stdout belongs to the MCP stdio transport.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel(cfg.LogLevel),
	}))
	slog.SetDefault(logger)

	db, err := storage.Open(storage.Config{DataDir: cfg.DataDir})
	if err != nil {
		return nil, noop, fmt.Errorf("opening database: %w", err)
	}
	cleanup := func() {
		if err := db.Close(); err != nil {
			logger.Warn("closing database", "error", err)
		}
	}
	logger.Info("database ready", "path", db.Path())

	reg := decisiontools.NewRegistry(
		repository.NewDecisionRepository(db),
		repository.NewOptionRepository(db),
		repository.NewCriteriaRepository(db),
		repository.NewScoreRepository(db),
	)

	s := server.NewMCPServer(
		"strange",
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	// --- Register decision tools ---

	decisionCreate := decisiontools.NewDecisionCreateTool(reg)
	s.AddTool(decisionCreate.Definition(), decisionCreate.Handle)

	decisionList := decisiontools.NewDecisionListTool(reg)
	s.AddTool(decisionList.Definition(), decisionList.Handle)

	decisionGet := decisiontools.NewDecisionGetTool(reg)
	s.AddTool(decisionGet.Definition(), decisionGet.Handle)

	decisionUpdate := decisiontools.NewDecisionUpdateTool(reg)
	s.AddTool(decisionUpdate.Definition(), decisionUpdate.Handle)

	decisionDelete := decisiontools.NewDecisionDeleteTool(reg)
	s.AddTool(decisionDelete.Definition(), decisionDelete.Handle)

	// --- Register option tools ---

	optionAdd := decisiontools.NewOptionAddTool(reg)
	s.AddTool(optionAdd.Definition(), optionAdd.Handle)

	optionList := decisiontools.NewOptionListTool(reg)
	s.AddTool(optionList.Definition(), optionList.Handle)

	optionUpdate := decisiontools.NewOptionUpdateTool(reg)
	s.AddTool(optionUpdate.Definition(), optionUpdate.Handle)

	optionRemove := decisiontools.NewOptionRemoveTool(reg)
	s.AddTool(optionRemove.Definition(), optionRemove.Handle)

	// --- Register criteria tools ---

	criteriaAdd := decisiontools.NewCriteriaAddTool(reg)
	s.AddTool(criteriaAdd.Definition(), criteriaAdd.Handle)

	criteriaList := decisiontools.NewCriteriaListTool(reg)
	s.AddTool(criteriaList.Definition(), criteriaList.Handle)

	criteriaUpdate := decisiontools.NewCriteriaUpdateTool(reg)
	s.AddTool(criteriaUpdate.Definition(), criteriaUpdate.Handle)

	criteriaRemove := decisiontools.NewCriteriaRemoveTool(reg)
	s.AddTool(criteriaRemove.Definition(), criteriaRemove.Handle)

	// --- Register score tools ---

	scoreSet := decisiontools.NewScoreSetTool(reg)
	s.AddTool(scoreSet.Definition(), scoreSet.Handle)

	scoreList := decisiontools.NewScoreListTool(reg)
	s.AddTool(scoreList.Definition(), scoreList.Handle)

	scoreUpdate := decisiontools.NewScoreUpdateTool(reg)
	s.AddTool(scoreUpdate.Definition(), scoreUpdate.Handle)

	scoreRemove := decisiontools.NewScoreRemoveTool(reg)
	s.AddTool(scoreRemove.Definition(), scoreRemove.Handle)

	// --- Register evaluation tools ---

	evaluate := decisiontools.NewEvaluateTool(reg)
	s.AddTool(evaluate.Definition(), evaluate.Handle)

	export := decisiontools.NewExportTool(reg)
	s.AddTool(export.Definition(), export.Handle)

	// --- Register prompts ---

	decidePrompt := prompts.NewDecidePrompt()
	s.AddPrompt(decidePrompt.Definition(), decidePrompt.Handle)

	// --- Register resources ---

	resourceHandler := resources.NewHandler(reg.Decisions)
	s.AddResource(resourceHandler.DecisionsResource(), resourceHandler.HandleDecisions)

	return s, cleanup, nil
}

// noop is a no-op cleanup function used when server creation fails
// before the database is opened.
func noop() {}

func logLevel(name string) slog.Level {
	switch name {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// serverInstructions returns the system instructions that tell the AI
// how to use the decision engine effectively.
func serverInstructions() string {
	return `You have access to strange, a decision-analysis MCP server.

strange ranks options with a weighted decision matrix: a decision holds
options (the candidates) and criteria (weighted evaluation axes), and each
option can be scored against each criteria. Evaluation computes, per option,
the sum of value * weight over every criteria and ranks highest first.

## WHEN TO USE strange

Suggest building a decision matrix when the user:
- Is choosing between several alternatives (tools, designs, vendors, plans)
- Keeps going back and forth without converging
- Asks "which should I pick" with more than two plausible answers

Skip it for binary yes/no calls or decisions with one obvious criterion.

## WORKFLOW

1. decision_create — name the decision
2. option_add — one per candidate; keep names short and distinct
3. criteria_add — one per thing that matters. Weight is relative importance:
   1.0 is the baseline, 2.0 counts double, 0.5 counts half. Weights must be >= 0.
4. score_set — rate EVERY option against EVERY criteria. Use a consistent
   scale (e.g. 0-10). An unscored pair contributes 0 to the option's total,
   which silently penalizes the option — score everything.
5. decision_evaluate — present the ranking and explain which criteria drove it

## IMPORTANT RULES

- One score per (option, criteria) pair. score_set refuses duplicates;
  use score_update to revise.
- Put the user's reasoning in score notes — it makes the final ranking
  explainable and auditable.
- Removing an option or criteria removes its scores. Deleting a decision
  removes everything under it.
- decision_export returns the full matrix as JSON when the user wants to
  take the analysis elsewhere.`
}
