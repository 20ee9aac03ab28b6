package decisiontools

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/strangelabs/strange/internal/decision"
	"github.com/strangelabs/strange/internal/repository"
	"github.com/strangelabs/strange/internal/storage"
)

// ─── Test helpers ────────────────────────────────────────────────────────────

// newTestRegistry creates a Registry over a temp-directory database.
func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	db, err := storage.Open(storage.Config{DataDir: t.TempDir()})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewRegistry(
		repository.NewDecisionRepository(db),
		repository.NewOptionRepository(db),
		repository.NewCriteriaRepository(db),
		repository.NewScoreRepository(db),
	)
}

// seedDecision stores a decision directly and returns it.
func seedDecision(t *testing.T, reg *Registry) *decision.Decision {
	t.Helper()
	d, err := decision.NewDecision("seeded decision", "")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := reg.Decisions.Create(d); err != nil {
		t.Fatalf("seed decision: %v", err)
	}
	return d
}

// makeReq builds a mcp.CallToolRequest with the given arguments.
func makeReq(args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

// resultText extracts the text content from a tool result.
func resultText(r *mcp.CallToolResult) string {
	if r == nil || len(r.Content) == 0 {
		return ""
	}
	for _, c := range r.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func mustNotError(t *testing.T, result *mcp.CallToolResult, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("Handle returned error: %v", err)
	}
	if result == nil {
		t.Fatal("Handle returned nil result")
	}
	if result.IsError {
		t.Fatalf("tool reported error: %s", resultText(result))
	}
}

func mustToolError(t *testing.T, result *mcp.CallToolResult, err error) string {
	t.Helper()
	if err != nil {
		t.Fatalf("Handle returned error: %v", err)
	}
	if result == nil || !result.IsError {
		t.Fatalf("expected tool error, got: %s", resultText(result))
	}
	return resultText(result)
}

// ─── Decision tools ──────────────────────────────────────────────────────────

func TestDecisionCreateTool_Definition(t *testing.T) {
	tool := NewDecisionCreateTool(newTestRegistry(t))
	def := tool.Definition()

	if def.Name != "decision_create" {
		t.Errorf("tool name = %q", def.Name)
	}
	if _, ok := def.InputSchema.Properties["name"]; !ok {
		t.Error("missing 'name' parameter")
	}
	found := false
	for _, r := range def.InputSchema.Required {
		if r == "name" {
			found = true
		}
	}
	if !found {
		t.Error("'name' should be required")
	}
}

func TestDecisionCreateTool_Handle(t *testing.T) {
	reg := newTestRegistry(t)
	tool := NewDecisionCreateTool(reg)

	result, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"name":        "Choose a queue",
		"description": "kafka vs nats",
	}))
	mustNotError(t, result, err)

	text := resultText(result)
	if !strings.Contains(text, "Choose a queue") {
		t.Errorf("response should name the decision, got: %s", text)
	}

	all, err := reg.Decisions.GetAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 || all[0].Description != "kafka vs nats" {
		t.Errorf("stored decisions = %+v", all)
	}
}

func TestDecisionCreateTool_EmptyName(t *testing.T) {
	tool := NewDecisionCreateTool(newTestRegistry(t))
	result, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{}))
	mustToolError(t, result, err)
}

func TestDecisionListTool_Empty(t *testing.T) {
	tool := NewDecisionListTool(newTestRegistry(t))
	result, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{}))
	mustNotError(t, result, err)

	if !strings.Contains(resultText(result), "No decisions") {
		t.Errorf("expected empty-state message, got: %s", resultText(result))
	}
}

func TestDecisionGetTool_UnknownDecision(t *testing.T) {
	tool := NewDecisionGetTool(newTestRegistry(t))
	result, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"decision_id": "ghost",
	}))
	text := mustToolError(t, result, err)
	if !strings.Contains(text, "not found") {
		t.Errorf("expected not-found message, got: %s", text)
	}
}

func TestDecisionUpdateTool_PartialUpdate(t *testing.T) {
	reg := newTestRegistry(t)
	d := seedDecision(t, reg)
	d.Description = "keep me"
	if _, err := reg.Decisions.Update(d); err != nil {
		t.Fatal(err)
	}

	tool := NewDecisionUpdateTool(reg)
	result, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"decision_id": d.ID,
		"name":        "renamed",
	}))
	mustNotError(t, result, err)

	got, err := reg.Decisions.GetByID(d.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "renamed" {
		t.Errorf("Name = %q", got.Name)
	}
	if got.Description != "keep me" {
		t.Errorf("Description = %q, omitted field should be untouched", got.Description)
	}
}

func TestDecisionDeleteTool_ReportsMissing(t *testing.T) {
	tool := NewDecisionDeleteTool(newTestRegistry(t))
	result, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"decision_id": "ghost",
	}))
	mustNotError(t, result, err)
	if !strings.Contains(resultText(result), "No decision") {
		t.Errorf("expected missing-row message, got: %s", resultText(result))
	}
}

// ─── Option and criteria tools ───────────────────────────────────────────────

func TestOptionAddTool_Handle(t *testing.T) {
	reg := newTestRegistry(t)
	d := seedDecision(t, reg)
	tool := NewOptionAddTool(reg)

	result, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"decision_id": d.ID,
		"name":        "PostgreSQL",
	}))
	mustNotError(t, result, err)

	options, err := reg.Options.GetByDecision(d.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(options) != 1 || options[0].Name != "PostgreSQL" {
		t.Errorf("stored options = %+v", options)
	}
}

func TestOptionAddTool_UnknownDecision(t *testing.T) {
	tool := NewOptionAddTool(newTestRegistry(t))
	result, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"decision_id": "ghost",
		"name":        "x",
	}))
	mustToolError(t, result, err)
}

func TestCriteriaAddTool_DefaultWeight(t *testing.T) {
	reg := newTestRegistry(t)
	d := seedDecision(t, reg)
	tool := NewCriteriaAddTool(reg)

	result, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"decision_id": d.ID,
		"name":        "cost",
	}))
	mustNotError(t, result, err)

	criteria, err := reg.Criteria.GetByDecision(d.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(criteria) != 1 || criteria[0].Weight != decision.DefaultWeight {
		t.Errorf("stored criteria = %+v, want weight %g", criteria, decision.DefaultWeight)
	}
}

func TestCriteriaAddTool_NegativeWeight(t *testing.T) {
	reg := newTestRegistry(t)
	d := seedDecision(t, reg)
	tool := NewCriteriaAddTool(reg)

	result, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"decision_id": d.ID,
		"name":        "cost",
		"weight":      -1.0,
	}))
	text := mustToolError(t, result, err)
	if !strings.Contains(text, "weight") {
		t.Errorf("expected weight validation message, got: %s", text)
	}
}

func TestCriteriaUpdateTool_WeightOnly(t *testing.T) {
	reg := newTestRegistry(t)
	d := seedDecision(t, reg)
	c, err := decision.NewCriteria(d.ID, "perf", "latency", 1)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := reg.Criteria.Create(c); err != nil {
		t.Fatal(err)
	}

	tool := NewCriteriaUpdateTool(reg)
	result, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"decision_id": d.ID,
		"criteria_id": c.ID,
		"weight":      2.5,
	}))
	mustNotError(t, result, err)

	got, err := reg.Criteria.GetByID(c.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Weight != 2.5 || got.Name != "perf" || got.Description != "latency" {
		t.Errorf("after update: %+v", got)
	}
}

// ─── Score tools ─────────────────────────────────────────────────────────────

// seedMatrix stores a decision with one option and one criteria.
func seedMatrix(t *testing.T, reg *Registry) (*decision.Decision, *decision.Option, *decision.Criteria) {
	t.Helper()
	d := seedDecision(t, reg)
	o, err := decision.NewOption(d.ID, "option", "")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := reg.Options.Create(o); err != nil {
		t.Fatal(err)
	}
	c, err := decision.NewCriteria(d.ID, "criteria", "", 1)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := reg.Criteria.Create(c); err != nil {
		t.Fatal(err)
	}
	return d, o, c
}

func TestScoreSetTool_Handle(t *testing.T) {
	reg := newTestRegistry(t)
	d, o, c := seedMatrix(t, reg)
	tool := NewScoreSetTool(reg)

	result, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"decision_id": d.ID,
		"option_id":   o.ID,
		"criteria_id": c.ID,
		"value":       7.5,
		"notes":       "solid",
	}))
	mustNotError(t, result, err)

	got, err := reg.Scores.GetByOptionAndCriteria(o.ID, c.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || got.Value != 7.5 || got.Notes != "solid" {
		t.Errorf("stored score = %+v", got)
	}
}

func TestScoreSetTool_MissingValue(t *testing.T) {
	reg := newTestRegistry(t)
	d, o, c := seedMatrix(t, reg)
	tool := NewScoreSetTool(reg)

	result, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"decision_id": d.ID,
		"option_id":   o.ID,
		"criteria_id": c.ID,
	}))
	text := mustToolError(t, result, err)
	if !strings.Contains(text, "value") {
		t.Errorf("expected value-required message, got: %s", text)
	}
}

func TestScoreSetTool_DuplicatePair(t *testing.T) {
	reg := newTestRegistry(t)
	d, o, c := seedMatrix(t, reg)
	tool := NewScoreSetTool(reg)

	args := map[string]interface{}{
		"decision_id": d.ID,
		"option_id":   o.ID,
		"criteria_id": c.ID,
		"value":       5.0,
	}
	result, err := tool.Handle(context.Background(), makeReq(args))
	mustNotError(t, result, err)

	result, err = tool.Handle(context.Background(), makeReq(args))
	text := mustToolError(t, result, err)
	if !strings.Contains(text, "score_update") {
		t.Errorf("duplicate message should point at score_update, got: %s", text)
	}
}

func TestScoreSetTool_DanglingReference(t *testing.T) {
	reg := newTestRegistry(t)
	d := seedDecision(t, reg)
	tool := NewScoreSetTool(reg)

	result, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"decision_id": d.ID,
		"option_id":   "ghost-option",
		"criteria_id": "ghost-criteria",
		"value":       5.0,
	}))
	text := mustToolError(t, result, err)
	if !strings.Contains(text, "does not reference") {
		t.Errorf("expected FK message, got: %s", text)
	}
}

func TestScoreListTool_RequiresExactlyOneFilter(t *testing.T) {
	reg := newTestRegistry(t)
	d, o, c := seedMatrix(t, reg)
	tool := NewScoreListTool(reg)

	// Neither filter.
	result, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"decision_id": d.ID,
	}))
	mustToolError(t, result, err)

	// Both filters.
	result, err = tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"decision_id": d.ID,
		"option_id":   o.ID,
		"criteria_id": c.ID,
	}))
	mustToolError(t, result, err)

	// One filter is fine.
	result, err = tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"decision_id": d.ID,
		"option_id":   o.ID,
	}))
	mustNotError(t, result, err)
}

func TestScoreUpdateTool_PartialUpdate(t *testing.T) {
	reg := newTestRegistry(t)
	d, o, c := seedMatrix(t, reg)
	s, err := decision.NewScore(o.ID, c.ID, 3, "keep me")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := reg.Scores.Create(s); err != nil {
		t.Fatal(err)
	}

	tool := NewScoreUpdateTool(reg)
	result, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"decision_id": d.ID,
		"score_id":    s.ID,
		"value":       9.0,
	}))
	mustNotError(t, result, err)

	got, err := reg.Scores.GetByID(s.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Value != 9.0 {
		t.Errorf("Value = %g", got.Value)
	}
	if got.Notes != "keep me" {
		t.Errorf("Notes = %q, omitted field should be untouched", got.Notes)
	}
}

func TestScoreRemoveTool_Handle(t *testing.T) {
	reg := newTestRegistry(t)
	d, o, c := seedMatrix(t, reg)
	s, _ := decision.NewScore(o.ID, c.ID, 3, "")
	if _, err := reg.Scores.Create(s); err != nil {
		t.Fatal(err)
	}

	tool := NewScoreRemoveTool(reg)
	result, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"decision_id": d.ID,
		"score_id":    s.ID,
	}))
	mustNotError(t, result, err)

	if got, _ := reg.Scores.GetByID(s.ID); got != nil {
		t.Error("score survived removal")
	}
}

// ─── Evaluate and export tools ───────────────────────────────────────────────

func TestEvaluateTool_RanksOptions(t *testing.T) {
	reg := newTestRegistry(t)
	d := seedDecision(t, reg)

	addOption := NewOptionAddTool(reg)
	addCriteria := NewCriteriaAddTool(reg)
	setScore := NewScoreSetTool(reg)

	scores := map[string]float64{"loser": 2, "winner": 9}
	var criteriaID string
	{
		result, err := addCriteria.Handle(context.Background(), makeReq(map[string]interface{}{
			"decision_id": d.ID,
			"name":        "the only axis",
			"weight":      2.0,
		}))
		mustNotError(t, result, err)
		all, err := reg.Criteria.GetByDecision(d.ID)
		if err != nil || len(all) != 1 {
			t.Fatalf("criteria = (%d, %v)", len(all), err)
		}
		criteriaID = all[0].ID
	}
	for _, name := range []string{"loser", "winner"} {
		result, err := addOption.Handle(context.Background(), makeReq(map[string]interface{}{
			"decision_id": d.ID,
			"name":        name,
		}))
		mustNotError(t, result, err)
	}
	options, err := reg.Options.GetByDecision(d.ID)
	if err != nil {
		t.Fatal(err)
	}
	for _, o := range options {
		result, err := setScore.Handle(context.Background(), makeReq(map[string]interface{}{
			"decision_id": d.ID,
			"option_id":   o.ID,
			"criteria_id": criteriaID,
			"value":       scores[o.Name],
		}))
		mustNotError(t, result, err)
	}

	tool := NewEvaluateTool(reg)
	result, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"decision_id": d.ID,
	}))
	mustNotError(t, result, err)

	text := resultText(result)
	if !strings.Contains(text, "1. winner — 18.00") {
		t.Errorf("winner should rank first at 18.00, got:\n%s", text)
	}
	if !strings.Contains(text, "Recommendation: winner") {
		t.Errorf("missing recommendation line, got:\n%s", text)
	}
	if strings.Contains(text, "Normalized") {
		t.Error("normalized section should be off by default")
	}

	// With the flag, the weighted-average section appears.
	result, err = tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"decision_id": d.ID,
		"normalized":  true,
	}))
	mustNotError(t, result, err)
	if !strings.Contains(resultText(result), "Normalized") {
		t.Errorf("normalized section missing, got:\n%s", resultText(result))
	}
}

func TestEvaluateTool_NoOptions(t *testing.T) {
	reg := newTestRegistry(t)
	d := seedDecision(t, reg)

	tool := NewEvaluateTool(reg)
	result, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"decision_id": d.ID,
	}))
	mustNotError(t, result, err)
	if !strings.Contains(resultText(result), "No options") {
		t.Errorf("expected empty-state message, got: %s", resultText(result))
	}
}

func TestExportTool_ProducesJSON(t *testing.T) {
	reg := newTestRegistry(t)
	d, o, c := seedMatrix(t, reg)
	s, _ := decision.NewScore(o.ID, c.ID, 6.5, "fine")
	if _, err := reg.Scores.Create(s); err != nil {
		t.Fatal(err)
	}

	tool := NewExportTool(reg)
	result, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"decision_id": d.ID,
	}))
	mustNotError(t, result, err)

	var export struct {
		Decision map[string]any   `json:"decision"`
		Options  []map[string]any `json:"options"`
		Criteria []map[string]any `json:"criteria"`
	}
	if err := json.Unmarshal([]byte(resultText(result)), &export); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	if export.Decision["id"] != d.ID {
		t.Errorf("decision id = %v", export.Decision["id"])
	}
	if len(export.Options) != 1 || len(export.Criteria) != 1 {
		t.Errorf("export = %d options, %d criteria", len(export.Options), len(export.Criteria))
	}
	scores, ok := export.Options[0]["scores"].([]any)
	if !ok || len(scores) != 1 {
		t.Errorf("option scores = %v", export.Options[0]["scores"])
	}
}

// ─── Argument helpers ────────────────────────────────────────────────────────

func TestOptArgs(t *testing.T) {
	req := makeReq(map[string]interface{}{
		"name":   "x",
		"weight": 1.5,
	})

	if v := optStringArg(req, "name"); v == nil || *v != "x" {
		t.Errorf("optStringArg = %v", v)
	}
	if v := optStringArg(req, "missing"); v != nil {
		t.Errorf("optStringArg(missing) = %v, want nil", v)
	}
	if v := optFloatArg(req, "weight"); v == nil || *v != 1.5 {
		t.Errorf("optFloatArg = %v", v)
	}
	if v := optFloatArg(req, "missing"); v != nil {
		t.Errorf("optFloatArg(missing) = %v, want nil", v)
	}
	if v := floatArg(req, "missing", 1.0); v != 1.0 {
		t.Errorf("floatArg default = %g", v)
	}
	if v := boolArg(req, "missing", true); v != true {
		t.Errorf("boolArg default = %v", v)
	}
}
