// Package decision defines the entity model for weighted decision analysis.
//
// Four entity kinds make up a decision matrix: a Decision owns Options
// (candidate choices) and Criteria (weighted evaluation axes) by reference,
// and a Score rates exactly one Option against exactly one Criteria.
// Constructors validate input, generate identifiers, and timestamp; the
// Record conversion round-trips entities through a generic field map for
// storage and export.
package decision

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrValidation is wrapped by every constructor failure so callers can
// distinguish bad input from infrastructure errors with errors.Is.
var ErrValidation = errors.New("validation")

// TimeLayout is the textual form timestamps take in records and in storage.
// Fixed-width nanoseconds in UTC keep the TEXT columns lexicographically
// sortable and make the round-trip exact.
const TimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func newID() string { return uuid.NewString() }

func now() time.Time { return time.Now().UTC() }

// FormatTime renders t in the canonical sortable layout.
func FormatTime(t time.Time) string { return t.UTC().Format(TimeLayout) }

// ParseTime parses a timestamp previously produced by FormatTime.
func ParseTime(s string) (time.Time, error) {
	t, err := time.Parse(TimeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("decision: parse timestamp %q: %w", s, err)
	}
	return t.UTC(), nil
}

// ─── Decision ────────────────────────────────────────────────────────────────

// Decision is the root aggregate: one choice to be made among options.
// Options and Criteria reference it by ID; it does not contain them.
type Decision struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewDecision creates a validated Decision with a generated ID and
// creation/update timestamps set to now.
func NewDecision(name, description string) (*Decision, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: decision name cannot be empty", ErrValidation)
	}
	ts := now()
	return &Decision{
		ID:          newID(),
		Name:        name,
		Description: description,
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}, nil
}

// Touch refreshes the update timestamp. Repositories call this before
// persisting a mutation.
func (d *Decision) Touch() { d.UpdatedAt = now() }

// Record converts the decision to a generic field map.
func (d *Decision) Record() map[string]any {
	return map[string]any{
		"id":          d.ID,
		"name":        d.Name,
		"description": d.Description,
		"created_at":  FormatTime(d.CreatedAt),
		"updated_at":  FormatTime(d.UpdatedAt),
	}
}

// DecisionFromRecord reconstructs a Decision from a field map produced by
// Record (or decoded from an export). Missing description defaults to "".
func DecisionFromRecord(rec map[string]any) (*Decision, error) {
	id, err := requiredString(rec, "id")
	if err != nil {
		return nil, err
	}
	name, err := requiredString(rec, "name")
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: decision name cannot be empty", ErrValidation)
	}
	createdAt, updatedAt, err := recordTimes(rec)
	if err != nil {
		return nil, err
	}
	return &Decision{
		ID:          id,
		Name:        name,
		Description: optionalString(rec, "description"),
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}, nil
}

// ─── Option ──────────────────────────────────────────────────────────────────

// Option is one candidate alternative belonging to a decision.
type Option struct {
	ID          string    `json:"id"`
	DecisionID  string    `json:"decision_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewOption creates a validated Option bound to the given decision.
func NewOption(decisionID, name, description string) (*Option, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: option name cannot be empty", ErrValidation)
	}
	if strings.TrimSpace(decisionID) == "" {
		return nil, fmt.Errorf("%w: option must be associated with a decision", ErrValidation)
	}
	ts := now()
	return &Option{
		ID:          newID(),
		DecisionID:  decisionID,
		Name:        name,
		Description: description,
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}, nil
}

// Touch refreshes the update timestamp.
func (o *Option) Touch() { o.UpdatedAt = now() }

// Record converts the option to a generic field map.
func (o *Option) Record() map[string]any {
	return map[string]any{
		"id":          o.ID,
		"decision_id": o.DecisionID,
		"name":        o.Name,
		"description": o.Description,
		"created_at":  FormatTime(o.CreatedAt),
		"updated_at":  FormatTime(o.UpdatedAt),
	}
}

// OptionFromRecord reconstructs an Option from a field map.
func OptionFromRecord(rec map[string]any) (*Option, error) {
	id, err := requiredString(rec, "id")
	if err != nil {
		return nil, err
	}
	decisionID, err := requiredString(rec, "decision_id")
	if err != nil {
		return nil, err
	}
	name, err := requiredString(rec, "name")
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: option name cannot be empty", ErrValidation)
	}
	if strings.TrimSpace(decisionID) == "" {
		return nil, fmt.Errorf("%w: option must be associated with a decision", ErrValidation)
	}
	createdAt, updatedAt, err := recordTimes(rec)
	if err != nil {
		return nil, err
	}
	return &Option{
		ID:          id,
		DecisionID:  decisionID,
		Name:        name,
		Description: optionalString(rec, "description"),
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}, nil
}

// ─── Criteria ────────────────────────────────────────────────────────────────

// Criteria is one evaluation axis with a relative importance weight.
// Weight must be >= 0; zero is allowed and simply contributes nothing.
type Criteria struct {
	ID          string    `json:"id"`
	DecisionID  string    `json:"decision_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Weight      float64   `json:"weight"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// DefaultWeight is used when a record omits the weight field.
const DefaultWeight = 1.0

// NewCriteria creates a validated Criteria bound to the given decision.
func NewCriteria(decisionID, name, description string, weight float64) (*Criteria, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: criteria name cannot be empty", ErrValidation)
	}
	if strings.TrimSpace(decisionID) == "" {
		return nil, fmt.Errorf("%w: criteria must be associated with a decision", ErrValidation)
	}
	if weight < 0 {
		return nil, fmt.Errorf("%w: weight cannot be negative", ErrValidation)
	}
	ts := now()
	return &Criteria{
		ID:          newID(),
		DecisionID:  decisionID,
		Name:        name,
		Description: description,
		Weight:      weight,
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}, nil
}

// Touch refreshes the update timestamp.
func (c *Criteria) Touch() { c.UpdatedAt = now() }

// Record converts the criteria to a generic field map.
func (c *Criteria) Record() map[string]any {
	return map[string]any{
		"id":          c.ID,
		"decision_id": c.DecisionID,
		"name":        c.Name,
		"description": c.Description,
		"weight":      c.Weight,
		"created_at":  FormatTime(c.CreatedAt),
		"updated_at":  FormatTime(c.UpdatedAt),
	}
}

// CriteriaFromRecord reconstructs a Criteria from a field map.
// A missing weight defaults to DefaultWeight; a non-numeric weight
// (bool, string, list) is a validation error.
func CriteriaFromRecord(rec map[string]any) (*Criteria, error) {
	id, err := requiredString(rec, "id")
	if err != nil {
		return nil, err
	}
	decisionID, err := requiredString(rec, "decision_id")
	if err != nil {
		return nil, err
	}
	name, err := requiredString(rec, "name")
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: criteria name cannot be empty", ErrValidation)
	}
	if strings.TrimSpace(decisionID) == "" {
		return nil, fmt.Errorf("%w: criteria must be associated with a decision", ErrValidation)
	}
	weight := DefaultWeight
	if v, ok := rec["weight"]; ok {
		weight, err = CoerceFloat(v)
		if err != nil {
			return nil, fmt.Errorf("%w: weight must be a numeric value", ErrValidation)
		}
		if weight < 0 {
			return nil, fmt.Errorf("%w: weight cannot be negative", ErrValidation)
		}
	}
	createdAt, updatedAt, err := recordTimes(rec)
	if err != nil {
		return nil, err
	}
	return &Criteria{
		ID:          id,
		DecisionID:  decisionID,
		Name:        name,
		Description: optionalString(rec, "description"),
		Weight:      weight,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}, nil
}

// ─── Score ───────────────────────────────────────────────────────────────────

// Score rates one Option against one Criteria. At most one Score may exist
// per (option, criteria) pair; storage enforces the uniqueness. The value is
// unbounded — negative, zero and large values are all legal.
type Score struct {
	ID         string    `json:"id"`
	OptionID   string    `json:"option_id"`
	CriteriaID string    `json:"criteria_id"`
	Value      float64   `json:"value"`
	Notes      string    `json:"notes"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NewScore creates a validated Score linking the given option and criteria.
func NewScore(optionID, criteriaID string, value float64, notes string) (*Score, error) {
	if strings.TrimSpace(optionID) == "" {
		return nil, fmt.Errorf("%w: score must be associated with an option", ErrValidation)
	}
	if strings.TrimSpace(criteriaID) == "" {
		return nil, fmt.Errorf("%w: score must be associated with a criteria", ErrValidation)
	}
	ts := now()
	return &Score{
		ID:         newID(),
		OptionID:   optionID,
		CriteriaID: criteriaID,
		Value:      value,
		Notes:      notes,
		CreatedAt:  ts,
		UpdatedAt:  ts,
	}, nil
}

// Touch refreshes the update timestamp.
func (s *Score) Touch() { s.UpdatedAt = now() }

// Record converts the score to a generic field map.
func (s *Score) Record() map[string]any {
	return map[string]any{
		"id":          s.ID,
		"option_id":   s.OptionID,
		"criteria_id": s.CriteriaID,
		"value":       s.Value,
		"notes":       s.Notes,
		"created_at":  FormatTime(s.CreatedAt),
		"updated_at":  FormatTime(s.UpdatedAt),
	}
}

// ScoreFromRecord reconstructs a Score from a field map. The value is
// required and must be numeric; missing notes default to "".
func ScoreFromRecord(rec map[string]any) (*Score, error) {
	id, err := requiredString(rec, "id")
	if err != nil {
		return nil, err
	}
	optionID, err := requiredString(rec, "option_id")
	if err != nil {
		return nil, err
	}
	criteriaID, err := requiredString(rec, "criteria_id")
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(optionID) == "" {
		return nil, fmt.Errorf("%w: score must be associated with an option", ErrValidation)
	}
	if strings.TrimSpace(criteriaID) == "" {
		return nil, fmt.Errorf("%w: score must be associated with a criteria", ErrValidation)
	}
	raw, ok := rec["value"]
	if !ok {
		return nil, fmt.Errorf("%w: missing field %q", ErrValidation, "value")
	}
	value, err := CoerceFloat(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: score value must be a numeric value", ErrValidation)
	}
	createdAt, updatedAt, err := recordTimes(rec)
	if err != nil {
		return nil, err
	}
	return &Score{
		ID:         id,
		OptionID:   optionID,
		CriteriaID: criteriaID,
		Value:      value,
		Notes:      optionalString(rec, "notes"),
		CreatedAt:  createdAt,
		UpdatedAt:  updatedAt,
	}, nil
}

// ─── Record helpers ──────────────────────────────────────────────────────────

// CoerceFloat converts an integer or floating-point field to float64.
// Booleans, strings, lists and everything else are rejected — a record
// decoded from JSON may carry any of those where a number was expected.
func CoerceFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("%w: not a numeric value: %T", ErrValidation, v)
	}
}

func requiredString(rec map[string]any, key string) (string, error) {
	v, ok := rec[key]
	if !ok {
		return "", fmt.Errorf("%w: missing field %q", ErrValidation, key)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: field %q must be a string, got %T", ErrValidation, key, v)
	}
	return s, nil
}

func optionalString(rec map[string]any, key string) string {
	if v, ok := rec[key].(string); ok {
		return v
	}
	return ""
}

func recordTimes(rec map[string]any) (createdAt, updatedAt time.Time, err error) {
	created, err := requiredString(rec, "created_at")
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	updated, err := requiredString(rec, "updated_at")
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	createdAt, err = ParseTime(created)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	updatedAt, err = ParseTime(updated)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return createdAt, updatedAt, nil
}
