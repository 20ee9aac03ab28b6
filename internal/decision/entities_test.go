package decision_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/strangelabs/strange/internal/decision"
)

// ─── Constructors ────────────────────────────────────────────────────────────

func TestNewDecision_Basic(t *testing.T) {
	d, err := decision.NewDecision("Choose a database", "for the new service")
	if err != nil {
		t.Fatalf("NewDecision error: %v", err)
	}
	if d.ID == "" {
		t.Error("ID should be generated")
	}
	if d.Name != "Choose a database" {
		t.Errorf("Name = %q", d.Name)
	}
	if d.Description != "for the new service" {
		t.Errorf("Description = %q", d.Description)
	}
	if d.CreatedAt.IsZero() || d.UpdatedAt.IsZero() {
		t.Error("timestamps should be set")
	}
	if !d.CreatedAt.Equal(d.UpdatedAt) {
		t.Error("created and updated timestamps should match at creation")
	}
	if d.CreatedAt.Location() != time.UTC {
		t.Error("timestamps should be UTC")
	}
}

func TestNewDecision_EmptyName(t *testing.T) {
	for _, name := range []string{"", "   ", "\t\n"} {
		if _, err := decision.NewDecision(name, ""); !errors.Is(err, decision.ErrValidation) {
			t.Errorf("NewDecision(%q) error = %v, want ErrValidation", name, err)
		}
	}
}

func TestNewDecision_UniqueIDs(t *testing.T) {
	a, _ := decision.NewDecision("a", "")
	b, _ := decision.NewDecision("b", "")
	if a.ID == b.ID {
		t.Errorf("two decisions share ID %q", a.ID)
	}
}

func TestNewOption_Validation(t *testing.T) {
	if _, err := decision.NewOption("d1", "", ""); !errors.Is(err, decision.ErrValidation) {
		t.Errorf("empty name: error = %v, want ErrValidation", err)
	}
	if _, err := decision.NewOption("", "PostgreSQL", ""); !errors.Is(err, decision.ErrValidation) {
		t.Errorf("empty decision id: error = %v, want ErrValidation", err)
	}

	o, err := decision.NewOption("d1", "PostgreSQL", "boring and solid")
	if err != nil {
		t.Fatalf("NewOption error: %v", err)
	}
	if o.DecisionID != "d1" {
		t.Errorf("DecisionID = %q", o.DecisionID)
	}
}

func TestNewCriteria_Weights(t *testing.T) {
	// Zero weight is legal — the criteria just contributes nothing.
	c, err := decision.NewCriteria("d1", "cost", "", 0)
	if err != nil {
		t.Fatalf("zero weight rejected: %v", err)
	}
	if c.Weight != 0 {
		t.Errorf("Weight = %g, want 0", c.Weight)
	}

	if _, err := decision.NewCriteria("d1", "cost", "", -0.5); !errors.Is(err, decision.ErrValidation) {
		t.Errorf("negative weight: error = %v, want ErrValidation", err)
	}
	if _, err := decision.NewCriteria("", "cost", "", 1); !errors.Is(err, decision.ErrValidation) {
		t.Errorf("empty decision id: error = %v, want ErrValidation", err)
	}
	if _, err := decision.NewCriteria("d1", " ", "", 1); !errors.Is(err, decision.ErrValidation) {
		t.Errorf("blank name: error = %v, want ErrValidation", err)
	}
}

func TestNewScore_Validation(t *testing.T) {
	if _, err := decision.NewScore("", "c1", 5, ""); !errors.Is(err, decision.ErrValidation) {
		t.Errorf("empty option id: error = %v, want ErrValidation", err)
	}
	if _, err := decision.NewScore("o1", "", 5, ""); !errors.Is(err, decision.ErrValidation) {
		t.Errorf("empty criteria id: error = %v, want ErrValidation", err)
	}

	// Values are unbounded.
	for _, v := range []float64{-10, 0, 9.5, 1e6} {
		s, err := decision.NewScore("o1", "c1", v, "")
		if err != nil {
			t.Errorf("NewScore(%g) error: %v", v, err)
			continue
		}
		if s.Value != v {
			t.Errorf("Value = %g, want %g", s.Value, v)
		}
	}
}

func TestTouch_RefreshesUpdatedAt(t *testing.T) {
	d, _ := decision.NewDecision("d", "")
	created := d.CreatedAt

	time.Sleep(5 * time.Millisecond)
	d.Touch()

	if !d.UpdatedAt.After(created) {
		t.Errorf("UpdatedAt = %v, want after %v", d.UpdatedAt, created)
	}
	if !d.CreatedAt.Equal(created) {
		t.Error("Touch must not modify CreatedAt")
	}
}

// ─── Records ─────────────────────────────────────────────────────────────────

func TestDecisionRecord_RoundTrip(t *testing.T) {
	d, _ := decision.NewDecision("Choose a broker", "kafka vs nats")

	got, err := decision.DecisionFromRecord(d.Record())
	if err != nil {
		t.Fatalf("DecisionFromRecord error: %v", err)
	}
	if got.ID != d.ID || got.Name != d.Name || got.Description != d.Description {
		t.Errorf("round-trip mismatch: got %+v, want %+v", got, d)
	}
	if !got.CreatedAt.Equal(d.CreatedAt) || !got.UpdatedAt.Equal(d.UpdatedAt) {
		t.Errorf("timestamps drifted: got %v/%v, want %v/%v",
			got.CreatedAt, got.UpdatedAt, d.CreatedAt, d.UpdatedAt)
	}
}

func TestScoreRecord_RoundTrip(t *testing.T) {
	s, _ := decision.NewScore("o1", "c1", -2.25, "risky")

	got, err := decision.ScoreFromRecord(s.Record())
	if err != nil {
		t.Fatalf("ScoreFromRecord error: %v", err)
	}
	if got.Value != -2.25 || got.Notes != "risky" {
		t.Errorf("round-trip mismatch: %+v", got)
	}
}

func TestDecisionFromRecord_MissingFields(t *testing.T) {
	rec := map[string]any{"name": "x"}
	if _, err := decision.DecisionFromRecord(rec); !errors.Is(err, decision.ErrValidation) {
		t.Errorf("missing id: error = %v, want ErrValidation", err)
	}

	d, _ := decision.NewDecision("x", "desc")
	rec = d.Record()
	delete(rec, "description")
	got, err := decision.DecisionFromRecord(rec)
	if err != nil {
		t.Fatalf("missing description should default: %v", err)
	}
	if got.Description != "" {
		t.Errorf("Description = %q, want empty", got.Description)
	}
}

func TestCriteriaFromRecord_WeightHandling(t *testing.T) {
	c, _ := decision.NewCriteria("d1", "perf", "", 0.8)

	// Missing weight defaults to DefaultWeight.
	rec := c.Record()
	delete(rec, "weight")
	got, err := decision.CriteriaFromRecord(rec)
	if err != nil {
		t.Fatalf("missing weight should default: %v", err)
	}
	if got.Weight != decision.DefaultWeight {
		t.Errorf("Weight = %g, want %g", got.Weight, decision.DefaultWeight)
	}

	// Integer weights are accepted.
	rec = c.Record()
	rec["weight"] = 2
	got, err = decision.CriteriaFromRecord(rec)
	if err != nil {
		t.Fatalf("int weight rejected: %v", err)
	}
	if got.Weight != 2.0 {
		t.Errorf("Weight = %g, want 2.0", got.Weight)
	}

	// Non-numeric weights are rejected.
	for _, bad := range []any{true, "0.8", []any{0.8}} {
		rec = c.Record()
		rec["weight"] = bad
		if _, err := decision.CriteriaFromRecord(rec); !errors.Is(err, decision.ErrValidation) {
			t.Errorf("weight %#v: error = %v, want ErrValidation", bad, err)
		}
	}

	// Negative weights are rejected even on decode.
	rec = c.Record()
	rec["weight"] = -1.0
	if _, err := decision.CriteriaFromRecord(rec); !errors.Is(err, decision.ErrValidation) {
		t.Errorf("negative weight: error = %v, want ErrValidation", err)
	}
}

func TestScoreFromRecord_ValueHandling(t *testing.T) {
	s, _ := decision.NewScore("o1", "c1", 7, "")

	rec := s.Record()
	delete(rec, "value")
	if _, err := decision.ScoreFromRecord(rec); !errors.Is(err, decision.ErrValidation) {
		t.Errorf("missing value: error = %v, want ErrValidation", err)
	}

	for _, bad := range []any{false, "7", map[string]any{}} {
		rec = s.Record()
		rec["value"] = bad
		if _, err := decision.ScoreFromRecord(rec); !errors.Is(err, decision.ErrValidation) {
			t.Errorf("value %#v: error = %v, want ErrValidation", bad, err)
		}
	}
}

// ─── CoerceFloat ─────────────────────────────────────────────────────────────

func TestCoerceFloat(t *testing.T) {
	accept := map[any]float64{
		float64(1.5): 1.5,
		float32(2):   2,
		int(3):       3,
		int32(4):     4,
		int64(5):     5,
	}
	for in, want := range accept {
		got, err := decision.CoerceFloat(in)
		if err != nil {
			t.Errorf("CoerceFloat(%#v) error: %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("CoerceFloat(%#v) = %g, want %g", in, got, want)
		}
	}

	// bool is the classic trap: it must not sneak through as 0/1.
	for _, bad := range []any{true, false, "3.5", nil} {
		if _, err := decision.CoerceFloat(bad); !errors.Is(err, decision.ErrValidation) {
			t.Errorf("CoerceFloat(%#v) error = %v, want ErrValidation", bad, err)
		}
	}
}

// ─── Timestamps ──────────────────────────────────────────────────────────────

func TestFormatTime_SortableAndExact(t *testing.T) {
	earlier := time.Date(2026, 3, 1, 9, 0, 0, 5, time.UTC)
	later := time.Date(2026, 3, 1, 9, 0, 0, 50, time.UTC)

	a, b := decision.FormatTime(earlier), decision.FormatTime(later)
	if !(strings.Compare(a, b) < 0) {
		t.Errorf("lexicographic order broken: %q vs %q", a, b)
	}

	got, err := decision.ParseTime(a)
	if err != nil {
		t.Fatalf("ParseTime error: %v", err)
	}
	if !got.Equal(earlier) {
		t.Errorf("round-trip = %v, want %v", got, earlier)
	}
}

func TestParseTime_Invalid(t *testing.T) {
	if _, err := decision.ParseTime("yesterday"); err == nil {
		t.Error("expected error for garbage timestamp")
	}
}
