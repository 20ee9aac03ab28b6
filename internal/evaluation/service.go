// Package evaluation implements the decision evaluation service — the
// weighted-scoring engine at the heart of strange.
//
// A Service is scoped to a single Decision. It manages that decision's
// options, criteria and scores through the repository interfaces below, and
// ranks options by weighted score: for each option, the sum over every
// criteria of (recorded score value × criteria weight), with missing scores
// contributing zero. The sum is deliberately not normalized by total
// weight — see NormalizedScores for the display-only averaging variant.
package evaluation

import (
	"errors"
	"fmt"
	"sort"

	"github.com/strangelabs/strange/internal/decision"
)

// ErrNilDecision is returned by NewService when constructed without a
// decision — a configuration error, not a runtime one.
var ErrNilDecision = errors.New("evaluation: decision cannot be nil")

// ErrNotFound is wrapped by update operations when the target entity does
// not exist. Plain reads return (nil, nil) instead of this error.
var ErrNotFound = errors.New("not found")

// ─── Repository interfaces ──────────────────────────────────────────────────
//
// The Service depends on capability interfaces, not concrete repositories,
// so tests can substitute in-memory doubles without touching SQLite.
// repository.OptionRepository et al. satisfy these.

// OptionStore is the option persistence capability the Service requires.
type OptionStore interface {
	Create(*decision.Option) (*decision.Option, error)
	GetByID(id string) (*decision.Option, error)
	GetByDecision(decisionID string) ([]*decision.Option, error)
	Update(*decision.Option) (*decision.Option, error)
	Delete(id string) (bool, error)
}

// CriteriaStore is the criteria persistence capability the Service requires.
type CriteriaStore interface {
	Create(*decision.Criteria) (*decision.Criteria, error)
	GetByID(id string) (*decision.Criteria, error)
	GetByDecision(decisionID string) ([]*decision.Criteria, error)
	Update(*decision.Criteria) (*decision.Criteria, error)
	Delete(id string) (bool, error)
}

// ScoreStore is the score persistence capability the Service requires.
type ScoreStore interface {
	Create(*decision.Score) (*decision.Score, error)
	GetByID(id string) (*decision.Score, error)
	GetByOptionAndCriteria(optionID, criteriaID string) (*decision.Score, error)
	GetByOption(optionID string) ([]*decision.Score, error)
	GetByCriteria(criteriaID string) ([]*decision.Score, error)
	Update(*decision.Score) (*decision.Score, error)
	Delete(id string) (bool, error)
}

// ─── Service ─────────────────────────────────────────────────────────────────

// Service is the decision-scoped facade over options, criteria and scores.
type Service struct {
	decision *decision.Decision
	options  OptionStore
	criteria CriteriaStore
	scores   ScoreStore
}

// NewService creates a Service for the given decision. The decision must be
// non-nil; the stores are the per-entity repositories.
func NewService(d *decision.Decision, options OptionStore, criteria CriteriaStore, scores ScoreStore) (*Service, error) {
	if d == nil {
		return nil, ErrNilDecision
	}
	return &Service{
		decision: d,
		options:  options,
		criteria: criteria,
		scores:   scores,
	}, nil
}

// Decision returns the decision this service is scoped to.
func (s *Service) Decision() *decision.Decision { return s.decision }

// ─── Options ─────────────────────────────────────────────────────────────────

// CreateOption validates and persists a new option bound to the service's
// decision.
func (s *Service) CreateOption(name, description string) (*decision.Option, error) {
	o, err := decision.NewOption(s.decision.ID, name, description)
	if err != nil {
		return nil, err
	}
	return s.options.Create(o)
}

// GetOption returns an option by id, or (nil, nil) if absent. The lookup is
// unscoped — it is not restricted to the service's decision.
func (s *Service) GetOption(optionID string) (*decision.Option, error) {
	return s.options.GetByID(optionID)
}

// GetAllOptions returns the decision's options in creation order.
func (s *Service) GetAllOptions() ([]*decision.Option, error) {
	return s.options.GetByDecision(s.decision.ID)
}

// OptionUpdate carries the fields UpdateOption should change. Nil fields
// are left untouched.
type OptionUpdate struct {
	Name        *string
	Description *string
}

// UpdateOption applies the supplied fields to an existing option and
// persists it, refreshing only the update timestamp. Returns ErrNotFound
// (wrapped) if no option has the given id.
func (s *Service) UpdateOption(optionID string, upd OptionUpdate) (*decision.Option, error) {
	o, err := s.options.GetByID(optionID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, fmt.Errorf("option %s: %w", optionID, ErrNotFound)
	}
	if upd.Name != nil {
		o.Name = *upd.Name
	}
	if upd.Description != nil {
		o.Description = *upd.Description
	}
	return s.options.Update(o)
}

// DeleteOption removes an option, returning whether a row was removed.
// Cascading removal of the option's scores is the storage gateway's job.
func (s *Service) DeleteOption(optionID string) (bool, error) {
	return s.options.Delete(optionID)
}

// ─── Criteria ────────────────────────────────────────────────────────────────

// CreateCriteria validates and persists a new criteria bound to the
// service's decision. Weight must be >= 0; zero is legal.
func (s *Service) CreateCriteria(name, description string, weight float64) (*decision.Criteria, error) {
	c, err := decision.NewCriteria(s.decision.ID, name, description, weight)
	if err != nil {
		return nil, err
	}
	return s.criteria.Create(c)
}

// GetCriteria returns a criteria by id, or (nil, nil) if absent. Unscoped.
func (s *Service) GetCriteria(criteriaID string) (*decision.Criteria, error) {
	return s.criteria.GetByID(criteriaID)
}

// GetAllCriteria returns the decision's criteria in creation order.
func (s *Service) GetAllCriteria() ([]*decision.Criteria, error) {
	return s.criteria.GetByDecision(s.decision.ID)
}

// CriteriaUpdate carries the fields UpdateCriteria should change. Nil
// fields are left untouched.
type CriteriaUpdate struct {
	Name        *string
	Description *string
	Weight      *float64
}

// UpdateCriteria applies the supplied fields to an existing criteria and
// persists it. Returns ErrNotFound (wrapped) if no criteria has the given id.
func (s *Service) UpdateCriteria(criteriaID string, upd CriteriaUpdate) (*decision.Criteria, error) {
	c, err := s.criteria.GetByID(criteriaID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("criteria %s: %w", criteriaID, ErrNotFound)
	}
	if upd.Name != nil {
		c.Name = *upd.Name
	}
	if upd.Description != nil {
		c.Description = *upd.Description
	}
	if upd.Weight != nil {
		c.Weight = *upd.Weight
	}
	return s.criteria.Update(c)
}

// DeleteCriteria removes a criteria, returning whether a row was removed.
// Cascading removal of the criteria's scores is the storage gateway's job.
func (s *Service) DeleteCriteria(criteriaID string) (bool, error) {
	return s.criteria.Delete(criteriaID)
}

// ─── Scores ──────────────────────────────────────────────────────────────────

// CreateScore validates and persists a score linking the given option and
// criteria. The referenced rows must exist (the gateway's foreign keys
// enforce it) and the pair must be unscored (its unique index enforces
// that); both failures propagate unmodified.
//
// CreateScore does NOT verify that the option and criteria belong to the
// service's own decision — a score may link entities across decisions.
// Deliberately permissive, kept from the original behavior.
func (s *Service) CreateScore(optionID, criteriaID string, value float64, notes string) (*decision.Score, error) {
	sc, err := decision.NewScore(optionID, criteriaID, value, notes)
	if err != nil {
		return nil, err
	}
	return s.scores.Create(sc)
}

// GetScore returns a score by id, or (nil, nil) if absent. Unscoped.
func (s *Service) GetScore(scoreID string) (*decision.Score, error) {
	return s.scores.GetByID(scoreID)
}

// GetScoreByOptionAndCriteria returns the unique score for the pair, or
// (nil, nil) if the pair is unscored.
func (s *Service) GetScoreByOptionAndCriteria(optionID, criteriaID string) (*decision.Score, error) {
	return s.scores.GetByOptionAndCriteria(optionID, criteriaID)
}

// GetScoresByOption returns all scores of an option in creation order.
func (s *Service) GetScoresByOption(optionID string) ([]*decision.Score, error) {
	return s.scores.GetByOption(optionID)
}

// GetScoresByCriteria returns all scores recorded against a criteria in
// creation order.
func (s *Service) GetScoresByCriteria(criteriaID string) ([]*decision.Score, error) {
	return s.scores.GetByCriteria(criteriaID)
}

// ScoreUpdate carries the fields UpdateScore should change. Nil fields are
// left untouched.
type ScoreUpdate struct {
	Value *float64
	Notes *string
}

// UpdateScore applies the supplied fields to an existing score and persists
// it. Returns ErrNotFound (wrapped) if no score has the given id.
func (s *Service) UpdateScore(scoreID string, upd ScoreUpdate) (*decision.Score, error) {
	sc, err := s.scores.GetByID(scoreID)
	if err != nil {
		return nil, err
	}
	if sc == nil {
		return nil, fmt.Errorf("score %s: %w", scoreID, ErrNotFound)
	}
	if upd.Value != nil {
		sc.Value = *upd.Value
	}
	if upd.Notes != nil {
		sc.Notes = *upd.Notes
	}
	return s.scores.Update(sc)
}

// DeleteScore removes a score, returning whether a row was removed.
func (s *Service) DeleteScore(scoreID string) (bool, error) {
	return s.scores.Delete(scoreID)
}

// ─── Weighted scoring ────────────────────────────────────────────────────────

// RankedOption pairs an option with its computed weighted score.
type RankedOption struct {
	Option        *decision.Option `json:"option"`
	WeightedScore float64          `json:"weighted_score"`
}

// CalculateWeightedScores ranks the decision's options by weighted score,
// highest first.
//
// For each option, weighted_score = Σ over every criteria of the decision
// of (score value × criteria weight). A criteria the option has no score
// for contributes 0.0 — absence is not an error and is indistinguishable
// from an explicit zero score. With no options the result is empty; with
// options but no criteria every weighted score is 0.0. Ties keep the
// options' creation order (stable sort).
func (s *Service) CalculateWeightedScores() ([]RankedOption, error) {
	options, err := s.options.GetByDecision(s.decision.ID)
	if err != nil {
		return nil, err
	}
	if len(options) == 0 {
		return []RankedOption{}, nil
	}

	criteria, err := s.criteria.GetByDecision(s.decision.ID)
	if err != nil {
		return nil, err
	}
	weights := make(map[string]float64, len(criteria))
	for _, c := range criteria {
		weights[c.ID] = c.Weight
	}

	results := make([]RankedOption, 0, len(options))
	for _, o := range options {
		if len(weights) == 0 {
			results = append(results, RankedOption{Option: o, WeightedScore: 0.0})
			continue
		}

		scores, err := s.scores.GetByOption(o.ID)
		if err != nil {
			return nil, err
		}
		values := make(map[string]float64, len(scores))
		for _, sc := range scores {
			values[sc.CriteriaID] = sc.Value
		}

		total := 0.0
		for criteriaID, weight := range weights {
			total += values[criteriaID] * weight
		}
		results = append(results, RankedOption{Option: o, WeightedScore: total})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].WeightedScore > results[j].WeightedScore
	})
	return results, nil
}

// NormalizedScores is a display-only convenience: for each option it
// divides the weighted sum over the criteria the option actually has
// scores for by the sum of those criteria's weights, yielding a weighted
// average on the scores' own scale. Unscored criteria are excluded here —
// unlike CalculateWeightedScores, which is the ranking contract. An option
// with no scores (or only zero-weight ones) gets 0.0.
func (s *Service) NormalizedScores() ([]RankedOption, error) {
	options, err := s.options.GetByDecision(s.decision.ID)
	if err != nil {
		return nil, err
	}
	if len(options) == 0 {
		return []RankedOption{}, nil
	}

	criteria, err := s.criteria.GetByDecision(s.decision.ID)
	if err != nil {
		return nil, err
	}
	weights := make(map[string]float64, len(criteria))
	for _, c := range criteria {
		weights[c.ID] = c.Weight
	}

	results := make([]RankedOption, 0, len(options))
	for _, o := range options {
		scores, err := s.scores.GetByOption(o.ID)
		if err != nil {
			return nil, err
		}

		weightedSum, weightSum := 0.0, 0.0
		for _, sc := range scores {
			w, ok := weights[sc.CriteriaID]
			if !ok {
				continue // score references a criteria outside this decision
			}
			weightedSum += sc.Value * w
			weightSum += w
		}

		avg := 0.0
		if weightSum > 0 {
			avg = weightedSum / weightSum
		}
		results = append(results, RankedOption{Option: o, WeightedScore: avg})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].WeightedScore > results[j].WeightedScore
	})
	return results, nil
}
