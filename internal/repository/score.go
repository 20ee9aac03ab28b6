package repository

import (
	"database/sql"

	"github.com/strangelabs/strange/internal/decision"
	"github.com/strangelabs/strange/internal/storage"
)

// ScoreRepository manages Score rows.
type ScoreRepository struct {
	db *storage.Database
}

// NewScoreRepository creates a ScoreRepository over the given database.
func NewScoreRepository(db *storage.Database) *ScoreRepository {
	return &ScoreRepository{db: db}
}

// Create persists a new score. A second score for the same
// (option, criteria) pair fails with the gateway's uniqueness error; an
// option_id or criteria_id that references no stored row fails with its
// foreign-key error. Both propagate unmodified.
func (r *ScoreRepository) Create(s *decision.Score) (*decision.Score, error) {
	err := r.db.WithTx(func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			INSERT INTO scores (id, option_id, criteria_id, value, notes, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			s.ID, s.OptionID, s.CriteriaID, s.Value, s.Notes,
			decision.FormatTime(s.CreatedAt), decision.FormatTime(s.UpdatedAt),
		)
		return err
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

// GetByID returns the score with the given id, or (nil, nil) if absent.
func (r *ScoreRepository) GetByID(id string) (*decision.Score, error) {
	return r.getOne(`
		SELECT id, option_id, criteria_id, value, notes, created_at, updated_at
		FROM scores WHERE id = ?`, id)
}

// GetByOptionAndCriteria returns the unique score for the pair, or
// (nil, nil) if the pair is unscored.
func (r *ScoreRepository) GetByOptionAndCriteria(optionID, criteriaID string) (*decision.Score, error) {
	return r.getOne(`
		SELECT id, option_id, criteria_id, value, notes, created_at, updated_at
		FROM scores WHERE option_id = ? AND criteria_id = ?`, optionID, criteriaID)
}

// GetByOption returns all scores of an option in creation order.
func (r *ScoreRepository) GetByOption(optionID string) ([]*decision.Score, error) {
	return r.list(`
		SELECT id, option_id, criteria_id, value, notes, created_at, updated_at
		FROM scores WHERE option_id = ? ORDER BY created_at ASC`, optionID)
}

// GetByCriteria returns all scores recorded against a criteria in creation
// order.
func (r *ScoreRepository) GetByCriteria(criteriaID string) ([]*decision.Score, error) {
	return r.list(`
		SELECT id, option_id, criteria_id, value, notes, created_at, updated_at
		FROM scores WHERE criteria_id = ? ORDER BY created_at ASC`, criteriaID)
}

// GetAll returns every score, newest first.
func (r *ScoreRepository) GetAll() ([]*decision.Score, error) {
	return r.list(`
		SELECT id, option_id, criteria_id, value, notes, created_at, updated_at
		FROM scores ORDER BY created_at DESC`)
}

// Update refreshes the score's update timestamp and persists value and
// notes. The (option, criteria) binding is not updatable.
func (r *ScoreRepository) Update(s *decision.Score) (*decision.Score, error) {
	s.Touch()
	err := r.db.WithTx(func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			UPDATE scores SET value = ?, notes = ?, updated_at = ?
			WHERE id = ?`,
			s.Value, s.Notes, decision.FormatTime(s.UpdatedAt), s.ID,
		)
		return err
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Delete removes the score with the given id, returning true iff a row was
// removed.
func (r *ScoreRepository) Delete(id string) (bool, error) {
	return deleteByID(r.db.WithTx, `DELETE FROM scores WHERE id = ?`, id)
}

func (r *ScoreRepository) getOne(query string, args ...any) (*decision.Score, error) {
	var s *decision.Score
	err := r.db.WithTx(func(tx *sql.Tx) error {
		row := tx.QueryRow(query, args...)
		found, err := scanScore(row.Scan)
		if err != nil {
			if err == sql.ErrNoRows {
				return nil
			}
			return err
		}
		s = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *ScoreRepository) list(query string, args ...any) ([]*decision.Score, error) {
	var out []*decision.Score
	err := r.db.WithTx(func(tx *sql.Tx) error {
		rows, err := tx.Query(query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			s, err := scanScore(rows.Scan)
			if err != nil {
				return err
			}
			out = append(out, s)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func scanScore(scan func(dest ...any) error) (*decision.Score, error) {
	var (
		s                decision.Score
		notes            sql.NullString
		created, updated string
	)
	if err := scan(&s.ID, &s.OptionID, &s.CriteriaID, &s.Value, &notes, &created, &updated); err != nil {
		return nil, err
	}
	createdAt, updatedAt, err := parseRowTimes(created, updated)
	if err != nil {
		return nil, err
	}
	s.Notes = textOrEmpty(notes)
	s.CreatedAt = createdAt
	s.UpdatedAt = updatedAt
	return &s, nil
}
