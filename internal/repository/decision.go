package repository

import (
	"database/sql"

	"github.com/strangelabs/strange/internal/decision"
	"github.com/strangelabs/strange/internal/storage"
)

// DecisionRepository manages Decision rows.
type DecisionRepository struct {
	db *storage.Database
}

// NewDecisionRepository creates a DecisionRepository over the given database.
func NewDecisionRepository(db *storage.Database) *DecisionRepository {
	return &DecisionRepository{db: db}
}

// Create persists a new decision.
func (r *DecisionRepository) Create(d *decision.Decision) (*decision.Decision, error) {
	err := r.db.WithTx(func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			INSERT INTO decisions (id, name, description, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?)`,
			d.ID, d.Name, d.Description,
			decision.FormatTime(d.CreatedAt), decision.FormatTime(d.UpdatedAt),
		)
		return err
	})
	if err != nil {
		return nil, err
	}
	return d, nil
}

// GetByID returns the decision with the given id, or (nil, nil) if absent.
func (r *DecisionRepository) GetByID(id string) (*decision.Decision, error) {
	var d *decision.Decision
	err := r.db.WithTx(func(tx *sql.Tx) error {
		row := tx.QueryRow(`
			SELECT id, name, description, created_at, updated_at
			FROM decisions WHERE id = ?`, id)

		var (
			desc             sql.NullString
			created, updated string
		)
		found := &decision.Decision{}
		if err := row.Scan(&found.ID, &found.Name, &desc, &created, &updated); err != nil {
			if err == sql.ErrNoRows {
				return nil
			}
			return err
		}
		createdAt, updatedAt, err := parseRowTimes(created, updated)
		if err != nil {
			return err
		}
		found.Description = textOrEmpty(desc)
		found.CreatedAt = createdAt
		found.UpdatedAt = updatedAt
		d = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return d, nil
}

// GetAll returns every decision, newest first.
func (r *DecisionRepository) GetAll() ([]*decision.Decision, error) {
	var out []*decision.Decision
	err := r.db.WithTx(func(tx *sql.Tx) error {
		rows, err := tx.Query(`
			SELECT id, name, description, created_at, updated_at
			FROM decisions ORDER BY created_at DESC`)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var (
				d                decision.Decision
				desc             sql.NullString
				created, updated string
			)
			if err := rows.Scan(&d.ID, &d.Name, &desc, &created, &updated); err != nil {
				return err
			}
			d.CreatedAt, d.UpdatedAt, err = parseRowTimes(created, updated)
			if err != nil {
				return err
			}
			d.Description = textOrEmpty(desc)
			out = append(out, &d)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Update refreshes the decision's update timestamp and persists the
// mutable fields.
func (r *DecisionRepository) Update(d *decision.Decision) (*decision.Decision, error) {
	d.Touch()
	err := r.db.WithTx(func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			UPDATE decisions SET name = ?, description = ?, updated_at = ?
			WHERE id = ?`,
			d.Name, d.Description, decision.FormatTime(d.UpdatedAt), d.ID,
		)
		return err
	})
	if err != nil {
		return nil, err
	}
	return d, nil
}

// Delete removes the decision with the given id, returning true iff a row
// was removed. The storage gateway cascades the delete to the decision's
// options, criteria, and (transitively) their scores.
func (r *DecisionRepository) Delete(id string) (bool, error) {
	return deleteByID(r.db.WithTx, `DELETE FROM decisions WHERE id = ?`, id)
}
