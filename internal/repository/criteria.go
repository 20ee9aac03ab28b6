package repository

import (
	"database/sql"

	"github.com/strangelabs/strange/internal/decision"
	"github.com/strangelabs/strange/internal/storage"
)

// CriteriaRepository manages Criteria rows.
type CriteriaRepository struct {
	db *storage.Database
}

// NewCriteriaRepository creates a CriteriaRepository over the given database.
func NewCriteriaRepository(db *storage.Database) *CriteriaRepository {
	return &CriteriaRepository{db: db}
}

// Create persists a new criteria. A decision_id that references no stored
// decision fails with the gateway's foreign-key error, unmodified.
func (r *CriteriaRepository) Create(c *decision.Criteria) (*decision.Criteria, error) {
	err := r.db.WithTx(func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			INSERT INTO criteria (id, decision_id, name, description, weight, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			c.ID, c.DecisionID, c.Name, c.Description, c.Weight,
			decision.FormatTime(c.CreatedAt), decision.FormatTime(c.UpdatedAt),
		)
		return err
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// GetByID returns the criteria with the given id, or (nil, nil) if absent.
func (r *CriteriaRepository) GetByID(id string) (*decision.Criteria, error) {
	var c *decision.Criteria
	err := r.db.WithTx(func(tx *sql.Tx) error {
		row := tx.QueryRow(`
			SELECT id, decision_id, name, description, weight, created_at, updated_at
			FROM criteria WHERE id = ?`, id)

		found, err := scanCriteria(row.Scan)
		if err != nil {
			if err == sql.ErrNoRows {
				return nil
			}
			return err
		}
		c = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// GetByDecision returns all criteria of a decision in creation order.
func (r *CriteriaRepository) GetByDecision(decisionID string) ([]*decision.Criteria, error) {
	return r.list(`
		SELECT id, decision_id, name, description, weight, created_at, updated_at
		FROM criteria WHERE decision_id = ? ORDER BY created_at ASC`, decisionID)
}

// GetAll returns every criteria, newest first.
func (r *CriteriaRepository) GetAll() ([]*decision.Criteria, error) {
	return r.list(`
		SELECT id, decision_id, name, description, weight, created_at, updated_at
		FROM criteria ORDER BY created_at DESC`)
}

// Update refreshes the criteria's update timestamp and persists the mutable
// fields, weight included.
func (r *CriteriaRepository) Update(c *decision.Criteria) (*decision.Criteria, error) {
	c.Touch()
	err := r.db.WithTx(func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			UPDATE criteria SET name = ?, description = ?, weight = ?, updated_at = ?
			WHERE id = ?`,
			c.Name, c.Description, c.Weight, decision.FormatTime(c.UpdatedAt), c.ID,
		)
		return err
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Delete removes the criteria with the given id, returning true iff a row
// was removed. Dependent scores are cascaded by the storage gateway.
func (r *CriteriaRepository) Delete(id string) (bool, error) {
	return deleteByID(r.db.WithTx, `DELETE FROM criteria WHERE id = ?`, id)
}

func (r *CriteriaRepository) list(query string, args ...any) ([]*decision.Criteria, error) {
	var out []*decision.Criteria
	err := r.db.WithTx(func(tx *sql.Tx) error {
		rows, err := tx.Query(query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			c, err := scanCriteria(rows.Scan)
			if err != nil {
				return err
			}
			out = append(out, c)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func scanCriteria(scan func(dest ...any) error) (*decision.Criteria, error) {
	var (
		c                decision.Criteria
		desc             sql.NullString
		created, updated string
	)
	if err := scan(&c.ID, &c.DecisionID, &c.Name, &desc, &c.Weight, &created, &updated); err != nil {
		return nil, err
	}
	createdAt, updatedAt, err := parseRowTimes(created, updated)
	if err != nil {
		return nil, err
	}
	c.Description = textOrEmpty(desc)
	c.CreatedAt = createdAt
	c.UpdatedAt = updatedAt
	return &c, nil
}
