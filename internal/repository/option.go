package repository

import (
	"database/sql"

	"github.com/strangelabs/strange/internal/decision"
	"github.com/strangelabs/strange/internal/storage"
)

// OptionRepository manages Option rows.
type OptionRepository struct {
	db *storage.Database
}

// NewOptionRepository creates an OptionRepository over the given database.
func NewOptionRepository(db *storage.Database) *OptionRepository {
	return &OptionRepository{db: db}
}

// Create persists a new option. A decision_id that references no stored
// decision fails with the gateway's foreign-key error, unmodified.
func (r *OptionRepository) Create(o *decision.Option) (*decision.Option, error) {
	err := r.db.WithTx(func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			INSERT INTO options (id, decision_id, name, description, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?)`,
			o.ID, o.DecisionID, o.Name, o.Description,
			decision.FormatTime(o.CreatedAt), decision.FormatTime(o.UpdatedAt),
		)
		return err
	})
	if err != nil {
		return nil, err
	}
	return o, nil
}

// GetByID returns the option with the given id, or (nil, nil) if absent.
func (r *OptionRepository) GetByID(id string) (*decision.Option, error) {
	var o *decision.Option
	err := r.db.WithTx(func(tx *sql.Tx) error {
		row := tx.QueryRow(`
			SELECT id, decision_id, name, description, created_at, updated_at
			FROM options WHERE id = ?`, id)

		found, err := scanOption(row.Scan)
		if err != nil {
			if err == sql.ErrNoRows {
				return nil
			}
			return err
		}
		o = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return o, nil
}

// GetByDecision returns all options of a decision in creation order.
func (r *OptionRepository) GetByDecision(decisionID string) ([]*decision.Option, error) {
	return r.list(`
		SELECT id, decision_id, name, description, created_at, updated_at
		FROM options WHERE decision_id = ? ORDER BY created_at ASC`, decisionID)
}

// GetAll returns every option, newest first.
func (r *OptionRepository) GetAll() ([]*decision.Option, error) {
	return r.list(`
		SELECT id, decision_id, name, description, created_at, updated_at
		FROM options ORDER BY created_at DESC`)
}

// Update refreshes the option's update timestamp and persists the mutable
// fields. The decision_id binding is not updatable.
func (r *OptionRepository) Update(o *decision.Option) (*decision.Option, error) {
	o.Touch()
	err := r.db.WithTx(func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			UPDATE options SET name = ?, description = ?, updated_at = ?
			WHERE id = ?`,
			o.Name, o.Description, decision.FormatTime(o.UpdatedAt), o.ID,
		)
		return err
	})
	if err != nil {
		return nil, err
	}
	return o, nil
}

// Delete removes the option with the given id, returning true iff a row was
// removed. Dependent scores are cascaded by the storage gateway.
func (r *OptionRepository) Delete(id string) (bool, error) {
	return deleteByID(r.db.WithTx, `DELETE FROM options WHERE id = ?`, id)
}

func (r *OptionRepository) list(query string, args ...any) ([]*decision.Option, error) {
	var out []*decision.Option
	err := r.db.WithTx(func(tx *sql.Tx) error {
		rows, err := tx.Query(query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			o, err := scanOption(rows.Scan)
			if err != nil {
				return err
			}
			out = append(out, o)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func scanOption(scan func(dest ...any) error) (*decision.Option, error) {
	var (
		o                decision.Option
		desc             sql.NullString
		created, updated string
	)
	if err := scan(&o.ID, &o.DecisionID, &o.Name, &desc, &created, &updated); err != nil {
		return nil, err
	}
	createdAt, updatedAt, err := parseRowTimes(created, updated)
	if err != nil {
		return nil, err
	}
	o.Description = textOrEmpty(desc)
	o.CreatedAt = createdAt
	o.UpdatedAt = updatedAt
	return &o, nil
}
