// Package repository provides per-entity CRUD adapters over the storage
// gateway. Each repository translates between entities and stored rows and
// runs every interaction in a scoped transaction via Database.WithTx.
//
// Contracts shared by all repositories:
//   - Create persists the entity and returns it unchanged.
//   - GetByID returns (nil, nil) when no row matches — absence is not an
//     error for reads.
//   - List-by-parent orders ascending by creation time; GetAll orders
//     descending.
//   - Update refreshes the entity's update timestamp, persists the mutable
//     fields, and returns the entity.
//   - Delete returns true iff a row was removed.
//
// Constraint violations (foreign key, uniqueness) raised by the storage
// gateway propagate unmodified — no translation, no retry. Callers can
// classify them with storage.IsUniqueViolation / IsForeignKeyViolation.
package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/strangelabs/strange/internal/decision"
)

// parseRowTimes converts the two timestamp columns of a scanned row.
func parseRowTimes(created, updated string) (createdAt, updatedAt time.Time, err error) {
	createdAt, err = decision.ParseTime(created)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("repository: %w", err)
	}
	updatedAt, err = decision.ParseTime(updated)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("repository: %w", err)
	}
	return createdAt, updatedAt, nil
}

// textOrEmpty unwraps a nullable TEXT column.
func textOrEmpty(s sql.NullString) string {
	if s.Valid {
		return s.String
	}
	return ""
}

// deleteByID runs a single-row DELETE and reports whether a row was removed.
func deleteByID(exec func(fn func(tx *sql.Tx) error) error, query, id string) (bool, error) {
	var removed bool
	err := exec(func(tx *sql.Tx) error {
		res, err := tx.Exec(query, id)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		removed = n > 0
		return nil
	})
	if err != nil {
		return false, err
	}
	return removed, nil
}
