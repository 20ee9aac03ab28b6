// Package storage implements the persistent record store for strange.
//
// It opens a SQLite database (modernc.org/sqlite, no cgo) holding the four
// decision-matrix tables. Referential integrity lives here: foreign keys
// cascade deletes from decisions down through options and criteria to
// scores, and a unique index guards the one-score-per-(option, criteria)
// invariant. Constraint violations surface as raw driver errors that the
// classification helpers below can identify.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// DBFileName is the database file created under the data directory.
const DBFileName = "decisions.db"

// Config holds storage configuration.
type Config struct {
	// DataDir is the directory holding the database file. Created if absent.
	DataDir string
}

// DefaultConfig resolves the per-user default location (~/.strange).
// A location always resolves: if the home directory cannot be determined,
// the current directory is used.
func DefaultConfig() Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return Config{DataDir: filepath.Join(home, ".strange")}
}

// Database owns the single SQLite connection handle for its lifetime.
// It is created at construction (never ambient global state) and released
// exactly once by Close.
type Database struct {
	db   *sql.DB
	path string
}

// Open creates the data directory if needed, opens the database, applies
// pragmas, and creates the schema. The caller must Close the returned
// Database when done.
func Open(cfg Config) (*Database, error) {
	if err := os.MkdirAll(cfg.DataDir, 0700); err != nil {
		return nil, fmt.Errorf("storage: create data dir: %w", err)
	}

	path := filepath.Join(cfg.DataDir, DBFileName)
	db, err := openDB("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage: open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA foreign_keys = ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("storage: pragma %q: %w", p, err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: create schema: %w", err)
	}

	return &Database{db: db, path: path}, nil
}

// Path returns the database file location.
func (d *Database) Path() string { return d.path }

// Close releases the underlying connection. Safe to call once.
func (d *Database) Close() error {
	return d.db.Close()
}

// WithTx runs fn inside a transaction. On success the transaction commits;
// on any error it rolls back and the original error propagates, so no
// partial writes are retained.
func (d *Database) WithTx(fn func(tx *sql.Tx) error) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: commit transaction: %w", err)
	}
	return nil
}

// ─── Schema ──────────────────────────────────────────────────────────────────

// Safe to apply multiple times — every statement uses IF NOT EXISTS.
const schema = `
CREATE TABLE IF NOT EXISTS decisions (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	description TEXT,
	created_at  TEXT NOT NULL,
	updated_at  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS options (
	id          TEXT PRIMARY KEY,
	decision_id TEXT NOT NULL,
	name        TEXT NOT NULL,
	description TEXT,
	created_at  TEXT NOT NULL,
	updated_at  TEXT NOT NULL,
	FOREIGN KEY (decision_id) REFERENCES decisions(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS criteria (
	id          TEXT PRIMARY KEY,
	decision_id TEXT NOT NULL,
	name        TEXT NOT NULL,
	description TEXT,
	weight      REAL NOT NULL DEFAULT 1.0,
	created_at  TEXT NOT NULL,
	updated_at  TEXT NOT NULL,
	FOREIGN KEY (decision_id) REFERENCES decisions(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS scores (
	id          TEXT PRIMARY KEY,
	option_id   TEXT NOT NULL,
	criteria_id TEXT NOT NULL,
	value       REAL NOT NULL,
	notes       TEXT,
	created_at  TEXT NOT NULL,
	updated_at  TEXT NOT NULL,
	FOREIGN KEY (option_id)   REFERENCES options(id)  ON DELETE CASCADE,
	FOREIGN KEY (criteria_id) REFERENCES criteria(id) ON DELETE CASCADE,
	UNIQUE (option_id, criteria_id)
);

CREATE INDEX IF NOT EXISTS idx_options_decision_id  ON options(decision_id);
CREATE INDEX IF NOT EXISTS idx_criteria_decision_id ON criteria(decision_id);
CREATE INDEX IF NOT EXISTS idx_scores_option_id     ON scores(option_id);
CREATE INDEX IF NOT EXISTS idx_scores_criteria_id   ON scores(criteria_id);
`

// ─── Error classification ────────────────────────────────────────────────────

// IsUniqueViolation reports whether err is a SQLite uniqueness-constraint
// failure, e.g. a second score for the same (option, criteria) pair.
func IsUniqueViolation(err error) bool {
	code, ok := sqliteCode(err)
	return ok && (code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY)
}

// IsForeignKeyViolation reports whether err is a SQLite foreign-key
// failure, e.g. a score referencing a nonexistent option or criteria.
func IsForeignKeyViolation(err error) bool {
	code, ok := sqliteCode(err)
	return ok && code == sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY
}

// IsConstraintViolation reports whether err is any SQLite constraint
// failure (unique, foreign key, not null, check).
func IsConstraintViolation(err error) bool {
	code, ok := sqliteCode(err)
	return ok && code&0xff == sqlite3.SQLITE_CONSTRAINT
}

func sqliteCode(err error) (int, bool) {
	var se *sqlite.Error
	if errors.As(err, &se) {
		return se.Code(), true
	}
	return 0, false
}
