// Package seeddb writes fixtures into a SQLite database as seed data.
package seeddb

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/zarlcorp/zpersona/internal/fixture"
	_ "modernc.org/sqlite" // pure Go SQLite driver
)

const schema = `CREATE TABLE IF NOT EXISTS people (
	id            TEXT PRIMARY KEY,
	given_name    TEXT NOT NULL,
	middle_name   TEXT,
	surname       TEXT NOT NULL,
	date_of_birth TEXT NOT NULL,
	username      TEXT NOT NULL,
	created_at    TEXT NOT NULL
)`

const insertPerson = `INSERT OR REPLACE INTO people
	(id, given_name, middle_name, surname, date_of_birth, username, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)`

// DB is a seed database.
type DB struct {
	db   *sql.DB
	path string
}

// Open opens or creates the database at path.
func Open(path string) (*DB, error) {
	dsn := fmt.Sprintf("file:%s?mode=rwc&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open seed db: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("open seed db: %w", err)
	}

	// SQLite doesn't handle concurrent writes well
	db.SetMaxOpenConns(1)

	return &DB{db: db, path: path}, nil
}

// Path returns the database file path.
func (d *DB) Path() string {
	return d.path
}

// Migrate creates the people table if missing.
func (d *DB) Migrate(ctx context.Context) error {
	if _, err := d.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// Insert writes fixtures in a single transaction. Existing rows with the
// same id are replaced.
func (d *DB) Insert(ctx context.Context, fixtures []fixture.Fixture) (err error) {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("insert: begin: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, insertPerson)
	if err != nil {
		return fmt.Errorf("insert: prepare: %w", err)
	}
	defer stmt.Close()

	for _, f := range fixtures {
		_, err = stmt.ExecContext(ctx,
			f.ID,
			f.GivenName,
			nullable(f.MiddleName),
			f.Surname,
			f.DateOfBirth.UTC().Format(time.RFC3339Nano),
			f.Username,
			f.CreatedAt.UTC().Format(time.RFC3339),
		)
		if err != nil {
			return fmt.Errorf("insert %s: %w", f.ID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("insert: commit: %w", err)
	}
	return nil
}

// Count returns the number of rows in people.
func (d *DB) Count(ctx context.Context) (int, error) {
	var n int
	if err := d.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM people").Scan(&n); err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	return n, nil
}

// Usernames returns every stored username, ordered.
func (d *DB) Usernames(ctx context.Context) ([]string, error) {
	rows, err := d.db.QueryContext(ctx, "SELECT username FROM people ORDER BY username")
	if err != nil {
		return nil, fmt.Errorf("usernames: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, fmt.Errorf("usernames: scan: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// Close closes the database.
func (d *DB) Close() error {
	return d.db.Close()
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
