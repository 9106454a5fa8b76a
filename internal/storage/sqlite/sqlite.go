// Package sqlite provides a SQLite-backed storage.SeedProvider using Go's
// standard database/sql package.
//
// WHY SQLite?
// ───────────
// A roster exported from another system is often handed over as a single
// SQLite file. There is no network and no server process; the file is
// opened at start-up, the students table is read once, and the in-memory
// store takes over from there.
//
// The blank import below registers the sqlite3 driver with database/sql.
package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/aanand-mishra/students-roster/internal/types"

	// Blank import: side-effect only (registers the "sqlite3" driver).
	_ "github.com/mattn/go-sqlite3"
)

// columns is the column list shared by every query, in Scan order.
const columns = `id, first_name, middle_name, last_name, email, contact_number,
	gender, college_name, department, hobbies, dob`

// SQLite reads seed records from a students table.
// A single *sql.DB is safe for concurrent use by multiple goroutines.
type SQLite struct {
	Db *sql.DB
}

// New opens the SQLite database at path, creates the students table if it
// does not already exist, and returns a ready-to-use *SQLite.
func New(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: open db: %w", err)
	}

	// CREATE TABLE IF NOT EXISTS is idempotent — safe to run on every
	// startup. Every field is nullable TEXT because every student field is
	// optional; rowid keeps insertion order.
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS students (
			id             TEXT PRIMARY KEY,
			first_name     TEXT,
			middle_name    TEXT,
			last_name      TEXT,
			email          TEXT,
			contact_number TEXT,
			gender         TEXT,
			college_name   TEXT,
			department     TEXT,
			hobbies        TEXT,
			dob            TEXT
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite.New: create table: %w", err)
	}

	return &SQLite{Db: db}, nil
}

// Close releases the underlying connection pool.
func (s *SQLite) Close() error {
	return s.Db.Close()
}

// ─────────────────────────────────────────────────────────────────────────────
// Insert adds one row to the students table. It is used to prepare seed
// files (and by tests); the running service never calls it.
//
// Prepared statements keep values apart from SQL syntax, so names with
// quotes in them are stored as-is.
// ─────────────────────────────────────────────────────────────────────────────
func (s *SQLite) Insert(student types.Student) error {
	stmt, err := s.Db.Prepare(
		"INSERT INTO students (" + columns + ") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
	)
	if err != nil {
		return fmt.Errorf("Insert: prepare: %w", err)
	}
	defer stmt.Close()

	in := student.StudentInput
	_, err = stmt.Exec(
		nullable(student.ID),
		nullable(in.FirstName),
		nullable(in.MiddleName),
		nullable(in.LastName),
		nullable(in.Email),
		nullable(in.ContactNumber),
		nullable(in.Gender),
		nullable(in.CollegeName),
		nullable(in.Department),
		nullable(in.Hobbies),
		nullable(in.DOB),
	)
	if err != nil {
		return fmt.Errorf("Insert: exec: %w", err)
	}

	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Seed returns every row of the students table in insertion order.
//
// NULL columns come back as absent (empty) fields. Rows with a NULL or
// empty id are returned without one and get an id from the store.
// ─────────────────────────────────────────────────────────────────────────────
func (s *SQLite) Seed() ([]types.Student, error) {
	stmt, err := s.Db.Prepare("SELECT " + columns + " FROM students ORDER BY rowid")
	if err != nil {
		return nil, fmt.Errorf("Seed: prepare: %w", err)
	}
	defer stmt.Close()

	rows, err := stmt.Query()
	if err != nil {
		return nil, fmt.Errorf("Seed: query: %w", err)
	}
	defer rows.Close()

	students := make([]types.Student, 0)

	for rows.Next() {
		var id sql.NullString
		var f [10]sql.NullString

		if err := rows.Scan(
			&id,
			&f[0], &f[1], &f[2], &f[3], &f[4],
			&f[5], &f[6], &f[7], &f[8], &f[9],
		); err != nil {
			return nil, fmt.Errorf("Seed: scan row: %w", err)
		}

		students = append(students, types.Student{
			ID: id.String,
			StudentInput: types.StudentInput{
				FirstName:     f[0].String,
				MiddleName:    f[1].String,
				LastName:      f[2].String,
				Email:         f[3].String,
				ContactNumber: f[4].String,
				Gender:        f[5].String,
				CollegeName:   f[6].String,
				Department:    f[7].String,
				Hobbies:       f[8].String,
				DOB:           f[9].String,
			},
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("Seed: rows iteration: %w", err)
	}

	return students, nil
}

// nullable stores absent fields as NULL rather than ''.
func nullable(v string) sql.NullString {
	return sql.NullString{String: v, Valid: v != ""}
}
