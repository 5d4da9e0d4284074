package store

import (
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"

	sqlite3 "github.com/mattn/go-sqlite3"
	"golang.org/x/text/unicode/norm"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 0 - empty database
// 1 - users table
// 2 - calculations table
const currentSchemaVersion = 2

// seedUsers are the accounts inserted the first time the users table is
// created. Credentials are the original application's defaults.
var seedUsers = []User{
	{Username: "admin", Password: "admin123", Level: LevelAdministrator},
	{Username: "user_advanced", Password: "advanced123", Level: LevelAdvanced},
	{Username: "user_basic", Password: "basic123", Level: LevelBasic},
}

// Store provides durable storage for users and calculations.
// Operations are serialized through a single connection; SQLite's
// per-statement durability stands in for transactional isolation, which
// a single-actor tool does not need.
type Store struct {
	db *sql.DB
}

// Open creates or opens a SQLite database at the given path, applies
// pragmas and migrations, and seeds default users on first creation of
// the users table. Idempotent - safe to call on an existing database.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	// SQLite supports one writer at a time; a single connection avoids
	// SQLITE_BUSY from our own pool.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	// Seeding is gated on "users table was just created", so check
	// before the schema pass.
	hadUsers, err := tableExists(db, "users")
	if err != nil {
		db.Close()
		return nil, err
	}

	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	if !hadUsers {
		if err := seedDefaultUsers(db); err != nil {
			db.Close()
			return nil, err
		}
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("execute %q: %w", pragma, err)
		}
	}

	return nil
}

// applySchema creates missing tables and runs version migrations.
// Idempotent.
func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}

	return runMigrations(db)
}

// runMigrations applies incremental schema migrations based on
// user_version. Each step only ensures a collection exists; nothing is
// ever dropped.
func runMigrations(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("get user_version: %w", err)
	}

	if version < 1 {
		if err := migrateToV1(db); err != nil {
			return err
		}
		version = 1
	}
	if version < 2 {
		if err := migrateToV2(db); err != nil {
			return err
		}
		version = 2
	}

	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}

	return nil
}

// migrateToV1 ensures the users table exists. New databases get it from
// schema.sql; pre-v1 databases get it here.
func migrateToV1(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			username TEXT PRIMARY KEY,
			password TEXT NOT NULL,
			level    TEXT NOT NULL CHECK (level IN ('administrator', 'advanced', 'basic'))
		)
	`)
	if err != nil {
		return fmt.Errorf("migrate to v1: %w", err)
	}
	return nil
}

// migrateToV2 ensures the calculations table exists.
func migrateToV2(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS calculations (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			project_name   TEXT NOT NULL,
			distance       REAL NOT NULL,
			splitter_loss1 REAL NOT NULL,
			splitters1     INTEGER NOT NULL,
			splitter_loss2 REAL NOT NULL,
			splitters2     INTEGER NOT NULL,
			fusion_splices INTEGER NOT NULL,
			final_signal   REAL NOT NULL,
			calculated_at  TEXT NOT NULL,
			calculated_by  TEXT NOT NULL DEFAULT 'unknown'
		)
	`)
	if err != nil {
		return fmt.Errorf("migrate to v2: %w", err)
	}
	return nil
}

// seedDefaultUsers inserts the default accounts. A duplicate username is
// logged and skipped so one pre-existing account never aborts the rest
// of the seed; any other failure is fatal to Open.
func seedDefaultUsers(db *sql.DB) error {
	for _, u := range seedUsers {
		_, err := db.Exec(
			"INSERT INTO users (username, password, level) VALUES (?, ?, ?)",
			NormalizeUsername(u.Username), u.Password, string(u.Level),
		)
		if err != nil {
			if isConstraintErr(err) {
				slog.Warn("seed user already exists, not added again", "username", u.Username)
				continue
			}
			return fmt.Errorf("seed user %q: %w", u.Username, err)
		}
	}
	return nil
}

// tableExists reports whether a table is present in sqlite_master.
func tableExists(db *sql.DB, name string) (bool, error) {
	var found string
	err := db.QueryRow(
		"SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", name,
	).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check table %q: %w", name, err)
	}
	return true, nil
}

// isConstraintErr reports whether err is a SQLite constraint violation
// (duplicate primary key, CHECK failure, ...).
func isConstraintErr(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint
}

// NormalizeUsername puts a username key into NFC so visually identical
// names compare equal regardless of input method. Every keyed store
// operation applies it; callers comparing usernames against stored rows
// must apply it too.
func NormalizeUsername(username string) string {
	return norm.NFC.String(username)
}
