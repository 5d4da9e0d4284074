package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpen_CreatesNewDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer s.Close()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("database file was not created")
	}

	var version int
	if err := s.db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		t.Fatalf("query user_version: %v", err)
	}
	if version != currentSchemaVersion {
		t.Errorf("user_version = %d, want %d", version, currentSchemaVersion)
	}
}

func TestOpen_SeedsDefaultUsers(t *testing.T) {
	s := openTestStore(t)

	users, err := s.ListUsers(context.Background())
	if err != nil {
		t.Fatalf("ListUsers() failed: %v", err)
	}
	if len(users) != 3 {
		t.Fatalf("got %d users after first open, want 3", len(users))
	}

	admin, err := s.GetUser(context.Background(), "admin")
	if err != nil {
		t.Fatalf("GetUser(admin) failed: %v", err)
	}
	if admin.Password != "admin123" || admin.Level != LevelAdministrator {
		t.Errorf("admin = %+v, want admin123/administrator", admin)
	}
}

func TestOpen_SeedingIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	for i := 0; i < 3; i++ {
		s, err := Open(path)
		if err != nil {
			t.Fatalf("Open() iteration %d failed: %v", i, err)
		}
		users, err := s.ListUsers(context.Background())
		s.Close()
		if err != nil {
			t.Fatalf("ListUsers() iteration %d failed: %v", i, err)
		}
		if len(users) != 3 {
			t.Fatalf("iteration %d: got %d users, want 3 (seeding duplicated)", i, len(users))
		}
	}
}

func TestOpen_PreservesExistingData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s1, err := Open(path)
	if err != nil {
		t.Fatalf("first Open() failed: %v", err)
	}
	if err := s1.AddUser(context.Background(), User{Username: "tech", Password: "pw", Level: LevelBasic}); err != nil {
		t.Fatalf("AddUser() failed: %v", err)
	}
	s1.Close()

	s2, err := Open(path)
	if err != nil {
		t.Fatalf("second Open() failed: %v", err)
	}
	defer s2.Close()

	if _, err := s2.GetUser(context.Background(), "tech"); err != nil {
		t.Errorf("user added before reopen is gone: %v", err)
	}
}

func TestMigrations_FromV1Database(t *testing.T) {
	// A database that only ever saw schema v1 has users but no
	// calculations table; migration must add it without touching users.
	path := filepath.Join(t.TempDir(), "old.db")

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatalf("open raw db: %v", err)
	}
	if err := migrateToV1(db); err != nil {
		t.Fatalf("create v1 schema: %v", err)
	}
	if _, err := db.Exec(
		"INSERT INTO users (username, password, level) VALUES ('legacy', 'pw', 'basic')",
	); err != nil {
		t.Fatalf("insert legacy user: %v", err)
	}
	if _, err := db.Exec("PRAGMA user_version = 1"); err != nil {
		t.Fatalf("set user_version: %v", err)
	}
	db.Close()

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() on v1 database failed: %v", err)
	}
	defer s.Close()

	// Existing data survives and the users table was not re-seeded.
	users, err := s.ListUsers(context.Background())
	if err != nil {
		t.Fatalf("ListUsers() failed: %v", err)
	}
	if len(users) != 1 || users[0].Username != "legacy" {
		t.Errorf("users after migration = %+v, want only legacy", users)
	}

	// The v2 collection exists now.
	if _, err := s.ListCalculations(context.Background()); err != nil {
		t.Errorf("ListCalculations() after migration failed: %v", err)
	}
}

func TestSeedDefaultUsers_ToleratesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.db")

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatalf("open raw db: %v", err)
	}
	defer db.Close()
	if err := migrateToV1(db); err != nil {
		t.Fatalf("create users table: %v", err)
	}
	if _, err := db.Exec(
		"INSERT INTO users (username, password, level) VALUES ('admin', 'changed', 'administrator')",
	); err != nil {
		t.Fatalf("insert conflicting admin: %v", err)
	}

	if err := seedDefaultUsers(db); err != nil {
		t.Fatalf("seedDefaultUsers() failed on conflict: %v", err)
	}

	// The conflicting row was kept, the remaining seeds were added.
	var password string
	if err := db.QueryRow("SELECT password FROM users WHERE username = 'admin'").Scan(&password); err != nil {
		t.Fatalf("query admin: %v", err)
	}
	if password != "changed" {
		t.Errorf("seed overwrote existing admin password: %q", password)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		t.Fatalf("count users: %v", err)
	}
	if count != 3 {
		t.Errorf("got %d users, want 3", count)
	}
}
