// Package store provides SQLite-backed durable storage for the fiber
// budget tool: a users collection and a calculations collection.
//
// # Schema lifecycle
//
// The database carries a schema version in PRAGMA user_version and Open
// applies additive migrations in order:
//
//	v1 - users table (username primary key)
//	v2 - calculations table (auto-increment id)
//
// Migrations only ever create what is missing; existing data is never
// dropped. When Open creates the users table for the first time it seeds
// the three default accounts. A seed account that already exists is
// logged as a warning and skipped, so seeding is idempotent and a
// half-seeded database recovers on the next Open.
//
// # Access contract
//
//   - Every operation takes a context and is atomic per call.
//   - Deleting a missing user or calculation returns ErrNotFound.
//   - Inserting a duplicate username returns ErrDuplicate.
//   - Engine-level faults surface as wrapped driver errors, never
//     swallowed.
//
// Usernames are NFC-normalised before every keyed operation so the same
// visual name always maps to the same row.
//
// # Known limitation
//
// Passwords are stored and compared as plain text, matching the system
// this tool reproduces. Anything beyond faithful reproduction should
// hash them.
//
// # Database configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - foreign_keys=ON
package store
