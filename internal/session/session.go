// Package session tracks the current actor and gates operations by
// permission level.
//
// A Session is an explicit object with a LoggedOut -> LoggedIn lifecycle:
// Login establishes the actor, Logout discards it. The actor held by the
// session is a copy of the stored user, not an authoritative reference.
//
// Both authentication failure modes (unknown user, wrong password)
// surface as the same ErrInvalidCredentials so callers cannot enumerate
// usernames; the distinction exists only in debug logs.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ftoledo/fiberbudget/internal/store"
)

var (
	// ErrInvalidCredentials is returned for unknown users and wrong
	// passwords alike.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrNotLoggedIn is returned when an operation requires an actor.
	ErrNotLoggedIn = errors.New("not logged in")

	// ErrForbidden is returned when the actor's level does not allow the
	// operation.
	ErrForbidden = errors.New("operation not permitted for this level")

	// ErrSelfTarget is returned when an administrator targets their own
	// account through user management.
	ErrSelfTarget = errors.New("cannot target your own account")
)

// CanManageUsers reports whether a level may add, list, and delete users.
func CanManageUsers(l store.Level) bool {
	return l == store.LevelAdministrator
}

// CanSeeAdvancedReports reports whether a level may generate the
// printable report.
func CanSeeAdvancedReports(l store.Level) bool {
	return l == store.LevelAdministrator || l == store.LevelAdvanced
}

// CanDeleteCalculations reports whether a level may delete history
// records.
func CanDeleteCalculations(l store.Level) bool {
	return l == store.LevelAdministrator
}

// Session resolves credentials against the store and exposes the
// operations the presentation layer may invoke for the current actor.
type Session struct {
	store *store.Store
	actor *store.User
	token string

	now func() time.Time // test hook
}

// New returns a logged-out session over the given store.
func New(st *store.Store) *Session {
	return &Session{store: st, now: time.Now}
}

// Login resolves the credentials and, on success, transitions to
// LoggedIn with the matched user as current actor. Any existing actor is
// replaced.
func (s *Session) Login(ctx context.Context, username, password string) (store.User, error) {
	u, err := s.store.GetUser(ctx, username)
	if errors.Is(err, store.ErrNotFound) {
		slog.Debug("login rejected", "username", username, "reason", "user_not_found")
		return store.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return store.User{}, fmt.Errorf("login: %w", err)
	}

	// Exact string match; passwords are stored in plain text.
	if u.Password != password {
		slog.Debug("login rejected", "username", username, "reason", "password_mismatch")
		return store.User{}, ErrInvalidCredentials
	}

	s.actor = &u
	s.token = uuid.Must(uuid.NewV7()).String()
	slog.Info("login", "username", u.Username, "level", u.Level, "session", s.token)

	return u, nil
}

// Logout transitions to LoggedOut and discards the actor.
func (s *Session) Logout() {
	if s.actor != nil {
		slog.Info("logout", "username", s.actor.Username, "session", s.token)
	}
	s.actor = nil
	s.token = ""
}

// LoggedIn reports whether the session holds an actor.
func (s *Session) LoggedIn() bool {
	return s.actor != nil
}

// Current returns a copy of the current actor, or nil when logged out.
func (s *Session) Current() *store.User {
	if s.actor == nil {
		return nil
	}
	u := *s.actor
	return &u
}

// Token returns the session token assigned at login, or "" when logged
// out. Tokens are UUIDv7 and exist for log correlation only.
func (s *Session) Token() string {
	return s.token
}

// requireLevel checks that an actor is present and passes the given
// predicate.
func (s *Session) requireLevel(allowed func(store.Level) bool) error {
	if s.actor == nil {
		return ErrNotLoggedIn
	}
	if !allowed(s.actor.Level) {
		return ErrForbidden
	}
	return nil
}
