package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// GetUser returns the user with the given username, or ErrNotFound.
func (s *Store) GetUser(ctx context.Context, username string) (User, error) {
	var u User
	err := s.db.QueryRowContext(ctx, `
		SELECT username, password, level
		FROM users
		WHERE username = ?
	`, NormalizeUsername(username)).Scan(&u.Username, &u.Password, (*string)(&u.Level))
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// AddUser inserts a new user. Returns ErrDuplicate when the username is
// already taken; the existing row is left untouched.
func (s *Store) AddUser(ctx context.Context, u User) error {
	if u.Username == "" {
		return fmt.Errorf("add user: %w", errors.New("username must not be empty"))
	}
	if !u.Level.Valid() {
		return fmt.Errorf("add user: invalid level %q", u.Level)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (username, password, level) VALUES (?, ?, ?)
	`, NormalizeUsername(u.Username), u.Password, string(u.Level))
	if err != nil {
		if isConstraintErr(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("add user: %w", err)
	}
	return nil
}

// DeleteUser removes a user by username. Returns ErrNotFound when no
// such user exists.
func (s *Store) DeleteUser(ctx context.Context, username string) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM users WHERE username = ?
	`, NormalizeUsername(username))
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListUsers returns all users ordered by username. Returns an empty
// slice, not nil, when the table is empty.
func (s *Store) ListUsers(ctx context.Context) ([]User, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT username, password, level
		FROM users
		ORDER BY username ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := []User{}
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.Username, &u.Password, (*string)(&u.Level)); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}

	return users, nil
}
