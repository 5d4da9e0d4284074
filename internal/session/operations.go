package session

import (
	"context"
	"fmt"

	"github.com/ftoledo/fiberbudget/internal/loss"
	"github.com/ftoledo/fiberbudget/internal/store"
	"github.com/ftoledo/fiberbudget/internal/validate"
)

// AddUser creates an account. Administrator only; the actor's own
// username is rejected even though the UI guards it too, and a taken
// username surfaces store.ErrDuplicate without touching the existing
// row.
func (s *Session) AddUser(ctx context.Context, u store.User) error {
	if err := s.requireLevel(CanManageUsers); err != nil {
		return err
	}
	if s.isSelf(u.Username) {
		return ErrSelfTarget
	}
	return s.store.AddUser(ctx, u)
}

// RemoveUser deletes an account. Administrator only; self-deletion is
// rejected here regardless of any presentation-layer guard.
func (s *Session) RemoveUser(ctx context.Context, username string) error {
	if err := s.requireLevel(CanManageUsers); err != nil {
		return err
	}
	if s.isSelf(username) {
		return ErrSelfTarget
	}
	return s.store.DeleteUser(ctx, username)
}

// isSelf compares a target username against the actor under the store's
// key normalization, so a decomposed spelling of the actor's own name
// cannot slip past the self-target guards.
func (s *Session) isSelf(username string) bool {
	return store.NormalizeUsername(username) == store.NormalizeUsername(s.actor.Username)
}

// Users lists all accounts. Administrator only.
func (s *Session) Users(ctx context.Context) ([]store.User, error) {
	if err := s.requireLevel(CanManageUsers); err != nil {
		return nil, err
	}
	return s.store.ListUsers(ctx)
}

// RecordCalculation validates the fields, computes the final signal, and
// persists the record. The stored final signal is always the pure
// calculation over the stored inputs, so every record is recomputable.
// With no actor the record carries the unknown-actor sentinel.
func (s *Session) RecordCalculation(ctx context.Context, f validate.Fields) (store.Calculation, error) {
	if ferr := validate.Check(f); ferr != nil {
		return store.Calculation{}, ferr
	}

	final := loss.Calculate(loss.Inputs{
		Distance:      f.Distance,
		SplitterLoss1: f.SplitterLoss1,
		Splitters1:    f.Splitters1,
		SplitterLoss2: f.SplitterLoss2,
		Splitters2:    f.Splitters2,
		FusionSplices: f.FusionSplices,
	})

	actor := store.UnknownActor
	if s.actor != nil {
		actor = s.actor.Username
	}

	rec, err := s.store.AddCalculation(ctx, store.Calculation{
		ProjectName:   f.ProjectName,
		Distance:      f.Distance,
		SplitterLoss1: f.SplitterLoss1,
		Splitters1:    f.Splitters1,
		SplitterLoss2: f.SplitterLoss2,
		Splitters2:    f.Splitters2,
		FusionSplices: f.FusionSplices,
		FinalSignal:   final,
		CalculatedAt:  s.now().UTC(),
		CalculatedBy:  actor,
	})
	if err != nil {
		return store.Calculation{}, fmt.Errorf("record calculation: %w", err)
	}
	return rec, nil
}

// History lists all stored calculations. Available to every
// authenticated level.
func (s *Session) History(ctx context.Context) ([]store.Calculation, error) {
	if s.actor == nil {
		return nil, ErrNotLoggedIn
	}
	return s.store.ListCalculations(ctx)
}

// DeleteCalculation removes a history record. Administrator only.
func (s *Session) DeleteCalculation(ctx context.Context, id int64) error {
	if err := s.requireLevel(CanDeleteCalculations); err != nil {
		return err
	}
	return s.store.DeleteCalculation(ctx, id)
}
