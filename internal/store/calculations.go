package store

import (
	"context"
	"fmt"
	"time"
)

// Timestamps are persisted as RFC 3339 UTC text.
const timeLayout = time.RFC3339Nano

// AddCalculation inserts a calculation record and returns it with the
// store-assigned id. The caller's ID field is ignored. An empty
// CalculatedBy is stored as the UnknownActor sentinel.
func (s *Store) AddCalculation(ctx context.Context, c Calculation) (Calculation, error) {
	if c.CalculatedBy == "" {
		c.CalculatedBy = UnknownActor
	}
	c.CalculatedAt = c.CalculatedAt.UTC()

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO calculations
		(project_name, distance, splitter_loss1, splitters1, splitter_loss2, splitters2, fusion_splices, final_signal, calculated_at, calculated_by)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		c.ProjectName,
		c.Distance,
		c.SplitterLoss1,
		c.Splitters1,
		c.SplitterLoss2,
		c.Splitters2,
		c.FusionSplices,
		c.FinalSignal,
		c.CalculatedAt.Format(timeLayout),
		c.CalculatedBy,
	)
	if err != nil {
		return Calculation{}, fmt.Errorf("add calculation: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return Calculation{}, fmt.Errorf("add calculation: %w", err)
	}
	c.ID = id

	return c, nil
}

// ListCalculations returns all calculation records in insertion order.
// Returns an empty slice, not nil, when there are none. Callers that
// want newest-first (the history view) sort on CalculatedAt themselves.
func (s *Store) ListCalculations(ctx context.Context) ([]Calculation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, project_name, distance, splitter_loss1, splitters1, splitter_loss2, splitters2, fusion_splices, final_signal, calculated_at, calculated_by
		FROM calculations
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list calculations: %w", err)
	}
	defer rows.Close()

	calcs := []Calculation{}
	for rows.Next() {
		var c Calculation
		var at string
		err := rows.Scan(
			&c.ID,
			&c.ProjectName,
			&c.Distance,
			&c.SplitterLoss1,
			&c.Splitters1,
			&c.SplitterLoss2,
			&c.Splitters2,
			&c.FusionSplices,
			&c.FinalSignal,
			&at,
			&c.CalculatedBy,
		)
		if err != nil {
			return nil, fmt.Errorf("scan calculation: %w", err)
		}
		c.CalculatedAt, err = time.Parse(timeLayout, at)
		if err != nil {
			return nil, fmt.Errorf("parse calculated_at %q: %w", at, err)
		}
		calcs = append(calcs, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate calculations: %w", err)
	}

	return calcs, nil
}

// DeleteCalculation removes a record by id. Returns ErrNotFound when no
// such record exists.
func (s *Store) DeleteCalculation(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM calculations WHERE id = ?
	`, id)
	if err != nil {
		return fmt.Errorf("delete calculation: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete calculation: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
