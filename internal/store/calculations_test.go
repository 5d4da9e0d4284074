package store

import (
	"context"
	"errors"
	"testing"
	"time"
)

func sampleCalculation() Calculation {
	return Calculation{
		ProjectName:   "Link-A",
		Distance:      12.34,
		SplitterLoss1: 3.5,
		Splitters1:    2,
		SplitterLoss2: 0,
		Splitters2:    0,
		FusionSplices: 4,
		FinalSignal:   -3.868,
		CalculatedAt:  time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC),
		CalculatedBy:  "admin",
	}
}

func TestAddCalculation_RoundTrip(t *testing.T) {
	s := openTestStore(t)

	in := sampleCalculation()
	stored, err := s.AddCalculation(context.Background(), in)
	if err != nil {
		t.Fatalf("AddCalculation() failed: %v", err)
	}
	if stored.ID == 0 {
		t.Error("AddCalculation() did not assign an id")
	}

	calcs, err := s.ListCalculations(context.Background())
	if err != nil {
		t.Fatalf("ListCalculations() failed: %v", err)
	}
	if len(calcs) != 1 {
		t.Fatalf("got %d calculations, want 1", len(calcs))
	}

	got := calcs[0]
	in.ID = got.ID // only the assigned id may differ
	if got != in {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, in)
	}
}

func TestAddCalculation_IDsIncrease(t *testing.T) {
	s := openTestStore(t)

	var last int64
	for i := 0; i < 5; i++ {
		stored, err := s.AddCalculation(context.Background(), sampleCalculation())
		if err != nil {
			t.Fatalf("AddCalculation() failed: %v", err)
		}
		if stored.ID <= last {
			t.Fatalf("ids not increasing: %d after %d", stored.ID, last)
		}
		last = stored.ID
	}
}

func TestAddCalculation_UnknownActorSentinel(t *testing.T) {
	s := openTestStore(t)

	c := sampleCalculation()
	c.CalculatedBy = ""
	stored, err := s.AddCalculation(context.Background(), c)
	if err != nil {
		t.Fatalf("AddCalculation() failed: %v", err)
	}
	if stored.CalculatedBy != UnknownActor {
		t.Errorf("CalculatedBy = %q, want %q", stored.CalculatedBy, UnknownActor)
	}
}

func TestListCalculations_EmptyIsNotNil(t *testing.T) {
	s := openTestStore(t)

	calcs, err := s.ListCalculations(context.Background())
	if err != nil {
		t.Fatalf("ListCalculations() failed: %v", err)
	}
	if calcs == nil {
		t.Error("ListCalculations() returned nil, want empty slice")
	}
	if len(calcs) != 0 {
		t.Errorf("got %d calculations in a fresh store", len(calcs))
	}
}

func TestDeleteCalculation(t *testing.T) {
	s := openTestStore(t)

	stored, err := s.AddCalculation(context.Background(), sampleCalculation())
	if err != nil {
		t.Fatalf("AddCalculation() failed: %v", err)
	}

	if err := s.DeleteCalculation(context.Background(), stored.ID); err != nil {
		t.Fatalf("DeleteCalculation() failed: %v", err)
	}

	if err := s.DeleteCalculation(context.Background(), stored.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("DeleteCalculation() on missing id = %v, want ErrNotFound", err)
	}

	if err := s.DeleteCalculation(context.Background(), 9999); !errors.Is(err, ErrNotFound) {
		t.Errorf("DeleteCalculation(9999) = %v, want ErrNotFound", err)
	}
}
