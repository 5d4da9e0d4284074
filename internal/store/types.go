package store

import (
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when a user or calculation does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate is returned when an insert collides with an existing
	// primary key.
	ErrDuplicate = errors.New("record already exists")
)

// Level is a user's permission level.
type Level string

const (
	LevelAdministrator Level = "administrator"
	LevelAdvanced      Level = "advanced"
	LevelBasic         Level = "basic"
)

// Valid reports whether l is one of the known levels.
func (l Level) Valid() bool {
	switch l {
	case LevelAdministrator, LevelAdvanced, LevelBasic:
		return true
	}
	return false
}

// User is an account record. Username is the primary key. Users are
// created (seeded or added by an administrator) and deleted, never
// updated in place.
type User struct {
	Username string
	Password string // plain text, see package doc
	Level    Level
}

// UnknownActor is the CalculatedBy sentinel for a calculation recorded
// without a logged-in user.
const UnknownActor = "unknown"

// Calculation is one stored budget calculation. Immutable once created;
// ID is assigned by the store and increases monotonically.
type Calculation struct {
	ID            int64
	ProjectName   string
	Distance      float64
	SplitterLoss1 float64
	Splitters1    int
	SplitterLoss2 float64
	Splitters2    int
	FusionSplices int
	FinalSignal   float64
	CalculatedAt  time.Time
	CalculatedBy  string
}
