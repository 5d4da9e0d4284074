// Package validate enforces the field constraints that must hold before a
// calculation is run or persisted.
//
// Rules are checked in a fixed order and the first violation wins, so error
// messages are stable and callers can pin them in tests.
//
// Numeric limits here are deliberately textual, not magnitude-based: a
// distance is valid when its decimal representation fits in 5 characters
// with at most 2 fraction digits, so 99.99 and 100.0 pass while 1234.5
// fails. The original tool validated the typed text this way and stored
// records depend on the same acceptance set, so the quirk is kept as an
// explicit, named predicate rather than reintroduced by accident.
package validate

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Field limits.
const (
	MaxProjectNameLen = 50 // characters
	MaxDistanceLen    = 5  // total characters of the decimal text
	MaxDistanceFrac   = 2  // fraction digits
	MaxSplitterDigits = 1  // splitter counts are a single digit, 0-9
	MaxSpliceDigits   = 2  // fusion splices, 0-99
)

// Field codes carried by FieldError.
const (
	FieldProjectName   = "project_name"
	FieldDistance      = "distance"
	FieldSplitterLoss1 = "splitter_loss1"
	FieldSplitters1    = "splitters1"
	FieldSplitterLoss2 = "splitter_loss2"
	FieldSplitters2    = "splitters2"
	FieldFusionSplices = "fusion_splices"
)

// Fields holds the user-supplied values for one calculation, already
// parsed into their numeric types by the presentation layer.
type Fields struct {
	ProjectName   string
	Distance      float64
	SplitterLoss1 float64
	Splitters1    int
	SplitterLoss2 float64
	Splitters2    int
	FusionSplices int
}

// FieldError reports the first rule a Fields value violates.
type FieldError struct {
	Field   string // which field failed, one of the Field* constants
	Message string // fixed human-readable message
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Check validates f, returning nil when every rule holds or the first
// violated rule otherwise. No state is touched either way.
func Check(f Fields) *FieldError {
	if f.ProjectName == "" {
		return &FieldError{FieldProjectName, "project name is required"}
	}
	if utf8.RuneCountInString(f.ProjectName) > MaxProjectNameLen {
		return &FieldError{FieldProjectName, "project name cannot exceed 50 characters"}
	}

	if !validDistanceText(f.Distance) {
		return &FieldError{FieldDistance, "distance must be a positive number (maximum 5 characters total, up to 2 decimals)"}
	}

	if math.IsNaN(f.SplitterLoss1) || f.SplitterLoss1 < 0 {
		return &FieldError{FieldSplitterLoss1, "select a valid type for splitter 1"}
	}
	if !validDigitCount(f.Splitters1, MaxSplitterDigits) {
		return &FieldError{FieldSplitters1, "splitter 1 count must be a non-negative integer (maximum 1 digit)"}
	}

	if math.IsNaN(f.SplitterLoss2) || f.SplitterLoss2 < 0 {
		return &FieldError{FieldSplitterLoss2, "select a valid type for splitter 2"}
	}
	if !validDigitCount(f.Splitters2, MaxSplitterDigits) {
		return &FieldError{FieldSplitters2, "splitter 2 count must be a non-negative integer (maximum 1 digit)"}
	}

	if !validDigitCount(f.FusionSplices, MaxSpliceDigits) {
		return &FieldError{FieldFusionSplices, "fusion splice count must be a non-negative integer (maximum 2 digits)"}
	}

	return nil
}

// validDistanceText is the textual distance rule: positive, and the
// shortest decimal representation is at most MaxDistanceLen characters
// with at most MaxDistanceFrac digits after the point.
func validDistanceText(d float64) bool {
	// FormatFloat renders +Inf as "+Inf", which would slip under the
	// length limit; the original's "Infinity" never did.
	if math.IsNaN(d) || math.IsInf(d, 0) || d <= 0 {
		return false
	}
	text := strconv.FormatFloat(d, 'f', -1, 64)
	if len(text) > MaxDistanceLen {
		return false
	}
	if _, frac, ok := strings.Cut(text, "."); ok && len(frac) > MaxDistanceFrac {
		return false
	}
	return true
}

// validDigitCount reports whether n is non-negative and its decimal text
// has at most maxDigits characters.
func validDigitCount(n, maxDigits int) bool {
	if n < 0 {
		return false
	}
	return len(strconv.Itoa(n)) <= maxDigits
}
