/*
errors.go - Centralized error types for the calendar engine

PURPOSE:
  All engine error types in one place. No classification outcome ever
  masks an error: ambiguous or invalid input fails explicitly instead of
  defaulting to WORKING_DAY.

ERROR CATEGORIES:
  1. Caller errors  - unknown location, inverted range, bad month
  2. Data integrity - overlapping rule versions, malformed patterns
  3. Lookup errors  - missing snapshots

USAGE:
  Callers branch with errors.Is / errors.As:

    if errors.Is(err, calendar.ErrRuleConflict) {
        // master-data integrity failure, surface loudly
    }

SEE ALSO:
  - selector.go: produces RuleConflictError
  - matcher.go: produces InvalidPatternError
*/
package calendar

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrLocationNotFound is returned when a location reference is unknown.
	// This is a caller error, never coerced into a classification.
	ErrLocationNotFound = errors.New("location not found")

	// ErrRuleConflict is returned when more than one ACTIVE weekly-off rule
	// version claims the same date for a location. It indicates a master-data
	// integrity failure and is never papered over by picking one rule.
	ErrRuleConflict = errors.New("conflicting weekly-off rule versions")

	// ErrInvalidRange is returned for range queries where start > end, and
	// for month requests outside 1..12.
	ErrInvalidRange = errors.New("invalid date range")

	// ErrInvalidPattern is returned when a rule's pattern payload is
	// malformed (e.g. occurrence outside [1,5], missing weekday).
	ErrInvalidPattern = errors.New("invalid weekly-off pattern")

	// ErrSnapshotNotFound is returned when a calendar snapshot id is unknown.
	ErrSnapshotNotFound = errors.New("snapshot not found")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// RuleConflictError reports which rule versions overlap on a date.
type RuleConflictError struct {
	LocationID LocationID
	Date       Date
	RuleIDs    []RecordID
}

func (e *RuleConflictError) Error() string {
	return fmt.Sprintf("conflicting weekly-off rule versions for location %s on %s: %v",
		e.LocationID, e.Date, e.RuleIDs)
}

func (e *RuleConflictError) Unwrap() error { return ErrRuleConflict }

// InvalidPatternError reports a malformed rule pattern.
type InvalidPatternError struct {
	RuleID RecordID
	Reason string
}

func (e *InvalidPatternError) Error() string {
	return fmt.Sprintf("invalid weekly-off pattern on rule %s: %s", e.RuleID, e.Reason)
}

func (e *InvalidPatternError) Unwrap() error { return ErrInvalidPattern }

// InvalidRangeError reports an inverted date range.
type InvalidRangeError struct {
	Start Date
	End   Date
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid date range: start %s is after end %s", e.Start, e.End)
}

func (e *InvalidRangeError) Unwrap() error { return ErrInvalidRange }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid caller input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidRange) ||
		errors.Is(err, ErrInvalidPattern)
}

// IsNotFound returns true if the error indicates a missing reference.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrLocationNotFound) ||
		errors.Is(err, ErrSnapshotNotFound)
}
