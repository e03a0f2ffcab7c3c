/*
Package masters implements the master-data side of the calendar system.

PURPOSE:
  The engine in package calendar only reads committed ACTIVE records.
  This package owns the write path: validating holiday and weekly-off
  rule payloads before they are persisted, locking holidays referenced
  by snapshots, and bulk-importing holiday calendars.

VALIDATION SPLIT:
  Pattern bounds and effective-window non-overlap are enforced HERE at
  write time. The engine's selector defensively re-checks non-overlap at
  read time, because an overlap that slips through is a data-integrity
  failure the engine must not paper over.

SEE ALSO:
  - calendar/selector.go: read-time overlap re-check
  - snapshot.go: calendar snapshots and the holiday lock
  - import.go: CSV/XLSX bulk holiday import
*/
package masters

import (
	"fmt"
	"strings"

	"github.com/warp/calendar-engine/calendar"
)

// =============================================================================
// HOLIDAY VALIDATION
// =============================================================================

// ValidateHoliday checks a holiday payload before persistence.
func ValidateHoliday(h calendar.Holiday) error {
	if h.LocationID == "" {
		return fmt.Errorf("holiday requires a location")
	}
	if strings.TrimSpace(h.Name) == "" {
		return fmt.Errorf("holiday requires a name")
	}
	if h.Date.IsZero() {
		return fmt.Errorf("holiday requires a date")
	}
	return nil
}

// =============================================================================
// WEEKLY-OFF RULE VALIDATION
// =============================================================================

// ValidateRule checks a new rule version's pattern payload and effective
// window, including non-overlap against the location's existing ACTIVE
// versions.
func ValidateRule(rule calendar.WeeklyOffRule, existing []calendar.WeeklyOffRule) error {
	if rule.LocationID == "" {
		return fmt.Errorf("weekly-off rule requires a location")
	}
	if strings.TrimSpace(rule.Name) == "" {
		return fmt.Errorf("weekly-off rule requires a name")
	}
	if rule.EffectiveFrom.IsZero() {
		return fmt.Errorf("weekly-off rule requires an effective-from date")
	}
	if rule.EffectiveTo != nil && rule.EffectiveTo.Before(rule.EffectiveFrom) {
		return &calendar.InvalidRangeError{Start: rule.EffectiveFrom, End: *rule.EffectiveTo}
	}

	if err := validatePattern(rule); err != nil {
		return err
	}
	return validateNoOverlap(rule, existing)
}

func validatePattern(rule calendar.WeeklyOffRule) error {
	switch rule.Type {
	case calendar.RuleFixed:
		if len(rule.FixedWeekdays) == 0 {
			return &calendar.InvalidPatternError{RuleID: rule.ID, Reason: "FIXED rule has no weekdays"}
		}
		for _, wd := range rule.FixedWeekdays {
			if !wd.Valid() {
				return &calendar.InvalidPatternError{RuleID: rule.ID, Reason: fmt.Sprintf("unknown weekday %q", wd)}
			}
		}
	case calendar.RuleNthWeekday:
		p := rule.NthWeekday
		if p == nil {
			return &calendar.InvalidPatternError{RuleID: rule.ID, Reason: "NTH_WEEKDAY rule has no pattern"}
		}
		if !p.Weekday.Valid() {
			return &calendar.InvalidPatternError{RuleID: rule.ID, Reason: fmt.Sprintf("unknown weekday %q", p.Weekday)}
		}
		if len(p.Occurrences) == 0 {
			return &calendar.InvalidPatternError{RuleID: rule.ID, Reason: "NTH_WEEKDAY rule has no occurrences"}
		}
		for _, n := range p.Occurrences {
			if n < 1 || n > 5 {
				return &calendar.InvalidPatternError{RuleID: rule.ID, Reason: fmt.Sprintf("occurrence %d outside [1,5]", n)}
			}
		}
	default:
		return &calendar.InvalidPatternError{RuleID: rule.ID, Reason: fmt.Sprintf("unknown rule type %q", rule.Type)}
	}
	return nil
}

// validateNoOverlap enforces the single-active-version invariant: the new
// version's window must not intersect any existing ACTIVE version for the
// same location.
func validateNoOverlap(rule calendar.WeeklyOffRule, existing []calendar.WeeklyOffRule) error {
	for _, other := range existing {
		if other.ID == rule.ID || other.Status != calendar.StatusActive || other.LocationID != rule.LocationID {
			continue
		}
		if windowsOverlap(rule, other) {
			return &calendar.RuleConflictError{
				LocationID: rule.LocationID,
				Date:       laterDate(rule.EffectiveFrom, other.EffectiveFrom),
				RuleIDs:    []calendar.RecordID{rule.ID, other.ID},
			}
		}
	}
	return nil
}

func windowsOverlap(a, b calendar.WeeklyOffRule) bool {
	// [a.From, a.To] and [b.From, b.To] intersect unless one ends before
	// the other starts. A nil EffectiveTo is unbounded.
	if a.EffectiveTo != nil && a.EffectiveTo.Before(b.EffectiveFrom) {
		return false
	}
	if b.EffectiveTo != nil && b.EffectiveTo.Before(a.EffectiveFrom) {
		return false
	}
	return true
}

func laterDate(a, b calendar.Date) calendar.Date {
	if a.After(b) {
		return a
	}
	return b
}
