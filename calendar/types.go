/*
Package calendar implements the calendar resolution engine.

PURPOSE:
  This package is the single source of truth for "what is a working day".
  Given a location and a date it decides whether the date is a WORKING_DAY,
  a HOLIDAY, or a WEEKLY_OFF, and derives range counts and full month
  calendars from the same decision path.

KEY CONCEPTS IN THIS FILE (types.go):
  - Holiday: an explicit, location-scoped non-working date
  - WeeklyOffRule: a versioned, effective-dated recurring off-day pattern
  - Classification: the tagged result of resolving one date
  - Location/Record IDs: type-safe identifiers

DESIGN PRINCIPLES:
  1. Purity: the engine reads committed records and computes; it never
     persists state of its own
  2. Explicit precedence: HOLIDAY beats WEEKLY_OFF beats WORKING_DAY
  3. Type safety: classification is a tagged variant, not a bare status
     code, so callers never lose the "why" behind a non-working day
  4. Fail loudly: ambiguous rule data is an error, never a silent pick

SEE ALSO:
  - matcher.go: weekday pattern evaluation
  - selector.go: effective-dated rule version selection
  - resolver.go: the classification algorithm and source interfaces
*/
package calendar

import "time"

// =============================================================================
// IDENTIFIERS
// =============================================================================

type LocationID string
type RecordID string

// =============================================================================
// RECORD STATUS
// =============================================================================

type RecordStatus string

const (
	StatusActive   RecordStatus = "ACTIVE"
	StatusInactive RecordStatus = "INACTIVE"
)

// =============================================================================
// WEEKDAY
// =============================================================================

// WeekDay is the wire-level weekday name. Monday-first, matching the
// upstream master-data representation rather than Go's Sunday-first order.
type WeekDay string

const (
	Monday    WeekDay = "MONDAY"
	Tuesday   WeekDay = "TUESDAY"
	Wednesday WeekDay = "WEDNESDAY"
	Thursday  WeekDay = "THURSDAY"
	Friday    WeekDay = "FRIDAY"
	Saturday  WeekDay = "SATURDAY"
	Sunday    WeekDay = "SUNDAY"
)

var weekDayByTime = map[time.Weekday]WeekDay{
	time.Monday:    Monday,
	time.Tuesday:   Tuesday,
	time.Wednesday: Wednesday,
	time.Thursday:  Thursday,
	time.Friday:    Friday,
	time.Saturday:  Saturday,
	time.Sunday:    Sunday,
}

// WeekDayOf returns the WeekDay for a date.
func WeekDayOf(d Date) WeekDay { return weekDayByTime[d.Weekday()] }

func (w WeekDay) Valid() bool {
	switch w {
	case Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday:
		return true
	}
	return false
}

// =============================================================================
// LOCATION
// =============================================================================

// Location is an office/site that scopes holiday and weekly-off policies.
type Location struct {
	ID     LocationID
	Name   string
	Status RecordStatus
}

// =============================================================================
// HOLIDAY
// =============================================================================

// Holiday is an explicit, location-declared non-working date.
//
// Holidays are owned and mutated by the master-data layer; the engine only
// reads ACTIVE records. Once a holiday has been consumed by a downstream
// transaction it is immutable - corrections are new future-dated records.
type Holiday struct {
	ID          RecordID
	LocationID  LocationID
	Date        Date
	Name        string
	Mandatory   bool
	Description string
	Status      RecordStatus
}

// Year is derived from the date for partitioned lookups; it is never
// authoritative on its own.
func (h Holiday) Year() int { return h.Date.Year() }

// =============================================================================
// WEEKLY-OFF RULE
// =============================================================================

type RuleType string

const (
	RuleFixed      RuleType = "FIXED"       // a set of weekdays off every week
	RuleNthWeekday RuleType = "NTH_WEEKDAY" // e.g. 2nd and 4th Saturday
)

// NthWeekdayPattern selects specific ordinal occurrences of one weekday
// within each month. Occurrences are 1-based; a month has at most 5
// occurrences of any weekday.
type NthWeekdayPattern struct {
	Weekday     WeekDay
	Occurrences []int
}

// WeeklyOffRule is one version of a location's weekly-off policy.
//
// Multiple versions may exist per location with non-overlapping effective
// windows. The invariant: for any (location, date) at most one ACTIVE
// version's window contains the date. The selector re-checks this at read
// time and fails with a RuleConflictError on violation.
type WeeklyOffRule struct {
	ID            RecordID
	LocationID    LocationID
	Name          string
	Type          RuleType
	FixedWeekdays []WeekDay          // RuleFixed only
	NthWeekday    *NthWeekdayPattern // RuleNthWeekday only
	EffectiveFrom Date
	EffectiveTo   *Date // nil = open-ended
	Status        RecordStatus
}

// InEffect returns true if the rule's effective window contains the date.
// The window is inclusive on both ends; a nil EffectiveTo is unbounded.
func (r WeeklyOffRule) InEffect(d Date) bool {
	if d.Before(r.EffectiveFrom) {
		return false
	}
	if r.EffectiveTo != nil && d.After(*r.EffectiveTo) {
		return false
	}
	return true
}

// =============================================================================
// CLASSIFICATION - Tagged result of resolving one date
// =============================================================================

type ClassificationKind string

const (
	KindWorkingDay ClassificationKind = "WORKING_DAY"
	KindHoliday    ClassificationKind = "HOLIDAY"
	KindWeeklyOff  ClassificationKind = "WEEKLY_OFF"
)

// Classification is purely computed and never persisted on its own.
// Name and the Reference* fields are populated for HOLIDAY and WEEKLY_OFF,
// empty for WORKING_DAY.
type Classification struct {
	Kind          ClassificationKind
	Name          string
	ReferenceID   RecordID
	ReferenceType string // "holiday" or "weekly_off_rule"
	Mandatory     bool   // holidays only
}

func WorkingDay() Classification {
	return Classification{Kind: KindWorkingDay}
}

func HolidayClassification(h Holiday) Classification {
	return Classification{
		Kind:          KindHoliday,
		Name:          h.Name,
		ReferenceID:   h.ID,
		ReferenceType: "holiday",
		Mandatory:     h.Mandatory,
	}
}

func WeeklyOffClassification(r WeeklyOffRule) Classification {
	return Classification{
		Kind:          KindWeeklyOff,
		Name:          r.Name,
		ReferenceID:   r.ID,
		ReferenceType: "weekly_off_rule",
	}
}

func (c Classification) IsWorkingDay() bool { return c.Kind == KindWorkingDay }
