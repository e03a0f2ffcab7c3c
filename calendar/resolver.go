/*
resolver.go - Date classification

PURPOSE:
  Combines holiday lookup, rule version selection, and weekday matching
  into one classification per (location, date), applying the precedence
  policy. Every other entry point (range counts, month calendars) goes
  through Resolve so all views stay mutually consistent.

PRECEDENCE (most specific wins):
  1. ACTIVE holiday on the date        -> HOLIDAY{name}
  2. Selected rule's pattern matches   -> WEEKLY_OFF{rule name}
  3. Otherwise                         -> WORKING_DAY

  A holiday falling on a weekly-off day is still reported as HOLIDAY:
  holidays are explicit local declarations and must win over a generic
  recurring weekend pattern for reporting clarity.

SOURCES:
  The engine owns no data. Holiday and rule records are supplied by the
  master-data layer through the read-only source interfaces below; any
  fetch failure is surfaced as-is, never swallowed into a classification.

CONCURRENCY:
  The resolver holds no mutable state of its own (the optional cache in
  cache.go is internally locked), so all operations are safe for
  concurrent use.

SEE ALSO:
  - aggregate.go: range iteration and tallies
  - month.go: month calendar construction
  - cache.go: optional per-location resolution cache
*/
package calendar

import (
	"context"
	"fmt"
)

// =============================================================================
// SOURCES - Read-only data feeds from the master-data layer
// =============================================================================

// HolidaySource supplies ACTIVE holiday records for a location.
type HolidaySource interface {
	HolidaysFor(ctx context.Context, locationID LocationID) ([]Holiday, error)
}

// RuleSource supplies ACTIVE weekly-off rule records for a location.
// All versions are returned; the selector performs effective-window
// filtering.
type RuleSource interface {
	WeeklyOffRulesFor(ctx context.Context, locationID LocationID) ([]WeeklyOffRule, error)
}

// LocationSource answers whether a location reference is known.
type LocationSource interface {
	LocationExists(ctx context.Context, locationID LocationID) (bool, error)
}

// =============================================================================
// RESOLVER
// =============================================================================

// Resolver classifies dates for a location. Construct once, share freely.
type Resolver struct {
	locations LocationSource
	holidays  HolidaySource
	rules     RuleSource
	cache     *resolutionCache // nil when caching is disabled
}

func NewResolver(locations LocationSource, holidays HolidaySource, rules RuleSource) *Resolver {
	return &Resolver{locations: locations, holidays: holidays, rules: rules}
}

// WithCache enables the (location, date) resolution cache. Callers that
// mutate holiday or rule data must invalidate the affected location via
// InvalidateLocation, or the cache may serve stale classifications.
func (r *Resolver) WithCache() *Resolver {
	r.cache = newResolutionCache()
	return r
}

// Resolve classifies a single date for a location.
//
// An unknown location is a caller error (ErrLocationNotFound), never a
// WORKING_DAY default. Overlapping rule versions surface as ErrRuleConflict.
func (r *Resolver) Resolve(ctx context.Context, locationID LocationID, date Date) (Classification, error) {
	exists, err := r.locations.LocationExists(ctx, locationID)
	if err != nil {
		return Classification{}, fmt.Errorf("checking location %s: %w", locationID, err)
	}
	if !exists {
		return Classification{}, fmt.Errorf("%w: %s", ErrLocationNotFound, locationID)
	}

	if r.cache != nil {
		if c, ok := r.cache.get(locationID, date); ok {
			return c, nil
		}
	}

	c, err := r.classify(ctx, locationID, date)
	if err != nil {
		return Classification{}, err
	}

	if r.cache != nil {
		r.cache.put(locationID, date, c)
	}
	return c, nil
}

func (r *Resolver) classify(ctx context.Context, locationID LocationID, date Date) (Classification, error) {
	// Step 1: holidays win, regardless of weekday.
	holidays, err := r.holidays.HolidaysFor(ctx, locationID)
	if err != nil {
		return Classification{}, fmt.Errorf("fetching holidays for %s: %w", locationID, err)
	}
	for _, h := range holidays {
		if h.Status == StatusActive && h.Date.Equal(date) {
			return HolidayClassification(h), nil
		}
	}

	// Step 2: the applicable weekly-off rule version, if any.
	rules, err := r.rules.WeeklyOffRulesFor(ctx, locationID)
	if err != nil {
		return Classification{}, fmt.Errorf("fetching weekly-off rules for %s: %w", locationID, err)
	}
	rule, err := SelectRule(locationID, date, rules)
	if err != nil {
		return Classification{}, err
	}
	if rule != nil {
		matched, err := Matches(*rule, date)
		if err != nil {
			return Classification{}, err
		}
		if matched {
			return WeeklyOffClassification(*rule), nil
		}
	}

	// Step 3: nothing claims the date.
	return WorkingDay(), nil
}

// InvalidateLocation drops cached classifications for a location. Call
// after any holiday or weekly-off rule mutation for that location.
func (r *Resolver) InvalidateLocation(locationID LocationID) {
	if r.cache != nil {
		r.cache.invalidateLocation(locationID)
	}
}

// InvalidateAll drops the entire resolution cache.
func (r *Resolver) InvalidateAll() {
	if r.cache != nil {
		r.cache.invalidateAll()
	}
}
