/*
aggregate.go - Range iteration and working-day counts

PURPOSE:
  Iterates a date range through Resolve exactly once per day, producing
  either the full day-by-day sequence or the tallied counts. There is no
  second classification path: every aggregate is derived from the same
  Resolve that answers single-date queries.

CHECKED INVARIANT:
  Total == WorkingDays + Holidays + WeeklyOffs == inclusive day count of
  the range. A violation means a classification kind fell through the
  tally and is surfaced as an error, not papered over.
*/
package calendar

import (
	"context"
	"fmt"
)

// DayResolution is one resolved day in a range or month view.
type DayResolution struct {
	Date           Date
	DayOfWeek      WeekDay
	Classification Classification
}

// RangeCounts tallies a resolved range by classification kind.
type RangeCounts struct {
	Total       int
	WorkingDays int
	Holidays    int
	WeeklyOffs  int
}

// ResolveRange classifies every date in [start, end] inclusive, in order.
// start > end is a caller error, not an empty result.
func (r *Resolver) ResolveRange(ctx context.Context, locationID LocationID, start, end Date) ([]DayResolution, error) {
	if start.After(end) {
		return nil, &InvalidRangeError{Start: start, End: end}
	}

	span := DateRange{Start: start, End: end}
	days := make([]DayResolution, 0, span.Len())
	for _, date := range span.Days() {
		classification, err := r.Resolve(ctx, locationID, date)
		if err != nil {
			return nil, err
		}
		days = append(days, DayResolution{
			Date:           date,
			DayOfWeek:      WeekDayOf(date),
			Classification: classification,
		})
	}
	return days, nil
}

// CountWorkingDays tallies [start, end] inclusive by classification kind.
func (r *Resolver) CountWorkingDays(ctx context.Context, locationID LocationID, start, end Date) (RangeCounts, error) {
	days, err := r.ResolveRange(ctx, locationID, start, end)
	if err != nil {
		return RangeCounts{}, err
	}
	counts, err := tally(days)
	if err != nil {
		return RangeCounts{}, err
	}

	want := DateRange{Start: start, End: end}.Len()
	if counts.Total != want {
		return RangeCounts{}, fmt.Errorf("count invariant violated: tallied %d days for a %d-day range %s..%s",
			counts.Total, want, start, end)
	}
	return counts, nil
}

func tally(days []DayResolution) (RangeCounts, error) {
	counts := RangeCounts{Total: len(days)}
	for _, day := range days {
		switch day.Classification.Kind {
		case KindWorkingDay:
			counts.WorkingDays++
		case KindHoliday:
			counts.Holidays++
		case KindWeeklyOff:
			counts.WeeklyOffs++
		default:
			return RangeCounts{}, fmt.Errorf("count invariant violated: unknown classification kind %q on %s",
				day.Classification.Kind, day.Date)
		}
	}
	return counts, nil
}
