package calendar

import (
	"context"
	"fmt"
	"time"
)

// =============================================================================
// MONTH CALENDAR - Full day-by-day view of one calendar month
// =============================================================================

// MonthCalendar is the resolved view of every day in one month (28-31
// entries depending on month and leap year).
type MonthCalendar struct {
	Year      int
	Month     time.Month
	MonthName string
	Days      []DayResolution
	Summary   RangeCounts
}

// BuildMonth resolves every day of a calendar month through the same
// resolver as all other entry points, so the month view, range counts, and
// single-date lookups always agree for the same inputs.
func (r *Resolver) BuildMonth(ctx context.Context, locationID LocationID, year int, month time.Month) (*MonthCalendar, error) {
	if month < time.January || month > time.December {
		return nil, fmt.Errorf("%w: month %d outside 1..12", ErrInvalidRange, month)
	}

	span := MonthRange(year, month)
	days, err := r.ResolveRange(ctx, locationID, span.Start, span.End)
	if err != nil {
		return nil, err
	}
	summary, err := tally(days)
	if err != nil {
		return nil, err
	}

	return &MonthCalendar{
		Year:      year,
		Month:     month,
		MonthName: month.String(),
		Days:      days,
		Summary:   summary,
	}, nil
}
