/*
Package reports builds analysis views over the calendar engine.

PURPOSE:
  Reporting reads the same resolver as every other entry point, so report
  numbers can never drift from single-date lookups or month calendars.
  Two reports exist: a working-days analysis over an arbitrary range
  (broken down by month) and a holiday calendar for a location and year.

SEE ALSO:
  - calendar/aggregate.go: the tallies these reports are built from
  - holidays.go: holiday report and XLSX rendering
*/
package reports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/calendar-engine/calendar"
)

// =============================================================================
// WORKING-DAYS REPORT
// =============================================================================

// MonthBreakdown tallies one calendar month of a report range. Months at
// the edges of the range are partial and tallied over the covered days
// only.
type MonthBreakdown struct {
	Year        int
	Month       time.Month
	MonthName   string
	TotalDays   int
	WorkingDays int
	Holidays    int
	WeeklyOffs  int

	// WorkingRatio is WorkingDays / TotalDays for the covered days,
	// rounded to 4 places.
	WorkingRatio decimal.Decimal
}

// WorkingDaysReport is the month-by-month analysis of a range.
type WorkingDaysReport struct {
	LocationID calendar.LocationID
	Start      calendar.Date
	End        calendar.Date
	Months     []MonthBreakdown
	Totals     calendar.RangeCounts
}

// Builder constructs reports through the engine.
type Builder struct {
	resolver *calendar.Resolver
	holidays HolidayLister
}

func NewBuilder(resolver *calendar.Resolver, holidays HolidayLister) *Builder {
	return &Builder{resolver: resolver, holidays: holidays}
}

// WorkingDays resolves [start, end] and groups the tallies by month.
func (b *Builder) WorkingDays(ctx context.Context, locationID calendar.LocationID, start, end calendar.Date) (*WorkingDaysReport, error) {
	days, err := b.resolver.ResolveRange(ctx, locationID, start, end)
	if err != nil {
		return nil, err
	}

	report := &WorkingDaysReport{LocationID: locationID, Start: start, End: end}
	var current *MonthBreakdown

	for _, day := range days {
		if current == nil || current.Year != day.Date.Year() || current.Month != day.Date.Month() {
			report.Months = append(report.Months, MonthBreakdown{
				Year:      day.Date.Year(),
				Month:     day.Date.Month(),
				MonthName: day.Date.Month().String(),
			})
			current = &report.Months[len(report.Months)-1]
		}

		current.TotalDays++
		report.Totals.Total++
		switch day.Classification.Kind {
		case calendar.KindWorkingDay:
			current.WorkingDays++
			report.Totals.WorkingDays++
		case calendar.KindHoliday:
			current.Holidays++
			report.Totals.Holidays++
		case calendar.KindWeeklyOff:
			current.WeeklyOffs++
			report.Totals.WeeklyOffs++
		}
	}

	for i := range report.Months {
		m := &report.Months[i]
		m.WorkingRatio = decimal.NewFromInt(int64(m.WorkingDays)).
			Div(decimal.NewFromInt(int64(m.TotalDays))).
			Round(4)
	}
	return report, nil
}
