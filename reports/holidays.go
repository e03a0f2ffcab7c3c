package reports

import (
	"context"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/warp/calendar-engine/calendar"
)

// =============================================================================
// HOLIDAY REPORT
// =============================================================================

// HolidayLister supplies a location's ACTIVE holidays for one year,
// date-ordered.
type HolidayLister interface {
	ListHolidays(ctx context.Context, locationID calendar.LocationID, year int) ([]calendar.Holiday, error)
}

// HolidayReport is the holiday calendar for a location and year.
type HolidayReport struct {
	LocationID calendar.LocationID
	Year       int
	Holidays   []calendar.Holiday
}

// Holidays builds the holiday calendar report.
func (b *Builder) Holidays(ctx context.Context, locationID calendar.LocationID, year int) (*HolidayReport, error) {
	holidays, err := b.holidays.ListHolidays(ctx, locationID, year)
	if err != nil {
		return nil, err
	}
	return &HolidayReport{LocationID: locationID, Year: year, Holidays: holidays}, nil
}

// WriteXLSX renders the report as a single-sheet workbook.
func (r *HolidayReport) WriteXLSX(w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := fmt.Sprintf("Holidays %d", r.Year)
	index, err := f.NewSheet(sheet)
	if err != nil {
		return fmt.Errorf("creating sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	header := []any{"Date", "Name", "Mandatory", "Description", "Status"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, h := range r.Holidays {
		row := []any{h.Date.String(), h.Name, h.Mandatory, h.Description, string(h.Status)}
		axis := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheet, axis, &row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}
