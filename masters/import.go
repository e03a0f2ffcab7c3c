/*
import.go - Bulk holiday import

PURPOSE:
  Loads a location's holiday calendar from a CSV or XLSX upload. Rows are
  validated individually; bad rows are collected as errors while good rows
  import, so one typo does not reject a 40-row national calendar.

FILE CONTRACT:
  A header row naming at least "date" and "name". Optional columns:
  "is_mandatory" (default true) and "description". Dates are ISO-8601.
  A row whose date already has an ACTIVE holiday is rejected.
*/
package masters

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/warp/calendar-engine/calendar"
)

// HolidayWriter is the persistence surface the importer needs.
type HolidayWriter interface {
	SaveHoliday(ctx context.Context, h calendar.Holiday) error
	HolidayExists(ctx context.Context, locationID calendar.LocationID, date calendar.Date) (bool, error)
}

// ImportRowError describes why one row was rejected. Row numbers are
// 1-based file positions (the header is row 1).
type ImportRowError struct {
	Row     int
	Message string
}

// ImportResult summarizes a bulk import.
type ImportResult struct {
	TotalRows int
	Imported  int
	Errors    []ImportRowError
}

// Importer bulk-loads holiday records.
type Importer struct {
	writer HolidayWriter
}

func NewImporter(writer HolidayWriter) *Importer {
	return &Importer{writer: writer}
}

// ImportCSV reads a CSV upload and imports its rows for the location.
func (im *Importer) ImportCSV(ctx context.Context, locationID calendar.LocationID, r io.Reader) (ImportResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return ImportResult{}, fmt.Errorf("reading CSV: %w", err)
	}
	if len(records) == 0 {
		return ImportResult{}, fmt.Errorf("empty file")
	}
	return im.importRows(ctx, locationID, records[0], records[1:])
}

// ImportXLSX reads the first sheet of an XLSX upload and imports its rows.
func (im *Importer) ImportXLSX(ctx context.Context, locationID calendar.LocationID, r io.Reader) (ImportResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return ImportResult{}, fmt.Errorf("reading XLSX: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return ImportResult{}, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return ImportResult{}, fmt.Errorf("reading sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return ImportResult{}, fmt.Errorf("empty sheet")
	}
	return im.importRows(ctx, locationID, rows[0], rows[1:])
}

func (im *Importer) importRows(ctx context.Context, locationID calendar.LocationID, header []string, rows [][]string) (ImportResult, error) {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"date", "name"} {
		if _, ok := columns[required]; !ok {
			return ImportResult{}, fmt.Errorf("missing required column %q", required)
		}
	}

	result := ImportResult{TotalRows: len(rows)}
	for i, row := range rows {
		fileRow := i + 2 // 1-based, after the header

		date, err := calendar.ParseDate(cell(row, columns["date"]))
		if err != nil {
			result.Errors = append(result.Errors, ImportRowError{Row: fileRow, Message: err.Error()})
			continue
		}

		h := calendar.Holiday{
			ID:         calendar.RecordID(uuid.NewString()),
			LocationID: locationID,
			Date:       date,
			Name:       strings.TrimSpace(cell(row, columns["name"])),
			Mandatory:  true,
			Status:     calendar.StatusActive,
		}
		if idx, ok := columns["is_mandatory"]; ok {
			if v := cell(row, idx); v != "" {
				h.Mandatory = parseBool(v)
			}
		}
		if idx, ok := columns["description"]; ok {
			h.Description = strings.TrimSpace(cell(row, idx))
		}

		if err := ValidateHoliday(h); err != nil {
			result.Errors = append(result.Errors, ImportRowError{Row: fileRow, Message: err.Error()})
			continue
		}

		exists, err := im.writer.HolidayExists(ctx, locationID, date)
		if err != nil {
			return ImportResult{}, fmt.Errorf("checking existing holiday: %w", err)
		}
		if exists {
			result.Errors = append(result.Errors, ImportRowError{
				Row:     fileRow,
				Message: fmt.Sprintf("holiday on %s already exists", date),
			})
			continue
		}

		if err := im.writer.SaveHoliday(ctx, h); err != nil {
			return ImportResult{}, fmt.Errorf("saving holiday: %w", err)
		}
		result.Imported++
	}
	return result, nil
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "false", "0", "no", "n":
		return false
	}
	return true
}
