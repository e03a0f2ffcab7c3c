package masters_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/warp/calendar-engine/calendar"
	"github.com/warp/calendar-engine/calendar/store"
	"github.com/warp/calendar-engine/masters"
)

// =============================================================================
// CSV IMPORT TESTS
// =============================================================================

func TestImportCSV_MixedRows(t *testing.T) {
	// GIVEN: A CSV with two good rows, a bad date, and a missing name
	// WHEN: Importing
	// THEN: Good rows import, bad rows are reported individually

	mem := store.NewMemory()
	importer := masters.NewImporter(mem)

	csvData := strings.Join([]string{
		"date,name,is_mandatory,description",
		"2025-01-01,New Year,true,First day of the year",
		"2025-01-26,Republic Day,,",
		"26-01-2025,Bad Date Row,,",
		"2025-08-15,,,missing name",
	}, "\n")

	result, err := importer.ImportCSV(context.Background(), "loc-1", strings.NewReader(csvData))
	require.NoError(t, err)

	assert.Equal(t, 4, result.TotalRows)
	assert.Equal(t, 2, result.Imported)
	require.Len(t, result.Errors, 2)
	assert.Equal(t, 4, result.Errors[0].Row, "bad date is file row 4")
	assert.Equal(t, 5, result.Errors[1].Row, "missing name is file row 5")

	holidays, err := mem.HolidaysFor(context.Background(), "loc-1")
	require.NoError(t, err)
	require.Len(t, holidays, 2)
	assert.Equal(t, "New Year", holidays[0].Name)
	assert.True(t, holidays[0].Mandatory)
	assert.Equal(t, "First day of the year", holidays[0].Description)
}

func TestImportCSV_DuplicateDateRejected(t *testing.T) {
	// GIVEN: A location that already has an ACTIVE holiday on Jan 26
	// WHEN: Importing a row for the same date
	// THEN: The row is rejected, not overwritten

	mem := store.NewMemory()
	mem.AddHoliday(calendar.Holiday{
		ID:         "h-existing",
		LocationID: "loc-1",
		Date:       calendar.NewDate(2025, time.January, 26),
		Name:       "Republic Day",
	})
	importer := masters.NewImporter(mem)

	csvData := "date,name\n2025-01-26,Republic Day Again\n"
	result, err := importer.ImportCSV(context.Background(), "loc-1", strings.NewReader(csvData))
	require.NoError(t, err)

	assert.Equal(t, 0, result.Imported)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0].Message, "already exists")
}

func TestImportCSV_MissingRequiredColumn_Error(t *testing.T) {
	importer := masters.NewImporter(store.NewMemory())

	csvData := "date,description\n2025-01-01,no name column\n"
	_, err := importer.ImportCSV(context.Background(), "loc-1", strings.NewReader(csvData))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"name"`)
}

func TestImportCSV_MandatoryDefaultsAndParsing(t *testing.T) {
	mem := store.NewMemory()
	importer := masters.NewImporter(mem)

	csvData := strings.Join([]string{
		"date,name,is_mandatory",
		"2025-01-01,Defaulted,",
		"2025-01-02,Optional,false",
		"2025-01-03,Explicit,yes",
	}, "\n")

	result, err := importer.ImportCSV(context.Background(), "loc-1", strings.NewReader(csvData))
	require.NoError(t, err)
	assert.Equal(t, 3, result.Imported)

	holidays, err := mem.HolidaysFor(context.Background(), "loc-1")
	require.NoError(t, err)
	require.Len(t, holidays, 3)
	assert.True(t, holidays[0].Mandatory, "blank defaults to mandatory")
	assert.False(t, holidays[1].Mandatory)
	assert.True(t, holidays[2].Mandatory)
}

// =============================================================================
// XLSX IMPORT TESTS
// =============================================================================

func TestImportXLSX(t *testing.T) {
	// GIVEN: A workbook with a header row and two holiday rows
	// WHEN: Importing
	// THEN: Both rows import with their columns mapped

	f := excelize.NewFile()
	rows := [][]any{
		{"Date", "Name", "Is_Mandatory", "Description"},
		{"2025-01-01", "New Year", "true", "First day"},
		{"2025-12-25", "Christmas", "false", ""},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	require.NoError(t, f.Close())

	mem := store.NewMemory()
	importer := masters.NewImporter(mem)

	result, err := importer.ImportXLSX(context.Background(), "loc-1", &buf)
	require.NoError(t, err)
	assert.Equal(t, 2, result.TotalRows)
	assert.Equal(t, 2, result.Imported)
	assert.Empty(t, result.Errors)

	holidays, err := mem.HolidaysFor(context.Background(), "loc-1")
	require.NoError(t, err)
	require.Len(t, holidays, 2)
	assert.Equal(t, "New Year", holidays[0].Name)
	assert.Equal(t, "Christmas", holidays[1].Name)
	assert.False(t, holidays[1].Mandatory)
}

func TestImportXLSX_NotAWorkbook_Error(t *testing.T) {
	importer := masters.NewImporter(store.NewMemory())

	_, err := importer.ImportXLSX(context.Background(), "loc-1", strings.NewReader("this is not xlsx"))
	assert.Error(t, err)
}
