package timesheet

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestParseHours(t *testing.T) {
	tests := []struct {
		raw      string
		want     string
		recorded bool
	}{
		{"", "0", false},
		{"   ", "0", false},
		{"8 hours", "8", true},
		{"4hours", "4", true},
		{"8.5 Hours", "8.5", true},
		{"HOURS", "0", true},
		{"hours worked: 6", "6", true},
		{"7", "7", false},
		{"7.25", "7.25", false},
		{"leave", "0", false},
		{"holiday", "0", false},
	}
	for _, tt := range tests {
		got, recorded := ParseHours(tt.raw)
		assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "raw %q: got %s", tt.raw, got)
		assert.Equal(t, tt.recorded, recorded, "raw %q", tt.raw)
	}
}

// buildWorkbook fabricates an xlsx stream in the upstream HR export
// layout: name at B2, location at B4, column headers on row 5, data
// rows after that.
func buildWorkbook(t *testing.T, hoursHeader string, entries [][2]string) []byte {
	t.Helper()

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	require.NoError(t, f.SetCellValue(sheet, "A2", "Employee Name"))
	require.NoError(t, f.SetCellValue(sheet, "B2", "Asha Rao"))
	require.NoError(t, f.SetCellValue(sheet, "A4", "Location"))
	require.NoError(t, f.SetCellValue(sheet, "B4", "Bengaluru"))
	require.NoError(t, f.SetCellValue(sheet, "A5", "Date"))
	require.NoError(t, f.SetCellValue(sheet, "B5", hoursHeader))

	for i, entry := range entries {
		row := 6 + i
		cellA, err := excelize.CoordinatesToCellName(1, row)
		require.NoError(t, err)
		cellB, err := excelize.CoordinatesToCellName(2, row)
		require.NoError(t, err)
		require.NoError(t, f.SetCellValue(sheet, cellA, entry[0]))
		if entry[1] != "" {
			require.NoError(t, f.SetCellValue(sheet, cellB, entry[1]))
		}
	}

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	require.NoError(t, f.Close())
	return buf.Bytes()
}

func TestParse_ReadsSheet(t *testing.T) {
	data := buildWorkbook(t, "Regular hours worked", [][2]string{
		{"01-01-2025", "8 hours"},
		{"02-01-2025", "4hours"},
		{"03-01-2025", ""},
		{"04-01-2025", "8 hours"},
	})

	sheet, err := Parse(bytes.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, "Asha Rao", sheet.EmployeeName)
	assert.Equal(t, "Bengaluru", sheet.Location)
	// The blank hours row is dropped.
	require.Len(t, sheet.Entries, 3)
	assert.Equal(t, "01-01-2025", sheet.Entries[0].Label)
	assert.Equal(t, "8 hours", sheet.Entries[0].Raw)
	assert.Equal(t, "4hours", sheet.Entries[1].Raw)
}

func TestParse_HoursHeaderVariants(t *testing.T) {
	for _, header := range []string{"Regular hours worked", "Hours Worked", "  regular hours  "} {
		data := buildWorkbook(t, header, [][2]string{{"01-01-2025", "8 hours"}})
		sheet, err := Parse(bytes.NewReader(data))
		require.NoError(t, err, "header %q", header)
		assert.Len(t, sheet.Entries, 1, "header %q", header)
	}
}

func TestParse_NoHoursColumn(t *testing.T) {
	data := buildWorkbook(t, "Overtime", [][2]string{{"01-01-2025", "8 hours"}})

	_, err := Parse(bytes.NewReader(data))
	assert.ErrorIs(t, err, ErrHoursColumnNotFound)
}

func TestParse_NotAnXlsx(t *testing.T) {
	_, err := Parse(bytes.NewReader([]byte("plainly not a workbook")))
	assert.Error(t, err)
}

func TestTotals_AnyEntryPolicy(t *testing.T) {
	sheet := &Sheet{Entries: []Entry{
		{Raw: "8 hours"},
		{Raw: "4hours"},
		{Raw: "leave"},
	}}

	totals := sheet.Totals(DayPolicyAnyEntry)

	assert.Equal(t, 3, totals.Entries)
	assert.True(t, totals.WorkedDays.Equal(decimal.NewFromInt(3)), "worked days = %s", totals.WorkedDays)
	assert.True(t, totals.Hours.Equal(decimal.NewFromInt(12)), "hours = %s", totals.Hours)
	// "leave" names no hour quantity.
	assert.Equal(t, 2, totals.RecordedDays)
}

func TestTotals_HourBucketsPolicy(t *testing.T) {
	sheet := &Sheet{Entries: []Entry{
		{Raw: "8 hours"},  // full day
		{Raw: "10 hours"}, // full day
		{Raw: "4 hours"},  // half day
		{Raw: "7 hours"},  // half day
		{Raw: "2 hours"},  // no day credit
		{Raw: "leave"},    // no day credit
	}}

	totals := sheet.Totals(DayPolicyHourBuckets)

	assert.True(t, totals.WorkedDays.Equal(decimal.NewFromFloat(3)), "worked days = %s", totals.WorkedDays)
	assert.True(t, totals.Hours.Equal(decimal.NewFromInt(31)), "hours = %s", totals.Hours)
	assert.Equal(t, 5, totals.RecordedDays)
	assert.Equal(t, 6, totals.Entries)
}

func TestTotals_Empty(t *testing.T) {
	sheet := &Sheet{}
	totals := sheet.Totals(DayPolicyAnyEntry)
	assert.Zero(t, totals.Entries)
	assert.True(t, totals.WorkedDays.IsZero())
	assert.True(t, totals.Hours.IsZero())
}
