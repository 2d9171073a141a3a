package timesheet

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// Sheet layout conventions fixed by the upstream HR export: employee
// name at row 2 col 2, work location at row 4 col 2, four header rows
// before the column-header row, data rows after it.
const (
	nameRowIdx     = 1
	nameColIdx     = 1
	locationRowIdx = 3
	locationColIdx = 1
	headerRowIdx   = 4
)

// fallbackHoursHeader is tried verbatim when no header matches the hints.
const fallbackHoursHeader = "Regular hours worked"

var hoursHeaderHints = []string{"regular hours worked", "hours worked", "regular hours"}

// ErrHoursColumnNotFound reports a sheet whose header row names no
// recognizable hours column.
var ErrHoursColumnNotFound = errors.New("timesheet: hours column not found")

// Entry is one raw timesheet row: its date/label cell and the raw hours
// cell text (e.g. "8 hours", "4hours", a bare number).
type Entry struct {
	Label string
	Raw   string
}

// Sheet is a parsed timesheet. Blank hours cells are dropped during
// parsing, so Entries holds only rows that carried a value.
type Sheet struct {
	EmployeeName string
	Location     string
	Entries      []Entry
}

// Parse reads the first worksheet of an xlsx stream into a Sheet.
func Parse(r io.Reader) (*Sheet, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open timesheet: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("failed to open timesheet: no worksheet found")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read timesheet: %w", err)
	}
	if len(rows) <= headerRowIdx {
		return nil, ErrHoursColumnNotFound
	}

	sheet := &Sheet{
		EmployeeName: cellValue(rows, nameRowIdx, nameColIdx),
		Location:     cellValue(rows, locationRowIdx, locationColIdx),
	}

	header := rows[headerRowIdx]
	hoursCol := detectHoursColumn(header)
	if hoursCol < 0 {
		return nil, ErrHoursColumnNotFound
	}

	for _, row := range rows[headerRowIdx+1:] {
		raw := strings.TrimSpace(rowValue(row, hoursCol))
		if raw == "" {
			continue
		}
		sheet.Entries = append(sheet.Entries, Entry{
			Label: strings.TrimSpace(rowValue(row, 0)),
			Raw:   raw,
		})
	}

	return sheet, nil
}

// detectHoursColumn matches the header row against the known hints,
// then against the fallback header verbatim. Returns -1 when neither
// is present.
func detectHoursColumn(header []string) int {
	for i, col := range header {
		normalized := strings.ToLower(strings.TrimSpace(col))
		for _, hint := range hoursHeaderHints {
			if strings.Contains(normalized, hint) {
				return i
			}
		}
	}
	for i, col := range header {
		if strings.TrimSpace(col) == fallbackHoursHeader {
			return i
		}
	}
	return -1
}

func cellValue(rows [][]string, row, col int) string {
	if row >= len(rows) {
		return ""
	}
	return strings.TrimSpace(rowValue(rows[row], col))
}

func rowValue(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return row[col]
}

var numberPattern = regexp.MustCompile(`\d+(?:\.\d+)?`)

// ParseHours extracts the hour quantity from one raw cell value.
// Cells naming an hour quantity ("8 hours", "4hours") take the first
// decimal number found, zero when none; other cells are parsed as bare
// numbers, zero on failure. The second return reports whether the cell
// names an hour quantity at all, which feeds the recorded-day count.
func ParseHours(raw string) (decimal.Decimal, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return decimal.Zero, false
	}

	lower := strings.ToLower(trimmed)
	if strings.Contains(lower, "hour") {
		match := numberPattern.FindString(lower)
		if match == "" {
			return decimal.Zero, true
		}
		value, err := decimal.NewFromString(match)
		if err != nil {
			return decimal.Zero, true
		}
		return value, true
	}

	value, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Zero, false
	}
	return value, false
}
