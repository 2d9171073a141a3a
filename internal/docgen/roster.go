package docgen

import (
	"log"
	"strconv"
	"strings"
)

// RosterMarker is the literal cell text identifying the roster
// template row.
const RosterMarker = "[name]"

// RosterLine is one employee's denormalized invoice-line projection.
// Fields irrelevant to the active column layout stay empty; missing
// values render as empty cells, never as errors.
type RosterLine struct {
	Name          string
	DateOfJoining string
	TotalDays     string
	WorkingDays   string
	Status        string
	Location      string
	NetAmount     string
	TotalHours    string
	HourlyRate    string
}

// ColumnLayout maps one roster line onto positional cell values, so
// the jurisdiction differences stay a data table rather than duplicated
// fill code.
type ColumnLayout func(serial int, line RosterLine) []string

// DomesticLayout is the INR invoice row:
// serial, name, DOJ, total days, working days, status, location, net.
func DomesticLayout(serial int, l RosterLine) []string {
	status := l.Status
	if status == "" {
		status = "Active"
	}
	return []string{
		strconv.Itoa(serial),
		l.Name,
		l.DateOfJoining,
		l.TotalDays,
		l.WorkingDays,
		status,
		l.Location,
		l.NetAmount,
	}
}

// ForeignLayout is the USD invoice row: name, hours, rate, net.
func ForeignLayout(_ int, l RosterLine) []string {
	return []string{
		l.Name,
		l.TotalHours,
		l.HourlyRate + " USD/hr",
		l.NetAmount,
	}
}

// ExpandRoster grows the table to one row per roster line. The first
// row containing the marker token becomes the template row and takes
// the first line; each further line is written into a structural clone
// of the most recently filled row, inserted immediately after it, so
// formatting stays stable across all generated rows. A table without a
// marker row is left untouched. Reports whether a marker row was found.
func ExpandRoster(t *Table, marker string, layout ColumnLayout, lines []RosterLine) bool {
	var tmpl *Row
	for _, row := range t.Rows() {
		if rowContains(row, marker) {
			tmpl = row
			break
		}
	}
	if tmpl == nil {
		log.Printf("docgen: roster marker %q not found in table, skipping roster expansion", marker)
		return false
	}
	if len(lines) == 0 {
		return true
	}

	fillRow(tmpl, layout(1, lines[0]))
	last := tmpl
	for i := 1; i < len(lines); i++ {
		clone := last.clone().(*Row)
		t.insertRowAfter(last, clone)
		fillRow(clone, layout(i+1, lines[i]))
		last = clone
	}
	return true
}

func rowContains(row *Row, marker string) bool {
	for _, cell := range row.Cells() {
		if strings.Contains(cell.Text(), marker) {
			return true
		}
	}
	return false
}

// fillRow writes values into the row by positional column index,
// bypassing token search so the marker itself can never be
// double-substituted. Each cell's first paragraph takes the value.
func fillRow(row *Row, values []string) {
	cells := row.Cells()
	for i, value := range values {
		if i >= len(cells) {
			break
		}
		paras := cells[i].Paragraphs()
		if len(paras) == 0 {
			continue
		}
		paras[0].setText(value)
	}
}
